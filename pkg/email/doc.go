// Package email sends plain-text transactional mail through a pluggable
// transport.
//
// Every transport implements EmailSender. SendEmailParams describes one
// message; Validate rejects missing recipients and header injection attempts,
// and BuildMessage renders the RFC 5322 form used by SMTP and the development
// log: MIME encoded-words for non-ASCII subjects and display names, a
// "text/plain; charset=UTF-8" content type and a base64 body.
//
// Transports:
//
//   - NewPostmarkClient sends through the Postmark API.
//   - NewSMTPSender talks to an SMTP relay (STARTTLS and PLAIN auth).
//   - NewDevSender appends each message to a local log file instead of
//     sending it.
//   - NewLogSender only writes a log line.
//
// NewFromConfig picks one from Config.Transport. WithTimeout bounds every
// call; a timeout surfaces as ErrFailedToSendEmail like any other transport
// failure. There is no retry.
package email
