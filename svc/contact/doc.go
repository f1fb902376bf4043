// Package contact implements the contact-form submission pipeline.
//
// A submission moves through sanitize, validate, compose, deliver and log
// before the requester is redirected. One Pipeline is parameterised by a
// Policy:
//
//   - PolicySimple validates fail-fast with a small required set and reports a
//     generic message.
//   - PolicyStrict checks the anti-forgery token first, then validates
//     fail-fast with consent and length limits.
//   - PolicyConfirm validates collect-all and parks the sanitized data in the
//     session for a confirmation page instead of sending.
//
// Delivery is best effort: a failed mail is logged and recorded in the audit
// journal but the requester still sees success.
//
// Basic usage:
//
//	p := contact.NewPipeline(contact.PolicyStrict, sender, journal,
//		contact.WithAdminAddress("info@example.com"),
//		contact.WithLogger(log),
//	)
//	out := p.Run(ctx, contact.Input{Method: http.MethodPost, Submission: sub, Session: sess})
//	http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
//
// Service wires pipelines to HTTP routes with session, rate limiting and
// security headers.
package contact
