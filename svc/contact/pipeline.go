package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/webtailor/contactkit/pkg/audit"
	"github.com/webtailor/contactkit/pkg/csrf"
	"github.com/webtailor/contactkit/pkg/email"
	"github.com/webtailor/contactkit/pkg/logger"
	"github.com/webtailor/contactkit/pkg/session"
	"github.com/webtailor/contactkit/pkg/statemachine"
	"github.com/webtailor/contactkit/pkg/validator"
)

// Pipeline states.
const (
	StateReceived   statemachine.State = "received"
	StateSanitized  statemachine.State = "sanitized"
	StateValidated  statemachine.State = "validated"
	StateComposed   statemachine.State = "composed"
	StateDelivering statemachine.State = "delivering"
	StateLogged     statemachine.State = "logged"
	StateSuccess    statemachine.State = "success"
	StateFailure    statemachine.State = "failure"
)

const (
	eventSanitize statemachine.Event = "sanitize"
	eventValidate statemachine.Event = "validate"
	eventCompose  statemachine.Event = "compose"
	eventDeliver  statemachine.Event = "deliver"
	eventLog      statemachine.Event = "log"
	eventFinish   statemachine.Event = "finish"
	eventHold     statemachine.Event = "hold"
	eventFail     statemachine.Event = "fail"
)

var pipelineDefinition = statemachine.MustNewDefinition(StateReceived,
	statemachine.WithTransition(StateReceived, StateSanitized, eventSanitize),
	statemachine.WithTransition(StateSanitized, StateValidated, eventValidate),
	statemachine.WithTransition(StateValidated, StateComposed, eventCompose),
	statemachine.WithTransition(StateValidated, StateSuccess, eventHold),
	statemachine.WithTransition(StateComposed, StateDelivering, eventDeliver),
	statemachine.WithTransition(StateDelivering, StateLogged, eventLog),
	statemachine.WithTransition(StateLogged, StateSuccess, eventFinish),
	statemachine.WithTransitionFromAny(
		[]statemachine.State{StateReceived, StateSanitized, StateValidated, StateComposed, StateDelivering, StateLogged},
		StateFailure, eventFail,
	),
	statemachine.WithFinal(StateSuccess, StateFailure),
)

// Session keys written by the pipeline.
const (
	SessionKeyFormData    = "contact_form_data"
	SessionKeySubmittedAt = "form_submitted_at"
	SessionKeyErrors      = "form_errors"
	SessionKeyRefill      = "form_data"
)

// Error reasons appended to the form redirect as ?error=.
const (
	ReasonValidation = "validation"
	ReasonSend       = "send"
	ReasonSystem     = "system"
)

// Status is the terminal result of a run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	// StatusIgnored is returned for non-POST requests, which never enter the
	// pipeline.
	StatusIgnored Status = "ignored"
)

// FailureKind classifies a failed run.
type FailureKind string

const (
	KindNone       FailureKind = ""
	KindValidation FailureKind = "validation"
	KindForgery    FailureKind = "forgery"
	KindSystem     FailureKind = "system"
)

// Input is everything a run needs from the request. Session may be nil, in
// which case nothing is stored and the strict policy always rejects.
type Input struct {
	Method     string
	Submission Submission
	CSRFToken  string
	Session    *session.Session
	ClientIP   string
	UserAgent  string
	RequestID  string
}

func (in Input) csrfToken() string {
	if in.CSRFToken != "" {
		return in.CSRFToken
	}
	return in.Submission.CSRFToken
}

// Outcome is the result of one run.
type Outcome struct {
	Status         Status
	Kind           FailureKind
	Redirect       string
	Errors         map[string]string
	Message        string
	Submission     Submission
	Admin          Delivery
	Reply          Delivery
	AdminDelivered bool
	AdminSkipped   bool
	ReplyDelivered bool
	AuditWritten   bool
	Trace          []statemachine.State
}

// Pipeline runs contact submissions for one policy. It is safe for
// concurrent use; all per-request state lives in Input and the returned
// Outcome.
type Pipeline struct {
	policy        Policy
	sender        email.EmailSender
	journal       audit.Appender[AuditRecord]
	composer      *Composer
	rules         RuleConfig
	redirects     Redirects
	adminAddress  string
	adminNotify   bool
	replyFrom     string
	replyFromName string
	mailTimeout   time.Duration
	log           *slog.Logger
	now           func() time.Time
}

// NewPipeline builds a pipeline. sender and journal may be nil only for the
// confirm policy, which never sends.
func NewPipeline(policy Policy, sender email.EmailSender, journal audit.Appender[AuditRecord], opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		policy:      policy,
		sender:      sender,
		journal:     journal,
		composer:    NewComposer(nil),
		rules:       DefaultRuleConfig(),
		redirects:   DefaultRedirects(),
		adminNotify: true,
		log:         slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if policy.Sends() && (p.sender == nil || p.journal == nil) {
		panic(fmt.Sprintf("contact: %s policy requires a mail sender and an audit journal", policy))
	}
	if p.mailTimeout > 0 && p.sender != nil {
		p.sender = email.WithTimeout(p.sender, p.mailTimeout)
	}
	p.log = p.log.With(logger.Component("contact"), logger.Policy(policy.String()))
	return p
}

func (p *Pipeline) Policy() Policy { return p.policy }

func (p *Pipeline) Labels() *Labels { return p.composer.Labels() }

// Sends reports whether a valid submission is delivered.
func (p *Pipeline) Sends() bool { return p.policy.Sends() }

// Run processes one submission. It never panics and never returns an
// error: every failure is reflected in the Outcome.
func (p *Pipeline) Run(ctx context.Context, in Input) (out Outcome) {
	if in.Method != http.MethodPost {
		return Outcome{Status: StatusIgnored, Redirect: p.redirects.Form}
	}

	start := p.now()
	m := pipelineDefinition.Start()
	defer func() {
		if r := recover(); r != nil {
			out = p.systemFailure(ctx, in, m, fmt.Errorf("%w: %v", ErrPanic, r))
		}
		out.Trace = m.History()
		p.log.InfoContext(ctx, "contact submission finished",
			logger.Event("contact.finished"),
			logger.State(string(m.Current())),
			slog.String("status", string(out.Status)),
			logger.Duration(time.Since(start)),
		)
	}()

	if p.policy.ChecksForgery() {
		if err := csrf.Verify(in.Session, in.csrfToken()); err != nil {
			p.log.WarnContext(ctx, "anti-forgery check failed", logger.Event("contact.forgery"), logger.Error(err))
			return p.fail(ctx, in, m, in.Submission.Sanitized(), KindForgery, nil, p.Labels().Messages.Forgery)
		}
	}

	if err := m.Fire(ctx, eventSanitize, nil); err != nil {
		return p.systemFailure(ctx, in, m, err)
	}
	sub := in.Submission.Sanitized()

	if err := p.policy.Validate(sub, p.Labels(), p.rules); err != nil {
		verrs := validator.ExtractValidationErrors(err)
		if verrs == nil {
			return p.systemFailure(ctx, in, m, err)
		}
		p.log.InfoContext(ctx, "contact submission rejected",
			logger.Event("contact.invalid"),
			logger.Fields(verrs.Fields()),
		)
		return p.fail(ctx, in, m, sub, KindValidation, verrs.Map(), p.validationMessage(verrs))
	}
	if err := m.Fire(ctx, eventValidate, nil); err != nil {
		return p.systemFailure(ctx, in, m, err)
	}

	if !p.policy.Sends() {
		return p.hold(ctx, in, m, sub)
	}
	return p.deliver(ctx, in, m, sub)
}

// hold parks a valid submission for the confirmation page.
func (p *Pipeline) hold(ctx context.Context, in Input, m *statemachine.Machine, sub Submission) Outcome {
	in.Session.Set(SessionKeyFormData, sub.Fields())
	in.Session.Set(SessionKeySubmittedAt, p.now().Unix())
	in.Session.Delete(SessionKeyErrors, SessionKeyRefill)

	if err := m.Fire(ctx, eventHold, nil); err != nil {
		return p.systemFailure(ctx, in, m, err)
	}
	return Outcome{
		Status:     StatusSuccess,
		Redirect:   p.redirects.Confirm,
		Submission: sub,
	}
}

func (p *Pipeline) deliver(ctx context.Context, in Input, m *statemachine.Machine, sub Submission) Outcome {
	at := p.now()

	adminParams, replyParams, err := p.compose(sub, in.ClientIP, at)
	if err != nil {
		return p.systemFailure(ctx, in, m, err)
	}
	if err := m.Fire(ctx, eventCompose, nil); err != nil {
		return p.systemFailure(ctx, in, m, err)
	}
	if err := m.Fire(ctx, eventDeliver, nil); err != nil {
		return p.systemFailure(ctx, in, m, err)
	}

	// Mail and audit outlive a cancelled request; the mail timeout bounds them.
	sideCtx := context.WithoutCancel(ctx)

	var (
		wg           sync.WaitGroup
		admin, reply Delivery
	)
	if p.adminNotify && p.adminAddress != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admin = send(sideCtx, p.sender, adminParams)
		}()
	} else {
		admin = skipped(adminParams)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		reply = send(sideCtx, p.sender, replyParams)
	}()
	wg.Wait()

	p.logDelivery(ctx, "admin", admin)
	p.logDelivery(ctx, "reply", reply)

	record := newAuditRecord(in, sub, p.policy, at, admin, reply)
	written := p.appendAudit(sideCtx, record)
	if err := m.Fire(ctx, eventLog, nil); err != nil {
		return p.systemFailure(ctx, in, m, err)
	}

	in.Session.Delete(SessionKeyFormData, SessionKeySubmittedAt, csrf.SessionKey, SessionKeyErrors, SessionKeyRefill)
	in.Session.AddFlash(session.FlashSuccess, p.Labels().Messages.Success)

	if err := m.Fire(ctx, eventFinish, nil); err != nil {
		return p.systemFailure(ctx, in, m, err)
	}
	return Outcome{
		Status:         StatusSuccess,
		Redirect:       p.redirects.Thanks,
		Message:        p.Labels().Messages.Success,
		Submission:     sub,
		Admin:          admin,
		Reply:          reply,
		AdminDelivered: admin.Status == DeliveryDelivered,
		AdminSkipped:   admin.Status == DeliverySkipped,
		ReplyDelivered: reply.Status == DeliveryDelivered,
		AuditWritten:   written,
	}
}

// compose builds both messages. The admin notice goes from the site sender
// with the submitter as display name and Reply-To.
func (p *Pipeline) compose(sub Submission, remoteAddr string, at time.Time) (admin, reply email.SendEmailParams, err error) {
	adminBody, err := p.composer.AdminNotice(sub, remoteAddr, at)
	if err != nil {
		return admin, reply, err
	}
	replyBody, err := p.composer.AutoReply(sub, at)
	if err != nil {
		return admin, reply, err
	}

	submitter := headerValue(sub.Email)
	admin = email.SendEmailParams{
		To:       p.adminAddress,
		Subject:  p.composer.AdminSubject(sub),
		BodyText: adminBody,
		FromName: headerValue(sub.Name),
		ReplyTo:  submitter,
		Tag:      tagAdmin,
	}
	reply = email.SendEmailParams{
		To:       submitter,
		Subject:  p.composer.ReplySubject(),
		BodyText: replyBody,
		From:     p.replyFrom,
		FromName: p.replyFromName,
		ReplyTo:  p.replyFrom,
		Tag:      tagReply,
	}
	return admin, reply, nil
}

func (p *Pipeline) appendAudit(ctx context.Context, record AuditRecord) (written bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.ErrorContext(ctx, "audit journal panicked",
				logger.Event("contact.audit_failed"),
				logger.Error(fmt.Errorf("%w: %v", ErrPanic, r)),
			)
			written = false
		}
	}()
	if err := p.journal.Append(ctx, record); err != nil {
		p.log.ErrorContext(ctx, "failed to append audit record",
			logger.Event("contact.audit_failed"),
			logger.Error(err),
		)
		return false
	}
	return true
}

func (p *Pipeline) logDelivery(ctx context.Context, kind string, d Delivery) {
	attrs := []any{
		logger.Event("contact.mail"),
		slog.String("mail", kind),
		slog.String("status", string(d.Status)),
	}
	if d.Params.To != "" {
		attrs = append(attrs, logger.Recipient(d.Params.To))
	}
	if d.Status == DeliveryFailed {
		p.log.ErrorContext(ctx, "mail delivery failed", append(attrs, logger.Error(d.Err))...)
		return
	}
	p.log.InfoContext(ctx, "mail delivery", attrs...)
}

// fail ends the run as a user-correctable failure and stores the detail and
// the sanitized values for re-display.
func (p *Pipeline) fail(ctx context.Context, in Input, m *statemachine.Machine, sub Submission, kind FailureKind, errs map[string]string, message string) Outcome {
	if err := m.Fire(ctx, eventFail, nil); err != nil {
		p.log.ErrorContext(ctx, "illegal pipeline transition", logger.Error(err))
	}

	if errs != nil {
		in.Session.Set(SessionKeyErrors, errs)
	}
	in.Session.Set(SessionKeyRefill, sub.Fields())
	in.Session.AddFlash(session.FlashError, message)

	reason := ReasonValidation
	if p.policy == PolicySimple {
		reason = ReasonSend
	}
	return Outcome{
		Status:     StatusFailure,
		Kind:       kind,
		Redirect:   p.formRedirect(reason),
		Errors:     errs,
		Message:    message,
		Submission: sub,
	}
}

// systemFailure ends the run after an unexpected error. No mail or audit
// happens after this point.
func (p *Pipeline) systemFailure(ctx context.Context, in Input, m *statemachine.Machine, err error) Outcome {
	p.log.ErrorContext(ctx, "contact pipeline failed",
		logger.Event("contact.system_failure"),
		logger.State(string(m.Current())),
		logger.Error(err),
	)
	if !m.Done() {
		if ferr := m.Fire(ctx, eventFail, nil); ferr != nil && !errors.Is(ferr, statemachine.ErrFinalState) {
			p.log.ErrorContext(ctx, "illegal pipeline transition", logger.Error(ferr))
		}
	}

	message := p.Labels().Messages.System
	reason := ReasonSystem
	if p.policy.Sends() {
		message = p.Labels().Messages.SendFailed
		reason = ReasonSend
	}
	in.Session.AddFlash(session.FlashError, message)
	return Outcome{
		Status:   StatusFailure,
		Kind:     KindSystem,
		Redirect: p.formRedirect(reason),
		Message:  message,
	}
}

// validationMessage is the flash text. The simple policy reports a generic
// message; the others report the first violation.
func (p *Pipeline) validationMessage(errs validator.ValidationErrors) string {
	if p.policy == PolicySimple {
		return p.Labels().Messages.SendFailed
	}
	if first, ok := errs.First(); ok {
		return first.Message
	}
	return p.Labels().Messages.RequiredAny
}

func (p *Pipeline) formRedirect(reason string) string {
	u, err := url.Parse(p.redirects.Form)
	if err != nil {
		return p.redirects.Form + "?error=" + url.QueryEscape(reason)
	}
	q := u.Query()
	q.Set("error", reason)
	u.RawQuery = q.Encode()
	return u.String()
}
