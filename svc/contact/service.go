package contact

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/webtailor/contactkit/handler"
	"github.com/webtailor/contactkit/pkg/binder"
	"github.com/webtailor/contactkit/pkg/clientip"
	"github.com/webtailor/contactkit/pkg/csrf"
	"github.com/webtailor/contactkit/pkg/logger"
	"github.com/webtailor/contactkit/pkg/ratelimit"
	"github.com/webtailor/contactkit/pkg/requestid"
	"github.com/webtailor/contactkit/pkg/session"
)

// Service exposes the contact pipelines over HTTP.
type Service struct {
	sessions     *session.Manager
	send         *Pipeline
	confirm      *Pipeline
	limiter      ratelimit.Limiter
	errorHandler handler.ErrorHandler[handler.Context]
	log          *slog.Logger
}

type ServiceOption func(*Service)

// WithRateLimiter limits POSTs per client IP.
func WithRateLimiter(l ratelimit.Limiter) ServiceOption {
	return func(s *Service) { s.limiter = l }
}

func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithErrorHandler(h handler.ErrorHandler[handler.Context]) ServiceOption {
	return func(s *Service) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

// NewService wires the send step and the confirm step. confirm may be nil,
// in which case /contact/process is not mounted.
func NewService(sessions *session.Manager, send, confirm *Pipeline, opts ...ServiceOption) *Service {
	if sessions == nil || send == nil {
		panic("contact: session manager and send pipeline are required")
	}
	s := &Service{
		sessions: sessions,
		send:     send,
		confirm:  confirm,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler(s.log)
	}
	return s
}

// Handle returns the contact routes:
//
//	POST /contact/process  confirm step
//	POST /contact/send     send step
//	GET  /contact/session  form state for the view layer
//
// Any other method on the POST routes redirects to the form.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(SecurityHeaders)
	r.Use(s.sessions.Middleware)

	r.Get("/contact/session", handler.Wrap(s.sessionState,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	posts := r.With(s.postLimit)
	if s.confirm != nil {
		posts.HandleFunc("/contact/process", s.submit(s.confirm))
	}
	posts.HandleFunc("/contact/send", s.submit(s.send))
	return r
}

// SecurityHeaders sets the headers every contact response carries.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		next.ServeHTTP(w, r)
	})
}

func (s *Service) postLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	limited := ratelimit.Middleware(s.limiter, ratelimit.ByIP,
		ratelimit.WithOnError(func(r *http.Request, err error) {
			s.log.WarnContext(r.Context(), "rate limiter unavailable", logger.Error(err))
		}),
	)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

func (s *Service) submit(p *Pipeline) http.HandlerFunc {
	wrapped := handler.Wrap(
		func(ctx handler.Context, sub Submission) handler.Response {
			return s.run(ctx, p, sub)
		},
		handler.WithBinders[handler.Context, Submission](binder.Form()),
		handler.WithErrorHandler[handler.Context, Submission](s.errorHandler),
	)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Redirect(w, r, p.redirects.Form, http.StatusSeeOther)
			return
		}
		wrapped(w, r)
	}
}

func (s *Service) run(ctx handler.Context, p *Pipeline, sub Submission) handler.Response {
	r := ctx.Request()
	sess, _ := session.FromContext(ctx)

	// The confirm page may post only the token; the parked data is used then.
	if p.Sends() && sub.empty() {
		if parked, ok := sess.GetStringMap(SessionKeyFormData); ok {
			token := sub.CSRFToken
			sub = SubmissionFromFields(parked)
			sub.CSRFToken = token
		}
	}

	out := p.Run(ctx, Input{
		Method:     r.Method,
		Submission: sub,
		Session:    sess,
		ClientIP:   clientIP(r),
		UserAgent:  r.UserAgent(),
		RequestID:  requestid.FromContext(ctx),
	})

	if sess != nil {
		if err := s.sessions.Save(ctx, sess); err != nil {
			s.log.ErrorContext(ctx, "failed to save session", logger.Error(err))
		}
	}
	return handler.Redirect(out.Redirect)
}

func (sub Submission) empty() bool {
	sub.CSRFToken = ""
	return sub == Submission{}
}

// SessionState is what the form, confirm and thank-you views need to render.
// Errors, refill values and flashes are consumed by the read.
type SessionState struct {
	CSRFToken   string              `json:"csrf_token"`
	Pending     map[string]string   `json:"contact_form_data,omitempty"`
	SubmittedAt int64               `json:"form_submitted_at,omitempty"`
	Errors      map[string]string   `json:"form_errors,omitempty"`
	Refill      map[string]string   `json:"form_data,omitempty"`
	Flashes     map[string][]string `json:"flashes"`
}

func (s *Service) sessionState(ctx handler.Context, _ struct{}) handler.Response {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return handler.JSONError(http.StatusInternalServerError, handler.ErrorDetail{Code: "session_unavailable"})
	}

	token, err := csrf.Token(sess)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to issue anti-forgery token", logger.Error(err))
		return handler.JSONError(http.StatusInternalServerError, handler.ErrorDetail{Code: "token_unavailable"})
	}

	state := SessionState{CSRFToken: token}
	state.Pending, _ = sess.GetStringMap(SessionKeyFormData)
	state.SubmittedAt, _ = sess.GetInt64(SessionKeySubmittedAt)
	state.Errors, _ = sess.GetStringMap(SessionKeyErrors)
	state.Refill, _ = sess.GetStringMap(SessionKeyRefill)
	state.Flashes = sess.PopFlashes()
	sess.Delete(SessionKeyErrors, SessionKeyRefill)

	if err := s.sessions.Save(ctx, sess); err != nil {
		s.log.ErrorContext(ctx, "failed to save session", logger.Error(err))
		return handler.JSONError(http.StatusInternalServerError, handler.ErrorDetail{Code: "session_unavailable"})
	}
	return handler.JSON(state)
}

func clientIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}
