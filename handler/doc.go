// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a request value already decoded by
// the configured binders, and returns a Response that renders itself:
//
//	h := handler.HandlerFunc[handler.Context, SendRequest](
//		func(ctx handler.Context, req SendRequest) handler.Response {
//			return handler.Redirect("/thanks")
//		},
//	)
//	router.Post("/send", handler.Wrap(h,
//		handler.WithBinders[handler.Context, SendRequest](binder.Form()),
//		handler.WithErrorHandler[handler.Context, SendRequest](handler.NewErrorHandler(log)),
//	))
//
// Binding and rendering errors go to the ErrorHandler. NewErrorHandler
// classifies HTTPError and validator.ValidationErrors, logs with the request
// id, and answers JSON or plain text depending on the Accept header.
package handler
