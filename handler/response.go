package handler

import (
	"encoding/json"
	"net/http"
)

// JSONBody is the envelope written by JSON and JSONError.
type JSONBody struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONBody
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(j.status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(j.body)
}

// JSON answers 200 with v under "data".
func JSON(v any) Response {
	return jsonResponse{status: http.StatusOK, body: JSONBody{Data: v}}
}

func JSONError(status int, detail ErrorDetail) Response {
	return jsonResponse{status: status, body: JSONBody{Error: &detail}}
}

type redirectResponse struct {
	url  string
	code int
}

func (r redirectResponse) Render(w http.ResponseWriter, req *http.Request) error {
	http.Redirect(w, req, r.url, r.code)
	return nil
}

// Redirect answers 303 See Other, so a POST is followed by a GET.
func Redirect(url string) Response {
	return redirectResponse{url: url, code: http.StatusSeeOther}
}

type emptyResponse struct{ status int }

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

func Empty() Response { return emptyResponse{status: http.StatusNoContent} }

// ResponseFunc adapts a plain function to Response.
type ResponseFunc func(w http.ResponseWriter, r *http.Request) error

func (f ResponseFunc) Render(w http.ResponseWriter, r *http.Request) error { return f(w, r) }
