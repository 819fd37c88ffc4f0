package web

// errors.go turns errors into responses.
//
// Every error is logged with its technical detail and the request ID, then
// mapped through core.MapError and answered in the shape the client asked
// for: an HTML fragment for HTMX, JSON for API clients, or plain text.
// Form submissions re-render the whole page instead; see renderFormError.

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/synthdata/internal/core"
	"github.com/JonMunkholm/synthdata/internal/logging"
	"github.com/JonMunkholm/synthdata/internal/schema"
	"github.com/JonMunkholm/synthdata/internal/web/templates"
)

// ErrorResponse is the JSON body of API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	var (
		ve  schema.ValidationError
		tm  schema.TypeMismatchError
		le  *core.LimitError
		mbe *http.MaxBytesError
	)
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &ve), errors.As(err, &tm), errors.Is(err, errBadDocument):
		return http.StatusBadRequest
	case errors.As(err, &le):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyGenerations), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a user-facing error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	ue := core.NewUserError(err)
	logError(r, ue, status)
	msg := ue.User

	switch {
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if rerr := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); rerr != nil {
			logging.FromContext(r.Context()).Error("render error alert", "error", rerr)
		}
	case wantsJSON(r):
		writeJSONStatus(w, status, ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
	default:
		http.Error(w, msg.Message+" ("+msg.Code+")", status)
	}
}

// renderFormError shows the form again, as submitted, with the error above it.
func (s *Server) renderFormError(w http.ResponseWriter, r *http.Request, form templates.FormData, err error) {
	if isHTMX(r) {
		s.respondError(w, r, err)
		return
	}

	status := statusFor(err)
	ue := core.NewUserError(err)
	logError(r, ue, status)
	msg := ue.User

	s.renderPage(w, r, status, templates.PageParams{
		Form:  form,
		Error: &templates.AlertParams{Message: msg.Message, Action: msg.Action, Code: msg.Code},
	})
}

// logError logs the technical side of ue. Errors without a specific user
// message are logged at error level whatever their status.
func logError(r *http.Request, ue *core.UserError, status int) {
	logger := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", ue.Technical.Error(),
		"code", ue.User.Code,
	}
	if status >= http.StatusInternalServerError || !core.IsUserFacing(ue.Technical) {
		logger.Error("request error", args...)
		return
	}
	logger.Warn("request rejected", args...)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
