package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/fleet-dashboard/internal/domain"
	"github.com/pkordes/fleet-dashboard/internal/listview"
	"github.com/pkordes/fleet-dashboard/internal/repo"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeNotFound       = "not_found"
	codeValidation     = "validation_error"
	codeUnauthorized   = "unauthorized"
	codeBackend        = "backend_error"
	codeTooLarge       = "request_too_large"
	codeInternal       = "internal_error"
	msgInternal        = "internal server error"
	msgViewNotFound    = "view not found"
	msgInvalidBody     = "request body must be valid JSON"
	msgSessionExpired  = "Your session has expired. Please sign in again."
	msgRequestTooLarge = "request body too large"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeError maps a service error onto a status and error body.
// Unknown errors are logged and reported as 500 without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeErrorBody(w, http.StatusRequestEntityTooLarge, codeTooLarge, msgRequestTooLarge)
	case errors.Is(err, listview.ErrClosed):
		writeErrorBody(w, http.StatusNotFound, codeNotFound, msgViewNotFound)
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, codeNotFound, unwrapMessage(err, domain.ErrNotFound))
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrUnauthorized):
		writeErrorBody(w, http.StatusUnauthorized, codeUnauthorized, msgSessionExpired)
	case errors.Is(err, domain.ErrBackend):
		writeErrorBody(w, http.StatusBadGateway, codeBackend, repo.UserMessage(err))
	default:
		s.log.ErrorContext(r.Context(), "unhandled error", "error", err, "path", r.URL.Path)
		writeErrorBody(w, http.StatusInternalServerError, codeInternal, msgInternal)
	}
}

// unwrapMessage extracts the human-readable part that follows a sentinel.
// e.g. "service.InvoiceService.Create: validation error: car_id is required" → "car_id is required"
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	var apiErr *repo.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}

// decodeBody decodes a JSON request body into v. Unknown fields are rejected.
func decodeBody(r *http.Request, v any) error {
	return decodeJSON(r, v, false)
}

// decodeOptionalBody is decodeBody for requests whose body may be absent.
// An empty body leaves v untouched, whatever Content-Length claimed.
func decodeOptionalBody(r *http.Request, v any) error {
	return decodeJSON(r, v, true)
}

func decodeJSON(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, msgInvalidBody)
	}
	return nil
}

// bindQuery binds an optional form-style query parameter into dest.
func bindQuery(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("%w: invalid query parameter %s", domain.ErrValidation, name)
	}
	return nil
}

// bindPath binds a required simple-style path parameter into dest.
func bindPath(value, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, value, dest, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return fmt.Errorf("%w: invalid path parameter %s", domain.ErrValidation, name)
	}
	return nil
}
