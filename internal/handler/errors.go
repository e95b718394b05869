package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trip-planner/internal/domain"
)

// errorDetail and errorResponse are the JSON error envelope:
// {"error":{"code":"not_found","message":"trip not found"}}
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

// requestError is a malformed request rejected before reaching the service layer.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// writeJSON encodes body as the response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps err onto a status code and writes the error envelope.
// notFound is the message used when err does not name a more specific
// missing resource.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var (
		reqErr    *requestError
		tooLarge  *http.MaxBytesError
		status    int
		errDetail errorDetail
	)
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
		errDetail = errorDetail{Code: "payload_too_large", Message: "request body too large"}
	case errors.As(err, &reqErr):
		status = http.StatusBadRequest
		errDetail = errorDetail{Code: "bad_request", Message: reqErr.msg}
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusUnprocessableEntity
		errDetail = errorDetail{Code: "validation_error", Message: unwrapMessage(err)}
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		errDetail = errorDetail{Code: "not_found", Message: notFoundMessage(err, notFound)}
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		status = http.StatusInternalServerError
		errDetail = errorDetail{Code: "internal_error", Message: "internal server error"}
	}
	writeJSON(w, status, errorResponse{Error: errDetail})
}

// notFoundMessage prefers the most specific missing resource named in err.
func notFoundMessage(err error, fallback string) string {
	for _, target := range []error{domain.ErrItemNotFound, domain.ErrItineraryNotFound, domain.ErrTripNotFound} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return fallback
}

// unwrapMessage extracts the human-readable part from a wrapped validation error.
// e.g. "service.ItineraryService.EnsureDay: validation error: day must be at least 1" → "day must be at least 1"
func unwrapMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// readJSON decodes the request body into dst. Unknown fields are rejected.
func readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)

	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return badRequest("request body is required")
	case errors.As(err, &tooLarge), errors.Is(err, domain.ErrValidation):
		return err
	default:
		return badRequest("invalid JSON body: %v", err)
	}
}

// ---- parameter binding ----

// pathUUID binds a required UUID path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, badRequest("invalid %s: %v", name, err)
	}
	return id, nil
}

// pathInt binds a required integer path parameter.
func pathInt(r *http.Request, name string) (int, error) {
	var v int
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, badRequest("invalid %s: %v", name, err)
	}
	return v, nil
}

// queryInt binds an optional integer query parameter; nil when absent.
func queryInt(r *http.Request, name string) (*int, error) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, badRequest("invalid %s: %v", name, err)
	}
	return v, nil
}
