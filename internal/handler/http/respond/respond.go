// Package respond writes JSON responses and maps domain errors onto HTTP
// status codes. Internal failures are logged and never shown to clients.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"typoteka/internal/domain/entity"
	"typoteka/internal/observability/logging"
	"typoteka/internal/usecase/guard"
)

// internalMessage replaces every 5xx error body.
const internalMessage = "internal server error"

// ErrorBody is the body of every non-validation error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// FieldError is one entry of ValidationBody.Errors.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationBody lists every violation found in a payload.
type ValidationBody struct {
	ValidationMessages []string     `json:"validationMessages"`
	Errors             []FieldError `json:"errors"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// headers are already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// StatusFor returns the status code err should be answered with.
func StatusFor(err error) int {
	switch guard.Classify(err) {
	case guard.Pass:
		return http.StatusOK
	case guard.BadRequest, guard.Invalid:
		return http.StatusBadRequest
	case guard.NotFound:
		return http.StatusNotFound
	case guard.Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error answers r with the status and body matching err. Validation errors
// are listed in full; internal errors are logged and replaced by a generic
// message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	var violations entity.ValidationErrors
	if errors.As(err, &violations) {
		JSON(w, http.StatusBadRequest, NewValidationBody(violations))
		return
	}

	SafeError(w, r, StatusFor(err), err)
}

// NewValidationBody converts violations into the response body.
func NewValidationBody(violations entity.ValidationErrors) ValidationBody {
	body := ValidationBody{
		ValidationMessages: violations.Messages(),
		Errors:             make([]FieldError, 0, len(violations)),
	}
	for _, v := range violations {
		body.Errors = append(body.Errors, FieldError{Field: v.Field, Message: v.Message})
	}
	return body
}

// SafeError writes err with code. For 5xx codes the message is replaced and
// the sanitized error is logged with the request's logger.
func SafeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	if err == nil {
		return
	}
	if code < http.StatusInternalServerError {
		JSON(w, code, ErrorBody{Error: err.Error()})
		return
	}

	logger := slog.Default()
	if r != nil {
		logger = logging.FromContext(r.Context())
	}
	logger.Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, ErrorBody{Error: internalMessage})
}

// Message writes a plain error body for failures detected in the handler
// itself, such as an undecodable request body.
func Message(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, ErrorBody{Error: msg})
}
