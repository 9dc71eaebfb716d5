package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/memeforge/memeforge/internal/auth"
	"github.com/memeforge/memeforge/internal/billing"
	"github.com/memeforge/memeforge/internal/entitlement"
	"github.com/memeforge/memeforge/internal/meme"
	"github.com/memeforge/memeforge/internal/subscription"
)

// Envelope is the standard JSON response structure.
type Envelope struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries error information in the envelope.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HTTPError pairs an HTTP status with a stable machine-readable code.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e HTTPError) Error() string { return e.Code }

var (
	errBadRequest   = HTTPError{Status: http.StatusBadRequest, Code: "bad_request", Message: "invalid request"}
	errUnauthorized = HTTPError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "authentication required"}
	errForbidden    = HTTPError{Status: http.StatusForbidden, Code: "forbidden", Message: "admin access required"}
	errNotFound     = HTTPError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Data: data})
}

// respondError maps domain errors onto HTTP statuses and writes the error
// envelope. Unrecognized errors become an opaque 500 so internal detail
// never leaks to clients.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	httpErr := classifyError(err)
	if httpErr.Status >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(httpErr.Status)
	_ = json.NewEncoder(w).Encode(Envelope{Error: &ErrorDetail{
		Code:    httpErr.Code,
		Message: httpErr.Message,
	}})
}

func classifyError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return HTTPError{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "invalid email or password"}
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidSignature):
		return errUnauthorized
	case errors.Is(err, auth.ErrEmailTaken):
		return HTTPError{Status: http.StatusConflict, Code: "email_taken", Message: "email is already registered"}
	case errors.Is(err, auth.ErrWeakPassword):
		return HTTPError{Status: http.StatusUnprocessableEntity, Code: "weak_password", Message: "password must be at least 8 characters"}
	case errors.Is(err, auth.ErrInvalidEmail):
		return HTTPError{Status: http.StatusUnprocessableEntity, Code: "invalid_email", Message: "email address is not valid"}
	case errors.Is(err, subscription.ErrInvalidPlanType),
		errors.Is(err, subscription.ErrPlanNotFound):
		return HTTPError{Status: http.StatusUnprocessableEntity, Code: "unknown_plan", Message: "unknown subscription plan"}
	case errors.Is(err, meme.ErrNotFound),
		errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, subscription.ErrNotFound):
		return errNotFound
	case errors.Is(err, billing.ErrWebhookVerificationFailed),
		errors.Is(err, billing.ErrMalformedWebhookPayload):
		return HTTPError{Status: http.StatusBadRequest, Code: "invalid_webhook", Message: "webhook rejected"}
	case errors.Is(err, entitlement.ErrStoreUnavailable):
		// The usage store being down is retriable; say that and nothing else.
		return HTTPError{Status: http.StatusServiceUnavailable, Code: "temporarily_unavailable", Message: "please try again in a moment"}
	default:
		return HTTPError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "something went wrong"}
	}
}
