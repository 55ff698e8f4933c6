package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

var (
	// ErrUnauthorized means the caller had no usable session to begin with.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired means a request was rejected and the follow-up
	// refresh failed; the user must authenticate again. Distinct from
	// ErrUnavailable because retrying is pointless.
	ErrSessionExpired = errors.New("session expired")

	// ErrValidation means the backend rejected the request body.
	ErrValidation = errors.New("validation error")

	// ErrUnavailable covers network failures and unclassified server errors.
	ErrUnavailable = errors.New("server unavailable")
)

// Error is a normalized backend failure. Message is always human-readable;
// errors.Is matches the sentinel for the failure class.
type Error struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.kind
}

// errorBody is the backend's error envelope. The response field carries
// either a plain message string or an object whose message field is a list
// of validation messages.
type errorBody struct {
	StatusCode int             `json:"statusCode"`
	Response   json.RawMessage `json:"response"`
}

type errorDetail struct {
	Message json.RawMessage `json:"message"`
}

// normalizeError converts a non-2xx response body into a single *Error.
func normalizeError(status int, body []byte) error {
	msg := extractMessage(body)
	if msg == "" {
		msg = "Internal Server Error"
	}

	kind := ErrUnavailable
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrUnauthorized
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = ErrValidation
	}

	return &Error{StatusCode: status, Message: msg, kind: kind}
}

func extractMessage(body []byte) string {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Response) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Response, &s); err == nil {
		return s
	}

	var detail errorDetail
	if err := json.Unmarshal(envelope.Response, &detail); err != nil || len(detail.Message) == 0 {
		return ""
	}

	var one string
	if err := json.Unmarshal(detail.Message, &one); err == nil {
		return one
	}

	var many []string
	if err := json.Unmarshal(detail.Message, &many); err == nil {
		return strings.Join(many, ", ")
	}

	return ""
}

func wrapTransport(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
