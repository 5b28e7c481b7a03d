package assistant

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind categorizes a failed assistant request.
type Kind string

// Failure kinds.
const (
	KindMissingCredential Kind = "missing_credential"
	KindInvalidCredential Kind = "invalid_credential"
	KindQuotaExceeded     Kind = "quota_exceeded"
	KindNetwork           Kind = "network"
	KindTimeout           Kind = "timeout"
	KindUnknown           Kind = "unknown"
)

// GenericFailure is shown when nothing more specific is known.
const GenericFailure = "Connectivity or service issue. Please check your network and try again."

var kindMessages = map[Kind]string{
	KindMissingCredential: "The assistant is not configured. Set GEMINI_API_KEY (or GPT_CHAT_KEY) and restart.",
	KindInvalidCredential: "The AI service rejected the configured API key. Check the key and try again.",
	KindQuotaExceeded:     "The AI service quota is exhausted for now. Please wait a minute and try again.",
	KindNetwork:           GenericFailure,
	KindTimeout:           "The assistant took too long to answer. Please try again.",
	KindUnknown:           "The assistant could not answer that right now. Please try again shortly.",
}

// Error is returned by the backends for any failed request.
type Error struct {
	Kind   Kind
	Status int // HTTP status, 0 when no response arrived
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("assistant: %s (HTTP %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("assistant: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the user-facing text for the failure.
func (e *Error) Message() string {
	if m, ok := kindMessages[e.Kind]; ok {
		return m
	}
	return GenericFailure
}

// UserMessage renders any error as the text shown in the assistant's turn.
func UserMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message()
	}
	return GenericFailure
}

// KindOf reports the failure kind of err, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

func missingCredential(backend string) *Error {
	return &Error{Kind: KindMissingCredential, Err: fmt.Errorf("%s: no API key", backend)}
}

// transportError classifies a failure from http.Client.Do.
func transportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindNetwork, Err: err}
}

// statusError classifies a non-200 response. detail is the provider's own
// message, when it sent one.
func statusError(status int, detail string) *Error {
	kind := KindUnknown
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindInvalidCredential
	case status == http.StatusTooManyRequests:
		kind = KindQuotaExceeded
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = KindTimeout
	case status == http.StatusBadRequest && strings.Contains(strings.ToLower(detail), "api key"):
		// Gemini reports a bad key as 400 INVALID_ARGUMENT.
		kind = KindInvalidCredential
	case status >= 500:
		kind = KindNetwork
	}
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &Error{Kind: kind, Status: status, Err: errors.New(detail)}
}
