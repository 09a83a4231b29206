package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// Synthetic status codes for failures that never produced a provider status.
const (
	// StatusUnreachable marks a network-level failure (DNS, connect, timeout).
	StatusUnreachable = 599
)

// ReasonMalformed marks a provider response whose shape could not be parsed.
const ReasonMalformed = "malformed-response"

// Error describes a failed provider call. Status carries the provider's HTTP
// status when one was received, StatusUnreachable for network failures, or
// http.StatusBadGateway for malformed payloads.
type Error struct {
	Provider string
	Status   int
	Body     string
	Reason   string
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: status %d (%s): %s", e.Provider, e.Status, e.Reason, e.Body)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Body)
}

// Unreachable builds an Error for a request that never reached the provider.
func Unreachable(provider string, err error) *Error {
	return &Error{Provider: provider, Status: StatusUnreachable, Body: err.Error()}
}

// Malformed builds an Error for a provider payload of unexpected shape.
func Malformed(provider, body string) *Error {
	return &Error{Provider: provider, Status: http.StatusBadGateway, Body: body, Reason: ReasonMalformed}
}

// RateLimited builds an Error carrying a 429-equivalent signal.
func RateLimited(provider, body string) *Error {
	return &Error{Provider: provider, Status: http.StatusTooManyRequests, Body: body}
}

// IsRateLimited reports whether err carries a 429-equivalent signal, either
// from the HTTP layer or from an RPC-level error code.
func IsRateLimited(err error) bool {
	var ue *Error
	return errors.As(err, &ue) && ue.Status == http.StatusTooManyRequests
}
