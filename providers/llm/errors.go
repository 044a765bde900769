package llm

import (
	"fmt"
	"net/http"

	"github.com/contentalchemy/alchemy/internal/utils"
)

// BackendFailure maps an HTTP-level error onto a structured Result when the
// status code indicates a condition signaled by the backend itself: auth
// rejection (401/403), rate limiting (429), or a server-side fault (5xx).
// These are safe to route around with a fallback adapter.
//
// Any other error — connection faults, decode errors, 4xx statuses caused by
// a malformed request — returns ok=false and must propagate unmodified, so
// programmer errors are never masked by provider fallback.
func BackendFailure(err error) (*Result, bool) {
	statusErr, isStatus := utils.AsHTTPStatusError(err)
	if !isStatus {
		return nil, false
	}

	switch {
	case statusErr.StatusCode == http.StatusTooManyRequests:
		return Failure(ErrKindRateLimit, statusErr.Error()), true
	case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
		return Failure(ErrKindAPIKeyMissing, fmt.Sprintf("authentication rejected: %s", statusErr.Error())), true
	case statusErr.StatusCode >= 500:
		return Failure(ErrKindAPIError, statusErr.Error()), true
	default:
		return nil, false
	}
}
