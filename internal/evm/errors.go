package evm

import (
	"context"
	"errors"
	"net"
	"strings"
)

// IsRangeLimited reports whether the provider rejected a request because the
// block range or response size exceeds its limits. Such failures are
// permanent for the given parameters: the caller must subdivide the request
// instead of retrying it as-is.
func IsRangeLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "rate limit") || strings.Contains(msg, "429") {
		return false
	}
	for _, needle := range []string{
		"block range",
		"size exceeded",
		"response size",
		"query returned more than",
		"too many results",
		"limit exceeded",
		"400",
		"range",
		"limit",
	} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}

// IsTransient reports whether an error is worth retrying with backoff:
// rate limiting, timeouts, 5xx responses and generic network failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, needle := range []string{
		"429",
		"rate limit",
		"timeout",
		"timed out",
		"500",
		"502",
		"503",
		"server error",
		"failed response",
		"connection refused",
		"connection reset",
		"unexpected eof",
	} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
