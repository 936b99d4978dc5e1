package media

import (
	"fmt"
	"strings"
)

// FailureKind classifies a fatal download failure so the API boundary can
// map it to a distinct user-facing message.
type FailureKind int

const (
	FailureOther FailureKind = iota
	FailureRestricted
	FailureRateLimited
	FailureNotFound
)

func (k FailureKind) String() string {
	switch k {
	case FailureRestricted:
		return "restricted"
	case FailureRateLimited:
		return "rate_limited"
	case FailureNotFound:
		return "not_found"
	default:
		return "other"
	}
}

// DownloadError is the only fatal pipeline error: every other stage
// degrades in place.
type DownloadError struct {
	Kind FailureKind
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed (%s): %v", e.Kind, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// classifyDownloadError wraps a surfaced error with a failure kind derived
// from its message.
func classifyDownloadError(err error) *DownloadError {
	msg := strings.ToLower(err.Error())
	kind := FailureOther
	switch {
	case strings.Contains(msg, "inappropriate"),
		strings.Contains(msg, "unavailable for certain audiences"),
		strings.Contains(msg, "age-restricted"),
		strings.Contains(msg, "private"):
		kind = FailureRestricted
	case strings.Contains(msg, "login required"),
		strings.Contains(msg, "rate-limit"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"):
		kind = FailureRateLimited
	case strings.Contains(msg, "not found"),
		strings.Contains(msg, "404"),
		strings.Contains(msg, "does not exist"):
		kind = FailureNotFound
	}
	return &DownloadError{Kind: kind, Err: err}
}
