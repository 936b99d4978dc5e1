package media

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDownloadError(t *testing.T) {
	tests := []struct {
		msg  string
		want FailureKind
	}{
		{"this video is inappropriate", FailureRestricted},
		{"content unavailable for certain audiences", FailureRestricted},
		{"login required to access this post", FailureRateLimited},
		{"server returned rate-limit reached", FailureRateLimited},
		{"HTTP 429 Too Many Requests", FailureRateLimited},
		{"video not found", FailureNotFound},
		{"unexpected status code: 404", FailureNotFound},
		{"connection reset by peer", FailureOther},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			derr := classifyDownloadError(errors.New(tt.msg))
			assert.Equal(t, tt.want, derr.Kind)
		})
	}
}

func TestDownloadErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	derr := classifyDownloadError(inner)

	assert.ErrorIs(t, derr, inner)

	var target *DownloadError
	assert.ErrorAs(t, error(derr), &target)
	assert.Contains(t, derr.Error(), "boom")
}
