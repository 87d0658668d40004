package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_WrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := LoadFailed("/srv/docs", cause)

	assert.Equal(t, CodeLoad, err.Code)
	assert.Equal(t, cause, err.Unwrap())
	assert.Equal(t, "/srv/docs", err.Details["dir"])
	assert.Contains(t, err.Error(), "caused by: permission denied")
}

func TestIs_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("refresh: %w", InvalidInput("query must not be empty"))

	assert.True(t, Is(err, CodeInvalidInput))
	assert.False(t, Is(err, CodeUpstream))
	assert.Equal(t, CodeInvalidInput, CodeOf(err))
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(errors.New("boom")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestUpstream_Timeout(t *testing.T) {
	err := Upstream("openai", fmt.Errorf("calling api: %w", context.DeadlineExceeded))

	assert.True(t, Is(err, CodeUpstream))
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "openai", err.Details["provider"])
}

func TestUpstream_NonTimeout(t *testing.T) {
	err := Upstream("claude", errors.New("401 unauthorized"))

	assert.False(t, errors.Is(err, ErrTimeout))
}
