package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingFieldError(t *testing.T) {
	err := NewMissingFieldError("project")
	assert.Contains(t, err.Error(), "project")

	var target *MissingFieldError
	assert.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &target)
	assert.Equal(t, "project", target.Field)
}

func TestFetchError_Unwrap(t *testing.T) {
	err := NewFetchError("https://example.com/f.yml", 404, ErrFileNotFound)

	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "https://example.com/f.yml")
}

func TestFetchError_NoStatus(t *testing.T) {
	err := NewFetchError("https://example.com", 0, errors.New("connection refused"))
	assert.NotContains(t, err.Error(), "status")
}

func TestRetryableError_Unwrap(t *testing.T) {
	inner := errors.New("flaky upstream")
	err := &RetryableError{Err: inner, RetryAfter: 30}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "retry after 30s")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x")}))
	assert.True(t, IsRetryable(ErrRateLimited))
	assert.True(t, IsRetryable(ErrTimeout))
	assert.True(t, IsRetryable(NewFetchError("u", 503, errors.New("x"))))
	assert.True(t, IsRetryable(NewFetchError("u", 429, errors.New("x"))))

	assert.False(t, IsRetryable(NewFetchError("u", 404, ErrFileNotFound)))
	assert.False(t, IsRetryable(ErrNoMatch))
	assert.False(t, IsRetryable(nil))
}

func TestRawURL(t *testing.T) {
	loc := FileLocator{
		Project:    "Data4Democracy",
		Repository: "docker-scaffolding",
		Branch:     "master",
		Path:       "docker-compose.yml",
	}
	assert.Equal(t,
		"https://raw.githubusercontent.com/Data4Democracy/docker-scaffolding/refs/heads/master/docker-compose.yml",
		loc.RawURL())
}
