package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	withCode := &Error{Type: ErrorTypeServerError, Message: "server error", Code: 502}
	assert.Equal(t, "server_error error (code 502): server error", withCode.Error())

	noCode := New(ErrorTypeNotImplemented, "%s API implementation pending", "TikTok")
	assert.Equal(t, "not_implemented error: TikTok API implementation pending", noCode.Error())
}

func TestUnsupportedPlatformNamesPlatform(t *testing.T) {
	err := UnsupportedPlatform("Snapchat")
	assert.Contains(t, err.Error(), "Snapchat")
	assert.True(t, IsType(err, ErrorTypeUnsupportedPlatform))
	assert.False(t, IsFallbackable(err))
}

func TestIsTypeFollowsWrappedChain(t *testing.T) {
	cause := New(ErrorTypeNetwork, "connection refused")
	wrapped := Wrap(ErrorTypeExhausted, cause, "failed to fetch profile")
	outer := fmt.Errorf("dashboard: %w", wrapped)

	assert.True(t, IsType(outer, ErrorTypeExhausted))
	assert.True(t, IsType(outer, ErrorTypeNetwork))
	assert.False(t, IsType(outer, ErrorTypeCacheIO))
	assert.Equal(t, ErrorTypeExhausted, TypeOf(outer))
	assert.True(t, errors.Is(outer, cause))
}

func TestTypeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorTypeUnknown, TypeOf(errors.New("plain")))
	assert.False(t, IsType(nil, ErrorTypeNetwork))
}

func TestIsFallbackable(t *testing.T) {
	assert.False(t, IsFallbackable(nil))
	assert.True(t, IsFallbackable(New(ErrorTypeNotImplemented, "pending")))
	assert.True(t, IsFallbackable(errors.New("boom")))
}

func TestIsBreakerFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not found", New(ErrorTypeNotFound, "no such user"), false},
		{"network", New(ErrorTypeNetwork, "timeout"), true},
		{"rate limit", New(ErrorTypeRateLimit, "quota"), true},
		{"server", New(ErrorTypeServerError, "503"), true},
		{"plain", errors.New("boom"), true},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBreakerFailure(tt.err))
		})
	}
}

func TestStatusCodeType(t *testing.T) {
	assert.Equal(t, ErrorTypeNetwork, StatusCodeType(0))
	assert.Equal(t, ErrorTypeNotFound, StatusCodeType(404))
	assert.Equal(t, ErrorTypeRateLimit, StatusCodeType(403))
	assert.Equal(t, ErrorTypeRateLimit, StatusCodeType(429))
	assert.Equal(t, ErrorTypeServerError, StatusCodeType(503))
	assert.Equal(t, ErrorTypeUnknown, StatusCodeType(418))
}
