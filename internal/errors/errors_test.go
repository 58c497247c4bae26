package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrUsage,
		ErrInput,
		ErrProvision,
		ErrAuth,
		ErrTransfer,
		ErrConfig,
		ErrExec,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "usage error",
			code:       ErrUsage,
			message:    "--file and --dir cannot be used together",
			suggestion: "Pick one",
		},
		{
			name:       "provision error",
			code:       ErrProvision,
			message:    "Unsupported architecture: mips",
			suggestion: "rclone packages are available for amd64, arm64, and arm only.",
		},
		{
			name:       "transfer error",
			code:       ErrTransfer,
			message:    "rclone copy failed with exit code 1",
			suggestion: "Check the rclone output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := WrapWithCode(errors.New("connection refused"), ErrProvision,
		"Couldn't download rclone",
		"Check your network connection and try again.")

	rendered := err.Error()
	assert.True(t, strings.Contains(rendered, "Couldn't download rclone"))
	assert.True(t, strings.Contains(rendered, "connection refused"))
	assert.True(t, strings.Contains(rendered, "Check your network connection"))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(cause, "something broke")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, ErrExec, err.Code)
}

func TestIsCode(t *testing.T) {
	err := New(ErrAuth, "token invalid", "")

	assert.True(t, IsCode(err, ErrAuth))
	assert.False(t, IsCode(err, ErrTransfer))
	assert.False(t, IsCode(nil, ErrAuth))
	assert.False(t, IsCode(errors.New("plain"), ErrAuth))

	// Wrapped structured errors are still found by errors.As.
	wrapped := Wrap(err, "outer")
	assert.True(t, IsCode(wrapped, ErrExec))
}
