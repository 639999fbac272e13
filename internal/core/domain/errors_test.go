package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrAuthRequired", ErrAuthRequired},
		{"ErrAuthInvalid", ErrAuthInvalid},
		{"ErrNoCredentials", ErrNoCredentials},
		{"ErrCredentialsExhausted", ErrCredentialsExhausted},
		{"ErrRateLimited", ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Uniqueness tests that all errors are distinct
func TestErrors_Uniqueness(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrAuthRequired,
		ErrAuthInvalid,
		ErrNoCredentials,
		ErrCredentialsExhausted,
		ErrRateLimited,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j {
				assert.False(t, errors.Is(err1, err2),
					"Error %v should not match error %v", err1, err2)
			}
		}
	}
}

func TestQuotaExceededError(t *testing.T) {
	reset := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := &QuotaExceededError{ResetAt: reset, Limit: 5000}

	assert.Contains(t, err.Error(), "2024-05-01T12:00:00Z")
	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.False(t, errors.Is(err, ErrAuthInvalid))

	wrapped := fmt.Errorf("get page 3: %w", err)
	qe, ok := AsQuotaExceeded(wrapped)
	require.True(t, ok)
	assert.Equal(t, reset, qe.ResetAt)
}

func TestFatalError(t *testing.T) {
	t.Run("unwraps to cause", func(t *testing.T) {
		err := NewFatal("get page", ErrAuthInvalid)
		assert.True(t, errors.Is(err, ErrAuthInvalid))
		assert.Equal(t, "fatal: get page: authentication invalid", err.Error())
	})

	t.Run("nil cause yields nil", func(t *testing.T) {
		assert.NoError(t, NewFatal("op", nil))
	})

	t.Run("does not double wrap", func(t *testing.T) {
		inner := NewFatal("inner", ErrNotFound)
		outer := NewFatal("outer", fmt.Errorf("context: %w", inner))

		var fe *FatalError
		require.True(t, errors.As(outer, &fe))
		assert.Equal(t, "inner", fe.Op)
	})

	t.Run("empty op", func(t *testing.T) {
		err := &FatalError{Cause: ErrNotFound}
		assert.Equal(t, "fatal: not found", err.Error())
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"quota", &QuotaExceededError{}, KindQuotaExceeded},
		{"wrapped quota", fmt.Errorf("page: %w", &QuotaExceededError{}), KindQuotaExceeded},
		{"auth", ErrAuthInvalid, KindFatal},
		{"plain", errors.New("connection reset"), KindFatal},
		{"fatal", NewFatal("flush", errors.New("disk full")), KindFatal},
		{"fatal wrapping quota", NewFatal("recover", &QuotaExceededError{}), KindFatal},
		{"wrapped fatal wrapping quota", fmt.Errorf("run: %w", NewFatal("recover", &QuotaExceededError{})), KindFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "quota_exceeded", KindQuotaExceeded.String())
	assert.Equal(t, "fatal", KindFatal.String())
	assert.Equal(t, "unknown", ErrorKind(42).String())
}
