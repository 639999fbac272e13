package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication Errors.

	// ErrAuthRequired indicates an operation needs a credential but none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the authentication credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrNoCredentials indicates the credential pool is empty.
	ErrNoCredentials = errors.New("no credentials configured")

	// Crawl Errors.

	// ErrCredentialsExhausted indicates every credential stayed over quota
	// for longer than the rotation backoff allows.
	ErrCredentialsExhausted = errors.New("all credentials exhausted")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// ErrorKind classifies a failure reported by a remote source.
type ErrorKind int

const (
	// KindNone is the kind of a nil error.
	KindNone ErrorKind = iota

	// KindQuotaExceeded is a recoverable quota exhaustion.
	KindQuotaExceeded

	// KindFatal is any failure the crawl cannot recover from.
	KindFatal
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// QuotaExceededError reports that the caller exhausted its request quota.
// ResetAt is when the quota window resets.
type QuotaExceededError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Is lets errors.Is(err, ErrRateLimited) match quota errors.
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrRateLimited
}

// FatalError wraps a failure that terminates a crawl.
type FatalError struct {
	Op    string
	Cause error
}

func (e *FatalError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("fatal: %v", e.Cause)
	}
	return fmt.Sprintf("fatal: %s: %v", e.Op, e.Cause)
}

func (e *FatalError) Unwrap() error {
	return e.Cause
}

// NewFatal wraps cause as a FatalError. A nil cause yields nil.
func NewFatal(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var fe *FatalError
	if errors.As(cause, &fe) {
		return cause
	}
	return &FatalError{Op: op, Cause: cause}
}

// KindOf classifies err. A FatalError anywhere in the chain is fatal even
// when it wraps a quota cause; otherwise quota errors are recognised
// anywhere in the chain and every other non-nil error is fatal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var fe *FatalError
	if errors.As(err, &fe) {
		return KindFatal
	}
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return KindQuotaExceeded
	}
	return KindFatal
}

// AsQuotaExceeded extracts the QuotaExceededError from err's chain.
func AsQuotaExceeded(err error) (*QuotaExceededError, bool) {
	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
