package domain

import (
	"fmt"
	"strings"
)

// Target identifies the repository being crawled.
type Target struct {
	Owner string
	Name  string
}

// ParseTarget parses a target string in the format "owner/name".
func ParseTarget(s string) (Target, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Target{}, fmt.Errorf("%w: expected 'owner/name', got %q", ErrInvalidInput, s)
	}
	return Target{Owner: parts[0], Name: parts[1]}, nil
}

// FullName returns "owner/name".
func (t Target) FullName() string {
	return t.Owner + "/" + t.Name
}

// Sanitized returns an identifier safe to use as a directory name.
func (t Target) Sanitized() string {
	return strings.ReplaceAll(t.FullName(), "/", "_")
}

// String implements fmt.Stringer.
func (t Target) String() string {
	return t.FullName()
}

// StateFilter selects issues by lifecycle state.
type StateFilter string

const (
	StateOpen   StateFilter = "open"
	StateClosed StateFilter = "closed"
	StateAll    StateFilter = "all"
)

// ParseStateFilter parses a state filter, defaulting to all.
func ParseStateFilter(s string) (StateFilter, error) {
	switch StateFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StateAll:
		return StateAll, nil
	case StateOpen:
		return StateOpen, nil
	case StateClosed:
		return StateClosed, nil
	default:
		return "", fmt.Errorf("%w: unknown state %q", ErrInvalidInput, s)
	}
}
