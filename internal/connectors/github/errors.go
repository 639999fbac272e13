package github

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

// GitHub-specific errors.
var (
	// ErrRepoNotFound indicates the repository was not found or is not accessible.
	ErrRepoNotFound = errors.New("github: repository not found")

	// ErrIssuesDisabled indicates the repository has its issue tracker turned off.
	ErrIssuesDisabled = errors.New("github: issues are disabled for this repository")

	// ErrInvalidConfig indicates the connector configuration is unusable.
	ErrInvalidConfig = errors.New("github: invalid configuration")
)

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return errors.Is(err, ErrRepoNotFound)
}

// IsRateLimited checks if the error indicates quota exhaustion.
func IsRateLimited(err error) bool {
	return domain.KindOf(err) == domain.KindQuotaExceeded
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	if errors.Is(err, domain.ErrAuthInvalid) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}

// IsForbidden checks if the error indicates a forbidden resource.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 403
	}
	return false
}
