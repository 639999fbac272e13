package github

import (
	"fmt"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

const (
	// DefaultPerPage is the default number of issues per page.
	DefaultPerPage = 100

	// MaxPerPage is the largest page size the REST API accepts.
	MaxPerPage = 100
)

// Config holds the connector settings for one target repository.
type Config struct {
	// Target is the repository to crawl.
	Target domain.Target

	// PerPage is the page size of the issue listing.
	// Default: 100
	PerPage int

	// RequestsPerSecond throttles requests per credential.
	// Zero disables throttling. Default: ProactiveRate
	RequestsPerSecond float64

	// BaseURL overrides the API root, for GitHub Enterprise.
	// Default: https://api.github.com/
	BaseURL string
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig(target domain.Target) *Config {
	return &Config{
		Target:            target,
		PerPage:           DefaultPerPage,
		RequestsPerSecond: ProactiveRate,
	}
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if c.Target.Owner == "" || c.Target.Name == "" {
		return fmt.Errorf("%w: target repository is required", ErrInvalidConfig)
	}
	if c.PerPage == 0 {
		c.PerPage = DefaultPerPage
	}
	if c.PerPage < 1 || c.PerPage > MaxPerPage {
		return fmt.Errorf("%w: per_page must be between 1 and %d, got %d", ErrInvalidConfig, MaxPerPage, c.PerPage)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", ErrInvalidConfig)
	}
	return nil
}
