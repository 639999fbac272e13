package driven

import "context"

// TokenProvider supplies the credentials configured for a crawl.
// Implementations resolve flags, environment and config file in order.
type TokenProvider interface {
	// GetTokens returns the configured tokens in rotation order.
	// Returns an empty slice when running unauthenticated.
	GetTokens(ctx context.Context) ([]string, error)

	// Source describes where the tokens came from (flag, env, config, none).
	Source() string

	// IsAuthenticated returns true if at least one token is configured.
	IsAuthenticated() bool
}
