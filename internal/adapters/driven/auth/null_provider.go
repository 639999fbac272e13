package auth

import (
	"context"

	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
)

// Ensure NullTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*NullTokenProvider)(nil)

// NullTokenProvider is used when no token is configured.
// The crawl then runs unauthenticated.
type NullTokenProvider struct{}

// NewNullTokenProvider creates a token provider with no tokens.
func NewNullTokenProvider() *NullTokenProvider {
	return &NullTokenProvider{}
}

// GetTokens returns no tokens.
func (p *NullTokenProvider) GetTokens(_ context.Context) ([]string, error) {
	return nil, nil
}

// Source returns "none".
func (p *NullTokenProvider) Source() string {
	return SourceNone
}

// IsAuthenticated always returns false.
func (p *NullTokenProvider) IsAuthenticated() bool {
	return false
}
