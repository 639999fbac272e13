package auth

import (
	"context"
	"strings"

	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
)

// Ensure PATProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*PATProvider)(nil)

// PATProvider provides a static list of Personal Access Tokens.
// PATs don't expire and don't require refresh.
type PATProvider struct {
	source string
	tokens []string
}

// NewPATProvider creates a token provider for the given tokens.
// Blank entries and duplicates are dropped; order is preserved.
func NewPATProvider(source string, tokens []string) *PATProvider {
	seen := make(map[string]bool, len(tokens))
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		kept = append(kept, t)
	}
	return &PATProvider{source: source, tokens: kept}
}

// GetTokens returns a copy of the configured tokens.
func (p *PATProvider) GetTokens(_ context.Context) ([]string, error) {
	return append([]string(nil), p.tokens...), nil
}

// Source returns where the tokens came from.
func (p *PATProvider) Source() string {
	return p.source
}

// IsAuthenticated returns true if at least one token is configured.
func (p *PATProvider) IsAuthenticated() bool {
	return len(p.tokens) > 0
}
