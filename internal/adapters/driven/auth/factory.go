package auth

import (
	"os"
	"strings"

	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
)

// Environment variables consulted for tokens, in order.
const (
	// EnvToken holds one or more comma-separated tokens.
	EnvToken = "GITSLURP_GITHUB_TOKEN"

	// EnvGitHubToken is the conventional single-token variable.
	EnvGitHubToken = "GITHUB_TOKEN"
)

// Token sources reported by TokenProvider.Source.
const (
	SourceFlag   = "flag"
	SourceEnv    = "env"
	SourceConfig = "config"
	SourceNone   = "none"
)

// Factory resolves the TokenProvider for a crawl.
type Factory struct {
	getenv func(string) string
}

// NewFactory creates a factory reading the process environment.
func NewFactory() *Factory {
	return &Factory{getenv: os.Getenv}
}

// NewFactoryWithEnv creates a factory reading a custom environment.
func NewFactoryWithEnv(getenv func(string) string) *Factory {
	return &Factory{getenv: getenv}
}

// CreateTokenProvider picks the first non-empty token set among flags,
// environment and config file. With none, it returns a NullTokenProvider.
func (f *Factory) CreateTokenProvider(flagTokens, configTokens []string) driven.TokenProvider {
	if p := NewPATProvider(SourceFlag, flagTokens); p.IsAuthenticated() {
		return p
	}

	for _, key := range []string{EnvToken, EnvGitHubToken} {
		if p := NewPATProvider(SourceEnv, SplitTokens(f.getenv(key))); p.IsAuthenticated() {
			return p
		}
	}

	if p := NewPATProvider(SourceConfig, configTokens); p.IsAuthenticated() {
		return p
	}

	return NewNullTokenProvider()
}

// SplitTokens splits a comma-separated token list.
func SplitTokens(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
