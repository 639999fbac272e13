package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gitslurp/internal/connectors/github"
	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

// useQuota replaces the quota check and records the tokens it was given.
func useQuota(t *testing.T, fn func(tokens []string) []github.Quota) *[]string {
	t.Helper()
	var seen []string
	old := checkQuota
	checkQuota = func(_ context.Context, _ *github.Config, tokens []string) []github.Quota {
		seen = append(seen, tokens...)
		return fn(tokens)
	}
	t.Cleanup(func() { checkQuota = old })
	return &seen
}

func TestTokensCmd(t *testing.T) {
	isolate(t)
	reset := time.Now().Add(time.Hour)
	seen := useQuota(t, func(tokens []string) []github.Quota {
		return []github.Quota{
			{Token: domain.Mask(tokens[0]), Login: "alice", Limit: 5000, Remaining: 4200, ResetAt: reset},
			{Token: domain.Mask(tokens[1]), Err: errors.New("token is invalid")},
		}
	})

	out, err := executeCommand(t, "tokens", "--config-dir", t.TempDir(), "-t", "ghp_aaaa1111,ghp_bbbb2222")

	require.NoError(t, err)
	assert.Equal(t, []string{"ghp_aaaa1111", "ghp_bbbb2222"}, *seen)
	assert.Contains(t, out, "2 token(s) from flag")
	assert.Contains(t, out, "ghp_...1111")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "4200/5000")
	assert.Contains(t, out, "token is invalid")
	assert.NotContains(t, out, "ghp_aaaa1111")
}

func TestTokensCmd_Anonymous(t *testing.T) {
	isolate(t)
	seen := useQuota(t, func([]string) []github.Quota {
		return []github.Quota{{Limit: 60, Remaining: 60}}
	})

	out, err := executeCommand(t, "tokens", "--config-dir", t.TempDir())

	// 60 requests is below the safety buffer.
	require.ErrorIs(t, err, domain.ErrCredentialsExhausted)
	assert.Equal(t, []string{""}, *seen)
	assert.Contains(t, out, "(anonymous)")
	assert.Contains(t, out, "from none")
}

func TestTokensCmd_AllExhausted(t *testing.T) {
	isolate(t)
	useQuota(t, func(tokens []string) []github.Quota {
		return []github.Quota{{Token: domain.Mask(tokens[0]), Limit: 5000, Remaining: 3}}
	})

	_, err := executeCommand(t, "tokens", "--config-dir", t.TempDir(), "-t", "ghp_cccc3333")

	assert.ErrorIs(t, err, domain.ErrCredentialsExhausted)
}
