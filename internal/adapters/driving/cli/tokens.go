package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitslurp/internal/adapters/driven/auth"
	"github.com/custodia-labs/gitslurp/internal/connectors/github"
	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

var tokensFlag []string

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Show the remaining rate limit of each configured token",
	Long: `Checks every configured token against the GitHub API and prints its
login and remaining core quota. Tokens are resolved the same way as for
crawl. Without tokens the unauthenticated quota of this machine is shown.`,
	Args: cobra.NoArgs,
	RunE: runTokens,
}

func init() {
	tokensCmd.Flags().StringSliceVarP(&tokensFlag, "token", "t", nil, "GitHub token (repeatable or comma separated)")
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	provider := auth.NewFactory().CreateTokenProvider(tokensFlag, settings.Tokens)
	tokens, err := provider.GetTokens(ctx)
	if err != nil {
		return fmt.Errorf("tokens: %w", err)
	}
	if len(tokens) == 0 {
		tokens = []string{""}
	}

	// The quota endpoint is repository independent.
	cfg := connectorConfig(domain.Target{}, settings)
	quotas := checkQuota(ctx, cfg, tokens)

	printQuotas(cmd.OutOrStdout(), provider.Source(), quotas)

	for _, q := range quotas {
		if q.Usable() {
			return nil
		}
	}
	return fmt.Errorf("%w: no token has quota left", domain.ErrCredentialsExhausted)
}

func printQuotas(w io.Writer, source string, quotas []github.Quota) {
	st := newStyles(w)

	fmt.Fprintln(w, st.Title.Render(fmt.Sprintf("%d token(s) from %s", len(quotas), source)))
	for _, q := range quotas {
		name := q.Token
		if name == "" {
			name = "(anonymous)"
		}

		switch {
		case q.Err != nil:
			fmt.Fprintf(w, "%s%s\n", st.Label.Render(name), st.Error.Render(q.Err.Error()))
		default:
			remaining := fmt.Sprintf("%d/%d", q.Remaining, q.Limit)
			if q.Usable() {
				remaining = st.Success.Render(remaining)
			} else {
				remaining = st.Warning.Render(remaining)
			}
			login := q.Login
			if login == "" {
				login = "-"
			}
			fmt.Fprintf(w, "%s%-20s %s %s\n", st.Label.Render(name), login, remaining,
				st.Muted.Render("resets "+q.ResetAt.Local().Format(time.Kitchen)))
		}
	}
}
