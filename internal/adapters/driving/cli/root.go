// Package cli provides the gitslurp command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitslurp/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// globalOptions holds flags shared by every command.
type globalOptions struct {
	verbose   bool
	quiet     bool
	configDir string
}

var globals globalOptions

var rootCmd = &cobra.Command{
	Use:   "gitslurp",
	Short: "Crawl GitHub issues and pull requests into datasets",
	Long: `gitslurp pages through the issues and pull requests of a GitHub
repository, flattens each one with its comment thread, and appends the
records to local datasets. Progress is checkpointed after every page, so an
interrupted crawl resumes where it stopped. Several tokens can be supplied to
rotate around rate limits.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(globals.verbose)
		logger.SetQuiet(globals.quiet)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globals.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&globals.quiet, "quiet", "q", false, "only print warnings and errors")
	rootCmd.PersistentFlags().StringVar(&globals.configDir, "config-dir", "", "config directory (default ~/.gitslurp)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// Execute runs the root command. Cancelling ctx stops a running crawl
// after its in-flight page.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
