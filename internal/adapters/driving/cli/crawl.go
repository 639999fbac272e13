package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitslurp/internal/adapters/driven/auth"
	"github.com/custodia-labs/gitslurp/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gitslurp/internal/core/domain"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driving"
	"github.com/custodia-labs/gitslurp/internal/core/services"
	"github.com/custodia-labs/gitslurp/internal/logger"
)

// crawlOptions holds the crawl command flags.
type crawlOptions struct {
	tokens     []string
	maxRecords int
	state      string
	backend    string
	dataDir    string
	perPage    int
	dryRun     bool
}

var crawlOpts crawlOptions

var crawlCmd = &cobra.Command{
	Use:   "crawl <owner/name>",
	Short: "Crawl issues and pull requests of a repository",
	Long: `Fetches issues and pull requests page by page, newest first, and
appends them to the datasets of the repository. The crawl resumes from the
last saved page and stops once --max-records records have been processed
or the repository has no more.

Tokens are read from --token, then GITSLURP_GITHUB_TOKEN (comma separated),
then github.tokens in the config file. With several tokens the crawl rotates
to the next one whenever a rate limit is hit. Without tokens it runs
unauthenticated.`,
	Example: `  gitslurp crawl octo/widgets
  gitslurp crawl octo/widgets -t ghp_aaa -t ghp_bbb -n 5000 --state closed
  gitslurp crawl octo/widgets --backend sqlite --data-dir ./datasets`,
	Args: cobra.ExactArgs(1),
	RunE: runCrawl,
}

func init() {
	f := crawlCmd.Flags()
	f.StringSliceVarP(&crawlOpts.tokens, "token", "t", nil, "GitHub token (repeatable or comma separated)")
	f.IntVarP(&crawlOpts.maxRecords, "max-records", "n", file.DefaultMaxRecords, "stop after this many records in total")
	f.StringVar(&crawlOpts.state, "state", string(domain.StateAll), "issue state: open, closed or all")
	f.StringVar(&crawlOpts.backend, "backend", file.DefaultBackend, "storage backend: csv or sqlite")
	f.StringVar(&crawlOpts.dataDir, "data-dir", file.DefaultDataDir, "directory for datasets and checkpoints")
	f.IntVar(&crawlOpts.perPage, "per-page", file.DefaultPerPage, "records per page (1-100)")
	f.BoolVar(&crawlOpts.dryRun, "dry-run", false, "crawl without writing anything to disk")
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	target, err := domain.ParseTarget(args[0])
	if err != nil {
		return err
	}

	settings, err := crawlSettings(cmd)
	if err != nil {
		return err
	}

	provider := auth.NewFactory().CreateTokenProvider(crawlOpts.tokens, settings.Tokens)
	tokens, err := provider.GetTokens(ctx)
	if err != nil {
		return fmt.Errorf("tokens: %w", err)
	}
	if provider.IsAuthenticated() {
		logger.Debug("Using %d token(s) from %s", len(tokens), provider.Source())
	} else {
		logger.Warn("No GitHub token configured; crawling unauthenticated (60 requests/hour)")
	}

	connector, err := newConnector(connectorConfig(target, settings))
	if err != nil {
		return err
	}

	rotator, err := services.NewCredentialRotator(tokens, connector,
		services.WithClock(clock),
		services.WithBackoff(
			settings.Rotation.InitialInterval,
			settings.Rotation.MaxInterval,
			settings.Rotation.MaxElapsed,
		),
	)
	if err != nil {
		return err
	}

	store, err := openStore(settings)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	controller := services.NewCrawlController(rotator, store,
		services.WithCrawlClock(clock),
		services.WithPageSize(settings.PerPage),
	)

	result, runErr := controller.Run(ctx, target, settings.MaxRecords, settings.State)
	if result != nil {
		printCrawlResult(cmd.OutOrStdout(), result, settings)
	}
	runErr = errors.Join(runErr, store.Close())
	if runErr != nil {
		return fmt.Errorf("crawl %s: %w", target, runErr)
	}
	return nil
}

// crawlSettings layers changed flags over the config file.
func crawlSettings(cmd *cobra.Command) (file.Settings, error) {
	settings, err := loadSettings()
	if err != nil {
		return file.Settings{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-records") {
		settings.MaxRecords = crawlOpts.maxRecords
	}
	if flags.Changed("state") {
		state, err := domain.ParseStateFilter(crawlOpts.state)
		if err != nil {
			return file.Settings{}, err
		}
		settings.State = state
	}
	if flags.Changed("backend") {
		settings.Backend = crawlOpts.backend
	}
	if flags.Changed("data-dir") {
		settings.DataDir = crawlOpts.dataDir
	}
	if flags.Changed("per-page") {
		settings.PerPage = crawlOpts.perPage
	}
	if crawlOpts.dryRun {
		settings.Backend = file.BackendMemory
	}

	if err := settings.Validate(); err != nil {
		return file.Settings{}, err
	}
	return settings, nil
}

func printCrawlResult(w io.Writer, r *driving.CrawlResult, settings file.Settings) {
	st := newStyles(w)

	outcome := st.Success.Render("budget reached")
	if r.Exhausted {
		outcome = st.Success.Render("no more records")
	} else if r.Processed < settings.MaxRecords {
		outcome = st.Error.Render("stopped early")
	}

	fmt.Fprintln(w, st.Title.Render(r.Target.FullName())+" "+outcome)
	fmt.Fprintf(w, "%s%d -> %d\n", st.Label.Render("Pages"), r.StartPage, r.EndPage)
	fmt.Fprintf(w, "%s%d issues, %d pull requests\n", st.Label.Render("Written"), r.Issues, r.PullRequests)
	fmt.Fprintf(w, "%s%d / %d\n", st.Label.Render("Processed"), r.Processed, settings.MaxRecords)
	if r.Recoveries > 0 {
		fmt.Fprintf(w, "%s%s\n", st.Label.Render("Rate limits"), st.Warning.Render(fmt.Sprintf("%d recoveries", r.Recoveries)))
	}
	fmt.Fprintf(w, "%s%s\n", st.Label.Render("Duration"), r.Duration.Round(time.Second))
	if settings.Backend == file.BackendMemory {
		fmt.Fprintln(w, st.Muted.Render("dry run: nothing was written"))
	} else {
		fmt.Fprintf(w, "%s%s (%s)\n", st.Label.Render("Output"), settings.DataDir, settings.Backend)
	}
}
