package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driving"
	"github.com/custodia-labs/gitslurp/internal/core/services"
)

type statusOptions struct {
	backend string
	dataDir string
}

var statusOpts statusOptions

var statusCmd = &cobra.Command{
	Use:   "status <owner/name>",
	Short: "Show the saved crawl progress of a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusOpts.backend, "backend", "", "storage backend: csv or sqlite")
	statusCmd.Flags().StringVar(&statusOpts.dataDir, "data-dir", "", "directory for datasets and checkpoints")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) (err error) {
	target, err := domain.ParseTarget(args[0])
	if err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if statusOpts.backend != "" {
		settings.Backend = statusOpts.backend
	}
	if statusOpts.dataDir != "" {
		settings.DataDir = statusOpts.dataDir
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	store, err := openStore(settings)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer func() { err = errors.Join(err, store.Close()) }()

	status, err := services.NewCrawlController(nil, store, services.WithPageSize(settings.PerPage)).
		Status(cmd.Context(), target)
	if err != nil {
		return err
	}

	printStatus(cmd.OutOrStdout(), status)
	return nil
}

func printStatus(w io.Writer, s *driving.CrawlStatus) {
	st := newStyles(w)

	fmt.Fprintln(w, st.Title.Render(s.Target.FullName()))
	if s.Page == 0 && s.Count == 0 {
		fmt.Fprintln(w, st.Muted.Render("No progress recorded."))
		return
	}

	fmt.Fprintf(w, "%s%d\n", st.Label.Render("Next page"), s.Page)
	if s.Exact {
		fmt.Fprintf(w, "%s%d\n", st.Label.Render("Records"), s.Count)
	} else {
		fmt.Fprintf(w, "%s~%d %s\n", st.Label.Render("Records"), s.Count, st.Warning.Render("(derived from page count)"))
	}
	if s.RunID != "" {
		fmt.Fprintf(w, "%s%s\n", st.Label.Render("Last run"), s.RunID)
	}
	if !s.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "%s%s\n", st.Label.Render("Updated"), s.UpdatedAt.Local().Format("2006-01-02 15:04:05 MST"))
	}
}
