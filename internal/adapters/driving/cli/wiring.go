package cli

import (
	"fmt"

	"github.com/custodia-labs/gitslurp/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gitslurp/internal/adapters/driven/storage/csvfile"
	"github.com/custodia-labs/gitslurp/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gitslurp/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/gitslurp/internal/connectors/github"
	"github.com/custodia-labs/gitslurp/internal/core/domain"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
	"github.com/custodia-labs/gitslurp/internal/core/services"
)

// Replaced in tests.
var newConnector = func(cfg *github.Config) (driven.SourceConnector, error) {
	return github.New(cfg)
}

var checkQuota = github.CheckQuota

var clock = services.SystemClock()

// loadSettings reads the config file named by --config-dir.
func loadSettings() (file.Settings, error) {
	store, err := file.NewConfigStore(globals.configDir)
	if err != nil {
		return file.Settings{}, fmt.Errorf("config: %w", err)
	}
	return file.LoadSettings(store)
}

// openStore opens the progress store selected by settings.
func openStore(s file.Settings) (driven.ProgressStore, error) {
	switch s.Backend {
	case file.BackendCSV:
		return csvfile.New(s.DataDir)
	case file.BackendSQLite:
		return sqlite.NewStore(s.DataDir)
	case file.BackendMemory:
		return memory.NewProgressStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, s.Backend)
	}
}

// connectorConfig builds the GitHub connector config for target.
// Unset settings keep the connector defaults.
func connectorConfig(target domain.Target, s file.Settings) *github.Config {
	cfg := github.DefaultConfig(target)
	if s.PerPage > 0 {
		cfg.PerPage = s.PerPage
	}
	if s.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = s.RequestsPerSecond
	}
	cfg.BaseURL = s.BaseURL
	return cfg
}
