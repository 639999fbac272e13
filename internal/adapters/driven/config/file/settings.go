package file

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
)

// Config keys.
const (
	KeyTokens            = "github.tokens"
	KeyPerPage           = "github.per_page"
	KeyRequestsPerSecond = "github.requests_per_second"
	KeyBaseURL           = "github.base_url"
	KeyMaxRecords        = "crawl.max_records"
	KeyState             = "crawl.state"
	KeyBackend           = "storage.backend"
	KeyDataDir           = "storage.dir"
	KeyInitialInterval   = "rotation.initial_interval"
	KeyMaxInterval       = "rotation.max_interval"
	KeyMaxElapsed        = "rotation.max_elapsed"
)

// Storage backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Defaults applied when the config file leaves a key unset.
const (
	DefaultMaxRecords = 80000
	DefaultPerPage    = 100
	DefaultBackend    = BackendCSV
	DefaultDataDir    = "./data"
)

// Settings is the resolved crawl configuration.
type Settings struct {
	Tokens            []string
	PerPage           int
	RequestsPerSecond float64
	BaseURL           string
	MaxRecords        int
	State             domain.StateFilter
	Backend           string
	DataDir           string
	Rotation          RotationSettings
}

// RotationSettings tunes the pool-exhaustion backoff.
// Zero values leave the rotator defaults in place.
type RotationSettings struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	return Settings{
		PerPage:    DefaultPerPage,
		MaxRecords: DefaultMaxRecords,
		State:      domain.StateAll,
		Backend:    DefaultBackend,
		DataDir:    DefaultDataDir,
	}
}

// LoadSettings resolves settings from a config store on top of the defaults.
func LoadSettings(store driven.ConfigStore) (Settings, error) {
	s := DefaultSettings()

	s.Tokens = store.GetStringSlice(KeyTokens)
	s.BaseURL = store.GetString(KeyBaseURL)
	s.RequestsPerSecond = store.GetFloat(KeyRequestsPerSecond)

	if n := store.GetInt(KeyPerPage); n > 0 {
		s.PerPage = n
	}
	if n := store.GetInt(KeyMaxRecords); n > 0 {
		s.MaxRecords = n
	}
	if dir := store.GetString(KeyDataDir); dir != "" {
		s.DataDir = dir
	}
	if b := store.GetString(KeyBackend); b != "" {
		s.Backend = strings.ToLower(b)
	}

	state, err := domain.ParseStateFilter(store.GetString(KeyState))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", KeyState, err)
	}
	s.State = state

	s.Rotation = RotationSettings{
		InitialInterval: store.GetDuration(KeyInitialInterval),
		MaxInterval:     store.GetDuration(KeyMaxInterval),
		MaxElapsed:      store.GetDuration(KeyMaxElapsed),
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks settings that flags may have overridden.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendCSV, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, s.Backend)
	}
	if s.PerPage < 1 || s.PerPage > 100 {
		return fmt.Errorf("%w: per_page must be between 1 and 100", domain.ErrInvalidInput)
	}
	if s.MaxRecords < 1 {
		return fmt.Errorf("%w: max_records must be positive", domain.ErrInvalidInput)
	}
	if s.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", domain.ErrInvalidInput)
	}
	return nil
}
