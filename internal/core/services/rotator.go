package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
	"github.com/custodia-labs/gitslurp/internal/logger"
)

// MinQuotaSleep is the shortest wait after quota exhaustion in single mode.
const MinQuotaSleep = 600 * time.Second

// Default pool-exhaustion backoff. Each full pass over the pool without a
// successful page waits longer, up to DefaultMaxInterval, and the crawl
// gives up once DefaultMaxElapsed has passed since the first exhausted pass.
const (
	DefaultInitialInterval = time.Minute
	DefaultMaxInterval     = time.Hour
	DefaultMaxElapsed      = 6 * time.Hour
)

// RotationMode describes how the rotator recovers from quota exhaustion.
type RotationMode string

const (
	// ModeSingle sleeps until the quota resets.
	ModeSingle RotationMode = "single"

	// ModePool switches to the next credential.
	ModePool RotationMode = "pool"
)

// RecoveryKind tells the crawl what a recovery did.
type RecoveryKind int

const (
	// RecoveryRotated means the next credential is ready; retry immediately.
	RecoveryRotated RecoveryKind = iota

	// RecoverySleep means wait for RecoveryAction.Wait before retrying.
	RecoverySleep
)

// String returns the kind name.
func (k RecoveryKind) String() string {
	if k == RecoverySleep {
		return "sleep"
	}
	return "rotated"
}

// RecoveryAction is the rotator's answer to a quota signal.
type RecoveryAction struct {
	Kind RecoveryKind

	// Source is the connection to retry the failed page with.
	Source driven.RemoteSource

	// Wait and Until are set for RecoverySleep.
	Wait  time.Duration
	Until time.Time

	// Cursor is the pool position of Source.
	Cursor int
}

// RotatorOption configures a CredentialRotator.
type RotatorOption func(*CredentialRotator)

// WithClock sets the clock used for reset arithmetic and backoff timing.
func WithClock(c Clock) RotatorOption {
	return func(r *CredentialRotator) {
		r.clock = c
	}
}

// WithBackoff sets the pool-exhaustion backoff.
// Zero values keep the defaults.
func WithBackoff(initial, maxInterval, maxElapsed time.Duration) RotatorOption {
	return func(r *CredentialRotator) {
		if initial > 0 {
			r.initialInterval = initial
		}
		if maxInterval > 0 {
			r.maxInterval = maxInterval
		}
		if maxElapsed > 0 {
			r.maxElapsed = maxElapsed
		}
	}
}

// CredentialRotator hands out connections and recovers from quota exhaustion.
// It connects each credential at most once per run and never checks quota
// ahead of use; exhaustion is only learnt from a failed call.
type CredentialRotator struct {
	mu        sync.Mutex
	pool      *domain.CredentialPool
	connector driven.SourceConnector
	clock     Clock

	// sources caches one connection per pool position.
	sources []driven.RemoteSource

	// tried counts quota signals since the last successful page.
	tried int

	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsed      time.Duration
	backoff         *backoff.ExponentialBackOff
}

// NewCredentialRotator creates a rotator over tokens.
// No tokens means a single unauthenticated connection.
func NewCredentialRotator(tokens []string, connector driven.SourceConnector, opts ...RotatorOption) (*CredentialRotator, error) {
	var pool *domain.CredentialPool
	if len(tokens) == 0 {
		pool = domain.NewAnonymousPool()
	} else {
		p, err := domain.NewCredentialPool(tokens)
		if err != nil {
			return nil, err
		}
		pool = p
	}

	r := &CredentialRotator{
		pool:            pool,
		connector:       connector,
		clock:           SystemClock(),
		sources:         make([]driven.RemoteSource, pool.Len()),
		initialInterval: DefaultInitialInterval,
		maxInterval:     DefaultMaxInterval,
		maxElapsed:      DefaultMaxElapsed,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.backoff = r.newBackoff()
	return r, nil
}

func (r *CredentialRotator) newBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.initialInterval
	bo.MaxInterval = r.maxInterval
	bo.MaxElapsedTime = r.maxElapsed
	bo.Clock = r.clock
	bo.Reset()
	return bo
}

// Mode returns ModePool for two or more credentials, ModeSingle otherwise.
func (r *CredentialRotator) Mode() RotationMode {
	if r.pool.Len() >= 2 {
		return ModePool
	}
	return ModeSingle
}

// Size returns the number of credentials.
func (r *CredentialRotator) Size() int {
	return r.pool.Len()
}

// Cursor returns the pool position of the current credential.
func (r *CredentialRotator) Cursor() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pool.Cursor()
}

// Acquire returns the connection for the current credential, connecting on
// first use. A connection failure is not retried here; a quota failure
// is returned as is so the caller can recover through OnQuotaExceeded.
func (r *CredentialRotator) Acquire(ctx context.Context) (driven.RemoteSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current(ctx)
}

func (r *CredentialRotator) current(ctx context.Context) (driven.RemoteSource, error) {
	idx := r.pool.Cursor()
	if src := r.sources[idx]; src != nil {
		return src, nil
	}

	src, err := r.connector.Connect(ctx, r.pool.Current())
	if err != nil {
		return nil, fmt.Errorf("connect credential %d (%s): %w", idx, domain.Mask(r.pool.Current()), err)
	}
	r.sources[idx] = src
	return src, nil
}

// OnQuotaExceeded decides how to continue after qe.
//
// In pool mode it always moves to the next credential. A credential that
// is already over quota when connecting counts as another signal of the
// same pass. Once every credential has failed in a row it also asks for a
// backoff sleep, and returns domain.ErrCredentialsExhausted when the
// backoff gives up. In single mode it asks for a sleep until the reset,
// never shorter than MinQuotaSleep.
//
// Source is nil when no credential could be connected; the caller must
// Acquire again after the sleep.
func (r *CredentialRotator) OnQuotaExceeded(ctx context.Context, qe *domain.QuotaExceededError) (RecoveryAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Mode() == ModeSingle {
		src, err := r.current(ctx)
		if err != nil {
			cqe, ok := domain.AsQuotaExceeded(err)
			if !ok {
				return RecoveryAction{}, err
			}
			logger.Warn("Credential is over quota while connecting (resets at %s)", cqe.ResetAt.Format("15:04:05 MST"))
			qe = cqe
		}
		now := r.clock.Now()
		wait := MinQuotaSleep
		if qe != nil {
			if untilReset := qe.ResetAt.Sub(now); untilReset > wait {
				wait = untilReset
			}
		}
		return RecoveryAction{
			Kind:   RecoverySleep,
			Source: src,
			Wait:   wait,
			Until:  now.Add(wait),
			Cursor: r.pool.Cursor(),
		}, nil
	}

	// At most one full pass: tried reaches the pool size within Len steps.
	for {
		r.tried++
		r.pool.Advance()
		src, err := r.current(ctx)
		if err != nil {
			if _, ok := domain.AsQuotaExceeded(err); !ok {
				return RecoveryAction{}, err
			}
			logger.Warn("Credential %d of %d is over quota while connecting", r.pool.Cursor()+1, r.pool.Len())
			if r.tried < r.pool.Len() {
				continue
			}
			return r.exhausted(nil)
		}
		logger.Info("Rotated to credential %d of %d", r.pool.Cursor()+1, r.pool.Len())

		if r.tried < r.pool.Len() {
			return RecoveryAction{
				Kind:   RecoveryRotated,
				Source: src,
				Cursor: r.pool.Cursor(),
			}, nil
		}
		return r.exhausted(src)
	}
}

// exhausted ends a full pass that failed and schedules the next one.
func (r *CredentialRotator) exhausted(src driven.RemoteSource) (RecoveryAction, error) {
	r.tried = 0
	wait := r.backoff.NextBackOff()
	if wait == backoff.Stop {
		return RecoveryAction{}, fmt.Errorf("%w: %d credentials over quota for more than %s",
			domain.ErrCredentialsExhausted, r.pool.Len(), r.maxElapsed)
	}
	return RecoveryAction{
		Kind:   RecoverySleep,
		Source: src,
		Wait:   wait,
		Until:  r.clock.Now().Add(wait),
		Cursor: r.pool.Cursor(),
	}, nil
}

// MarkSuccess records a successfully flushed page, ending the current
// rotation pass and resetting the backoff.
func (r *CredentialRotator) MarkSuccess() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tried = 0
	r.backoff.Reset()
}
