package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driving"
	"github.com/custodia-labs/gitslurp/internal/logger"
)

// Ensure CrawlController implements the interface.
var _ driving.Crawler = (*CrawlController)(nil)

// DefaultPageSize is assumed when deriving counts without a live source.
const DefaultPageSize = 100

// CrawlOption configures a CrawlController.
type CrawlOption func(*CrawlController)

// WithCrawlClock sets the clock used for recovery sleeps and timestamps.
func WithCrawlClock(c Clock) CrawlOption {
	return func(cc *CrawlController) {
		cc.clock = c
	}
}

// WithPageSize sets the page size used by Status to derive legacy counts.
func WithPageSize(n int) CrawlOption {
	return func(cc *CrawlController) {
		if n > 0 {
			cc.pageSize = n
		}
	}
}

// CrawlController drives a resumable, page-by-page crawl.
// It is single threaded: a page is fetched, transformed and flushed
// before the next one is requested.
type CrawlController struct {
	rotator  *CredentialRotator
	store    driven.ProgressStore
	clock    Clock
	pageSize int
}

// NewCrawlController creates a crawl controller.
func NewCrawlController(rotator *CredentialRotator, store driven.ProgressStore, opts ...CrawlOption) *CrawlController {
	c := &CrawlController{
		rotator:  rotator,
		store:    store,
		clock:    SystemClock(),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run crawls target until budget records are processed or the source runs dry.
//
// Every completed page is flushed together with its checkpoint. A quota
// failure flushes an empty batch at the failed page, recovers through the
// rotator and retries that page. Any other failure flushes an empty batch
// and ends the run with a *domain.FatalError.
//
//nolint:gocognit // Crawl loop with recovery branches
func (c *CrawlController) Run(
	ctx context.Context,
	target domain.Target,
	budget int,
	state domain.StateFilter,
) (*driving.CrawlResult, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: budget must be positive, got %d", domain.ErrInvalidInput, budget)
	}
	started := c.clock.Now()

	source, recoveries, err := c.acquire(ctx)
	if err != nil {
		return nil, domain.NewFatal("acquire credential", err)
	}

	cp, err := c.store.Load(ctx, target)
	if err != nil {
		return nil, domain.NewFatal("load checkpoint", err)
	}

	page := cp.Page
	count := cp.ResolvedCount(source.PageSize())
	if !cp.Exact && page > 0 {
		logger.Warn("Checkpoint for %s has no record count; assuming %d (%d pages of %d)",
			target, count, page, source.PageSize())
	}

	result := &driving.CrawlResult{
		Target:     target,
		RunID:      uuid.NewString(),
		StartPage:  page,
		EndPage:    page,
		Processed:  count,
		Recoveries: recoveries,
	}
	defer func() {
		result.Duration = c.clock.Now().Sub(started)
	}()

	logger.Info("Crawling %s (%s) from page %d, %d/%d records done, %d credential(s)",
		target, state, page, count, budget, c.rotator.Size())

	for count < budget {
		if err := ctx.Err(); err != nil {
			return result, domain.NewFatal("crawl", err)
		}

		issues, pulls, err := c.crawlPage(ctx, source, state, page, budget-count)
		if err != nil {
			// Hold the checkpoint at the failed page so it is retried.
			if ferr := c.flush(ctx, result, nil, nil, page, count); ferr != nil {
				return result, domain.NewFatal("flush checkpoint", ferr)
			}

			qe, ok := domain.AsQuotaExceeded(err)
			if !ok {
				return result, domain.NewFatal(fmt.Sprintf("crawl page %d", page), err)
			}

			logger.Warn("Rate limit hit on page %d (resets at %s)", page, qe.ResetAt.Format("15:04:05 MST"))
			action, rerr := c.rotator.OnQuotaExceeded(ctx, qe)
			if rerr != nil {
				return result, domain.NewFatal("recover from rate limit", rerr)
			}
			result.Recoveries++
			if err := c.sleep(ctx, action); err != nil {
				return result, domain.NewFatal("rate limit sleep", err)
			}

			source = action.Source
			if source == nil {
				src, n, err := c.acquire(ctx)
				result.Recoveries += n
				if err != nil {
					return result, domain.NewFatal("recover from rate limit", err)
				}
				source = src
			}
			continue
		}

		processed := len(issues) + len(pulls)
		if processed == 0 {
			result.Exhausted = true
			logger.Info("No more records for %s at page %d", target, page)
			break
		}

		count += processed
		page++
		if err := c.flush(ctx, result, issues, pulls, page, count); err != nil {
			return result, domain.NewFatal(fmt.Sprintf("flush page %d", page-1), err)
		}
		c.rotator.MarkSuccess()

		result.Issues += len(issues)
		result.PullRequests += len(pulls)
		result.EndPage = page
		result.Processed = count
		logger.Info("Page %d checkpoint saved: %d issues, %d pull requests (%d/%d)",
			page-1, len(issues), len(pulls), count, budget)
	}

	logger.Info("Crawl of %s finished at page %d with %d records", target, result.EndPage, result.Processed)
	return result, nil
}

// acquire returns a connection for the current credential. A credential
// that is over quota while connecting is recovered from like a failed
// page; the number of recoveries is returned with the connection.
func (c *CrawlController) acquire(ctx context.Context) (driven.RemoteSource, int, error) {
	recoveries := 0
	for {
		source, err := c.rotator.Acquire(ctx)
		if err == nil {
			return source, recoveries, nil
		}
		qe, ok := domain.AsQuotaExceeded(err)
		if !ok {
			return nil, recoveries, err
		}

		logger.Warn("Rate limit hit while connecting (resets at %s)", qe.ResetAt.Format("15:04:05 MST"))
		action, rerr := c.rotator.OnQuotaExceeded(ctx, qe)
		if rerr != nil {
			return nil, recoveries, rerr
		}
		recoveries++
		if err := c.sleep(ctx, action); err != nil {
			return nil, recoveries, err
		}
		if action.Source != nil {
			return action.Source, recoveries, nil
		}
	}
}

func (c *CrawlController) sleep(ctx context.Context, action RecoveryAction) error {
	if action.Kind != RecoverySleep {
		return nil
	}
	logger.Warn("Sleeping %s until %s before retrying", action.Wait, action.Until.Format("15:04:05 MST"))
	return c.clock.Sleep(ctx, action.Wait)
}

// crawlPage fetches page and transforms at most remaining records from it.
// No records are returned unless the whole page succeeded.
func (c *CrawlController) crawlPage(
	ctx context.Context,
	source driven.RemoteSource,
	state domain.StateFilter,
	page int,
	remaining int,
) (issues, pulls []domain.IssueRecord, err error) {
	raws, err := source.GetPage(ctx, state, page)
	if err != nil {
		return nil, nil, fmt.Errorf("get page %d: %w", page, err)
	}
	logger.Debug("Page %d returned %d records", page, len(raws))

	for i := range raws {
		if len(issues)+len(pulls) >= remaining {
			logger.Debug("Budget reached after %d records of page %d", i, page)
			break
		}

		comments, err := source.GetComments(ctx, raws[i])
		if err != nil {
			return nil, nil, fmt.Errorf("get comments for #%d: %w", raws[i].Number, err)
		}

		rec := Transform(raws[i], comments)
		if rec.IsPullRequest() {
			pulls = append(pulls, rec)
		} else {
			issues = append(issues, rec)
		}
	}
	return issues, pulls, nil
}

func (c *CrawlController) flush(
	ctx context.Context,
	result *driving.CrawlResult,
	issues, pulls []domain.IssueRecord,
	page, count int,
) error {
	cp := domain.Checkpoint{
		Target:    result.Target,
		Page:      page,
		Count:     count,
		Exact:     true,
		RunID:     result.RunID,
		UpdatedAt: c.clock.Now().UTC(),
	}
	// A page that was fully fetched is persisted even if the run is interrupted.
	if err := c.store.Flush(context.WithoutCancel(ctx), result.Target, issues, pulls, cp); err != nil {
		return err
	}
	result.Flushes++
	return nil
}

// Status returns the stored checkpoint for target.
func (c *CrawlController) Status(ctx context.Context, target domain.Target) (*driving.CrawlStatus, error) {
	cp, err := c.store.Load(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	return &driving.CrawlStatus{
		Target:    target,
		Page:      cp.Page,
		Count:     cp.ResolvedCount(c.pageSize),
		Exact:     cp.Exact,
		RunID:     cp.RunID,
		UpdatedAt: cp.UpdatedAt,
	}, nil
}
