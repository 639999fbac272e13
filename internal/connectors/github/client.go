package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Client wraps the go-github client with throttling and error mapping.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClientWithToken creates a GitHub client with a static access token.
// An empty token creates an unauthenticated client.
func NewClientWithToken(ctx context.Context, token string, rps float64) *Client {
	var hc *http.Client
	if token == "" {
		hc = &http.Client{}
	} else {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(ctx, ts)
	}
	hc.Timeout = DefaultTimeout

	return &Client{
		gh:          gh.NewClient(hc),
		rateLimiter: NewRateLimiter(rps),
	}
}

// NewClientWithHTTPClient creates a GitHub client with a custom http.Client.
func NewClientWithHTTPClient(httpClient *http.Client, rps float64) *Client {
	return &Client{
		gh:          gh.NewClient(httpClient),
		rateLimiter: NewRateLimiter(rps),
	}
}

// SetBaseURL points the client at a different API root, such as a
// GitHub Enterprise server or a test server.
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: base url: %w", ErrInvalidConfig, err)
	}
	c.gh.BaseURL = u
	return nil
}

// GitHub returns the underlying go-github client.
func (c *Client) GitHub() *gh.Client {
	return c.gh
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// GetRepository fetches a single repository.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	repository, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get repo")
	}
	return repository, nil
}

// ListIssuesPage fetches exactly one page of the repository's issue listing.
// Pull requests are included; callers classify them.
func (c *Client) ListIssuesPage(
	ctx context.Context, owner, repo string, opts *gh.IssueListByRepoOptions,
) ([]*gh.Issue, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "list issues")
	}
	return issues, nil
}

// ListIssueComments retrieves every comment on an issue, oldest first.
func (c *Client) ListIssueComments(
	ctx context.Context, owner, repo string, number int,
) ([]*gh.IssueComment, error) {
	var allComments []*gh.IssueComment

	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
		c.updateRateLimitFromResponse(resp)
		if err != nil {
			return nil, c.wrapError(err, "list comments")
		}

		allComments = append(allComments, comments...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allComments, nil
}

// RateLimit returns the current rate limit status.
// This endpoint does not count against the quota.
func (c *Client) RateLimit(ctx context.Context) (*gh.RateLimits, error) {
	limits, resp, err := c.gh.RateLimit.Get(ctx)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "get rate limit")
	}
	return limits, nil
}

// ValidateCredentials checks the token by fetching the authenticated user.
// Returns the user's login.
func (c *Client) ValidateCredentials(ctx context.Context) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	user, resp, err := c.gh.Users.Get(ctx, "")
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return "", c.wrapError(err, "validate credentials")
	}
	return user.GetLogin(), nil
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to domain and connector error types.
// Quota failures become *domain.QuotaExceededError and 401 responses
// wrap domain.ErrAuthInvalid.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("%s: %w", operation, &domain.QuotaExceededError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		})
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		resetAt := c.rateLimiter.ResetTime()
		if abuseErr.RetryAfter != nil {
			resetAt = time.Now().Add(*abuseErr.RetryAfter)
		}
		return fmt.Errorf("%s: secondary rate limit: %w", operation, &domain.QuotaExceededError{
			ResetAt:   resetAt,
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		})
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		if qe := c.rateLimiter.CheckRateLimit(ghErr.Response); qe != nil {
			return fmt.Errorf("%s: %w", operation, qe)
		}

		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil && ghErr.Response.Request.URL != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		if apiErr.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%s: %w: %w", operation, domain.ErrAuthInvalid, apiErr)
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
