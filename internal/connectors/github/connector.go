package github

import (
	"context"
	"fmt"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
	"github.com/custodia-labs/gitslurp/internal/core/ports/driven"
	"github.com/custodia-labs/gitslurp/internal/logger"
)

// Ensure Connector and Source implement the interfaces.
var (
	_ driven.SourceConnector = (*Connector)(nil)
	_ driven.RemoteSource    = (*Source)(nil)
)

// Connector opens GitHub sources for one target repository.
type Connector struct {
	config *Config
}

// New creates a new GitHub connector.
func New(cfg *Config) (*Connector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Connector{config: cfg}, nil
}

// Connect builds a client for token, validates it and resolves the target.
// Unauthenticated sources skip validation.
func (c *Connector) Connect(ctx context.Context, token string) (driven.RemoteSource, error) {
	client, err := c.newClient(ctx, token)
	if err != nil {
		return nil, err
	}

	if token != "" {
		login, err := client.ValidateCredentials(ctx)
		if err != nil {
			if IsUnauthorized(err) {
				return nil, fmt.Errorf("%w: token %s rejected", domain.ErrAuthInvalid, domain.Mask(token))
			}
			return nil, fmt.Errorf("validate token %s: %w", domain.Mask(token), err)
		}
		logger.Debug("Token %s authenticated as %s", domain.Mask(token), login)
	}

	target, err := ResolveRepository(ctx, client, c.config.Target)
	if err != nil {
		return nil, err
	}
	if target != c.config.Target {
		logger.Info("Repository %s resolved to %s", c.config.Target, target)
	}

	return &Source{
		client:  client,
		target:  target,
		perPage: c.config.PerPage,
	}, nil
}

func (c *Connector) newClient(ctx context.Context, token string) (*Client, error) {
	client := NewClientWithToken(ctx, token, c.config.RequestsPerSecond)
	if c.config.BaseURL != "" {
		if err := client.SetBaseURL(c.config.BaseURL); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// Source is a RemoteSource over one repository's issue listing.
type Source struct {
	client  *Client
	target  domain.Target
	perPage int
}

// Target returns the resolved repository.
func (s *Source) Target() domain.Target {
	return s.target
}

// Client returns the underlying API client.
func (s *Source) Client() *Client {
	return s.client
}

// GetPage returns the issues and pull requests at pageIndex.
func (s *Source) GetPage(ctx context.Context, state domain.StateFilter, pageIndex int) ([]domain.RawIssue, error) {
	return FetchIssuePage(ctx, s.client, s.target, state, pageIndex, s.perPage)
}

// GetComments returns the comments on raw. Records reporting no comments
// are answered without a request.
func (s *Source) GetComments(ctx context.Context, raw domain.RawIssue) ([]domain.RawComment, error) {
	if raw.Comments == 0 {
		return nil, nil
	}
	return FetchIssueComments(ctx, s.client, s.target, raw.Number)
}

// PageSize returns the configured page size.
func (s *Source) PageSize() int {
	return s.perPage
}
