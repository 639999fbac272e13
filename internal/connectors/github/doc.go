// Package github implements the issue source for GitHub repositories.
//
// The connector lists one repository's issues page by page and fetches each
// issue's comment thread. Pull requests are returned by the same listing and
// are recognised by their pull-request link.
//
// # Architecture
//
// The package implements [driven.SourceConnector] and [driven.RemoteSource]:
//
//   - Connector: validates a credential and resolves the target repository
//   - Source: serves zero-based pages and comment threads for one credential
//   - Client: handles GitHub API communication with throttling
//   - Config: page size, throttle rate and API root
//
// # Authentication
//
// Personal access tokens (classic or fine-grained) are sent as bearer tokens.
// Authenticated requests are allowed 5,000 requests per hour per token.
// An empty token opens an unauthenticated source limited to 60 requests per
// hour, which is only useful for very small repositories.
//
// # Rate Limiting
//
// Two mechanisms apply:
//
//  1. Proactive throttling: a token bucket limits requests to approximately
//     1.2 requests per second by default.
//
//  2. Quota reporting: X-RateLimit-* headers are tracked. When GitHub rejects
//     a request for quota reasons (primary or secondary limit, 403 with no
//     remaining quota, or 429) the call fails with
//     [domain.QuotaExceededError] carrying the reset time. The connector
//     never waits for a reset itself; rotation and sleeping are decided by
//     the caller.
//
// # Paging
//
// Page index i maps to REST page i+1 of the issue listing sorted by creation
// time, newest first. The listing is live: issues opened between runs shift
// the contents of later pages.
//
// # Error Handling
//
//   - Quota errors: [domain.QuotaExceededError]
//   - 401 responses: wrap [domain.ErrAuthInvalid]
//   - Missing repositories: [ErrRepoNotFound] wrapping [domain.ErrNotFound]
//   - Other API responses: [APIError]
//
// # Example Usage
//
//	connector, _ := github.New(github.DefaultConfig(target))
//	source, err := connector.Connect(ctx, token)
//	if err != nil {
//	    return err
//	}
//	issues, err := source.GetPage(ctx, domain.StateAll, 0)
package github
