package driven

import (
	"context"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

// RemoteSource is a paginated listing of issue-like records for one repository.
// Pages are addressed by zero-based index within a fixed state filter.
// Content at a given index may shift if items are created upstream.
type RemoteSource interface {
	// GetPage returns the records at pageIndex, in source order.
	// An empty slice means the source is exhausted.
	// Quota exhaustion is reported as *domain.QuotaExceededError.
	GetPage(ctx context.Context, state domain.StateFilter, pageIndex int) ([]domain.RawIssue, error)

	// GetComments returns every comment on raw, oldest first.
	GetComments(ctx context.Context, raw domain.RawIssue) ([]domain.RawComment, error)

	// PageSize returns the number of records in a full page.
	PageSize() int
}

// SourceConnector opens a RemoteSource bound to a credential.
type SourceConnector interface {
	// Connect validates token and returns a source for the configured target.
	// An empty token opens an unauthenticated source.
	// A rejected credential is reported as domain.ErrAuthInvalid.
	Connect(ctx context.Context, token string) (RemoteSource, error)
}
