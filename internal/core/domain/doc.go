// Package domain defines the core business entities for gitslurp.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawIssue / RawComment: Source-neutral records yielded by a RemoteSource
//   - IssueRecord / CommentRecord: Normalised rows written to storage
//   - Checkpoint: Durable crawl progress for a target
//   - Target: The repository being crawled
//   - CredentialPool: Ordered credentials with a rotating cursor
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
