package domain

import "time"

// Kind distinguishes issues from pull requests.
type Kind string

const (
	// KindIssue is a plain issue.
	KindIssue Kind = "issue"

	// KindPullRequest is a pull request surfaced through the issues listing.
	KindPullRequest Kind = "pull_request"
)

// RawLabel is a label as returned by the source.
type RawLabel struct {
	Name        string
	Description *string
}

// RawIssue is one issue or pull request as returned by a RemoteSource.
// It carries everything needed to build an IssueRecord except comments.
type RawIssue struct {
	ID          int64
	Number      int
	State       string
	StateReason *string
	Title       string
	Body        *string
	Author      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
	Assignees   []string
	Labels      []RawLabel
	HTMLURL     string

	// PullRequestURL is non-nil when the record is a pull request.
	PullRequestURL *string

	// Comments is the upstream comment count, used to skip empty listings.
	Comments int
}

// IsPullRequest reports whether the raw record carries a pull-request linkage.
func (r RawIssue) IsPullRequest() bool {
	return r.PullRequestURL != nil
}

// RawComment is one comment as returned by a RemoteSource.
type RawComment struct {
	ID        int64
	Author    string
	Body      string
	CreatedAt time.Time
}

// Label is a (name, description) pair attached to an issue.
type Label struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CommentRecord is one normalised comment.
// Author is the plain login; role suffixes only appear in transcripts.
type CommentRecord struct {
	ID        int64     `json:"comment_id"`
	IssueID   int64     `json:"issue_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// IssueRecord is one normalised issue or pull request.
// Field order is the column order of the tabular datasets.
type IssueRecord struct {
	ID          int64
	Kind        Kind
	State       string
	StateReason *string
	Title       string
	Body        *string
	Author      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
	Assignees   []string
	Labels      []Label
	URL         string
	Comments    []CommentRecord
	Transcript  string
}

// IsPullRequest reports whether the record is a pull request.
func (r *IssueRecord) IsPullRequest() bool {
	return r.Kind == KindPullRequest
}

// Columns is the fixed column order for tabular issue datasets.
var Columns = []string{
	"id",
	"type",
	"state",
	"state_reason",
	"title",
	"body",
	"author",
	"created_at",
	"updated_at",
	"closed_at",
	"assignees",
	"labels",
	"url",
	"comments_list",
	"comment_thread",
}
