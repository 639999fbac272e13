package services

import (
	"strings"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

const (
	// TranscriptTimeLayout formats comment timestamps in transcripts.
	TranscriptTimeLayout = "2006-01-02 15:04:05 MST"

	creatorSuffix  = " (Issue Creator)"
	assigneeSuffix = " (Assignee)"
)

// lineBreaks folds CRLF and lone CR line endings into LF.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// RemoveQuotedComments drops every line whose trimmed form starts with '>'
// and trims the result. Lines are rejoined with LF whatever the input line
// endings were. Applying it twice yields the same text.
func RemoveQuotedComments(text string) string {
	lines := strings.Split(lineBreaks.Replace(text), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), ">") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// DisplayAuthor annotates author with its role on the issue.
// The creator suffix wins over the assignee suffix.
func DisplayAuthor(author, creator string, assignees []string) string {
	if author == creator {
		return author + creatorSuffix
	}
	for _, a := range assignees {
		if a == author {
			return author + assigneeSuffix
		}
	}
	return author
}

// BuildTranscript renders comments in order as a readable thread.
// Each comment contributes one header line followed by its quote-stripped body.
func BuildTranscript(creator string, assignees []string, comments []domain.RawComment) string {
	if len(comments) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, c := range comments {
		sb.WriteString(DisplayAuthor(c.Author, creator, assignees))
		sb.WriteString(" on (")
		sb.WriteString(c.CreatedAt.Format(TranscriptTimeLayout))
		sb.WriteString("): ")
		sb.WriteString(RemoveQuotedComments(c.Body))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Transform builds the stored record for raw and its comments.
// It does not retain or modify either input.
func Transform(raw domain.RawIssue, comments []domain.RawComment) domain.IssueRecord {
	kind := domain.KindIssue
	if raw.IsPullRequest() {
		kind = domain.KindPullRequest
	}

	rec := domain.IssueRecord{
		ID:          raw.ID,
		Kind:        kind,
		State:       raw.State,
		StateReason: cloneString(raw.StateReason),
		Title:       raw.Title,
		Body:        cloneString(raw.Body),
		Author:      raw.Author,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
		URL:         raw.HTMLURL,
		Assignees:   append([]string{}, raw.Assignees...),
		Labels:      make([]domain.Label, 0, len(raw.Labels)),
		Comments:    make([]domain.CommentRecord, 0, len(comments)),
		Transcript:  BuildTranscript(raw.Author, raw.Assignees, comments),
	}
	if raw.ClosedAt != nil {
		closed := *raw.ClosedAt
		rec.ClosedAt = &closed
	}

	for _, l := range raw.Labels {
		rec.Labels = append(rec.Labels, domain.Label{
			Name:        l.Name,
			Description: cloneString(l.Description),
		})
	}

	for _, c := range comments {
		rec.Comments = append(rec.Comments, domain.CommentRecord{
			ID:        c.ID,
			IssueID:   raw.ID,
			Author:    c.Author,
			Body:      strings.TrimSpace(c.Body),
			CreatedAt: c.CreatedAt,
		})
	}

	return rec
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
