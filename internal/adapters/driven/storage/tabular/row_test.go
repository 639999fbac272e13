package tabular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func TestRow(t *testing.T) {
	created := time.Date(2023, 4, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	closed := time.Date(2023, 4, 2, 8, 30, 0, 0, time.UTC)

	rec := domain.IssueRecord{
		ID:          7,
		Kind:        domain.KindIssue,
		State:       "closed",
		StateReason: strPtr("completed"),
		Title:       "Crash on start",
		Body:        strPtr("it, \"crashes\"\nbadly"),
		Author:      "alice",
		CreatedAt:   created,
		UpdatedAt:   closed,
		ClosedAt:    &closed,
		Assignees:   []string{"bob"},
		Labels: []domain.Label{
			{Name: "bug", Description: strPtr("Something is broken")},
			{Name: "p1"},
		},
		URL: "https://github.com/octo/widgets/issues/7",
		Comments: []domain.CommentRecord{
			{ID: 70, IssueID: 7, Author: "bob", Body: "fixed", CreatedAt: closed},
		},
		Transcript: "alice (Issue Creator) on (...): it crashes\n\n",
	}

	row, err := Row(rec)

	require.NoError(t, err)
	require.Len(t, row, len(domain.Columns))
	assert.Equal(t, []string{
		"7",
		"issue",
		"closed",
		"completed",
		"Crash on start",
		"it, \"crashes\"\nbadly",
		"alice",
		"2023-04-01T08:00:00Z",
		"2023-04-02T08:30:00Z",
		"2023-04-02T08:30:00Z",
		`["bob"]`,
		`[["bug","Something is broken"],["p1",null]]`,
		"https://github.com/octo/widgets/issues/7",
		`[{"comment_id":70,"issue_id":7,"author":"bob","body":"fixed","created_at":"2023-04-02T08:30:00Z"}]`,
		"alice (Issue Creator) on (...): it crashes\n\n",
	}, row)
}

func TestRow_NullsAreEmpty(t *testing.T) {
	row, err := Row(domain.IssueRecord{ID: 1, Kind: domain.KindPullRequest, State: "open"})

	require.NoError(t, err)
	assert.Equal(t, "", row[3], "state_reason")
	assert.Equal(t, "", row[5], "body")
	assert.Equal(t, "", row[9], "closed_at")
	assert.Equal(t, "[]", row[10])
	assert.Equal(t, "[]", row[11])
	assert.Equal(t, "[]", row[13])
}
