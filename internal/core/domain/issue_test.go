package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawIssue_IsPullRequest(t *testing.T) {
	link := "https://api.github.com/repos/o/r/pulls/1"

	assert.False(t, RawIssue{ID: 1}.IsPullRequest())
	assert.True(t, RawIssue{ID: 2, PullRequestURL: &link}.IsPullRequest())
}

func TestIssueRecord_IsPullRequest(t *testing.T) {
	issue := &IssueRecord{Kind: KindIssue}
	pr := &IssueRecord{Kind: KindPullRequest}

	assert.False(t, issue.IsPullRequest())
	assert.True(t, pr.IsPullRequest())
}

func TestColumns(t *testing.T) {
	assert.Len(t, Columns, 15)
	assert.Equal(t, "id", Columns[0])
	assert.Equal(t, "comment_thread", Columns[len(Columns)-1])
}
