package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

// issueListOptions builds the listing query for a zero-based page index.
// The order matches the API default (newest first), so pages shift when
// issues are opened between runs.
func issueListOptions(state domain.StateFilter, pageIndex, perPage int) *gh.IssueListByRepoOptions {
	return &gh.IssueListByRepoOptions{
		State:     string(state),
		Sort:      "created",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			Page:    pageIndex + 1,
			PerPage: perPage,
		},
	}
}

// FetchIssuePage retrieves one page of issues and pull requests.
func FetchIssuePage(
	ctx context.Context, client *Client, target domain.Target, state domain.StateFilter, pageIndex, perPage int,
) ([]domain.RawIssue, error) {
	if pageIndex < 0 {
		return nil, fmt.Errorf("%w: negative page index %d", domain.ErrInvalidInput, pageIndex)
	}

	issues, err := client.ListIssuesPage(ctx, target.Owner, target.Name, issueListOptions(state, pageIndex, perPage))
	if err != nil {
		return nil, err
	}

	raws := make([]domain.RawIssue, 0, len(issues))
	for _, issue := range issues {
		raws = append(raws, convertIssue(issue))
	}
	return raws, nil
}

// FetchIssueComments retrieves all comments for an issue.
func FetchIssueComments(
	ctx context.Context, client *Client, target domain.Target, issueNumber int,
) ([]domain.RawComment, error) {
	comments, err := client.ListIssueComments(ctx, target.Owner, target.Name, issueNumber)
	if err != nil {
		return nil, err
	}

	raws := make([]domain.RawComment, 0, len(comments))
	for _, c := range comments {
		raws = append(raws, convertComment(c))
	}
	return raws, nil
}

// convertIssue maps a go-github issue to the source-neutral shape.
func convertIssue(issue *gh.Issue) domain.RawIssue {
	raw := domain.RawIssue{
		ID:          issue.GetID(),
		Number:      issue.GetNumber(),
		State:       issue.GetState(),
		StateReason: issue.StateReason,
		Title:       issue.GetTitle(),
		Body:        issue.Body,
		Author:      issue.GetUser().GetLogin(),
		CreatedAt:   issue.GetCreatedAt().Time,
		UpdatedAt:   issue.GetUpdatedAt().Time,
		HTMLURL:     issue.GetHTMLURL(),
		Comments:    issue.GetComments(),
	}

	if issue.ClosedAt != nil {
		closed := issue.ClosedAt.Time
		raw.ClosedAt = &closed
	}

	if issue.IsPullRequest() {
		link := issue.GetPullRequestLinks().GetURL()
		if link == "" {
			link = issue.GetHTMLURL()
		}
		raw.PullRequestURL = &link
	}

	raw.Assignees = make([]string, 0, len(issue.Assignees))
	for _, a := range issue.Assignees {
		raw.Assignees = append(raw.Assignees, a.GetLogin())
	}

	raw.Labels = make([]domain.RawLabel, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		raw.Labels = append(raw.Labels, domain.RawLabel{
			Name:        l.GetName(),
			Description: l.Description,
		})
	}

	return raw
}

// convertComment maps a go-github issue comment to the source-neutral shape.
func convertComment(c *gh.IssueComment) domain.RawComment {
	return domain.RawComment{
		ID:        c.GetID(),
		Author:    c.GetUser().GetLogin(),
		Body:      c.GetBody(),
		CreatedAt: c.GetCreatedAt().Time,
	}
}
