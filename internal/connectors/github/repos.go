package github

import (
	"context"
	"fmt"

	"github.com/custodia-labs/gitslurp/internal/core/domain"
)

// ResolveRepository looks up target and returns its canonical owner and
// name, following renames and transfers. Repositories without an issue
// tracker are rejected.
func ResolveRepository(ctx context.Context, client *Client, target domain.Target) (domain.Target, error) {
	repo, err := client.GetRepository(ctx, target.Owner, target.Name)
	if err != nil {
		if IsNotFound(err) {
			return domain.Target{}, fmt.Errorf("%w: %s: %w", ErrRepoNotFound, target, domain.ErrNotFound)
		}
		return domain.Target{}, err
	}

	if !repo.GetHasIssues() {
		return domain.Target{}, fmt.Errorf("%w: %s", ErrIssuesDisabled, target)
	}

	resolved := domain.Target{
		Owner: repo.GetOwner().GetLogin(),
		Name:  repo.GetName(),
	}
	if resolved.Owner == "" || resolved.Name == "" {
		return target, nil
	}
	return resolved, nil
}
