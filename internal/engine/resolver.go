package engine

import (
	"context"

	"stackfix.dev/stackfix/internal/github"
)

// Resolver discovers the stack structure one level at a time. The graph is
// never cached: branches are renamed and deleted by this same process, so
// every level is read fresh from the forge.
type Resolver struct {
	forge github.Client
}

// NewResolver creates a new Resolver
func NewResolver(forge github.Client) *Resolver {
	return &Resolver{forge: forge}
}

// ChildrenOf returns the open pull requests whose base branch is the given
// branch. Leaves return an empty slice.
func (r *Resolver) ChildrenOf(ctx context.Context, branch string) ([]github.PullRequestInfo, error) {
	return r.forge.ListPullRequestsByBase(ctx, branch)
}
