// Package github provides a client for interacting with the GitHub API.
package github

import (
	"context"
)

// PullRequestInfo contains information about a pull request
// This is a simplified struct to avoid coupling to go-github library
type PullRequestInfo struct {
	Number int
	State  string
	Merged bool
	Head   string
	Base   string
	Labels []string
}

// HasLabel returns true if the pull request carries the given label
func (pr PullRequestInfo) HasLabel(label string) bool {
	for _, l := range pr.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Client is an interface for GitHub API interactions
type Client interface {
	// ListPullRequestsByBase returns all open pull requests whose base branch
	// is the given branch
	ListPullRequestsByBase(ctx context.Context, base string) ([]PullRequestInfo, error)

	// GetPullRequestByHead returns the open pull request whose head is the
	// given branch, or nil if none exists
	GetPullRequestByHead(ctx context.Context, head string) (*PullRequestInfo, error)

	// GetMergedPullRequestByHead returns the most recently merged pull request
	// whose head is the given branch, or nil if none exists. Used to find where
	// a squash-merged branch landed.
	GetMergedPullRequestByHead(ctx context.Context, head string) (*PullRequestInfo, error)

	// SetPullRequestBase changes a pull request's base branch
	SetPullRequestBase(ctx context.Context, number int, base string) error

	// AddLabel attaches a label to a pull request
	AddLabel(ctx context.Context, number int, label string) error

	// RemoveLabel detaches a label from a pull request
	RemoveLabel(ctx context.Context, number int, label string) error

	// HasLabel reports whether a pull request currently carries a label.
	// Always read fresh from the API; labels are the engine's persisted state.
	HasLabel(ctx context.Context, number int, label string) (bool, error)

	// PostComment appends a comment to a pull request's thread
	PostComment(ctx context.Context, number int, body string) error

	// GetOwnerRepo returns the repository owner and name
	GetOwnerRepo() (owner, repo string)
}
