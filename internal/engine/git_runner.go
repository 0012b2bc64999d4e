package engine

import (
	"context"

	"stackfix.dev/stackfix/internal/git"
)

// GitRunner defines the interface for git operations used by the engine.
// This allows the engine to be used with both real git and mock implementations.
type GitRunner interface {
	// Repository
	Fetch(ctx context.Context, remote string) error

	// Revision and object information
	GetRevision(ref string) (string, error)
	GetTreeSHA(ref string) (string, error)
	GetFirstParent(commitSHA string) (string, error)
	CommitExists(ref string) bool
	IsAncestor(ancestor, descendant string) (bool, error)
	BranchExists(branchName string) bool
	RemoteBranchExists(remote, branchName string) bool

	// Working tree operations
	CheckoutDetached(ctx context.Context, revision string) error
	MergeRef(ctx context.Context, ref string) (git.MergeResult, error)
	MergeOursNoContent(ctx context.Context, ref string) error

	// Ref and object mutation
	CreateCommit(ctx context.Context, tree string, parents []string, message string) (string, error)
	UpdateBranchRef(branchName, revision string) error
	PushBranch(ctx context.Context, branchName, remote string, force, forceWithLease bool) error
	DeleteLocalBranch(ctx context.Context, branchName string) error
	DeleteRemoteBranch(ctx context.Context, remote, branchName string) error
}

// NewGitRunner returns a standard implementation of GitRunner that calls
// the package-level git functions.
func NewGitRunner() GitRunner {
	return &realGitRunner{}
}

// realGitRunner implements GitRunner by calling the actual git package functions
type realGitRunner struct{}

func (r *realGitRunner) Fetch(ctx context.Context, remote string) error {
	return git.Fetch(ctx, remote)
}

func (r *realGitRunner) GetRevision(ref string) (string, error) {
	return git.GetRevision(ref)
}

func (r *realGitRunner) GetTreeSHA(ref string) (string, error) {
	return git.GetTreeSHA(ref)
}

func (r *realGitRunner) GetFirstParent(commitSHA string) (string, error) {
	return git.GetFirstParent(commitSHA)
}

func (r *realGitRunner) CommitExists(ref string) bool {
	return git.CommitExists(ref)
}

func (r *realGitRunner) IsAncestor(ancestor, descendant string) (bool, error) {
	return git.IsAncestor(ancestor, descendant)
}

func (r *realGitRunner) BranchExists(branchName string) bool {
	return git.BranchExists(branchName)
}

func (r *realGitRunner) RemoteBranchExists(remote, branchName string) bool {
	return git.RemoteBranchExists(remote, branchName)
}

func (r *realGitRunner) CheckoutDetached(ctx context.Context, revision string) error {
	return git.CheckoutDetached(ctx, revision)
}

func (r *realGitRunner) MergeRef(ctx context.Context, ref string) (git.MergeResult, error) {
	return git.MergeRef(ctx, ref)
}

func (r *realGitRunner) MergeOursNoContent(ctx context.Context, ref string) error {
	return git.MergeOursNoContent(ctx, ref)
}

func (r *realGitRunner) CreateCommit(ctx context.Context, tree string, parents []string, message string) (string, error) {
	return git.CreateCommit(ctx, tree, parents, message)
}

func (r *realGitRunner) UpdateBranchRef(branchName, revision string) error {
	return git.UpdateBranchRef(branchName, revision)
}

func (r *realGitRunner) PushBranch(ctx context.Context, branchName, remote string, force, forceWithLease bool) error {
	return git.PushBranch(ctx, branchName, remote, force, forceWithLease)
}

func (r *realGitRunner) DeleteLocalBranch(ctx context.Context, branchName string) error {
	return git.DeleteLocalBranch(ctx, branchName)
}

func (r *realGitRunner) DeleteRemoteBranch(ctx context.Context, remote, branchName string) error {
	return git.DeleteRemoteBranch(ctx, remote, branchName)
}
