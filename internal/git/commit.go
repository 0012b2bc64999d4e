package git

import (
	"context"
	"fmt"

	stackfixerrors "stackfix.dev/stackfix/internal/errors"
)

// GetRevision returns the commit SHA a ref currently points at
func GetRevision(ref string) (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	hash, err := resolveRefHash(repo, ref)
	if err != nil {
		return "", stackfixerrors.NewBranchNotFoundError(ref)
	}
	return hash.String(), nil
}

// GetTreeSHA returns the tree object SHA for a commit-ish
func GetTreeSHA(ref string) (string, error) {
	return RunGitCommand("rev-parse", ref+"^{tree}")
}

// GetFirstParent returns the first parent of a commit. A squash commit's first
// parent is the target branch tip as it was just before the squash landed.
func GetFirstParent(commitSHA string) (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	hash, err := resolveRefHash(repo, commitSHA)
	if err != nil {
		return "", err
	}

	commit, err := repo.CommitObject(hash)
	if err != nil {
		return "", fmt.Errorf("failed to get commit %s: %w", commitSHA, err)
	}

	if commit.NumParents() == 0 {
		return "", fmt.Errorf("commit %s has no parents", commitSHA)
	}
	return commit.ParentHashes[0].String(), nil
}

// CommitExists reports whether a commit-ish resolves to an object in the repository
func CommitExists(ref string) bool {
	repo, err := GetDefaultRepo()
	if err != nil {
		return false
	}
	_, err = resolveRefHash(repo, ref)
	return err == nil
}

// CreateCommit fabricates a commit object with the given tree and an explicit
// parent list, returning the new commit SHA. Parents are recorded in order;
// the first parent defines first-parent history.
func CreateCommit(ctx context.Context, tree string, parents []string, message string) (string, error) {
	args := []string{"commit-tree", tree}
	for _, parent := range parents {
		args = append(args, "-p", parent)
	}
	args = append(args, "-m", message)

	sha, err := RunGitCommandWithContext(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("failed to create commit: %w", err)
	}
	return sha, nil
}
