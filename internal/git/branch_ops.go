package git

import (
	"context"
	"fmt"
)

// CheckoutDetached checks out a revision in detached HEAD state
func CheckoutDetached(ctx context.Context, rev string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", "--detach", rev)
	if err != nil {
		return fmt.Errorf("failed to checkout %s in detached state: %w", rev, err)
	}
	return nil
}

// UpdateBranchRef updates a branch reference to point to a new commit
func UpdateBranchRef(branchName, commitSHA string) error {
	_, err := RunGitCommandWithContext(context.Background(), "update-ref", "refs/heads/"+branchName, commitSHA)
	if err != nil {
		return fmt.Errorf("failed to update branch ref: %w", err)
	}
	return nil
}

// DeleteLocalBranch deletes a local branch
func DeleteLocalBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// DeleteRemoteBranch deletes a branch on the remote
func DeleteRemoteBranch(ctx context.Context, remote, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "push", remote, ":"+branchName)
	if err != nil {
		return fmt.Errorf("failed to delete remote branch %s: %w", branchName, err)
	}
	return nil
}

// BranchExists reports whether a local branch exists
func BranchExists(branchName string) bool {
	_, err := RunGitCommand("show-ref", "--verify", "--quiet", "refs/heads/"+branchName)
	return err == nil
}
