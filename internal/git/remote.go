package git

import (
	"context"
	"fmt"
)

// GetRemote returns the default remote name (usually "origin")
func GetRemote() string {
	remote, err := RunGitCommand("config", "--get", "remote.pushDefault")
	if err == nil && remote != "" {
		return remote
	}
	return "origin"
}

// Fetch updates remote-tracking refs so ancestry checks see current remote tips.
// A CI checkout may be stale or shallow; --unshallow failures are ignored for
// repositories that are already complete.
func Fetch(ctx context.Context, remote string) error {
	_, _ = RunGitCommandWithContext(ctx, "fetch", "--unshallow", remote)

	_, err := RunGitCommandWithContext(ctx, "fetch", "--prune", remote)
	if err != nil {
		return fmt.Errorf("failed to fetch from %s: %w", remote, err)
	}
	return nil
}

// RemoteBranchExists reports whether a remote-tracking branch exists. Only
// meaningful after a pruning fetch.
func RemoteBranchExists(remote, branchName string) bool {
	_, err := RunGitCommand("show-ref", "--verify", "--quiet", fmt.Sprintf("refs/remotes/%s/%s", remote, branchName))
	return err == nil
}
