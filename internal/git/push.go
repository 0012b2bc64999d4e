package git

import (
	"context"
	"fmt"
	"strings"

	stackfixerrors "stackfix.dev/stackfix/internal/errors"
)

// PushBranch pushes a branch to remote.
// If forceWithLease is true, uses --force-with-lease so a concurrent run that
// advanced the remote branch causes a clean rejection instead of a clobber.
// If force is true, uses --force (overwrites remote).
func PushBranch(ctx context.Context, branchName, remote string, force, forceWithLease bool) error {
	args := []string{"push", remote}

	if force {
		args = append(args, "--force")
	} else if forceWithLease {
		args = append(args, "--force-with-lease")
	}

	args = append(args, branchName)

	_, err := RunGitCommandWithContext(ctx, args...)
	if err != nil {
		if strings.Contains(err.Error(), "stale info") || strings.Contains(err.Error(), "[rejected]") {
			return fmt.Errorf("push of %s rejected, remote branch changed since fetch: %w", branchName, stackfixerrors.ErrStaleRemoteInfo)
		}
		return fmt.Errorf("failed to push branch %s: %w", branchName, err)
	}

	return nil
}
