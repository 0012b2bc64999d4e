package git

import (
	"context"
	"fmt"
	"os"
)

// MergeResult represents the result of a merge attempt
type MergeResult int

const (
	// MergeDone indicates the merge was successful
	MergeDone MergeResult = iota
	// MergeConflict indicates a conflict occurred and the merge was aborted
	MergeConflict
)

// MergeRef merges the given ref into the currently checked out branch.
// On conflict the in-progress merge is aborted, the working tree is restored,
// and MergeConflict is returned with a nil error. The caller's branch ref is
// never left pointing at a partial merge.
func MergeRef(ctx context.Context, ref string) (MergeResult, error) {
	_, err := RunGitCommandWithContext(ctx, "merge", "--no-edit", ref)
	if err != nil {
		if IsMergeInProgress(ctx) {
			if abortErr := MergeAbort(ctx); abortErr != nil {
				return MergeConflict, fmt.Errorf("failed to abort conflicted merge of %s: %w", ref, abortErr)
			}
			return MergeConflict, nil
		}
		return MergeConflict, fmt.Errorf("failed to merge %s: %w", ref, err)
	}
	return MergeDone, nil
}

// MergeOursNoContent records the given ref as a parent of the current branch
// without applying any of its content ("ours" strategy). Used to mark a commit
// as an ancestor when its diff is already present.
func MergeOursNoContent(ctx context.Context, ref string) error {
	_, err := RunGitCommandWithContext(ctx, "merge", "-s", "ours", "--no-edit", ref)
	if err != nil {
		return fmt.Errorf("failed to record %s as ancestor: %w", ref, err)
	}
	return nil
}

// MergeAbort aborts an in-progress merge
func MergeAbort(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "merge", "--abort")
	if err != nil {
		return fmt.Errorf("merge abort failed: %w", err)
	}
	return nil
}

// IsMergeInProgress checks if a merge is currently in progress
func IsMergeInProgress(ctx context.Context) bool {
	output, err := RunGitCommandWithContext(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return false
	}

	gitDir := output
	if defaultRunner.workingDir != "" && !os.IsPathSeparator(gitDir[0]) {
		gitDir = defaultRunner.workingDir + string(os.PathSeparator) + gitDir
	}
	if _, err := os.Stat(gitDir + string(os.PathSeparator) + "MERGE_HEAD"); err == nil {
		return true
	}
	return false
}
