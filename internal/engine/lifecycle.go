package engine

import (
	"context"

	"stackfix.dev/stackfix/internal/output"
)

// LifecycleManager decides when a now-obsolete branch may be deleted. Sibling
// PRs can share a base branch and conflict independently; the branch must
// outlive every Blocked sibling or the survivors lose their honest diff.
type LifecycleManager struct {
	git      GitRunner
	resolver *Resolver
	tracker  *ConflictTracker
	remote   string
	log      *output.Splog
}

// NewLifecycleManager creates a new LifecycleManager
func NewLifecycleManager(git GitRunner, resolver *Resolver, tracker *ConflictTracker, remote string, log *output.Splog) *LifecycleManager {
	return &LifecycleManager{
		git:      git,
		resolver: resolver,
		tracker:  tracker,
		remote:   remote,
		log:      log,
	}
}

// MaybeDeleteBranch deletes the candidate branch from the remote (and the
// local clone) only when no open PR based on it is still Blocked. Returns
// true when the branch was deleted. All PRs based on the branch are
// enumerated fresh at decision time, not just the ones this run touched.
func (m *LifecycleManager) MaybeDeleteBranch(ctx context.Context, branch string) (bool, error) {
	prs, err := m.resolver.ChildrenOf(ctx, branch)
	if err != nil {
		return false, err
	}

	for _, pr := range prs {
		state, err := m.tracker.State(ctx, pr.Number)
		if err != nil {
			return false, err
		}
		if state == StateBlocked {
			m.log.Info("keeping branch %s: PR #%d is still blocked on it", branch, pr.Number)
			return false, nil
		}
	}

	if m.git.RemoteBranchExists(m.remote, branch) {
		if err := m.git.DeleteRemoteBranch(ctx, m.remote, branch); err != nil {
			return false, err
		}
	}
	if m.git.BranchExists(branch) {
		if err := m.git.DeleteLocalBranch(ctx, branch); err != nil {
			return false, err
		}
	}

	m.log.Info("deleted obsolete branch %s", branch)
	return true, nil
}
