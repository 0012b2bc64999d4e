package engine

import (
	"context"
	"fmt"

	"stackfix.dev/stackfix/internal/github"
	"stackfix.dev/stackfix/internal/output"

	stackfixerrors "stackfix.dev/stackfix/internal/errors"
)

// Orchestrator sequences the engine components for both trigger modes. Each
// run is a single sequential process; safety across concurrent runs comes
// from the ancestry guard, force-with-lease pushes, and label-as-state.
type Orchestrator struct {
	git       GitRunner
	forge     github.Client
	guard     *Guard
	resolver  *Resolver
	synth     *Synthesizer
	tracker   *ConflictTracker
	lifecycle *LifecycleManager
	remote    string
	log       *output.Splog
}

// Options configures an Orchestrator
type Options struct {
	// Remote is the git remote to push to (default "origin")
	Remote string
	// ConflictLabel overrides the label used to persist the Blocked state
	ConflictLabel string
	// Log receives run output; a silent logger is used when nil
	Log *output.Splog
}

// New creates a fully wired Orchestrator
func New(gitRunner GitRunner, forge github.Client, opts Options) *Orchestrator {
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.Log == nil {
		opts.Log = output.NewSplog()
	}

	resolver := NewResolver(forge)
	tracker := NewConflictTracker(forge, opts.ConflictLabel, opts.Log)

	return &Orchestrator{
		git:       gitRunner,
		forge:     forge,
		guard:     NewGuard(gitRunner),
		resolver:  resolver,
		synth:     NewSynthesizer(gitRunner),
		tracker:   tracker,
		lifecycle: NewLifecycleManager(gitRunner, resolver, tracker, opts.Remote, opts.Log),
		remote:    opts.Remote,
		log:       opts.Log,
	}
}

// RunMergeEvent handles a fresh squash-merge (Mode A): every direct child of
// the merged branch gets a synthesized ancestry-repair commit, deeper
// descendants get indirect merges, conflicting PRs are blocked, and the
// merged branch is deleted once nothing blocked still references it.
//
// A failure in one child's subtree aborts only that subtree; independent
// subtrees still run. Branches are pushed only after their whole subtree
// succeeded locally.
func (o *Orchestrator) RunMergeEvent(ctx context.Context, event MergeEvent) error {
	if event.SquashCommit == "" || event.MergedBranch == "" || event.TargetBranch == "" {
		return stackfixerrors.NewInvariantViolationError("", "merge event is missing squash commit, merged branch, or target branch")
	}

	if err := o.git.Fetch(ctx, o.remote); err != nil {
		return err
	}

	if !o.git.CommitExists(event.SquashCommit) {
		return stackfixerrors.NewInvariantViolationError(event.SquashCommit, "squash commit not found")
	}

	children, err := o.resolver.ChildrenOf(ctx, event.MergedBranch)
	if err != nil {
		return err
	}
	if len(children) == 0 {
		o.log.Info("no pull requests are stacked on %s, nothing to update", event.MergedBranch)
	}

	mergedTip, err := o.git.GetRevision(event.MergedBranch)
	if err != nil {
		if len(children) == 0 {
			// A previous run already retargeted everything and deleted the
			// branch; re-running is a no-op.
			return nil
		}
		return stackfixerrors.NewInvariantViolationError(event.MergedBranch, "merged branch tip not found")
	}

	var firstErr error
	for _, child := range children {
		if err := o.updateDirectChild(ctx, child, event, mergedTip); err != nil {
			o.log.Error("updating %s failed: %v", child.Head, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return firstErr
	}

	if _, err := o.lifecycle.MaybeDeleteBranch(ctx, event.MergedBranch); err != nil {
		return err
	}
	return nil
}

// updateDirectChild repairs one direct child of the merged branch and
// recursively propagates into its descendants.
func (o *Orchestrator) updateDirectChild(ctx context.Context, child github.PullRequestInfo, event MergeEvent, mergedTip string) error {
	state, err := o.tracker.State(ctx, child.Number)
	if err != nil {
		return err
	}
	if state == StateBlocked {
		o.log.Info("PR #%d (%s) is blocked, leaving it for manual resolution", child.Number, child.Head)
		return nil
	}

	var advanced []string

	upToDate, err := o.guard.IsUpToDate(child.Head, mergedTip, event.SquashCommit)
	if err != nil {
		return err
	}
	if upToDate {
		o.log.Debug("%s already contains the squash commit, skipping synthesis", child.Head)
	} else {
		result, err := o.synth.Synthesize(ctx, child.Head, mergedTip, event.SquashCommit)
		if err != nil {
			return err
		}
		if result.Conflicted {
			// Descendants are not visited: their parent never advanced,
			// so no update is due below this point.
			return o.tracker.MarkBlocked(ctx, child, event.TargetBranch)
		}
		advanced = append(advanced, child.Head)
		o.log.Info("synthesized update for %s (%s)", child.Head, shortSHA(result.NewTip))
	}

	if err := o.propagate(ctx, child.Head, &advanced); err != nil {
		return err
	}

	for _, branch := range advanced {
		if err := o.git.PushBranch(ctx, branch, o.remote, false, true); err != nil {
			return err
		}
	}

	if child.Base != event.TargetBranch {
		if err := o.forge.SetPullRequestBase(ctx, child.Number, event.TargetBranch); err != nil {
			return err
		}
		o.log.Info("PR #%d base changed to %s", child.Number, event.TargetBranch)
	}
	return nil
}

// propagate applies indirect updates below an updated branch: each open PR
// based on it gets the parent merged in, then its own children are visited.
// A conflict blocks that PR and stops recursion along that path only.
// Successfully advanced branches accumulate for the caller to push.
func (o *Orchestrator) propagate(ctx context.Context, parentBranch string, advanced *[]string) error {
	parentTip, err := o.git.GetRevision(parentBranch)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", parentBranch, err)
	}

	children, err := o.resolver.ChildrenOf(ctx, parentBranch)
	if err != nil {
		return err
	}

	for _, child := range children {
		state, err := o.tracker.State(ctx, child.Number)
		if err != nil {
			return err
		}
		if state == StateBlocked {
			o.log.Info("PR #%d (%s) is blocked, leaving it for manual resolution", child.Number, child.Head)
			continue
		}

		upToDate, err := o.guard.IsUpToDate(child.Head, parentBranch, parentTip)
		if err != nil {
			return err
		}
		if !upToDate {
			result, err := o.synth.MergeParent(ctx, child.Head, parentTip)
			if err != nil {
				return err
			}
			if result.Conflicted {
				if err := o.tracker.MarkBlocked(ctx, child, parentBranch); err != nil {
					return err
				}
				continue
			}
			*advanced = append(*advanced, child.Head)
			o.log.Info("merged %s into %s (%s)", parentBranch, child.Head, shortSHA(result.NewTip))
		}

		if err := o.propagate(ctx, child.Head, advanced); err != nil {
			return err
		}
	}
	return nil
}

// RunResolvedEvent handles a push to a previously blocked branch (Mode B).
// If the human's resolution is complete, the PR transitions back to Clean,
// its base is retargeted, propagation resumes into its own descendants, and
// the branch it used to depend on becomes a deletion candidate.
func (o *Orchestrator) RunResolvedEvent(ctx context.Context, headBranch string) error {
	if err := o.git.Fetch(ctx, o.remote); err != nil {
		return err
	}

	pr, err := o.forge.GetPullRequestByHead(ctx, headBranch)
	if err != nil {
		return err
	}
	if pr == nil {
		o.log.Info("no open pull request for %s, nothing to do", headBranch)
		return nil
	}

	state, err := o.tracker.State(ctx, pr.Number)
	if err != nil {
		return err
	}
	if state == StateClean {
		o.log.Debug("PR #%d is not blocked, nothing to resume", pr.Number)
		return nil
	}

	// The intended base: when the current base branch was itself squash-merged
	// somewhere, this PR is a direct child and must move to that target.
	// Otherwise the base is a live parent branch and stays as-is.
	oldBase := pr.Base
	target := oldBase
	retarget := false
	mergedPR, err := o.forge.GetMergedPullRequestByHead(ctx, oldBase)
	if err != nil {
		return err
	}
	if mergedPR != nil {
		target = mergedPR.Base
		retarget = true
	}

	targetTip, err := o.git.GetRevision(target)
	if err != nil {
		return stackfixerrors.NewInvariantViolationError(target, "intended base branch not found")
	}

	resolved, err := o.guard.IsUpToDate(headBranch, target, targetTip)
	if err != nil {
		return err
	}
	if !resolved {
		// The pushed resolution does not yet contain the intended base.
		// Stay Blocked; the guard keeps this re-entrant without a fresh
		// comment/label cycle.
		o.log.Info("%s does not contain %s yet, still blocked", headBranch, target)
		return nil
	}

	if err := o.tracker.MarkResolved(ctx, *pr, target); err != nil {
		return err
	}
	if retarget {
		if err := o.forge.SetPullRequestBase(ctx, pr.Number, target); err != nil {
			return err
		}
		o.log.Info("PR #%d base changed to %s", pr.Number, target)
	}

	var advanced []string
	if err := o.propagate(ctx, headBranch, &advanced); err != nil {
		return err
	}
	for _, branch := range advanced {
		if err := o.git.PushBranch(ctx, branch, o.remote, false, true); err != nil {
			return err
		}
	}

	if retarget {
		if _, err := o.lifecycle.MaybeDeleteBranch(ctx, oldBase); err != nil {
			return err
		}
	}
	return nil
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
