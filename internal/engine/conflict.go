package engine

import (
	"context"
	"fmt"

	"stackfix.dev/stackfix/internal/github"
	"stackfix.dev/stackfix/internal/output"
)

// ConflictTracker owns the per-PR Clean/Blocked automaton. The state lives in
// a PR label, never in process memory, so any later run — on any machine —
// resumes correctly by re-reading labels.
type ConflictTracker struct {
	forge github.Client
	label string
	log   *output.Splog
}

// NewConflictTracker creates a new ConflictTracker using the given label name
func NewConflictTracker(forge github.Client, label string, log *output.Splog) *ConflictTracker {
	if label == "" {
		label = DefaultConflictLabel
	}
	return &ConflictTracker{forge: forge, label: label, log: log}
}

// Label returns the label name used to persist the Blocked state
func (t *ConflictTracker) Label() string {
	return t.label
}

// State reads a PR's conflict state fresh from the forge
func (t *ConflictTracker) State(ctx context.Context, number int) (ConflictState, error) {
	blocked, err := t.forge.HasLabel(ctx, number, t.label)
	if err != nil {
		return StateClean, err
	}
	if blocked {
		return StateBlocked, nil
	}
	return StateClean, nil
}

// MarkBlocked transitions a PR from Clean to Blocked: attaches the label and
// posts manual recovery instructions. The PR's base branch and the remote
// branch tip are deliberately left untouched so the displayed diff stays
// minimal and honest. Re-entrant: a PR that is already Blocked gets no
// duplicate comment or label.
func (t *ConflictTracker) MarkBlocked(ctx context.Context, pr github.PullRequestInfo, targetBranch string) error {
	state, err := t.State(ctx, pr.Number)
	if err != nil {
		return err
	}
	if state == StateBlocked {
		t.log.Debug("PR #%d already blocked, skipping comment and label", pr.Number)
		return nil
	}

	if err := t.forge.PostComment(ctx, pr.Number, conflictCommentBody(pr.Head, targetBranch, t.label)); err != nil {
		return err
	}
	if err := t.forge.AddLabel(ctx, pr.Number, t.label); err != nil {
		return err
	}

	t.log.Warn("PR #%d (%s) blocked on a merge conflict, manual resolution required", pr.Number, pr.Head)
	return nil
}

// MarkResolved transitions a PR from Blocked to Clean: removes the label and
// posts a confirmation. The caller is responsible for retargeting the base.
func (t *ConflictTracker) MarkResolved(ctx context.Context, pr github.PullRequestInfo, targetBranch string) error {
	if err := t.forge.RemoveLabel(ctx, pr.Number, t.label); err != nil {
		return err
	}
	if err := t.forge.PostComment(ctx, pr.Number, resolvedCommentBody(targetBranch)); err != nil {
		return err
	}

	t.log.Info("PR #%d (%s) conflict resolved, resuming stack update", pr.Number, pr.Head)
	return nil
}

func conflictCommentBody(head, target, label string) string {
	return fmt.Sprintf("⚠️ The automatic stack update for this branch hit a merge conflict.\n\n"+
		"Merging the updated `%s` into `%s` conflicts. "+
		"The base of this PR has been left unchanged so the diff shown here stays accurate.\n\n"+
		"To resolve manually:\n\n"+
		"```\n"+
		"git fetch origin\n"+
		"git checkout %s\n"+
		"git merge origin/%s\n"+
		"# resolve the conflicts, then:\n"+
		"git add -A\n"+
		"git merge --continue\n"+
		"git push origin %s\n"+
		"```\n\n"+
		"Once the resolution is pushed, the `%s` label is removed and the stack update continues automatically, "+
		"including any branches stacked on top of this one.",
		target, head, head, target, head, label)
}

func resolvedCommentBody(target string) string {
	return fmt.Sprintf("✅ Conflict resolved. The base of this PR now points at `%s` and the update is propagating to any dependent branches.", target)
}
