package engine

import (
	"context"
	"fmt"

	"stackfix.dev/stackfix/internal/git"
)

// Synthesizer builds the commit that makes a direct child of the merged
// branch whole again. The commit's tree is what a three-way merge of
// child + old merged branch + new target would produce; its parent list is
// fabricated for ancestry semantics: {old child tip, old merged tip, squash
// commit}. Recording the squash commit as a parent makes later ancestry
// checks and three-dot diffs treat the squashed change as already landed
// without ever replaying its diff.
type Synthesizer struct {
	git GitRunner
}

// NewSynthesizer creates a new Synthesizer
func NewSynthesizer(git GitRunner) *Synthesizer {
	return &Synthesizer{git: git}
}

// Synthesize updates a direct child branch after its base was squash-merged.
// All merging happens on a detached HEAD: the branch ref moves only once, to
// the finished commit, so a conflict leaves branch and remote byte-identical
// to before the run.
func (s *Synthesizer) Synthesize(ctx context.Context, branch, mergedTip, squashCommit string) (SynthesisResult, error) {
	h0, err := s.git.GetRevision(branch)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to resolve %s: %w", branch, err)
	}

	preSquash, err := s.git.GetFirstParent(squashCommit)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to resolve pre-squash target state: %w", err)
	}

	if err := s.git.CheckoutDetached(ctx, h0); err != nil {
		return SynthesisResult{}, err
	}

	// Step 1: merge the old merged branch tip. Content is a no-op when the
	// child already descends from it, but the link must be explicit.
	result, err := s.git.MergeRef(ctx, mergedTip)
	if err != nil {
		return SynthesisResult{}, err
	}
	if result == git.MergeConflict {
		return SynthesisResult{Conflicted: true, ConflictRef: mergedTip}, nil
	}

	// Step 2: merge the pre-squash target state, bringing in unrelated
	// history the target gained before the squash landed.
	result, err = s.git.MergeRef(ctx, preSquash)
	if err != nil {
		return SynthesisResult{}, err
	}
	if result == git.MergeConflict {
		return SynthesisResult{Conflicted: true, ConflictRef: preSquash}, nil
	}

	// Step 3: record the squash commit as an ancestor without applying its
	// diff; the content already arrived in step 1. Applying it for real
	// would double-apply the change.
	if err := s.git.MergeOursNoContent(ctx, squashCommit); err != nil {
		return SynthesisResult{}, err
	}

	// Step 4: fabricate the final commit from the merged tree with exactly
	// three parents. The first parent keeps first-parent history truthful.
	tree, err := s.git.GetTreeSHA("HEAD")
	if err != nil {
		return SynthesisResult{}, err
	}

	message := fmt.Sprintf("Update %s after squash-merge of its base", branch)
	newTip, err := s.git.CreateCommit(ctx, tree, []string{h0, mergedTip, squashCommit}, message)
	if err != nil {
		return SynthesisResult{}, err
	}

	if err := s.git.UpdateBranchRef(branch, newTip); err != nil {
		return SynthesisResult{}, err
	}

	return SynthesisResult{NewTip: newTip}, nil
}

// MergeParent applies the indirect update for a deeper descendant: a plain
// merge of the already-updated parent branch, again staged on a detached
// HEAD so a conflict cannot move the branch.
func (s *Synthesizer) MergeParent(ctx context.Context, branch, parentTip string) (SynthesisResult, error) {
	h0, err := s.git.GetRevision(branch)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to resolve %s: %w", branch, err)
	}

	if err := s.git.CheckoutDetached(ctx, h0); err != nil {
		return SynthesisResult{}, err
	}

	result, err := s.git.MergeRef(ctx, parentTip)
	if err != nil {
		return SynthesisResult{}, err
	}
	if result == git.MergeConflict {
		return SynthesisResult{Conflicted: true, ConflictRef: parentTip}, nil
	}

	newTip, err := s.git.GetRevision("HEAD")
	if err != nil {
		return SynthesisResult{}, err
	}

	if err := s.git.UpdateBranchRef(branch, newTip); err != nil {
		return SynthesisResult{}, err
	}

	return SynthesisResult{NewTip: newTip}, nil
}
