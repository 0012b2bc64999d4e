// Package engine implements the stack-update engine: after a pull request at
// the bottom of a stack is squash-merged, it repairs every dependent branch's
// ancestry, defers on merge conflicts, and deletes obsolete base branches
// once no blocked pull request still needs them.
package engine

// DefaultConflictLabel is the label that marks a pull request as blocked on a
// manual conflict resolution. The label is the persisted state: the engine
// holds nothing in memory across runs.
const DefaultConflictLabel = "stack-conflict"

// MergeEvent describes a squash-merge that just landed. Produced externally
// by the CI trigger when the bottom PR of a stack is merged.
type MergeEvent struct {
	// SquashCommit is the single commit the squash-merge created on the target branch
	SquashCommit string
	// MergedBranch is the head branch of the PR that was squash-merged
	MergedBranch string
	// TargetBranch is the branch the PR was merged into
	TargetBranch string
}

// ConflictState is the per-PR two-state automaton, persisted as a label
type ConflictState int

const (
	// StateClean means the PR is eligible for automatic updates
	StateClean ConflictState = iota
	// StateBlocked means automatic updates are paused until a human resolves
	// the conflict and pushes to the head branch
	StateBlocked
)

func (s ConflictState) String() string {
	if s == StateBlocked {
		return "blocked"
	}
	return "clean"
}

// SynthesisResult is the outcome of one commit synthesis attempt
type SynthesisResult struct {
	// NewTip is the fabricated commit SHA; empty when Conflicted
	NewTip string
	// Conflicted is true when a merge step reported a conflict
	Conflicted bool
	// ConflictRef names the ref whose merge failed
	ConflictRef string
}
