package engine

import (
	"fmt"
)

// Guard decides whether an update is already applied to a branch. Every
// mutation in the engine is preceded by this check, which makes runs safe to
// repeat after partial failures or duplicate trigger delivery.
type Guard struct {
	git GitRunner
}

// NewGuard creates a new Guard
func NewGuard(git GitRunner) *Guard {
	return &Guard{git: git}
}

// IsUpToDate returns true iff base is already an ancestor of branch and
// requiredCommit is already an ancestor of branch. No side effects.
func (g *Guard) IsUpToDate(branch, base, requiredCommit string) (bool, error) {
	baseOK, err := g.git.IsAncestor(base, branch)
	if err != nil {
		return false, fmt.Errorf("ancestry check of %s against %s: %w", base, branch, err)
	}
	if !baseOK {
		return false, nil
	}

	requiredOK, err := g.git.IsAncestor(requiredCommit, branch)
	if err != nil {
		return false, fmt.Errorf("ancestry check of %s against %s: %w", requiredCommit, branch, err)
	}
	return requiredOK, nil
}
