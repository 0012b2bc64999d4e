// Package errors provides sentinel errors and custom error types for the stackfix application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrBranchNotFound indicates that a branch does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrStaleRemoteInfo indicates that a force-with-lease push was rejected
	// because the remote branch moved since it was last fetched
	ErrStaleRemoteInfo = errors.New("stale info")

	// ErrInvariantViolation indicates that an expected ref or commit is missing;
	// the run must stop without pushing anything
	ErrInvariantViolation = errors.New("invariant violation")
)

// BranchNotFoundError represents an error when a branch is not found
type BranchNotFoundError struct {
	BranchName string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %s does not exist", e.BranchName)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchName string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchName: branchName}
}

// InvariantViolationError represents a missing ref or commit that the engine
// expected to exist. The run aborts without mutating remote state.
type InvariantViolationError struct {
	Ref     string
	Message string
}

func (e *InvariantViolationError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("invariant violation: %s (%s)", e.Message, e.Ref)
	}
	return fmt.Sprintf("invariant violation: %s", e.Message)
}

// Is returns true if the target error is ErrInvariantViolation
func (e *InvariantViolationError) Is(target error) bool {
	return target == ErrInvariantViolation
}

// NewInvariantViolationError creates a new InvariantViolationError
func NewInvariantViolationError(ref, message string) *InvariantViolationError {
	return &InvariantViolationError{Ref: ref, Message: message}
}

// ForgeAPIError represents a failed call to the forge API. Transient failures
// are retried by the CI collaborator, not by the engine.
type ForgeAPIError struct {
	Operation string
	PRNumber  int
	Err       error
}

func (e *ForgeAPIError) Error() string {
	if e.PRNumber > 0 {
		return fmt.Sprintf("forge API %s failed for PR #%d: %v", e.Operation, e.PRNumber, e.Err)
	}
	return fmt.Sprintf("forge API %s failed: %v", e.Operation, e.Err)
}

func (e *ForgeAPIError) Unwrap() error {
	return e.Err
}

// NewForgeAPIError creates a new ForgeAPIError
func NewForgeAPIError(operation string, prNumber int, err error) *ForgeAPIError {
	return &ForgeAPIError{Operation: operation, PRNumber: prNumber, Err: err}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
