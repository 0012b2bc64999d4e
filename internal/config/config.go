// Package config resolves run configuration from the environment.
//
// The tool is designed to run inside CI jobs, so everything is settable
// through environment variables; command-line flags override them.
package config

import (
	"os"

	"stackfix.dev/stackfix/internal/git"
)

// Environment variable names
const (
	EnvRemote        = "STACKFIX_REMOTE"
	EnvConflictLabel = "STACKFIX_CONFLICT_LABEL"
	EnvLogFile       = "STACKFIX_LOG_FILE"
	EnvGitHubToken   = "GITHUB_TOKEN"
)

// DefaultConflictLabel is the label used when STACKFIX_CONFLICT_LABEL is unset
const DefaultConflictLabel = "stack-conflict"

// Config holds the resolved settings for a single run
type Config struct {
	// Remote is the git remote pushed to and fetched from
	Remote string
	// ConflictLabel is the PR label that persists the blocked state
	ConflictLabel string
	// LogFile is an optional path for a rotating log file
	LogFile string
}

// Load resolves configuration from the environment, falling back to defaults.
// The remote defaults to the repository's remote.pushDefault when configured.
func Load() Config {
	return Config{
		Remote:        envOr(EnvRemote, git.GetRemote()),
		ConflictLabel: envOr(EnvConflictLabel, DefaultConflictLabel),
		LogFile:       os.Getenv(EnvLogFile),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
