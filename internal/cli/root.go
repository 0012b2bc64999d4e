package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"stackfix.dev/stackfix/internal/config"
	"stackfix.dev/stackfix/internal/engine"
	"stackfix.dev/stackfix/internal/git"
	"stackfix.dev/stackfix/internal/github"
	"stackfix.dev/stackfix/internal/output"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stackfix",
		Short: "Stackfix repairs stacked pull requests after their base is squash-merged",
		Long: `Stackfix repairs stacked pull requests after their base is squash-merged.

When the bottom PR of a stack lands as a squash commit, every branch stacked
on top of it still points at the now-dead base. Stackfix retargets those PRs,
synthesizes ancestry-repair commits so their diffs stay minimal, and parks
conflicting branches behind a label until a human resolves them.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newMergeCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}

// newRun wires up the orchestrator and logger shared by merge and resolve
func newRun(ctx context.Context, cfg config.Config) (*engine.Orchestrator, *output.Splog, error) {
	log, err := output.NewSplogWithConfig(cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}

	if err := git.InitDefaultRepo(); err != nil {
		return nil, nil, fmt.Errorf("not inside a git repository: %w", err)
	}

	forge, err := github.NewRealClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	orch := engine.New(engine.NewGitRunner(), forge, engine.Options{
		Remote:        cfg.Remote,
		ConflictLabel: cfg.ConflictLabel,
		Log:           log,
	})
	return orch, log, nil
}

// applyFlags lets flags override environment-derived config
func applyFlags(cfg *config.Config, remote, label string) {
	if remote != "" {
		cfg.Remote = remote
	}
	if label != "" {
		cfg.ConflictLabel = label
	}
}
