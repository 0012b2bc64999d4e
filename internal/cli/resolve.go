package cli

import (
	"github.com/spf13/cobra"

	"stackfix.dev/stackfix/internal/config"
)

// newResolveCmd creates the resolve command, run when a blocked branch
// receives a push
func newResolveCmd() *cobra.Command {
	var (
		remote string
		label  string
	)

	cmd := &cobra.Command{
		Use:   "resolve <branch>",
		Short: "Resume a stack update after a conflict was resolved manually",
		Long: `Resume a stack update after a conflict was resolved manually.

Intended to run from a CI job triggered by a push to any branch. If the
branch's PR carries the conflict label and the pushed commits contain the
intended base, the label is removed, the PR is retargeted, and the update
propagates to branches stacked on top of it. If the branch is not blocked,
or the resolution is incomplete, the command does nothing and exits 0.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			applyFlags(&cfg, remote, label)

			orch, log, err := newRun(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			return orch.RunResolvedEvent(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", "Git remote to fetch from and push to (default from STACKFIX_REMOTE or origin)")
	cmd.Flags().StringVar(&label, "conflict-label", "", "PR label marking a branch as blocked on a conflict (default from STACKFIX_CONFLICT_LABEL or stack-conflict)")

	return cmd
}
