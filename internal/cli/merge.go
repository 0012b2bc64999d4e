package cli

import (
	"github.com/spf13/cobra"

	"stackfix.dev/stackfix/internal/config"
	"stackfix.dev/stackfix/internal/engine"
)

// newMergeCmd creates the merge command, run when a stack's base PR was
// squash-merged
func newMergeCmd() *cobra.Command {
	var (
		squashCommit string
		mergedBranch string
		targetBranch string
		remote       string
		label        string
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Update all branches stacked on a freshly squash-merged branch",
		Long: `Update all branches stacked on a freshly squash-merged branch.

Intended to run from a CI job triggered by the pull_request closed event.
Direct children of the merged branch get a synthesized commit that records
the squash commit as an ancestor; deeper descendants get plain merges.
PRs that hit a conflict are labeled and left untouched for manual
resolution. A conflict is a normal outcome, not a failure: the command
still exits 0.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			applyFlags(&cfg, remote, label)

			orch, log, err := newRun(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			return orch.RunMergeEvent(cmd.Context(), engine.MergeEvent{
				SquashCommit: squashCommit,
				MergedBranch: mergedBranch,
				TargetBranch: targetBranch,
			})
		},
	}

	cmd.Flags().StringVar(&squashCommit, "squash-commit", "", "SHA of the squash commit that landed on the target branch")
	cmd.Flags().StringVar(&mergedBranch, "merged-branch", "", "Name of the branch that was squash-merged")
	cmd.Flags().StringVar(&targetBranch, "target-branch", "", "Branch the squash commit landed on")
	cmd.Flags().StringVar(&remote, "remote", "", "Git remote to fetch from and push to (default from STACKFIX_REMOTE or origin)")
	cmd.Flags().StringVar(&label, "conflict-label", "", "PR label marking a branch as blocked on a conflict (default from STACKFIX_CONFLICT_LABEL or stack-conflict)")

	_ = cmd.MarkFlagRequired("squash-commit")
	_ = cmd.MarkFlagRequired("merged-branch")
	_ = cmd.MarkFlagRequired("target-branch")

	return cmd
}
