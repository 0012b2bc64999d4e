package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stackfix.dev/stackfix/internal/engine"
	"stackfix.dev/stackfix/internal/git"
	"stackfix.dev/stackfix/internal/github"
	"stackfix.dev/stackfix/testhelpers"
)

// newOrchestrator opens the scene's repository as the process-wide default and
// wires an orchestrator against the fake forge. Tests in this package share
// the default repository, so they must not run in parallel.
func newOrchestrator(t *testing.T, scene *testhelpers.Scene, forge *testhelpers.FakeForge) *engine.Orchestrator {
	t.Helper()
	require.NoError(t, git.InitDefaultRepoInDir(scene.Dir))
	return engine.New(engine.NewGitRunner(), forge, engine.Options{Remote: "origin"})
}

// stack builds main -> feature-1 -> feature-2 -> feature-3, pushes everything
// to a bare origin, then squash-merges feature-1 into main the way the GitHub
// merge button does. Returns the bare remote path and the squash commit SHA.
func stack(t *testing.T, scene *testhelpers.Scene) (bareDir, squash string) {
	t.Helper()
	repo := scene.Repo

	require.NoError(t, repo.CreateAndCheckoutBranch("feature-1"))
	require.NoError(t, repo.CreateChangeAndCommit("f1", "f1"))
	require.NoError(t, repo.CreateAndCheckoutBranch("feature-2"))
	require.NoError(t, repo.CreateChangeAndCommit("f2", "f2"))
	require.NoError(t, repo.CreateAndCheckoutBranch("feature-3"))
	require.NoError(t, repo.CreateChangeAndCommit("f3", "f3"))

	bareDir, err := repo.CreateBareRemote("origin")
	require.NoError(t, err)
	for _, b := range []string{"main", "feature-1", "feature-2", "feature-3"} {
		require.NoError(t, repo.PushBranch("origin", b))
	}

	squash, err = repo.SquashMergeBranch("main", "feature-1")
	require.NoError(t, err)
	require.NoError(t, repo.PushBranch("origin", "main"))

	return bareDir, squash
}

func stackForge() *testhelpers.FakeForge {
	forge := testhelpers.NewFakeForge()
	forge.AddPR(github.PullRequestInfo{Number: 1, State: "closed", Merged: true, Head: "feature-1", Base: "main"})
	forge.AddPR(github.PullRequestInfo{Number: 2, Head: "feature-2", Base: "feature-1"})
	forge.AddPR(github.PullRequestInfo{Number: 3, Head: "feature-3", Base: "feature-2"})
	return forge
}

func TestRunMergeEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("repairs a three-level stack after squash merge", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})
		bareDir, squash := stack(t, scene)
		repo := scene.Repo

		oldF1, err := repo.GetRevision("feature-1")
		require.NoError(t, err)
		oldF2, err := repo.GetRevision("feature-2")
		require.NoError(t, err)

		forge := stackForge()
		orch := newOrchestrator(t, scene, forge)

		err = orch.RunMergeEvent(ctx, engine.MergeEvent{
			SquashCommit: squash,
			MergedBranch: "feature-1",
			TargetBranch: "main",
		})
		require.NoError(t, err)

		// The direct child got a single synthesized commit with exactly the
		// three prescribed parents, in order.
		newF2, err := repo.GetRevision("feature-2")
		require.NoError(t, err)
		parents, err := repo.GetParents(newF2)
		require.NoError(t, err)
		require.Equal(t, []string{oldF2, oldF1, squash}, parents)

		// The squash commit now counts as an ancestor everywhere above it.
		for _, b := range []string{"feature-2", "feature-3"} {
			ok, err := repo.IsAncestor(squash, b)
			require.NoError(t, err)
			require.True(t, ok, "%s should contain the squash commit", b)
		}
		ok, err := repo.IsAncestor(newF2, "feature-3")
		require.NoError(t, err)
		require.True(t, ok, "feature-3 should contain the updated feature-2")

		// Diff minimality: feature-2 against its new base shows only its own
		// change, nothing from the squashed branch.
		diff, err := repo.RunGitCommandAndGetOutput("diff", "--name-only", "main...feature-2")
		require.NoError(t, err)
		require.Equal(t, "f2_test.txt", diff)

		// Only the direct child was retargeted.
		require.Equal(t, "main", forge.PR(2).Base)
		require.Equal(t, "feature-2", forge.PR(3).Base)
		require.Equal(t, []string{"#2 -> main"}, forge.BaseChanges)

		// Updated branches were pushed.
		newF3, err := repo.GetRevision("feature-3")
		require.NoError(t, err)
		remoteF2, err := repo.RemoteBranchSHA(bareDir, "feature-2")
		require.NoError(t, err)
		require.Equal(t, newF2, remoteF2)
		remoteF3, err := repo.RemoteBranchSHA(bareDir, "feature-3")
		require.NoError(t, err)
		require.Equal(t, newF3, remoteF3)

		// The merged branch is gone on both sides.
		require.False(t, repo.RemoteBranchExists(bareDir, "feature-1"))
		_, err = repo.GetRevision("refs/heads/feature-1")
		require.Error(t, err)
	})

	t.Run("rerunning after completion is a no-op", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})
		_, squash := stack(t, scene)
		repo := scene.Repo

		forge := stackForge()
		orch := newOrchestrator(t, scene, forge)
		event := engine.MergeEvent{SquashCommit: squash, MergedBranch: "feature-1", TargetBranch: "main"}

		require.NoError(t, orch.RunMergeEvent(ctx, event))
		tipAfterFirst, err := repo.GetRevision("feature-2")
		require.NoError(t, err)

		require.NoError(t, orch.RunMergeEvent(ctx, event))
		tipAfterSecond, err := repo.GetRevision("feature-2")
		require.NoError(t, err)
		require.Equal(t, tipAfterFirst, tipAfterSecond)
		require.Equal(t, []string{"#2 -> main"}, forge.BaseChanges, "no duplicate retarget on rerun")
	})

	t.Run("conflicting direct child is blocked, not broken", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("base", "shared")
		})
		repo := scene.Repo

		require.NoError(t, repo.CreateAndCheckoutBranch("feature-1"))
		require.NoError(t, repo.CreateChangeAndCommit("f1", "f1"))
		require.NoError(t, repo.CreateAndCheckoutBranch("feature-2"))
		require.NoError(t, repo.CreateChangeAndCommit("from-f2", "shared"))

		// The target gained a conflicting change before the squash landed.
		require.NoError(t, repo.CheckoutBranch("main"))
		require.NoError(t, repo.CreateChangeAndCommit("from-main", "shared"))

		bareDir, err := repo.CreateBareRemote("origin")
		require.NoError(t, err)
		for _, b := range []string{"main", "feature-1", "feature-2"} {
			require.NoError(t, repo.PushBranch("origin", b))
		}

		squash, err := repo.SquashMergeBranch("main", "feature-1")
		require.NoError(t, err)
		require.NoError(t, repo.PushBranch("origin", "main"))

		oldF2, err := repo.GetRevision("feature-2")
		require.NoError(t, err)

		forge := testhelpers.NewFakeForge()
		forge.AddPR(github.PullRequestInfo{Number: 1, State: "closed", Merged: true, Head: "feature-1", Base: "main"})
		forge.AddPR(github.PullRequestInfo{Number: 2, Head: "feature-2", Base: "feature-1"})
		orch := newOrchestrator(t, scene, forge)

		err = orch.RunMergeEvent(ctx, engine.MergeEvent{
			SquashCommit: squash,
			MergedBranch: "feature-1",
			TargetBranch: "main",
		})
		require.NoError(t, err, "a conflict is a deferral, not a failure")

		// Blocked: labeled, commented, and otherwise untouched.
		require.True(t, forge.PR(2).HasLabel(engine.DefaultConflictLabel))
		comments := forge.Comments(2)
		require.Len(t, comments, 1)
		require.Contains(t, comments[0], "merge conflict")
		require.Equal(t, "feature-1", forge.PR(2).Base, "base stays so the diff stays honest")

		tip, err := repo.GetRevision("feature-2")
		require.NoError(t, err)
		require.Equal(t, oldF2, tip, "local branch must not move on conflict")
		remoteTip, err := repo.RemoteBranchSHA(bareDir, "feature-2")
		require.NoError(t, err)
		require.Equal(t, oldF2, remoteTip, "remote branch must not move on conflict")

		// The blocked PR still references feature-1, so the branch survives.
		require.True(t, repo.RemoteBranchExists(bareDir, "feature-1"))
	})

	t.Run("clean sibling advances while blocked sibling keeps the base alive", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("base", "shared")
		})
		repo := scene.Repo

		require.NoError(t, repo.CreateAndCheckoutBranch("feature-1"))
		require.NoError(t, repo.CreateChangeAndCommit("f1", "f1"))
		require.NoError(t, repo.CreateAndCheckoutBranch("feature-2a"))
		require.NoError(t, repo.CreateChangeAndCommit("from-2a", "shared"))
		require.NoError(t, repo.CheckoutBranch("feature-1"))
		require.NoError(t, repo.CreateAndCheckoutBranch("feature-2b"))
		require.NoError(t, repo.CreateChangeAndCommit("f2b", "f2b"))

		require.NoError(t, repo.CheckoutBranch("main"))
		require.NoError(t, repo.CreateChangeAndCommit("from-main", "shared"))

		bareDir, err := repo.CreateBareRemote("origin")
		require.NoError(t, err)
		for _, b := range []string{"main", "feature-1", "feature-2a", "feature-2b"} {
			require.NoError(t, repo.PushBranch("origin", b))
		}

		squash, err := repo.SquashMergeBranch("main", "feature-1")
		require.NoError(t, err)
		require.NoError(t, repo.PushBranch("origin", "main"))

		forge := testhelpers.NewFakeForge()
		forge.AddPR(github.PullRequestInfo{Number: 1, State: "closed", Merged: true, Head: "feature-1", Base: "main"})
		forge.AddPR(github.PullRequestInfo{Number: 2, Head: "feature-2a", Base: "feature-1"})
		forge.AddPR(github.PullRequestInfo{Number: 3, Head: "feature-2b", Base: "feature-1"})
		orch := newOrchestrator(t, scene, forge)

		err = orch.RunMergeEvent(ctx, engine.MergeEvent{
			SquashCommit: squash,
			MergedBranch: "feature-1",
			TargetBranch: "main",
		})
		require.NoError(t, err)

		// One sibling blocked, the other fully repaired.
		require.True(t, forge.PR(2).HasLabel(engine.DefaultConflictLabel))
		require.Equal(t, "feature-1", forge.PR(2).Base)
		require.False(t, forge.PR(3).HasLabel(engine.DefaultConflictLabel))
		require.Equal(t, "main", forge.PR(3).Base)

		ok, err := repo.IsAncestor(squash, "feature-2b")
		require.NoError(t, err)
		require.True(t, ok)

		// feature-1 must outlive the blocked sibling.
		require.True(t, repo.RemoteBranchExists(bareDir, "feature-1"))
	})

	t.Run("conflict deeper in the stack stops only that path", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("base", "shared")
		})
		repo := scene.Repo

		require.NoError(t, repo.CreateAndCheckoutBranch("feature-1"))
		require.NoError(t, repo.CreateChangeAndCommit("f1", "f1"))
		require.NoError(t, repo.CreateAndCheckoutBranch("feature-2"))
		require.NoError(t, repo.CreateChangeAndCommit("f2", "f2"))
		require.NoError(t, repo.CreateAndCheckoutBranch("feature-3"))
		require.NoError(t, repo.CreateChangeAndCommit("from-f3", "shared"))

		require.NoError(t, repo.CheckoutBranch("main"))
		require.NoError(t, repo.CreateChangeAndCommit("from-main", "shared"))

		bareDir, err := repo.CreateBareRemote("origin")
		require.NoError(t, err)
		for _, b := range []string{"main", "feature-1", "feature-2", "feature-3"} {
			require.NoError(t, repo.PushBranch("origin", b))
		}

		squash, err := repo.SquashMergeBranch("main", "feature-1")
		require.NoError(t, err)
		require.NoError(t, repo.PushBranch("origin", "main"))

		oldF3, err := repo.GetRevision("feature-3")
		require.NoError(t, err)

		forge := stackForge()
		orch := newOrchestrator(t, scene, forge)

		err = orch.RunMergeEvent(ctx, engine.MergeEvent{
			SquashCommit: squash,
			MergedBranch: "feature-1",
			TargetBranch: "main",
		})
		require.NoError(t, err)

		// The direct child advanced and was pushed despite the grandchild
		// conflict.
		newF2, err := repo.GetRevision("feature-2")
		require.NoError(t, err)
		remoteF2, err := repo.RemoteBranchSHA(bareDir, "feature-2")
		require.NoError(t, err)
		require.Equal(t, newF2, remoteF2)
		require.Equal(t, "main", forge.PR(2).Base)

		// The grandchild is blocked against its own parent, unchanged.
		require.True(t, forge.PR(3).HasLabel(engine.DefaultConflictLabel))
		require.Equal(t, "feature-2", forge.PR(3).Base)
		tip, err := repo.GetRevision("feature-3")
		require.NoError(t, err)
		require.Equal(t, oldF3, tip)
	})

	t.Run("already blocked child is skipped without duplicate comments", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})
		_, squash := stack(t, scene)

		forge := stackForge()
		require.NoError(t, forge.AddLabel(ctx, 2, engine.DefaultConflictLabel))
		orch := newOrchestrator(t, scene, forge)

		oldF2, err := scene.Repo.GetRevision("feature-2")
		require.NoError(t, err)

		err = orch.RunMergeEvent(ctx, engine.MergeEvent{
			SquashCommit: squash,
			MergedBranch: "feature-1",
			TargetBranch: "main",
		})
		require.NoError(t, err)

		tip, err := scene.Repo.GetRevision("feature-2")
		require.NoError(t, err)
		require.Equal(t, oldF2, tip)
		require.Empty(t, forge.Comments(2))
		require.Equal(t, "feature-1", forge.PR(2).Base)
	})

	t.Run("rejects an event with a missing squash commit", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})
		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.PushBranch("origin", "main"))

		forge := testhelpers.NewFakeForge()
		orch := newOrchestrator(t, scene, forge)

		err = orch.RunMergeEvent(ctx, engine.MergeEvent{
			SquashCommit: "4242424242424242424242424242424242424242",
			MergedBranch: "feature-1",
			TargetBranch: "main",
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "squash commit not found")
	})
}

func TestRunResolvedEvent(t *testing.T) {
	ctx := context.Background()

	// blockedScene builds the conflicting-sibling setup and runs the merge
	// event so feature-2a ends up blocked on feature-1.
	blockedScene := func(t *testing.T) (*testhelpers.Scene, *testhelpers.FakeForge, *engine.Orchestrator, string, string) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("base", "shared")
		})
		repo := scene.Repo

		require.NoError(t, repo.CreateAndCheckoutBranch("feature-1"))
		require.NoError(t, repo.CreateChangeAndCommit("f1", "f1"))
		require.NoError(t, repo.CreateAndCheckoutBranch("feature-2a"))
		require.NoError(t, repo.CreateChangeAndCommit("from-2a", "shared"))

		require.NoError(t, repo.CheckoutBranch("main"))
		require.NoError(t, repo.CreateChangeAndCommit("from-main", "shared"))

		bareDir, err := repo.CreateBareRemote("origin")
		require.NoError(t, err)
		for _, b := range []string{"main", "feature-1", "feature-2a"} {
			require.NoError(t, repo.PushBranch("origin", b))
		}

		squash, err := repo.SquashMergeBranch("main", "feature-1")
		require.NoError(t, err)
		require.NoError(t, repo.PushBranch("origin", "main"))

		forge := testhelpers.NewFakeForge()
		forge.AddPR(github.PullRequestInfo{Number: 1, State: "closed", Merged: true, Head: "feature-1", Base: "main"})
		forge.AddPR(github.PullRequestInfo{Number: 2, Head: "feature-2a", Base: "feature-1"})
		orch := newOrchestrator(t, scene, forge)

		require.NoError(t, orch.RunMergeEvent(ctx, engine.MergeEvent{
			SquashCommit: squash,
			MergedBranch: "feature-1",
			TargetBranch: "main",
		}))
		require.True(t, forge.PR(2).HasLabel(engine.DefaultConflictLabel))

		return scene, forge, orch, bareDir, squash
	}

	// resolveConflict performs the manual resolution a developer would: merge
	// the new target into the blocked branch, fix the file, commit, push.
	resolveConflict := func(t *testing.T, repo *testhelpers.GitRepo, branch string) {
		require.NoError(t, repo.CheckoutBranch(branch))
		err := repo.RunGitCommand("merge", "--no-edit", "main")
		require.Error(t, err, "the manual merge should conflict")
		require.NoError(t, repo.WriteFile("shared_test.txt", "resolved"))
		require.NoError(t, repo.RunGitCommand("add", "-A"))
		require.NoError(t, repo.RunGitCommand("commit", "--no-edit"))
		require.NoError(t, repo.PushBranch("origin", branch))
	}

	t.Run("complete resolution unblocks, retargets, and cleans up", func(t *testing.T) {
		scene, forge, orch, bareDir, squash := blockedScene(t)
		repo := scene.Repo

		resolveConflict(t, repo, "feature-2a")
		require.NoError(t, orch.RunResolvedEvent(ctx, "feature-2a"))

		require.False(t, forge.PR(2).HasLabel(engine.DefaultConflictLabel))
		require.Equal(t, "main", forge.PR(2).Base)

		comments := forge.Comments(2)
		require.Len(t, comments, 2, "conflict comment plus resolution comment")
		require.Contains(t, comments[1], "resolved")

		ok, err := repo.IsAncestor(squash, "feature-2a")
		require.NoError(t, err)
		require.True(t, ok)

		// Nothing blocked references feature-1 anymore.
		require.False(t, repo.RemoteBranchExists(bareDir, "feature-1"))
	})

	t.Run("incomplete resolution stays blocked", func(t *testing.T) {
		scene, forge, orch, bareDir, _ := blockedScene(t)
		repo := scene.Repo

		// Push an unrelated commit that does not bring in the new base.
		require.NoError(t, repo.CheckoutBranch("feature-2a"))
		require.NoError(t, repo.CreateChangeAndCommit("unrelated", "extra"))
		require.NoError(t, repo.PushBranch("origin", "feature-2a"))

		require.NoError(t, orch.RunResolvedEvent(ctx, "feature-2a"))

		require.True(t, forge.PR(2).HasLabel(engine.DefaultConflictLabel))
		require.Equal(t, "feature-1", forge.PR(2).Base)
		require.Len(t, forge.Comments(2), 1, "no label churn, no new comment")
		require.True(t, repo.RemoteBranchExists(bareDir, "feature-1"))
	})

	t.Run("push to an unblocked branch is a no-op", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})
		repo := scene.Repo
		require.NoError(t, repo.CreateAndCheckoutBranch("feature-1"))
		require.NoError(t, repo.CreateChangeAndCommit("f1", "f1"))
		_, err := repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, repo.PushBranch("origin", "main"))
		require.NoError(t, repo.PushBranch("origin", "feature-1"))

		forge := testhelpers.NewFakeForge()
		forge.AddPR(github.PullRequestInfo{Number: 1, Head: "feature-1", Base: "main"})
		orch := newOrchestrator(t, scene, forge)

		require.NoError(t, orch.RunResolvedEvent(ctx, "feature-1"))
		require.Empty(t, forge.Comments(1))
		require.Empty(t, forge.BaseChanges)
	})

	t.Run("push to a branch without a PR is a no-op", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})
		_, err := scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, scene.Repo.PushBranch("origin", "main"))

		forge := testhelpers.NewFakeForge()
		orch := newOrchestrator(t, scene, forge)
		require.NoError(t, orch.RunResolvedEvent(ctx, "no-such-branch"))
	})

	t.Run("base branch outlives the last blocked sibling", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("base", "shared")
		})
		repo := scene.Repo

		require.NoError(t, repo.CreateAndCheckoutBranch("feature-1"))
		require.NoError(t, repo.CreateChangeAndCommit("f1", "f1"))
		require.NoError(t, repo.CreateAndCheckoutBranch("feature-2a"))
		require.NoError(t, repo.CreateChangeAndCommit("from-2a", "shared"))
		require.NoError(t, repo.CheckoutBranch("feature-1"))
		require.NoError(t, repo.CreateAndCheckoutBranch("feature-2b"))
		require.NoError(t, repo.CreateChangeAndCommit("from-2b", "shared"))

		require.NoError(t, repo.CheckoutBranch("main"))
		require.NoError(t, repo.CreateChangeAndCommit("from-main", "shared"))

		bareDir, err := repo.CreateBareRemote("origin")
		require.NoError(t, err)
		for _, b := range []string{"main", "feature-1", "feature-2a", "feature-2b"} {
			require.NoError(t, repo.PushBranch("origin", b))
		}

		squash, err := repo.SquashMergeBranch("main", "feature-1")
		require.NoError(t, err)
		require.NoError(t, repo.PushBranch("origin", "main"))

		forge := testhelpers.NewFakeForge()
		forge.AddPR(github.PullRequestInfo{Number: 1, State: "closed", Merged: true, Head: "feature-1", Base: "main"})
		forge.AddPR(github.PullRequestInfo{Number: 2, Head: "feature-2a", Base: "feature-1"})
		forge.AddPR(github.PullRequestInfo{Number: 3, Head: "feature-2b", Base: "feature-1"})
		orch := newOrchestrator(t, scene, forge)

		// Both siblings conflict with the target's change.
		require.NoError(t, orch.RunMergeEvent(ctx, engine.MergeEvent{
			SquashCommit: squash,
			MergedBranch: "feature-1",
			TargetBranch: "main",
		}))
		require.True(t, forge.PR(2).HasLabel(engine.DefaultConflictLabel))
		require.True(t, forge.PR(3).HasLabel(engine.DefaultConflictLabel))
		require.True(t, repo.RemoteBranchExists(bareDir, "feature-1"))

		// First resolution: the other sibling is still blocked, so the old
		// base must survive.
		resolveConflict(t, repo, "feature-2a")
		require.NoError(t, orch.RunResolvedEvent(ctx, "feature-2a"))
		require.False(t, forge.PR(2).HasLabel(engine.DefaultConflictLabel))
		require.Equal(t, "main", forge.PR(2).Base)
		require.True(t, repo.RemoteBranchExists(bareDir, "feature-1"))

		// Second resolution: nothing blocked references feature-1 anymore.
		resolveConflict(t, repo, "feature-2b")
		require.NoError(t, orch.RunResolvedEvent(ctx, "feature-2b"))
		require.False(t, forge.PR(3).HasLabel(engine.DefaultConflictLabel))
		require.Equal(t, "main", forge.PR(3).Base)
		require.False(t, repo.RemoteBranchExists(bareDir, "feature-1"))
		_, err = repo.GetRevision("refs/heads/feature-1")
		require.Error(t, err)
	})

	t.Run("resolution resumes propagation into descendants", func(t *testing.T) {
		scene, forge, orch, _, squash := blockedScene(t)
		repo := scene.Repo

		// A grandchild stacked on the blocked branch, waiting for the resume.
		require.NoError(t, repo.CheckoutBranch("feature-2a"))
		require.NoError(t, repo.CreateAndCheckoutBranch("feature-3"))
		require.NoError(t, repo.CreateChangeAndCommit("f3", "f3"))
		require.NoError(t, repo.PushBranch("origin", "feature-3"))
		forge.AddPR(github.PullRequestInfo{Number: 3, Head: "feature-3", Base: "feature-2a"})

		resolveConflict(t, repo, "feature-2a")
		require.NoError(t, orch.RunResolvedEvent(ctx, "feature-2a"))

		ok, err := repo.IsAncestor(squash, "feature-3")
		require.NoError(t, err)
		require.True(t, ok, "resolution should propagate into the grandchild")
		require.Equal(t, "feature-2a", forge.PR(3).Base, "grandchild base is untouched")
	})
}
