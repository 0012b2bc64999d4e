package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stackfix.dev/stackfix/internal/git"
	"stackfix.dev/stackfix/testhelpers"
)

func setupRepo(t *testing.T) *testhelpers.Scene {
	t.Helper()
	scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
		return s.Repo.CreateChangeAndCommit("initial", "init")
	})
	require.NoError(t, git.InitDefaultRepoInDir(scene.Dir))
	return scene
}

func TestMergeRef(t *testing.T) {
	ctx := context.Background()

	t.Run("clean merge succeeds", func(t *testing.T) {
		scene := setupRepo(t)
		repo := scene.Repo

		require.NoError(t, repo.CreateAndCheckoutBranch("side"))
		require.NoError(t, repo.CreateChangeAndCommit("side change", "side"))
		require.NoError(t, repo.CheckoutBranch("main"))
		require.NoError(t, repo.CreateChangeAndCommit("main change", "mainfile"))

		result, err := git.MergeRef(ctx, "side")
		require.NoError(t, err)
		require.Equal(t, git.MergeDone, result)

		ok, err := repo.IsAncestor("side", "main")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("conflicting merge is aborted and reported", func(t *testing.T) {
		scene := setupRepo(t)
		repo := scene.Repo

		require.NoError(t, repo.CreateChangeAndCommit("base", "shared"))
		require.NoError(t, repo.CreateAndCheckoutBranch("side"))
		require.NoError(t, repo.CreateChangeAndCommit("side version", "shared"))
		require.NoError(t, repo.CheckoutBranch("main"))
		require.NoError(t, repo.CreateChangeAndCommit("main version", "shared"))

		before, err := repo.GetCurrentSHA()
		require.NoError(t, err)

		result, err := git.MergeRef(ctx, "side")
		require.NoError(t, err)
		require.Equal(t, git.MergeConflict, result)

		// The abort must leave no merge in progress and HEAD unmoved.
		require.False(t, git.IsMergeInProgress(ctx))
		after, err := repo.GetCurrentSHA()
		require.NoError(t, err)
		require.Equal(t, before, after)

		contents, err := repo.ReadFile("shared_test.txt")
		require.NoError(t, err)
		require.Equal(t, "main version", contents)
	})

	t.Run("merging an ancestor is a no-op", func(t *testing.T) {
		scene := setupRepo(t)
		repo := scene.Repo

		require.NoError(t, repo.CreateChangeAndCommit("more", "more"))
		before, err := repo.GetCurrentSHA()
		require.NoError(t, err)

		result, err := git.MergeRef(ctx, "HEAD~1")
		require.NoError(t, err)
		require.Equal(t, git.MergeDone, result)

		after, err := repo.GetCurrentSHA()
		require.NoError(t, err)
		require.Equal(t, before, after)
	})
}

func TestMergeOursNoContent(t *testing.T) {
	ctx := context.Background()
	scene := setupRepo(t)
	repo := scene.Repo

	require.NoError(t, repo.CreateChangeAndCommit("base", "shared"))
	require.NoError(t, repo.CreateAndCheckoutBranch("side"))
	require.NoError(t, repo.CreateChangeAndCommit("side version", "shared"))
	require.NoError(t, repo.CheckoutBranch("main"))

	require.NoError(t, git.MergeOursNoContent(ctx, "side"))

	// side is now an ancestor, but none of its content arrived.
	ok, err := repo.IsAncestor("side", "main")
	require.NoError(t, err)
	require.True(t, ok)

	contents, err := repo.ReadFile("shared_test.txt")
	require.NoError(t, err)
	require.Equal(t, "base", contents)
}

func TestCreateCommit(t *testing.T) {
	ctx := context.Background()
	scene := setupRepo(t)
	repo := scene.Repo

	require.NoError(t, repo.CreateAndCheckoutBranch("a"))
	require.NoError(t, repo.CreateChangeAndCommit("a change", "a"))
	aTip, err := repo.GetCurrentSHA()
	require.NoError(t, err)

	require.NoError(t, repo.CheckoutBranch("main"))
	require.NoError(t, repo.CreateAndCheckoutBranch("b"))
	require.NoError(t, repo.CreateChangeAndCommit("b change", "b"))
	bTip, err := repo.GetCurrentSHA()
	require.NoError(t, err)

	mainTip, err := repo.GetRevision("main")
	require.NoError(t, err)

	tree, err := git.GetTreeSHA("b")
	require.NoError(t, err)

	sha, err := git.CreateCommit(ctx, tree, []string{bTip, aTip, mainTip}, "fabricated")
	require.NoError(t, err)

	parents, err := repo.GetParents(sha)
	require.NoError(t, err)
	require.Equal(t, []string{bTip, aTip, mainTip}, parents)

	gotTree, err := git.GetTreeSHA(sha)
	require.NoError(t, err)
	require.Equal(t, tree, gotTree)
}

func TestGetFirstParent(t *testing.T) {
	scene := setupRepo(t)
	repo := scene.Repo

	first, err := repo.GetCurrentSHA()
	require.NoError(t, err)
	require.NoError(t, repo.CreateChangeAndCommit("second", "second"))
	second, err := repo.GetCurrentSHA()
	require.NoError(t, err)

	parent, err := git.GetFirstParent(second)
	require.NoError(t, err)
	require.Equal(t, first, parent)

	_, err = git.GetFirstParent(first)
	require.Error(t, err, "root commit has no parent")
}

func TestGetMergeBase(t *testing.T) {
	scene := setupRepo(t)
	repo := scene.Repo

	forkPoint, err := repo.GetCurrentSHA()
	require.NoError(t, err)

	require.NoError(t, repo.CreateAndCheckoutBranch("side"))
	require.NoError(t, repo.CreateChangeAndCommit("side change", "side"))
	require.NoError(t, repo.CheckoutBranch("main"))
	require.NoError(t, repo.CreateChangeAndCommit("main change", "mainfile"))

	base, err := git.GetMergeBase("main", "side")
	require.NoError(t, err)
	require.Equal(t, forkPoint, base)

	ok, err := git.IsAncestor(base, "side")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = git.IsAncestor("side", "main")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUpdateBranchRef(t *testing.T) {
	scene := setupRepo(t)
	repo := scene.Repo

	require.NoError(t, repo.CreateChangeAndCommit("second", "second"))
	tip, err := repo.GetCurrentSHA()
	require.NoError(t, err)

	// Creating a new branch ref via update-ref, without a checkout.
	require.NoError(t, git.UpdateBranchRef("created", tip))
	require.True(t, git.BranchExists("created"))

	got, err := git.GetRevision("created")
	require.NoError(t, err)
	require.Equal(t, tip, got)
}
