package testhelpers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"stackfix.dev/stackfix/internal/github"
)

// FakeForge is an in-memory github.Client for tests. It stores PRs keyed by
// number and records label/comment/base mutations so tests can assert on the
// exact forge traffic an engine run produced.
type FakeForge struct {
	mu       sync.Mutex
	prs      map[int]*github.PullRequestInfo
	comments map[int][]string

	// BaseChanges records every SetPullRequestBase call as "#<n> -> <base>"
	BaseChanges []string
}

// NewFakeForge creates an empty FakeForge
func NewFakeForge() *FakeForge {
	return &FakeForge{
		prs:      make(map[int]*github.PullRequestInfo),
		comments: make(map[int][]string),
	}
}

// AddPR registers a pull request. State defaults to "open" when empty.
func (f *FakeForge) AddPR(pr github.PullRequestInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pr.State == "" {
		pr.State = "open"
	}
	copied := pr
	f.prs[pr.Number] = &copied
}

// PR returns a snapshot of a registered pull request
func (f *FakeForge) PR(number int) github.PullRequestInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.prs[number]
	if !ok {
		return github.PullRequestInfo{}
	}
	return *pr
}

// Comments returns the comments posted to a pull request
func (f *FakeForge) Comments(number int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.comments[number]...)
}

// ListPullRequestsByBase returns open PRs based on the given branch, ordered
// by number for deterministic tests
func (f *FakeForge) ListPullRequestsByBase(_ context.Context, base string) ([]github.PullRequestInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []github.PullRequestInfo
	for _, pr := range f.prs {
		if pr.State == "open" && pr.Base == base {
			result = append(result, *pr)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

// GetPullRequestByHead returns the open PR whose head is the given branch
func (f *FakeForge) GetPullRequestByHead(_ context.Context, head string) (*github.PullRequestInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, pr := range f.prs {
		if pr.State == "open" && pr.Head == head {
			copied := *pr
			return &copied, nil
		}
	}
	return nil, nil
}

// GetMergedPullRequestByHead returns the merged PR whose head is the given branch
func (f *FakeForge) GetMergedPullRequestByHead(_ context.Context, head string) (*github.PullRequestInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, pr := range f.prs {
		if pr.Merged && pr.Head == head {
			copied := *pr
			return &copied, nil
		}
	}
	return nil, nil
}

// SetPullRequestBase changes a PR's base branch
func (f *FakeForge) SetPullRequestBase(_ context.Context, number int, base string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.prs[number]
	if !ok {
		return fmt.Errorf("no such PR #%d", number)
	}
	pr.Base = base
	f.BaseChanges = append(f.BaseChanges, fmt.Sprintf("#%d -> %s", number, base))
	return nil
}

// AddLabel attaches a label to a PR
func (f *FakeForge) AddLabel(_ context.Context, number int, label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.prs[number]
	if !ok {
		return fmt.Errorf("no such PR #%d", number)
	}
	if !pr.HasLabel(label) {
		pr.Labels = append(pr.Labels, label)
	}
	return nil
}

// RemoveLabel detaches a label from a PR. Removing an absent label is not an
// error, matching the real client's 404 tolerance.
func (f *FakeForge) RemoveLabel(_ context.Context, number int, label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.prs[number]
	if !ok {
		return fmt.Errorf("no such PR #%d", number)
	}
	labels := pr.Labels[:0]
	for _, l := range pr.Labels {
		if l != label {
			labels = append(labels, l)
		}
	}
	pr.Labels = labels
	return nil
}

// HasLabel reports whether a PR carries a label
func (f *FakeForge) HasLabel(_ context.Context, number int, label string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr, ok := f.prs[number]
	if !ok {
		return false, fmt.Errorf("no such PR #%d", number)
	}
	return pr.HasLabel(label), nil
}

// PostComment appends a comment to a PR's thread
func (f *FakeForge) PostComment(_ context.Context, number int, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.prs[number]; !ok {
		return fmt.Errorf("no such PR #%d", number)
	}
	f.comments[number] = append(f.comments[number], body)
	return nil
}

// GetOwnerRepo returns a fixed owner and repo
func (f *FakeForge) GetOwnerRepo() (string, string) {
	return "testowner", "testrepo"
}
