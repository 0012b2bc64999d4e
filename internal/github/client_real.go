package github

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	stackfixerrors "stackfix.dev/stackfix/internal/errors"
)

// RealClient implements Client using the real GitHub API
type RealClient struct {
	client *github.Client
	owner  string
	repo   string
}

// NewRealClient creates a new RealClient authenticated from the environment
// (GITHUB_TOKEN, falling back to the gh CLI) against the repository the
// origin remote points at.
func NewRealClient(ctx context.Context) (*RealClient, error) {
	token, err := getGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("failed to get GitHub token: %w", err)
	}

	repoInfo, err := getRepoInfoWithHostname(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository info: %w", err)
	}

	client, err := createGitHubClient(ctx, repoInfo.Hostname, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	return &RealClient{
		client: client,
		owner:  repoInfo.Owner,
		repo:   repoInfo.Repo,
	}, nil
}

// GetOwnerRepo returns the repository owner and name
func (c *RealClient) GetOwnerRepo() (string, string) {
	return c.owner, c.repo
}

// ListPullRequestsByBase returns all open pull requests based on the given branch
func (c *RealClient) ListPullRequestsByBase(ctx context.Context, base string) ([]PullRequestInfo, error) {
	var result []PullRequestInfo

	opts := &github.PullRequestListOptions{
		Base:  base,
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	for {
		prs, resp, err := c.client.PullRequests.List(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, stackfixerrors.NewForgeAPIError("list pull requests", 0, err)
		}

		for _, pr := range prs {
			result = append(result, toPullRequestInfo(pr))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// GetPullRequestByHead returns the open pull request for a head branch
func (c *RealClient) GetPullRequestByHead(ctx context.Context, head string) (*PullRequestInfo, error) {
	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", c.owner, head),
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: 1,
		},
	})
	if err != nil {
		return nil, stackfixerrors.NewForgeAPIError("get pull request by head", 0, err)
	}

	if len(prs) == 0 {
		return nil, nil
	}

	info := toPullRequestInfo(prs[0])
	return &info, nil
}

// GetMergedPullRequestByHead returns the most recently merged pull request for a head branch
func (c *RealClient) GetMergedPullRequestByHead(ctx context.Context, head string) (*PullRequestInfo, error) {
	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		Head:      fmt.Sprintf("%s:%s", c.owner, head),
		State:     "closed",
		Sort:      "updated",
		Direction: "desc",
		ListOptions: github.ListOptions{
			PerPage: 10,
		},
	})
	if err != nil {
		return nil, stackfixerrors.NewForgeAPIError("get merged pull request by head", 0, err)
	}

	for _, pr := range prs {
		if pr.MergedAt != nil {
			info := toPullRequestInfo(pr)
			return &info, nil
		}
	}
	return nil, nil
}

// SetPullRequestBase changes a pull request's base branch
func (c *RealClient) SetPullRequestBase(ctx context.Context, number int, base string) error {
	update := &github.PullRequest{
		Base: &github.PullRequestBranch{
			Ref: github.String(base),
		},
	}

	_, _, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, number, update)
	if err != nil {
		return stackfixerrors.NewForgeAPIError("set base", number, err)
	}
	return nil
}

// AddLabel attaches a label to a pull request
func (c *RealClient) AddLabel(ctx context.Context, number int, label string) error {
	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, number, []string{label})
	if err != nil {
		return stackfixerrors.NewForgeAPIError("add label", number, err)
	}
	return nil
}

// RemoveLabel detaches a label from a pull request. Removing a label that is
// not present is not an error; a concurrent run may have removed it already.
func (c *RealClient) RemoveLabel(ctx context.Context, number int, label string) error {
	resp, err := c.client.Issues.RemoveLabelForIssue(ctx, c.owner, c.repo, number, label)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return nil
		}
		return stackfixerrors.NewForgeAPIError("remove label", number, err)
	}
	return nil
}

// HasLabel reports whether a pull request currently carries a label
func (c *RealClient) HasLabel(ctx context.Context, number int, label string) (bool, error) {
	labels, _, err := c.client.Issues.ListLabelsByIssue(ctx, c.owner, c.repo, number, &github.ListOptions{
		PerPage: 100,
	})
	if err != nil {
		return false, stackfixerrors.NewForgeAPIError("list labels", number, err)
	}

	for _, l := range labels {
		if l.Name != nil && *l.Name == label {
			return true, nil
		}
	}
	return false, nil
}

// PostComment appends a comment to a pull request's thread
func (c *RealClient) PostComment(ctx context.Context, number int, body string) error {
	comment := &github.IssueComment{
		Body: github.String(body),
	}

	_, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, number, comment)
	if err != nil {
		return stackfixerrors.NewForgeAPIError("post comment", number, err)
	}
	return nil
}

// createGitHubClient creates a GitHub client configured for the given hostname
// Supports both github.com and GitHub Enterprise instances
func createGitHubClient(ctx context.Context, hostname, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if hostname != "github.com" {
		// GitHub Enterprise API endpoints
		// REST API: https://hostname/api/v3/
		// Upload API: https://hostname/api/uploads/
		baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", hostname, err)
		}
		uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", hostname, err)
		}

		client.BaseURL = baseURL
		client.UploadURL = uploadURL
	}

	return client, nil
}

// toPullRequestInfo converts a github.PullRequest to PullRequestInfo
func toPullRequestInfo(pr *github.PullRequest) PullRequestInfo {
	info := PullRequestInfo{}
	if pr == nil {
		return info
	}

	if pr.Number != nil {
		info.Number = *pr.Number
	}
	if pr.State != nil {
		info.State = *pr.State
	}
	if pr.MergedAt != nil {
		info.Merged = true
	}
	if pr.Head != nil && pr.Head.Ref != nil {
		info.Head = *pr.Head.Ref
	}
	if pr.Base != nil && pr.Base.Ref != nil {
		info.Base = *pr.Base.Ref
	}
	for _, label := range pr.Labels {
		if label.Name != nil {
			info.Labels = append(info.Labels, *label.Name)
		}
	}

	return info
}
