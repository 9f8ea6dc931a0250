package github

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// Options configures a RealClient. BaseURL overrides the API endpoint for
// tests and enterprise hosts; empty means api.github.com.
type Options struct {
	Owner   string
	Repo    string
	Token   string
	BaseURL string
}

// RealClient implements Client using the real GitHub API
type RealClient struct {
	client *github.Client
	owner  string
	repo   string
}

// NewRealClient creates a new RealClient
func NewRealClient(ctx context.Context, opts Options) (*RealClient, error) {
	if opts.Owner == "" || opts.Repo == "" {
		return nil, fmt.Errorf("github client: owner and repo must be set")
	}
	if opts.Token == "" {
		return nil, fmt.Errorf("github client: token must be set")
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: opts.Token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if opts.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("github client: invalid base url %q: %w", opts.BaseURL, err)
		}
		client.BaseURL = base
		client.UploadURL = base
	}

	return &RealClient{
		client: client,
		owner:  opts.Owner,
		repo:   opts.Repo,
	}, nil
}

// NewClientFromGitHub wraps an already-constructed go-github client.
// Used by tests to point at a mock server.
func NewClientFromGitHub(client *github.Client, owner, repo string) *RealClient {
	return &RealClient{client: client, owner: owner, repo: repo}
}

// OwnerRepo returns the repository owner and name
func (c *RealClient) OwnerRepo() (string, string) {
	return c.owner, c.repo
}

// GetRefSHA returns the commit sha the branch ref currently points at
func (c *RealClient) GetRefSHA(ctx context.Context, branch string) (string, error) {
	ref, resp, err := c.client.Git.GetRef(ctx, c.owner, c.repo, "heads/"+branch)
	if err != nil {
		return "", newRequestError(resp, err)
	}
	if ref.Object == nil || ref.Object.SHA == nil {
		return "", fmt.Errorf("ref heads/%s has no object sha", branch)
	}
	return *ref.Object.SHA, nil
}

// GetCommit reads a commit object by sha
func (c *RealClient) GetCommit(ctx context.Context, sha string) (*CommitInfo, error) {
	commit, resp, err := c.client.Git.GetCommit(ctx, c.owner, c.repo, sha)
	if err != nil {
		return nil, newRequestError(resp, err)
	}
	return toCommitInfo(commit), nil
}

// CreateTree creates a tree from baseTreeSHA plus entries
func (c *RealClient) CreateTree(ctx context.Context, baseTreeSHA string, entries []TreeEntry) (string, error) {
	ghEntries := make([]*github.TreeEntry, 0, len(entries))
	for _, e := range entries {
		entry := &github.TreeEntry{
			Path: github.String(e.Path),
			Mode: github.String(e.Mode),
			Type: github.String(e.Type),
		}
		// A nil Content together with a nil SHA is serialized by go-github
		// as an explicit null sha, which removes the path from the tree.
		if e.Content != nil {
			entry.Content = github.String(*e.Content)
		}
		ghEntries = append(ghEntries, entry)
	}

	tree, resp, err := c.client.Git.CreateTree(ctx, c.owner, c.repo, baseTreeSHA, ghEntries)
	if err != nil {
		return "", newRequestError(resp, err)
	}
	if tree.SHA == nil {
		return "", fmt.Errorf("created tree has no sha")
	}
	return *tree.SHA, nil
}

// CreateCommit creates a commit object pointing at treeSHA with the given parents
func (c *RealClient) CreateCommit(ctx context.Context, message, treeSHA string, parents []string) (*CommitInfo, error) {
	parentCommits := make([]*github.Commit, 0, len(parents))
	for _, p := range parents {
		parentCommits = append(parentCommits, &github.Commit{SHA: github.String(p)})
	}

	commit := &github.Commit{
		Message: github.String(message),
		Tree:    &github.Tree{SHA: github.String(treeSHA)},
		Parents: parentCommits,
	}

	created, resp, err := c.client.Git.CreateCommit(ctx, c.owner, c.repo, commit, nil)
	if err != nil {
		return nil, newRequestError(resp, err)
	}
	return toCommitInfo(created), nil
}

// UpdateRef moves the branch ref to sha, fast-forward only
func (c *RealClient) UpdateRef(ctx context.Context, branch, sha string) (string, error) {
	ref := &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.String(sha)},
	}

	// force is false: the remote rejects the update if the ref has moved
	// since its tip was read, instead of clobbering the concurrent writer.
	updated, resp, err := c.client.Git.UpdateRef(ctx, c.owner, c.repo, ref, false)
	if err != nil {
		return "", newRequestError(resp, err)
	}
	if updated.Object == nil || updated.Object.SHA == nil {
		return "", fmt.Errorf("updated ref heads/%s has no object sha", branch)
	}
	return *updated.Object.SHA, nil
}

// CreateRef creates a new branch ref at sha
func (c *RealClient) CreateRef(ctx context.Context, branch, sha string) (string, error) {
	ref := &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.String(sha)},
	}

	created, resp, err := c.client.Git.CreateRef(ctx, c.owner, c.repo, ref)
	if err != nil {
		return "", newRequestError(resp, err)
	}
	if created.Object == nil || created.Object.SHA == nil {
		return "", fmt.Errorf("created ref heads/%s has no object sha", branch)
	}
	return *created.Object.SHA, nil
}

// newRequestError packages the response diagnostics of a failed call. The
// response body is re-readable after go-github's error parsing, so the raw
// text is captured verbatim for the error payload.
func newRequestError(resp *github.Response, err error) *RequestError {
	re := &RequestError{Err: err}

	if resp == nil {
		// The request never completed; no server-side information exists.
		return re
	}

	re.StatusCode = resp.StatusCode
	re.RequestID = resp.Header.Get("X-GitHub-Request-Id")

	if resp.Body != nil {
		if body, readErr := io.ReadAll(resp.Body); readErr == nil {
			re.Body = strings.TrimSpace(string(body))
		}
		resp.Body.Close() //nolint:errcheck
	}

	return re
}

// toCommitInfo converts a github.Commit to CommitInfo
func toCommitInfo(commit *github.Commit) *CommitInfo {
	if commit == nil {
		return nil
	}

	info := &CommitInfo{}

	if commit.SHA != nil {
		info.SHA = *commit.SHA
	}
	if commit.Message != nil {
		info.Message = *commit.Message
	}
	if commit.Tree != nil && commit.Tree.SHA != nil {
		info.TreeSHA = *commit.Tree.SHA
	}
	if commit.Author != nil {
		if commit.Author.Name != nil {
			info.AuthorName = *commit.Author.Name
		}
		if commit.Author.Date != nil {
			info.Date = commit.Author.Date.Time
		}
	}
	for _, p := range commit.Parents {
		if p.SHA != nil {
			info.Parents = append(info.Parents, *p.SHA)
		}
	}

	return info
}
