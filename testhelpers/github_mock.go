package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
)

// MockCommit is a commit object held by the mock server
type MockCommit struct {
	SHA     string
	TreeSHA string
	Message string
	Parents []string
}

// MockGitServerConfig configures the behavior of a mock git-database server.
// Trees are stored flattened: tree sha -> full path-to-content map, with
// base-tree overlay applied at creation time.
type MockGitServerConfig struct {
	Owner string
	Repo  string

	Refs    map[string]string
	Commits map[string]*MockCommit
	Trees   map[string]map[string]string

	// FailUpdateRefStatus makes every PATCH on a ref answer this HTTP
	// status with FailUpdateRefBody (after objects were already created)
	FailUpdateRefStatus int
	FailUpdateRefBody   string
	// DropUpdateRef aborts the connection on PATCH, simulating a
	// network-level failure with no response at all
	DropUpdateRef bool
	// RequestID is echoed in the X-GitHub-Request-Id header when set
	RequestID string
	// OnRefRead runs after each successful ref read; tests use it to move
	// the ref underneath an in-flight operation
	OnRefRead func()
	// OnRefUpdate runs after a successful ref update was acknowledged;
	// tests use it to make a subsequent read observe a stale value
	OnRefUpdate func()

	// Call counters, for asserting that failed validation made no remote
	// mutation
	RefReads      int
	CommitReads   int
	TreeCreates   int
	CommitCreates int
	RefUpdates    int
	RefCreates    int

	mu     sync.Mutex
	nextID int
}

// NewMockGitServerConfig creates a new mock server config with defaults
func NewMockGitServerConfig() *MockGitServerConfig {
	return &MockGitServerConfig{
		Owner:             "owner",
		Repo:              "repo",
		Refs:              make(map[string]string),
		Commits:           make(map[string]*MockCommit),
		Trees:             make(map[string]map[string]string),
		FailUpdateRefBody: `{"message":"Internal Server Error"}`,
	}
}

// SeedBranch creates a tree and commit from files and points branch at it.
// Returns the seeded commit sha.
func (c *MockGitServerConfig) SeedBranch(branch string, files map[string]string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	tree := make(map[string]string, len(files))
	for path, content := range files {
		tree[path] = content
	}

	treeSHA := c.newSHA()
	c.Trees[treeSHA] = tree

	commitSHA := c.newSHA()
	c.Commits[commitSHA] = &MockCommit{
		SHA:     commitSHA,
		TreeSHA: treeSHA,
		Message: "seed",
	}

	c.Refs[branch] = commitSHA
	return commitSHA
}

// AddCommit creates a commit on top of parent reusing its tree, simulating
// a concurrent writer. Returns the new commit sha.
func (c *MockGitServerConfig) AddCommit(parent string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.Commits[parent]
	sha := c.newSHA()
	c.Commits[sha] = &MockCommit{
		SHA:     sha,
		TreeSHA: p.TreeSHA,
		Message: "concurrent",
		Parents: []string{parent},
	}
	return sha
}

// MoveRef points branch at sha directly, bypassing the fast-forward check
func (c *MockGitServerConfig) MoveRef(branch, sha string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Refs[branch] = sha
}

// RefSHA returns the sha branch currently points at
func (c *MockGitServerConfig) RefSHA(branch string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Refs[branch]
}

// Commit returns the commit object stored under sha
func (c *MockGitServerConfig) Commit(sha string) *MockCommit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Commits[sha]
}

// TreeFor returns the flattened path-to-content map of the tree a commit
// points at.
func (c *MockGitServerConfig) TreeFor(commitSHA string) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	commit, ok := c.Commits[commitSHA]
	if !ok {
		return nil
	}
	return c.Trees[commit.TreeSHA]
}

func (c *MockGitServerConfig) newSHA() string {
	c.nextID++
	return fmt.Sprintf("%040x", c.nextID)
}

// NewMockGitServer creates an httptest server that mocks the GitHub
// git-database endpoints: ref read/create/update, commit read/create and
// tree create.
func NewMockGitServer(t *testing.T, config *MockGitServerConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitServerConfig()
	}

	base := "/repos/" + config.Owner + "/" + config.Repo + "/git/"

	mux := http.NewServeMux()
	mux.HandleFunc(base, func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, base)

		switch {
		case strings.HasPrefix(rest, "ref/heads/") && r.Method == "GET":
			handleGetRef(w, config, strings.TrimPrefix(rest, "ref/heads/"))
		case strings.HasPrefix(rest, "refs/heads/") && r.Method == "PATCH":
			handleUpdateRef(w, r, config, strings.TrimPrefix(rest, "refs/heads/"))
		case rest == "refs" && r.Method == "POST":
			handleCreateRef(w, r, config)
		case strings.HasPrefix(rest, "commits/") && r.Method == "GET":
			handleGetCommit(w, config, strings.TrimPrefix(rest, "commits/"))
		case rest == "commits" && r.Method == "POST":
			handleCreateCommit(w, r, config)
		case rest == "trees" && r.Method == "POST":
			handleCreateTree(w, r, config)
		default:
			http.Error(w, fmt.Sprintf("Unhandled path: %s (method: %s)", r.URL.Path, r.Method), http.StatusNotFound)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(func() { server.Close() })
	return server
}

// NewMockGitClient creates a go-github client configured to use a mock server
func NewMockGitClient(t *testing.T, config *MockGitServerConfig) (*github.Client, string, string) {
	server := NewMockGitServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL
	return client, config.Owner, config.Repo
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, config *MockGitServerConfig, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	if config.RequestID != "" {
		w.Header().Set("X-GitHub-Request-Id", config.RequestID)
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func refResponse(branch, sha string) map[string]interface{} {
	return map[string]interface{}{
		"ref":    "refs/heads/" + branch,
		"object": map[string]interface{}{"type": "commit", "sha": sha},
	}
}

func commitResponse(commit *MockCommit) map[string]interface{} {
	parents := make([]map[string]interface{}, 0, len(commit.Parents))
	for _, p := range commit.Parents {
		parents = append(parents, map[string]interface{}{"sha": p})
	}
	return map[string]interface{}{
		"sha":     commit.SHA,
		"message": commit.Message,
		"tree":    map[string]interface{}{"sha": commit.TreeSHA},
		"author": map[string]interface{}{
			"name": "shipit[bot]",
			"date": time.Now().UTC().Format(time.RFC3339),
		},
		"parents": parents,
	}
}

func handleGetRef(w http.ResponseWriter, config *MockGitServerConfig, branch string) {
	config.mu.Lock()
	config.RefReads++
	sha, ok := config.Refs[branch]
	config.mu.Unlock()

	if !ok {
		writeError(w, config, http.StatusNotFound, `{"message":"Not Found"}`)
		return
	}

	writeJSON(w, http.StatusOK, refResponse(branch, sha))

	if config.OnRefRead != nil {
		config.OnRefRead()
	}
}

func handleGetCommit(w http.ResponseWriter, config *MockGitServerConfig, sha string) {
	config.mu.Lock()
	config.CommitReads++
	commit, ok := config.Commits[sha]
	config.mu.Unlock()

	if !ok {
		writeError(w, config, http.StatusNotFound, `{"message":"Not Found"}`)
		return
	}

	writeJSON(w, http.StatusOK, commitResponse(commit))
}

func handleCreateTree(w http.ResponseWriter, r *http.Request, config *MockGitServerConfig) {
	var req struct {
		BaseTree string `json:"base_tree"`
		Tree     []struct {
			Path    string  `json:"path"`
			Mode    string  `json:"mode"`
			Type    string  `json:"type"`
			SHA     *string `json:"sha"`
			Content *string `json:"content"`
		} `json:"tree"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, config, http.StatusBadRequest, `{"message":"Problems parsing JSON"}`)
		return
	}

	config.mu.Lock()
	defer config.mu.Unlock()
	config.TreeCreates++

	base, ok := config.Trees[req.BaseTree]
	if !ok {
		writeError(w, config, http.StatusUnprocessableEntity, `{"message":"Tree SHA is not valid"}`)
		return
	}

	// Overlay entries onto the base tree. A content entry writes the path;
	// an entry without content carries an explicit null sha and removes it.
	tree := make(map[string]string, len(base))
	for path, content := range base {
		tree[path] = content
	}
	for _, entry := range req.Tree {
		if entry.Content != nil {
			tree[entry.Path] = *entry.Content
			continue
		}
		if entry.SHA == nil {
			delete(tree, entry.Path)
		}
	}

	sha := config.newSHA()
	config.Trees[sha] = tree

	writeJSON(w, http.StatusCreated, map[string]interface{}{"sha": sha})
}

func handleCreateCommit(w http.ResponseWriter, r *http.Request, config *MockGitServerConfig) {
	var req struct {
		Message string   `json:"message"`
		Tree    string   `json:"tree"`
		Parents []string `json:"parents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, config, http.StatusBadRequest, `{"message":"Problems parsing JSON"}`)
		return
	}

	config.mu.Lock()
	defer config.mu.Unlock()
	config.CommitCreates++

	if _, ok := config.Trees[req.Tree]; !ok {
		writeError(w, config, http.StatusUnprocessableEntity, `{"message":"Tree SHA does not exist"}`)
		return
	}

	commit := &MockCommit{
		SHA:     config.newSHA(),
		TreeSHA: req.Tree,
		Message: req.Message,
		Parents: req.Parents,
	}
	config.Commits[commit.SHA] = commit

	writeJSON(w, http.StatusCreated, commitResponse(commit))
}

func handleUpdateRef(w http.ResponseWriter, r *http.Request, config *MockGitServerConfig, branch string) {
	if config.DropUpdateRef {
		// Abort without writing a response, so the client observes a
		// network-level failure.
		panic(http.ErrAbortHandler)
	}

	config.mu.Lock()
	config.RefUpdates++
	config.mu.Unlock()

	if config.FailUpdateRefStatus != 0 {
		writeError(w, config, config.FailUpdateRefStatus, config.FailUpdateRefBody)
		return
	}

	var req struct {
		SHA   string `json:"sha"`
		Force bool   `json:"force"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, config, http.StatusBadRequest, `{"message":"Problems parsing JSON"}`)
		return
	}

	config.mu.Lock()
	defer config.mu.Unlock()

	current, ok := config.Refs[branch]
	if !ok {
		writeError(w, config, http.StatusNotFound, `{"message":"Not Found"}`)
		return
	}

	commit, ok := config.Commits[req.SHA]
	if !ok {
		writeError(w, config, http.StatusUnprocessableEntity, `{"message":"Object does not exist"}`)
		return
	}

	// Fast-forward check for linear history: without force, the new commit
	// must parent the current tip.
	if !req.Force && !containsString(commit.Parents, current) {
		writeError(w, config, http.StatusUnprocessableEntity, `{"message":"Update is not a fast forward"}`)
		return
	}

	config.Refs[branch] = req.SHA
	writeJSON(w, http.StatusOK, refResponse(branch, req.SHA))

	if config.OnRefUpdate != nil {
		config.mu.Unlock()
		config.OnRefUpdate()
		config.mu.Lock()
	}
}

func handleCreateRef(w http.ResponseWriter, r *http.Request, config *MockGitServerConfig) {
	var req struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, config, http.StatusBadRequest, `{"message":"Problems parsing JSON"}`)
		return
	}

	branch := strings.TrimPrefix(req.Ref, "refs/heads/")

	config.mu.Lock()
	defer config.mu.Unlock()
	config.RefCreates++

	if _, exists := config.Refs[branch]; exists {
		writeError(w, config, http.StatusUnprocessableEntity, `{"message":"Reference already exists"}`)
		return
	}
	if _, ok := config.Commits[req.SHA]; !ok {
		writeError(w, config, http.StatusUnprocessableEntity, `{"message":"Object does not exist"}`)
		return
	}

	config.Refs[branch] = req.SHA
	writeJSON(w, http.StatusCreated, refResponse(branch, req.SHA))
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
