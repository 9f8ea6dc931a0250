package testhelpers

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"shipit.dev/shipit/internal/config"
	githubpkg "shipit.dev/shipit/internal/github"
	"shipit.dev/shipit/internal/output"
	"shipit.dev/shipit/internal/runtime"
)

// Scene wires a runtime context to a mock git-database server, with a
// temporary repository root seeded on disk and on the mock branch.
type Scene struct {
	Mock     *MockGitServerConfig
	Runtime  *runtime.Context
	RepoRoot string
	Branch   string
	BaseSHA  string
	// Log captures everything the operation wrote through Splog
	Log *bytes.Buffer
}

// NewScene seeds the branch "main" with files, mirrors them into a temp
// repository root, and returns a scene ready to run actions against.
func NewScene(t *testing.T, files map[string]string) *Scene {
	t.Helper()

	mock := NewMockGitServerConfig()
	baseSHA := mock.SeedBranch("main", files)

	repoRoot := t.TempDir()
	for path, content := range files {
		full := filepath.Join(repoRoot, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	ghClient, owner, repo := NewMockGitClient(t, mock)

	cfg := &config.Config{
		Owner:    owner,
		Repo:     repo,
		Branch:   "main",
		RepoRoot: repoRoot,
		Token:    "test-token",
	}

	log := &bytes.Buffer{}
	rt := runtime.NewContext(
		cfg,
		githubpkg.NewClientFromGitHub(ghClient, owner, repo),
		output.NewSplogWithWriter(log),
	)

	return &Scene{
		Mock:     mock,
		Runtime:  rt,
		RepoRoot: repoRoot,
		Branch:   "main",
		BaseSHA:  baseSHA,
		Log:      log,
	}
}

// WriteFile writes a file under the scene's repository root and returns its
// repository-relative path.
func (s *Scene) WriteFile(t *testing.T, path, content string) string {
	t.Helper()

	full := filepath.Join(s.RepoRoot, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return path
}
