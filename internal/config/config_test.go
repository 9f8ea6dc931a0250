package config

import (
	"os"
	"path/filepath"
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/require"

	"shipit.dev/shipit/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvOwner, EnvRepo, EnvBranch, EnvRepoRoot, EnvAPIBaseURL, EnvToken} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("resolves from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvOwner, "octocat")
		t.Setenv(EnvRepo, "hello-world")
		t.Setenv(EnvBranch, "main")
		t.Setenv(EnvToken, "ghs_token")
		t.Setenv(EnvRepoRoot, t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "octocat", cfg.Owner)
		require.Equal(t, "hello-world", cfg.Repo)
		require.Equal(t, "main", cfg.Branch)
		require.Equal(t, "ghs_token", cfg.Token)
		require.NoError(t, cfg.RequireToken())
	})

	t.Run("missing owner repo branch is a validation error", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvRepoRoot, t.TempDir())

		_, err := Load()
		require.Error(t, err)
		require.True(t, stderrors.Is(err, errors.ErrValidation))
		require.Contains(t, err.Error(), EnvOwner)
		require.Contains(t, err.Error(), EnvRepo)
		require.Contains(t, err.Error(), EnvBranch)
	})

	t.Run("config file fills gaps but environment wins", func(t *testing.T) {
		clearEnv(t)
		root := t.TempDir()
		content := "owner = \"filed-owner\"\nrepo = \"filed-repo\"\nbranch = \"filed-branch\"\napi_base_url = \"http://localhost:9999\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(content), 0600))

		t.Setenv(EnvRepoRoot, root)
		t.Setenv(EnvOwner, "env-owner")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "env-owner", cfg.Owner)
		require.Equal(t, "filed-repo", cfg.Repo)
		require.Equal(t, "filed-branch", cfg.Branch)
		require.Equal(t, "http://localhost:9999", cfg.APIBaseURL)
	})

	t.Run("malformed config file fails", func(t *testing.T) {
		clearEnv(t)
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("owner = ["), 0600))

		t.Setenv(EnvRepoRoot, root)

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), ConfigFileName)
	})

	t.Run("missing token fails RequireToken only", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvOwner, "octocat")
		t.Setenv(EnvRepo, "hello-world")
		t.Setenv(EnvBranch, "main")
		t.Setenv(EnvRepoRoot, t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)

		err = cfg.RequireToken()
		require.Error(t, err)
		require.True(t, stderrors.Is(err, errors.ErrValidation))
	})
}

func TestParseRemoteURL(t *testing.T) {
	t.Run("https form", func(t *testing.T) {
		owner, repo, err := parseRemoteURL("https://github.com/octocat/hello-world.git")
		require.NoError(t, err)
		require.Equal(t, "octocat", owner)
		require.Equal(t, "hello-world", repo)
	})

	t.Run("https form without suffix", func(t *testing.T) {
		owner, repo, err := parseRemoteURL("https://github.com/octocat/hello-world")
		require.NoError(t, err)
		require.Equal(t, "octocat", owner)
		require.Equal(t, "hello-world", repo)
	})

	t.Run("ssh form", func(t *testing.T) {
		owner, repo, err := parseRemoteURL("git@github.com:octocat/hello-world.git")
		require.NoError(t, err)
		require.Equal(t, "octocat", owner)
		require.Equal(t, "hello-world", repo)
	})

	t.Run("unparseable url", func(t *testing.T) {
		_, _, err := parseRemoteURL("not-a-remote")
		require.Error(t, err)
	})

	t.Run("missing repo segment", func(t *testing.T) {
		_, _, err := parseRemoteURL("https://github.com/just-owner")
		require.Error(t, err)
	})
}
