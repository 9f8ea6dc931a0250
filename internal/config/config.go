// Package config resolves the process configuration for shipit: target
// repository, branch, local repository root, API endpoint and credential.
//
// Resolution order for owner/repo/branch: environment, then a .shipit.toml
// file in the repository root, then the owner/repo parsed from the local git
// "origin" remote. Missing owner, repo or branch after the full chain is a
// fatal startup condition.
package config

import (
	"fmt"
	"os"
	"strings"

	"shipit.dev/shipit/internal/errors"
)

// Environment variable names
const (
	EnvOwner      = "SHIPIT_OWNER"
	EnvRepo       = "SHIPIT_REPO"
	EnvBranch     = "SHIPIT_BRANCH"
	EnvRepoRoot   = "SHIPIT_REPO_ROOT"
	EnvAPIBaseURL = "SHIPIT_API_BASE_URL"
	EnvToken      = "GITHUB_TOKEN"
)

// Config holds the resolved process configuration. The core components take
// this struct explicitly; nothing below this package reads the environment.
type Config struct {
	Owner      string
	Repo       string
	Branch     string
	RepoRoot   string
	APIBaseURL string
	Token      string
}

// Load resolves configuration from the environment, the optional
// .shipit.toml in the repository root, and the local git remote.
func Load() (*Config, error) {
	cfg := &Config{
		Owner:      os.Getenv(EnvOwner),
		Repo:       os.Getenv(EnvRepo),
		Branch:     os.Getenv(EnvBranch),
		RepoRoot:   os.Getenv(EnvRepoRoot),
		APIBaseURL: os.Getenv(EnvAPIBaseURL),
		Token:      os.Getenv(EnvToken),
	}

	if cfg.RepoRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg.RepoRoot = wd
	}

	fileCfg, err := readConfigFile(cfg.RepoRoot)
	if err != nil {
		return nil, err
	}
	cfg.applyFile(fileCfg)

	// Last resort for owner/repo: the local checkout's origin remote.
	if cfg.Owner == "" || cfg.Repo == "" {
		if owner, repo, remoteErr := ownerRepoFromRemote(cfg.RepoRoot); remoteErr == nil {
			if cfg.Owner == "" {
				cfg.Owner = owner
			}
			if cfg.Repo == "" {
				cfg.Repo = repo
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the fields every operation depends on are present.
// The token is checked separately by RequireToken since read-only commands
// may not need one.
func (c *Config) Validate() error {
	var missing []string
	if c.Owner == "" {
		missing = append(missing, "repository owner ("+EnvOwner+")")
	}
	if c.Repo == "" {
		missing = append(missing, "repository name ("+EnvRepo+")")
	}
	if c.Branch == "" {
		missing = append(missing, "branch name ("+EnvBranch+")")
	}
	if len(missing) > 0 {
		return errors.NewValidationError(
			"missing required configuration: %s", strings.Join(missing, ", "),
		)
	}
	return nil
}

// RequireToken fails if no credential was resolved
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return errors.NewValidationError("missing credential (%s)", EnvToken)
	}
	return nil
}

func (c *Config) applyFile(f *fileConfig) {
	if f == nil {
		return
	}
	if c.Owner == "" {
		c.Owner = f.Owner
	}
	if c.Repo == "" {
		c.Repo = f.Repo
	}
	if c.Branch == "" {
		c.Branch = f.Branch
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = f.APIBaseURL
	}
}
