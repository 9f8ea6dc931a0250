// Package runtime provides a context type that holds the configuration,
// API client and logger for use throughout the application. This avoids
// passing multiple parameters.
package runtime

import (
	"context"

	"shipit.dev/shipit/internal/config"
	"shipit.dev/shipit/internal/github"
	"shipit.dev/shipit/internal/output"
)

// Context provides access to configuration, the API client and output
// for commands
type Context struct {
	Config *config.Config
	Client github.Client
	Splog  *output.Splog
}

// NewContext creates a context from explicit collaborators. Tests use this
// to inject a client bound to a mock server.
func NewContext(cfg *config.Config, client github.Client, splog *output.Splog) *Context {
	return &Context{
		Config: cfg,
		Client: client,
		Splog:  splog,
	}
}

// GetContext resolves configuration from the process environment and builds
// a real API client. Mutating commands require a credential.
func GetContext(ctx context.Context) (*Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}

	client, err := github.NewRealClient(ctx, github.Options{
		Owner:   cfg.Owner,
		Repo:    cfg.Repo,
		Token:   cfg.Token,
		BaseURL: cfg.APIBaseURL,
	})
	if err != nil {
		return nil, err
	}

	return NewContext(cfg, client, output.NewSplog()), nil
}
