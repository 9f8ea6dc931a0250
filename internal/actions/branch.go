package actions

import (
	"context"

	"shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/runtime"
)

// CreateBranch creates a new branch pointing at the tip of from. When from
// is empty, the configured branch is used as the source. Returns the sha the
// new branch points at.
func CreateBranch(ctx context.Context, rt *runtime.Context, name, from string) (string, error) {
	if name == "" {
		return "", errors.NewValidationError("branch name must not be empty")
	}
	if from == "" {
		from = rt.Config.Branch
	}

	baseSHA, err := rt.Client.GetRefSHA(ctx, from)
	if err != nil {
		return "", readError(stageReadRef, "ref heads/"+from, err)
	}

	sha, err := rt.Client.CreateRef(ctx, name, baseSHA)
	if err != nil {
		return "", writeError(stageCreateRef, err)
	}

	rt.Splog.Info("created branch %s at %s (from %s)", name, sha, from)
	return sha, nil
}
