package actions

import (
	"context"
	"os"

	"shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/github"
	"shipit.dev/shipit/internal/runtime"
)

// Delete removes the given paths from the configured branch as a single
// commit. Relative paths are taken as repository-relative; an absolute path
// is accepted only when it lies inside the current working directory, which
// prevents a stray absolute path from naming a file outside the repository.
func Delete(ctx context.Context, rt *runtime.Context, paths []string, message string) (*CommitResult, error) {
	if len(paths) == 0 {
		return nil, errors.NewValidationError("no paths to delete")
	}
	if message == "" {
		return nil, errors.NewValidationError("commit message must not be empty")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.NewValidationError("cannot determine working directory: %v", err)
	}

	entries := make([]github.TreeEntry, 0, len(paths))
	removed := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, normErr := normalizeDeletePath(workDir, p)
		if normErr != nil {
			return nil, normErr
		}
		// A nil content marks the path for removal: the tree entry is
		// serialized with an explicit null object reference.
		entries = append(entries, github.TreeEntry{
			Path: rel,
			Mode: fileMode100644,
			Type: "blob",
		})
		removed = append(removed, rel)
	}

	result, err := composeCommit(ctx, rt, entries, message, removed)
	if err != nil {
		return nil, err
	}

	rt.Splog.Info("deleted %d file(s) from %s as %s", len(removed), rt.Config.Branch, result.SHA)
	return result, nil
}
