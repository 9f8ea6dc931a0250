package actions

import (
	"context"

	"shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/github"
	"shipit.dev/shipit/internal/runtime"
)

// Commit writes the given local files to the configured branch as a single
// commit. Paths are resolved against the repository root; a leading slash is
// treated as root-relative. Every file must be readable before any remote
// write happens, so a failed read leaves the repository untouched.
func Commit(ctx context.Context, rt *runtime.Context, files []string, message string) (*CommitResult, error) {
	if len(files) == 0 {
		return nil, errors.NewValidationError("no files to commit")
	}
	if message == "" {
		return nil, errors.NewValidationError("commit message must not be empty")
	}

	paths := make([]repoPath, 0, len(files))
	for _, f := range files {
		p, err := normalizeWritePath(rt.Config.RepoRoot, f)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}

	contents, err := readFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	rt.Splog.Debug("%s: %d files", stageReadFiles, len(contents))

	entries := make([]github.TreeEntry, 0, len(paths))
	touched := make([]string, 0, len(paths))
	for _, p := range paths {
		content := contents[p.Repo]
		entries = append(entries, github.TreeEntry{
			Path:    p.Repo,
			Mode:    fileMode100644,
			Type:    "blob",
			Content: &content,
		})
		touched = append(touched, p.Repo)
	}

	result, err := composeCommit(ctx, rt, entries, message, touched)
	if err != nil {
		return nil, err
	}

	rt.Splog.Info("committed %d file(s) to %s as %s", len(touched), rt.Config.Branch, result.SHA)
	return result, nil
}
