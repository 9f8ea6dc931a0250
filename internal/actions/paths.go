package actions

import (
	"path/filepath"
	"strings"

	"shipit.dev/shipit/internal/errors"
)

// repoPath pairs the local filesystem location of a file with its
// repository-root-relative path as it appears in tree entries.
type repoPath struct {
	Local string
	Repo  string
}

// normalizeWritePath resolves a caller-supplied path for a commit against
// the repository root. A leading slash is treated as root-relative and
// stripped. The repository-relative form must stay inside the root.
func normalizeWritePath(repoRoot, path string) (repoPath, error) {
	if path == "" {
		return repoPath{}, errors.NewValidationError("empty file path")
	}

	rel := strings.TrimLeft(path, "/")
	if rel == "" {
		return repoPath{}, errors.NewValidationError(
			"path %q does not resolve inside the repository root", path,
		)
	}
	rel = filepath.ToSlash(filepath.Clean(rel))

	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return repoPath{}, errors.NewValidationError(
			"path %q does not resolve inside the repository root", path,
		)
	}

	return repoPath{
		Local: filepath.Join(repoRoot, filepath.FromSlash(rel)),
		Repo:  rel,
	}, nil
}

// normalizeDeletePath resolves a caller-supplied path for a deletion.
// Relative paths pass through cleaned. An absolute path is accepted only
// when it is prefixed by workDir, in which case the prefix is stripped;
// anything else would name a file outside the intended repository and is
// rejected before any remote call.
func normalizeDeletePath(workDir, path string) (string, error) {
	if path == "" {
		return "", errors.NewValidationError("empty deletion path")
	}

	// Any leading-slash path goes through the working-directory prefix
	// check, so a repeated slash cannot slip through as a relative path.
	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "/") {
		rel := filepath.ToSlash(filepath.Clean(path))
		if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
			return "", errors.NewValidationError(
				"deletion path %q does not resolve inside the repository root", path,
			)
		}
		return rel, nil
	}

	cleanDir := filepath.Clean(workDir)
	cleanPath := filepath.Clean(path)

	rel, err := filepath.Rel(cleanDir, cleanPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.NewPathOutsideRepoError(path, workDir)
	}

	return filepath.ToSlash(rel), nil
}
