package actions

import (
	"context"
	"fmt"
	"sort"

	stderrors "errors"

	"shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/github"
	"shipit.dev/shipit/internal/runtime"
)

// composeCommit runs the shared portion of the commit protocol: read the
// branch tip, read its base tree, create a tree overlaying entries, create
// a commit parenting the tip, then hand off to the reference-update
// protocol. touched lists the repository-relative paths for the result.
func composeCommit(
	ctx context.Context,
	rt *runtime.Context,
	entries []github.TreeEntry,
	message string,
	touched []string,
) (*CommitResult, error) {
	branch := rt.Config.Branch

	baseSHA, err := rt.Client.GetRefSHA(ctx, branch)
	if err != nil {
		return nil, readError(stageReadRef, "ref heads/"+branch, err)
	}
	rt.Splog.Debug("%s: heads/%s at %s", stageReadRef, branch, baseSHA)

	base, err := rt.Client.GetCommit(ctx, baseSHA)
	if err != nil {
		return nil, readError(stageReadCommit, "commit "+baseSHA, err)
	}
	rt.Splog.Debug("%s: %s has tree %s", stageReadCommit, baseSHA, base.TreeSHA)

	// From here on remote writes are irreversible: the tree and commit
	// objects persist even if the reference never moves.
	treeSHA, err := rt.Client.CreateTree(ctx, base.TreeSHA, entries)
	if err != nil {
		return nil, writeError(stageCreateTree, err)
	}
	rt.Splog.Debug("%s: %s (base %s, %d entries)", stageCreateTree, treeSHA, base.TreeSHA, len(entries))

	commit, err := rt.Client.CreateCommit(ctx, message, treeSHA, []string{baseSHA})
	if err != nil {
		return nil, writeError(stageCreateCommit, err)
	}
	rt.Splog.Debug("%s: %s (parent %s)", stageCreateCommit, commit.SHA, baseSHA)

	if err := updateRef(ctx, rt, branch, treeSHA, commit.SHA); err != nil {
		return nil, err
	}

	sort.Strings(touched)

	return &CommitResult{
		SHA:     commit.SHA,
		Message: commit.Message,
		Author:  commit.AuthorName,
		Date:    commit.Date,
		Files:   touched,
		TreeSHA: treeSHA,
	}, nil
}

// readError classifies a failure of one of the two read stages. A non-404
// failure is a plain stage-tagged remote error: nothing was created, so no
// object-creation kind applies.
func readError(stage, target string, err error) error {
	var re *github.RequestError
	if stderrors.As(err, &re) {
		if re.Transport() {
			return &errors.TransportError{Stage: stage, Err: re}
		}
		if re.NotFound() {
			return errors.NewNotFoundError(stage, target, re)
		}
		return errors.NewRemoteError(stage, re.StatusCode, re.Body, re)
	}
	return errors.Normalize(fmt.Errorf("%s: %w", stage, err), stage+" failed")
}

// writeError classifies a failure of the tree or commit creation stages.
// Nothing has moved the reference yet, so the operation is safe to re-run
// from scratch.
func writeError(stage string, err error) error {
	var re *github.RequestError
	if stderrors.As(err, &re) {
		if re.Transport() {
			return &errors.TransportError{Stage: stage, Err: re}
		}
		return errors.NewObjectCreationError(stage, re.StatusCode, re.Body, re)
	}
	return errors.Normalize(fmt.Errorf("%s: %w", stage, err), stage+" failed")
}
