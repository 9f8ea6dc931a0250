package actions_test

import (
	"context"
	"sync"
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/require"

	"shipit.dev/shipit/internal/actions"
	"shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/testhelpers"
)

func TestCommit(t *testing.T) {
	t.Run("commits a single file and moves the ref", func(t *testing.T) {
		scene := testhelpers.NewScene(t, map[string]string{
			"README.md": "old content",
		})
		scene.WriteFile(t, "README.md", "new content")

		result, err := actions.Commit(context.Background(), scene.Runtime, []string{"README.md"}, "update docs")
		require.NoError(t, err)
		require.NotNil(t, result)
		require.Equal(t, "update docs", result.Message)
		require.Equal(t, []string{"README.md"}, result.Files)

		// The branch ref now points at the new commit, whose only parent
		// is the previous tip.
		require.Equal(t, result.SHA, scene.Mock.RefSHA("main"))
		commit := scene.Mock.Commit(result.SHA)
		require.Equal(t, []string{scene.BaseSHA}, commit.Parents)

		tree := scene.Mock.TreeFor(result.SHA)
		require.Equal(t, "new content", tree["README.md"])
	})

	t.Run("commits multiple files atomically over the base tree", func(t *testing.T) {
		scene := testhelpers.NewScene(t, map[string]string{
			"README.md":   "readme",
			"src/main.go": "package main",
			"LICENSE":     "MIT",
		})
		scene.WriteFile(t, "src/main.go", "package main // v2")
		scene.WriteFile(t, "docs/guide.md", "# Guide")

		result, err := actions.Commit(
			context.Background(), scene.Runtime,
			[]string{"src/main.go", "docs/guide.md"},
			"add guide",
		)
		require.NoError(t, err)
		require.Equal(t, []string{"docs/guide.md", "src/main.go"}, result.Files)

		// Untouched base entries survive the overlay.
		tree := scene.Mock.TreeFor(result.SHA)
		require.Equal(t, "readme", tree["README.md"])
		require.Equal(t, "MIT", tree["LICENSE"])
		require.Equal(t, "package main // v2", tree["src/main.go"])
		require.Equal(t, "# Guide", tree["docs/guide.md"])

		require.Equal(t, 1, scene.Mock.TreeCreates)
		require.Equal(t, 1, scene.Mock.CommitCreates)
		require.Equal(t, 1, scene.Mock.RefUpdates)
	})

	t.Run("leading slash paths are repo-root relative", func(t *testing.T) {
		scene := testhelpers.NewScene(t, map[string]string{
			"config.yaml": "a: 1",
		})
		scene.WriteFile(t, "config.yaml", "a: 2")

		result, err := actions.Commit(context.Background(), scene.Runtime, []string{"/config.yaml"}, "tweak config")
		require.NoError(t, err)
		require.Equal(t, []string{"config.yaml"}, result.Files)
		require.Equal(t, "a: 2", scene.Mock.TreeFor(result.SHA)["config.yaml"])
	})

	t.Run("unreadable file aborts before any remote call", func(t *testing.T) {
		scene := testhelpers.NewScene(t, map[string]string{
			"README.md": "content",
		})

		_, err := actions.Commit(
			context.Background(), scene.Runtime,
			[]string{"README.md", "does/not/exist.go"},
			"mixed batch",
		)
		require.Error(t, err)
		require.True(t, stderrors.Is(err, errors.ErrFileRead))
		require.Contains(t, err.Error(), "does/not/exist.go")

		require.Equal(t, 0, scene.Mock.RefReads)
		require.Equal(t, 0, scene.Mock.TreeCreates)
		require.Equal(t, 0, scene.Mock.CommitCreates)
		require.Equal(t, 0, scene.Mock.RefUpdates)
		require.Equal(t, scene.BaseSHA, scene.Mock.RefSHA("main"))
	})

	t.Run("path escaping the repo root is rejected", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)

		_, err := actions.Commit(context.Background(), scene.Runtime, []string{"../outside.txt"}, "escape")
		require.Error(t, err)
		require.True(t, stderrors.Is(err, errors.ErrValidation))
		require.Equal(t, 0, scene.Mock.RefReads)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)

		_, err := actions.Commit(context.Background(), scene.Runtime, []string{"README.md"}, "")
		require.True(t, stderrors.Is(err, errors.ErrValidation))
	})

	t.Run("empty file list is rejected", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)

		_, err := actions.Commit(context.Background(), scene.Runtime, nil, "nothing")
		require.True(t, stderrors.Is(err, errors.ErrValidation))
	})

	t.Run("concurrent writer moves the ref and the update is rejected", func(t *testing.T) {
		scene := testhelpers.NewScene(t, map[string]string{
			"README.md": "content",
		})
		scene.WriteFile(t, "README.md", "my change")

		// Simulate another writer landing a commit between the tip read
		// and the reference update.
		var once sync.Once
		var concurrentSHA string
		scene.Mock.OnRefRead = func() {
			once.Do(func() {
				concurrentSHA = scene.Mock.AddCommit(scene.BaseSHA)
				scene.Mock.MoveRef("main", concurrentSHA)
			})
		}

		_, err := actions.Commit(context.Background(), scene.Runtime, []string{"README.md"}, "racy change")
		require.Error(t, err)

		var refErr *errors.RefUpdateError
		require.True(t, stderrors.As(err, &refErr))
		require.Equal(t, 422, refErr.StatusCode)
		require.Contains(t, refErr.Body, "fast forward")

		// The other writer's commit was not clobbered.
		require.Equal(t, concurrentSHA, scene.Mock.RefSHA("main"))
	})
}
