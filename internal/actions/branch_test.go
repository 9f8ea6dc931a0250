package actions_test

import (
	"context"
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/require"

	"shipit.dev/shipit/internal/actions"
	"shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/testhelpers"
)

func TestCreateBranch(t *testing.T) {
	t.Run("creates a branch at the source tip", func(t *testing.T) {
		scene := testhelpers.NewScene(t, map[string]string{
			"README.md": "content",
		})

		sha, err := actions.CreateBranch(context.Background(), scene.Runtime, "feature/widget", "")
		require.NoError(t, err)
		require.Equal(t, scene.BaseSHA, sha)
		require.Equal(t, scene.BaseSHA, scene.Mock.RefSHA("feature/widget"))
	})

	t.Run("explicit source branch", func(t *testing.T) {
		scene := testhelpers.NewScene(t, map[string]string{
			"README.md": "content",
		})
		otherSHA := scene.Mock.AddCommit(scene.BaseSHA)
		scene.Mock.MoveRef("develop", otherSHA)

		sha, err := actions.CreateBranch(context.Background(), scene.Runtime, "feature/from-develop", "develop")
		require.NoError(t, err)
		require.Equal(t, otherSHA, sha)
	})

	t.Run("existing branch is an object creation error", func(t *testing.T) {
		scene := testhelpers.NewScene(t, map[string]string{
			"README.md": "content",
		})

		_, err := actions.CreateBranch(context.Background(), scene.Runtime, "main", "")
		require.Error(t, err)

		var creationErr *errors.ObjectCreationError
		require.True(t, stderrors.As(err, &creationErr))
		require.Equal(t, 422, creationErr.StatusCode)
		require.Contains(t, creationErr.Body, "already exists")
	})

	t.Run("missing source branch is not found", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)

		_, err := actions.CreateBranch(context.Background(), scene.Runtime, "feature/x", "absent")
		require.True(t, stderrors.Is(err, errors.ErrNotFound))
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)

		_, err := actions.CreateBranch(context.Background(), scene.Runtime, "", "")
		require.True(t, stderrors.Is(err, errors.ErrValidation))
	})
}
