package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorSentinels(t *testing.T) {
	t.Run("validation error matches ErrValidation", func(t *testing.T) {
		err := NewValidationError("bad path %q", "../../etc")
		require.True(t, stderrors.Is(err, ErrValidation))
		require.Contains(t, err.Error(), "../../etc")
	})

	t.Run("path outside repo matches both sentinels", func(t *testing.T) {
		err := NewPathOutsideRepoError("/etc/passwd", "/work/repo")
		require.True(t, stderrors.Is(err, ErrPathOutsideRepo))
		require.True(t, stderrors.Is(err, ErrValidation))
		require.Contains(t, err.Error(), "/etc/passwd")
		require.Contains(t, err.Error(), "/work/repo")
	})

	t.Run("not found error carries stage", func(t *testing.T) {
		err := NewNotFoundError("read ref", "heads/main", nil)
		require.True(t, stderrors.Is(err, ErrNotFound))
		require.Contains(t, err.Error(), "read ref")
		require.Contains(t, err.Error(), "heads/main")
	})

	t.Run("file read error wraps the cause", func(t *testing.T) {
		cause := stderrors.New("permission denied")
		err := NewFileReadError("src/main.go", cause)
		require.True(t, stderrors.Is(err, ErrFileRead))
		require.True(t, stderrors.Is(err, cause))
	})
}

func TestObjectCreationError(t *testing.T) {
	t.Run("includes stage, status and body", func(t *testing.T) {
		err := NewObjectCreationError("create tree", 422, `{"message":"Tree SHA is not valid"}`, nil)
		require.True(t, stderrors.Is(err, ErrObjectCreation))
		require.Contains(t, err.Error(), "create tree")
		require.Contains(t, err.Error(), "422")
		require.Contains(t, err.Error(), "Tree SHA is not valid")
	})

	t.Run("omits missing status and body", func(t *testing.T) {
		err := NewObjectCreationError("create commit", 0, "", nil)
		require.Equal(t, "create commit rejected", err.Error())
	})
}

func TestRefUpdateError(t *testing.T) {
	err := &RefUpdateError{
		Branch:     "main",
		StatusCode: 500,
		Body:       `{"message":"Internal Server Error"}`,
		RequestID:  "ABCD:1234",
		TreeSHA:    "tree-sha",
		CommitSHA:  "commit-sha",
	}

	require.True(t, stderrors.Is(err, ErrRefUpdate))

	// The orphaned object shas must be recoverable from the message alone.
	msg := err.Error()
	require.Contains(t, msg, "tree-sha")
	require.Contains(t, msg, "commit-sha")
	require.Contains(t, msg, "500")
	require.Contains(t, msg, "ABCD:1234")
}

func TestTransportError(t *testing.T) {
	cause := stderrors.New("connection reset by peer")
	err := &TransportError{
		Stage:     "update ref",
		TreeSHA:   "t1",
		CommitSHA: "c1",
		Err:       cause,
	}

	require.True(t, stderrors.Is(err, ErrTransport))
	require.True(t, stderrors.Is(err, cause))
	require.Contains(t, err.Error(), "t1")
	require.Contains(t, err.Error(), "c1")
}

func TestNormalize(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		require.NoError(t, Normalize(nil, "fallback"))
	})

	t.Run("empty message replaced", func(t *testing.T) {
		err := Normalize(stderrors.New(""), "unknown failure")
		require.EqualError(t, err, "unknown failure")
	})

	t.Run("non-empty message preserved", func(t *testing.T) {
		err := Normalize(stderrors.New("boom"), "unknown failure")
		require.EqualError(t, err, "boom")
	})
}
