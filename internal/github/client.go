// Package github provides a client for the GitHub git-database API: the
// refs, commits, trees and blobs primitives used to build commits remotely
// without a local working tree.
package github

import (
	"context"
	"fmt"
	"time"
)

// CommitInfo describes a commit object on the remote.
// This is a simplified struct to avoid coupling to go-github library
type CommitInfo struct {
	SHA        string
	TreeSHA    string
	Message    string
	AuthorName string
	Date       time.Time
	Parents    []string
}

// TreeEntry is one path in a tree-creation request. A nil Content marks the
// path for removal from the resulting tree (serialized as an explicit null
// object reference).
type TreeEntry struct {
	Path    string
	Mode    string
	Type    string
	Content *string
}

// Client is an interface for the git-database API interactions
type Client interface {
	// GetRefSHA returns the commit sha a branch ref currently points at
	GetRefSHA(ctx context.Context, branch string) (string, error)

	// GetCommit reads a commit object by sha
	GetCommit(ctx context.Context, sha string) (*CommitInfo, error)

	// CreateTree creates a tree overlaying entries onto the base tree and
	// returns the new tree sha
	CreateTree(ctx context.Context, baseTreeSHA string, entries []TreeEntry) (string, error)

	// CreateCommit creates a commit object and returns its descriptor
	CreateCommit(ctx context.Context, message, treeSHA string, parents []string) (*CommitInfo, error)

	// UpdateRef moves a branch ref to sha, fast-forward only (never forced),
	// and returns the sha the remote acknowledged
	UpdateRef(ctx context.Context, branch, sha string) (string, error)

	// CreateRef creates a new branch ref at sha
	CreateRef(ctx context.Context, branch, sha string) (string, error)

	// OwnerRepo returns the repository owner and name
	OwnerRepo() (owner, repo string)
}

// RequestError captures the HTTP diagnostics of a failed API call.
// StatusCode is zero when the request never completed, in which case nothing
// is known about server-side effects.
type RequestError struct {
	StatusCode int
	Body       string
	RequestID  string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request did not complete: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Transport reports whether the request failed before reaching the service
func (e *RequestError) Transport() bool {
	return e.StatusCode == 0
}

// NotFound reports whether the remote answered 404
func (e *RequestError) NotFound() bool {
	return e.StatusCode == 404
}
