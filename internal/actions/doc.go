// Package actions implements the remote commit operations: composing tree
// and commit objects through the git-database API and moving the branch
// reference, fast-forward only.
//
// Every operation follows the same six-call chain: read the branch ref, read
// its commit, read local file contents (concurrently), create a tree, create
// a commit, update the ref. The first three calls are reads; the tree and
// commit creations are irreversible remote writes that leave orphaned objects
// if the final reference update fails. That partial state is surfaced in the
// returned error, never retried silently.
package actions
