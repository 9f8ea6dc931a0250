// Package errors provides sentinel errors and custom error types for shipit.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrValidation indicates invalid caller input; no remote call was made
	ErrValidation = errors.New("invalid input")

	// ErrPathOutsideRepo indicates an absolute path that does not resolve
	// inside the repository working directory
	ErrPathOutsideRepo = errors.New("path outside repository")

	// ErrNotFound indicates a ref or commit object was not found on the remote
	ErrNotFound = errors.New("object not found")

	// ErrFileRead indicates a local input file could not be read
	ErrFileRead = errors.New("file unreadable")

	// ErrRemote indicates a remote read failed for a reason other than a
	// missing object or a transport fault
	ErrRemote = errors.New("remote request failed")

	// ErrObjectCreation indicates a tree, commit or ref creation was rejected
	// before any reference moved; repository state is unchanged
	ErrObjectCreation = errors.New("object creation rejected")

	// ErrRefUpdate indicates the final reference update was rejected after
	// the tree and commit objects were already created
	ErrRefUpdate = errors.New("reference update failed")

	// ErrTransport indicates a request never completed at the network level
	ErrTransport = errors.New("transport failure")
)

// ValidationError represents rejected caller input. No remote call is made
// when this error is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "invalid input"
	}
	return e.Message
}

// Is returns true if the target error is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PathOutsideRepoError represents an absolute deletion path that is not
// prefixed by the working directory.
type PathOutsideRepoError struct {
	Path    string
	WorkDir string
}

func (e *PathOutsideRepoError) Error() string {
	return fmt.Sprintf("path %s is outside the repository working directory %s", e.Path, e.WorkDir)
}

// Is returns true if the target error is ErrPathOutsideRepo or ErrValidation
func (e *PathOutsideRepoError) Is(target error) bool {
	return target == ErrPathOutsideRepo || target == ErrValidation
}

// NewPathOutsideRepoError creates a new PathOutsideRepoError
func NewPathOutsideRepoError(path, workDir string) *PathOutsideRepoError {
	return &PathOutsideRepoError{Path: path, WorkDir: workDir}
}

// NotFoundError represents a missing remote object, tagged with the protocol
// stage that observed it ("read ref", "read commit").
type NotFoundError struct {
	Stage  string
	Target string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s not found", e.Stage, e.Target)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(stage, target string, err error) *NotFoundError {
	return &NotFoundError{Stage: stage, Target: target, Err: err}
}

// FileReadError represents a local file that could not be read. The whole
// batch aborts before any remote mutation when this is returned.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrFileRead
func (e *FileReadError) Is(target error) bool {
	return target == ErrFileRead
}

// NewFileReadError creates a new FileReadError
func NewFileReadError(path string, err error) *FileReadError {
	return &FileReadError{Path: path, Err: err}
}

// RemoteError represents a failed read of a remote object that was neither
// a 404 nor a transport fault. Nothing has been written, so the operation is
// safe to re-run.
type RemoteError struct {
	Stage      string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Stage)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Body != "" {
		msg += fmt.Sprintf(": %s", e.Body)
	}
	return msg
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrRemote
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// NewRemoteError creates a new RemoteError
func NewRemoteError(stage string, statusCode int, body string, err error) *RemoteError {
	return &RemoteError{Stage: stage, StatusCode: statusCode, Body: body, Err: err}
}

// ObjectCreationError represents a rejected tree, commit or ref POST. No
// reference has moved, so the whole operation is safe to re-run.
type ObjectCreationError struct {
	Stage      string
	StatusCode int
	Body       string
	Err        error
}

func (e *ObjectCreationError) Error() string {
	msg := fmt.Sprintf("%s rejected", e.Stage)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Body != "" {
		msg += fmt.Sprintf(": %s", e.Body)
	}
	return msg
}

func (e *ObjectCreationError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrObjectCreation
func (e *ObjectCreationError) Is(target error) bool {
	return target == ErrObjectCreation
}

// NewObjectCreationError creates a new ObjectCreationError
func NewObjectCreationError(stage string, statusCode int, body string, err error) *ObjectCreationError {
	return &ObjectCreationError{Stage: stage, StatusCode: statusCode, Body: body, Err: err}
}

// RefUpdateError represents a rejected reference update. The tree and commit
// objects named by TreeSHA and CommitSHA were already created and are now
// orphaned until a later successful update or garbage collection.
type RefUpdateError struct {
	Branch     string
	StatusCode int
	Body       string
	RequestID  string
	TreeSHA    string
	CommitSHA  string
	Err        error
}

func (e *RefUpdateError) Error() string {
	msg := fmt.Sprintf("updating ref %s rejected", e.Branch)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Body != "" {
		msg += fmt.Sprintf(": %s", e.Body)
	}
	msg += fmt.Sprintf("\norphaned objects: tree %s, commit %s", e.TreeSHA, e.CommitSHA)
	if e.RequestID != "" {
		msg += fmt.Sprintf("\nrequest id: %s", e.RequestID)
	}
	return msg
}

func (e *RefUpdateError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrRefUpdate
func (e *RefUpdateError) Is(target error) bool {
	return target == ErrRefUpdate
}

// TransportError represents a request that never completed, so nothing is
// known about server-side effects. When it occurs on the final reference
// update, TreeSHA and CommitSHA name the possibly-orphaned objects.
type TransportError struct {
	Stage     string
	TreeSHA   string
	CommitSHA string
	Err       error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("%s: request did not complete: %v", e.Stage, e.Err)
	if e.TreeSHA != "" || e.CommitSHA != "" {
		msg += fmt.Sprintf("\npossibly orphaned objects: tree %s, commit %s", e.TreeSHA, e.CommitSHA)
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is returns true if the target error is ErrTransport
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Normalize guarantees a non-empty error message, substituting fallback text
// when the underlying cause has none.
func Normalize(err error, fallback string) error {
	if err == nil {
		return nil
	}
	if err.Error() == "" {
		return errors.New(fallback)
	}
	return err
}
