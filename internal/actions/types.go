package actions

import "time"

// CommitResult describes a commit that was created and that the branch ref
// now points at.
type CommitResult struct {
	SHA     string
	Message string
	Author  string
	Date    time.Time
	// Files lists the repository-relative paths the commit touched: written
	// paths for a commit operation, removed paths for a delete operation.
	Files   []string
	TreeSHA string
}

// Protocol stage names used in error messages and logs
const (
	stageReadRef      = "read ref"
	stageReadCommit   = "read commit"
	stageReadFiles    = "read files"
	stageCreateTree   = "create tree"
	stageCreateCommit = "create commit"
	stageCreateRef    = "create ref"
	stageUpdateRef    = "update ref"
)

// fileMode100644 is the git mode for a regular non-executable file
const fileMode100644 = "100644"
