// Package cli wires the caller-facing commands. Each command is a thin
// wrapper: resolve the runtime context, run the action, print the outcome.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shipit",
		Short: "Shipit commits files to a GitHub repository without a local git client",
		Long: `Shipit commits files to a GitHub repository using only the REST
git-database primitives (refs, commits, trees, blobs). It is built to run
unattended inside CI on behalf of an automated author: every mutation is a
single atomic commit, branch updates are fast-forward only, and failures are
reported with full diagnostics instead of being retried silently.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newCommitCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newBranchCmd())

	return rootCmd
}
