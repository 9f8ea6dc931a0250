package cli

import (
	"github.com/spf13/cobra"

	"shipit.dev/shipit/internal/actions"
	"shipit.dev/shipit/internal/runtime"
)

// newCommitCmd creates the commit command
func newCommitCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit <file>...",
		Short: "Commit local files to the configured branch as one atomic commit",
		Long: `Commit local files to the configured branch as one atomic commit.

Paths are resolved against the repository root; a leading slash is treated as
root-relative. Every file must exist and be readable before any remote write
happens, so a bad path leaves the repository untouched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}

			result, err := actions.Commit(cmd.Context(), rt, args, message)
			if err != nil {
				return err
			}

			rt.Splog.Info("commit %s (tree %s) by %s", result.SHA, result.TreeSHA, result.Author)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message (required).")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}
