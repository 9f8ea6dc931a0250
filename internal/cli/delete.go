package cli

import (
	"github.com/spf13/cobra"

	"shipit.dev/shipit/internal/actions"
	"shipit.dev/shipit/internal/runtime"
)

// newDeleteCmd creates the delete command
func newDeleteCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "delete <path>...",
		Short: "Remove paths from the configured branch as one atomic commit",
		Long: `Remove paths from the configured branch as one atomic commit.

Relative paths are repository-relative. An absolute path is accepted only if
it lies inside the current working directory; anything else is rejected
before any remote call is made.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}

			result, err := actions.Delete(cmd.Context(), rt, args, message)
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
