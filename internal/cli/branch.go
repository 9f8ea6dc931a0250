package cli

import (
	"github.com/spf13/cobra"

	"shipit.dev/shipit/internal/actions"
	"shipit.dev/shipit/internal/runtime"
)

// newBranchCmd creates the branch command
func newBranchCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "branch <name>",
		Short: "Create a branch at the tip of another branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}

			_, err = actions.CreateBranch(cmd.Context(), rt, args[0], from)
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source branch (defaults to the configured branch).")

	return cmd
}
