package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/tmuxedo/internal/model"
)

var removeCmd = &cobra.Command{
	Use:   "remove <owner/repo>",
	Short: "Remove an installed plugin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		a, err := setup(cmd.Context(), "remove")
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		inv, err := a.inventory()
		if err != nil {
			return err
		}
		if err := inv.Remove(cmd.Context(), model.TabAll, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
