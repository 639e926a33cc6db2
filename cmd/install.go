package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/tmuxedo/internal/model"
)

var (
	flagPath   string
	flagBranch string
)

var installCmd = &cobra.Command{
	Use:   "install --path owner/repo [--branch name]",
	Short: "Install a plugin and record it in plugins.conf",
	Long: `Clone a plugin, add it to plugins.conf and run activation.

The category is taken from the catalog. Plugins the catalog does not know
are installed as plugins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := model.ValidateID(flagPath); err != nil {
			return err
		}

		a, err := setup(cmd.Context(), "install")
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		inv, err := a.inventory()
		if err != nil {
			return err
		}
		if err := inv.InstallRef(cmd.Context(), flagPath, flagBranch); err != nil {
			return err
		}

		c, _ := inv.Owner(flagPath)
		fmt.Fprintf(cmd.OutOrStdout(), "installed %s (%s)\n", flagPath, c)
		return nil
	},
}

func init() {
	installCmd.Flags().StringVar(&flagPath, "path", "", "plugin identifier, e.g. tmux-plugins/tmux-sensible")
	installCmd.Flags().StringVar(&flagBranch, "branch", "", "branch to clone (default: the remote's default branch)")
	_ = installCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(installCmd)
}
