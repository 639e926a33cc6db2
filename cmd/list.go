package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/timvw/tmuxedo/internal/model"
)

var (
	flagCategory  string
	flagInstalled bool
	flagAvailable bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed and available plugins",
	Long: `List plugins per category.

Each line is "<state> <category> <identifier>". Use --installed or
--available to print bare identifiers of one state only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cats := model.Categories
		if flagCategory != "" {
			c, err := model.ParseCategory(flagCategory)
			if err != nil {
				return err
			}
			cats = []model.Category{c}
		}

		a, err := setup(cmd.Context(), "list")
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		inv, err := a.inventory()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, c := range cats {
			tab := model.TabFor(c)
			if !flagAvailable {
				printList(out, "installed", c, inv.InstalledView(tab, ""))
			}
			if !flagInstalled {
				printList(out, "available", c, inv.AvailableView(tab, ""))
			}
		}
		return nil
	},
}

func printList(w io.Writer, state string, c model.Category, ids []string) {
	for _, id := range ids {
		if flagInstalled || flagAvailable {
			fmt.Fprintln(w, id)
			continue
		}
		fmt.Fprintf(w, "%-9s  %-11s  %s\n", state, c, id)
	}
}

func init() {
	listCmd.Flags().StringVar(&flagCategory, "category", "", "only this category: themes, status_bars, plugins")
	listCmd.Flags().BoolVar(&flagInstalled, "installed", false, "only installed plugins")
	listCmd.Flags().BoolVar(&flagAvailable, "available", false, "only available plugins")
	listCmd.MarkFlagsMutuallyExclusive("installed", "available")
	rootCmd.AddCommand(listCmd)
}
