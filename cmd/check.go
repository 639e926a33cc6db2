package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/timvw/tmuxedo/internal/updates"
)

var flagUpdatesOnly bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check installed plugins for updates",
	Long: `Run a dry-run pull for every installed plugin, concurrently, and print
a JSON object mapping each identifier to the newer remote revision.

An empty revision means the plugin is up to date or its check failed;
failures are logged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), "check")
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		ids, err := a.store.Load()
		if err != nil {
			return err
		}
		installed := make([]string, len(ids))
		for i, e := range ids {
			installed[i] = e.ID
		}

		s := updates.NewScanner(a.git)
		s.Metrics = a.metrics
		markers := s.Scan(cmd.Context(), installed)
		if flagUpdatesOnly {
			for id, m := range markers {
				if m == "" {
					delete(markers, id)
				}
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(markers)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&flagUpdatesOnly, "updates-only", false, "only print plugins with an update available")
	rootCmd.AddCommand(checkCmd)
}
