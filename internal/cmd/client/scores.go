package client

import "github.com/spf13/cobra"

// NewScoresCommand constructs the `scores` command group.
func NewScoresCommand() *cobra.Command {
	scoresCmd := &cobra.Command{Use: "scores", Short: "Best-score reports"}
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Best score of every player in a snapshot namespace",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ns, _ := cmd.Flags().GetString("namespace")
			out, err := getTransport().Report(cmd.Context(), ns)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	reportCmd.Flags().StringP("namespace", "n", "", "Snapshot namespace (server default when empty)")
	scoresCmd.AddCommand(reportCmd)
	return scoresCmd
}
