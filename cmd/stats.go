// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregates GitHub account stats and outputs as JSON",
	Long: `Fetches the profile and the most recently updated repositories of an account
and prints total repositories, stars, forks, followers and following as JSON.
Stars and forks are summed over a single page of at most 100 repositories.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		rt, err := setup(cmd)
		if err != nil {
			exitOnError(nil, "Error", err)
			return
		}
		defer rt.logger.Sync()

		insights, _ := cmd.Flags().GetBool("insights")

		var result interface{}
		if insights {
			result, err = rt.aggregator.Report(ctx, rt.handle)
		} else {
			result, err = rt.aggregator.Summarize(ctx, rt.handle)
		}
		if err != nil {
			// No fallback figures here: the site decides what to show on failure.
			exitOnError(rt.logger, "Failed to aggregate stats", err)
			return
		}

		exitOnError(rt.logger, "Error", writeJSON(os.Stdout, result))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().Bool("insights", false, "Include the star distribution of the fetched repositories")
}
