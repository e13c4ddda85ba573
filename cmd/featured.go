package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/portfolio-stats/internal/usecase"
)

var featuredCmd = &cobra.Command{
	Use:   "featured",
	Short: "Lists the account's featured repositories as JSON",
	Long: `Prints the top non-fork repositories ordered by stars and most recent update.
With --projects each repository is mapped to the project card shown on the site.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		rt, err := setup(cmd)
		if err != nil {
			exitOnError(nil, "Error", err)
			return
		}
		defer rt.logger.Sync()

		limit, _ := cmd.Flags().GetInt("limit")
		if limit <= 0 {
			limit = rt.cfg.FeaturedLimit
		}
		asProjects, _ := cmd.Flags().GetBool("projects")

		repos, err := rt.aggregator.Featured(ctx, rt.handle, limit)
		if err != nil {
			exitOnError(rt.logger, "Failed to select featured repositories", err)
			return
		}

		var result interface{} = repos
		if asProjects {
			mapper := usecase.NewProjectMapper(rt.cfg.LanguageImages, rt.cfg.DefaultImage)
			result = mapper.MapAll(repos)
		}

		exitOnError(rt.logger, "Error", writeJSON(os.Stdout, result))
	},
}

func init() {
	rootCmd.AddCommand(featuredCmd)
	featuredCmd.Flags().IntP("limit", "n", 0, "Number of repositories to feature (default from config, 6)")
	featuredCmd.Flags().Bool("projects", false, "Output project cards instead of raw repositories")
}
