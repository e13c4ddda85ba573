// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/portfolio-stats/internal/config"
	"github.com/naka-gawa/portfolio-stats/internal/gateway"
	"github.com/naka-gawa/portfolio-stats/internal/logger"
	"github.com/naka-gawa/portfolio-stats/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-stats",
	Short: "Builds the GitHub data behind a portfolio site.",
	Long: `portfolio-stats queries the GitHub API for a single account and prints
JSON for the portfolio site: aggregate activity stats, featured repositories
and project cards.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringP("user", "u", "", "GitHub account handle (overrides config)")
}

// runtime is what every subcommand needs once flags and config are resolved.
type runtime struct {
	cfg        config.Config
	handle     string
	logger     *logger.Logger
	aggregator *usecase.Aggregator
}

// setup loads config, builds the logger and wires the gateway selected by
// cfg.Source into an Aggregator.
func setup(cmd *cobra.Command) (*runtime, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	configPath, _ := cmd.Flags().GetString("config")
	user, _ := cmd.Flags().GetString("user")

	log, err := logger.New(verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	handle := cfg.Handle
	if user != "" {
		handle = user
	}

	fetcher, err := newFetcher(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	return &runtime{
		cfg:        cfg,
		handle:     handle,
		logger:     log,
		aggregator: usecase.NewAggregator(fetcher, log),
	}, nil
}

func newFetcher(cfg config.Config, log *logger.Logger) (gateway.Fetcher, error) {
	opts := gateway.Options{
		PerPage:                cfg.PerPage,
		Token:                  cfg.Token,
		WaitSecondaryRateLimit: cfg.WaitSecondaryRateLimit,
	}
	if cfg.Source == config.SourceGraphQL {
		opts.BaseURL = cfg.GraphQLURL
		g, err := gateway.NewGraphQLGateway(opts, log)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	opts.BaseURL = cfg.APIBaseURL
	g, err := gateway.NewGitHubGateway(opts, log)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// osExit is swapped out in tests.
var osExit = os.Exit

// exitOnError reports err on stderr and exits with status 1. The logger is
// flushed first because os.Exit skips deferred calls. A nil err is a no-op.
func exitOnError(log *logger.Logger, prefix string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", prefix, err)
	if log != nil {
		_ = log.Sync()
	}
	osExit(1)
}

// writeJSON prints v as pretty-printed JSON.
func writeJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
