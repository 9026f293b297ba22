// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mkojima-dev/review-balancer/internal/config"
	"github.com/mkojima-dev/review-balancer/internal/gateway"
	"github.com/mkojima-dev/review-balancer/internal/usecase"
	"github.com/spf13/cobra"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Picks the least busy roster member and requests their review",
	Long: `Resolves the run configuration from the GitHub Actions environment,
aggregates the current review workload of every roster member across the
repository's open pull requests, blends it with their recent review
activity, and requests a review from the lowest-scoring member on the
target pull request.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		// Resolve all inputs before touching the network; a bad
		// configuration must fail without any API traffic.
		cfg, err := config.FromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(cfg.Token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		aggregator := usecase.NewAggregator(githubGateway, logger)
		scorer := usecase.NewScorer(githubGateway, logger)
		assigner := usecase.NewAssigner(githubGateway, aggregator, scorer, logger, os.Stdout)

		if err := assigner.Run(ctx, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to assign a reviewer: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(assignCmd)
}
