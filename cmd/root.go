// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "review-balancer",
	Short: "Assigns the least-loaded team member as a pull request reviewer.",
	Long: `review-balancer scores every member of a team roster by their current
review workload (open reviews, lines under review, recently completed
reviews) and assigns the least busy member as the reviewer of a target
pull request. It is designed to run as a GitHub Actions step.`,
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
}
