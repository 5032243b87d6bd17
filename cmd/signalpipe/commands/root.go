package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "signalpipe",
	Short: "Batch rolling-mean signal pipeline",
	Long: `signalpipe validates a run configuration and a close-price dataset,
computes a streaming rolling-mean binary signal, and writes a JSON metrics
report.

Examples:
  signalpipe run --input data.csv --config config.yaml --output metrics.json --log-file run.log
  signalpipe schedule --cron "@hourly" --input data.csv --config config.yaml --output metrics.json --log-file run.log
  signalpipe serve --port 8080`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
