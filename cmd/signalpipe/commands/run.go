package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jwlim/signalpipe/internal/pipeline"
	"github.com/jwlim/signalpipe/pkg/config"
	"github.com/jwlim/signalpipe/pkg/logger"
)

// runCmd executes the pipeline once.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the signal pipeline once",
	Long: `Validates the configuration and dataset, computes the rolling-mean
signal series, and writes the metrics report.

On any failure the report is an error record and the process exits
non-zero. Exactly one report is written per run.

Example:
  signalpipe run --input data.csv --config config.yaml --output metrics.json --log-file run.log`,
	RunE: runPipeline,
}

var (
	runInput   string
	runConfig  string
	runOutput  string
	runLogFile string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runInput, "input", "", "input CSV file path")
	runCmd.Flags().StringVar(&runConfig, "config", "", "run configuration file path")
	runCmd.Flags().StringVar(&runOutput, "output", "", "output metrics JSON file path")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "log file path")

	runCmd.MarkFlagRequired("input")
	runCmd.MarkFlagRequired("config")
	runCmd.MarkFlagRequired("output")
	runCmd.MarkFlagRequired("log-file")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := os.OpenFile(runLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	log := logger.NewWithSink(cfg, logFile)
	pipe := pipeline.New(log)

	report, runErr := pipe.Run(cmd.Context(), pipeline.RunRequest{
		InputPath:  runInput,
		ConfigPath: runConfig,
	})

	if err := pipeline.WriteReportFile(runOutput, report); err != nil {
		return err
	}
	if err := pipeline.WriteReport(os.Stdout, report); err != nil {
		return err
	}
	return runErr
}
