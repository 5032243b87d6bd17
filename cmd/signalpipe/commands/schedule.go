package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwlim/signalpipe/internal/history"
	"github.com/jwlim/signalpipe/internal/pipeline"
	"github.com/jwlim/signalpipe/internal/scheduler"
	"github.com/jwlim/signalpipe/pkg/config"
	"github.com/jwlim/signalpipe/pkg/database"
	"github.com/jwlim/signalpipe/pkg/logger"
)

// scheduleCmd re-runs the pipeline on a cron schedule.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the signal pipeline on a cron schedule",
	Long: `Starts a scheduler that re-runs the pipeline on the given cron
expression, rewriting the report file after every run and recording each
outcome in run history.

Example:
  signalpipe schedule --cron "@hourly" --input data.csv --config config.yaml --output metrics.json --log-file run.log
  signalpipe schedule --cron "0 18 * * *" --input data.csv --config config.yaml --output metrics.json --log-file run.log`,
	RunE: runSchedule,
}

var (
	scheduleCron    string
	scheduleInput   string
	scheduleConfig  string
	scheduleOutput  string
	scheduleLogFile string
)

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "@hourly", "cron schedule expression")
	scheduleCmd.Flags().StringVar(&scheduleInput, "input", "", "input CSV file path")
	scheduleCmd.Flags().StringVar(&scheduleConfig, "config", "", "run configuration file path")
	scheduleCmd.Flags().StringVar(&scheduleOutput, "output", "", "output metrics JSON file path")
	scheduleCmd.Flags().StringVar(&scheduleLogFile, "log-file", "", "log file path")

	scheduleCmd.MarkFlagRequired("input")
	scheduleCmd.MarkFlagRequired("config")
	scheduleCmd.MarkFlagRequired("output")
	scheduleCmd.MarkFlagRequired("log-file")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := os.OpenFile(scheduleLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	log := logger.NewWithSink(cfg, logFile)

	store := history.NewStore(cfg.History.Size)
	var repo *history.Repository
	if cfg.PersistHistory() {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo = history.NewRepository(db.Pool)
		if err := repo.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
	}
	recorder := history.NewRecorder(store, repo, log)

	pipe := pipeline.New(log)
	job := scheduler.NewPipelineJob(
		pipe,
		pipeline.RunRequest{InputPath: scheduleInput, ConfigPath: scheduleConfig},
		scheduleOutput,
		scheduleCron,
		func(startedAt time.Time, report *pipeline.Report) {
			if _, err := recorder.Record(context.Background(), startedAt, report); err != nil {
				log.WithError(err).Error("Failed to record run")
			}
		},
	)

	sched := scheduler.New(log)
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add job: %w", err)
	}
	sched.Start()

	fmt.Printf("Scheduler running (%s). Press Ctrl+C to stop.\n", scheduleCron)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
