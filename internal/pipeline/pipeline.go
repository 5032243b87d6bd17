package pipeline

import (
	"context"
	"math/rand"
	"time"

	"github.com/jwlim/signalpipe/pkg/logger"
)

// Pipeline orchestrates a run: load config, load data, compute signals,
// assemble the report. It is the only place that converts stage failures
// into an ErrorReport; every stage below it fails fast and propagates.
// A single Pipeline is safe for concurrent runs: all per-run state lives
// on the stack of Run.
type Pipeline struct {
	logger *logger.Logger
}

// RunRequest names the two inputs of a run.
type RunRequest struct {
	InputPath  string
	ConfigPath string
}

// New creates a pipeline with an injected logger.
func New(log *logger.Logger) *Pipeline {
	return &Pipeline{logger: log}
}

// Run executes the full pipeline. It always returns a Report; the error is
// non-nil exactly when the report is an ErrorReport, so callers can map the
// outcome to an exit code. No partial metrics are ever emitted.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (*Report, error) {
	start := time.Now()
	p.logger.Info("Job started")

	report, version, err := p.run(ctx, req, start)
	if err != nil {
		p.logger.WithError(err).Error("Job failed")
		return &Report{Error: &ErrorReport{
			Version:      version,
			Status:       StatusError,
			ErrorMessage: err.Error(),
		}}, err
	}

	p.logger.WithField("latency_ms", report.LatencyMS).Info("Job completed successfully")
	return &Report{Success: report}, nil
}

// run is the happy path. On failure it returns the best-effort version for
// the error report along with the stage error.
func (p *Pipeline) run(ctx context.Context, req RunRequest, start time.Time) (*SuccessReport, string, error) {
	cfg, partial, err := LoadRunConfig(req.ConfigPath)
	if err != nil {
		return nil, partial.Version, err
	}

	// The RNG is owned by this run alone; no current stage draws from it.
	_ = rand.New(rand.NewSource(cfg.Seed))

	p.logger.WithFields(map[string]interface{}{
		"seed":    cfg.Seed,
		"window":  cfg.Window,
		"version": cfg.Version,
	}).Info("Config loaded")

	dataset, err := LoadDataset(req.InputPath)
	if err != nil {
		return nil, cfg.Version, err
	}
	rows := len(dataset.Rows)
	p.logger.WithField("rows", rows).Info("Data loaded")

	signals, err := ComputeSignals(dataset.Closes(), cfg.Window)
	if err != nil {
		return nil, cfg.Version, err
	}
	p.logger.WithField("window", cfg.Window).Info("Signals generated")

	report := BuildSuccessReport(cfg, signals, rows, time.Since(start))
	p.logger.WithFields(map[string]interface{}{
		"signal_rate":    report.Value,
		"rows_processed": rows,
	}).Info("Metrics computed")

	return report, cfg.Version, nil
}
