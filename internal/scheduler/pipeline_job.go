package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jwlim/signalpipe/internal/pipeline"
)

// PipelineJob re-runs the signal pipeline on a fixed input and config. Each
// run rewrites the report file and is pushed to the completion callback,
// which feeds run history. A run that produced an error report counts as a
// failed job execution.
type PipelineJob struct {
	pipe       *pipeline.Pipeline
	req        pipeline.RunRequest
	outputPath string
	schedule   string
	onComplete func(startedAt time.Time, report *pipeline.Report)
}

// NewPipelineJob creates a scheduled pipeline job. onComplete may be nil.
func NewPipelineJob(
	pipe *pipeline.Pipeline,
	req pipeline.RunRequest,
	outputPath string,
	schedule string,
	onComplete func(startedAt time.Time, report *pipeline.Report),
) *PipelineJob {
	return &PipelineJob{
		pipe:       pipe,
		req:        req,
		outputPath: outputPath,
		schedule:   schedule,
		onComplete: onComplete,
	}
}

// Name implements Job.
func (j *PipelineJob) Name() string {
	return "signal_pipeline"
}

// Schedule implements Job.
func (j *PipelineJob) Schedule() string {
	return j.schedule
}

// Run implements Job.
func (j *PipelineJob) Run(ctx context.Context) error {
	startedAt := time.Now()
	report, runErr := j.pipe.Run(ctx, j.req)

	if err := pipeline.WriteReportFile(j.outputPath, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if j.onComplete != nil {
		j.onComplete(startedAt, report)
	}
	return runErr
}
