package scheduler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwlim/signalpipe/internal/pipeline"
	"github.com/jwlim/signalpipe/pkg/logger"
)

func TestPipelineJobRun(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	dataPath := filepath.Join(dir, "data.csv")
	outputPath := filepath.Join(dir, "metrics.json")
	require.NoError(t, os.WriteFile(configPath, []byte("seed: 42\nwindow: 3\nversion: \"v1\"\n"), 0o644))
	require.NoError(t, os.WriteFile(dataPath, []byte("close\n1\n2\n3\n"), 0o644))

	var completed int
	job := NewPipelineJob(
		pipeline.New(logger.Nop()),
		pipeline.RunRequest{InputPath: dataPath, ConfigPath: configPath},
		outputPath,
		"@hourly",
		func(startedAt time.Time, report *pipeline.Report) {
			completed++
			assert.Equal(t, pipeline.StatusSuccess, report.Status())
		},
	)

	assert.Equal(t, "signal_pipeline", job.Name())
	assert.Equal(t, "@hourly", job.Schedule())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, completed)

	raw, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "success", payload["status"])
}

func TestPipelineJobRunFailureStillWritesReport(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	outputPath := filepath.Join(dir, "metrics.json")
	require.NoError(t, os.WriteFile(configPath, []byte("seed: 42\nwindow: 3\nversion: \"v1\"\n"), 0o644))

	job := NewPipelineJob(
		pipeline.New(logger.Nop()),
		pipeline.RunRequest{
			InputPath:  filepath.Join(dir, "missing.csv"),
			ConfigPath: configPath,
		},
		outputPath,
		"@hourly",
		nil,
	)

	err := job.Run(context.Background())
	require.Error(t, err)

	raw, readErr := os.ReadFile(outputPath)
	require.NoError(t, readErr)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "error", payload["status"])
	assert.Equal(t, "v1", payload["version"])
}
