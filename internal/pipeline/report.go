package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Report status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SuccessReport is the metrics record emitted by a completed run.
type SuccessReport struct {
	Version       string  `json:"version"`
	RowsProcessed int     `json:"rows_processed"`
	Metric        string  `json:"metric"`
	Value         float64 `json:"value"`
	Seed          int64   `json:"seed"`
	Status        string  `json:"status"`
	LatencyMS     int64   `json:"latency_ms"`
}

// ErrorReport is the record emitted when any stage of a run fails. Version
// is best-effort and omitted when the configuration never yielded one.
type ErrorReport struct {
	Version      string `json:"version,omitempty"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// Report is the single outcome of a run: exactly one of Success or Error
// is set.
type Report struct {
	Success *SuccessReport
	Error   *ErrorReport
}

// Payload returns the JSON-serializable record for this report.
func (r *Report) Payload() interface{} {
	if r.Success != nil {
		return r.Success
	}
	return r.Error
}

// Status returns the report status string.
func (r *Report) Status() string {
	if r.Success != nil {
		return StatusSuccess
	}
	return StatusError
}

// WriteReport encodes the report payload as indented JSON.
func WriteReport(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report.Payload()); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteReportFile writes the report to path, replacing any previous file.
func WriteReportFile(path string, report *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := WriteReport(f, report); err != nil {
		return err
	}
	return f.Close()
}
