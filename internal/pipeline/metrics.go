package pipeline

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricName is the single metric this pipeline produces.
const MetricName = "signal_rate"

// SignalRate returns the proportion of 1-signals across rows, rounded to
// four decimal places. Rounding is half-away-from-zero, done in decimal
// arithmetic so the tie direction does not depend on float representation.
// A non-positive row count yields 0; the dataset loader guarantees at
// least one row before this is ever reached.
func SignalRate(signals []int, rows int) float64 {
	if rows <= 0 {
		return 0
	}

	var sum int64
	for _, s := range signals {
		sum += int64(s)
	}

	rate := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(rows)))
	value, _ := rate.Round(4).Float64()
	return value
}

// BuildSuccessReport assembles the final metrics record for a completed run.
// The seed and version are echoed from the run configuration.
func BuildSuccessReport(cfg *RunConfig, signals []int, rows int, latency time.Duration) *SuccessReport {
	return &SuccessReport{
		Version:       cfg.Version,
		RowsProcessed: rows,
		Metric:        MetricName,
		Value:         SignalRate(signals, rows),
		Seed:          cfg.Seed,
		Status:        StatusSuccess,
		LatencyMS:     latency.Milliseconds(),
	}
}
