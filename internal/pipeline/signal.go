package pipeline

import "fmt"

// ComputeSignals derives the binary signal series from a close-price series.
//
// A single forward pass maintains a fixed-capacity ring buffer of the most
// recent window closes plus their running sum. Each position emits 1 when
// the current close is strictly greater than the rolling mean of the window
// ending at that position, and 0 otherwise. The first window-1 positions
// always emit 0: there is not enough history yet, which is a convention,
// not an error. Ties emit 0.
//
// O(n) time, O(window) space. The mean is derived from the running sum and
// never recomputed by re-summing the buffer.
func ComputeSignals(closes []float64, window int) ([]int, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}

	signals := make([]int, len(closes))
	ring := make([]float64, window)
	var sum float64

	for i, c := range closes {
		slot := i % window
		if i >= window {
			sum -= ring[slot]
		}
		ring[slot] = c
		sum += c

		if i >= window-1 && c > sum/float64(window) {
			signals[i] = 1
		}
	}
	return signals, nil
}
