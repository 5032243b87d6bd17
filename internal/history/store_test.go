package history

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwlim/signalpipe/internal/pipeline"
)

func successReport(value float64) *pipeline.Report {
	return &pipeline.Report{Success: &pipeline.SuccessReport{
		Version:       "v1",
		RowsProcessed: 10,
		Metric:        pipeline.MetricName,
		Value:         value,
		Seed:          42,
		Status:        pipeline.StatusSuccess,
	}}
}

func TestStoreAddAndLatest(t *testing.T) {
	store := NewStore(10)

	_, ok := store.Latest()
	assert.False(t, ok)

	rec, err := store.Add(time.Now(), successReport(0.5))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, pipeline.StatusSuccess, rec.Status)

	latest, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, rec.ID, latest.ID)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(latest.Report, &payload))
	assert.Equal(t, 0.5, payload["value"])
}

func TestStoreErrorReportStatus(t *testing.T) {
	store := NewStore(10)

	report := &pipeline.Report{Error: &pipeline.ErrorReport{
		Status:       pipeline.StatusError,
		ErrorMessage: "empty input file",
	}}
	rec, err := store.Add(time.Now(), report)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusError, rec.Status)
}

func TestStoreCapsSize(t *testing.T) {
	store := NewStore(3)

	for i := 0; i < 5; i++ {
		_, err := store.Add(time.Now(), successReport(float64(i)))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, store.Len())

	latest, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, int64(5), latest.ID, "IDs keep increasing past the cap")
}

func TestStoreListOrder(t *testing.T) {
	store := NewStore(10)
	for i := 0; i < 4; i++ {
		_, err := store.Add(time.Now(), successReport(float64(i)))
		require.NoError(t, err)
	}

	recs := store.List(2)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(4), recs[0].ID, "most recent first")
	assert.Equal(t, int64(3), recs[1].ID)

	// Asking for more than retained returns everything.
	assert.Len(t, store.List(100), 4)
}
