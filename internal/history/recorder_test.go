package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwlim/signalpipe/pkg/logger"
)

func TestRecorderRecordsAndNotifies(t *testing.T) {
	store := NewStore(10)
	recorder := NewRecorder(store, nil, logger.Nop())

	var seen []Record
	recorder.AddListener(func(rec Record) {
		seen = append(seen, rec)
	})

	rec, err := recorder.Record(context.Background(), time.Now(), successReport(0.25))
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	require.Len(t, seen, 1)
	assert.Equal(t, rec.ID, seen[0].ID)
}
