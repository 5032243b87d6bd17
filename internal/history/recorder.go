package history

import (
	"context"
	"sync"
	"time"

	"github.com/jwlim/signalpipe/internal/pipeline"
	"github.com/jwlim/signalpipe/pkg/logger"
)

// Recorder fans a completed run out to the in-memory store, the optional
// Postgres repository, and any registered listeners. Persistence failures
// are logged, never propagated: the run itself already succeeded or failed
// on its own terms.
type Recorder struct {
	store *Store
	repo  *Repository
	log   *logger.Logger

	mu        sync.RWMutex
	listeners []func(Record)
}

// NewRecorder creates a recorder. repo may be nil when no database is
// configured.
func NewRecorder(store *Store, repo *Repository, log *logger.Logger) *Recorder {
	return &Recorder{store: store, repo: repo, log: log}
}

// AddListener registers a callback invoked for every recorded run.
func (r *Recorder) AddListener(fn func(Record)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Record stores a completed run and notifies listeners.
func (r *Recorder) Record(ctx context.Context, startedAt time.Time, report *pipeline.Report) (Record, error) {
	rec, err := r.store.Add(startedAt, report)
	if err != nil {
		return Record{}, err
	}

	if r.repo != nil {
		if err := r.repo.Save(ctx, rec); err != nil {
			r.log.WithError(err).Error("Failed to persist run record")
		}
	}

	r.mu.RLock()
	listeners := r.listeners
	r.mu.RUnlock()
	for _, fn := range listeners {
		fn(rec)
	}
	return rec, nil
}

// Store returns the in-memory store backing this recorder.
func (r *Recorder) Store() *Store {
	return r.store
}
