// Package store provides persistent archiving of completed sweep runs.
//
// A Run couples the input problem with the computed layout analysis so it
// can be retrieved later by ID or listed in reverse chronological order.
// Two backends are provided:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for production deployments
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemoryStore()
//
//	// Production
//	st, err := store.NewMongoStore(ctx, store.MongoConfig{
//	    URI: "mongodb://localhost:27017",
//	})
//
// Archive and retrieve runs:
//
//	run := store.NewRun(problem, result, cuts)
//	if err := st.Put(ctx, run); err != nil {
//	    return err
//	}
//
//	run, err := st.Get(ctx, runID)
//	if errors.Is(err, store.ErrRunNotFound) {
//	    // Unknown ID
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Merci306/minimalloc-merci/pkg/model"
	"github.com/Merci306/minimalloc-merci/pkg/sweep"
)

// Sentinel errors for store operations.
var (
	// ErrRunNotFound is returned when no run exists for the given ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("store is closed")
)

// Run is an archived sweep computation.
type Run struct {
	ID        string            `json:"id" bson:"_id"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	Problem   model.Problem     `json:"problem" bson:"problem"`
	Result    sweep.SweepResult `json:"result" bson:"result"`
	Cuts      []sweep.CutCount  `json:"cuts" bson:"cuts"`
}

// RunSummary describes an archived run without its payload.
type RunSummary struct {
	ID          string    `json:"id" bson:"_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	NumBuffers  int       `json:"num_buffers" bson:"num_buffers"`
	NumSections int       `json:"num_sections" bson:"num_sections"`
}

// Summary returns the listing view of the run.
func (r *Run) Summary() RunSummary {
	return RunSummary{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		NumBuffers:  len(r.Problem.Buffers),
		NumSections: len(r.Result.Sections),
	}
}

// NewRun creates a run with a fresh ID and timestamp.
func NewRun(problem model.Problem, result sweep.SweepResult, cuts []sweep.CutCount) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Problem:   problem,
		Result:    result,
		Cuts:      cuts,
	}
}

// Store is the interface for run archive backends.
type Store interface {
	// Put archives a run.
	Put(ctx context.Context, run *Run) error

	// Get retrieves a run by ID.
	// Returns ErrRunNotFound when no run exists for the ID.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns summaries of archived runs, newest first,
	// up to the given limit. A limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]RunSummary, error)

	// Delete removes a run.
	// Returns ErrRunNotFound when no run exists for the ID.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
