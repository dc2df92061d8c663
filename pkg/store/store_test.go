package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Merci306/minimalloc-merci/pkg/model"
	"github.com/Merci306/minimalloc-merci/pkg/sweep"
)

func testProblem(n int) model.Problem {
	buffers := make([]model.Buffer, n)
	for i := range buffers {
		buffers[i] = model.Buffer{
			ID:       string(rune('a' + i)),
			Lifespan: model.Lifespan{Lower: 0, Upper: 4},
			Size:     2,
		}
	}
	return model.Problem{Buffers: buffers, Capacity: 16}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	defer st.Close(ctx)

	problem := testProblem(2)
	result := sweep.Sweep(&problem)
	run := NewRun(problem, result, result.CalculateCuts())

	if run.ID == "" {
		t.Fatal("NewRun returned empty ID")
	}

	if _, err := st.Get(ctx, run.ID); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("Get before Put: err = %v, want ErrRunNotFound", err)
	}

	if err := st.Put(ctx, run); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := st.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != run.ID {
		t.Errorf("Get ID = %q, want %q", got.ID, run.ID)
	}
	if len(got.Problem.Buffers) != 2 {
		t.Errorf("Get buffers = %d, want 2", len(got.Problem.Buffers))
	}
	if !got.Result.Equal(result) {
		t.Error("Get returned a different result")
	}

	// Returned runs are copies.
	got.Problem.Capacity = 999
	again, err := st.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.Problem.Capacity != 16 {
		t.Error("mutation of a retrieved run leaked into the store")
	}

	if err := st.Delete(ctx, run.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := st.Delete(ctx, run.ID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Delete after Delete: err = %v, want ErrRunNotFound", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	defer st.Close(ctx)

	problem := testProblem(1)
	result := sweep.Sweep(&problem)

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		run := NewRun(problem, result, result.CalculateCuts())
		run.ID = string(rune('x' + i))
		run.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := st.Put(ctx, run); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	summaries, err := st.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("List returned %d runs, want 3", len(summaries))
	}
	if summaries[0].ID != "z" || summaries[2].ID != "x" {
		t.Errorf("List order = [%s %s %s], want newest first", summaries[0].ID, summaries[1].ID, summaries[2].ID)
	}
	if summaries[0].NumBuffers != 1 {
		t.Errorf("NumBuffers = %d, want 1", summaries[0].NumBuffers)
	}

	limited, err := st.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("List with limit 2 returned %d runs", len(limited))
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	if err := st.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	problem := testProblem(1)
	result := sweep.Sweep(&problem)
	run := NewRun(problem, result, nil)

	if err := st.Put(ctx, run); !errors.Is(err, ErrClosed) {
		t.Errorf("Put after Close: err = %v, want ErrClosed", err)
	}
	if _, err := st.Get(ctx, run.ID); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close: err = %v, want ErrClosed", err)
	}
	if _, err := st.List(ctx, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("List after Close: err = %v, want ErrClosed", err)
	}
}
