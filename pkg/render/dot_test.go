package render

import (
	"strings"
	"testing"

	"github.com/Merci306/minimalloc-merci/pkg/model"
	"github.com/Merci306/minimalloc-merci/pkg/sweep"
)

func overlapPair() (*model.Problem, sweep.SweepResult) {
	problem := &model.Problem{
		Buffers: []model.Buffer{
			{ID: "a", Lifespan: model.Lifespan{Lower: 0, Upper: 4}, Size: 4},
			{ID: "b", Lifespan: model.Lifespan{Lower: 2, Upper: 6}, Size: 8},
		},
		Capacity: 16,
	}
	return problem, sweep.Sweep(problem)
}

func TestToDOT_Basic(t *testing.T) {
	problem, result := overlapPair()

	dot := ToDOT(problem, result, Options{})

	if !strings.Contains(dot, "graph G") {
		t.Error("ToDOT() output missing graph declaration")
	}
	if !strings.Contains(dot, `"a"`) {
		t.Error("ToDOT() output missing node a")
	}
	if !strings.Contains(dot, `"b"`) {
		t.Error("ToDOT() output missing node b")
	}
	if !strings.Contains(dot, `"a" -- "b"`) {
		t.Error("ToDOT() output missing overlap edge")
	}
	if !strings.Contains(dot, "cluster_0") {
		t.Error("ToDOT() output missing partition cluster")
	}
	if strings.Count(dot, `" -- "`) != 1 {
		t.Error("ToDOT() emitted duplicate edges for one pair")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	problem, result := overlapPair()

	dot := ToDOT(problem, result, Options{Detailed: true})

	if !strings.Contains(dot, "size: 4") {
		t.Error("ToDOT() detailed output missing size")
	}
	if !strings.Contains(dot, "live: [2, 6)") {
		t.Error("ToDOT() detailed output missing lifespan")
	}
}

func TestToDOT_NoClusters(t *testing.T) {
	problem, result := overlapPair()

	dot := ToDOT(problem, result, Options{NoClusters: true})

	if strings.Contains(dot, "subgraph") {
		t.Error("ToDOT() emitted clusters with NoClusters set")
	}
	if !strings.Contains(dot, `"a"`) {
		t.Error("ToDOT() output missing node a")
	}
}

func TestToDOT_EdgeLabels(t *testing.T) {
	// b sees a's full size while a sees b narrowed to its gap window,
	// so the label carries both directions.
	problem := &model.Problem{
		Buffers: []model.Buffer{
			{ID: "a", Lifespan: model.Lifespan{Lower: 0, Upper: 4}, Size: 4},
			{ID: "b", Lifespan: model.Lifespan{Lower: 0, Upper: 4}, Size: 8,
				Gaps: []model.Gap{{
					Lifespan: model.Lifespan{Lower: 0, Upper: 4},
					Window:   &model.Window{Lower: 0, Upper: 2},
				}}},
		},
		Capacity: 16,
	}
	result := sweep.Sweep(problem)

	dot := ToDOT(problem, result, Options{})
	if !strings.Contains(dot, "label=\"2/4\"") && !strings.Contains(dot, "label=\"4/2\"") {
		t.Errorf("ToDOT() edge label missing directional sizes:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	b := model.Buffer{ID: "buf", Lifespan: model.Lifespan{Lower: 1, Upper: 5}, Size: 16}

	if got := fmtLabel(b, false); got != "buf" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", got, "buf")
	}
	detailed := fmtLabel(b, true)
	if !strings.Contains(detailed, "size: 16") || !strings.Contains(detailed, "[1, 5)") {
		t.Errorf("fmtLabel() detailed mode = %q", detailed)
	}
}
