package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Merci306/minimalloc-merci/pkg/errors"
	"github.com/Merci306/minimalloc-merci/pkg/model"
	"github.com/Merci306/minimalloc-merci/pkg/sweep"
)

func TestReadProblemJSON(t *testing.T) {
	input := `{
	  "capacity": 16,
	  "buffers": [
	    {"id": "a", "lifespan": {"lower": 0, "upper": 10}, "size": 4},
	    {"id": "b", "lifespan": {"lower": 3, "upper": 7}, "size": 8,
	     "gaps": [{"lifespan": {"lower": 4, "upper": 6},
	               "window": {"lower": 0, "upper": 2}}]}
	  ]
	}`

	problem, err := ReadProblem(strings.NewReader(input), FormatJSON)
	if err != nil {
		t.Fatalf("ReadProblem: %v", err)
	}
	if problem.Capacity != 16 {
		t.Errorf("capacity = %d, want 16", problem.Capacity)
	}
	if len(problem.Buffers) != 2 {
		t.Fatalf("buffers = %d, want 2", len(problem.Buffers))
	}
	b := problem.Buffers[1]
	if b.ID != "b" || len(b.Gaps) != 1 || b.Gaps[0].Window == nil {
		t.Errorf("buffer b parsed wrong: %+v", b)
	}
	if w := *b.Gaps[0].Window; w != (model.Window{Lower: 0, Upper: 2}) {
		t.Errorf("window = %+v, want [0, 2)", w)
	}
}

func TestReadProblemCSV(t *testing.T) {
	input := "id,lower,upper,size,alignment,gaps\n" +
		"a,0,10,4,,\n" +
		"b,3,12,8,64,4-6@0:2 8-9\n"

	problem, err := ReadProblem(strings.NewReader(input), FormatCSV)
	if err != nil {
		t.Fatalf("ReadProblem: %v", err)
	}
	if len(problem.Buffers) != 2 {
		t.Fatalf("buffers = %d, want 2", len(problem.Buffers))
	}

	a := problem.Buffers[0]
	if a.ID != "a" || a.Lifespan != (model.Lifespan{Lower: 0, Upper: 10}) || a.Size != 4 {
		t.Errorf("buffer a parsed wrong: %+v", a)
	}

	b := problem.Buffers[1]
	if b.Alignment != 64 || len(b.Gaps) != 2 {
		t.Fatalf("buffer b parsed wrong: %+v", b)
	}
	if b.Gaps[0].Window == nil || b.Gaps[0].Window.Upper != 2 {
		t.Errorf("gap 0 window = %+v, want [0, 2)", b.Gaps[0].Window)
	}
	if b.Gaps[1].Window != nil {
		t.Errorf("gap 1 window = %+v, want nil", b.Gaps[1].Window)
	}
	if b.Gaps[1].Lifespan != (model.Lifespan{Lower: 8, Upper: 9}) {
		t.Errorf("gap 1 lifespan = %+v, want [8, 9)", b.Gaps[1].Lifespan)
	}
}

func TestReadProblemErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		format   Format
		wantCode errors.Code
	}{
		{
			name:     "MalformedJSON",
			input:    `{"buffers": [}`,
			format:   FormatJSON,
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "UnknownJSONField",
			input:    `{"buffers": [], "color": "red"}`,
			format:   FormatJSON,
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "MissingCSVColumn",
			input:    "id,lower,upper\na,0,10\n",
			format:   FormatCSV,
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "BadCSVNumber",
			input:    "id,lower,upper,size\na,zero,10,4\n",
			format:   FormatCSV,
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "BadGapEntry",
			input:    "id,lower,upper,size,gaps\na,0,10,4,nope\n",
			format:   FormatCSV,
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "InvalidProblem",
			input:    `{"buffers": [{"id": "a", "lifespan": {"lower": 10, "upper": 0}, "size": 4}]}`,
			format:   FormatJSON,
			wantCode: errors.ErrCodeInvalidBuffer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadProblem(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error code = %s, want %s (err: %v)", errors.GetCode(err), tt.wantCode, err)
			}
		})
	}
}

func TestProblemRoundTrip(t *testing.T) {
	problem := &model.Problem{
		Capacity: 32,
		Buffers: []model.Buffer{
			{ID: "a", Lifespan: model.Lifespan{Lower: 0, Upper: 10}, Size: 4},
			{ID: "b", Lifespan: model.Lifespan{Lower: 3, Upper: 12}, Size: 8, Alignment: 64, Gaps: []model.Gap{
				{Lifespan: model.Lifespan{Lower: 4, Upper: 6}, Window: &model.Window{Lower: 0, Upper: 2}},
				{Lifespan: model.Lifespan{Lower: 8, Upper: 9}},
			}},
		},
	}

	var buf bytes.Buffer
	if err := WriteProblem(&buf, problem); err != nil {
		t.Fatalf("WriteProblem: %v", err)
	}
	got, err := ReadProblem(&buf, FormatJSON)
	if err != nil {
		t.Fatalf("ReadProblem: %v", err)
	}
	if got.Capacity != problem.Capacity || len(got.Buffers) != len(problem.Buffers) {
		t.Fatalf("round trip lost data: %+v", got)
	}
	if got.Buffers[1].Gaps[0].Window == nil || *got.Buffers[1].Gaps[0].Window != *problem.Buffers[1].Gaps[0].Window {
		t.Errorf("round trip lost gap window: %+v", got.Buffers[1].Gaps)
	}
}

func TestImportProblem(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "problem.csv")
	if err := writeFile(path, "id,lower,upper,size\na,0,10,4\nb,10,20,4\n"); err != nil {
		t.Fatal(err)
	}
	problem, err := ImportProblem(path)
	if err != nil {
		t.Fatalf("ImportProblem: %v", err)
	}
	if len(problem.Buffers) != 2 {
		t.Errorf("buffers = %d, want 2", len(problem.Buffers))
	}

	if _, err := ImportProblem(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := ImportProblem(filepath.Join(dir, "problem.txt")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown extension error = %v, want INVALID_FORMAT", err)
	}
}

func TestWriteResult(t *testing.T) {
	problem := &model.Problem{Buffers: []model.Buffer{
		{ID: "a", Lifespan: model.Lifespan{Lower: 0, Upper: 10}, Size: 4},
		{ID: "b", Lifespan: model.Lifespan{Lower: 5, Upper: 15}, Size: 4},
	}}
	result := sweep.Sweep(problem)
	cuts := result.CalculateCuts()

	var buf bytes.Buffer
	if err := WriteResult(&buf, problem, result, cuts); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	buffers, ok := doc["buffers"].([]any)
	if !ok || len(buffers) != 2 {
		t.Fatalf("buffers = %v, want 2 entries", doc["buffers"])
	}
	first, ok := buffers[0].(map[string]any)
	if !ok || first["id"] != "a" {
		t.Errorf("first buffer = %v, want id a", buffers[0])
	}
	if _, ok := doc["cuts"]; !ok {
		t.Error("output missing cuts")
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
