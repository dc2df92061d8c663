package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Merci306/minimalloc-merci/pkg/errors"
	"github.com/Merci306/minimalloc-merci/pkg/model"
)

// Format identifies a problem file format.
type Format string

// Supported problem file formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// DetectFormat infers the problem format from a file path's extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format from %q (expected .json or .csv)", path)
	}
}

// ReadProblem decodes a problem from r in the given format and validates it.
func ReadProblem(r io.Reader, format Format) (*model.Problem, error) {
	var (
		problem *model.Problem
		err     error
	)
	switch format {
	case FormatJSON:
		problem, err = readJSON(r)
	case FormatCSV:
		problem, err = readCSV(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := problem.Validate(); err != nil {
		return nil, err
	}
	return problem, nil
}

// ImportProblem reads the problem file at path, inferring the format from
// its extension.
func ImportProblem(path string) (*model.Problem, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	problem, err := ReadProblem(f, format)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return problem, nil
}

func readJSON(r io.Reader) (*model.Problem, error) {
	var problem model.Problem
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&problem); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode problem JSON")
	}
	return &problem, nil
}

// csvColumns maps header names to their column index.
type csvColumns map[string]int

func (c csvColumns) get(record []string, name string) (string, bool) {
	idx, ok := c[name]
	if !ok || idx >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[idx]), true
}

func readCSV(r io.Reader) (*model.Problem, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}
	columns := make(csvColumns, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "lower", "upper", "size"} {
		if _, ok := columns[required]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "CSV header missing column %q", required)
		}
	}

	problem := &model.Problem{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV line %d", line)
		}
		buffer, err := parseCSVBuffer(columns, record)
		if err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
		problem.Buffers = append(problem.Buffers, buffer)
	}
	return problem, nil
}

func parseCSVBuffer(columns csvColumns, record []string) (model.Buffer, error) {
	var buffer model.Buffer

	id, _ := columns.get(record, "id")
	buffer.ID = id

	lower, err := parseIntColumn(columns, record, "lower")
	if err != nil {
		return buffer, err
	}
	upper, err := parseIntColumn(columns, record, "upper")
	if err != nil {
		return buffer, err
	}
	size, err := parseIntColumn(columns, record, "size")
	if err != nil {
		return buffer, err
	}
	buffer.Lifespan = model.Lifespan{Lower: model.TimeValue(lower), Upper: model.TimeValue(upper)}
	buffer.Size = model.Size(size)

	if raw, ok := columns.get(record, "alignment"); ok && raw != "" {
		alignment, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return buffer, errors.Wrap(errors.ErrCodeInvalidFormat, err, "alignment %q", raw)
		}
		buffer.Alignment = model.Size(alignment)
	}

	if raw, ok := columns.get(record, "gaps"); ok && raw != "" {
		for _, entry := range strings.Fields(raw) {
			gap, err := ParseGap(entry)
			if err != nil {
				return buffer, err
			}
			buffer.Gaps = append(buffer.Gaps, gap)
		}
	}
	return buffer, nil
}

func parseIntColumn(columns csvColumns, record []string, name string) (int64, error) {
	raw, ok := columns.get(record, name)
	if !ok || raw == "" {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "missing value for column %q", name)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidFormat, err, "column %q value %q", name, raw)
	}
	return v, nil
}

// ParseGap parses one gap entry of the form "lo-hi" or "lo-hi@wlo:whi".
func ParseGap(entry string) (model.Gap, error) {
	var gap model.Gap

	span := entry
	if at := strings.IndexByte(entry, '@'); at >= 0 {
		span = entry[:at]
		wlo, whi, err := parsePair(entry[at+1:], ':')
		if err != nil {
			return gap, errors.Wrap(errors.ErrCodeInvalidFormat, err, "gap window %q", entry)
		}
		gap.Window = &model.Window{Lower: model.Offset(wlo), Upper: model.Offset(whi)}
	}

	lo, hi, err := parsePair(span, '-')
	if err != nil {
		return gap, errors.Wrap(errors.ErrCodeInvalidFormat, err, "gap %q", entry)
	}
	gap.Lifespan = model.Lifespan{Lower: model.TimeValue(lo), Upper: model.TimeValue(hi)}
	return gap, nil
}

func parsePair(s string, sep byte) (int64, int64, error) {
	i := strings.IndexByte(s, sep)
	if i < 0 {
		return 0, 0, fmt.Errorf("expected two values separated by %q in %q", string(sep), s)
	}
	lo, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	hi, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}
