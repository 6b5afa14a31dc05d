// Package dataset loads the CSV performance tables consumed by the weekly report.
//
// A table is kept as raw text and converted column by column on access, so a
// malformed value only fails the computation that actually reads it.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	// ErrFileNotFound is returned by Load when the table file does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrMissingColumn is returned by Load when a required header is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrNoPeriodIndex is returned when a period label carries no digits.
	ErrNoPeriodIndex = errors.New("no period index in label")
)

// Columns names the header fields of the performance tables.
type Columns struct {
	Site        string `yaml:"site"`
	Period      string `yaml:"period"`
	Performance string `yaml:"performance"`
	Percentile  string `yaml:"percentile"`
}

// DefaultColumns returns the header names used by the exported tracking sheets.
func DefaultColumns() Columns {
	return Columns{
		Site:        "Site",
		Period:      "TimeFrame# Text",
		Performance: "Performance",
		Percentile:  "Percentile",
	}
}

// Table is an in-memory CSV table with named columns. Row order is file order.
type Table struct {
	Path    string
	columns map[string]int
	records [][]string
}

// Row is a single record of a Table.
type Row struct {
	table  *Table
	fields []string
	// Line is the 1-based data row number, excluding the header.
	Line int
}

// Load reads a comma-separated table from path. Every name in required must be
// present in the header row. A header-only file yields an empty table.
func Load(path string, required ...string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, path, required...)
}

// Read parses a table from r. name is used in error messages and as Table.Path.
func Read(r io.Reader, name string, required ...string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: no columns to parse from file", name)
		}
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}

	t := &Table{Path: name, columns: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff") // Excel exports often start with a BOM
		if _, dup := t.columns[h]; !dup {
			t.columns[h] = i
		}
	}

	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, fmt.Errorf("%w %q in %s", ErrMissingColumn, col, name)
		}
	}

	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%s: read row %d: %w", name, len(t.records)+1, err)
		}
		t.records = append(t.records, rec)
	}

	log.Debug().Str("path", name).Int("rows", len(t.records)).Msg("Loaded table")
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Rows returns all rows in file order.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.records))
	for i, rec := range t.records {
		rows[i] = Row{table: t, fields: rec, Line: i + 1}
	}
	return rows
}

// Filter returns the rows whose column col equals value exactly, in file order.
func (t *Table) Filter(col, value string) []Row {
	var out []Row
	for _, row := range t.Rows() {
		if row.Text(col) == value {
			out = append(out, row)
		}
	}
	return out
}

// Text returns the raw value of col, or "" if the row is short or the column unknown.
func (r Row) Text(col string) string {
	idx, ok := r.table.columns[col]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return r.fields[idx]
}

// Float parses col as a float64.
func (r Row) Float(col string) (float64, error) {
	raw := strings.TrimSpace(r.Text(col))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %q: could not convert %q to float", r.Line, col, raw)
	}
	return v, nil
}

// Period extracts the period index embedded in col.
func (r Row) Period(col string) (int, error) {
	idx, err := PeriodIndex(r.Text(col))
	if err != nil {
		return 0, fmt.Errorf("row %d: %w", r.Line, err)
	}
	return idx, nil
}

var digitsRe = regexp.MustCompile(`\d+`)

// PeriodIndex returns the first run of digits in label as an integer,
// e.g. "Week 23" -> 23. A label without digits is an error.
func PeriodIndex(label string) (int, error) {
	m := digitsRe.FindString(label)
	if m == "" {
		return 0, fmt.Errorf("%w: %q", ErrNoPeriodIndex, label)
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("period label %q: %w", label, err)
	}
	return n, nil
}

// LatestPeriod returns the maximum period index across rows along with the
// rows at that index, in their original order. rows must not be empty.
func LatestPeriod(rows []Row, col string) (int, []Row, error) {
	periods := make([]int, len(rows))
	latest := 0
	for i, row := range rows {
		p, err := row.Period(col)
		if err != nil {
			return 0, nil, err
		}
		periods[i] = p
		if i == 0 || p > latest {
			latest = p
		}
	}

	var at []Row
	for i, row := range rows {
		if periods[i] == latest {
			at = append(at, row)
		}
	}
	return latest, at, nil
}

// AtPeriod returns the rows whose period index equals period, in original order.
func AtPeriod(rows []Row, col string, period int) ([]Row, error) {
	var at []Row
	for _, row := range rows {
		p, err := row.Period(col)
		if err != nil {
			return nil, err
		}
		if p == period {
			at = append(at, row)
		}
	}
	return at, nil
}
