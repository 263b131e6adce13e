// Package manifest reads the CSV tables that map file identifiers to
// "start:end" ranges.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/forPelevin/bioprep/internal/types"
)

// DefaultIDColumn is the identifier column the recording sheets use.
const DefaultIDColumn = "File"

var (
	ErrMissingIDColumn = errors.New("manifest: identifier column missing")
	ErrBadRange        = errors.New("manifest: invalid range")
)

// Cell is one non-empty range cell of a row.
type Cell struct {
	Column string
	Value  string
}

// Row is one manifest line: its identifier plus the non-empty cells of every
// other column, in column order.
type Row struct {
	Line  int
	ID    string
	Cells []Cell
}

// Warning describes a cell that could not be turned into a window.
type Warning struct {
	ID     string
	Column string
	Value  string
	Err    error
}

func (w Warning) String() string {
	return fmt.Sprintf("invalid timestamp format in column %s: %q", w.Column, w.Value)
}

type Manifest struct {
	IDColumn string
	Columns  []string
	rows     []Row
	byID     map[string][]int
}

// Load opens and parses a manifest file.
func Load(path, idColumn string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return Parse(f, idColumn)
}

// Parse reads a CSV manifest with a header row. Rows with an empty identifier
// are dropped.
func Parse(r io.Reader, idColumn string) (Manifest, error) {
	if idColumn == "" {
		idColumn = DefaultIDColumn
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Manifest{}, fmt.Errorf("%w: %q (empty file)", ErrMissingIDColumn, idColumn)
		}
		return Manifest{}, fmt.Errorf("read manifest header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	idIdx := -1
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if header[i] == idColumn && idIdx < 0 {
			idIdx = i
		}
	}
	if idIdx < 0 {
		return Manifest{}, fmt.Errorf("%w: %q", ErrMissingIDColumn, idColumn)
	}

	m := Manifest{IDColumn: idColumn, Columns: header, byID: map[string][]int{}}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return Manifest{}, fmt.Errorf("read manifest line %d: %w", line, err)
		}
		if idIdx >= len(rec) {
			continue
		}
		id := strings.TrimSpace(rec[idIdx])
		if id == "" {
			continue
		}
		row := Row{Line: line, ID: id}
		for i, v := range rec {
			if i == idIdx || i >= len(header) {
				continue
			}
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			row.Cells = append(row.Cells, Cell{Column: header[i], Value: v})
		}
		m.byID[id] = append(m.byID[id], len(m.rows))
		m.rows = append(m.rows, row)
	}
	return m, nil
}

// Rows returns the manifest rows in file order.
func (m Manifest) Rows() []Row {
	return append([]Row(nil), m.rows...)
}

// IDs returns each identifier once, in order of first appearance.
func (m Manifest) IDs() []string {
	seen := make(map[string]struct{}, len(m.byID))
	var out []string
	for _, r := range m.rows {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r.ID)
	}
	return out
}

func (m Manifest) Has(id string) bool {
	_, ok := m.byID[id]
	return ok
}

// Windows collects every range for id across all of its rows, in row then
// column order. Malformed cells come back as warnings.
func (m Manifest) Windows(id string) ([]types.Window, []Warning, bool) {
	idxs, ok := m.byID[id]
	if !ok {
		return nil, nil, false
	}
	var (
		out   []types.Window
		warns []Warning
	)
	for _, i := range idxs {
		ws, wn := m.rows[i].Windows()
		out = append(out, ws...)
		warns = append(warns, wn...)
	}
	return out, warns, true
}

// Windows parses the row's cells.
func (r Row) Windows() ([]types.Window, []Warning) {
	var (
		out   []types.Window
		warns []Warning
	)
	for _, c := range r.Cells {
		w, err := ParseRange(c.Value)
		if err != nil {
			warns = append(warns, Warning{ID: r.ID, Column: c.Column, Value: c.Value, Err: err})
			continue
		}
		out = append(out, w)
	}
	return out, warns
}

// ParseRange parses "start:end". Both sides must be finite numbers.
func ParseRange(s string) (types.Window, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return types.Window{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	start, err := parseFinite(parts[0])
	if err != nil {
		return types.Window{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	end, err := parseFinite(parts[1])
	if err != nil {
		return types.Window{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	return types.Window{Start: start, End: end}, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}
