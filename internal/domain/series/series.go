// Package series reads instrument .data recordings and the Time,Current CSV
// segments derived from them.
package series

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/forPelevin/bioprep/internal/types"
)

// HeaderSentinel ends the free-form header of a .data file.
const HeaderSentinel = "***End_of_Header***"

const (
	TimeColumn  = "Time"
	ValueColumn = "Current"
)

var (
	ErrNoHeaderSentinel = errors.New("header sentinel not found")
	ErrMissingColumn    = errors.New("column missing")
	ErrSilentSignal     = errors.New("signal has no non-zero samples")
)

// ReadData skips everything up to and including the first line containing
// sentinel, then keeps the rows made of exactly two numeric tokens.
func ReadData(r io.Reader, sentinel string) (types.TimeSeries, error) {
	if sentinel == "" {
		sentinel = HeaderSentinel
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	found := false
	for sc.Scan() {
		if strings.Contains(sc.Text(), sentinel) {
			found = true
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrNoHeaderSentinel, sentinel)
	}

	var out types.TimeSeries
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		out = append(out, types.Sample{Time: t, Value: v})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	return out, nil
}

// WriteCSV writes samples under a Time,Current header.
func WriteCSV(w io.Writer, samples types.TimeSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{TimeColumn, ValueColumn}); err != nil {
		return err
	}
	for _, s := range samples {
		rec := []string{formatFloat(s.Time), formatFloat(s.Value)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a Time,Current file back into samples.
func ReadCSV(r io.Reader) (types.TimeSeries, error) {
	cols, err := readColumns(r, TimeColumn, ValueColumn)
	if err != nil {
		return nil, err
	}
	out := make(types.TimeSeries, len(cols[0]))
	for i := range out {
		out[i] = types.Sample{Time: cols[0][i], Value: cols[1][i]}
	}
	return out, nil
}

// ReadCSVColumn returns the numeric values of one named column. Rows whose
// cell does not parse are dropped.
func ReadCSVColumn(r io.Reader, column string) ([]float64, error) {
	cols, err := readColumns(r, column)
	if err != nil {
		return nil, err
	}
	return cols[0], nil
}

func readColumns(r io.Reader, names ...string) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s (empty file)", ErrMissingColumn, strings.Join(names, ","))
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = -1
		for j, h := range header {
			if strings.TrimSpace(h) == name {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	out := make([][]float64, len(names))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		vals := make([]float64, len(idx))
		ok := true
		for i, j := range idx {
			if j >= len(rec) {
				ok = false
				break
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[j]), 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		for i, v := range vals {
			out[i] = append(out[i], v)
		}
	}
	return out, nil
}

// Normalize16 scales values by their peak magnitude and converts them to
// signed 16-bit PCM.
func Normalize16(values []float64) ([]int, error) {
	peak := 0.0
	for _, v := range values {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return nil, ErrSilentSignal
	}
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(int16(v / peak * 32767))
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
