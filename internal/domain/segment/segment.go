// Package segment cuts time series into the windows a manifest lists.
package segment

import (
	"fmt"
	"math"

	"github.com/forPelevin/bioprep/internal/types"
)

// Naming selects how output files of a source are keyed.
type Naming string

const (
	// NamingIndex numbers non-empty windows 0, 1, 2, ...
	NamingIndex Naming = "index"
	// NamingStartMillis keys each window by its adjusted start in milliseconds.
	NamingStartMillis Naming = "start-ms"
)

func ParseNaming(s string) (Naming, error) {
	switch Naming(s) {
	case NamingIndex, "":
		return NamingIndex, nil
	case NamingStartMillis:
		return NamingStartMillis, nil
	default:
		return "", fmt.Errorf("unknown segment naming %q (want %q or %q)", s, NamingIndex, NamingStartMillis)
	}
}

type Segment struct {
	Index   int
	Window  types.Window
	Samples types.TimeSeries
}

// Key is the numeric suffix used in the output file name.
func (s Segment) Key(n Naming) int64 {
	if n == NamingStartMillis {
		return int64(math.Round(s.Window.Start * 1000))
	}
	return int64(s.Index)
}

// FileName builds "<id>_<key><ext>".
func (s Segment) FileName(id string, n Naming, ext string) string {
	return fmt.Sprintf("%s_%d%s", id, s.Key(n), ext)
}

// Adjust applies the offset and padding to w. A negative start is clamped to
// zero; the end is left as computed, so the result may be empty.
func Adjust(w types.Window, adj types.Adjustment) types.Window {
	return types.Window{
		Start: math.Max(0, w.Start+adj.Offset-adj.PadBefore),
		End:   w.End + adj.Offset + adj.PadAfter,
	}
}

// Extract returns one segment per window that selects at least one sample.
// Windows are processed in order and may overlap; each gets its own copy of
// the samples. Indexes count non-empty windows only.
func Extract(series types.TimeSeries, windows []types.Window, adj types.Adjustment) []Segment {
	var out []Segment
	for _, raw := range windows {
		w := Adjust(raw, adj)
		if w.Empty() {
			continue
		}
		var picked types.TimeSeries
		for _, s := range series {
			if w.Contains(s.Time) {
				picked = append(picked, s)
			}
		}
		if len(picked) == 0 {
			continue
		}
		out = append(out, Segment{Index: len(out), Window: w, Samples: picked})
	}
	return out
}
