package segment

import (
	"math"
	"testing"

	"github.com/forPelevin/bioprep/internal/types"
)

func ramp(from, to, step float64) types.TimeSeries {
	var out types.TimeSeries
	for t := from; t <= to+1e-9; t += step {
		out = append(out, types.Sample{Time: math.Round(t*1000) / 1000, Value: t * 2})
	}
	return out
}

func TestAdjust(t *testing.T) {
	tests := []struct {
		name string
		in   types.Window
		adj  types.Adjustment
		want types.Window
	}{
		{
			name: "symmetric padding",
			in:   types.Window{Start: 2, End: 3},
			adj:  types.Adjustment{PadBefore: 0.1, PadAfter: 0.1},
			want: types.Window{Start: 1.9, End: 3.1},
		},
		{
			name: "offset and asymmetric padding",
			in:   types.Window{Start: 1, End: 2},
			adj:  types.Adjustment{Offset: 0.35, PadBefore: 0.2, PadAfter: 0.2},
			want: types.Window{Start: 1.15, End: 2.55},
		},
		{
			name: "start clamped at zero",
			in:   types.Window{Start: 0.05, End: 0.5},
			adj:  types.Adjustment{PadBefore: 0.2},
			want: types.Window{Start: 0, End: 0.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Adjust(tt.in, tt.adj)
			if math.Abs(got.Start-tt.want.Start) > 1e-9 || math.Abs(got.End-tt.want.End) > 1e-9 {
				t.Fatalf("Adjust = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtract_PaddedWindowBounds(t *testing.T) {
	series := ramp(0, 5, 0.05)
	segs := Extract(series, []types.Window{{Start: 2, End: 3}}, types.Adjustment{PadBefore: 0.1, PadAfter: 0.1})
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	got := segs[0].Samples
	if got[0].Time != 1.9 || got[len(got)-1].Time != 3.1 {
		t.Fatalf("segment spans [%v, %v], want [1.9, 3.1]", got[0].Time, got[len(got)-1].Time)
	}
	for _, s := range got {
		if s.Time < 1.9 || s.Time > 3.1 {
			t.Fatalf("sample %v outside window", s.Time)
		}
	}
}

func TestExtract_SkipsEmptyAndInvertedWindows(t *testing.T) {
	series := ramp(0, 1, 0.1)
	windows := []types.Window{
		{Start: 5, End: 1},   // inverted
		{Start: 10, End: 12}, // beyond the data
		{Start: 0.2, End: 0.4},
		{Start: 0.2, End: 0.4}, // duplicate
		{Start: 0.3, End: 0.6}, // overlap
	}
	segs := Extract(series, windows, types.Adjustment{})
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	for i, s := range segs {
		if s.Index != i {
			t.Fatalf("segment %d has index %d", i, s.Index)
		}
	}
	if len(segs[0].Samples) != len(segs[1].Samples) {
		t.Fatalf("duplicate windows should yield equal segments")
	}
	segs[0].Samples[0].Value = -1
	if segs[1].Samples[0].Value == -1 {
		t.Fatalf("segments must not share backing samples")
	}
}

func TestExtract_InvertedAfterPaddingNeverPanics(t *testing.T) {
	segs := Extract(ramp(0, 1, 0.1), []types.Window{{Start: 0.9, End: 0.1}}, types.Adjustment{PadBefore: 0.1, PadAfter: 0.1})
	if len(segs) != 0 {
		t.Fatalf("expected no segments, got %d", len(segs))
	}
	if segs := Extract(nil, []types.Window{{Start: 0, End: 1}}, types.Adjustment{}); len(segs) != 0 {
		t.Fatalf("expected no segments for empty series")
	}
}

func TestSegmentFileName(t *testing.T) {
	s := Segment{Index: 3, Window: types.Window{Start: 1.2346, End: 2}}
	if got := s.FileName("A1", NamingIndex, ".csv"); got != "A1_3.csv" {
		t.Fatalf("index name = %q", got)
	}
	if got := s.FileName("A1", NamingStartMillis, ".csv"); got != "A1_1235.csv" {
		t.Fatalf("start-ms name = %q", got)
	}
}

func TestParseNaming(t *testing.T) {
	if n, err := ParseNaming(""); err != nil || n != NamingIndex {
		t.Fatalf("default naming = %q, %v", n, err)
	}
	if _, err := ParseNaming("weird"); err == nil {
		t.Fatalf("expected error for unknown naming")
	}
}
