package manifest

import (
	"errors"
	"strings"
	"testing"

	"github.com/forPelevin/bioprep/internal/types"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    types.Window
		wantErr bool
	}{
		{in: "2.0:3.0", want: types.Window{Start: 2, End: 3}},
		{in: " 1.5 : 4 ", want: types.Window{Start: 1.5, End: 4}},
		{in: "3:1", want: types.Window{Start: 3, End: 1}},
		{in: "bad_range", wantErr: true},
		{in: "1:2:3", wantErr: true},
		{in: "1:", wantErr: true},
		{in: "nan:2", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRange(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadRange) {
					t.Fatalf("ParseRange(%q) err = %v, want ErrBadRange", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRange(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseRange(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse_MissingIDColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("Name,Range1\nA1,1:2\n"), "File")
	if !errors.Is(err, ErrMissingIDColumn) {
		t.Fatalf("expected ErrMissingIDColumn, got %v", err)
	}
}

func TestParse_EmptyFile(t *testing.T) {
	_, err := Parse(strings.NewReader(""), "")
	if !errors.Is(err, ErrMissingIDColumn) {
		t.Fatalf("expected ErrMissingIDColumn, got %v", err)
	}
}

func TestWindows_CollectsRowsAndWarnings(t *testing.T) {
	csv := "\ufeffFile,R1,R2,R3\n" +
		"A1,2.0:3.0,bad_range,\n" +
		"B2,0:1,,\n" +
		"A1,5:6,,7:8\n" +
		",9:10,,\n"
	m, err := Parse(strings.NewReader(csv), "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(m.Rows()) != 3 {
		t.Fatalf("expected 3 rows (empty id dropped), got %d", len(m.Rows()))
	}

	ws, warns, ok := m.Windows("A1")
	if !ok {
		t.Fatalf("expected A1 to be mapped")
	}
	want := []types.Window{{Start: 2, End: 3}, {Start: 5, End: 6}, {Start: 7, End: 8}}
	if len(ws) != len(want) {
		t.Fatalf("windows = %+v, want %+v", ws, want)
	}
	for i := range want {
		if ws[i] != want[i] {
			t.Fatalf("window %d = %+v, want %+v", i, ws[i], want[i])
		}
	}
	if len(warns) != 1 || warns[0].Value != "bad_range" || warns[0].Column != "R2" {
		t.Fatalf("unexpected warnings: %+v", warns)
	}
	if !strings.Contains(warns[0].String(), "bad_range") {
		t.Fatalf("warning text should name the value: %s", warns[0])
	}

	if _, _, ok := m.Windows("C3"); ok {
		t.Fatalf("expected C3 to be unmapped")
	}
	if !m.Has("B2") || m.Has("") {
		t.Fatalf("unexpected Has results")
	}
	if ids := m.IDs(); len(ids) != 2 || ids[0] != "A1" || ids[1] != "B2" {
		t.Fatalf("IDs() = %v, want [A1 B2]", ids)
	}
}

func TestParse_CustomIDColumnAnywhere(t *testing.T) {
	m, err := Parse(strings.NewReader("Range,Image\n10:20,img1\n"), "Image")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ws, _, ok := m.Windows("img1")
	if !ok || len(ws) != 1 || ws[0] != (types.Window{Start: 10, End: 20}) {
		t.Fatalf("unexpected windows: %+v ok=%v", ws, ok)
	}
}
