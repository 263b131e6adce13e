package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/forPelevin/bioprep/internal/types"
)

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []types.Word
	}{
		{
			name: "top level words",
			json: `{"text":"hi there","words":[{"text":" hi","start":0.1,"end":0.4,"confidence":0.9},{"text":"there ","start":0.5,"end":0.9}]}`,
			want: []types.Word{{Text: "hi", Start: 0.1, End: 0.4}, {Text: "there", Start: 0.5, End: 0.9}},
		},
		{
			name: "segment words",
			json: `{"segments":[{"words":[{"text":"a","start":0,"end":1}]},{"words":[{"text":"b","start":1,"end":2}]}]}`,
			want: []types.Word{{Text: "a", Start: 0, End: 1}, {Text: "b", Start: 1, End: 2}},
		},
		{
			name: "whisper.cpp word key",
			json: `{"segments":[{"start":0,"end":2,"text":"x","words":[{"word":" frog","start":0.2,"end":0.6}]}]}`,
			want: []types.Word{{Text: "frog", Start: 0.2, End: 0.6}},
		},
		{
			name: "whisper.cpp transcription offsets",
			json: `{"transcription":[{"timestamps":{"from":"00:00:00,000","to":"00:00:00,320"},"offsets":{"from":0,"to":320},"text":" hello"},{"offsets":{"from":320,"to":900},"text":" world"}]}`,
			want: []types.Word{{Text: "hello", Start: 0, End: 0.32}, {Text: "world", Start: 0.32, End: 0.9}},
		},
		{
			name: "empty top level words wins over segments",
			json: `{"words":[],"segments":[{"words":[{"text":"ignored","start":0,"end":1}]}]}`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Parse([]byte(tt.json))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(tr.Words) != len(tt.want) {
				t.Fatalf("words = %+v, want %+v", tr.Words, tt.want)
			}
			for i := range tt.want {
				if tr.Words[i] != tt.want[i] {
					t.Fatalf("word %d = %+v, want %+v", i, tr.Words[i], tt.want[i])
				}
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("{")); err == nil {
		t.Fatalf("expected error for truncated json")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	in := types.Transcript{Words: []types.Word{{Text: "ok", Start: 1, End: 1.5}}}
	b, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(out.Words) != 1 || out.Words[0] != in.Words[0] {
		t.Fatalf("round trip = %+v", out)
	}
}

func TestNames(t *testing.T) {
	if !IsTranscript("Clip_Transcript.JSON") || IsTranscript("clip.json") {
		t.Fatalf("unexpected IsTranscript results")
	}
	if got := MediaStem("frog 01_transcript.json"); got != "frog 01" {
		t.Fatalf("MediaStem = %q", got)
	}
	if got := FileName("frog"); got != "frog_transcript.json" {
		t.Fatalf("FileName = %q", got)
	}
	if got := ClipName("frog", 3, " tree frog ", ".mp3"); got != "frog_word_3_tree_frog.mp3" {
		t.Fatalf("ClipName = %q", got)
	}
	if got := ClipName("frog", 0, "a/b", ".mp4"); got != "frog_word_0_ab.mp4" {
		t.Fatalf("ClipName with separator = %q", got)
	}
	if !IsVideo("x.MKV") || IsVideo("x.mp3") || !IsAudio("x.flac") || IsAudio("x.mp4") {
		t.Fatalf("unexpected media classification")
	}
}

func TestFindMedia_Order(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"rec.wav", "rec.mp3"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	got, ok := FindMedia(dir, "rec")
	if !ok || filepath.Base(got) != "rec.mp3" {
		t.Fatalf("FindMedia = %q, %v; want rec.mp3", got, ok)
	}
	if _, ok := FindMedia(dir, "missing"); ok {
		t.Fatalf("expected no media for missing stem")
	}
}
