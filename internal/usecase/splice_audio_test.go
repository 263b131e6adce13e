package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/forPelevin/bioprep/internal/domain/manifest"
)

func TestSpliceAudio_PadsAndClampsWindows(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	in := filepath.Join(tmp, "audio")
	out := filepath.Join(tmp, "clips")
	csvPath := filepath.Join(tmp, "timestamps.csv")
	writeTestFile(t, csvPath, "File,R1,R2,R3\n"+
		"A1,2.0:3.0,bad_range,0.05:9.95\n"+
		"B2,0:1,,\n")
	writeTestFile(t, filepath.Join(in, "A1.mp3"), "mp3")

	media := &fakeMediaTool{duration: 10 * time.Second}
	rep, err := New(Deps{Media: media}).SpliceAudio(context.Background(), SpliceAudioInput{
		ManifestPath: csvPath,
		InputDir:     in,
		OutputDir:    out,
		Padding:      0.1,
	})
	if err != nil {
		t.Fatalf("splice: %v", err)
	}
	// bad_range and the missing B2 recording are both skipped.
	assertReport(t, rep, 2, 2, 2, 0)

	want := []spliceCall{
		{in: filepath.Join(in, "A1.mp3"), start: 1900 * time.Millisecond, end: 3100 * time.Millisecond, out: filepath.Join(out, "A1_2.000-3.000.mp3")},
		{in: filepath.Join(in, "A1.mp3"), start: 0, end: 10 * time.Second, out: filepath.Join(out, "A1_0.050-9.950.mp3")},
	}
	if len(media.splices) != len(want) {
		t.Fatalf("splices = %+v", media.splices)
	}
	for i := range want {
		if media.splices[i] != want[i] {
			t.Fatalf("splice %d = %+v, want %+v", i, media.splices[i], want[i])
		}
	}
	if _, err := os.Stat(filepath.Join(out, "B2_0.000-1.000.mp3")); !os.IsNotExist(err) {
		t.Fatalf("expected no output for missing media, stat err=%v", err)
	}
}

func TestSpliceAudio_WindowPastEndIsSkipped(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	csvPath := filepath.Join(tmp, "timestamps.csv")
	writeTestFile(t, csvPath, "File,R1\nA1,12:13\n")
	writeTestFile(t, filepath.Join(tmp, "A1.mp3"), "mp3")

	media := &fakeMediaTool{duration: 5 * time.Second}
	rep, err := New(Deps{Media: media}).SpliceAudio(context.Background(), SpliceAudioInput{
		ManifestPath: csvPath, InputDir: tmp, OutputDir: filepath.Join(tmp, "out"), Padding: 0.1,
	})
	if err != nil {
		t.Fatalf("splice: %v", err)
	}
	assertReport(t, rep, 1, 0, 1, 0)
	if len(media.splices) != 0 {
		t.Fatalf("expected no splice, got %+v", media.splices)
	}
}

func TestSpliceAudio_ProbeFailureContinues(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	csvPath := filepath.Join(tmp, "timestamps.csv")
	writeTestFile(t, csvPath, "File,R1\nA1,1:2\nB2,1:2\n")
	writeTestFile(t, filepath.Join(tmp, "A1.mp3"), "mp3")
	writeTestFile(t, filepath.Join(tmp, "B2.mp3"), "mp3")

	media := &fakeMediaTool{probeErr: errors.New("ffprobe exploded")}
	rep, err := New(Deps{Media: media}).SpliceAudio(context.Background(), SpliceAudioInput{
		ManifestPath: csvPath, InputDir: tmp, OutputDir: filepath.Join(tmp, "out"),
	})
	if err != nil {
		t.Fatalf("splice: %v", err)
	}
	assertReport(t, rep, 2, 0, 0, 2)
}

func TestSpliceAudio_MissingIDColumnAborts(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	csvPath := filepath.Join(tmp, "timestamps.csv")
	writeTestFile(t, csvPath, "Name,R1\nA1,2:3\n")
	writeTestFile(t, filepath.Join(tmp, "A1.mp3"), "mp3")

	media := &fakeMediaTool{duration: 10 * time.Second}
	_, err := New(Deps{Media: media}).SpliceAudio(context.Background(), SpliceAudioInput{
		ManifestPath: csvPath, InputDir: tmp, OutputDir: filepath.Join(tmp, "out"),
	})
	if !errors.Is(err, manifest.ErrMissingIDColumn) {
		t.Fatalf("expected ErrMissingIDColumn, got %v", err)
	}
	if len(media.splices) != 0 {
		t.Fatalf("expected no work, got %+v", media.splices)
	}
}
