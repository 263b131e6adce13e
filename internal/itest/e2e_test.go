//go:build integration

package itest

import (
	"context"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/forPelevin/bioprep/internal/config"
	"github.com/forPelevin/bioprep/internal/pipeline"
	"github.com/forPelevin/bioprep/internal/usecase"
)

func TestE2E_SpliceThenSpectrogram(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	tmp := t.TempDir()
	audioDir := filepath.Join(tmp, "audio")
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// 5 s sine recording as A1.mp3.
	ff := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", "sine=frequency=880:duration=5",
		"-c:a", "libmp3lame",
		filepath.Join(audioDir, "A1.mp3"),
	)
	if b, err := ff.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}
	manifestPath := filepath.Join(tmp, "timestamps.csv")
	body := "File,R1,R2\nA1,2.0:3.0,bad_range\nB2,0:1,\n"
	if err := os.WriteFile(manifestPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	s := config.Default()
	s.Manifest.Path = manifestPath
	s.SpliceAudio.InputDir = audioDir
	s.SpliceAudio.OutputDir = filepath.Join(tmp, "clips")
	s.SpectrogramAudio.InputDir = s.SpliceAudio.OutputDir
	s.SpectrogramAudio.WAVDir = filepath.Join(tmp, "wav")
	s.SpectrogramAudio.OutputDir = filepath.Join(tmp, "spectrograms")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rep, err := pipeline.Run(ctx, pipeline.Config{Job: usecase.JobSpliceAudio, Settings: &s})
	if err != nil {
		t.Fatalf("splice failed: %v", err)
	}
	if rep.Written != 1 || rep.Skipped != 2 {
		t.Fatalf("unexpected splice report: %+v", rep)
	}
	clip := filepath.Join(s.SpliceAudio.OutputDir, "A1_2.000-3.000.mp3")
	sec, err := probeDurationSeconds(clip)
	if err != nil {
		t.Fatalf("probe clip: %v", err)
	}
	if math.Abs(sec-1.2) > 0.1 {
		t.Fatalf("expected ~1.2 s padded clip, got %.3f", sec)
	}

	rep, err = pipeline.Run(ctx, pipeline.Config{Job: usecase.JobAudioSpectrograms, Settings: &s})
	if err != nil {
		t.Fatalf("spectrogram failed: %v", err)
	}
	if rep.Failed != 0 {
		t.Fatalf("unexpected spectrogram report: %+v", rep)
	}
	img := filepath.Join(s.SpectrogramAudio.OutputDir, "A1", "A1_2.000-3.000_spectrogram.png")
	if _, err := os.Stat(img); err != nil {
		t.Fatalf("missing spectrogram: %v", err)
	}
}
