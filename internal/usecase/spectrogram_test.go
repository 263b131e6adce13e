package usecase

import (
	"context"
	"errors"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/forPelevin/bioprep/internal/domain/series"
	"github.com/forPelevin/bioprep/internal/domain/spectrogram"
	"github.com/forPelevin/bioprep/internal/ports/adapters/wavfile"
	"github.com/forPelevin/bioprep/internal/types"
)

func testParams(layout Layout) SpectrogramParams {
	return SpectrogramParams{
		FrameSize:  256,
		HopSize:    64,
		SampleRate: 8000,
		TopDB:      80,
		Width:      64,
		Height:     32,
		Colormap:   spectrogram.Inferno,
		Format:     spectrogram.PNG,
		Layout:     layout,
	}
}

func writeSegmentCSV(t *testing.T, path string, values []float64) {
	t.Helper()
	ts := make(types.TimeSeries, len(values))
	for i, v := range values {
		ts[i] = types.Sample{Time: float64(i) / 8000, Value: v}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := series.WriteCSV(f, ts); err != nil {
		t.Fatalf("write csv: %v", err)
	}
}

func TestDataSpectrograms_KeywordLayout(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	in := filepath.Join(tmp, "segments")
	wavDir := filepath.Join(tmp, "wav")
	out := filepath.Join(tmp, "spectrograms")

	tone := make([]float64, 2000)
	for i := range tone {
		tone[i] = 1e-9 * math.Sin(2*math.Pi*500*float64(i)/8000)
	}
	writeSegmentCSV(t, filepath.Join(in, "A1_0.csv"), tone)
	writeSegmentCSV(t, filepath.Join(in, "silent_0.csv"), make([]float64, 100))
	writeTestFile(t, filepath.Join(in, "other_0.csv"), "Time,Voltage\n0,1\n")

	uc := New(Deps{WAV: wavfile.New()})
	rep, err := uc.DataSpectrograms(context.Background(), SpectrogramInput{
		InputDir: in, WAVDir: wavDir, OutputDir: out, Params: testParams(LayoutKeyword),
	})
	if err != nil {
		t.Fatalf("spectrograms: %v", err)
	}
	// wav + image for A1_0; silent and other are skipped.
	assertReport(t, rep, 3, 2, 2, 0)

	samples, rate, err := wavfile.New().ReadMono(filepath.Join(wavDir, "A1_0.wav"))
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	if rate != 8000 || len(samples) != len(tone) {
		t.Fatalf("wav rate %d len %d", rate, len(samples))
	}
	peak := 0.0
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(s))
	}
	if peak < 0.99 {
		t.Fatalf("expected peak-normalized wav, peak %v", peak)
	}

	f, err := os.Open(filepath.Join(out, "A1", "A1_0_spectrogram.png"))
	if err != nil {
		t.Fatalf("open image: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("image size %v", b)
	}
}

func TestAudioSpectrograms_FlatLayout(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	in := filepath.Join(tmp, "clips")
	out := filepath.Join(tmp, "spectrograms")
	writeTestFile(t, filepath.Join(in, "segment_A1.mp3"), "mp3")
	writeTestFile(t, filepath.Join(in, "broken.mp3"), "mp3")
	writeTestFile(t, filepath.Join(in, "notes.txt"), "skip me")

	media := &fakeMediaTool{
		decodeHz:  1000,
		decodeLen: 4000,
		failOn:    map[string]error{"broken.mp3": errors.New("decode failed")},
	}
	uc := New(Deps{Media: media, WAV: wavfile.New()})
	rep, err := uc.AudioSpectrograms(context.Background(), SpectrogramInput{
		InputDir: in, WAVDir: filepath.Join(tmp, "wav"), OutputDir: out, Params: testParams(LayoutFlat),
	})
	if err != nil {
		t.Fatalf("spectrograms: %v", err)
	}
	assertReport(t, rep, 2, 2, 0, 1)

	f, err := os.Open(filepath.Join(out, "_A1.jpg"))
	if err != nil {
		t.Fatalf("open image: %v", err)
	}
	defer f.Close()
	if _, err := jpeg.Decode(f); err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
}

func TestImagePath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		base   string
		params SpectrogramParams
		want   string
	}{
		{name: "keyword", base: "frog_call_3", params: SpectrogramParams{Layout: LayoutKeyword}, want: filepath.Join("out", "frog", "frog_call_3_spectrogram.png")},
		{name: "keyword jpeg", base: "A1", params: SpectrogramParams{Layout: LayoutKeyword, Format: spectrogram.JPEG}, want: filepath.Join("out", "A1", "A1_spectrogram.jpg")},
		{name: "flat", base: "segment12", params: SpectrogramParams{Layout: LayoutFlat}, want: filepath.Join("out", "12.jpg")},
		{name: "flat only segment", base: "segment", params: SpectrogramParams{Layout: LayoutFlat}, want: filepath.Join("out", "segment.jpg")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := imagePath("out", tc.base, tc.params)
			if got != tc.want {
				t.Fatalf("imagePath = %q, want %q", got, tc.want)
			}
		})
	}
}
