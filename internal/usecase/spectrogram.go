package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/forPelevin/bioprep/internal/domain/series"
	"github.com/forPelevin/bioprep/internal/domain/spectrogram"
	"github.com/forPelevin/bioprep/internal/types"
)

// Layout selects where spectrogram images land.
type Layout string

const (
	// LayoutKeyword writes <out>/<keyword>/<stem>_spectrogram.<ext>, keyword
	// being the part of the stem before the first underscore.
	LayoutKeyword Layout = "keyword"
	// LayoutFlat writes <out>/<stem without "segment">.jpg.
	LayoutFlat Layout = "flat"
)

const powerFloor = 1e-10

type SpectrogramParams struct {
	FrameSize int
	HopSize   int
	// SampleRate is used when CSV segments are written as WAV.
	SampleRate int
	TopDB      float64
	Width      int
	Height     int
	Colormap   spectrogram.Colormap
	Format     spectrogram.Format
	Layout     Layout
}

type SpectrogramInput struct {
	InputDir  string
	WAVDir    string
	OutputDir string
	Params    SpectrogramParams
}

// DataSpectrograms turns every Time,Current CSV segment into a normalized
// 16-bit WAV and renders its spectrogram.
func (u Usecase) DataSpectrograms(ctx context.Context, in SpectrogramInput) (types.Report, error) {
	names, err := u.prepareSpectrograms(in, ".csv")
	if err != nil {
		return types.Report{Job: JobDataSpectrograms}, err
	}

	b := u.begin(JobDataSpectrograms, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return b.done(), err
		}
		b.item()

		base := stem(name)
		values, err := readCurrent(filepath.Join(in.InputDir, name))
		if errors.Is(err, series.ErrMissingColumn) {
			b.skip(base, "segment has no Current column")
			continue
		}
		if err != nil {
			b.fail(base, err)
			continue
		}
		pcm, err := series.Normalize16(values)
		if errors.Is(err, series.ErrSilentSignal) {
			b.skip(base, "segment is silent")
			continue
		}
		if err != nil {
			b.fail(base, err)
			continue
		}

		wav := filepath.Join(in.WAVDir, base+".wav")
		if err := u.d.WAV.WritePCM16(wav, in.Params.SampleRate, pcm); err != nil {
			b.fail(base, fmt.Errorf("write wav: %w", err))
			continue
		}
		b.wrote(base, wav)
		u.renderWAV(b, base, wav, in)
	}
	return b.done(), nil
}

// AudioSpectrograms decodes every mp3 clip to WAV and renders its
// spectrogram.
func (u Usecase) AudioSpectrograms(ctx context.Context, in SpectrogramInput) (types.Report, error) {
	names, err := u.prepareSpectrograms(in, ".mp3")
	if err != nil {
		return types.Report{Job: JobAudioSpectrograms}, err
	}

	b := u.begin(JobAudioSpectrograms, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return b.done(), err
		}
		b.item()

		base := stem(name)
		wav := filepath.Join(in.WAVDir, base+".wav")
		if err := u.d.Media.DecodeWAV(ctx, filepath.Join(in.InputDir, name), wav); err != nil {
			b.fail(base, err)
			continue
		}
		b.wrote(base, wav)
		u.renderWAV(b, base, wav, in)
	}
	return b.done(), nil
}

func (u Usecase) prepareSpectrograms(in SpectrogramInput, ext string) ([]string, error) {
	p := in.Params
	if p.FrameSize <= 0 || p.HopSize <= 0 || p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("spectrogram params: frame, hop and image size must be > 0")
	}
	names, err := listFiles(in.InputDir, hasExtFold(ext))
	if err != nil {
		return nil, err
	}
	if err := ensureDir(in.WAVDir); err != nil {
		return nil, err
	}
	if err := ensureDir(in.OutputDir); err != nil {
		return nil, err
	}
	return names, nil
}

func (u Usecase) renderWAV(b *batch, base, wav string, in SpectrogramInput) {
	p := in.Params
	samples, _, err := u.d.WAV.ReadMono(wav)
	if err != nil {
		b.fail(base, fmt.Errorf("read wav: %w", err))
		return
	}
	power, err := spectrogram.STFT(samples, p.FrameSize, p.HopSize)
	if err != nil {
		b.fail(base, err)
		return
	}
	cmap := p.Colormap
	if cmap == nil {
		cmap = spectrogram.Inferno
	}
	img, err := spectrogram.Render(spectrogram.PowerToDB(power, powerFloor, p.TopDB), p.Width, p.Height, cmap)
	if err != nil {
		b.fail(base, err)
		return
	}

	out, format := imagePath(in.OutputDir, base, p)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		b.fail(base, err)
		return
	}
	err = writeFile(out, func(w io.Writer) error {
		return spectrogram.Encode(w, img, format)
	})
	if err != nil {
		b.fail(base, fmt.Errorf("write image: %w", err))
		return
	}
	b.wrote(base, out)
}

// imagePath resolves the output image for a stem. The flat layout always
// encodes JPEG.
func imagePath(outDir, base string, p SpectrogramParams) (string, spectrogram.Format) {
	if p.Layout == LayoutFlat {
		name := strings.ReplaceAll(base, "segment", "")
		if name == "" {
			name = base
		}
		return filepath.Join(outDir, name+spectrogram.JPEG.Ext()), spectrogram.JPEG
	}
	format := p.Format
	if format == "" {
		format = spectrogram.PNG
	}
	keyword, _, _ := strings.Cut(base, "_")
	return filepath.Join(outDir, keyword, base+"_spectrogram"+format.Ext()), format
}

func readCurrent(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return series.ReadCSVColumn(f, series.ValueColumn)
}
