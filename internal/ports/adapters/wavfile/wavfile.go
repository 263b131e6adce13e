// Package wavfile reads and writes PCM wave files with go-audio.
package wavfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var ErrInvalidWAV = errors.New("not a valid wav file")

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

// WritePCM16 writes mono 16-bit samples at sampleRate. No file is left
// behind when encoding fails.
func (a *Adapter) WritePCM16(path string, sampleRate int, pcm []int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("write wav: invalid sample rate %d", sampleRate)
	}
	return create(path, func(f *os.File) error {
		enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
		buf := &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
			Data:           pcm,
			SourceBitDepth: 16,
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("encode wav: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("finalize wav: %w", err)
		}
		return nil
	})
}

// create runs fn on a new file at path and removes the file if fn or the
// final close fails.
func create(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

// ReadMono decodes path to float samples in [-1, 1), averaging channels.
func (a *Adapter) ReadMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("read pcm: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}
	depth := int(dec.BitDepth)
	if depth <= 0 {
		depth = 16
	}
	full := float64(int64(1) << (depth - 1))

	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		out[i] = sum / float64(channels) / full
	}
	return out, buf.Format.SampleRate, nil
}
