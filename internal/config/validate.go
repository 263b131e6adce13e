package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		add("logging.format: unsupported value %q", c.Logging.Format)
	}

	nonNegative := func(name string, v float64) {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			add("%s must be a finite value >= 0, got %v", name, v)
		}
	}
	nonNegative("splice_audio.padding", c.SpliceAudio.Padding)
	nonNegative("segment_data.pad_before", c.SegmentData.PadBefore)
	nonNegative("segment_data.pad_after", c.SegmentData.PadAfter)
	if math.IsNaN(c.SegmentData.Offset) || math.IsInf(c.SegmentData.Offset, 0) {
		add("segment_data.offset must be finite")
	}
	switch c.SegmentData.Naming {
	case "index", "start-ms":
	default:
		add("segment_data.naming: unsupported value %q", c.SegmentData.Naming)
	}
	if c.SegmentData.HeaderSentinel == "" {
		add("segment_data.header_sentinel is required")
	}

	if c.ConvertAudio.FromExt == "" || c.ConvertAudio.ToExt == "" {
		add("convert_audio.from_ext and convert_audio.to_ext are required")
	} else if c.ConvertAudio.FromExt == c.ConvertAudio.ToExt {
		add("convert_audio.from_ext and convert_audio.to_ext must differ")
	}

	s := c.Spectrogram
	if s.FrameSize < 2 || s.FrameSize%2 != 0 {
		add("spectrogram.frame_size must be even and >= 2, got %d", s.FrameSize)
	}
	if s.HopSize <= 0 {
		add("spectrogram.hop_size must be > 0, got %d", s.HopSize)
	}
	if s.SampleRate <= 0 {
		add("spectrogram.sample_rate must be > 0, got %d", s.SampleRate)
	}
	if s.TopDB < 0 {
		add("spectrogram.top_db must be >= 0, got %v", s.TopDB)
	}
	if s.Width <= 0 || s.Height <= 0 {
		add("spectrogram.width and spectrogram.height must be > 0, got %dx%d", s.Width, s.Height)
	}
	switch s.Colormap {
	case "inferno", "coolwarm":
	default:
		add("spectrogram.colormap: unsupported value %q", s.Colormap)
	}
	switch s.Format {
	case "png", "jpg", "jpeg":
	default:
		add("spectrogram.format: unsupported value %q", s.Format)
	}
	switch s.Layout {
	case LayoutKeyword, LayoutFlat:
	default:
		add("spectrogram.layout: unsupported value %q", s.Layout)
	}

	return errors.Join(errs...)
}
