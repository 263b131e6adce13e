package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Tools locates the external binaries.
type Tools struct {
	FFmpeg       string `toml:"ffmpeg"`
	FFprobe      string `toml:"ffprobe"`
	WhisperBin   string `toml:"whisper_bin"`
	WhisperModel string `toml:"whisper_model"`
	CacheDir     string `toml:"cache_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Manifest points at the timestamp table shared by the manifest-driven jobs.
type Manifest struct {
	Path     string `toml:"path"`
	IDColumn string `toml:"id_column"`
}

// SpliceAudio cuts padded clips out of <id>.mp3 recordings.
type SpliceAudio struct {
	InputDir  string  `toml:"input_dir"`
	OutputDir string  `toml:"output_dir"`
	Padding   float64 `toml:"padding"`
}

// ConvertAudio transcodes every file with FromExt to ToExt.
type ConvertAudio struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
	FromExt   string `toml:"from_ext"`
	ToExt     string `toml:"to_ext"`
}

// SegmentData cuts .data recordings into CSV segments.
type SegmentData struct {
	InputDir       string  `toml:"input_dir"`
	OutputDir      string  `toml:"output_dir"`
	PadBefore      float64 `toml:"pad_before"`
	PadAfter       float64 `toml:"pad_after"`
	Offset         float64 `toml:"offset"`
	Naming         string  `toml:"naming"`
	HeaderSentinel string  `toml:"header_sentinel"`
}

// Spectrogram holds the analysis and rendering parameters shared by both
// spectrogram jobs.
type Spectrogram struct {
	FrameSize  int     `toml:"frame_size"`
	HopSize    int     `toml:"hop_size"`
	SampleRate int     `toml:"sample_rate"`
	TopDB      float64 `toml:"top_db"`
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Colormap   string  `toml:"colormap"`
	Format     string  `toml:"format"`
	// Layout is "keyword" (<out>/<keyword>/<stem>_spectrogram.png) or
	// "flat" (<out>/<stem>.jpg).
	Layout string `toml:"layout"`
}

// SpectrogramJob names the directories of one spectrogram job.
type SpectrogramJob struct {
	InputDir  string `toml:"input_dir"`
	WAVDir    string `toml:"wav_dir"`
	OutputDir string `toml:"output_dir"`
}

type Rename struct {
	Dir string `toml:"dir"`
}

// Transcripts drives per-word clip extraction.
type Transcripts struct {
	TranscriptsDir string `toml:"transcripts_dir"`
	MediaDir       string `toml:"media_dir"`
	OutputDir      string `toml:"output_dir"`
	Transcribe     bool   `toml:"transcribe"`
}

// CropImages cuts image strips by percent-of-width windows.
type CropImages struct {
	Manifest  string `toml:"manifest"`
	IDColumn  string `toml:"id_column"`
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
}

// Config encapsulates every knob of the batch jobs.
type Config struct {
	Tools            Tools          `toml:"tools"`
	Logging          Logging        `toml:"logging"`
	Manifest         Manifest       `toml:"manifest"`
	SpliceAudio      SpliceAudio    `toml:"splice_audio"`
	ConvertAudio     ConvertAudio   `toml:"convert_audio"`
	SegmentData      SegmentData    `toml:"segment_data"`
	Spectrogram      Spectrogram    `toml:"spectrogram"`
	SpectrogramData  SpectrogramJob `toml:"spectrogram_data"`
	SpectrogramAudio SpectrogramJob `toml:"spectrogram_audio"`
	Rename           Rename         `toml:"rename"`
	Transcripts      Transcripts    `toml:"transcripts"`
	CropImages       CropImages     `toml:"crop_images"`
}

// Load locates, parses, and validates a configuration file. An explicit path
// that does not exist is an error; without a path, ./bioprep.toml and then
// ~/.config/bioprep/config.toml are tried and defaults are used when neither
// exists. Environment overrides are applied after the file.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if path != "" && !exists {
		return nil, "", false, fmt.Errorf("config file %s does not exist", resolved)
	}

	if exists {
		b, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// Resolve normalizes and validates c again after it was changed in code, for
// example by command-line overrides.
func (c *Config) Resolve() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

// Marshal renders the config as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("bioprep.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/bioprep/config.toml")
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Tools.FFmpeg, "BIOPREP_FFMPEG")
	set(&c.Tools.FFprobe, "BIOPREP_FFPROBE")
	set(&c.Tools.WhisperBin, "BIOPREP_WHISPER_BIN")
	set(&c.Tools.WhisperModel, "BIOPREP_WHISPER_MODEL")
	set(&c.Logging.Level, "BIOPREP_LOG_LEVEL")
	set(&c.Logging.Format, "BIOPREP_LOG_FORMAT")
}

func (c *Config) normalize() error {
	paths := []*string{
		&c.Tools.CacheDir,
		&c.Tools.WhisperModel,
		&c.Manifest.Path,
		&c.SpliceAudio.InputDir, &c.SpliceAudio.OutputDir,
		&c.ConvertAudio.InputDir, &c.ConvertAudio.OutputDir,
		&c.SegmentData.InputDir, &c.SegmentData.OutputDir,
		&c.SpectrogramData.InputDir, &c.SpectrogramData.WAVDir, &c.SpectrogramData.OutputDir,
		&c.SpectrogramAudio.InputDir, &c.SpectrogramAudio.WAVDir, &c.SpectrogramAudio.OutputDir,
		&c.Rename.Dir,
		&c.Transcripts.TranscriptsDir, &c.Transcripts.MediaDir, &c.Transcripts.OutputDir,
		&c.CropImages.Manifest, &c.CropImages.InputDir, &c.CropImages.OutputDir,
	}
	for _, p := range paths {
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.ConvertAudio.FromExt = normalizeExt(c.ConvertAudio.FromExt)
	c.ConvertAudio.ToExt = normalizeExt(c.ConvertAudio.ToExt)
	c.Spectrogram.Layout = strings.ToLower(strings.TrimSpace(c.Spectrogram.Layout))
	if strings.TrimSpace(c.Manifest.IDColumn) == "" {
		c.Manifest.IDColumn = defaultIDColumn
	}
	if strings.TrimSpace(c.CropImages.IDColumn) == "" {
		c.CropImages.IDColumn = defaultIDColumn
	}
	return nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
