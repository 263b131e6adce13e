package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/forPelevin/bioprep/internal/config"
	"github.com/forPelevin/bioprep/internal/domain/segment"
	"github.com/forPelevin/bioprep/internal/domain/spectrogram"
	"github.com/forPelevin/bioprep/internal/logging"
	"github.com/forPelevin/bioprep/internal/ports"
	"github.com/forPelevin/bioprep/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/bioprep/internal/ports/adapters/wavfile"
	"github.com/forPelevin/bioprep/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/bioprep/internal/types"
	"github.com/forPelevin/bioprep/internal/usecase"
)

// Jobs lists every job Run accepts.
var Jobs = []string{
	usecase.JobSpliceAudio,
	usecase.JobConvertAudio,
	usecase.JobSegmentData,
	usecase.JobDataSpectrograms,
	usecase.JobAudioSpectrograms,
	usecase.JobRename,
	usecase.JobClipTranscripts,
	usecase.JobCropImages,
}

type Config struct {
	Job      string
	Settings *config.Config
	Logger   *slog.Logger

	// Summary receives the report table when set.
	Summary io.Writer
	// Progress receives per-item progress bars when set.
	Progress io.Writer
}

func (c Config) Validate() error {
	if !slices.Contains(Jobs, c.Job) {
		return fmt.Errorf("unknown job %q", c.Job)
	}
	if c.Settings == nil {
		return errors.New("settings are nil")
	}
	s := c.Settings

	var errs []error
	requireFile := func(field, path string) {
		if path == "" {
			errs = append(errs, fmt.Errorf("%s is required", field))
			return
		}
		if info, err := os.Stat(path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		} else if info.IsDir() {
			errs = append(errs, fmt.Errorf("%s: %s is a directory", field, path))
		}
	}
	requireDir := func(field, path string) {
		if path == "" {
			errs = append(errs, fmt.Errorf("%s is required", field))
			return
		}
		if info, err := os.Stat(path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		} else if !info.IsDir() {
			errs = append(errs, fmt.Errorf("%s: %s is not a directory", field, path))
		}
	}

	switch c.Job {
	case usecase.JobSpliceAudio:
		requireFile("manifest.path", s.Manifest.Path)
		requireDir("splice_audio.input_dir", s.SpliceAudio.InputDir)
	case usecase.JobConvertAudio:
		requireDir("convert_audio.input_dir", s.ConvertAudio.InputDir)
	case usecase.JobSegmentData:
		requireFile("manifest.path", s.Manifest.Path)
		requireDir("segment_data.input_dir", s.SegmentData.InputDir)
		if _, err := segment.ParseNaming(s.SegmentData.Naming); err != nil {
			errs = append(errs, fmt.Errorf("segment_data.naming: %w", err))
		}
	case usecase.JobDataSpectrograms, usecase.JobAudioSpectrograms:
		requireDir(jobPrefix(c.Job)+".input_dir", spectrogramJob(c.Job, s).InputDir)
		if _, err := spectrogramParams(s.Spectrogram); err != nil {
			errs = append(errs, err)
		}
	case usecase.JobRename:
		requireDir("rename.dir", s.Rename.Dir)
	case usecase.JobClipTranscripts:
		if s.Transcripts.Transcribe {
			requireFile("tools.whisper_model", s.Tools.WhisperModel)
		} else {
			requireDir("transcripts.transcripts_dir", s.Transcripts.TranscriptsDir)
		}
		requireDir("transcripts.media_dir", s.Transcripts.MediaDir)
	case usecase.JobCropImages:
		requireFile("crop_images.manifest", s.CropImages.Manifest)
		requireDir("crop_images.input_dir", s.CropImages.InputDir)
	}
	return errors.Join(errs...)
}

// Run executes one job under an exclusive lock on its output directory and
// writes the summary table when cfg.Summary is set. Per-item failures are
// reported in the returned report, not as an error.
func Run(ctx context.Context, cfg Config) (types.Report, error) {
	if err := cfg.Validate(); err != nil {
		return types.Report{Job: cfg.Job}, fmt.Errorf("config: %w", err)
	}
	s := cfg.Settings

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	runID := uuid.NewString()
	logger = logger.With(logging.FieldRunID, runID)

	outDir := outputDir(cfg.Job, s)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return types.Report{Job: cfg.Job}, fmt.Errorf("create output dir: %w", err)
	}
	unlock, err := lockDir(outDir)
	if err != nil {
		return types.Report{Job: cfg.Job}, err
	}
	defer unlock()

	// adapters
	deps := usecase.Deps{
		Media:    ffmpeg.New(s.Tools.FFmpeg, s.Tools.FFprobe),
		WAV:      wavfile.New(),
		Logger:   logger,
		Progress: cfg.Progress,
	}
	if cfg.Job == usecase.JobClipTranscripts && s.Transcripts.Transcribe {
		deps.ASR = whispercpp.New(s.Tools.WhisperBin, s.Tools.WhisperModel)
	}
	uc := usecase.New(deps)

	logger.Info("run started", logging.FieldJob, cfg.Job, logging.FieldOutput, outDir)
	started := time.Now()
	rep, err := dispatch(ctx, uc, cfg.Job, s)
	logger.Info("run finished",
		logging.FieldJob, cfg.Job,
		"elapsed", time.Since(started).Round(time.Millisecond),
		"failed", rep.Failed,
	)

	if cfg.Summary != nil {
		fmt.Fprintln(cfg.Summary, RenderSummary(runID, rep))
	}
	return rep, err
}

func dispatch(ctx context.Context, uc usecase.Usecase, job string, s *config.Config) (types.Report, error) {
	switch job {
	case usecase.JobSpliceAudio:
		return uc.SpliceAudio(ctx, usecase.SpliceAudioInput{
			ManifestPath: s.Manifest.Path,
			IDColumn:     s.Manifest.IDColumn,
			InputDir:     s.SpliceAudio.InputDir,
			OutputDir:    s.SpliceAudio.OutputDir,
			Padding:      s.SpliceAudio.Padding,
		})
	case usecase.JobConvertAudio:
		return uc.ConvertAudio(ctx, usecase.ConvertAudioInput{
			InputDir:  s.ConvertAudio.InputDir,
			OutputDir: s.ConvertAudio.OutputDir,
			FromExt:   s.ConvertAudio.FromExt,
			ToExt:     s.ConvertAudio.ToExt,
		})
	case usecase.JobSegmentData:
		naming, err := segment.ParseNaming(s.SegmentData.Naming)
		if err != nil {
			return types.Report{Job: job}, err
		}
		return uc.SegmentData(ctx, usecase.SegmentDataInput{
			ManifestPath: s.Manifest.Path,
			IDColumn:     s.Manifest.IDColumn,
			InputDir:     s.SegmentData.InputDir,
			OutputDir:    s.SegmentData.OutputDir,
			Adjustment: types.Adjustment{
				Offset:    s.SegmentData.Offset,
				PadBefore: s.SegmentData.PadBefore,
				PadAfter:  s.SegmentData.PadAfter,
			},
			Naming:         naming,
			HeaderSentinel: s.SegmentData.HeaderSentinel,
		})
	case usecase.JobDataSpectrograms, usecase.JobAudioSpectrograms:
		params, err := spectrogramParams(s.Spectrogram)
		if err != nil {
			return types.Report{Job: job}, err
		}
		sj := spectrogramJob(job, s)
		in := usecase.SpectrogramInput{
			InputDir:  sj.InputDir,
			WAVDir:    sj.WAVDir,
			OutputDir: sj.OutputDir,
			Params:    params,
		}
		if job == usecase.JobDataSpectrograms {
			return uc.DataSpectrograms(ctx, in)
		}
		return uc.AudioSpectrograms(ctx, in)
	case usecase.JobRename:
		return uc.Rename(ctx, usecase.RenameInput{Dir: s.Rename.Dir})
	case usecase.JobClipTranscripts:
		return uc.ClipTranscripts(ctx, usecase.ClipTranscriptsInput{
			TranscriptsDir: s.Transcripts.TranscriptsDir,
			MediaDir:       s.Transcripts.MediaDir,
			OutputDir:      s.Transcripts.OutputDir,
			Transcribe:     s.Transcripts.Transcribe,
			CacheDir:       s.Tools.CacheDir,
		})
	case usecase.JobCropImages:
		return uc.CropImages(ctx, usecase.CropImagesInput{
			ManifestPath: s.CropImages.Manifest,
			IDColumn:     s.CropImages.IDColumn,
			InputDir:     s.CropImages.InputDir,
			OutputDir:    s.CropImages.OutputDir,
		})
	}
	return types.Report{Job: job}, fmt.Errorf("unknown job %q", job)
}

func spectrogramParams(c config.Spectrogram) (usecase.SpectrogramParams, error) {
	cmap, err := spectrogram.ColormapByName(c.Colormap)
	if err != nil {
		return usecase.SpectrogramParams{}, fmt.Errorf("spectrogram.colormap: %w", err)
	}
	format, err := spectrogram.ParseFormat(c.Format)
	if err != nil {
		return usecase.SpectrogramParams{}, fmt.Errorf("spectrogram.format: %w", err)
	}
	return usecase.SpectrogramParams{
		FrameSize:  c.FrameSize,
		HopSize:    c.HopSize,
		SampleRate: c.SampleRate,
		TopDB:      c.TopDB,
		Width:      c.Width,
		Height:     c.Height,
		Colormap:   cmap,
		Format:     format,
		Layout:     usecase.Layout(c.Layout),
	}, nil
}

func spectrogramJob(job string, s *config.Config) config.SpectrogramJob {
	if job == usecase.JobAudioSpectrograms {
		return s.SpectrogramAudio
	}
	return s.SpectrogramData
}

func jobPrefix(job string) string {
	if job == usecase.JobAudioSpectrograms {
		return "spectrogram_audio"
	}
	return "spectrogram_data"
}

// outputDir is the directory a job writes into and therefore locks.
func outputDir(job string, s *config.Config) string {
	switch job {
	case usecase.JobSpliceAudio:
		return s.SpliceAudio.OutputDir
	case usecase.JobConvertAudio:
		return s.ConvertAudio.OutputDir
	case usecase.JobSegmentData:
		return s.SegmentData.OutputDir
	case usecase.JobDataSpectrograms, usecase.JobAudioSpectrograms:
		return spectrogramJob(job, s).OutputDir
	case usecase.JobRename:
		return s.Rename.Dir
	case usecase.JobClipTranscripts:
		return s.Transcripts.OutputDir
	case usecase.JobCropImages:
		return s.CropImages.OutputDir
	}
	return ""
}

// ensure adapters implement ports
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.WAVCodec = (*wavfile.Adapter)(nil)
