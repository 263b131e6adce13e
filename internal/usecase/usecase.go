package usecase

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/forPelevin/bioprep/internal/domain/manifest"
	"github.com/forPelevin/bioprep/internal/logging"
	"github.com/forPelevin/bioprep/internal/ports"
	"github.com/forPelevin/bioprep/internal/types"
)

// Job names, also used as CLI subcommand names and report labels.
const (
	JobSpliceAudio       = "splice-audio"
	JobConvertAudio      = "convert-audio"
	JobSegmentData       = "segment-data"
	JobDataSpectrograms  = "spectrogram-data"
	JobAudioSpectrograms = "spectrogram-audio"
	JobRename            = "rename"
	JobClipTranscripts   = "clip-transcripts"
	JobCropImages        = "crop-images"
)

type Deps struct {
	Media  ports.MediaTool
	ASR    ports.ASR
	WAV    ports.WAVCodec
	Logger *slog.Logger
	// Progress receives a progress bar when set; nil keeps runs silent.
	Progress io.Writer
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Logger == nil {
		d.Logger = logging.NewNop()
	}
	return Usecase{d: d}
}

// batch carries the per-job report and logger through an item loop.
type batch struct {
	rep types.Report
	log *slog.Logger
	bar *progressbar.ProgressBar
}

func (u Usecase) begin(job string, total int) *batch {
	return &batch{
		rep: types.Report{Job: job},
		log: u.d.Logger.With(logging.FieldJob, job),
		bar: u.progress(job, total),
	}
}

func (u Usecase) progress(desc string, total int) *progressbar.ProgressBar {
	if u.d.Progress == nil {
		return progressbar.DefaultSilent(int64(total), desc)
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(u.d.Progress),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}

// item marks the start of one item.
func (b *batch) item() {
	b.rep.Items++
	_ = b.bar.Add(1)
}

func (b *batch) done() types.Report {
	_ = b.bar.Finish()
	b.log.Info("job finished",
		"items", b.rep.Items,
		"written", b.rep.Written,
		"skipped", b.rep.Skipped,
		"failed", b.rep.Failed,
	)
	return b.rep
}

func (b *batch) wrote(item, path string) {
	b.rep.Wrote(path)
	b.log.Debug("written", logging.FieldItem, item, logging.FieldOutput, path)
}

func (b *batch) skip(item, reason string, args ...any) {
	b.rep.Skipped++
	b.log.Warn(reason, append([]any{logging.FieldItem, item}, args...)...)
}

func (b *batch) fail(item string, err error) {
	b.rep.Failed++
	b.log.Error("item failed", logging.FieldItem, item, "error", err)
}

func (b *batch) warnings(warns []manifest.Warning) {
	for _, w := range warns {
		b.skip(w.ID, w.String())
	}
}

// listFiles returns the names of regular files in dir accepted by keep,
// sorted by name.
func listFiles(dir string, keep func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !keep(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

func hasExtFold(ext string) func(string) bool {
	return func(name string) bool {
		return strings.EqualFold(filepath.Ext(name), ext)
	}
}

func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// writeFile creates path, streams into it with fn and removes it again when
// anything fails.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return fn(f)
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
