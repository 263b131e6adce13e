package usecase

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/forPelevin/bioprep/internal/domain/manifest"
	"github.com/forPelevin/bioprep/internal/types"
)

type SpliceAudioInput struct {
	ManifestPath string
	IDColumn     string
	InputDir     string
	OutputDir    string
	// Padding widens every window on both sides, clamped to the recording.
	Padding float64
}

// SpliceAudio cuts <id>.mp3 into one clip per manifest range. Clips are named
// after the unpadded range: <id>_<start>-<end>.mp3 with three decimals.
func (u Usecase) SpliceAudio(ctx context.Context, in SpliceAudioInput) (types.Report, error) {
	m, err := manifest.Load(in.ManifestPath, in.IDColumn)
	if err != nil {
		return types.Report{Job: JobSpliceAudio}, err
	}
	if err := ensureDir(in.OutputDir); err != nil {
		return types.Report{Job: JobSpliceAudio}, err
	}

	rows := m.Rows()
	b := u.begin(JobSpliceAudio, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return b.done(), err
		}
		b.item()

		src := filepath.Join(in.InputDir, row.ID+".mp3")
		if !isFile(src) {
			b.skip(row.ID, "audio file not found", "path", src)
			continue
		}
		windows, warns := row.Windows()
		b.warnings(warns)
		if len(windows) == 0 {
			continue
		}

		dur, err := u.d.Media.ProbeDuration(ctx, src)
		if err != nil {
			b.fail(row.ID, err)
			continue
		}
		for _, w := range windows {
			start := math.Max(0, w.Start-in.Padding)
			end := math.Min(dur.Seconds(), w.End+in.Padding)
			if start >= end {
				b.skip(row.ID, "window selects no audio", "start", w.Start, "end", w.End)
				continue
			}
			out := filepath.Join(in.OutputDir, fmt.Sprintf("%s_%.3f-%.3f.mp3", row.ID, w.Start, w.End))
			if err := u.d.Media.SpliceAudio(ctx, src, seconds(start), seconds(end), out); err != nil {
				b.fail(row.ID, err)
				continue
			}
			b.wrote(row.ID, out)
		}
	}
	return b.done(), nil
}
