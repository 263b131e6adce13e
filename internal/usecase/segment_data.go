package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/forPelevin/bioprep/internal/domain/manifest"
	"github.com/forPelevin/bioprep/internal/domain/segment"
	"github.com/forPelevin/bioprep/internal/domain/series"
	"github.com/forPelevin/bioprep/internal/logging"
	"github.com/forPelevin/bioprep/internal/types"
)

type SegmentDataInput struct {
	ManifestPath   string
	IDColumn       string
	InputDir       string
	OutputDir      string
	Adjustment     types.Adjustment
	Naming         segment.Naming
	HeaderSentinel string
}

// SegmentData cuts every <id>.data recording listed in the manifest into
// Time,Current CSV segments, one per window that selects at least one sample.
func (u Usecase) SegmentData(ctx context.Context, in SegmentDataInput) (types.Report, error) {
	m, err := manifest.Load(in.ManifestPath, in.IDColumn)
	if err != nil {
		return types.Report{Job: JobSegmentData}, err
	}
	names, err := listFiles(in.InputDir, hasExtFold(".data"))
	if err != nil {
		return types.Report{Job: JobSegmentData}, err
	}
	if err := ensureDir(in.OutputDir); err != nil {
		return types.Report{Job: JobSegmentData}, err
	}
	sentinel := in.HeaderSentinel
	if sentinel == "" {
		sentinel = series.HeaderSentinel
	}
	naming := in.Naming
	if naming == "" {
		naming = segment.NamingIndex
	}

	b := u.begin(JobSegmentData, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return b.done(), err
		}
		b.item()

		id := stem(name)
		windows, warns, ok := m.Windows(id)
		if !ok {
			b.skip(id, "no timestamps for recording")
			continue
		}
		b.warnings(warns)

		ts, err := readSeries(filepath.Join(in.InputDir, name), sentinel)
		if errors.Is(err, series.ErrNoHeaderSentinel) {
			b.skip(id, "recording has no header sentinel", "sentinel", sentinel)
			continue
		}
		if err != nil {
			b.fail(id, err)
			continue
		}
		segs := segment.Extract(ts, windows, in.Adjustment)
		if len(segs) == 0 {
			b.log.Info("no window selected any samples", logging.FieldItem, id, "windows", len(windows))
			continue
		}
		taken := make(map[string]bool, len(segs))
		for _, seg := range segs {
			name := seg.FileName(id, naming, ".csv")
			if taken[name] {
				// windows sharing a start millisecond
				name = fmt.Sprintf("%s_%d_%d.csv", id, seg.Key(naming), seg.Index)
			}
			taken[name] = true
			out := filepath.Join(in.OutputDir, name)
			err := writeFile(out, func(w io.Writer) error {
				return series.WriteCSV(w, seg.Samples)
			})
			if err != nil {
				b.fail(id, fmt.Errorf("write segment %d: %w", seg.Index, err))
				continue
			}
			b.wrote(id, out)
		}
	}
	return b.done(), nil
}

func readSeries(path, sentinel string) (types.TimeSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ts, err := series.ReadData(f, sentinel)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return ts, nil
}
