package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/forPelevin/bioprep/internal/types"
)

type ConvertAudioInput struct {
	InputDir  string
	OutputDir string
	FromExt   string
	ToExt     string
}

// ConvertAudio transcodes every FromExt file (extension matched without
// regard to case) to <stem><ToExt>.
func (u Usecase) ConvertAudio(ctx context.Context, in ConvertAudioInput) (types.Report, error) {
	names, err := listFiles(in.InputDir, hasExtFold(in.FromExt))
	if err != nil {
		return types.Report{Job: JobConvertAudio}, err
	}
	if err := ensureDir(in.OutputDir); err != nil {
		return types.Report{Job: JobConvertAudio}, err
	}

	b := u.begin(JobConvertAudio, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return b.done(), err
		}
		b.item()

		src := filepath.Join(in.InputDir, name)
		out := filepath.Join(in.OutputDir, stem(name)+in.ToExt)
		if filepath.Clean(src) == filepath.Clean(out) {
			b.skip(name, "source already has the target extension")
			continue
		}
		if err := u.d.Media.ConvertAudio(ctx, src, out); err != nil {
			b.fail(name, fmt.Errorf("convert %s: %w", name, err))
			continue
		}
		b.wrote(name, out)
	}
	return b.done(), nil
}
