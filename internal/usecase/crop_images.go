package usecase

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"

	"github.com/forPelevin/bioprep/internal/domain/imagecrop"
	"github.com/forPelevin/bioprep/internal/domain/manifest"
	"github.com/forPelevin/bioprep/internal/types"
)

// imageExts is the lookup order for <id> images.
var imageExts = []string{".png", ".jpg", ".jpeg", ".bmp"}

type CropImagesInput struct {
	ManifestPath string
	IDColumn     string
	InputDir     string
	OutputDir    string
}

// CropImages cuts full-height strips out of <id> images at the manifest's
// percent-of-width ranges and writes them as <id>_<n>.bmp. n counts the
// strips actually written for the identifier.
func (u Usecase) CropImages(ctx context.Context, in CropImagesInput) (types.Report, error) {
	m, err := manifest.Load(in.ManifestPath, in.IDColumn)
	if err != nil {
		return types.Report{Job: JobCropImages}, err
	}
	if err := ensureDir(in.OutputDir); err != nil {
		return types.Report{Job: JobCropImages}, err
	}

	ids := m.IDs()
	b := u.begin(JobCropImages, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return b.done(), err
		}
		b.item()

		src, ok := findImage(in.InputDir, id)
		if !ok {
			b.skip(id, "image not found", "dir", in.InputDir)
			continue
		}
		windows, warns, _ := m.Windows(id)
		b.warnings(warns)
		if len(windows) == 0 {
			continue
		}
		img, err := decodeImage(src)
		if err != nil {
			b.fail(id, err)
			continue
		}

		n := 0
		for _, w := range windows {
			strip, err := imagecrop.Crop(img, w)
			if errors.Is(err, imagecrop.ErrEmptyCrop) {
				b.skip(id, "crop window selects no columns", "start", w.Start, "end", w.End)
				continue
			}
			if err != nil {
				b.fail(id, err)
				continue
			}
			out := filepath.Join(in.OutputDir, fmt.Sprintf("%s_%d.bmp", id, n))
			if err := writeFile(out, func(w io.Writer) error { return bmp.Encode(w, strip) }); err != nil {
				b.fail(id, fmt.Errorf("write crop: %w", err))
				continue
			}
			n++
			b.wrote(id, out)
		}
	}
	return b.done(), nil
}

func findImage(dir, id string) (string, bool) {
	for _, ext := range imageExts {
		p := filepath.Join(dir, id+ext)
		if isFile(p) {
			return p, true
		}
	}
	return "", false
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
