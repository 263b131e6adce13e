package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forPelevin/bioprep/internal/domain/rename"
	"github.com/forPelevin/bioprep/internal/logging"
	"github.com/forPelevin/bioprep/internal/types"
)

type RenameInput struct {
	Dir string
}

// Rename normalizes audio file names in place. Names that are already
// normalized are counted as skipped, so a second run changes nothing. A
// rename never replaces a different existing file.
func (u Usecase) Rename(ctx context.Context, in RenameInput) (types.Report, error) {
	names, err := listFiles(in.Dir, rename.IsAudio)
	if err != nil {
		return types.Report{Job: JobRename}, err
	}

	b := u.begin(JobRename, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return b.done(), err
		}
		b.item()

		target := rename.Normalize(name)
		if target == name {
			b.rep.Skipped++
			b.log.Debug("already normalized", logging.FieldItem, name)
			continue
		}
		src := filepath.Join(in.Dir, name)
		dst := filepath.Join(in.Dir, target)
		if err := checkTarget(src, dst); err != nil {
			b.fail(name, err)
			continue
		}
		if err := os.Rename(src, dst); err != nil {
			b.fail(name, err)
			continue
		}
		b.wrote(name, dst)
	}
	return b.done(), nil
}

// checkTarget allows dst to exist only when it is src itself, as happens on
// case-insensitive file systems.
func checkTarget(src, dst string) error {
	dstInfo, err := os.Lstat(dst)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	srcInfo, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if os.SameFile(srcInfo, dstInfo) {
		return nil
	}
	return fmt.Errorf("target %s already exists", filepath.Base(dst))
}
