// Package imagecrop cuts vertical strips out of rendered spectrogram images.
// Windows are expressed in percent of the image width.
package imagecrop

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/forPelevin/bioprep/internal/types"
)

var ErrEmptyCrop = errors.New("crop window selects no columns")

// Columns converts a percent window to the pixel column range [x0, x1)
// within an image of the given width.
func Columns(w types.Window, width int) (int, int, error) {
	if w.Empty() {
		return 0, 0, fmt.Errorf("%w: %.3f:%.3f", ErrEmptyCrop, w.Start, w.End)
	}
	x0 := int(math.Floor(w.Start / 100 * float64(width)))
	x1 := int(math.Ceil(w.End / 100 * float64(width)))
	x0 = max(0, min(x0, width))
	x1 = max(0, min(x1, width))
	if x1 <= x0 {
		return 0, 0, fmt.Errorf("%w: %.3f:%.3f", ErrEmptyCrop, w.Start, w.End)
	}
	return x0, x1, nil
}

// Crop copies the columns selected by w, full height, into a new image whose
// origin is (0, 0).
func Crop(src image.Image, w types.Window) (*image.RGBA, error) {
	b := src.Bounds()
	x0, x1, err := Columns(w, b.Dx())
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, x1-x0, b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, image.Pt(b.Min.X+x0, b.Min.Y), draw.Src)
	return dst, nil
}
