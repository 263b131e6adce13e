package spectrogram

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"strings"
)

// Colormap maps a value in [0, 1] to a color.
type Colormap func(v float64) color.RGBA

type stop struct {
	at      float64
	r, g, b float64
}

var infernoStops = []stop{
	{0.000, 0, 0, 4},
	{0.125, 31, 12, 72},
	{0.250, 85, 15, 109},
	{0.375, 136, 34, 106},
	{0.500, 186, 54, 85},
	{0.625, 227, 89, 51},
	{0.750, 249, 140, 10},
	{0.875, 249, 201, 50},
	{1.000, 252, 255, 164},
}

var coolwarmStops = []stop{
	{0.00, 59, 76, 192},
	{0.25, 124, 159, 249},
	{0.50, 221, 221, 221},
	{0.75, 244, 154, 123},
	{1.00, 180, 4, 38},
}

func Inferno(v float64) color.RGBA  { return interpolate(infernoStops, v) }
func Coolwarm(v float64) color.RGBA { return interpolate(coolwarmStops, v) }

// ColormapByName resolves "inferno" or "coolwarm".
func ColormapByName(name string) (Colormap, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "inferno":
		return Inferno, nil
	case "coolwarm":
		return Coolwarm, nil
	default:
		return nil, fmt.Errorf("unknown colormap %q", name)
	}
}

func interpolate(stops []stop, v float64) color.RGBA {
	if math.IsNaN(v) || v <= 0 {
		s := stops[0]
		return color.RGBA{R: uint8(s.r), G: uint8(s.g), B: uint8(s.b), A: 255}
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if v > b.at {
			continue
		}
		t := (v - a.at) / (b.at - a.at)
		return color.RGBA{
			R: uint8(math.Round(a.r + t*(b.r-a.r))),
			G: uint8(math.Round(a.g + t*(b.g-a.g))),
			B: uint8(math.Round(a.b + t*(b.b-a.b))),
			A: 255,
		}
	}
	s := stops[len(stops)-1]
	return color.RGBA{R: uint8(s.r), G: uint8(s.g), B: uint8(s.b), A: 255}
}

// Render draws s as a width x height image with time running left to right
// and frequency bottom to top. Values are bilinearly sampled and scaled to
// the spectrogram's own range.
func Render(s Spectrogram, width, height int, cmap Colormap) (*image.RGBA, error) {
	if s.Frames == 0 || s.Bins == 0 {
		return nil, ErrEmptySignal
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("spectrogram: invalid image size %dx%d", width, height)
	}
	if cmap == nil {
		cmap = Inferno
	}
	lo, hi := s.Range()
	span := hi - lo

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		fy := scale(height-1-y, height, s.Bins)
		for x := 0; x < width; x++ {
			fx := scale(x, width, s.Frames)
			v := s.bilinear(fx, fy)
			n := 0.0
			if span > 0 {
				n = (v - lo) / span
			}
			img.SetRGBA(x, y, cmap(n))
		}
	}
	return img, nil
}

func (s Spectrogram) bilinear(fx, fy float64) float64 {
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	x1 := min(x0+1, s.Frames-1)
	y1 := min(y0+1, s.Bins-1)
	tx := fx - float64(x0)
	ty := fy - float64(y0)
	top := s.Data[x0][y0]*(1-tx) + s.Data[x1][y0]*tx
	bot := s.Data[x0][y1]*(1-tx) + s.Data[x1][y1]*tx
	return top*(1-ty) + bot*ty
}

// scale maps pixel i of n onto the index range [0, m-1].
func scale(i, n, m int) float64 {
	if n <= 1 || m <= 1 {
		return 0
	}
	return float64(i) * float64(m-1) / float64(n-1)
}

// Format is an image encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpg"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	default:
		return "", fmt.Errorf("unknown image format %q", s)
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	default:
		return png.Encode(w, img)
	}
}
