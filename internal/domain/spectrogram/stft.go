// Package spectrogram computes short-time power spectra and renders them as
// images.
package spectrogram

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

var ErrEmptySignal = errors.New("spectrogram: empty signal")

// Spectrogram holds one row of Bins values per analysis frame.
type Spectrogram struct {
	Frames int
	Bins   int
	Data   [][]float64
}

// STFT returns the power spectrum |X|^2 of centred, Hann-windowed frames.
// The signal is zero padded by frameSize/2 on both ends, giving
// 1+len(signal)/hop frames of frameSize/2+1 bins.
func STFT(signal []float64, frameSize, hop int) (Spectrogram, error) {
	if len(signal) == 0 {
		return Spectrogram{}, ErrEmptySignal
	}
	if frameSize < 2 || frameSize%2 != 0 {
		return Spectrogram{}, fmt.Errorf("spectrogram: frame size must be even and >= 2, got %d", frameSize)
	}
	if hop <= 0 {
		return Spectrogram{}, fmt.Errorf("spectrogram: hop must be > 0, got %d", hop)
	}

	half := frameSize / 2
	padded := make([]float64, len(signal)+frameSize)
	copy(padded[half:], signal)

	frames := 1 + (len(padded)-frameSize)/hop
	bins := half + 1
	window := hann(frameSize)
	fft := fourier.NewFFT(frameSize)

	buf := make([]float64, frameSize)
	coeffs := make([]complex128, bins)
	data := make([][]float64, frames)
	for f := 0; f < frames; f++ {
		off := f * hop
		for i := range buf {
			buf[i] = padded[off+i] * window[i]
		}
		coeffs = fft.Coefficients(coeffs, buf)
		row := make([]float64, bins)
		for k, c := range coeffs {
			m := cmplx.Abs(c)
			row[k] = m * m
		}
		data[f] = row
	}
	return Spectrogram{Frames: frames, Bins: bins, Data: data}, nil
}

// PowerToDB converts power to decibels relative to 1.0. Values below amin are
// raised to amin, and when topDB > 0 everything is floored at max-topDB.
func PowerToDB(s Spectrogram, amin, topDB float64) Spectrogram {
	if amin <= 0 {
		amin = 1e-10
	}
	out := Spectrogram{Frames: s.Frames, Bins: s.Bins, Data: make([][]float64, len(s.Data))}
	peak := math.Inf(-1)
	for f, row := range s.Data {
		dst := make([]float64, len(row))
		for k, p := range row {
			dst[k] = 10 * math.Log10(math.Max(amin, p))
			if dst[k] > peak {
				peak = dst[k]
			}
		}
		out.Data[f] = dst
	}
	if topDB > 0 {
		floor := peak - topDB
		for _, row := range out.Data {
			for k, v := range row {
				if v < floor {
					row[k] = floor
				}
			}
		}
	}
	return out
}

// Range returns the minimum and maximum value.
func (s Spectrogram) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range s.Data {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// periodic Hann window, matching the FFT-bin convention.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}
