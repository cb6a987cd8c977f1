package analysis

import (
	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/fieldsim/internal/field"
)

// RealFFT2 returns the non-redundant half of the 2D DFT of a real grid:
// all ny rows and the first nx/2+1 columns, the same layout as numpy's rfft2.
func RealFFT2(g *field.Grid) [][]complex128 {
	full := fft.FFT2Real(g.Rows())
	cols := g.NX/2 + 1
	out := make([][]complex128, len(full))
	for y, row := range full {
		out[y] = row[:cols]
	}
	return out
}

// PowerSpectrum2D returns |F|² of the real 2D DFT of g.
func PowerSpectrum2D(g *field.Grid) *field.Grid {
	spec := RealFFT2(g)
	ps := field.NewGrid(len(spec), g.NX/2+1)
	for y, row := range spec {
		for x, c := range row {
			re, im := real(c), imag(c)
			ps.Set(y, x, re*re+im*im)
		}
	}
	return ps
}

// PowerSpectrum returns the magnitude spectrum of a 1D series, zero-padded
// to the next power of two. Only the first half is returned.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	spec := fft.FFTReal(padded)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		re, im := real(spec[i]), imag(spec[i])
		ps[i] = re*re + im*im
	}
	return ps
}
