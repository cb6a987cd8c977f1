// Package analysis provides spectral tools for field diagnostics.
//
//   - [RealFFT2]: half-spectrum 2D DFT of a real grid
//   - [PowerSpectrum2D]: squared magnitude of [RealFFT2]
//   - [PowerSpectrum]: 1D power spectrum of a diagnostics series
//
// Transforms are computed with go-dsp, which handles lengths that are not
// powers of two.
package analysis
