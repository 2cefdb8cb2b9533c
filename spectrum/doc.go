// Package spectrum holds the normalized representation every decoder
// produces and the assembler that turns sparse per-scan observations into a
// dense time-by-label matrix.
//
// A DecodedFile has one time axis (minutes), one label axis and a matrix
// with a row per time and a column per label:
//
//	file.Matrix.Rows() == len(file.Times)
//	file.Matrix.Cols() == file.Labels.Len()
//
// Spectral data (MS masses, UV wavelengths) uses a numeric, strictly
// increasing label axis. Single-channel data (FID, CAD, ELSD, analog
// traces) uses a one-element text axis that may be empty.
//
// Values are created per decode call and are not modified after return.
package spectrum
