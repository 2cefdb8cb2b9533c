// Package masslynx decodes Waters MassLynx .raw directories.
//
// A .raw directory holds one _FUNCnnn.IDX/_FUNCnnn.DAT pair per acquisition
// function (an MS or UV spectrum) and one _CHROnnn.DAT file per analog
// channel. Companion files supply what the data files leave out:
//
//	_FUNCTNS.INF  label axis of the 2- and 4-byte formats
//	_extern.inf   polarity of every MS function
//	_HEADER.TXT   per-function mass calibration polynomials
//	_CHROMS.INF   name and unit of every analog channel
//
// # Calibration precision
//
// Calibration polynomials are evaluated in float64. MassLynx's own export
// tools accumulate the polynomial in float32, so at a label precision of 2
// or more decimals a calibrated mass can round to a different label than
// those tools report. At precision 0 and 1 the two agree for realistic
// mass ranges.
//
// The directory is read through an fs.FS so tests and callers can supply
// archives or in-memory trees.
package masslynx
