// Package masshunter decodes Agilent MassHunter profile spectra from the
// AcqData directory of a .d acquisition.
//
// MSScan.bin holds one record per scan whose layout is declared by the
// MSScan.xsd schema shipped next to it; each record locates an
// LZF-compressed block in MSProfile.bin. MSMassCal.bin supplies a quadratic
// mass calibration per scan and MSTS.xml the expected scan count. Without
// MSTS.xml the scan table is read until it runs out.
package masshunter
