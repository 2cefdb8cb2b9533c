package section

// MassHunter AcqData layouts.
const (
	ScanTablePointer  = 0x58 // little-endian uint32 offset of the first MSScan.bin record
	MassCalStart      = 0x4C
	MassCalRecordSize = 84 // (Scale, Base) float64 pair, then unused values
	ProfileHeaderSize = 16 // float64 start and step before the intensities
	ProfilePointSize  = 4  // little-endian uint32 intensity
	ScanRecordRoot    = "ScanRecordType"
)

// MassHunter AcqData file names.
const (
	TimeSegmentsFile = "MSTS.xml"
	ScanSchemaFile   = "MSScan.xsd"
	ScanFile         = "MSScan.bin"
	MassCalFile      = "MSMassCal.bin"
	ProfileFile      = "MSProfile.bin"
)
