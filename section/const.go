package section

// Snapshot header layout.
const (
	SnapshotHeaderSize = 32     // fixed header size in bytes
	SnapshotMagic      = 0xCD10 // identifies a decoded snapshot
	SnapshotVersion    = 1      // current layout version

	FlagTextLabels = 0x01 // label axis holds text instead of numbers
)

// ChemStation .ms constants.
const (
	MSMagic            = 0x01320000 // big-endian uint32 at offset 0
	MSTypeOffset       = 0x4        // Pascal string, gap 1
	MSDataStartOffset  = 0x10A      // big-endian uint16; data start = v*2 - 2
	MSLCCountOffset    = 0x116      // big-endian uint32 scan count (LC)
	MSGCCountOffset    = 0x142      // little-endian uint32 scan count (GC)
	MSPartialDataStart = 0x2F2      // record start assumed for headerless partials
	MSLCType           = "MSD Spectral File"
	MSGap              = 1
)

// MS scan record framing around the mass/intensity pairs.
const (
	MSScanLeadSkip  = 2  // before the time
	MSScanTimeSkip  = 6  // between time and pair count
	MSScanCountSkip = 4  // between pair count and pairs
	MSScanTrailSkip = 10 // after the pairs
)

// UV scan record framing before the payload.
const (
	UVScanLeadSkip    = 4  // before the time
	UVScanHeaderSkip  = 14 // between time and payload
	UVWavelengthShift = 8  // wavelength range offset from the data start
	UVWavelengthScale = 20 // stored wavelengths are nm * 20
)

// Shared header offsets.
const (
	ScanCountOffset = 0x116 // big-endian uint32 in .ch FID and .uv files
	TimeRangeOffset = 0x11A // start/end time pair in .ch files
)
