package section

// MassLynx .raw directory layouts.
const (
	FuncIndexRecordSize = 22 // _FUNCnnn.IDX record
	FuncIndexPairsMask  = 0x3FFFFF
	FuncIndexTimeOffset = 12 // little-endian float32 minutes

	FuncInfRecordSize = 416 // _FUNCTNS.INF record, one per function
	FuncInfMassOffset = 160 // 32 little-endian float32 masses
	FuncInfMassCount  = 32

	ChromsInfStart      = 0x84 // first _CHROMS.INF record
	ChromsInfRecordSize = 0x55
	ChromsInfUnitField  = 5 // comma field holding the unit

	ChroDataStart = 0x80 // _CHROnnn.DAT (time, value) float32 pairs
	ChroPairSize  = 8
)

// MassLynx companion file names.
const (
	FunctionsFile = "_FUNCTNS.INF"
	ExternFile    = "_extern.inf"
	HeaderFile    = "_HEADER.TXT"
	ChromsFile    = "_CHROMS.INF"
)
