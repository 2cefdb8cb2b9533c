// Package format defines the closed enumerations shared by every decoder:
// vendors, sub-formats, detectors and payload compression types.
package format

type (
	Vendor          uint8
	SubFormat       uint8
	Detector        uint8
	CompressionType uint8
)

const (
	VendorUnknown Vendor = iota
	VendorAgilent        // VendorAgilent covers ChemStation and MassHunter files.
	VendorWaters         // VendorWaters covers MassLynx .raw directories.
)

const (
	SubFormatUnknown SubFormat = iota

	// ChemStation single-file formats, identified by magic bytes.
	SubFormatCHFID       // .ch FID channel ("179").
	SubFormatCH130       // .ch CAD/ELSD/UV channel, version 130.
	SubFormatCH30        // .ch CAD/ELSD/UV channel, version 30.
	SubFormatUV131       // .uv spectra, version 131.
	SubFormatUV31        // .uv spectra, version 31.
	SubFormatUVPartial   // .uv version 131 without a declared scan count.
	SubFormatMS          // .ms spectra.
	SubFormatMSPartial   // .ms without a header (interrupted LC run).
	SubFormatMSProfile   // MassHunter MSProfile.bin with schema-described MSScan.bin.
	SubFormatFuncDAT     // MassLynx _FUNCnnn.DAT spectrum function.
	SubFormatChroDAT     // MassLynx _CHROnnn.DAT analog channel.
	subFormatSentinel    // keep last
)

const (
	DetectorNone Detector = iota
	DetectorUV
	DetectorMS
	DetectorFID
	DetectorCAD
	DetectorELSD
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
	CompressionLZF  CompressionType = 0x5 // CompressionLZF represents LZF block compression (MassHunter payloads).
)

func (v Vendor) String() string {
	switch v {
	case VendorAgilent:
		return "Agilent"
	case VendorWaters:
		return "Waters"
	default:
		return "Unknown"
	}
}

var subFormatNames = [...]string{
	SubFormatUnknown:   "Unknown",
	SubFormatCHFID:     "ChemStation CH FID",
	SubFormatCH130:     "ChemStation CH v130",
	SubFormatCH30:      "ChemStation CH v30",
	SubFormatUV131:     "ChemStation UV v131",
	SubFormatUV31:      "ChemStation UV v31",
	SubFormatUVPartial: "ChemStation UV partial",
	SubFormatMS:        "ChemStation MS",
	SubFormatMSPartial: "ChemStation MS partial",
	SubFormatMSProfile: "MassHunter MS profile",
	SubFormatFuncDAT:   "MassLynx function",
	SubFormatChroDAT:   "MassLynx analog",
}

func (s SubFormat) String() string {
	if s >= subFormatSentinel {
		return "Unknown"
	}

	return subFormatNames[s]
}

// Vendor returns the vendor that produces the sub-format.
func (s SubFormat) Vendor() Vendor {
	switch s {
	case SubFormatFuncDAT, SubFormatChroDAT:
		return VendorWaters
	case SubFormatUnknown, subFormatSentinel:
		return VendorUnknown
	default:
		return VendorAgilent
	}
}

// IsPartial reports whether the sub-format is a partial-file recovery variant.
func (s SubFormat) IsPartial() bool {
	return s == SubFormatUVPartial || s == SubFormatMSPartial
}

func (d Detector) String() string {
	switch d {
	case DetectorUV:
		return "UV"
	case DetectorMS:
		return "MS"
	case DetectorFID:
		return "FID"
	case DetectorCAD:
		return "CAD"
	case DetectorELSD:
		return "ELSD"
	default:
		return "None"
	}
}

// ParseDetector maps a detector name back to its enum value.
// Unknown names map to DetectorNone.
func ParseDetector(name string) Detector {
	switch name {
	case "UV":
		return DetectorUV
	case "MS":
		return DetectorMS
	case "FID":
		return DetectorFID
	case "CAD":
		return DetectorCAD
	case "ELSD":
		return DetectorELSD
	default:
		return DetectorNone
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionLZF:
		return "LZF"
	default:
		return "Unknown"
	}
}
