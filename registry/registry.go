// Package registry identifies which decoder handles a file.
//
// Single-file ChemStation formats are matched on magic bytes from a static
// table. Directory formats (MassHunter AcqData, MassLynx .raw) carry no
// magic and are classified by file name. Nothing is ever guessed: an
// unmatched input fails with errs.ErrUnrecognizedFormat.
package registry

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
	"github.com/arloliu/chromadec/section"
)

// Family is the file family implied by an extension.
type Family uint8

const (
	FamilyAny Family = iota
	FamilyCH
	FamilyUV
	FamilyMS
)

func (f Family) String() string {
	switch f {
	case FamilyCH:
		return ".ch"
	case FamilyUV:
		return ".uv"
	case FamilyMS:
		return ".ms"
	default:
		return "any"
	}
}

// FamilyOf maps a file name's extension to its family.
func FamilyOf(name string) Family {
	switch strings.ToLower(path.Ext(name)) {
	case ".ch":
		return FamilyCH
	case ".uv":
		return FamilyUV
	case ".ms":
		return FamilyMS
	default:
		return FamilyAny
	}
}

// Entry binds a magic value at a fixed offset to a sub-format.
type Entry struct {
	SubFormat format.SubFormat
	Family    Family
	Offset    int
	Magic     []byte
}

// Entries is the magic table, checked in order.
var Entries = []Entry{
	{format.SubFormatCHFID, FamilyCH, 0, []byte{0x03, '1', '7', '9'}},
	{format.SubFormatCH130, FamilyCH, 0, []byte{0x03, '1', '3', '0'}},
	{format.SubFormatCH30, FamilyCH, 0, []byte{0x02, '3', '0'}},
	{format.SubFormatUV131, FamilyUV, 0, []byte{0x03, '1', '3', '1'}},
	{format.SubFormatUV31, FamilyUV, 0, []byte{0x02, '3', '1'}},
	{format.SubFormatMS, FamilyMS, 0, []byte{0x01, 0x32, 0x00, 0x00}},
}

// Detection is the outcome of Detect.
type Detection struct {
	SubFormat format.SubFormat
	// Partial is set when the file has no declared scan count and is read
	// until the data runs out.
	Partial bool
	// Note explains the decision; decoders copy it into the annotations.
	Note string
}

// Detect identifies the sub-format of a single-file input.
//
// Parameters:
//   - data: the complete file contents
//   - family: the family implied by the extension, or FamilyAny
//
// Returns:
//   - Detection: the matched sub-format
//   - error: errs.ErrUnrecognizedFormat when nothing matches
func Detect(data []byte, family Family) (Detection, error) {
	for _, e := range Entries {
		if family != FamilyAny && e.Family != family {
			continue
		}
		end := e.Offset + len(e.Magic)
		if end > len(data) || !bytes.Equal(data[e.Offset:end], e.Magic) {
			continue
		}

		d := Detection{SubFormat: e.SubFormat, Note: fmt.Sprintf("magic matched %s", e.SubFormat)}
		if e.SubFormat == format.SubFormatUV131 && declaredScans(data) == 0 {
			d.SubFormat = format.SubFormatUVPartial
			d.Partial = true
			d.Note = "declared scan count is zero, reading as partial .uv"
		}

		return d, nil
	}

	if (family == FamilyAny || family == FamilyMS) && isMSPartial(data) {
		return Detection{
			SubFormat: format.SubFormatMSPartial,
			Partial:   true,
			Note:      fmt.Sprintf("no header, reading as partial .ms from 0x%X", section.MSPartialDataStart),
		}, nil
	}

	return Detection{}, fmt.Errorf("%d bytes, family %s: %w", len(data), family, errs.ErrUnrecognizedFormat)
}

func declaredScans(data []byte) uint32 {
	if len(data) < section.ScanCountOffset+4 {
		return 0
	}

	return binary.BigEndian.Uint32(data[section.ScanCountOffset:])
}

// isMSPartial checks the shallow partial signature: a null data-start
// pointer and enough bytes to hold the first record.
func isMSPartial(data []byte) bool {
	if len(data) < section.MSPartialDataStart {
		return false
	}

	return binary.BigEndian.Uint16(data[section.MSDataStartOffset:]) == 0
}

var (
	funcDATName = regexp.MustCompile(`(?i)^_FUNC\d{3}\.DAT$`)
	chroDATName = regexp.MustCompile(`(?i)^_CHRO\d{3}\.DAT$`)
)

// MSProfileName is the MassHunter profile spectrum file inside AcqData.
const MSProfileName = section.ProfileFile

// DetectName classifies directory-format members by base name.
func DetectName(name string) (format.SubFormat, bool) {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	switch {
	case funcDATName.MatchString(base):
		return format.SubFormatFuncDAT, true
	case chroDATName.MatchString(base):
		return format.SubFormatChroDAT, true
	case strings.EqualFold(base, MSProfileName):
		return format.SubFormatMSProfile, true
	default:
		return format.SubFormatUnknown, false
	}
}
