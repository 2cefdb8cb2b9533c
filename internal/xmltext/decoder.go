// Package xmltext opens the small XML documents found next to instrument
// data (XSD schemas, MassHunter MSTS.xml), which are often UTF-16 encoded.
package xmltext

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewDecoder returns an xml.Decoder over data.
//
// Documents with a UTF-16 byte order mark are transcoded to UTF-8 up front,
// since their encoding declaration cannot be read before transcoding. Other
// non-UTF-8 declarations are resolved through charset.NewReaderLabel.
func NewDecoder(data []byte) (*xml.Decoder, error) {
	if bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE) {
		utf8, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("transcode utf-16 document: %w", err)
		}

		d := xml.NewDecoder(bytes.NewReader(utf8))
		d.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
			return input, nil
		}

		return d, nil
	}

	d := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, bomUTF8)))
	d.CharsetReader = charset.NewReaderLabel

	return d, nil
}

// Unmarshal decodes data into v the way xml.Unmarshal does, with the
// encoding handling of NewDecoder.
func Unmarshal(data []byte, v any) error {
	d, err := NewDecoder(data)
	if err != nil {
		return err
	}

	return d.Decode(v)
}
