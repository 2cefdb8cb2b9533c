package section

import (
	"strings"
	"unicode/utf8"
)

// ReadString reads a Pascal string at offset, taking one character every
// gap bytes. It reports false when the string is out of range, empty after
// trimming, or not valid UTF-8.
func ReadString(data []byte, offset, gap int) (string, bool) {
	if gap < 1 || offset < 0 || offset >= len(data) {
		return "", false
	}

	n := int(data[offset]) * gap
	start := offset + 1
	end := min(start+n, len(data))

	buf := make([]byte, 0, n/gap)
	for i := start; i < end; i += gap {
		buf = append(buf, data[i])
	}
	if !utf8.Valid(buf) {
		return "", false
	}

	s := strings.TrimSpace(string(buf))

	return s, s != ""
}

// ReadHeader reads every field in fields. Unreadable or empty strings are
// omitted from the result.
func ReadHeader(data []byte, fields []MetaField, gap int) map[string]string {
	metadata := make(map[string]string, len(fields))
	for _, f := range fields {
		if s, ok := ReadString(data, f.Offset, gap); ok {
			metadata[f.Key] = s
		}
	}

	return metadata
}
