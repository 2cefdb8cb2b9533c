package masslynx

import (
	"fmt"
	"strings"

	"github.com/arloliu/chromadec/errs"
)

const instrumentBlock = "Instrument Parameters"

// parsePolarities reads one polarity per MS function from _extern.inf.
//
// Each function opens an "Instrument Parameters" block. Low resolution
// instruments put the polarity on the next line as "Polarity\t\t\t<value>";
// otherwise it is the second field of the line after that. The polarity is
// the last character of the value, "+" or "-". A block matching neither
// layout belongs to high resolution data, which is not supported.
func parsePolarities(data []byte) ([]string, error) {
	lines := strings.Split(asciiOnly(data), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}

	var polarities []string
	for i, line := range lines {
		if !strings.HasPrefix(line, instrumentBlock) {
			continue
		}

		polarity, ok := blockPolarity(lines[i+1:])
		if !ok {
			return nil, fmt.Errorf("%s block %d has no polarity, high resolution data: %w",
				instrumentBlock, len(polarities)+1, errs.ErrUnsupportedVariant)
		}
		polarities = append(polarities, polarity)
	}

	return polarities, nil
}

func blockPolarity(next []string) (string, bool) {
	if len(next) > 0 && strings.HasPrefix(next[0], "Polarity") {
		if _, value, ok := strings.Cut(next[0], "\t\t\t"); ok {
			value, _, _ = strings.Cut(value, "\t\t\t")
			return lastChar(value)
		}

		return "", false
	}

	if len(next) > 1 {
		fields := strings.Split(next[1], "\t")
		if len(fields) > 1 {
			return lastChar(fields[1])
		}
	}

	return "", false
}

func lastChar(s string) (string, bool) {
	if s == "" {
		return "", false
	}

	return s[len(s)-1:], true
}

// asciiOnly drops every byte outside 7-bit ASCII.
func asciiOnly(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c < 0x80 {
			b.WriteByte(c)
		}
	}

	return b.String()
}
