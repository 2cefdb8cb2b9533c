package compress

import (
	"errors"
	"fmt"

	"github.com/arloliu/chromadec/errs"
)

const (
	lzfMaxLiteral = 32
	lzfMaxOffset  = 1 << 13
	lzfMaxMatch   = 2 + 7 + 255
	lzfHashLog    = 14
)

var errLZFShortBuffer = errors.New("lzf: output buffer too small")

// LZFCompressor implements the LZF block format used by MassHunter profile
// spectra. Blocks carry no header; the decoded length is stored elsewhere.
type LZFCompressor struct{}

var (
	_ Codec             = (*LZFCompressor)(nil)
	_ BlockDecompressor = (*LZFCompressor)(nil)
)

// NewLZFCompressor creates a new LZF codec.
func NewLZFCompressor() LZFCompressor {
	return LZFCompressor{}
}

// Compress produces an LZF block. Matches are found greedily through a
// single-slot hash table over 3-byte prefixes.
func (c LZFCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var table [1 << lzfHashLog]int32
	out := make([]byte, 0, len(data)+len(data)/lzfMaxLiteral+1)
	anchor, ip := 0, 0

	for ip+2 < len(data) {
		h := lzfHash(data[ip], data[ip+1], data[ip+2])
		ref := int(table[h]) - 1
		table[h] = int32(ip + 1)

		off := ip - ref - 1
		if ref < 0 || off >= lzfMaxOffset ||
			data[ref] != data[ip] || data[ref+1] != data[ip+1] || data[ref+2] != data[ip+2] {
			ip++
			continue
		}

		limit := min(len(data)-ip, lzfMaxMatch)
		n := 3
		for n < limit && data[ref+n] == data[ip+n] {
			n++
		}

		out = appendLZFLiterals(out, data[anchor:ip])
		l := n - 2
		if l < 7 {
			out = append(out, byte(l<<5|off>>8))
		} else {
			out = append(out, byte(7<<5|off>>8), byte(l-7))
		}
		out = append(out, byte(off))

		ip += n
		anchor = ip
	}

	return appendLZFLiterals(out, data[anchor:]), nil
}

// Decompress decodes an LZF block of unknown size, growing the output
// buffer the same way LZ4Compressor.Decompress does.
func (c LZFCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	const maxSize = MaxBlockSize
	for bufSize := len(data) * 4; bufSize <= maxSize; bufSize *= 2 {
		buf := make([]byte, bufSize)
		n, err := lzfDecode(data, buf)
		if errors.Is(err, errLZFShortBuffer) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return buf[:n], nil
	}

	return nil, fmt.Errorf("lzf: decoded size exceeds %d bytes: %w", maxSize, errs.ErrCorruptPayload)
}

// DecompressBlock decodes data into exactly size bytes.
func (c LZFCompressor) DecompressBlock(data []byte, size int) ([]byte, error) {
	if size < 0 || size > MaxBlockSize {
		return nil, fmt.Errorf("lzf block of %d bytes: %w", size, errs.ErrCorruptPayload)
	}
	buf := make([]byte, size)
	n, err := lzfDecode(data, buf)
	if err != nil {
		if errors.Is(err, errLZFShortBuffer) {
			return nil, fmt.Errorf("lzf block exceeds %d bytes: %w", size, errs.ErrCorruptPayload)
		}

		return nil, err
	}
	if n != size {
		return nil, fmt.Errorf("lzf block decoded to %d bytes, want %d: %w", n, size, errs.ErrCorruptPayload)
	}

	return buf, nil
}

func lzfDecode(in, out []byte) (int, error) {
	ip, op := 0, 0
	for ip < len(in) {
		ctrl := int(in[ip])
		ip++

		if ctrl < lzfMaxLiteral {
			n := ctrl + 1
			if ip+n > len(in) {
				return 0, fmt.Errorf("lzf literal run overruns input at %d: %w", ip, errs.ErrCorruptPayload)
			}
			if op+n > len(out) {
				return 0, errLZFShortBuffer
			}
			copy(out[op:], in[ip:ip+n])
			ip += n
			op += n

			continue
		}

		n := ctrl >> 5
		if n == 7 {
			if ip >= len(in) {
				return 0, fmt.Errorf("lzf length byte missing at %d: %w", ip, errs.ErrCorruptPayload)
			}
			n += int(in[ip])
			ip++
		}
		if ip >= len(in) {
			return 0, fmt.Errorf("lzf offset byte missing at %d: %w", ip, errs.ErrCorruptPayload)
		}
		ref := op - (ctrl&0x1f)<<8 - 1 - int(in[ip])
		ip++
		n += 2

		if ref < 0 {
			return 0, fmt.Errorf("lzf back reference before start of output at %d: %w", ip, errs.ErrCorruptPayload)
		}
		if op+n > len(out) {
			return 0, errLZFShortBuffer
		}
		// byte-wise: source and destination may overlap
		for i := 0; i < n; i++ {
			out[op+i] = out[ref+i]
		}
		op += n
	}

	return op, nil
}

func appendLZFLiterals(out, lit []byte) []byte {
	for len(lit) > 0 {
		n := min(len(lit), lzfMaxLiteral)
		out = append(out, byte(n-1))
		out = append(out, lit[:n]...)
		lit = lit[n:]
	}

	return out
}

func lzfHash(a, b, c byte) uint32 {
	v := uint32(a)<<16 | uint32(b)<<8 | uint32(c)
	return (v * 2654435761) >> (32 - lzfHashLog)
}
