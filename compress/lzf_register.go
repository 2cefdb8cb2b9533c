//go:build !nolzf

package compress

import "github.com/arloliu/chromadec/format"

func init() {
	builtinCodecs[format.CompressionLZF] = NewLZFCompressor()
}
