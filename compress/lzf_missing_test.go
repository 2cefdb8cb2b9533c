//go:build nolzf

package compress

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
)

func TestLZF_NotBuilt(t *testing.T) {
	require.False(t, Available(format.CompressionLZF))

	_, err := GetBlockDecompressor(format.CompressionLZF)
	require.ErrorIs(t, err, errs.ErrMissingCapability)
}
