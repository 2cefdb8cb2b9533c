package encoding

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func packed6(valBase int16, keyBase uint32, keyExp uint32, valPow uint32) []byte {
	unit := make([]byte, Packed6Size)
	binary.LittleEndian.PutUint16(unit[0:2], uint16(valBase))
	binary.LittleEndian.PutUint32(unit[2:6], keyBase<<9|keyExp<<4|valPow)

	return unit
}

func packed8(keyBits, valBits uint64) []byte {
	unit := make([]byte, Packed8Size)
	binary.LittleEndian.PutUint64(unit, keyBits<<28|valBits)

	return unit
}

func TestDecodePacked6(t *testing.T) {
	tests := []struct {
		name      string
		unit      []byte
		wantKey   float64
		wantValue float64
	}{
		{"unit exponent", packed6(50, 100, 23, 0), 100, 50},
		{"literal bytes", []byte{0x32, 0x00, 0x70, 0xC9, 0x00, 0x00}, 100, 50},
		{"scaled key", packed6(75, 100, 24, 0), 200, 75},
		{"fractional key", packed6(1, 201, 22, 0), 100.5, 1},
		{"value power of four", packed6(3, 100, 23, 2), 100, 48},
		{"negative value", packed6(-5, 100, 23, 1), 100, -20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value := DecodePacked6(tt.unit)
			require.Equal(t, tt.wantKey, key)
			require.Equal(t, tt.wantValue, value)
		})
	}
}

func TestDecodePacked8(t *testing.T) {
	t.Run("integer and half fractions", func(t *testing.T) {
		// key: 10 integer bits, 21 fraction bits
		keyBits := uint64(10)<<31 | uint64(500)<<21 | uint64(1)<<20
		// value: 12 integer bits, 9 fraction bits
		valBits := uint64(12)<<22 | uint64(1000)<<9 | uint64(1)<<8

		key, value := DecodePacked8(packed8(keyBits, valBits))
		require.Equal(t, 500.5, key)
		require.Equal(t, 1000.5, value)
	})

	t.Run("value width overflow becomes shift", func(t *testing.T) {
		keyBits := uint64(31)<<31 | uint64(7)
		valBits := uint64(25)<<22 | uint64(3)

		key, value := DecodePacked8(packed8(keyBits, valBits))
		require.Equal(t, 7.0, key)
		require.Equal(t, 48.0, value)
	})

	t.Run("pure fraction key", func(t *testing.T) {
		keyBits := uint64(1) << 30 // width 0, 0.5
		valBits := uint64(21) << 22

		key, value := DecodePacked8(packed8(keyBits, valBits))
		require.Equal(t, 0.5, key)
		require.Equal(t, 0.0, value)
	})
}

func TestFraction_MatchesDivision(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for width := uint(0); width <= 52; width++ {
		for range 64 {
			bits := rng.Uint64() & mask(width)
			want := float64(bits) / math.Ldexp(1, int(width))
			require.Equal(t, want, Fraction(bits, width), "width=%d bits=%#x", width, bits)
		}
	}
}

func TestFraction_IgnoresBitsAboveWidth(t *testing.T) {
	require.Equal(t, 0.5, Fraction(0b110, 2))
	require.Equal(t, 0.0, Fraction(0xFF, 0))
}
