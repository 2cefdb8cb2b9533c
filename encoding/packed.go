package encoding

import (
	"math"

	"github.com/arloliu/chromadec/endian"
)

// Packed unit widths used by MassLynx _FUNC .DAT files.
const (
	Packed6Size = 6
	Packed8Size = 8
)

// fractionExponent is the biased IEEE 754 exponent of 1.0.
const fractionExponent = uint64(0x3FF) << 52

var le = endian.GetLittleEndianEngine()

// DecodePacked6 decodes one 6-byte key/value unit.
//
// Layout (little-endian):
//
//	bytes 0-1: signed 16-bit value mantissa
//	bytes 2-5: uint32 raw
//	  raw >> 9          key mantissa
//	  (raw >> 4) & 0x1F key exponent, biased by 23
//	  raw & 0xF         value power of four
//
// key = mantissa · 2^(exponent − 23), value = mantissa · 4^power.
//
// The unit slice must hold at least Packed6Size bytes.
func DecodePacked6(unit []byte) (key, value float64) {
	raw := le.Uint32(unit[2:6])

	keyBase := raw >> 9
	keyPow := int((raw&0x1F0)>>4) - 23
	key = math.Ldexp(float64(keyBase), keyPow)

	valBase := int16(le.Uint16(unit[0:2]))
	valPow := int(raw & 0xF)
	value = math.Ldexp(float64(valBase), 2*valPow)

	return key, value
}

// DecodePacked8 decodes one 8-byte key/value unit.
//
// The little-endian uint64 splits into a 36-bit key field (raw >> 28) and a
// 28-bit value field (raw & 0xFFFFFFF). Each field stores its own integer
// width in its top bits; the remaining low bits are the fraction:
//
//	key:   width = field >> 31 (5 bits), fraction width = 31 − width
//	value: width = field >> 22 (6 bits), fraction width = 21 − width
//
// Value integer widths above 21 are capped at 21 and the excess becomes a
// left shift applied to the integer part.
//
// The unit slice must hold at least Packed8Size bytes.
func DecodePacked8(unit []byte) (key, value float64) {
	raw := le.Uint64(unit[0:8])
	keyBits := raw >> 28
	valBits := raw & 0xFFFFFFF

	keyIntWidth := uint(keyBits >> 31)
	keyFracWidth := 31 - keyIntWidth
	keyInt := (keyBits >> keyFracWidth) & mask(keyIntWidth)
	keyFrac := Fraction(keyBits&mask(keyFracWidth), keyFracWidth)
	key = float64(keyInt) + keyFrac

	valIntWidth := uint(valBits >> 22)
	var shift uint
	if valIntWidth > 21 {
		shift = valIntWidth - 21
		valIntWidth = 21
	}
	valFracWidth := 21 - valIntWidth
	valInt := ((valBits >> valFracWidth) & mask(valIntWidth)) << shift
	valFrac := Fraction(valBits&mask(valFracWidth), valFracWidth)
	value = float64(valInt) + valFrac

	return key, value
}

// Fraction reconstructs bits / 2^width by placing the bits directly into
// the mantissa of a double in [1, 2) and subtracting 1.0.
//
// The result is bit-identical to the legacy decoder for widths up to 52.
func Fraction(bits uint64, width uint) float64 {
	if width > 52 {
		return math.Ldexp(float64(bits&mask(width)), -int(width))
	}

	base := (bits & mask(width)) << (52 - width)

	return math.Float64frombits(fractionExponent|base) - 1.0
}

func mask(width uint) uint64 {
	if width >= 64 {
		return math.MaxUint64
	}

	return 1<<width - 1
}
