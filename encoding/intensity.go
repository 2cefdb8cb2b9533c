package encoding

import (
	"math"

	"github.com/arloliu/chromadec/endian"
)

// MSPairSize is the width of one ChemStation .ms mass/intensity pair.
const MSPairSize = 4

// MassScale divides raw ChemStation .ms masses into m/z units.
const MassScale = 20

var be = endian.GetBigEndianEngine()

// DecodeIntensity2 decodes a MassLynx 2-byte intensity:
// (enc >> 3) · 4^(enc & 0x7).
func DecodeIntensity2(enc uint16) float64 {
	return math.Ldexp(float64(enc>>3), 2*int(enc&0x7))
}

// DecodeIntensity4 decodes a MassLynx 4-byte intensity.
//
// The low 21 bits are a fixed-point mantissa with 10 fractional bits and the
// top 10 bits an exponent biased by 10:
// (enc & 0x1FFFFF) / 1024 · 2^((enc >> 22) − 10).
func DecodeIntensity4(enc uint32) float64 {
	base := enc & 0x1FFFFF
	power := int(enc >> 22)

	return math.Ldexp(float64(base), power-20)
}

// DecodeMSPair decodes one big-endian ChemStation .ms pair.
//
// Returns the mass in m/z (raw / 20, not yet rounded) and the intensity
// 8^(enc >> 14) · (enc & 0x3FFF).
func DecodeMSPair(unit []byte) (mass, intensity float64) {
	rawMass := be.Uint16(unit[0:2])
	enc := be.Uint16(unit[2:4])

	mass = float64(rawMass) / MassScale
	intensity = math.Ldexp(float64(enc&0x3FFF), 3*int(enc>>14))

	return mass, intensity
}
