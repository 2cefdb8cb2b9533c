// Package encoding implements the numeric codecs used by vendor instrument files.
//
// Every decoder here is a pure function (or an immutable value type) over a
// byte span: no I/O, no shared state, and deterministic output, so each can be
// tested against literal byte fixtures.
//
// # Codecs
//
//   - DeltaRunDecoder: 16-bit delta runs with an absolute-value escape
//     (sentinel -0x8000), segmented or fixed-count
//   - DecodePacked6: MassLynx 6-byte key/value units
//   - DecodePacked8: MassLynx 8-byte key/value units with variable
//     integer/fraction split
//   - Fraction: bit-level reconstruction of bits / 2^width
//   - DecodeIntensity2, DecodeIntensity4: MassLynx fixed-width intensities
//   - DecodeMSPair: ChemStation .ms mass/intensity pairs
//
// # Byte Order
//
// The delta-run decoder takes an endian.EndianEngine because the same
// framing appears in big-endian .ch files and little-endian .uv files. The
// packed MassLynx units are always little-endian and the .ms pairs always
// big-endian, so those decoders fix the order.
package encoding
