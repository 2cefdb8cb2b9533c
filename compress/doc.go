// Package compress provides the block codecs used by the decoders and by
// the snapshot container.
//
// # Codecs
//
//   - None: pass-through
//   - Zstd: pooled klauspost/compress encoders and decoders
//   - S2: fast Snappy-compatible blocks
//   - LZ4: raw LZ4 blocks via pierrec/lz4
//   - LZF: headerless LZF blocks as stored in MassHunter MSProfile.bin
//
// LZF support is compiled in by default. Building with the nolzf tag leaves
// it out; lookups then fail with errs.ErrMissingCapability so callers can
// report the capability as missing instead of guessing at the payload.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//		return err
//	}
//	packed, err := codec.Compress(raw)
//
// Sized blocks go through GetBlockDecompressor:
//
//	block, err := compress.GetBlockDecompressor(format.CompressionLZF)
//	if err != nil {
//		return err // errs.ErrMissingCapability
//	}
//	raw, err := block.DecompressBlock(payload, uncompressedSize)
//
// All codecs are safe for concurrent use.
package compress
