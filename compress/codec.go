package compress

import (
	"fmt"

	"github.com/arloliu/chromadec/errs"
	"github.com/arloliu/chromadec/format"
)

// Compressor compresses a complete payload.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
// Thread Safety: Decompressor implementations must be safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Error conditions:
	//   - Returns error if input data is corrupted or invalid
	//   - Returns error if data was compressed with incompatible algorithm
	Decompress(data []byte) ([]byte, error)
}

// BlockDecompressor decompresses headerless blocks whose decoded length is
// stored out of band, as in MassHunter MSProfile.bin.
type BlockDecompressor interface {
	// DecompressBlock decodes data into exactly size bytes.
	//
	// Returns errs.ErrCorruptPayload if the block does not decode to size bytes.
	DecompressBlock(data []byte, size int) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// MaxBlockSize bounds the decoded size of a single block. Decoders reject
// larger sizes with errs.ErrCorruptPayload instead of allocating them.
const MaxBlockSize = 128 << 20

// builtinCodecs holds the codecs compiled into this build. Optional codecs
// add themselves from build-tagged files before main runs.
var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
//
// Returns:
//   - Codec: the registered codec
//   - error: errs.ErrMissingCapability if this build has no codec for the type
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%s decompression is not available in this build: %w", compressionType, errs.ErrMissingCapability)
}

// GetBlockDecompressor retrieves a codec able to decode sized blocks.
func GetBlockDecompressor(compressionType format.CompressionType) (BlockDecompressor, error) {
	codec, err := GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	block, ok := codec.(BlockDecompressor)
	if !ok {
		return nil, fmt.Errorf("%s codec does not decode sized blocks: %w", compressionType, errs.ErrMissingCapability)
	}

	return block, nil
}

// Available reports whether this build can decode the compression type.
func Available(compressionType format.CompressionType) bool {
	_, ok := builtinCodecs[compressionType]
	return ok
}
