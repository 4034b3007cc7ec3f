// Package compression provides optional per-block compression for SST
// data blocks. The storage format itself does not require compression —
// §8's round-trip properties hold byte-for-byte only with NoCompression —
// but the SST builder accepts a Type so a caller may trade CPU for disk.
//
// Reference: RocksDB v10.7.5 util/compression.h, util/compression.cc.
package compression

import (
	"fmt"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type identifies a block compression algorithm.
type Type uint8

const (
	// NoCompression stores blocks verbatim. This is the default, and the
	// only setting under which the format's byte-exact round-trip
	// properties are guaranteed.
	NoCompression Type = 0x0
	SnappyType    Type = 0x1
	LZ4Type       Type = 0x2
	ZstdType      Type = 0x3
)

func (t Type) String() string {
	switch t {
	case NoCompression:
		return "NoCompression"
	case SnappyType:
		return "Snappy"
	case LZ4Type:
		return "LZ4"
	case ZstdType:
		return "Zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Compress compresses data using t.
func Compress(t Type, data []byte) ([]byte, error) {
	switch t {
	case NoCompression:
		return data, nil
	case SnappyType:
		return snappy.Encode(nil, data), nil
	case LZ4Type:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		var ht [1 << 16]int
		n, err := lz4.CompressBlock(data, dst, ht[:])
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 {
			// incompressible; lz4 signals this by returning 0
			return data, nil
		}
		return dst[:n], nil
	case ZstdType:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", t)
	}
}

// Decompress reverses Compress. For LZ4, expectedSize must be the original
// uncompressed length (recorded by the caller alongside the block).
func Decompress(t Type, data []byte, expectedSize int) ([]byte, error) {
	switch t {
	case NoCompression:
		return data, nil
	case SnappyType:
		return snappy.Decode(nil, data)
	case LZ4Type:
		dst := make([]byte, expectedSize)
		n, err := lz4.UncompressBlock(data, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		return dst[:n], nil
	case ZstdType:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", t)
	}
}
