// Package encoding provides the two fixed-width integer codecs the storage
// layer needs: little-endian helpers for the interior of a block, and
// big-endian ("network order") helpers for the SST meta/footer boundary.
//
// Reference: RocksDB v10.7.5 util/coding.h, trimmed to the fixed-width
// subset this format uses (no varints: every length here is bounded by the
// block size and fits comfortably in 16 or 32 bits).
package encoding

import "encoding/binary"

// PutU16LE appends a little-endian uint16 to dst.
func PutU16LE(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

// PutU32LE appends a little-endian uint32 to dst.
func PutU32LE(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

// PutU64LE appends a little-endian uint64 to dst.
func PutU64LE(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// U16LE decodes a little-endian uint16 from the front of b.
func U16LE(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

// U32LE decodes a little-endian uint32 from the front of b.
func U32LE(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

// U64LE decodes a little-endian uint64 from the front of b.
func U64LE(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// PutU16BE appends a big-endian ("network order") uint16 to dst. Used only
// at the SST meta/footer boundary, per the format's mixed-endianness
// convention.
func PutU16BE(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

// PutU32BE appends a big-endian uint32 to dst.
func PutU32BE(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

// U16BE decodes a big-endian uint16 from the front of b.
func U16BE(b []byte) uint16 { return binary.BigEndian.Uint16(b) }

// U32BE decodes a big-endian uint32 from the front of b.
func U32BE(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
