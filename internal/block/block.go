// Package block implements the atomic read unit of the storage format: a
// prefix-compressed sorted group of entries, its size-bounded builder, and
// the cursor that walks it.
//
// Byte layout (little-endian throughout), per the storage format's block
// codec:
//
//	entries[0] entries[1] … entries[n-1] off[0] off[1] … off[n-1] n
//
// where each entry is u16 overlap_len, u16 rest_len, rest_bytes, u64
// timestamp, u16 value_len, value_bytes, and off[i] is the 16-bit byte
// offset of entry i within the entries region. Decoding proceeds
// right-to-left: read n, then the offset array, then the entries region.
//
// This is a different layout from the teacher's restart-point block
// format (internal/block/block.go in the example pack); see DESIGN.md
// Open Question 1 for why the prefix-compressed-against-first-key form
// was chosen instead.
package block

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/kvsst/sstcore/internal/errs"
)

// entryHeaderLen is the fixed portion of an encoded entry before its
// variable-length rest_bytes and value_bytes: overlap_len(2) + rest_len(2)
// + timestamp(8) + value_len(2).
const entryHeaderLen = 2 + 2 + 8 + 2

// Block is a decoded view over an immutable, already-encoded byte buffer.
// Once constructed it is never mutated and may be shared across cursors.
type Block struct {
	Data []byte
}

// ErrEmptyBlock is returned by Builder.Build when no entry was added.
var ErrEmptyBlock = errors.New("block: cannot build an empty block")

func (b *Block) numEntries() (int, error) {
	if len(b.Data) < 2 {
		return 0, fmt.Errorf("%w: block shorter than entry count field", errs.ErrCorruptBlock)
	}
	return int(binary.LittleEndian.Uint16(b.Data[len(b.Data)-2:])), nil
}

// offsetsStart returns the byte offset within Data where the offset array
// begins, given n entries. It is also the exclusive end of the entries
// region.
func (b *Block) offsetsStart(n int) int {
	return len(b.Data) - 2 - 2*n
}

func (b *Block) offsetAt(n, i int) (int, error) {
	start := b.offsetsStart(n)
	pos := start + 2*i
	if start < 0 || pos < 0 || pos+2 > len(b.Data) {
		return 0, fmt.Errorf("%w: offset index %d out of range", errs.ErrCorruptBlock, i)
	}
	return int(binary.LittleEndian.Uint16(b.Data[pos : pos+2])), nil
}

// entryBounds returns the [start, end) byte range of entry i within Data.
func (b *Block) entryBounds(i int) (int, int, error) {
	n, err := b.numEntries()
	if err != nil {
		return 0, 0, err
	}
	if i < 0 || i >= n {
		return 0, 0, fmt.Errorf("%w: entry index %d out of range (n=%d)", errs.ErrCorruptBlock, i, n)
	}
	start, err := b.offsetAt(n, i)
	if err != nil {
		return 0, 0, err
	}
	end := b.offsetsStart(n)
	if i+1 < n {
		end, err = b.offsetAt(n, i+1)
		if err != nil {
			return 0, 0, err
		}
	}
	if end < start || end > b.offsetsStart(n) || start > len(b.Data) {
		return 0, 0, fmt.Errorf("%w: entry %d has inconsistent bounds [%d,%d)", errs.ErrCorruptBlock, i, start, end)
	}
	return start, end, nil
}

// decodedEntry is the parsed form of a single entry, with rest left as a
// slice into the original buffer and the value as an offset and length
// within it.
type decodedEntry struct {
	overlapLen int
	rest       []byte
	ts         uint64
	valueOff   int // offset of value within the decoded buf
	valueLen   int
}

func decodeEntry(buf []byte) (decodedEntry, error) {
	if len(buf) < entryHeaderLen {
		return decodedEntry{}, fmt.Errorf("%w: entry shorter than header", errs.ErrCorruptBlock)
	}
	overlap := int(binary.LittleEndian.Uint16(buf[0:2]))
	restLen := int(binary.LittleEndian.Uint16(buf[2:4]))
	pos := 4
	if restLen < 0 || pos+restLen > len(buf) {
		return decodedEntry{}, fmt.Errorf("%w: rest_len %d out of range", errs.ErrCorruptBlock, restLen)
	}
	rest := buf[pos : pos+restLen]
	pos += restLen
	if pos+8 > len(buf) {
		return decodedEntry{}, fmt.Errorf("%w: entry truncated before timestamp", errs.ErrCorruptBlock)
	}
	ts := binary.LittleEndian.Uint64(buf[pos : pos+8])
	pos += 8
	if pos+2 > len(buf) {
		return decodedEntry{}, fmt.Errorf("%w: entry truncated before value_len", errs.ErrCorruptBlock)
	}
	valLen := int(binary.LittleEndian.Uint16(buf[pos : pos+2]))
	pos += 2
	if valLen < 0 || pos+valLen > len(buf) {
		return decodedEntry{}, fmt.Errorf("%w: value_len %d out of range", errs.ErrCorruptBlock, valLen)
	}
	return decodedEntry{overlapLen: overlap, rest: rest, ts: ts, valueOff: pos, valueLen: valLen}, nil
}

func commonPrefix(a, b []byte) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
