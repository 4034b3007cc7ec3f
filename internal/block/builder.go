package block

import "github.com/kvsst/sstcore/internal/encoding"

// Builder accumulates entries, in non-decreasing key order, into a
// size-bounded Block.
type Builder struct {
	blockSize int
	data      []byte
	offsets   []uint16
	firstKey  []byte
}

// NewBuilder returns a Builder targeting blockSize bytes for the final
// encoded block.
func NewBuilder(blockSize int) *Builder {
	return &Builder{blockSize: blockSize}
}

// Empty reports whether any entry has been added yet.
func (b *Builder) Empty() bool { return len(b.offsets) == 0 }

// Add attempts to append (key, ts, value). It returns false without
// mutating the builder if the block's target size would be exceeded and
// the block is already non-empty; the first entry is always accepted
// regardless of size.
func (b *Builder) Add(key []byte, ts uint64, value []byte) bool {
	first := b.Empty()

	var overlap int
	if !first {
		overlap = commonPrefix(b.firstKey, key)
	}
	restLen := len(key) - overlap
	projected := entryHeaderLen + restLen + len(value)

	if !first {
		estimate := len(b.data) + 2*(len(b.offsets)+1) + 2 + projected
		if estimate > b.blockSize {
			return false
		}
	}

	offset := uint16(len(b.data))
	b.data = encoding.PutU16LE(b.data, uint16(overlap))
	b.data = encoding.PutU16LE(b.data, uint16(restLen))
	b.data = append(b.data, key[overlap:]...)
	b.data = encoding.PutU64LE(b.data, ts)
	b.data = encoding.PutU16LE(b.data, uint16(len(value)))
	b.data = append(b.data, value...)

	b.offsets = append(b.offsets, offset)
	if first {
		b.firstKey = append([]byte(nil), key...)
	}
	return true
}

// CurrentSizeEstimate returns the encoded size of the block as currently
// accumulated (not counting a hypothetical next entry).
func (b *Builder) CurrentSizeEstimate() int {
	if b.Empty() {
		return 0
	}
	return len(b.data) + 2*len(b.offsets) + 2
}

// Build consumes the builder and yields the encoded Block. It is illegal
// to build an empty block.
func (b *Builder) Build() (*Block, error) {
	if b.Empty() {
		return nil, ErrEmptyBlock
	}
	buf := make([]byte, 0, len(b.data)+2*len(b.offsets)+2)
	buf = append(buf, b.data...)
	for _, off := range b.offsets {
		buf = encoding.PutU16LE(buf, off)
	}
	buf = encoding.PutU16LE(buf, uint16(len(b.offsets)))
	return &Block{Data: buf}, nil
}

// Reset clears the builder so it can be reused for the next block.
func (b *Builder) Reset() {
	b.data = b.data[:0]
	b.offsets = b.offsets[:0]
	b.firstKey = nil
}
