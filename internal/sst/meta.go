// Package sst implements the sorted-string table file format: data blocks
// followed by a block-meta index, a bloom filter, and two trailing
// section-offset footers.
//
// File layout, front to back:
//
//	<encoded block 0> <encoded block 1> … <encoded block m-1>
//	<block-meta section>
//	u32: byte offset at which block-meta section begins
//	<bloom filter section>
//	u32: byte offset at which bloom filter section begins
//
// Block bytes use little-endian integers internally (§4.1); the meta
// section and both trailing footers use big-endian ("network order"),
// per the format's mixed-endianness convention — see DESIGN.md Open
// Question 2.
package sst

import (
	"fmt"

	"github.com/kvsst/sstcore/internal/encoding"
	"github.com/kvsst/sstcore/internal/errs"
)

// BlockMeta indexes one data block: its byte offset in the file and the
// user-key bytes of its first and last entries.
type BlockMeta struct {
	Offset   uint32
	FirstKey []byte
	LastKey  []byte
}

func encodeMeta(metas []BlockMeta) []byte {
	buf := encoding.PutU32BE(nil, uint32(len(metas)))
	for _, m := range metas {
		buf = encoding.PutU32BE(buf, m.Offset)
		buf = encoding.PutU16BE(buf, uint16(len(m.FirstKey)))
		buf = append(buf, m.FirstKey...)
		buf = encoding.PutU16BE(buf, uint16(len(m.LastKey)))
		buf = append(buf, m.LastKey...)
	}
	return buf
}

func decodeMeta(buf []byte) ([]BlockMeta, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("%w: meta section shorter than count field", errs.ErrCorruptSst)
	}
	count := int(encoding.U32BE(buf[0:4]))
	pos := 4
	metas := make([]BlockMeta, 0, count)
	for i := 0; i < count; i++ {
		if pos+4 > len(buf) {
			return nil, fmt.Errorf("%w: meta entry %d truncated before offset", errs.ErrCorruptSst, i)
		}
		offset := encoding.U32BE(buf[pos : pos+4])
		pos += 4
		if pos+2 > len(buf) {
			return nil, fmt.Errorf("%w: meta entry %d truncated before first_key_len", errs.ErrCorruptSst, i)
		}
		fkLen := int(encoding.U16BE(buf[pos : pos+2]))
		pos += 2
		if fkLen < 0 || pos+fkLen > len(buf) {
			return nil, fmt.Errorf("%w: meta entry %d first_key_len out of range", errs.ErrCorruptSst, i)
		}
		fk := append([]byte(nil), buf[pos:pos+fkLen]...)
		pos += fkLen
		if pos+2 > len(buf) {
			return nil, fmt.Errorf("%w: meta entry %d truncated before last_key_len", errs.ErrCorruptSst, i)
		}
		lkLen := int(encoding.U16BE(buf[pos : pos+2]))
		pos += 2
		if lkLen < 0 || pos+lkLen > len(buf) {
			return nil, fmt.Errorf("%w: meta entry %d last_key_len out of range", errs.ErrCorruptSst, i)
		}
		lk := append([]byte(nil), buf[pos:pos+lkLen]...)
		pos += lkLen
		metas = append(metas, BlockMeta{Offset: offset, FirstKey: fk, LastKey: lk})
	}
	return metas, nil
}
