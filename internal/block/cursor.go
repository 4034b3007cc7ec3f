package block

import (
	"fmt"

	"github.com/kvsst/sstcore/internal/errs"
	"github.com/kvsst/sstcore/internal/keys"
	"github.com/kvsst/sstcore/internal/logging"
)

// Cursor is a stateful, single-threaded forward/seek iterator over a
// shared, immutable Block. The first key is retained separately from the
// moving cursor state, since every non-first entry's key reconstruction
// needs it (§9 "First-key retention").
type Cursor struct {
	block      *Block
	numEntries int
	firstKey   []byte

	idx   int
	key   []byte
	ts    uint64
	vlo   int
	vhi   int
	valid bool
	log   logging.Logger
}

// NewCursor returns a Cursor over b, initially invalid until positioned.
// logger is optional; when supplied it receives ErrCorruptBlock
// diagnostics under NSBlock. A nil or omitted logger falls back to
// logging.OrDefault.
func NewCursor(b *Block, logger ...logging.Logger) *Cursor {
	var lg logging.Logger
	if len(logger) > 0 {
		lg = logger[0]
	}
	return &Cursor{block: b, log: logging.OrDefault(lg)}
}

// Valid reports whether the cursor is positioned at a real entry.
func (c *Cursor) Valid() bool { return c.valid }

// Key returns the current entry's full reconstructed key. Valid only
// while the cursor remains positioned at the same entry.
func (c *Cursor) Key() []byte { return c.key }

// Timestamp returns the current entry's timestamp.
func (c *Cursor) Timestamp() uint64 { return c.ts }

// Value returns the current entry's value bytes.
func (c *Cursor) Value() []byte {
	if !c.valid {
		return nil
	}
	return c.block.Data[c.vlo:c.vhi]
}

// SeekToFirst positions the cursor at entry 0.
func (c *Cursor) SeekToFirst() error {
	n, err := c.block.numEntries()
	if err != nil {
		c.valid = false
		c.log.Errorf(logging.NSBlock+"SeekToFirst: %v", err)
		return err
	}
	if n == 0 {
		c.valid = false
		err := fmt.Errorf("%w: block has zero entries", errs.ErrCorruptBlock)
		c.log.Errorf(logging.NSBlock+"SeekToFirst: %v", err)
		return err
	}
	c.numEntries = n
	return c.loadAt(0)
}

// Next advances to the next entry. Once it moves out of range the cursor
// becomes invalid.
func (c *Cursor) Next() error {
	if !c.valid {
		return nil
	}
	ni := c.idx + 1
	if ni >= c.numEntries {
		c.valid = false
		return nil
	}
	return c.loadAt(ni)
}

// SeekToKey positions at the first entry whose composite key is >= target
// (bytes ascending, timestamp descending). It becomes invalid if no such
// entry exists. A linear scan from the first entry is acceptable for a
// block sized in kilobytes, per the format's design notes.
func (c *Cursor) SeekToKey(target keys.Key) error {
	if err := c.SeekToFirst(); err != nil {
		return err
	}
	for c.valid {
		cur := keys.Key{UserKey: c.key, Seq: c.ts}
		if keys.Compare(cur, target) >= 0 {
			return nil
		}
		if err := c.Next(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cursor) loadAt(i int) error {
	start, end, err := c.block.entryBounds(i)
	if err != nil {
		c.valid = false
		c.log.Errorf(logging.NSBlock+"loadAt(%d): %v", i, err)
		return err
	}
	de, err := decodeEntry(c.block.Data[start:end])
	if err != nil {
		c.valid = false
		c.log.Errorf(logging.NSBlock+"loadAt(%d): %v", i, err)
		return err
	}

	var full []byte
	if i == 0 {
		if de.overlapLen != 0 {
			c.valid = false
			err := fmt.Errorf("%w: first entry has nonzero overlap_len", errs.ErrCorruptBlock)
			c.log.Errorf(logging.NSBlock+"loadAt(0): %v", err)
			return err
		}
		full = append([]byte(nil), de.rest...)
		c.firstKey = append([]byte(nil), de.rest...)
	} else {
		if de.overlapLen > len(c.firstKey) {
			c.valid = false
			err := fmt.Errorf("%w: overlap_len %d exceeds first key length %d", errs.ErrCorruptBlock, de.overlapLen, len(c.firstKey))
			c.log.Errorf(logging.NSBlock+"loadAt(%d): %v", i, err)
			return err
		}
		full = make([]byte, 0, de.overlapLen+len(de.rest))
		full = append(full, c.firstKey[:de.overlapLen]...)
		full = append(full, de.rest...)
	}

	c.idx = i
	c.key = full
	c.ts = de.ts
	c.vlo = start + de.valueOff
	c.vhi = c.vlo + de.valueLen
	c.valid = len(full) > 0
	return nil
}
