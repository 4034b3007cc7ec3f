package sst

import (
	"github.com/kvsst/sstcore/internal/block"
	"github.com/kvsst/sstcore/internal/keys"
)

// Cursor seeks to the right block via the SST's meta index, then delegates
// to a block.Cursor, advancing across blocks transparently on exhaustion.
type Cursor struct {
	sst       *SST
	blkIdx    int
	blkCursor *block.Cursor
	valid     bool
}

// NewCursor returns a Cursor over s, initially invalid until positioned.
func NewCursor(s *SST) *Cursor {
	return &Cursor{sst: s}
}

func (c *Cursor) Valid() bool { return c.valid }

func (c *Cursor) Key() []byte {
	if !c.valid {
		return nil
	}
	return c.blkCursor.Key()
}

func (c *Cursor) Value() []byte {
	if !c.valid {
		return nil
	}
	return c.blkCursor.Value()
}

func (c *Cursor) Timestamp() uint64 {
	if !c.valid {
		return 0
	}
	return c.blkCursor.Timestamp()
}

// NumActiveIterators satisfies the cursor capability; an SST cursor always
// holds exactly one active block cursor.
func (c *Cursor) NumActiveIterators() int { return 1 }

// SeekToFirst loads block 0 via the cache and positions at its first entry.
func (c *Cursor) SeekToFirst() error {
	return c.loadBlockAndSeek(0, nil)
}

// SeekToKey binary-searches the meta list for the block that may contain
// target, loads it, and seeks within it; if target lies strictly past that
// block's last key, advances to the next block's first entry.
func (c *Cursor) SeekToKey(target keys.Key) error {
	idx := c.sst.FindBlockIdx(target.UserKey)
	if err := c.loadBlockAndSeek(idx, &target); err != nil {
		return err
	}
	if !c.valid && idx < c.sst.NumBlocks() {
		return c.advanceBlock()
	}
	return nil
}

// Next advances the block cursor, rolling over to the next block when the
// current one is exhausted.
func (c *Cursor) Next() error {
	if !c.valid {
		return nil
	}
	if err := c.blkCursor.Next(); err != nil {
		c.valid = false
		return err
	}
	if c.blkCursor.Valid() {
		return nil
	}
	return c.advanceBlock()
}

func (c *Cursor) advanceBlock() error {
	return c.loadBlockAndSeek(c.blkIdx+1, nil)
}

func (c *Cursor) loadBlockAndSeek(idx int, target *keys.Key) error {
	if idx < 0 || idx >= c.sst.NumBlocks() {
		c.valid = false
		return nil
	}
	blk, err := c.sst.LoadBlock(idx)
	if err != nil {
		c.valid = false
		return err
	}
	bc := block.NewCursor(blk, c.sst.Logger())
	if target != nil {
		err = bc.SeekToKey(*target)
	} else {
		err = bc.SeekToFirst()
	}
	if err != nil {
		c.valid = false
		return err
	}
	c.blkIdx = idx
	c.blkCursor = bc
	c.valid = bc.Valid()
	return nil
}
