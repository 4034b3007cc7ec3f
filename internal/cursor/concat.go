package cursor

import (
	"bytes"
	"sort"

	"github.com/kvsst/sstcore/internal/keys"
	"github.com/kvsst/sstcore/internal/sst"
)

// ConcatCursor chains an ordered list of SSTs with disjoint, ascending key
// ranges into a single sorted cursor, opening each underlying SST cursor
// lazily as iteration reaches it (§4.7).
type ConcatCursor struct {
	ssts []*sst.SST
	idx  int
	cur  *sst.Cursor
}

// NewConcatCursor returns a ConcatCursor over ssts, not yet positioned.
func NewConcatCursor(ssts []*sst.SST) *ConcatCursor {
	return &ConcatCursor{ssts: ssts}
}

func (c *ConcatCursor) Valid() bool { return c.cur != nil && c.cur.Valid() }

func (c *ConcatCursor) Key() []byte {
	if !c.Valid() {
		return nil
	}
	return c.cur.Key()
}

func (c *ConcatCursor) Value() []byte {
	if !c.Valid() {
		return nil
	}
	return c.cur.Value()
}

func (c *ConcatCursor) Timestamp() uint64 {
	if !c.Valid() {
		return 0
	}
	return c.cur.Timestamp()
}

// NumActiveIterators is always 1: a ConcatCursor holds at most one open
// underlying SST cursor at a time.
func (c *ConcatCursor) NumActiveIterators() int { return 1 }

// SeekToFirst opens the first SST and positions at its first entry.
func (c *ConcatCursor) SeekToFirst() error {
	return c.openAndSeek(0, nil)
}

// SeekToKey binary-searches the SSTs on last_key for the first one whose
// last_key >= target, opening only that one.
func (c *ConcatCursor) SeekToKey(target keys.Key) error {
	idx := sort.Search(len(c.ssts), func(i int) bool {
		return bytes.Compare(c.ssts[i].LastKey(), target.UserKey) >= 0
	})
	if idx >= len(c.ssts) {
		c.cur = nil
		return nil
	}
	return c.openAndSeek(idx, &target)
}

// Next advances the current SST cursor, opening the next SST on demand
// once the current one is exhausted.
func (c *ConcatCursor) Next() error {
	if !c.Valid() {
		return nil
	}
	if err := c.cur.Next(); err != nil {
		return err
	}
	if c.cur.Valid() {
		return nil
	}
	return c.openAndSeek(c.idx+1, nil)
}

func (c *ConcatCursor) openAndSeek(idx int, target *keys.Key) error {
	if idx < 0 || idx >= len(c.ssts) {
		c.cur = nil
		return nil
	}
	cur := sst.NewCursor(c.ssts[idx])
	var err error
	if target != nil {
		err = cur.SeekToKey(*target)
	} else {
		err = cur.SeekToFirst()
	}
	if err != nil {
		c.cur = nil
		return err
	}
	c.idx = idx
	c.cur = cur
	if !cur.Valid() {
		return c.openAndSeek(idx+1, nil)
	}
	return nil
}
