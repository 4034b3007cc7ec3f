package cursor

import (
	"bytes"
	"fmt"

	"github.com/kvsst/sstcore/internal/errs"
)

// BoundKind identifies whether an upper bound excludes, includes, or is
// absent.
type BoundKind int

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

// Bound is the LSM cursor's upper bound, per §4.8.
type Bound struct {
	Kind BoundKind
	Key  []byte
}

// LsmCursor composes an inner cursor (typically a TwoMergeCursor over the
// memtable and a MergeCursor of SST cursors) with an upper bound and a
// tombstone filter. On construction it immediately skips tombstones so
// that the first is_valid() reflects a real entry.
type LsmCursor struct {
	inner Cursor
	upper Bound
	valid bool
}

// NewLsmCursor wraps inner with upper, skipping any leading tombstones.
func NewLsmCursor(inner Cursor, upper Bound) (*LsmCursor, error) {
	c := &LsmCursor{inner: inner, upper: upper}
	if err := c.skipTombstonesAndCheckBound(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *LsmCursor) Valid() bool { return c.valid }

func (c *LsmCursor) Key() []byte {
	if !c.valid {
		return nil
	}
	return c.inner.Key()
}

func (c *LsmCursor) Value() []byte {
	if !c.valid {
		return nil
	}
	return c.inner.Value()
}

func (c *LsmCursor) Timestamp() uint64 {
	if !c.valid {
		return 0
	}
	return c.inner.Timestamp()
}

func (c *LsmCursor) NumActiveIterators() int { return c.inner.NumActiveIterators() }

// Next advances the inner cursor once, then skips tombstones; if the new
// key exceeds the upper bound, the cursor becomes invalid.
func (c *LsmCursor) Next() error {
	if !c.valid {
		return nil
	}
	if err := c.inner.Next(); err != nil {
		c.valid = false
		return err
	}
	return c.skipTombstonesAndCheckBound()
}

func (c *LsmCursor) skipTombstonesAndCheckBound() error {
	for c.inner.Valid() && len(c.inner.Value()) == 0 {
		if err := c.inner.Next(); err != nil {
			c.valid = false
			return err
		}
	}
	if !c.inner.Valid() || !c.withinUpperBound(c.inner.Key()) {
		c.valid = false
		return nil
	}
	c.valid = true
	return nil
}

func (c *LsmCursor) withinUpperBound(key []byte) bool {
	switch c.upper.Kind {
	case Included:
		return bytes.Compare(key, c.upper.Key) <= 0
	case Excluded:
		return bytes.Compare(key, c.upper.Key) < 0
	default:
		return true
	}
}

// FusedCursor wraps a Cursor so that once invalid, Next is a no-op, and
// once a Next call has failed, the cursor is permanently tainted: every
// subsequent Next returns ErrTaintedCursor (§4.8).
type FusedCursor struct {
	inner   Cursor
	tainted bool
}

// NewFusedCursor wraps inner.
func NewFusedCursor(inner Cursor) *FusedCursor {
	return &FusedCursor{inner: inner}
}

func (f *FusedCursor) Valid() bool { return !f.tainted && f.inner.Valid() }

func (f *FusedCursor) Key() []byte {
	if !f.Valid() {
		return nil
	}
	return f.inner.Key()
}

func (f *FusedCursor) Value() []byte {
	if !f.Valid() {
		return nil
	}
	return f.inner.Value()
}

func (f *FusedCursor) Timestamp() uint64 {
	if !f.Valid() {
		return 0
	}
	return f.inner.Timestamp()
}

func (f *FusedCursor) NumActiveIterators() int { return f.inner.NumActiveIterators() }

// Next is a no-op once the cursor is simply invalid; once a prior Next has
// failed, it permanently returns ErrTaintedCursor.
func (f *FusedCursor) Next() error {
	if f.tainted {
		return errs.ErrTaintedCursor
	}
	if !f.inner.Valid() {
		return nil
	}
	if err := f.inner.Next(); err != nil {
		f.tainted = true
		return fmt.Errorf("%w: %v", errs.ErrTaintedCursor, err)
	}
	return nil
}
