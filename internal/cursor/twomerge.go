package cursor

import (
	"bytes"

	"github.com/kvsst/sstcore/internal/keys"
)

// TwoMergeCursor merges exactly two sources, biasing ties toward a, the
// newer source — the shape §9 calls out for the memtable/SST merge
// ("a two-way merge cursor that biases ties toward the newer source").
type TwoMergeCursor struct {
	a, b Cursor
}

// NewTwoMergeCursor returns a TwoMergeCursor over a (newer) and b (older),
// both already positioned.
func NewTwoMergeCursor(a, b Cursor) *TwoMergeCursor {
	return &TwoMergeCursor{a: a, b: b}
}

func (t *TwoMergeCursor) useA() bool {
	if !t.a.Valid() {
		return false
	}
	if !t.b.Valid() {
		return true
	}
	ak := keys.Key{UserKey: t.a.Key(), Seq: t.a.Timestamp()}
	bk := keys.Key{UserKey: t.b.Key(), Seq: t.b.Timestamp()}
	return keys.Compare(ak, bk) <= 0
}

func (t *TwoMergeCursor) Valid() bool { return t.a.Valid() || t.b.Valid() }

func (t *TwoMergeCursor) Key() []byte {
	if t.useA() {
		return t.a.Key()
	}
	return t.b.Key()
}

func (t *TwoMergeCursor) Value() []byte {
	if t.useA() {
		return t.a.Value()
	}
	return t.b.Value()
}

func (t *TwoMergeCursor) Timestamp() uint64 {
	if t.useA() {
		return t.a.Timestamp()
	}
	return t.b.Timestamp()
}

func (t *TwoMergeCursor) NumActiveIterators() int { return 2 }

// Next advances the winning source; if b is currently shadowed by the same
// user key as a, b is advanced too so the duplicate is never surfaced.
func (t *TwoMergeCursor) Next() error {
	if !t.Valid() {
		return nil
	}
	if t.useA() {
		aKey := append([]byte(nil), t.a.Key()...)
		if err := t.a.Next(); err != nil {
			return err
		}
		if t.b.Valid() && bytes.Equal(t.b.Key(), aKey) {
			if err := t.b.Next(); err != nil {
				return err
			}
		}
		return nil
	}
	return t.b.Next()
}
