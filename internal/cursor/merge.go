package cursor

import (
	"bytes"
	"container/heap"

	"github.com/kvsst/sstcore/internal/keys"
)

// MergeCursor performs a k-way merge over independent, already-positioned
// child cursors, using a min-heap ordered by composite key. Ties are
// broken toward the child with the lowest index, by convention the
// highest-priority (newest) source; any other child currently positioned
// at the same user key is treated as a shadowed duplicate and advanced
// alongside the winner so it is never emitted.
type MergeCursor struct {
	children []Cursor
	h        *mergeHeap
}

// NewMergeCursor returns a MergeCursor over children, which must already
// be positioned (e.g. via SeekToFirst/SeekToKey on each).
func NewMergeCursor(children []Cursor) *MergeCursor {
	h := &mergeHeap{children: children}
	for i, c := range children {
		if c.Valid() {
			h.idxs = append(h.idxs, i)
		}
	}
	heap.Init(h)
	return &MergeCursor{children: children, h: h}
}

func (m *MergeCursor) Valid() bool { return m.h.Len() > 0 }

func (m *MergeCursor) current() Cursor {
	return m.children[m.h.idxs[0]]
}

func (m *MergeCursor) Key() []byte {
	if !m.Valid() {
		return nil
	}
	return m.current().Key()
}

func (m *MergeCursor) Value() []byte {
	if !m.Valid() {
		return nil
	}
	return m.current().Value()
}

func (m *MergeCursor) Timestamp() uint64 {
	if !m.Valid() {
		return 0
	}
	return m.current().Timestamp()
}

func (m *MergeCursor) NumActiveIterators() int { return m.h.Len() }

// Next advances the winning child and every other child tied with it on
// user key, so a lower-priority duplicate is never surfaced on a later
// call.
func (m *MergeCursor) Next() error {
	if !m.Valid() {
		return nil
	}
	winnerKey := append([]byte(nil), m.current().Key()...)
	for m.h.Len() > 0 {
		topIdx := m.h.idxs[0]
		if !bytes.Equal(m.children[topIdx].Key(), winnerKey) {
			break
		}
		c := m.children[topIdx]
		if err := c.Next(); err != nil {
			return err
		}
		if c.Valid() {
			heap.Fix(m.h, 0)
		} else {
			heap.Pop(m.h)
		}
	}
	return nil
}

type mergeHeap struct {
	idxs     []int
	children []Cursor
}

func (h *mergeHeap) Len() int { return len(h.idxs) }

func (h *mergeHeap) Less(i, j int) bool {
	a, b := h.children[h.idxs[i]], h.children[h.idxs[j]]
	ak := keys.Key{UserKey: a.Key(), Seq: a.Timestamp()}
	bk := keys.Key{UserKey: b.Key(), Seq: b.Timestamp()}
	if c := keys.Compare(ak, bk); c != 0 {
		return c < 0
	}
	return h.idxs[i] < h.idxs[j]
}

func (h *mergeHeap) Swap(i, j int) { h.idxs[i], h.idxs[j] = h.idxs[j], h.idxs[i] }

func (h *mergeHeap) Push(x any) { h.idxs = append(h.idxs, x.(int)) }

func (h *mergeHeap) Pop() any {
	old := h.idxs
	n := len(old)
	v := old[n-1]
	h.idxs = old[:n-1]
	return v
}
