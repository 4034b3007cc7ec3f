// Package memtable is a minimal sorted in-memory table implementing the
// MemTableCursor capability from §6. The original specification marks the
// write buffer itself out of scope — no WAL, no flush/freeze lifecycle —
// but an engine with no concrete MemTableCursor anywhere cannot exercise
// §4.8's LSM cursor or §8 scenario 1 end to end, so this is a minimal
// stand-in a caller may use directly or replace.
package memtable

import (
	"sort"
	"sync"

	"github.com/kvsst/sstcore/internal/keys"
)

type record struct {
	key   []byte
	ts    uint64
	value []byte
}

// Memtable holds a sorted slice of records under a single mutex. It is not
// a production memtable: no WAL, no size-based freeze.
type Memtable struct {
	mu      sync.Mutex
	records []record
}

// New returns an empty Memtable.
func New() *Memtable {
	return &Memtable{}
}

func compositeOf(r record) keys.Key { return keys.Key{UserKey: r.key, Seq: r.ts} }

// Put inserts or overwrites the entry for (key, ts).
func (m *Memtable) Put(key []byte, ts uint64, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	target := keys.Key{UserKey: key, Seq: ts}
	i := sort.Search(len(m.records), func(i int) bool {
		return keys.Compare(compositeOf(m.records[i]), target) >= 0
	})
	rec := record{key: append([]byte(nil), key...), ts: ts, value: append([]byte(nil), value...)}
	if i < len(m.records) && keys.Compare(compositeOf(m.records[i]), target) == 0 {
		m.records[i] = rec
		return
	}
	m.records = append(m.records, record{})
	copy(m.records[i+1:], m.records[i:])
	m.records[i] = rec
}

// Delete records a tombstone (empty value) for (key, ts).
func (m *Memtable) Delete(key []byte, ts uint64) {
	m.Put(key, ts, nil)
}

func (m *Memtable) snapshot() []record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]record, len(m.records))
	copy(out, m.records)
	return out
}

// Cursor is a point-in-time view over a Memtable's contents.
type Cursor struct {
	records []record
	idx     int
}

// NewCursor takes a snapshot of m and returns an unpositioned Cursor.
func NewCursor(m *Memtable) *Cursor {
	return &Cursor{records: m.snapshot(), idx: -1}
}

func (c *Cursor) Valid() bool { return c.idx >= 0 && c.idx < len(c.records) }

func (c *Cursor) Key() []byte {
	if !c.Valid() {
		return nil
	}
	return c.records[c.idx].key
}

func (c *Cursor) Value() []byte {
	if !c.Valid() {
		return nil
	}
	return c.records[c.idx].value
}

func (c *Cursor) Timestamp() uint64 {
	if !c.Valid() {
		return 0
	}
	return c.records[c.idx].ts
}

func (c *Cursor) NumActiveIterators() int { return 1 }

// SeekToFirst positions at the smallest record.
func (c *Cursor) SeekToFirst() error {
	c.idx = 0
	return nil
}

// SeekToKey positions at the first record whose composite key is >= target.
func (c *Cursor) SeekToKey(target keys.Key) error {
	c.idx = sort.Search(len(c.records), func(i int) bool {
		return keys.Compare(compositeOf(c.records[i]), target) >= 0
	})
	return nil
}

// Next advances to the next record.
func (c *Cursor) Next() error {
	if !c.Valid() {
		return nil
	}
	c.idx++
	return nil
}
