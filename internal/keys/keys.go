// Package keys implements the composite key used throughout the storage
// engine: a user byte string plus an optional 64-bit timestamp.
//
// Two views are provided: Key is a borrowed view over caller-owned bytes
// (used when comparing against a probe during a seek), and Owned is a
// self-contained copy (used when a cursor must retain a key across a call
// to Next on the underlying block or file).
//
// Reference: RocksDB v10.7.5 db/dbformat.h (ParsedInternalKey / InternalKey)
// adapted so that the timestamp breaks ties instead of a sequence+type
// trailer, per the storage-layer specification this package implements.
package keys

import "bytes"

// Key is a borrowed view of a user key plus timestamp. It does not own the
// backing array for UserKey; callers must not retain it past the lifetime
// of that array.
type Key struct {
	UserKey []byte
	Seq     uint64 // timestamp; zero in non-versioned mode
}

// Owned is a self-contained copy of a Key, safe to retain across mutation
// of the buffer it was copied from.
type Owned struct {
	UserKey []byte
	Seq     uint64
}

// Borrow returns a borrowed Key view over o.
func (o Owned) Borrow() Key {
	return Key{UserKey: o.UserKey, Seq: o.Seq}
}

// Clone returns an Owned copy of k.
func (k Key) Clone() Owned {
	buf := make([]byte, len(k.UserKey))
	copy(buf, k.UserKey)
	return Owned{UserKey: buf, Seq: k.Seq}
}

// CloneInto copies k into dst, reusing dst's backing array when it has
// enough capacity, and returns the resulting Owned key.
func CloneInto(dst []byte, k Key) ([]byte, Owned) {
	dst = append(dst[:0], k.UserKey...)
	return dst, Owned{UserKey: dst, Seq: k.Seq}
}

// Compare orders two keys: ascending on the user-key bytes, then descending
// on the timestamp so that a newer version of the same user key sorts
// before an older one.
func Compare(a, b Key) int {
	if c := bytes.Compare(a.UserKey, b.UserKey); c != 0 {
		return c
	}
	switch {
	case a.Seq > b.Seq:
		return -1
	case a.Seq < b.Seq:
		return 1
	default:
		return 0
	}
}

// Less reports whether a sorts strictly before b.
func Less(a, b Key) bool {
	return Compare(a, b) < 0
}
