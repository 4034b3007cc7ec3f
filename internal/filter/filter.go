// Package filter builds and serializes the per-SST bloom filter and
// computes the 32-bit key fingerprint the SST builder accumulates while
// writing data blocks.
//
// Grounded on PriyanshuSharma23-FlashLog's sst/writer.go, which wires
// github.com/bits-and-blooms/bloom/v3 directly rather than hand-rolling a
// bit-array encoder: its WriteTo/ReadFrom pair already produces a
// self-describing byte array (bit array plus hash-function count), which
// is exactly what §4.4's bloom filter section requires.
package filter

import (
	"bytes"
	"fmt"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/zeebo/xxh3"
)

// targetFalsePositiveRate is the rate the SST builder sizes its filter
// for, per §4.5.
const targetFalsePositiveRate = 0.01

// Fingerprint returns the 32-bit key fingerprint used both to populate the
// bloom filter at build time and to probe it at read time. Substitutes for
// the FarmHash-fingerprint family named in the original spec: no FarmHash
// Go port is available in the example pack, and XXH3 is already a direct
// dependency of the teacher's go.mod (declared but, before this module,
// never actually imported — see DESIGN.md).
func Fingerprint(key []byte) uint32 {
	return uint32(xxh3.Hash(key))
}

// Builder accumulates key fingerprints for a single SST's bloom filter.
type Builder struct {
	fingerprints []uint32
}

// NewBuilder returns an empty filter Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add records key's fingerprint.
func (b *Builder) Add(key []byte) {
	b.fingerprints = append(b.fingerprints, Fingerprint(key))
}

// Len returns the number of fingerprints recorded so far.
func (b *Builder) Len() int { return len(b.fingerprints) }

// Finish constructs a bloom filter sized for targetFalsePositiveRate over
// the accumulated fingerprints and serializes it as a self-describing byte
// array (bit array plus hash-function count), per §4.4.
func (b *Builder) Finish() ([]byte, error) {
	n := len(b.fingerprints)
	if n == 0 {
		n = 1 // avoid a zero-sized filter for an empty SST
	}
	bf := bloom.NewWithEstimates(uint(n), targetFalsePositiveRate)
	for _, fp := range b.fingerprints {
		var buf [4]byte
		buf[0] = byte(fp)
		buf[1] = byte(fp >> 8)
		buf[2] = byte(fp >> 16)
		buf[3] = byte(fp >> 24)
		bf.Add(buf[:])
	}
	var out bytes.Buffer
	if _, err := bf.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("serialize bloom filter: %w", err)
	}
	return out.Bytes(), nil
}

// Filter wraps a decoded bloom filter for membership testing.
type Filter struct {
	bf *bloom.BloomFilter
}

// Decode parses a bloom filter previously produced by Builder.Finish.
func Decode(data []byte) (*Filter, error) {
	bf := &bloom.BloomFilter{}
	if _, err := bf.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("decode bloom filter: %w", err)
	}
	return &Filter{bf: bf}, nil
}

// MayContain reports whether key's fingerprint may be present. A false
// result is a reliable negative; a true result may be a false positive.
func (f *Filter) MayContain(key []byte) bool {
	fp := Fingerprint(key)
	var buf [4]byte
	buf[0] = byte(fp)
	buf[1] = byte(fp >> 8)
	buf[2] = byte(fp >> 16)
	buf[3] = byte(fp >> 24)
	return f.bf.Test(buf[:])
}
