package sst

import (
	"path/filepath"
	"testing"

	"github.com/kvsst/sstcore/internal/cache"
	"github.com/kvsst/sstcore/internal/compression"
	"github.com/kvsst/sstcore/internal/keys"
)

func buildSST(t *testing.T, blockSize int, entries [][2]string) (*SST, *cache.BlockCache) {
	t.Helper()
	dir := t.TempDir()
	bc := cache.New(16)
	b := NewBuilder(blockSize, compression.NoCompression)
	for _, e := range entries {
		if err := b.Add([]byte(e[0]), 0, []byte(e[1])); err != nil {
			t.Fatalf("Add(%q): %v", e[0], err)
		}
	}
	s, err := b.Build(1, filepath.Join(dir, "000001.sst"), bc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s, bc
}

func TestSSTRoundTripMeta(t *testing.T) {
	entries := [][2]string{{"a", "1"}, {"b", "2"}, {"c", "3"}}
	s, _ := buildSST(t, 4096, entries)
	if string(s.FirstKey()) != "a" {
		t.Fatalf("FirstKey = %q", s.FirstKey())
	}
	if string(s.LastKey()) != "c" {
		t.Fatalf("LastKey = %q", s.LastKey())
	}
	if s.NumBlocks() != 1 {
		t.Fatalf("NumBlocks = %d, want 1", s.NumBlocks())
	}
}

func TestSSTFullScanReturnsInputOrder(t *testing.T) {
	entries := [][2]string{
		{"k1", "vvvvvvvvv"},
		{"k2", "vvvvvvvvv"},
		{"k3", "vvvvvvvvv"},
	}
	s, _ := buildSST(t, 32, entries) // forces a block split
	if s.NumBlocks() < 2 {
		t.Fatalf("expected the 32-byte block size to force a split, got %d blocks", s.NumBlocks())
	}

	c := NewCursor(s)
	if err := c.SeekToFirst(); err != nil {
		t.Fatalf("SeekToFirst: %v", err)
	}
	i := 0
	for c.Valid() {
		if string(c.Key()) != entries[i][0] {
			t.Fatalf("entry %d = %q, want %q", i, c.Key(), entries[i][0])
		}
		i++
		if err := c.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	if i != len(entries) {
		t.Fatalf("scanned %d entries, want %d", i, len(entries))
	}
}

func TestSeekAcrossBlocks(t *testing.T) {
	entries := [][2]string{
		{"k1", "vvvvvvvvv"},
		{"k2", "vvvvvvvvv"},
		{"k3", "vvvvvvvvv"},
	}
	s, _ := buildSST(t, 32, entries)

	seek := func(probe string) (string, bool) {
		c := NewCursor(s)
		if err := c.SeekToKey(keys.Key{UserKey: []byte(probe)}); err != nil {
			t.Fatalf("SeekToKey(%q): %v", probe, err)
		}
		if !c.Valid() {
			return "", false
		}
		return string(c.Key()), true
	}

	if got, ok := seek("k2"); !ok || got != "k2" {
		t.Fatalf("seek(k2) = %q,%v want k2,true", got, ok)
	}
	if got, ok := seek("k0"); !ok || got != "k1" {
		t.Fatalf("seek(k0) = %q,%v want k1,true", got, ok)
	}
	if _, ok := seek("k9"); ok {
		t.Fatalf("seek(k9) should be invalid")
	}
}

func TestMayContain(t *testing.T) {
	entries := [][2]string{{"apple", "1"}, {"banana", "2"}}
	s, _ := buildSST(t, 4096, entries)
	if !s.MayContain([]byte("apple")) {
		t.Fatalf("MayContain(apple) = false")
	}
}

func TestBlockCacheIsShared(t *testing.T) {
	entries := [][2]string{{"a", "1"}, {"b", "2"}}
	s, bc := buildSST(t, 4096, entries)
	if _, err := s.LoadBlock(0); err != nil {
		t.Fatalf("LoadBlock: %v", err)
	}
	if bc.Len() == 0 {
		t.Fatalf("expected block cache to hold the loaded block")
	}
}
