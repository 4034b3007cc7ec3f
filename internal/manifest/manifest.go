// Package manifest holds the level manifest: the ordered list of tiers
// defining the current state of the on-disk tree (§3). It is a thin,
// thread-safe container — the transform from one manifest state to the
// next lives in internal/compaction, which operates on immutable
// snapshots taken from here.
package manifest

import "sync"

// Tier is a group of SST ids treated as a unit by the tiered compaction
// planner.
type Tier struct {
	ID     uint64
	SstIDs []uint64
}

// Manifest is the mutable, thread-safe home for the current ordered tier
// list. Reads take an immutable snapshot; writes replace the whole list
// under exclusive access, matching §5's "advanced... under exclusive
// access".
type Manifest struct {
	mu    sync.RWMutex
	tiers []Tier
}

// New returns a Manifest seeded with tiers (newer tiers first).
func New(tiers []Tier) *Manifest {
	return &Manifest{tiers: append([]Tier(nil), tiers...)}
}

// Snapshot returns an immutable copy of the current tier list, safe to
// hand to the compaction planner.
func (m *Manifest) Snapshot() []Tier {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Tier, len(m.tiers))
	copy(out, m.tiers)
	return out
}

// Replace installs newTiers as the current state, wholesale.
func (m *Manifest) Replace(newTiers []Tier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tiers = append([]Tier(nil), newTiers...)
}
