package compaction

import (
	"testing"

	"github.com/kvsst/sstcore/internal/manifest"
)

func tier(id uint64, ssts ...uint64) manifest.Tier {
	return manifest.Tier{ID: id, SstIDs: ssts}
}

// TestSizeRatioFallback is end-to-end scenario 5.
func TestSizeRatioFallback(t *testing.T) {
	snap := []manifest.Tier{tier(1, 1), tier(2, 2), tier(3, 3, 4, 5)}
	task := GenerateCompactionTask(snap, Options{
		NumTiers:                    3,
		MaxSizeAmplificationPercent: 200,
		SizeRatio:                   50,
		MinMergeWidth:               2,
	})
	if task == nil {
		t.Fatalf("expected a fallback task")
	}
	if len(task.Tiers) != 2 {
		t.Fatalf("got %d tiers, want 2", len(task.Tiers))
	}
	if task.Tiers[0].ID != 1 || task.Tiers[1].ID != 2 {
		t.Fatalf("got tiers %v, want [1 2]", task.Tiers)
	}
	if task.BottomTierIncluded {
		t.Fatalf("bottom tier must not be included")
	}
}

// TestSpaceAmplificationTrigger is end-to-end scenario 6.
func TestSpaceAmplificationTrigger(t *testing.T) {
	snap := []manifest.Tier{tier(1, 1, 2, 3, 4), tier(2, 5)}
	task := GenerateCompactionTask(snap, Options{
		NumTiers:                    2,
		MaxSizeAmplificationPercent: 200,
		SizeRatio:                   50,
		MinMergeWidth:               2,
	})
	if task == nil {
		t.Fatalf("expected a space-amplification task")
	}
	if len(task.Tiers) != 2 {
		t.Fatalf("got %d tiers, want all 2", len(task.Tiers))
	}
	if !task.BottomTierIncluded {
		t.Fatalf("bottom tier must be included")
	}
}

func TestGuardBelowNumTiers(t *testing.T) {
	snap := []manifest.Tier{tier(1, 1)}
	task := GenerateCompactionTask(snap, Options{NumTiers: 3})
	if task != nil {
		t.Fatalf("expected nil below the tier-count guard")
	}
}

func TestEmptyBottomTierIsNotATrigger(t *testing.T) {
	snap := []manifest.Tier{tier(1, 1, 2), tier(2)}
	task := GenerateCompactionTask(snap, Options{
		NumTiers:                    2,
		MaxSizeAmplificationPercent: 1, // would always trigger if bottom were treated as nonzero
		SizeRatio:                   1000,
		MinMergeWidth:               99,
	})
	// Falls through to the fallback rule instead of a spurious space-amp
	// trigger against a zero-sized bottom tier.
	if task == nil {
		t.Fatalf("expected the fallback rule to still produce a task")
	}
	if task.BottomTierIncluded && len(snap[len(snap)-1].SstIDs) == 0 {
		// Fallback can legitimately include the bottom tier; this only
		// guards against the space-amp branch firing on a divide-by-zero.
	}
}

func TestApplyCompactionResultInvariants(t *testing.T) {
	snap := []manifest.Tier{tier(1, 1), tier(2, 2), tier(3, 3, 4)}
	task := &Task{Tiers: []manifest.Tier{snap[0], snap[1]}, BottomTierIncluded: false}
	newTiers, deleted := ApplyCompactionResult(snap, task, []uint64{10, 11})

	if len(newTiers) != len(snap)-len(task.Tiers)+1 {
		t.Fatalf("new tier count = %d, want %d", len(newTiers), len(snap)-len(task.Tiers)+1)
	}
	for _, nt := range newTiers {
		if nt.ID == 1 || nt.ID == 2 {
			t.Fatalf("tier %d from task should not remain", nt.ID)
		}
	}
	if newTiers[0].ID != 10 {
		t.Fatalf("new tier id = %d, want output[0]=10", newTiers[0].ID)
	}
	wantDeleted := map[uint64]bool{1: true, 2: true}
	if len(deleted) != len(wantDeleted) {
		t.Fatalf("deleted = %v, want keys of %v", deleted, wantDeleted)
	}
	for _, d := range deleted {
		if !wantDeleted[d] {
			t.Fatalf("unexpected deleted id %d", d)
		}
	}
	// tier 3 (untouched) must still be present with its contents.
	found := false
	for _, nt := range newTiers {
		if nt.ID == 3 {
			found = true
			if len(nt.SstIDs) != 2 {
				t.Fatalf("tier 3 contents changed: %v", nt.SstIDs)
			}
		}
	}
	if !found {
		t.Fatalf("tier 3 missing from result")
	}
}
