// Package compaction implements the tiered compaction planner: the
// four-rule policy that decides which tiers to merge (§4.9), and the pure
// transform that applies a completed merge's result back onto a manifest
// snapshot.
//
// Grounded on the teacher's internal/compaction/universal_picker.go
// (UniversalCompactionOptions, calculateSizeAmplification,
// findSizeRatioCompaction, pickAmplificationCompaction), adapted from
// file-level sorted runs to this format's simpler tier-id groups: a tier's
// "size" here is its SST count, not byte size, since the specification's
// own worked examples (§8 scenarios 5-6) size tiers that way.
package compaction

import (
	"github.com/kvsst/sstcore/internal/logging"
	"github.com/kvsst/sstcore/internal/manifest"
)

// Options configures the planner. Field names mirror the specification's
// own vocabulary rather than the teacher's UniversalCompactionOptions
// names, since the policy itself has been narrowed to exactly the four
// rules in §4.9.
type Options struct {
	// NumTiers is the minimum tier count before any compaction is
	// considered (rule 1).
	NumTiers int
	// MaxSizeAmplificationPercent triggers a full merge when the upper
	// tiers' combined size reaches this percentage of the bottom tier's
	// size (rule 2).
	MaxSizeAmplificationPercent int
	// SizeRatio triggers a merge of an accumulating prefix of tiers once
	// its combined size reaches (100+SizeRatio)% of the next tier (rule 3).
	SizeRatio int
	// MinMergeWidth is the minimum number of tiers a size-ratio trigger
	// must span to fire.
	MinMergeWidth int
	// Logger is optional; when supplied, GenerateCompactionTask logs which
	// rule fired under NSCompact. A nil Logger falls back to
	// logging.OrDefault.
	Logger logging.Logger
}

// Task names the tiers selected for merging.
type Task struct {
	Tiers              []manifest.Tier
	BottomTierIncluded bool
}

// GenerateCompactionTask inspects an immutable manifest snapshot (tiers,
// newer first) and returns a Task, or nil if no compaction is warranted.
// Rules are evaluated in order; the first match wins.
func GenerateCompactionTask(snapshot []manifest.Tier, opts Options) *Task {
	lg := logging.OrDefault(opts.Logger)
	n := len(snapshot)
	if n < opts.NumTiers {
		lg.Debugf(logging.NSCompact+"skip: %d tiers below guard %d", n, opts.NumTiers)
		return nil
	}

	bottom := len(snapshot[n-1].SstIDs)
	if bottom > 0 {
		upper := 0
		for i := 0; i < n-1; i++ {
			upper += len(snapshot[i].SstIDs)
		}
		// upper/bottom*100 >= max, cross-multiplied to avoid float
		// division (bottom is already known non-zero here).
		if upper*100 >= opts.MaxSizeAmplificationPercent*bottom {
			lg.Infof(logging.NSCompact+"space-amp trigger: upper=%d bottom=%d threshold=%d%%, merging all %d tiers",
				upper, bottom, opts.MaxSizeAmplificationPercent, n)
			return &Task{Tiers: append([]manifest.Tier(nil), snapshot...), BottomTierIncluded: true}
		}
	}

	upper := 0
	for i := 0; i < n-1; i++ {
		upper += len(snapshot[i].SstIDs)
		nextSize := len(snapshot[i+1].SstIDs)
		width := i + 2
		if nextSize == 0 {
			continue
		}
		if upper*100 >= (100+opts.SizeRatio)*nextSize && width >= opts.MinMergeWidth {
			lg.Infof(logging.NSCompact+"size-ratio trigger: upper=%d next=%d ratio=%d%%, merging %d tiers (bottom_included=%v)",
				upper, nextSize, opts.SizeRatio, width, width == n)
			return &Task{
				Tiers:              append([]manifest.Tier(nil), snapshot[:width]...),
				BottomTierIncluded: width == n,
			}
		}
	}

	width := n - opts.NumTiers + 2
	if width > n {
		width = n
	}
	if width < 1 {
		width = 1
	}
	lg.Debugf(logging.NSCompact+"fallback: merging first %d of %d tiers (bottom_included=%v)", width, n, width == n)
	return &Task{
		Tiers:              append([]manifest.Tier(nil), snapshot[:width]...),
		BottomTierIncluded: width == n,
	}
}

// ApplyCompactionResult transforms a manifest snapshot, a task, and the
// newly produced SST ids into a new tier list plus the SST ids to delete.
// Tiers named in the task contribute their SST ids to the delete list and
// are dropped; at the position of the first drop, a single new tier is
// inserted whose id is outputSstIDs[0] and whose SST list is outputSstIDs.
// Tiers not named in the task retain their original order.
func ApplyCompactionResult(snapshot []manifest.Tier, task *Task, outputSstIDs []uint64) ([]manifest.Tier, []uint64) {
	taskIDs := make(map[uint64]bool, len(task.Tiers))
	for _, t := range task.Tiers {
		taskIDs[t.ID] = true
	}

	var newTiers []manifest.Tier
	var deleted []uint64
	inserted := false
	for _, t := range snapshot {
		if taskIDs[t.ID] {
			deleted = append(deleted, t.SstIDs...)
			if !inserted {
				var newID uint64
				if len(outputSstIDs) > 0 {
					newID = outputSstIDs[0]
				}
				newTiers = append(newTiers, manifest.Tier{ID: newID, SstIDs: append([]uint64(nil), outputSstIDs...)})
				inserted = true
			}
			continue
		}
		newTiers = append(newTiers, t)
	}
	return newTiers, deleted
}
