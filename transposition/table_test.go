package transposition

import (
	"testing"

	"goshawk/board"
)

// hashFor builds a hash that lands in bucket 0 of t with the given tag, so
// tests can force collisions deterministically. The low bits are padded to
// cancel the bucket modulus without disturbing the tag half.
func hashFor(t *Table, tagBits uint32) uint64 {
	h := uint64(tagBits) << 32
	count := uint64(len(t.buckets))
	return h + (count-h%count)%count
}

func TestHashForCollides(t *testing.T) {
	tab := New(1)
	for _, tg := range []uint32{1, 2, 3, 4, 7} {
		h := hashFor(tab, tg)
		if tab.index(h) != 0 {
			t.Fatalf("hashFor(%d) lands in bucket %d, want 0", tg, tab.index(h))
		}
		if tag(h) != tg {
			t.Fatalf("hashFor(%d) has tag %d", tg, tag(h))
		}
	}
}

func TestProbeMissOnEmptyTable(t *testing.T) {
	tab := New(1)
	if _, ok := tab.Probe(0xDEADBEEF12345678); ok {
		t.Fatal("probe of empty table reported a hit")
	}
}

func TestStoreThenProbe(t *testing.T) {
	tab := New(1)
	m := board.NewMove(12, 28, board.Pawn, board.NoPiece, board.NoPiece)
	tab.Store(0xABCD1234_5678EF00, m, 37, 6, BoundExact)

	e, ok := tab.Probe(0xABCD1234_5678EF00)
	if !ok {
		t.Fatal("stored entry not found")
	}
	if e.Move() != m || e.Score(0) != 37 || e.Depth() != 6 || e.Bound() != BoundExact {
		t.Errorf("entry = move %s score %d depth %d bound %d", e.Move(), e.Score(0), e.Depth(), e.Bound())
	}
}

func TestTagMismatchIsDefiniteMiss(t *testing.T) {
	tab := New(1)
	// Same bucket, different tag.
	tab.Store(hashFor(tab, 1), board.NullMove, 10, 4, BoundExact)
	if _, ok := tab.Probe(hashFor(tab, 2)); ok {
		t.Fatal("differently tagged entry reported as a hit")
	}
}

func TestReplacementEvictsShallowest(t *testing.T) {
	tab := New(1)
	// Fill one bucket with depths 5, 3, 7.
	tab.Store(hashFor(tab, 1), board.NullMove, 0, 5, BoundExact)
	tab.Store(hashFor(tab, 2), board.NullMove, 0, 3, BoundExact)
	tab.Store(hashFor(tab, 3), board.NullMove, 0, 7, BoundExact)

	// A fourth position evicts the depth-3 entry even at lesser depth.
	tab.Store(hashFor(tab, 4), board.NullMove, 0, 1, BoundExact)

	if _, ok := tab.Probe(hashFor(tab, 2)); ok {
		t.Error("depth-3 entry should have been evicted")
	}
	for _, tg := range []uint32{1, 3, 4} {
		if _, ok := tab.Probe(hashFor(tab, tg)); !ok {
			t.Errorf("tag-%d entry should have survived", tg)
		}
	}
}

func TestReplacementTieBreaksOnFirst(t *testing.T) {
	tab := New(1)
	tab.Store(hashFor(tab, 1), board.NullMove, 0, 4, BoundExact)
	tab.Store(hashFor(tab, 2), board.NullMove, 0, 4, BoundExact)
	tab.Store(hashFor(tab, 3), board.NullMove, 0, 9, BoundExact)

	tab.Store(hashFor(tab, 4), board.NullMove, 0, 2, BoundExact)

	if _, ok := tab.Probe(hashFor(tab, 1)); ok {
		t.Error("first of the tied shallow entries should have been evicted")
	}
	if _, ok := tab.Probe(hashFor(tab, 2)); !ok {
		t.Error("second tied entry should have survived")
	}
}

func TestSamePositionOverwritesInPlace(t *testing.T) {
	tab := New(1)
	h := hashFor(tab, 7)
	tab.Store(h, board.NullMove, 10, 3, BoundUpper)
	tab.Store(h, board.NullMove, 25, 5, BoundExact)

	e, ok := tab.Probe(h)
	if !ok {
		t.Fatal("entry missing after overwrite")
	}
	if e.Depth() != 5 || e.Score(0) != 25 || e.Bound() != BoundExact {
		t.Errorf("overwrite kept stale data: depth %d score %d bound %d", e.Depth(), e.Score(0), e.Bound())
	}
	if tab.usedEntries != 1 {
		t.Errorf("usedEntries = %d after in-place overwrite, want 1", tab.usedEntries)
	}
}

func TestClearAndResizeResetCounters(t *testing.T) {
	tab := New(1)
	for i := uint32(1); i <= 10; i++ {
		tab.Store(hashFor(tab, i), board.NullMove, 0, 1, BoundExact)
	}
	// Ten stores collide into one bucket; occupancy is the bucket width.
	if tab.usedEntries != SlotsPerBucket || tab.usedBuckets != 1 {
		t.Fatalf("usedEntries = %d, usedBuckets = %d", tab.usedEntries, tab.usedBuckets)
	}

	tab.Clear()
	if tab.usedBuckets != 0 || tab.usedEntries != 0 || tab.Hashfull() != 0 {
		t.Error("Clear did not reset counters")
	}
	if _, ok := tab.Probe(hashFor(tab, 1)); ok {
		t.Error("Clear left entries behind")
	}

	tab.Store(hashFor(tab, 1), board.NullMove, 0, 1, BoundExact)
	tab.Resize(2)
	if tab.SizeMB() != 2 {
		t.Errorf("SizeMB = %d after Resize(2)", tab.SizeMB())
	}
	if tab.usedEntries != 0 {
		t.Error("Resize did not drop entries")
	}
}

func TestResizeClampsToLimits(t *testing.T) {
	tab := New(0)
	if tab.SizeMB() != MinSizeMB {
		t.Errorf("SizeMB = %d, want clamp to %d", tab.SizeMB(), MinSizeMB)
	}
	tab.Resize(1 << 20)
	if tab.SizeMB() != MaxSizeMB {
		t.Errorf("SizeMB = %d, want clamp to %d", tab.SizeMB(), MaxSizeMB)
	}
}

func TestMateScoreNormalization(t *testing.T) {
	// Mate in 3 plies found at ply 2 from root: root-relative score.
	const infinity = 32500
	rootScore := infinity - 5
	stored := ScoreTo(rootScore, 2)

	// Probed at ply 4 along another path, the mate is now further from
	// that node's root distance.
	back := ScoreFrom(stored, 4)
	if back != rootScore-2 {
		t.Errorf("ScoreFrom(ScoreTo(%d, 2), 4) = %d, want %d", rootScore, back, rootScore-2)
	}

	// Non-mate scores pass through untouched.
	if got := ScoreFrom(ScoreTo(123, 9), 17); got != 123 {
		t.Errorf("plain score changed to %d", got)
	}

	// Mated scores mirror the treatment.
	matedScore := -(infinity - 5)
	if got := ScoreFrom(ScoreTo(matedScore, 2), 4); got != matedScore+2 {
		t.Errorf("mated score normalized to %d", got)
	}
}
