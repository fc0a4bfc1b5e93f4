// Package transposition implements the engine's bounded search cache: a
// bucketed hash table keyed by Zobrist hashes, sized in megabytes, with a
// depth-preferred replacement scheme inside each bucket.
package transposition

import (
	"unsafe"

	"goshawk/board"
	"goshawk/util"
)

// Bound classifies a stored score relative to the search window it was
// obtained under.
type Bound uint8

const (
	BoundNone  Bound = iota
	BoundExact       // score is the true minimax value
	BoundLower       // score is a lower bound (fail high)
	BoundUpper       // score is an upper bound (fail low)
)

// Table size limits in megabytes.
const (
	MinSizeMB     = 1
	MaxSizeMB     = 4096
	DefaultSizeMB = 32
)

// SlotsPerBucket is the bucket width. Three entries share a bucket; a store
// into a full bucket evicts the shallowest entry.
const SlotsPerBucket = 3

// Entry is one cached search result. The tag holds the high 32 bits of the
// Zobrist hash; the bucket index consumes the low bits, so together they
// identify a position well enough for cache purposes.
type Entry struct {
	tag   uint32
	move  board.Move
	score int16
	depth int8
	bound Bound
}

// Move returns the cached best or refutation move, NullMove if none.
func (e *Entry) Move() board.Move { return e.move }

// Depth returns the draft the entry was stored at.
func (e *Entry) Depth() int { return int(e.depth) }

// Bound returns the entry's score classification.
func (e *Entry) Bound() Bound { return e.bound }

type bucket struct {
	entries [SlotsPerBucket]Entry
}

// Table is the transposition table. It is not synchronized; the table is
// owned by the search goroutine and the coordinator accesses it only
// between searches, under the shared engine lock.
type Table struct {
	buckets []bucket
	sizeMB  int

	usedBuckets int
	usedEntries int
}

// New allocates a table of the requested size, clamped to the supported
// range. The entry count is derived from the in-memory bucket size, so the
// table actually occupies what was asked for.
func New(sizeMB int) *Table {
	t := &Table{}
	t.Resize(sizeMB)
	return t
}

// Resize throws away all entries and reallocates for the new size, clamped
// to [MinSizeMB, MaxSizeMB]. Resize and Clear are the only points where the
// backing memory changes.
func (t *Table) Resize(sizeMB int) {
	sizeMB = util.Clamp(sizeMB, MinSizeMB, MaxSizeMB)
	count := sizeMB * 1024 * 1024 / int(unsafe.Sizeof(bucket{}))
	t.buckets = make([]bucket, count)
	t.sizeMB = sizeMB
	t.usedBuckets = 0
	t.usedEntries = 0
}

// Clear wipes all entries, keeping the current size.
func (t *Table) Clear() {
	t.buckets = make([]bucket, len(t.buckets))
	t.usedBuckets = 0
	t.usedEntries = 0
}

// SizeMB returns the table's configured size.
func (t *Table) SizeMB() int { return t.sizeMB }

// Hashfull reports table occupancy in permill of entries.
func (t *Table) Hashfull() int {
	total := len(t.buckets) * SlotsPerBucket
	if total == 0 {
		return 0
	}
	return t.usedEntries * 1000 / total
}

func (t *Table) index(hash uint64) uint64 {
	return hash % uint64(len(t.buckets))
}

func tag(hash uint64) uint32 { return uint32(hash >> 32) }

// Probe looks the position up. A tag match within the bucket is a hit; a
// full scan without one is a definite miss, never a false positive against
// a differently tagged entry.
func (t *Table) Probe(hash uint64) (*Entry, bool) {
	b := &t.buckets[t.index(hash)]
	want := tag(hash)
	for i := range b.entries {
		e := &b.entries[i]
		if e.bound != BoundNone && e.tag == want {
			return e, true
		}
	}
	return nil, false
}

// Store caches a search result. An empty slot or an existing entry for the
// same position is reused; otherwise the shallowest entry in the bucket is
// evicted, ties going to the first one encountered. Storing never fails.
func (t *Table) Store(hash uint64, move board.Move, score, depth int, bound Bound) {
	b := &t.buckets[t.index(hash)]
	want := tag(hash)

	occupied := 0
	sameTag, firstEmpty, shallowest := -1, -1, -1
	for i := range b.entries {
		e := &b.entries[i]
		if e.bound == BoundNone {
			if firstEmpty < 0 {
				firstEmpty = i
			}
			continue
		}
		occupied++
		if sameTag < 0 && e.tag == want {
			sameTag = i
		}
		if shallowest < 0 || e.depth < b.entries[shallowest].depth {
			shallowest = i
		}
	}

	victim := shallowest
	switch {
	case sameTag >= 0:
		victim = sameTag
	case firstEmpty >= 0:
		victim = firstEmpty
	}

	v := &b.entries[victim]
	if v.bound == BoundNone {
		if occupied == 0 {
			t.usedBuckets++
		}
		t.usedEntries++
	}
	*v = Entry{
		tag:   want,
		move:  move,
		score: int16(score),
		depth: int8(depth),
		bound: bound,
	}
}

// ScoreTo converts a score for storage at the given ply from root. Mate
// scores are rebased to the current node so they stay meaningful when the
// position is reached along a different path.
func ScoreTo(score, ply int) int16 {
	if score > CheckmateThreshold {
		return int16(score + ply)
	}
	if score < -CheckmateThreshold {
		return int16(score - ply)
	}
	return int16(score)
}

// ScoreFrom converts a stored score back to root-relative form at the
// given ply.
func ScoreFrom(stored int16, ply int) int {
	score := int(stored)
	if score > CheckmateThreshold {
		return score - ply
	}
	if score < -CheckmateThreshold {
		return score + ply
	}
	return score
}

// Score returns the entry's stored score adjusted to the probing node's
// ply.
func (e *Entry) Score(ply int) int { return ScoreFrom(e.score, ply) }

// CheckmateThreshold separates mate scores from positional ones. Scores
// beyond it encode distance to mate in plies.
const CheckmateThreshold = 20000
