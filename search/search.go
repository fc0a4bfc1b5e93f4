// Package search runs the engine's thinking on a dedicated goroutine. The
// coordinator drives it through a control channel and listens on a report
// channel; inside a search the goroutine polls for stop requests every few
// thousand nodes, so aborts are cooperative and prompt.
package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"goshawk/board"
	"goshawk/eval"
	"goshawk/transposition"
	"goshawk/util"
)

// Score constants. Mate scores are encoded relative to Infinity so that
// "mated here" is -Infinity+ply and shorter mates score higher.
const (
	Infinity           = 32500
	CheckmateThreshold = transposition.CheckmateThreshold
)

const (
	maxPly = 128
	// pollInterval is the node count between abort checks, a power of two
	// so the test is a mask.
	pollInterval = 2048
	// statsEvery and currMoveAfter throttle the informational reports.
	statsEvery    = 2 * time.Second
	currMoveAfter = time.Second
)

// MatedIn returns the score of being checkmated at the given ply.
func MatedIn(ply int) int { return -Infinity + ply }

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > CheckmateThreshold || score < -CheckmateThreshold
}

// MovesToMate converts a mate score to full moves, negative when the side
// to move is being mated.
func MovesToMate(score int) int {
	plies := Infinity - util.Abs(score)
	moves := (plies + 1) / 2
	if score < 0 {
		return -moves
	}
	return moves
}

// Search owns the thinking goroutine. The position and table are shared
// with the coordinator under mu, but the lock is only held briefly: each
// search copies the position and thinks on the copy, so the coordinator
// can inspect and print the live position mid-search. Table writes stay
// race-free because the coordinator refuses Clear/Resize while a search
// runs.
type Search struct {
	control chan control
	reports chan<- Report

	mu     *sync.Mutex
	shared *board.Position
	tt     *transposition.Table
	ev     eval.Evaluator
	log    zerolog.Logger

	stop     atomic.Bool
	quitting bool

	// Per-search state, touched only by the search goroutine.
	pos       *board.Position
	budget    Budget
	started   time.Time
	deadline  time.Time
	nodes     uint64
	aborted   bool
	killers   killerTable
	lastStats time.Time
}

// New wires a search actor to its shared state and report sink. Run must
// be called before any control method has effect.
func New(mu *sync.Mutex, pos *board.Position, tt *transposition.Table, ev eval.Evaluator, reports chan<- Report, log zerolog.Logger) *Search {
	return &Search{
		control: make(chan control, 16),
		reports: reports,
		mu:      mu,
		shared:  pos,
		tt:      tt,
		ev:      ev,
		log:     log.With().Str("component", "search").Logger(),
	}
}

// Start begins a search under the given budget.
func (s *Search) Start(b Budget) { s.control <- control{kind: ctrlStart, budget: b} }

// Stop aborts the current search; its Finished report still arrives.
func (s *Search) Stop() {
	s.stop.Store(true)
	s.control <- control{kind: ctrlStop}
}

// NewGame clears position-derived search state for a fresh game.
func (s *Search) NewGame() { s.control <- control{kind: ctrlNewGame} }

// Quit shuts the actor down after any current search winds up.
func (s *Search) Quit() {
	s.stop.Store(true)
	s.control <- control{kind: ctrlQuit}
}

// Run is the actor loop. It blocks until Quit or context cancellation and
// is meant to be spawned in an errgroup. The report channel is closed on
// exit; Run is the channel's only sender.
func (s *Search) Run(ctx context.Context) error {
	defer close(s.reports)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-s.control:
			switch c.kind {
			case ctrlStart:
				s.runSearch(c.budget)
				if s.quitting {
					return nil
				}
			case ctrlStop:
				// No search in flight; nothing to abort.
				s.stop.Store(false)
			case ctrlNewGame:
				s.mu.Lock()
				s.tt.Clear()
				s.mu.Unlock()
				s.killers.clear()
				s.log.Debug().Msg("new game, cache cleared")
			case ctrlQuit:
				return nil
			}
		}
	}
}

// runSearch is one full iterative-deepening run. It snapshots the shared
// position under a short lock, thinks on the copy, and always emits exactly
// one FinishedReport.
func (s *Search) runSearch(b Budget) {
	s.mu.Lock()
	s.pos = s.shared.Copy()
	s.mu.Unlock()

	s.budget = b
	s.started = time.Now()
	s.lastStats = s.started
	s.nodes = 0
	s.aborted = false
	s.stop.Store(false)
	s.killers.clear()
	s.deadline = time.Time{}
	if limit := b.allocate(s.pos.SideToMove()); limit > 0 {
		s.deadline = s.started.Add(limit)
	}

	maxDepth := b.Depth
	if maxDepth <= 0 || maxDepth > maxPly-1 {
		maxDepth = maxPly - 1
	}

	s.log.Debug().
		Int("depth", b.Depth).
		Dur("movetime", b.MoveTime).
		Uint64("nodes", b.Nodes).
		Bool("infinite", b.Infinite).
		Msg("search started")

	var best board.Move
	var pv PVLine
	for depth := 1; depth <= maxDepth; depth++ {
		score := s.alphabeta(depth, 0, -Infinity, Infinity, &pv)
		if s.aborted {
			break
		}
		// Only fully completed iterations may change the answer.
		best = pv.Best()
		elapsed := time.Since(s.started)
		s.reports <- SummaryReport{
			Depth:    depth,
			Score:    score,
			Nodes:    s.nodes,
			Elapsed:  elapsed,
			NPS:      nps(s.nodes, elapsed),
			Hashfull: s.tt.Hashfull(),
			PV:       append([]board.Move(nil), pv.Moves()...),
		}
	}

	// A stop before depth 1 completed still owes a move.
	if best == board.NullMove {
		if legal := s.pos.LegalMoves(); len(legal) > 0 {
			best = legal[0]
		}
	}

	s.log.Debug().
		Uint64("nodes", s.nodes).
		Dur("elapsed", time.Since(s.started)).
		Stringer("best", best).
		Msg("search finished")
	s.reports <- FinishedReport{Best: best}
}

// checkAbort is the periodic poll: control messages, the stop flag, the
// deadline and the node budget all end the search here. It also emits the
// throttled stats reports.
func (s *Search) checkAbort() {
	for drained := false; !drained; {
		select {
		case c := <-s.control:
			switch c.kind {
			case ctrlStop:
				s.aborted = true
			case ctrlQuit:
				s.aborted = true
				s.quitting = true
			case ctrlNewGame:
				// Ignored mid-search.
			case ctrlStart:
				// A start during a search is a protocol error upstream;
				// drop it rather than deadlock.
			}
		default:
			drained = true
		}
	}
	if s.stop.Load() {
		s.aborted = true
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		s.aborted = true
	}
	if s.budget.Nodes > 0 && s.nodes >= s.budget.Nodes {
		s.aborted = true
	}
	if s.aborted {
		return
	}

	if now := time.Now(); now.Sub(s.lastStats) >= statsEvery {
		s.lastStats = now
		elapsed := now.Sub(s.started)
		s.reports <- StatsReport{
			Nodes:    s.nodes,
			NPS:      nps(s.nodes, elapsed),
			Elapsed:  elapsed,
			Hashfull: s.tt.Hashfull(),
		}
	}
}

// visit counts a node and polls for aborts on the interval boundary.
func (s *Search) visit() {
	s.nodes++
	if s.nodes&(pollInterval-1) == 0 {
		s.checkAbort()
	}
}

func nps(nodes uint64, elapsed time.Duration) uint64 {
	if elapsed <= 0 {
		return 0
	}
	return uint64(float64(nodes) / elapsed.Seconds())
}
