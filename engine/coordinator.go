// Package engine coordinates the pieces: it owns the position and the
// transposition table, runs the search actor, and turns search reports
// into publisher calls for whichever protocol front is active.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"goshawk/board"
	"goshawk/eval"
	"goshawk/search"
	"goshawk/transposition"
)

// State is the coordinator's activity. Transitions happen on protocol
// commands and on the search's Finished report.
type State uint8

const (
	// Waiting: idle, position may be edited.
	Waiting State = iota
	// Thinking: searching for a move to play; Finished publishes it.
	Thinking
	// Analyzing: searching without game obligations (infinite analysis).
	Analyzing
	// Observing: following a game without searching (force mode).
	Observing
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Thinking:
		return "thinking"
	case Analyzing:
		return "analyzing"
	case Observing:
		return "observing"
	default:
		return "unknown"
	}
}

// Publisher receives engine output. Protocol fronts implement it to format
// reports on their wire.
type Publisher interface {
	BestMove(m board.Move)
	Summary(s search.SummaryReport)
	CurrentMove(c search.CurrentMoveReport)
	Stats(s search.StatsReport)
}

// Options configures a coordinator.
type Options struct {
	HashMB int
	Log    zerolog.Logger
}

// Coordinator wires the shared position and cache to the search actor and
// serializes protocol access to them.
type Coordinator struct {
	// mu guards pos and tt. The search goroutine takes it only to snapshot
	// pos at search start; inspection accessors stay responsive mid-search.
	mu  sync.Mutex
	pos *board.Position
	tt  *transposition.Table

	search  *search.Search
	reports chan search.Report
	pub     Publisher
	log     zerolog.Logger

	stateMu sync.Mutex
	state   State
}

// New builds a coordinator publishing to pub. Run must be called to start
// the actor goroutines.
func New(opts Options, pub Publisher) *Coordinator {
	if opts.HashMB <= 0 {
		opts.HashMB = transposition.DefaultSizeMB
	}
	c := &Coordinator{
		pos:     board.StartPosition(),
		tt:      transposition.New(opts.HashMB),
		reports: make(chan search.Report, 64),
		pub:     pub,
		log:     opts.Log.With().Str("component", "engine").Logger(),
	}
	c.search = search.New(&c.mu, c.pos, c.tt, eval.NewMaterial(), c.reports, opts.Log)
	return c
}

// Run starts the search actor and the report pump and blocks until Quit.
func (c *Coordinator) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.search.Run(ctx) })
	g.Go(func() error { return c.pump() })
	return g.Wait()
}

// pump forwards search reports to the publisher and folds Finished back
// into the state machine. It ends when the search actor closes the report
// channel.
func (c *Coordinator) pump() error {
	for r := range c.reports {
		switch msg := r.(type) {
		case search.SummaryReport:
			c.pub.Summary(msg)
		case search.CurrentMoveReport:
			c.pub.CurrentMove(msg)
		case search.StatsReport:
			c.pub.Stats(msg)
		case search.FinishedReport:
			// Force mode survives a stopped search; everything else
			// lands back in Waiting.
			c.stateMu.Lock()
			if c.state == Thinking || c.state == Analyzing {
				c.state = Waiting
			}
			c.stateMu.Unlock()
			c.pub.BestMove(msg.Best)
		}
	}
	return nil
}

func (c *Coordinator) setState(s State) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

// State returns the coordinator's current activity.
func (c *Coordinator) State() State {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

// searchIdle reports whether the position may be touched right now.
func (c *Coordinator) searchIdle() bool {
	s := c.State()
	return s == Waiting || s == Observing
}

// NewGame resets the position to the start and clears search state.
func (c *Coordinator) NewGame() {
	if !c.searchIdle() {
		c.log.Warn().Stringer("state", c.State()).Msg("newgame ignored while searching")
		return
	}
	c.mu.Lock()
	*c.pos = *board.StartPosition()
	c.mu.Unlock()
	c.search.NewGame()
}

// SetPosition loads fen (or the start position when fen is empty) and
// plays the given long-algebraic moves on top of it.
func (c *Coordinator) SetPosition(fen string, moves []string) error {
	if !c.searchIdle() {
		return fmt.Errorf("position change while %s", c.State())
	}
	base := fen
	if base == "" {
		base = board.StartFEN
	}
	next, err := board.FromFEN(base)
	if err != nil {
		return err
	}
	for _, uci := range moves {
		m := next.FindMove(uci)
		if m == board.NullMove {
			return fmt.Errorf("illegal move %q in position setup", uci)
		}
		next.Make(m)
	}

	c.mu.Lock()
	*c.pos = *next
	c.mu.Unlock()
	return nil
}

// PlayMove applies one move to the current position, for protocols that
// feed moves incrementally.
func (c *Coordinator) PlayMove(uci string) error {
	if !c.searchIdle() {
		return fmt.Errorf("move while %s", c.State())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.pos.FindMove(uci)
	if m == board.NullMove {
		return fmt.Errorf("illegal move %q", uci)
	}
	c.pos.Make(m)
	return nil
}

// TakeBack unwinds n half-moves from the current position.
func (c *Coordinator) TakeBack(n int) error {
	if !c.searchIdle() {
		return fmt.Errorf("takeback while %s", c.State())
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < n; i++ {
		if c.pos.Ply() == 0 {
			return fmt.Errorf("no move to take back")
		}
		c.pos.Unmake()
	}
	return nil
}

// Go starts a search under the budget. Infinite budgets analyze, bounded
// ones think; either way Finished lands the coordinator back in Waiting.
func (c *Coordinator) Go(b search.Budget) {
	c.stateMu.Lock()
	if c.state == Thinking || c.state == Analyzing {
		c.stateMu.Unlock()
		c.log.Warn().Msg("go ignored, search already running")
		return
	}
	if b.Infinite {
		c.state = Analyzing
	} else {
		c.state = Thinking
	}
	c.stateMu.Unlock()
	c.search.Start(b)
}

// Stop aborts a running search. The pending Finished report still flows
// through the pump and publishes a best move.
func (c *Coordinator) Stop() {
	if s := c.State(); s != Thinking && s != Analyzing {
		return
	}
	c.search.Stop()
}

// Observe puts the coordinator in force mode: it follows moves but does
// not search until the next Go.
func (c *Coordinator) Observe() {
	if !c.searchIdle() {
		c.Stop()
	}
	c.setState(Observing)
}

// Quit shuts everything down; Run returns once the actors have drained.
func (c *Coordinator) Quit() {
	c.search.Quit()
}

// SetHashSize resizes the transposition table.
func (c *Coordinator) SetHashSize(mb int) {
	if !c.searchIdle() {
		c.log.Warn().Msg("hash resize ignored while searching")
		return
	}
	c.mu.Lock()
	c.tt.Resize(mb)
	c.mu.Unlock()
}

// FEN snapshots the current position.
func (c *Coordinator) FEN() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos.FEN()
}

// Pretty renders the current position for the console.
func (c *Coordinator) Pretty() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos.Pretty()
}

// Position returns an independent copy of the current position.
func (c *Coordinator) Position() *board.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos.Copy()
}

// Result inspects the current position for a game end. The string follows
// the PGN result convention; ok is false while the game is still on.
func (c *Coordinator) Result() (result string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pos.LegalMoves()) == 0 {
		if !c.pos.InCheck(c.pos.SideToMove()) {
			return "1/2-1/2 {stalemate}", true
		}
		if c.pos.SideToMove() == board.White {
			return "0-1 {checkmate}", true
		}
		return "1-0 {checkmate}", true
	}
	if c.pos.FiftyMoveDraw() {
		return "1/2-1/2 {fifty move rule}", true
	}
	if c.pos.Repetitions() >= 3 {
		return "1/2-1/2 {threefold repetition}", true
	}
	return "", false
}
