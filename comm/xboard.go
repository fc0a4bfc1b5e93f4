package comm

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"goshawk/board"
	"goshawk/engine"
	"goshawk/search"
)

// XBoard implements the Chess Engine Communication Protocol (protocol
// version 2). Only the feature set the engine actually supports is
// announced; legacy commands it cannot honor are rejected through the
// feature negotiation instead of being half-implemented.
type XBoard struct {
	w     writer
	coord *engine.Coordinator
	log   zerolog.Logger

	mu      sync.Mutex
	force   bool
	post    bool
	playing bool // a BestMove should be played and announced
	sd      int
	st      time.Duration
	mps     int
	inc     time.Duration
	myTime  time.Duration
}

// NewXBoard builds the XBoard front writing to out.
func NewXBoard(out io.Writer, log zerolog.Logger) *XBoard {
	return &XBoard{
		w:    writer{out: out},
		log:  log.With().Str("component", "xboard").Logger(),
		post: true,
	}
}

func (x *XBoard) bind(c *engine.Coordinator) { x.coord = c }

func (x *XBoard) loop(first string, scanner *bufio.Scanner) error {
	line := first
	for {
		if quit := x.handle(line); quit {
			return nil
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line = scanner.Text()
	}
}

func (x *XBoard) handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "xboard":
		// Greeting; features follow on protover.
	case "protover":
		x.w.printf("feature myname=\"%s %s\" setboard=1 usermove=1 ping=1 analyze=1 reuse=1 sigint=0 sigterm=0 colors=0 time=1 done=1", engineName, engineVersion)
	case "accepted", "rejected", "computer", "random", "hard", "easy", "otim":
		// Acknowledged or irrelevant.
	case "new":
		x.coord.NewGame()
		x.mu.Lock()
		x.force = false
		x.sd = 0
		x.mu.Unlock()
	case "force":
		x.coord.Observe()
		x.mu.Lock()
		x.force = true
		x.mu.Unlock()
	case "go":
		x.mu.Lock()
		x.force = false
		x.mu.Unlock()
		x.think()
	case "usermove":
		if len(fields) > 1 {
			x.userMove(fields[1])
		}
	case "setboard":
		if err := x.coord.SetPosition(strings.Join(fields[1:], " "), nil); err != nil {
			x.w.printf("tellusererror Illegal position: %v", err)
		}
	case "undo":
		if err := x.coord.TakeBack(1); err != nil {
			x.w.printf("Error (command not legal now): undo")
		}
	case "remove":
		if err := x.coord.TakeBack(2); err != nil {
			x.w.printf("Error (command not legal now): remove")
		}
	case "sd":
		x.mu.Lock()
		x.sd = atoiField(fields, 1)
		x.mu.Unlock()
	case "st":
		x.mu.Lock()
		x.st = time.Duration(atoiField(fields, 1)) * time.Second
		x.mu.Unlock()
	case "level":
		x.level(fields[1:])
	case "time":
		// Own clock in centiseconds.
		x.mu.Lock()
		x.myTime = time.Duration(atoiField(fields, 1)) * 10 * time.Millisecond
		x.mu.Unlock()
	case "ping":
		x.w.printf("pong %s", strings.Join(fields[1:], " "))
	case "post":
		x.mu.Lock()
		x.post = true
		x.mu.Unlock()
	case "nopost":
		x.mu.Lock()
		x.post = false
		x.mu.Unlock()
	case "analyze":
		x.coord.Go(search.Budget{Infinite: true})
	case "exit":
		x.coord.Stop()
	case "result":
		x.coord.Observe()
		x.mu.Lock()
		x.force = true
		x.mu.Unlock()
	case "quit":
		return true
	default:
		// Bare moves arrive without the usermove prefix from old GUIs.
		if looksLikeMove(fields[0]) {
			x.userMove(fields[0])
		} else {
			x.w.printf("Error (unknown command): %s", fields[0])
		}
	}
	return false
}

func atoiField(fields []string, i int) int {
	if i >= len(fields) {
		return 0
	}
	n, err := strconv.Atoi(fields[i])
	if err != nil {
		return 0
	}
	return n
}

func looksLikeMove(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	return s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8' &&
		s[2] >= 'a' && s[2] <= 'h' && s[3] >= '1' && s[3] <= '8'
}

// level parses "level MPS BASE INC"; BASE is minutes or minutes:seconds,
// INC is seconds.
func (x *XBoard) level(args []string) {
	if len(args) < 3 {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.mps = atoiFieldRaw(args[0])
	base := args[1]
	if c := strings.IndexByte(base, ':'); c >= 0 {
		minutes := atoiFieldRaw(base[:c])
		seconds := atoiFieldRaw(base[c+1:])
		x.myTime = time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
	} else {
		x.myTime = time.Duration(atoiFieldRaw(base)) * time.Minute
	}
	x.inc = time.Duration(atoiFieldRaw(args[2])) * time.Second
}

func atoiFieldRaw(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// userMove applies an opponent move and answers it unless in force mode or
// the game is over.
func (x *XBoard) userMove(uci string) {
	if err := x.coord.PlayMove(uci); err != nil {
		x.w.printf("Illegal move: %s", uci)
		return
	}
	if result, over := x.coord.Result(); over {
		x.w.printf("%s", result)
		return
	}
	x.mu.Lock()
	force := x.force
	x.mu.Unlock()
	if !force {
		x.think()
	}
}

// think starts a search for the engine's own move from the configured
// limits: exact move time, then depth, then the game clock, and a modest
// fallback so a bare "go" cannot hang.
func (x *XBoard) think() {
	x.mu.Lock()
	var b search.Budget
	switch {
	case x.st > 0:
		b.MoveTime = x.st
	case x.sd > 0:
		b.Depth = x.sd
	case x.myTime > 0:
		stm := x.coord.Position().SideToMove()
		if stm == board.White {
			b.WhiteTime, b.WhiteInc = x.myTime, x.inc
		} else {
			b.BlackTime, b.BlackInc = x.myTime, x.inc
		}
		b.MovesToGo = x.mps
	default:
		b.MoveTime = 5 * time.Second
	}
	x.playing = true
	x.mu.Unlock()
	x.coord.Go(b)
}

// Publisher callbacks.

func (x *XBoard) BestMove(m board.Move) {
	x.mu.Lock()
	playing := x.playing
	x.playing = false
	x.mu.Unlock()
	if !playing {
		// Analysis stopped; no move to play.
		return
	}
	if m == board.NullMove {
		return
	}
	// The board layer rejecting our own move means the search escaped the
	// legal move set; engine state is no longer trustworthy.
	if err := x.coord.PlayMove(m.String()); err != nil {
		x.log.Fatal().Err(err).Stringer("move", m).Msg("search produced an illegal move")
	}
	x.w.printf("move %s", m)
	if result, over := x.coord.Result(); over {
		x.w.printf("%s", result)
	}
}

// Summary posts a thinking line: ply score time nodes pv. Time is in
// centiseconds per the protocol.
func (x *XBoard) Summary(s search.SummaryReport) {
	x.mu.Lock()
	post := x.post
	x.mu.Unlock()
	if !post {
		return
	}
	pv := make([]string, len(s.PV))
	for i, m := range s.PV {
		pv[i] = m.String()
	}
	x.w.printf("%d %d %d %d %s",
		s.Depth, postScore(s.Score), s.Elapsed.Milliseconds()/10, s.Nodes, strings.Join(pv, " "))
}

// postScore converts an internal score for the thinking line: centipawns as
// is, forced mates as 100000 plus the move count, negated when the engine
// is the one being mated.
func postScore(score int) int {
	if !search.IsMateScore(score) {
		return score
	}
	n := search.MovesToMate(score)
	if n < 0 {
		return -(100000 - n)
	}
	return 100000 + n
}

func (x *XBoard) CurrentMove(search.CurrentMoveReport) {}

func (x *XBoard) Stats(search.StatsReport) {}
