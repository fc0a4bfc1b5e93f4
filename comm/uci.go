package comm

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"goshawk/board"
	"goshawk/engine"
	"goshawk/search"
	"goshawk/transposition"
)

const (
	engineName    = "Goshawk"
	engineVersion = "1.0.0"
	engineAuthor  = "the Goshawk developers"
)

// UCI implements the Universal Chess Interface.
type UCI struct {
	w     writer
	coord *engine.Coordinator
	log   zerolog.Logger

	// p pretty-prints large counts for the console commands.
	p *message.Printer

	mu   sync.Mutex
	last search.SummaryReport
}

// NewUCI builds the UCI front writing to out.
func NewUCI(out io.Writer, log zerolog.Logger) *UCI {
	return &UCI{
		w:   writer{out: out},
		log: log.With().Str("component", "uci").Logger(),
		p:   message.NewPrinter(language.English),
	}
}

func (u *UCI) bind(c *engine.Coordinator) { u.coord = c }

func (u *UCI) loop(first string, scanner *bufio.Scanner) error {
	line := first
	for {
		if quit := u.handle(line); quit {
			return nil
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line = scanner.Text()
	}
}

// handle dispatches one command line and reports whether to quit.
func (u *UCI) handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "uci":
		u.w.printf("id name %s %s", engineName, engineVersion)
		u.w.printf("id author %s", engineAuthor)
		u.w.printf("option name Hash type spin default %d min %d max %d",
			transposition.DefaultSizeMB, transposition.MinSizeMB, transposition.MaxSizeMB)
		u.w.printf("option name Clear Hash type button")
		u.w.printf("uciok")
	case "isready":
		u.w.printf("readyok")
	case "ucinewgame":
		u.coord.NewGame()
	case "setoption":
		u.setOption(fields[1:])
	case "position":
		u.position(fields[1:])
	case "go":
		u.coord.Go(parseGo(fields[1:]))
	case "stop":
		u.coord.Stop()
	case "d":
		u.printBoard()
	case "quit":
		return true
	default:
		u.log.Debug().Str("line", line).Msg("unknown command")
	}
	return false
}

// parseOption splits "name <name...> [value <v...>]"; both parts may span
// several words.
func parseOption(args []string) (name, value string) {
	target := &name
	for _, f := range args {
		switch f {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if *target != "" {
				*target += " "
			}
			*target += f
		}
	}
	return name, value
}

func (u *UCI) setOption(args []string) {
	name, value := parseOption(args)
	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil {
			u.w.printf("info string bad Hash value %q", value)
			return
		}
		u.coord.SetHashSize(mb)
	case "clear hash":
		u.coord.NewGame()
	default:
		u.w.printf("info string unknown option %q", name)
	}
}

func (u *UCI) position(args []string) {
	fen := ""
	var moves []string
	i := 0
	switch {
	case len(args) == 0:
		return
	case args[0] == "startpos":
		i = 1
	case args[0] == "fen":
		j := 1
		for ; j < len(args) && args[j] != "moves"; j++ {
		}
		fen = strings.Join(args[1:j], " ")
		i = j
	}
	if i < len(args) && args[i] == "moves" {
		moves = args[i+1:]
	}
	if err := u.coord.SetPosition(fen, moves); err != nil {
		u.w.printf("info string %v", err)
	}
}

func parseGo(args []string) search.Budget {
	var b search.Budget
	grab := func(i int) int {
		if i < len(args) {
			if n, err := strconv.Atoi(args[i]); err == nil {
				return n
			}
		}
		return 0
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			b.Infinite = true
		case "depth":
			i++
			b.Depth = grab(i)
		case "movetime":
			i++
			b.MoveTime = time.Duration(grab(i)) * time.Millisecond
		case "nodes":
			i++
			b.Nodes = uint64(grab(i))
		case "wtime":
			i++
			b.WhiteTime = time.Duration(grab(i)) * time.Millisecond
		case "btime":
			i++
			b.BlackTime = time.Duration(grab(i)) * time.Millisecond
		case "winc":
			i++
			b.WhiteInc = time.Duration(grab(i)) * time.Millisecond
		case "binc":
			i++
			b.BlackInc = time.Duration(grab(i)) * time.Millisecond
		case "movestogo":
			i++
			b.MovesToGo = grab(i)
		}
	}
	return b
}

func (u *UCI) printBoard() {
	u.mu.Lock()
	last := u.last
	u.mu.Unlock()

	diagram := u.coord.Pretty()
	u.w.mu.Lock()
	io.WriteString(u.w.out, diagram)
	if last.Depth > 0 {
		u.p.Fprintf(u.w.out, "last search: depth %d, %d nodes, %d nodes/s\n",
			last.Depth, last.Nodes, last.NPS)
	}
	u.w.mu.Unlock()
}

// Publisher callbacks.

func (u *UCI) BestMove(m board.Move) {
	u.w.printf("bestmove %s", m)
}

func (u *UCI) Summary(s search.SummaryReport) {
	u.mu.Lock()
	u.last = s
	u.mu.Unlock()

	score := "cp " + strconv.Itoa(s.Score)
	if search.IsMateScore(s.Score) {
		score = "mate " + strconv.Itoa(search.MovesToMate(s.Score))
	}
	pv := make([]string, len(s.PV))
	for i, m := range s.PV {
		pv[i] = m.String()
	}
	u.w.printf("info depth %d score %s nodes %d nps %d hashfull %d time %d pv %s",
		s.Depth, score, s.Nodes, s.NPS, s.Hashfull, s.Elapsed.Milliseconds(), strings.Join(pv, " "))
}

func (u *UCI) CurrentMove(c search.CurrentMoveReport) {
	u.w.printf("info currmove %s currmovenumber %d", c.Move, c.Number)
}

func (u *UCI) Stats(s search.StatsReport) {
	u.w.printf("info nodes %d nps %d hashfull %d time %d",
		s.Nodes, s.NPS, s.Hashfull, s.Elapsed.Milliseconds())
}
