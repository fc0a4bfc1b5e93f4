// Package comm hosts the protocol fronts. Each front parses one wire
// dialect from its input stream and implements engine.Publisher so search
// output reaches the GUI in the right format.
package comm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"goshawk/engine"
)

// Protocol is a wire front: a Publisher for engine output plus a command
// loop for GUI input. The loop returns on quit or EOF.
type Protocol interface {
	engine.Publisher
	loop(first string, scanner *bufio.Scanner) error
	bind(c *engine.Coordinator)
}

// Serve speaks to a GUI over in/out until quit or EOF. The dialect is
// picked from the first command: "xboard" selects the XBoard front,
// anything else falls to UCI, which is what modern GUIs open with.
func Serve(ctx context.Context, in io.Reader, out io.Writer, log zerolog.Logger, opts engine.Options) error {
	scanner := bufio.NewScanner(in)
	first := ""
	for scanner.Scan() {
		if first = strings.TrimSpace(scanner.Text()); first != "" {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if first == "" {
		return nil
	}

	var front Protocol
	if first == "xboard" {
		front = NewXBoard(out, log)
	} else {
		front = NewUCI(out, log)
	}
	opts.Log = log
	coord := engine.New(opts, front)
	front.bind(coord)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return coord.Run(ctx) })

	// The command loop runs here so quit does not strand a goroutine in a
	// blocking read.
	lerr := front.loop(first, scanner)
	coord.Quit()
	if werr := g.Wait(); lerr == nil {
		lerr = werr
	}
	return lerr
}

// writer serializes output lines; publisher callbacks and the command loop
// write concurrently.
type writer struct {
	mu  sync.Mutex
	out io.Writer
}

func (w *writer) printf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format+"\n", args...)
}
