package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"goshawk/comm"
	"goshawk/engine"
	"goshawk/transposition"
)

func main() {
	hash := flag.Int("hash", transposition.DefaultSizeMB, "transposition table size in MB")
	logLevel := flag.String("log-level", "warn", "log level: trace, debug, info, warn, error, off")
	logFile := flag.String("log-file", "", "write logs to this file instead of stderr")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad log level %q\n", *logLevel)
		os.Exit(2)
	}

	logOut := os.Stderr
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(2)
		}
		defer f.Close()
		logOut = f
	}
	log := zerolog.New(logOut).Level(level).With().Timestamp().Logger()

	if err := comm.Serve(context.Background(), os.Stdin, os.Stdout, log, engine.Options{HashMB: *hash}); err != nil {
		log.Error().Err(err).Msg("session ended with error")
		os.Exit(1)
	}
}
