package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mad-sand/internal/app"
	"mad-sand/internal/sound"
	"mad-sand/internal/term"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.TPS = 30
	cfg.Bind(flag.CommandLine)
	withSound := flag.Bool("sound", false, "play a short tone when selecting and painting")
	logPath := flag.String("log", "", "append diagnostics to this file")
	flag.Parse()
	if err := cfg.Resolve(flag.CommandLine); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// The terminal is the UI, so diagnostics only go to a file.
	logger := log.New(io.Discard, "", 0)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.New(f, "[term] ", log.LstdFlags|log.Lmicroseconds)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "screen init: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	// Fit the grid into the terminal when no explicit size was configured,
	// keeping the last row for the status line.
	if !flagSet("w") && !flagSet("h") && cfg.Path == "" {
		cols, rows := screen.Size()
		cfg.Width, cfg.Height = cols, rows-1
	}

	opts := term.Options{TPS: cfg.TPS, Brush: cfg.Brush, Logger: logger}
	if *withSound {
		b := sound.NewBeeper(880, 40*time.Millisecond)
		if err := b.Open(); err != nil {
			logger.Printf("sound disabled: %v", err)
		} else {
			opts.Tone = b
		}
	}

	sim := cfg.NewEngine()
	logger.Printf("grid %dx%d seed=%d fill=%s", sim.Size().W, sim.Size().H, cfg.Seed, cfg.Fill)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = term.NewSession(screen, sim, opts).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "sand-term: %v\n", err)
		os.Exit(1)
	}
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
