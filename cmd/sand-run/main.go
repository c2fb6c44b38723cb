// Command sand-run advances a seeded sandbox headlessly for a fixed number of
// ticks, optionally recording per-tick stats and a final snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"mad-sand/internal/app"
	"mad-sand/internal/persistence/snapshot"
	"mad-sand/internal/persistence/statsdb"
	"mad-sand/internal/sims/sand"

	"github.com/cheggaaa/pb/v3"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	steps := flag.Int("steps", 1000, "ticks to run")
	dbPath := flag.String("db", "", "record per-tick stats into this sqlite file")
	load := flag.String("load", "", "start from this snapshot instead of a fresh fill")
	save := flag.String("save", "", "write the final grid to this snapshot file")
	quiet := flag.Bool("q", false, "no progress bar")
	flag.Parse()

	logger := log.New(os.Stderr, "[run] ", log.LstdFlags)
	if err := cfg.Resolve(flag.CommandLine); err != nil {
		logger.Fatalf("config: %v", err)
	}

	engine, run, err := loadEngine(cfg, *load, logger)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	ctx := context.Background()
	var (
		db    *statsdb.DB
		runID int64
	)
	if *dbPath != "" {
		if db, err = statsdb.Open(*dbPath); err != nil {
			logger.Fatalf("stats db: %v", err)
		}
		runID, err = db.StartRun(ctx, run)
		if err != nil {
			logger.Fatalf("stats db: %v", err)
		}
	}

	before := engine.Counts()
	var bar *pb.ProgressBar
	if !*quiet {
		bar = pb.StartNew(*steps)
	}
	total := 0
	for i := 0; i < *steps; i++ {
		changes := engine.Tick()
		total += len(changes)
		if db != nil {
			counts := engine.Counts()
			_ = db.RecordTick(runID, statsdb.TickRow{
				Tick:    engine.TickCount(),
				Changes: len(changes),
				Land:    counts[sand.Land],
				Water:   counts[sand.Water],
				Air:     counts[sand.Air],
			})
		}
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}
	after := engine.Counts()

	if db != nil {
		if err := db.Close(); err != nil {
			logger.Printf("stats db close: %v", err)
		}
		if n := db.Dropped(); n > 0 {
			logger.Printf("stats db dropped %d tick rows", n)
		}
		if reopened, err := statsdb.Open(*dbPath); err == nil {
			if sum, err := reopened.RunSummary(ctx, runID); err == nil {
				fmt.Printf("run %d: %d ticks recorded, %d changes, peak %d", sum.RunID, sum.Ticks, sum.TotalChanges, sum.MaxChanges)
				if sum.Settled {
					fmt.Printf(", settled at tick %d", sum.SettledAt)
				}
				fmt.Println()
			}
			_ = reopened.Close()
		}
	}

	if *save != "" {
		if err := snapshot.Write(*save, snapshot.FromEngine(engine)); err != nil {
			logger.Fatalf("save snapshot: %v", err)
		}
	}

	fmt.Printf("ticks=%d changes=%d\n", engine.TickCount(), total)
	conserved := true
	for t := 0; t < sand.NumTiles; t++ {
		if before[t] == after[t] && after[t] == 0 {
			continue
		}
		fmt.Printf("  %-8s %8d -> %8d\n", sand.Tile(t), before[t], after[t])
		if before[t] != after[t] {
			conserved = false
		}
	}
	if !conserved {
		fmt.Println("tile counts changed: conservation violated")
		os.Exit(1)
	}
	fmt.Println("tile counts conserved")
}

// loadEngine builds the engine from the snapshot at path, or from cfg when
// path is empty, and describes it as a stats run.
func loadEngine(cfg *app.Config, path string, logger *log.Logger) (*sand.Engine, statsdb.Run, error) {
	if path == "" {
		engine := cfg.NewEngine()
		size := engine.Size()
		return engine, statsdb.Run{Width: size.W, Height: size.H, Seed: cfg.Seed, Fill: engine.Config().Fill}, nil
	}
	h, err := snapshot.ReadHeader(path)
	if err != nil {
		return nil, statsdb.Run{}, fmt.Errorf("load snapshot: %w", err)
	}
	logger.Printf("loading %s: %dx%d at tick %d", path, h.Width, h.Height, h.Tick)
	snap, err := snapshot.Read(path)
	if err != nil {
		return nil, statsdb.Run{}, fmt.Errorf("load snapshot: %w", err)
	}
	engine, err := snapshot.NewEngine(snap)
	if err != nil {
		return nil, statsdb.Run{}, fmt.Errorf("restore snapshot: %w", err)
	}
	return engine, statsdb.Run{Width: h.Width, Height: h.Height, Seed: snap.Seed, Fill: snap.Fill}, nil
}
