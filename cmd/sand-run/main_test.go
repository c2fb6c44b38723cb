package main

import (
	"io"
	"log"
	"path/filepath"
	"slices"
	"testing"

	"mad-sand/internal/app"
	"mad-sand/internal/persistence/snapshot"
	"mad-sand/internal/sims/sand"
)

func TestLoadEngineFromConfig(t *testing.T) {
	cfg := app.NewConfig()
	cfg.Width, cfg.Height, cfg.Seed, cfg.Fill = 12, 9, 4, "layers"

	engine, run, err := loadEngine(cfg, "", log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if size := engine.Size(); size.W != 12 || size.H != 9 {
		t.Fatalf("size = %+v", size)
	}
	if run.Width != 12 || run.Height != 9 || run.Seed != 4 || run.Fill != "layers" {
		t.Fatalf("run = %+v", run)
	}
}

func TestLoadEngineFromSnapshotDescribesTheSnapshot(t *testing.T) {
	src := sand.DefaultConfig()
	src.Width, src.Height, src.Seed, src.Fill = 10, 6, 77, "random"
	original := sand.NewWithConfig(src)
	original.Tick()
	path := filepath.Join(t.TempDir(), "start.zst")
	if err := snapshot.Write(path, snapshot.FromEngine(original)); err != nil {
		t.Fatal(err)
	}

	// Flag config disagrees with the snapshot on every field.
	cfg := app.NewConfig()
	cfg.Width, cfg.Height, cfg.Seed, cfg.Fill = 40, 30, 1, "empty"

	engine, run, err := loadEngine(cfg, path, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !slices.Equal(engine.Tiles(), original.Tiles()) {
		t.Fatal("engine does not hold the snapshot grid")
	}
	if run.Width != 10 || run.Height != 6 || run.Seed != 77 || run.Fill != "random" {
		t.Fatalf("run = %+v, want the snapshot's metadata", run)
	}
}

func TestLoadEngineMissingSnapshot(t *testing.T) {
	_, _, err := loadEngine(app.NewConfig(), filepath.Join(t.TempDir(), "nope.zst"), log.New(io.Discard, "", 0))
	if err == nil {
		t.Fatal("expected an error for a missing snapshot")
	}
}
