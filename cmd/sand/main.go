//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"mad-sand/internal/app"
	"mad-sand/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()
	if err := cfg.Resolve(flag.CommandLine); err != nil {
		log.Fatalf("config: %v", err)
	}

	sim := cfg.NewEngine()
	game := app.New(sim, cfg.Cell, cfg.Brush, cfg.Seed)
	size := sim.Size()

	h := size.H * cfg.Cell
	if ph := ui.PanelHeight(); ph > h {
		h = ph
	}
	ebiten.SetWindowTitle("mad-sand")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Cell+ui.PanelWidth, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
