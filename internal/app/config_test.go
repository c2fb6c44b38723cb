package app

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mad-sand/internal/sims/sand"
)

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg := NewConfig()
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cfg.Resolve(fs); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return cfg
}

func TestResolveFileUnderFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sand.yaml")
	doc := "width: 64\nheight: 48\ntps: 30\nseed: 11\nfill: layers\nwater_chance: 0.4\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := parse(t, "-config", path, "-w", "100", "-seed", "5")
	if cfg.Width != 100 {
		t.Fatalf("explicit -w should win, got %d", cfg.Width)
	}
	if cfg.Height != 48 || cfg.TPS != 30 || cfg.Fill != "layers" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Seed != 5 {
		t.Fatalf("explicit -seed should win, got %d", cfg.Seed)
	}
	if cfg.WaterChance != 0.4 {
		t.Fatalf("water chance = %v", cfg.WaterChance)
	}

	sc := cfg.SandConfig()
	if sc.Width != 100 || sc.Height != 48 || sc.Params.WaterChance != 0.4 {
		t.Fatalf("sand config = %+v", sc)
	}
}

func TestResolveDerivesGridFromSurface(t *testing.T) {
	cfg := parse(t, "-surface-w", "803", "-surface-h", "600", "-cell", "4")
	if cfg.Width != 200 || cfg.Height != 150 {
		t.Fatalf("grid = %dx%d, want 200x150", cfg.Width, cfg.Height)
	}
}

func TestResolveMissingFile(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg := NewConfig()
	cfg.Bind(fs)
	_ = fs.Parse([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	if err := cfg.Resolve(fs); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("width: [1, 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected yaml error")
	}
}

func TestResolveTileSelection(t *testing.T) {
	cfg := parse(t, "-w", "8", "-h", "8", "-tile", "water")
	if cfg.Tile != "w" {
		t.Fatalf("tile = %q, want the water key", cfg.Tile)
	}
	if got := cfg.NewEngine().CurrentTile(); got != sand.Water {
		t.Fatalf("selection = %v, want water", got)
	}

	cfg = parse(t, "-w", "8", "-h", "8", "-tile", "=")
	if got := cfg.NewEngine().CurrentTile(); got != sand.Color11 {
		t.Fatalf("selection = %v, want color11", got)
	}
	if got := parse(t, "-w", "8", "-h", "8").NewEngine().CurrentTile(); got != sand.Land {
		t.Fatalf("default selection = %v, want land", got)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	bad := NewConfig()
	bad.Bind(fs)
	if err := fs.Parse([]string{"-tile", "lava"}); err != nil {
		t.Fatal(err)
	}
	if err := bad.Resolve(fs); err == nil {
		t.Fatal("unknown tile should fail to resolve")
	}
}

func TestFillHelpListsSeeders(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	NewConfig().Bind(fs)
	usage := fs.Lookup("fill").Usage
	for _, name := range sand.Seeders() {
		if !strings.Contains(usage, name) {
			t.Fatalf("fill usage %q does not mention %q", usage, name)
		}
	}
}
