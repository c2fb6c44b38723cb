package app

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"mad-sand/internal/core"
	"mad-sand/internal/sims/sand"

	"gopkg.in/yaml.v3"
)

// Config represents the command-line parameters shared by every front-end.
type Config struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	SurfaceW int    `yaml:"surface_width"`
	SurfaceH int    `yaml:"surface_height"`
	Cell     int    `yaml:"cell_size"`
	TPS      int    `yaml:"tps"`
	Seed     int64  `yaml:"seed"`
	Fill     string `yaml:"fill"`
	Brush    int    `yaml:"brush"`
	Tile     string `yaml:"tile"`

	LandChance   float64 `yaml:"land_chance"`
	WaterChance  float64 `yaml:"water_chance"`
	StaticChance float64 `yaml:"static_chance"`

	Path string `yaml:"-"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	d := sand.DefaultConfig()
	return &Config{
		Width:        d.Width,
		Height:       d.Height,
		Cell:         4,
		TPS:          60,
		Seed:         d.Seed,
		Fill:         d.Fill,
		LandChance:   d.Params.LandChance,
		WaterChance:  d.Params.WaterChance,
		StaticChance: d.Params.StaticChance,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "grid height in cells")
	fs.IntVar(&c.SurfaceW, "surface-w", c.SurfaceW, "derive grid width from a surface this many pixels wide")
	fs.IntVar(&c.SurfaceH, "surface-h", c.SurfaceH, "derive grid height from a surface this many pixels tall")
	fs.IntVar(&c.Cell, "cell", c.Cell, "pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the initial fill and flow coin")
	fs.StringVar(&c.Fill, "fill", c.Fill, "initial fill: "+strings.Join(sand.Seeders(), ", "))
	fs.IntVar(&c.Brush, "brush", c.Brush, "paint brush radius in cells")
	fs.StringVar(&c.Tile, "tile", c.Tile, "initially selected tile, by name or key (e.g. water, w)")
	fs.Float64Var(&c.LandChance, "land", c.LandChance, "land density for the random fill")
	fs.Float64Var(&c.WaterChance, "water", c.WaterChance, "water density for the random fill")
	fs.Float64Var(&c.StaticChance, "static", c.StaticChance, "static density for the random fill")
	fs.StringVar(&c.Path, "config", c.Path, "optional yaml config file; explicit flags win")
}

// LoadFile reads a yaml config document.
func LoadFile(path string) (Config, error) {
	var c Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Resolve merges the optional config file underneath the parsed flags and
// derives the grid size from the surface size when one is given. Call it
// after fs.Parse.
func (c *Config) Resolve(fs *flag.FlagSet) error {
	if c.Path != "" {
		file, err := LoadFile(c.Path)
		if err != nil {
			return err
		}
		explicit := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		c.merge(file, explicit)
	}
	if c.Cell <= 0 {
		c.Cell = 1
	}
	if c.Tile != "" {
		t, ok := sand.ParseTile(c.Tile)
		if !ok {
			return fmt.Errorf("unknown tile %q", c.Tile)
		}
		c.Tile = t.Tag()
	}
	if c.SurfaceW > 0 && c.SurfaceH > 0 {
		size := core.GridSize(c.SurfaceW, c.SurfaceH, c.Cell)
		c.Width, c.Height = size.W, size.H
	}
	return nil
}

func (c *Config) merge(file Config, explicit map[string]bool) {
	setInt := func(name string, dst *int, v int) {
		if v != 0 && !explicit[name] {
			*dst = v
		}
	}
	setFloat := func(name string, dst *float64, v float64) {
		if v != 0 && !explicit[name] {
			*dst = v
		}
	}
	setInt("w", &c.Width, file.Width)
	setInt("h", &c.Height, file.Height)
	setInt("surface-w", &c.SurfaceW, file.SurfaceW)
	setInt("surface-h", &c.SurfaceH, file.SurfaceH)
	setInt("cell", &c.Cell, file.Cell)
	setInt("tps", &c.TPS, file.TPS)
	setInt("brush", &c.Brush, file.Brush)
	setFloat("land", &c.LandChance, file.LandChance)
	setFloat("water", &c.WaterChance, file.WaterChance)
	setFloat("static", &c.StaticChance, file.StaticChance)
	if file.Seed != 0 && !explicit["seed"] {
		c.Seed = file.Seed
	}
	if file.Fill != "" && !explicit["fill"] {
		c.Fill = file.Fill
	}
	if file.Tile != "" && !explicit["tile"] {
		c.Tile = file.Tile
	}
}

// SandConfig converts the front-end config into the engine's config.
func (c *Config) SandConfig() sand.Config {
	sc := sand.DefaultConfig()
	sc.Width = c.Width
	sc.Height = c.Height
	sc.Seed = c.Seed
	sc.Fill = c.Fill
	sc.Params = sand.Params{
		LandChance:   c.LandChance,
		WaterChance:  c.WaterChance,
		StaticChance: c.StaticChance,
	}
	return sc
}

// NewEngine builds a sandbox from the config, with the configured tile
// selected when one is set.
func (c *Config) NewEngine() *sand.Engine {
	e := sand.NewWithConfig(c.SandConfig())
	if c.Tile != "" {
		e.SetCurrentTile(c.Tile)
	}
	return e
}
