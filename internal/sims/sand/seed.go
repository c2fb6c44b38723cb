package sand

import (
	"sort"

	"mad-sand/internal/core"
)

// Seeder fills a freshly cleared grid with an initial distribution.
type Seeder func(g *core.ByteGrid, rng *core.RNG, p Params)

var seeders = map[string]Seeder{}

// RegisterSeeder adds a seeder under the provided name.
func RegisterSeeder(name string, s Seeder) {
	if name == "" || s == nil {
		return
	}
	seeders[name] = s
}

// Seeders lists the registered seeder names in sorted order.
func Seeders() []string {
	names := make([]string, 0, len(seeders))
	for n := range seeders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// seedRandom rolls every cell independently against the configured densities.
func seedRandom(g *core.ByteGrid, rng *core.RNG, p Params) {
	cells := g.Cells()
	for i := range cells {
		r := rng.Float64()
		switch {
		case r < p.LandChance:
			cells[i] = uint8(Land)
		case r < p.LandChance+p.WaterChance:
			cells[i] = uint8(Water)
		case r < p.LandChance+p.WaterChance+p.StaticChance:
			cells[i] = uint8(Static)
		default:
			cells[i] = uint8(Air)
		}
	}
}

// seedLayers builds a deterministic scene: a static floor, a water pool on it
// and a land band resting on the water that sinks once ticks begin.
func seedLayers(g *core.ByteGrid, _ *core.RNG, _ Params) {
	w, h := g.Dimensions()
	for x := 0; x < w; x++ {
		g.Set(x, h-1, uint8(Static))
		for y := h / 2; y < h-1; y++ {
			g.Set(x, y, uint8(Water))
		}
		for y := h / 4; y < h/2; y++ {
			g.Set(x, y, uint8(Land))
		}
	}
}

func init() {
	RegisterSeeder("random", seedRandom)
	RegisterSeeder("empty", func(*core.ByteGrid, *core.RNG, Params) {})
	RegisterSeeder("layers", seedLayers)
}
