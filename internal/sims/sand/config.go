package sand

// Params holds the densities used by the random seeder.
type Params struct {
	LandChance   float64
	WaterChance  float64
	StaticChance float64
}

// Config controls the sandbox dimensions and initial fill.
type Config struct {
	Width  int
	Height int

	Seed int64
	Fill string

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  160,
		Height: 120,
		Seed:   1337,
		Fill:   "random",
		Params: Params{
			LandChance:   0.15,
			WaterChance:  0.15,
			StaticChance: 0.02,
		},
	}
}
