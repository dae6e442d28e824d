package mapgen

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"regionmap/internal/gen/height"
	"regionmap/internal/gen/river"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("mapgen: invalid config")

// TilerKind selects the partitioner run after rivers are carved.
type TilerKind string

const (
	// TilerGrowth grows regions from uniformly random seeds.
	TilerGrowth TilerKind = "growth"
	// TilerGrid grows regions from jittered lattice seeds.
	TilerGrid TilerKind = "grid"
	// TilerBisect splits land by repeated two-way flood fills.
	TilerBisect TilerKind = "bisect"
)

// ParseTilerKind maps a name to a tiler kind.
func ParseTilerKind(s string) (TilerKind, bool) {
	switch k := TilerKind(s); k {
	case TilerGrowth, TilerGrid, TilerBisect:
		return k, true
	}
	return "", false
}

// Params holds the generator tunables.
type Params struct {
	HeightBatch int
	SeaLevel    float64
	Noise       height.NoiseConfig

	Regions       int
	GridDensity   int
	GridIntensity float64
	GrowthBatch   int
	BisectBatch   int
	TileSize      int
	Islands       bool

	Rivers    int
	RiverCost int
	RiverMode river.MoveMode
}

// Config controls the map session.
type Config struct {
	Size  int
	Seed  int64
	Tiler TilerKind

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Size:  128,
		Seed:  1337,
		Tiler: TilerGrowth,
		Params: Params{
			HeightBatch:   1024,
			SeaLevel:      0,
			Noise:         height.DefaultNoise(),
			Regions:       24,
			GridDensity:   24,
			GridIntensity: 6,
			GrowthBatch:   1,
			BisectBatch:   64,
			TileSize:      400,
			Islands:       true,
			Rivers:        3,
			RiverCost:     4,
			RiverMode:     river.MoveLateral,
		},
	}
}

// sanitized replaces non-positive sizes, counts and batch lengths with the
// defaults so every session step does bounded, non-zero work.
func (c Config) sanitized() Config {
	def := DefaultConfig()
	p, dp := &c.Params, def.Params
	if _, ok := ParseTilerKind(string(c.Tiler)); !ok {
		c.Tiler = def.Tiler
	}
	if p.HeightBatch <= 0 {
		p.HeightBatch = dp.HeightBatch
	}
	if p.Regions <= 0 {
		p.Regions = dp.Regions
	}
	if p.GridDensity <= 0 {
		p.GridDensity = dp.GridDensity
	}
	if p.GridIntensity < 0 {
		p.GridIntensity = dp.GridIntensity
	}
	if p.GrowthBatch <= 0 {
		p.GrowthBatch = dp.GrowthBatch
	}
	if p.BisectBatch <= 0 {
		p.BisectBatch = dp.BisectBatch
	}
	if p.TileSize <= 0 {
		p.TileSize = dp.TileSize
	}
	if p.Rivers < 0 {
		p.Rivers = 0
	}
	if p.RiverCost <= 0 {
		p.RiverCost = dp.RiverCost
	}
	return c
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparsable or out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	p := &c.Params
	if v, ok := cfg["size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Size = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["tiler"]; ok {
		if kind, ok := ParseTilerKind(v); ok {
			c.Tiler = kind
		}
	}
	if v, ok := cfg["height_batch"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.HeightBatch = parsed
		}
	}
	if v, ok := cfg["sea_level"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			p.SeaLevel = parsed
		}
	}
	if v, ok := cfg["noise"]; ok {
		switch kind := height.NoiseKind(v); kind {
		case height.NoisePerlin, height.NoiseSimplex:
			p.Noise.Kind = kind
		}
	}
	if v, ok := cfg["octaves"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.Noise.Octaves = parsed
		}
	}
	if v, ok := cfg["gain"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			p.Noise.Gain = parsed
		}
	}
	if v, ok := cfg["lacunarity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			p.Noise.Lacunarity = parsed
		}
	}
	if v, ok := cfg["frequency"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			p.Noise.Frequency = parsed
		}
	}
	if v, ok := cfg["regions"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.Regions = parsed
		}
	}
	if v, ok := cfg["grid_density"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.GridDensity = parsed
		}
	}
	if v, ok := cfg["grid_intensity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			p.GridIntensity = parsed
		}
	}
	if v, ok := cfg["growth_batch"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.GrowthBatch = parsed
		}
	}
	if v, ok := cfg["bisect_batch"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.BisectBatch = parsed
		}
	}
	if v, ok := cfg["tile_size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.TileSize = parsed
		}
	}
	if v, ok := cfg["islands"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			p.Islands = parsed
		}
	}
	if v, ok := cfg["rivers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			p.Rivers = parsed
		}
	}
	if v, ok := cfg["river_cost"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.RiverCost = parsed
		}
	}
	if v, ok := cfg["river_mode"]; ok {
		if mode, ok := river.ParseMoveMode(v); ok {
			p.RiverMode = mode
		}
	}
	return c
}

// Map renders the config as the key/value pairs FromMap accepts.
func (c Config) Map() map[string]string {
	p := c.Params
	return map[string]string{
		"size":           strconv.Itoa(c.Size),
		"seed":           strconv.FormatInt(c.Seed, 10),
		"tiler":          string(c.Tiler),
		"height_batch":   strconv.Itoa(p.HeightBatch),
		"sea_level":      strconv.FormatFloat(p.SeaLevel, 'g', -1, 64),
		"noise":          string(p.Noise.Kind),
		"octaves":        strconv.Itoa(p.Noise.Octaves),
		"gain":           strconv.FormatFloat(p.Noise.Gain, 'g', -1, 64),
		"lacunarity":     strconv.FormatFloat(p.Noise.Lacunarity, 'g', -1, 64),
		"frequency":      strconv.FormatFloat(p.Noise.Frequency, 'g', -1, 64),
		"regions":        strconv.Itoa(p.Regions),
		"grid_density":   strconv.Itoa(p.GridDensity),
		"grid_intensity": strconv.FormatFloat(p.GridIntensity, 'g', -1, 64),
		"growth_batch":   strconv.Itoa(p.GrowthBatch),
		"bisect_batch":   strconv.Itoa(p.BisectBatch),
		"tile_size":      strconv.Itoa(p.TileSize),
		"islands":        strconv.FormatBool(p.Islands),
		"rivers":         strconv.Itoa(p.Rivers),
		"river_cost":     strconv.Itoa(p.RiverCost),
		"river_mode":     p.RiverMode.String(),
	}
}

// Validate reports the first field that cannot drive a session.
func (c Config) Validate() error {
	p := c.Params
	switch {
	case c.Size <= 0:
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, c.Size)
	case p.HeightBatch <= 0:
		return fmt.Errorf("%w: height_batch must be positive, got %d", ErrInvalidConfig, p.HeightBatch)
	case p.Regions <= 0:
		return fmt.Errorf("%w: regions must be positive, got %d", ErrInvalidConfig, p.Regions)
	case p.GridDensity <= 0:
		return fmt.Errorf("%w: grid_density must be positive, got %d", ErrInvalidConfig, p.GridDensity)
	case p.GridIntensity < 0:
		return fmt.Errorf("%w: grid_intensity must not be negative, got %g", ErrInvalidConfig, p.GridIntensity)
	case p.GrowthBatch <= 0 || p.BisectBatch <= 0:
		return fmt.Errorf("%w: tiler batch sizes must be positive", ErrInvalidConfig)
	case p.TileSize <= 0:
		return fmt.Errorf("%w: tile_size must be positive, got %d", ErrInvalidConfig, p.TileSize)
	case p.Rivers < 0:
		return fmt.Errorf("%w: rivers must not be negative, got %d", ErrInvalidConfig, p.Rivers)
	case p.RiverCost <= 0:
		return fmt.Errorf("%w: river_cost must be positive, got %d", ErrInvalidConfig, p.RiverCost)
	}
	if _, ok := ParseTilerKind(string(c.Tiler)); !ok {
		return fmt.Errorf("%w: unknown tiler %q", ErrInvalidConfig, c.Tiler)
	}
	switch p.Noise.Kind {
	case height.NoisePerlin, height.NoiseSimplex:
	default:
		return fmt.Errorf("%w: unknown noise %q", ErrInvalidConfig, p.Noise.Kind)
	}
	return nil
}

// Bind registers one flag per config key on fs. Parsing fs afterwards writes
// straight into c.
func (c *Config) Bind(fs *flag.FlagSet) {
	p := &c.Params
	fs.IntVar(&c.Size, "size", c.Size, "grid edge length")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "map seed")
	// Unknown tiler names are kept so callers can suggest a registered one.
	fs.Func("tiler", "partitioner: growth, grid or bisect (default "+string(c.Tiler)+")", func(v string) error {
		c.Tiler = TilerKind(v)
		return nil
	})
	fs.IntVar(&p.HeightBatch, "height_batch", p.HeightBatch, "cells sampled per step")
	fs.Float64Var(&p.SeaLevel, "sea_level", p.SeaLevel, "heights at or above this are land")
	fs.Func("noise", "noise backend: perlin or simplex (default "+string(p.Noise.Kind)+")", func(v string) error {
		switch kind := height.NoiseKind(v); kind {
		case height.NoisePerlin, height.NoiseSimplex:
			p.Noise.Kind = kind
			return nil
		}
		return fmt.Errorf("unknown noise %q", v)
	})
	fs.IntVar(&p.Noise.Octaves, "octaves", p.Noise.Octaves, "noise octaves")
	fs.Float64Var(&p.Noise.Gain, "gain", p.Noise.Gain, "amplitude factor per octave")
	fs.Float64Var(&p.Noise.Lacunarity, "lacunarity", p.Noise.Lacunarity, "frequency factor per octave")
	fs.Float64Var(&p.Noise.Frequency, "frequency", p.Noise.Frequency, "base noise frequency")
	fs.IntVar(&p.Regions, "regions", p.Regions, "random seed count for the growth tiler")
	fs.IntVar(&p.GridDensity, "grid_density", p.GridDensity, "lattice spacing for the grid tiler")
	fs.Float64Var(&p.GridIntensity, "grid_intensity", p.GridIntensity, "maximum lattice jitter")
	fs.IntVar(&p.GrowthBatch, "growth_batch", p.GrowthBatch, "growth passes per step")
	fs.IntVar(&p.BisectBatch, "bisect_batch", p.BisectBatch, "bisection micro-steps per step")
	fs.IntVar(&p.TileSize, "tile_size", p.TileSize, "largest tile the bisection tiler leaves")
	fs.BoolVar(&p.Islands, "islands", p.Islands, "reseed land no region reached")
	fs.IntVar(&p.Rivers, "rivers", p.Rivers, "upper bound on river count")
	fs.IntVar(&p.RiverCost, "river_cost", p.RiverCost, "upper bound of the random river cost field")
	fs.Func("river_mode", "river moves: lateral or all (default "+p.RiverMode.String()+")", func(v string) error {
		mode, ok := river.ParseMoveMode(v)
		if !ok {
			return fmt.Errorf("unknown river mode %q", v)
		}
		p.RiverMode = mode
		return nil
	})
}
