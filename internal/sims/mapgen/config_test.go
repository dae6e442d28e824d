package mapgen

import (
	"errors"
	"flag"
	"testing"

	"regionmap/internal/gen/height"
	"regionmap/internal/gen/river"
)

func TestFromMapParsesKeys(t *testing.T) {
	c := FromMap(map[string]string{
		"size":       "64",
		"seed":       "-3",
		"tiler":      "bisect",
		"noise":      "simplex",
		"octaves":    "3",
		"sea_level":  "0.1",
		"tile_size":  "90",
		"river_mode": "all",
		"islands":    "false",
	})
	if c.Size != 64 || c.Seed != -3 || c.Tiler != TilerBisect {
		t.Fatalf("map fields not applied: %+v", c)
	}
	p := c.Params
	if p.Noise.Kind != height.NoiseSimplex || p.Noise.Octaves != 3 || p.SeaLevel != 0.1 {
		t.Fatalf("noise fields not applied: %+v", p)
	}
	if p.TileSize != 90 || p.RiverMode != river.MoveAll || p.Islands {
		t.Fatalf("tiler fields not applied: %+v", p)
	}
}

func TestFromMapIgnoresBadValues(t *testing.T) {
	def := DefaultConfig()
	c := FromMap(map[string]string{
		"size":       "-1",
		"tiler":      "voronoi",
		"noise":      "worley",
		"regions":    "abc",
		"river_cost": "0",
	})
	if c.Size != def.Size || c.Tiler != def.Tiler || c.Params.Noise.Kind != def.Params.Noise.Kind {
		t.Fatalf("bad values should keep defaults: %+v", c)
	}
	if c.Params.Regions != def.Params.Regions || c.Params.RiverCost != def.Params.RiverCost {
		t.Fatalf("bad values should keep defaults: %+v", c.Params)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	c := DefaultConfig()
	c.Params.TileSize = 0
	if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	c = DefaultConfig()
	c.Tiler = "hex"
	if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for unknown tiler, got %v", err)
	}
}

func TestBindParsesFlags(t *testing.T) {
	c := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.Bind(fs)
	err := fs.Parse([]string{"-size", "32", "-tiler", "grid", "-noise", "simplex", "-river_mode", "all", "-islands=false"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Size != 32 || c.Tiler != TilerGrid || c.Params.Noise.Kind != height.NoiseSimplex {
		t.Fatalf("flags not bound: %+v", c)
	}
	if c.Params.RiverMode != river.MoveAll || c.Params.Islands {
		t.Fatalf("flags not bound: %+v", c.Params)
	}

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(discard{})
	c.Bind(fs)
	if err := fs.Parse([]string{"-river_mode", "diagonal"}); err == nil {
		t.Fatal("unknown river mode must fail to parse")
	}
}

func TestMapRoundTrip(t *testing.T) {
	c := DefaultConfig()
	c.Size = 77
	c.Seed = 5
	c.Tiler = TilerGrid
	c.Params.SeaLevel = -0.125
	c.Params.Noise.Kind = height.NoiseSimplex
	c.Params.Islands = false
	c.Params.RiverMode = river.MoveAll
	if got := FromMap(c.Map()); got != c {
		t.Fatalf("round trip changed config:\n got %+v\nwant %+v", got, c)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestPaletteEncoding(t *testing.T) {
	if len(PaletteColors()) != 256 {
		t.Fatalf("palette has %d entries", len(PaletteColors()))
	}
	terrain, region := DecodeCell(encodeRegion(31, TerrainGrass))
	if terrain != TerrainGrass || region != 1 {
		t.Fatalf("decoded %v region %d", terrain, region)
	}
	if terrain, region := DecodeCell(displayRiver); terrain != TerrainRiver || region != -1 {
		t.Fatalf("river decoded as %v region %d", terrain, region)
	}
	if encodeRegion(29, TerrainSnow) != 255 {
		t.Fatal("last region hue must use the top of the byte range")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		h    float64
		want Terrain
	}{
		{-0.5, TerrainDeepWater},
		{-0.1, TerrainShallowWater},
		{0, TerrainSand},
		{0.1, TerrainGrass},
		{0.9, TerrainSnow},
	}
	for _, tc := range cases {
		if got := Classify(tc.h, 0); got != tc.want {
			t.Fatalf("Classify(%v) = %v, want %v", tc.h, got, tc.want)
		}
	}
	if Classify(0.3, 0.3).Water() {
		t.Fatal("a height equal to sea level is land")
	}
}
