package mapgen

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Terrain classifies a height relative to sea level.
type Terrain uint8

const (
	TerrainDeepWater Terrain = iota
	TerrainShallowWater
	TerrainSand
	TerrainGrass
	TerrainForest
	TerrainHills
	TerrainMountain
	TerrainSnow
	// TerrainRiver marks carved river cells.
	TerrainRiver
)

// Water reports whether t is open water or river.
func (t Terrain) Water() bool {
	return t == TerrainDeepWater || t == TerrainShallowWater || t == TerrainRiver
}

func (t Terrain) String() string {
	switch t {
	case TerrainDeepWater:
		return "deep water"
	case TerrainShallowWater:
		return "shallow water"
	case TerrainSand:
		return "sand"
	case TerrainGrass:
		return "grass"
	case TerrainForest:
		return "forest"
	case TerrainHills:
		return "hills"
	case TerrainMountain:
		return "mountain"
	case TerrainSnow:
		return "snow"
	case TerrainRiver:
		return "river"
	default:
		return "unknown"
	}
}

// Classify maps a height to a terrain class. Heights at or above sea level
// are land.
func Classify(h, seaLevel float64) Terrain {
	d := h - seaLevel
	switch {
	case d < -0.2:
		return TerrainDeepWater
	case d < 0:
		return TerrainShallowWater
	case d < 0.05:
		return TerrainSand
	case d < 0.2:
		return TerrainGrass
	case d < 0.35:
		return TerrainForest
	case d < 0.5:
		return TerrainHills
	case d < 0.65:
		return TerrainMountain
	default:
		return TerrainSnow
	}
}

const (
	displayTerrainMask = 0x07
	displayRiver       = uint8(TerrainRiver)
	displayRegionBase  = 16
	regionHues         = 30
	regionBlend        = 0.45
)

// RegionHues is the number of distinct region tints before colors repeat.
const RegionHues = regionHues

var mapPalette = buildPalette()

// Palette exposes the color palette used for rendering the map.
func (s *Session) Palette() []color.RGBA {
	return mapPalette
}

// PaletteColors returns the shared palette without a session.
func PaletteColors() []color.RGBA { return mapPalette }

func buildPalette() []color.RGBA {
	palette := make([]color.RGBA, 256)
	for i := range palette {
		v := uint8(i)
		switch {
		case v <= displayRiver:
			palette[i] = terrainColor(Terrain(v))
		case v < displayRegionBase:
			palette[i] = color.RGBA{A: 255}
		default:
			region := int(v-displayRegionBase) / 8
			palette[i] = regionColor(region, Terrain(v&displayTerrainMask))
		}
	}
	return palette
}

func terrainColor(t Terrain) color.RGBA {
	switch t {
	case TerrainDeepWater:
		return color.RGBA{R: 18, G: 40, B: 92, A: 255}
	case TerrainShallowWater:
		return color.RGBA{R: 36, G: 84, B: 150, A: 255}
	case TerrainSand:
		return color.RGBA{R: 214, G: 196, B: 140, A: 255}
	case TerrainGrass:
		return color.RGBA{R: 92, G: 150, B: 70, A: 255}
	case TerrainForest:
		return color.RGBA{R: 44, G: 104, B: 52, A: 255}
	case TerrainHills:
		return color.RGBA{R: 120, G: 112, B: 82, A: 255}
	case TerrainMountain:
		return color.RGBA{R: 130, G: 130, B: 140, A: 255}
	case TerrainSnow:
		return color.RGBA{R: 236, G: 240, B: 244, A: 255}
	case TerrainRiver:
		return color.RGBA{R: 60, G: 130, B: 210, A: 255}
	default:
		return color.RGBA{A: 255}
	}
}

// regionColor tints a terrain color with the region's hue.
func regionColor(region int, t Terrain) color.RGBA {
	base := terrainColor(t)
	hue := colorful.Hsv(float64(region%regionHues)*360/regionHues, 0.7, 0.95)
	c := colorful.Color{R: float64(base.R) / 255, G: float64(base.G) / 255, B: float64(base.B) / 255}
	r, g, b := c.BlendRgb(hue, regionBlend).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func encodeTerrain(t Terrain) uint8 { return uint8(t) }

func encodeRegion(region int, t Terrain) uint8 {
	return displayRegionBase + uint8(region%regionHues)*8 + uint8(t)&displayTerrainMask
}

// DecodeCell splits a display value into its terrain class and region. The
// region is -1 for unclaimed cells; ids repeat every RegionHues regions.
func DecodeCell(v uint8) (Terrain, int) {
	if v < displayRegionBase {
		return Terrain(v), -1
	}
	return Terrain(v & displayTerrainMask), int(v-displayRegionBase) / 8
}
