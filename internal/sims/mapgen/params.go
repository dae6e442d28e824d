package mapgen

import (
	"strconv"

	"regionmap/internal/core"
)

// Parameters reports the configuration the next Reset will use, grouped for
// display, plus live counters for the current map.
func (s *Session) Parameters() core.ParameterSnapshot {
	p := s.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "Map",
			Params: []core.Parameter{
				intParam("size", "Size", s.cfg.Size),
				int64Param("seed", "Seed", s.cfg.Seed),
				stringParam("tiler", "Tiler", string(s.cfg.Tiler)),
			},
		},
		{
			Name: "Height",
			Params: []core.Parameter{
				intParam("height_batch", "Cells per step", p.HeightBatch),
				floatParam("sea_level", "Sea level", p.SeaLevel),
				stringParam("noise", "Noise", string(p.Noise.Kind)),
				intParam("octaves", "Octaves", p.Noise.Octaves),
				floatParam("gain", "Gain", p.Noise.Gain),
				floatParam("lacunarity", "Lacunarity", p.Noise.Lacunarity),
				floatParam("frequency", "Frequency", p.Noise.Frequency),
			},
		},
		{
			Name: "Regions",
			Params: []core.Parameter{
				intParam("regions", "Random seeds", p.Regions),
				intParam("grid_density", "Grid density", p.GridDensity),
				floatParam("grid_intensity", "Grid jitter", p.GridIntensity),
				intParam("growth_batch", "Growth passes per step", p.GrowthBatch),
				intParam("bisect_batch", "Bisect steps per step", p.BisectBatch),
				intParam("tile_size", "Tile size", p.TileSize),
				boolParam("islands", "Reseed islands", p.Islands),
			},
		},
		{
			Name: "Rivers",
			Params: []core.Parameter{
				intParam("rivers", "Max rivers", p.Rivers),
				intParam("river_cost", "Cost bound", p.RiverCost),
				stringParam("river_mode", "Moves", p.RiverMode.String()),
			},
		},
		{
			Name:    "Progress",
			Summary: s.phase.String(),
			Params: []core.Parameter{
				intParam("habitable", "Habitable", s.habitable),
				intParam("open", "Open", s.open.Len()),
				intParam("claimed", "Claimed", s.Claimed()),
				intParam("river_cells", "River cells", s.riverCells),
				intParam("region_count", "Regions", s.Regions()),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the HUD-adjustable parameters.
func (s *Session) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Step: 1},
		{Key: "sea_level", Label: "Sea level", Type: core.ParamTypeFloat, Step: 0.05, Min: -1, Max: 1, HasMin: true, HasMax: true},
		{Key: "octaves", Label: "Octaves", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 10, HasMin: true, HasMax: true},
		{Key: "gain", Label: "Gain", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, Max: 1, HasMin: true, HasMax: true},
		{Key: "regions", Label: "Random seeds", Type: core.ParamTypeInt, Step: 1, Min: 1, HasMin: true},
		{Key: "grid_density", Label: "Grid density", Type: core.ParamTypeInt, Step: 2, Min: 2, HasMin: true},
		{Key: "grid_intensity", Label: "Grid jitter", Type: core.ParamTypeFloat, Step: 0.5, Min: 0, HasMin: true},
		{Key: "growth_batch", Label: "Growth passes", Type: core.ParamTypeInt, Step: 1, Min: 1, HasMin: true},
		{Key: "tile_size", Label: "Tile size", Type: core.ParamTypeInt, Step: 50, Min: 1, HasMin: true},
		{Key: "rivers", Label: "Max rivers", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true},
		{Key: "river_cost", Label: "River cost", Type: core.ParamTypeInt, Step: 1, Min: 1, HasMin: true},
	}
}

// SetIntParameter updates an integer parameter for the next Reset.
func (s *Session) SetIntParameter(key string, value int) bool {
	p := &s.cfg.Params
	switch key {
	case "seed":
		s.cfg.Seed = int64(value)
	case "height_batch":
		if value <= 0 {
			return false
		}
		p.HeightBatch = value
	case "octaves":
		if value <= 0 {
			return false
		}
		p.Noise.Octaves = value
	case "regions":
		if value <= 0 {
			return false
		}
		p.Regions = value
	case "grid_density":
		if value <= 0 {
			return false
		}
		p.GridDensity = value
	case "growth_batch":
		if value <= 0 {
			return false
		}
		p.GrowthBatch = value
	case "bisect_batch":
		if value <= 0 {
			return false
		}
		p.BisectBatch = value
	case "tile_size":
		if value <= 0 {
			return false
		}
		p.TileSize = value
	case "rivers":
		if value < 0 {
			return false
		}
		p.Rivers = value
	case "river_cost":
		if value <= 0 {
			return false
		}
		p.RiverCost = value
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a floating point parameter for the next Reset.
func (s *Session) SetFloatParameter(key string, value float64) bool {
	p := &s.cfg.Params
	switch key {
	case "sea_level":
		p.SeaLevel = value
	case "gain":
		if value <= 0 {
			return false
		}
		p.Noise.Gain = value
	case "lacunarity":
		if value <= 0 {
			return false
		}
		p.Noise.Lacunarity = value
	case "frequency":
		if value <= 0 {
			return false
		}
		p.Noise.Frequency = value
	case "grid_intensity":
		if value < 0 {
			return false
		}
		p.GridIntensity = value
	default:
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
