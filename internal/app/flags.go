package app

import "flag"

// Config represents the viewer's command-line parameters. Map parameters are
// bound separately by the generator's own config.
type Config struct {
	Scale    int
	TPS      int
	Steps    int
	HUDWidth int
	Verbose  bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 5, TPS: 60, Steps: 1, HUDWidth: 280}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.Steps, "steps", c.Steps, "generator steps per tick")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the parameter panel, 0 hides it")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log debug messages")
}

// normalize clamps values the viewer cannot work with.
func (c *Config) normalize() {
	c.Scale = max(c.Scale, 1)
	c.Steps = max(c.Steps, 1)
	c.HUDWidth = max(c.HUDWidth, 0)
	if c.TPS <= 0 {
		c.TPS = 60
	}
}
