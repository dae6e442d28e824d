// Package cli holds the plumbing shared by the mapgen commands: generator
// lookup, repeatable key=value overrides and the run-scoped logger.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"regionmap/internal/core"
	"regionmap/internal/sims/mapgen"

	"github.com/google/uuid"
)

// Overrides collects repeatable -set key=value flags.
type Overrides []string

func (o *Overrides) String() string {
	return strings.Join(*o, ",")
}

// Set appends one override.
func (o *Overrides) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("override %q is not in key=value form", value)
	}
	*o = append(*o, value)
	return nil
}

// Apply layers the overrides on top of cfg using the generator's own map
// parsing, so unknown keys and bad values are ignored the same way.
func (o Overrides) Apply(cfg mapgen.Config) mapgen.Config {
	if len(o) == 0 {
		return cfg
	}
	m := cfg.Map()
	for _, kv := range o {
		key, value, _ := strings.Cut(kv, "=")
		m[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	out := mapgen.FromMap(m)
	// Keep unknown tiler names so Session can suggest a registered one.
	if _, ok := mapgen.ParseTilerKind(m["tiler"]); !ok {
		out.Tiler = mapgen.TilerKind(m["tiler"])
	}
	return out
}

// Session resolves cfg.Tiler in the generator registry, validates cfg and
// builds the session. Unknown tiler names get a closest-match suggestion.
func Session(cfg mapgen.Config) (*mapgen.Session, error) {
	factory, ok := core.Sims()[string(cfg.Tiler)]
	if !ok {
		if s, found := core.Suggest(string(cfg.Tiler)); found {
			return nil, fmt.Errorf("unknown tiler %q, did you mean %q?", cfg.Tiler, s)
		}
		return nil, fmt.Errorf("unknown tiler %q (have %s)", cfg.Tiler, strings.Join(core.Names(), ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, ok := factory(cfg.Map()).(*mapgen.Session)
	if !ok {
		return nil, fmt.Errorf("tiler %q is not a map generator", cfg.Tiler)
	}
	return s, nil
}

// NewLogger returns a text logger writing to w, tagged with a fresh run id.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("run", uuid.NewString())
}
