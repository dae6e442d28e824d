//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"regionmap/internal/app"
	"regionmap/internal/cli"
	"regionmap/internal/sims/mapgen"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	mapCfg := mapgen.DefaultConfig()
	mapCfg.Bind(flag.CommandLine)
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	var overrides cli.Overrides
	flag.Var(&overrides, "set", "map parameter override in key=value form (repeatable)")
	flag.Parse()

	mapCfg = overrides.Apply(mapCfg)
	session, err := cli.Session(mapCfg)
	if err != nil {
		log.Fatalf("mapgen: %v", err)
	}
	logger := cli.NewLogger(os.Stderr, cfg.Verbose)
	session.SetLogger(logger)

	game := app.New(session, *cfg, mapCfg.Seed, logger)
	size := session.Size()

	ebiten.SetWindowTitle("regionmap - " + session.Name())
	ebiten.SetWindowSize(size.W*max(cfg.Scale, 1)+max(cfg.HUDWidth, 0), size.H*max(cfg.Scale, 1))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
