package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"strings"
	"time"

	"regionmap/internal/cli"
	"regionmap/internal/core"
	"regionmap/internal/render"
	"regionmap/internal/sims/mapgen"
)

func main() {
	mapCfg := mapgen.DefaultConfig()
	mapCfg.Bind(flag.CommandLine)
	out := flag.String("out", "map.png", "PNG file to write")
	scale := flag.Int("scale", 4, "pixels per cell")
	outline := flag.Bool("outline", false, "draw region borders")
	timing := flag.Bool("timing", true, "print per-phase timings")
	verbose := flag.Bool("v", false, "log debug messages")
	var overrides cli.Overrides
	flag.Var(&overrides, "set", "map parameter override in key=value form (repeatable)")
	flag.Parse()

	mapCfg = overrides.Apply(mapCfg)
	session, err := cli.Session(mapCfg)
	if err != nil {
		log.Fatalf("mapgen-render: %v", err)
	}
	logger := cli.NewLogger(os.Stderr, *verbose)
	session.SetLogger(logger)

	timer := core.NewStageTimer(0)
	start := time.Now()
	for !session.Done() {
		timer.Time(session.Stage(), session.Step)
	}
	elapsed := time.Since(start)
	logger.Info("map generated",
		"tiler", session.Name(),
		"seed", session.Seed(),
		"steps", session.Steps(),
		"regions", session.Regions(),
		"rivers", session.Rivers(),
		"habitable", session.Habitable(),
		"elapsed", elapsed)

	if *timing {
		for _, st := range timer.Report(1) {
			fmt.Printf("%-8s %10s %5.1f%% %s\n", st.Name, st.Avg.Round(time.Microsecond), st.Percent, strings.Repeat("#", st.Bars))
		}
	}

	opts := render.ExportOptions{
		Scale:   *scale,
		Caption: fmt.Sprintf("%s seed %d, %d regions, %d rivers", session.Name(), session.Seed(), session.Regions(), session.Rivers()),
	}
	if *outline {
		opts.Outline = session.RegionMask(true)
		opts.OutlineColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	}
	if err := render.ExportPNG(*out, session.Cells(), session.Size().W, session.Palette(), opts); err != nil {
		log.Fatalf("mapgen-render: %v", err)
	}
	logger.Info("map written", "path", *out)
}
