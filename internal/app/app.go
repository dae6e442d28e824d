//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"regionmap/internal/core"
	"regionmap/internal/render"
	"regionmap/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

type stager interface {
	Stage() string
	Done() bool
}

type riverCarver interface {
	CarveRiver() bool
}

type regionLocator interface {
	RegionAt(c core.Coord) (int, bool)
}

const (
	timingWindow = 60
	panSpeed     = 6.0
	minZoom      = 0.25
	maxZoom      = 16.0
)

// Game adapts a map generator to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	cfg     Config
	log     *slog.Logger
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	timer   *core.StageTimer
	palette []color.RGBA

	paused   bool
	tickOnce bool
	seed     int64

	camX, camY float64
	zoom       float64
}

// New constructs a Game for the provided generator.
func New(sim core.Sim, cfg Config, seed int64, log *slog.Logger) *Game {
	cfg.normalize()
	if log == nil {
		log = slog.Default()
	}
	size := sim.Size()
	g := &Game{
		sim:     sim,
		cfg:     cfg,
		log:     log,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim),
		hud:     ui.NewHUD(sim, cfg.HUDWidth),
		timer:   core.NewStageTimer(timingWindow),
		seed:    seed,
		zoom:    1,
	}
	if p, ok := sim.(paletteProvider); ok {
		g.palette = p.Palette()
	} else {
		g.palette = []color.RGBA{{0, 0, 0, 255}, {255, 255, 255, 255}}
	}
	ebiten.SetTPS(cfg.TPS)
	return g
}

// Reset reinitializes the generator with the provided seed. A zero seed
// lets the generator use its configured seed, including one changed from the
// HUD.
func (g *Game) Reset(seed int64) {
	g.sim.Reset(seed)
	g.seed = resolvedSeed(g.sim, seed)
	g.tickOnce = false
	g.log.Info("map reset", "seed", g.seed, "generator", g.sim.Name())
}

// Update handles per-frame input and advances the generator.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		if c, ok := g.sim.(riverCarver); ok && !c.CarveRiver() {
			g.log.Debug("river request refused")
		}
	}
	g.updateCamera()
	g.overlay.Update()
	g.hud.Update(g.viewWidth())

	if !g.paused || g.tickOnce {
		g.advance()
		g.tickOnce = false
	}
	if report, ok := g.timer.EndFrame(); ok {
		g.hud.SetTimings(report)
	}
	g.hud.SetStatus(g.status()...)
	return nil
}

func (g *Game) advance() {
	st, staged := g.sim.(stager)
	for i := 0; i < g.cfg.Steps; i++ {
		if staged && st.Done() {
			return
		}
		stage := "step"
		if staged {
			stage = st.Stage()
		}
		g.timer.Time(stage, g.sim.Step)
	}
}

func (g *Game) updateCamera() {
	step := panSpeed / g.zoom
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.camX -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.camX += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.camY -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.camY += step
	}
	_, wheel := ebiten.Wheel()
	switch {
	case wheel > 0 || inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		g.zoom = min(g.zoom*1.25, maxZoom)
	case wheel < 0 || inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		g.zoom = max(g.zoom/1.25, minZoom)
	}
	if inpututil.IsKeyJustPressed(ebiten.Key0) {
		g.camX, g.camY, g.zoom = 0, 0, 1
	}
}

// geo maps grid cells to screen pixels.
func (g *Game) geo() ebiten.GeoM {
	var geo ebiten.GeoM
	geo.Scale(float64(g.cfg.Scale), float64(g.cfg.Scale))
	geo.Translate(-g.camX, -g.camY)
	geo.Scale(g.zoom, g.zoom)
	return geo
}

func (g *Game) status() []string {
	lines := []string{fmt.Sprintf("seed %d", g.seed)}
	if g.paused {
		lines = append(lines, "paused")
	}
	loc, ok := g.sim.(regionLocator)
	if !ok {
		return lines
	}
	mx, my := ebiten.CursorPosition()
	if mx >= g.viewWidth() {
		return lines
	}
	inv := g.geo()
	inv.Invert()
	fx, fy := inv.Apply(float64(mx), float64(my))
	c := core.Coord{X: int(fx), Y: int(fy)}
	if fx < 0 || fy < 0 {
		return lines
	}
	if id, ok := loc.RegionAt(c); ok {
		lines = append(lines, fmt.Sprintf("cell %d,%d region %d", c.X, c.Y, id))
	} else {
		lines = append(lines, fmt.Sprintf("cell %d,%d", c.X, c.Y))
	}
	return lines
}

// Draw renders the current map state.
func (g *Game) Draw(screen *ebiten.Image) {
	geo := g.geo()
	g.painter.Blit(screen, g.sim.Cells(), g.palette, geo)
	g.overlay.Draw(screen, geo)
	g.hud.Draw(screen, g.viewWidth(), g.viewHeight())
}

func (g *Game) viewWidth() int  { return g.sim.Size().W * g.cfg.Scale }
func (g *Game) viewHeight() int { return g.sim.Size().H * g.cfg.Scale }

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.viewWidth() + g.cfg.HUDWidth, g.viewHeight()
}
