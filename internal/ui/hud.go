//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"regionmap/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

var (
	textBright = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	textDim    = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	textHeader = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	panelFill  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	barFill    = color.RGBA{R: 90, G: 150, B: 210, A: 255}
)

// HUD renders the generator parameter panel, progress summaries, stage
// timings and free-form status lines to the right of the map view.
type HUD struct {
	sim      core.Sim
	width    int
	panel    *ebiten.Image
	pixel    *ebiten.Image
	title    string
	snapshot core.ParameterSnapshot

	controls     []controlState
	intSetter    core.IntParameterSetter
	floatSetter  core.FloatParameterSetter
	panelOffsetX int

	status  []string
	timings []core.StageTiming
}

// NewHUD constructs a HUD for the provided generator and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0), title: buildTitle(sim)}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for i, ctrl := range provider.ParameterControls() {
			top := controlsTop + i*lineHeight
			buttonY := top + (lineHeight-buttonSize)/2
			plus := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
			minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
			h.controls = append(h.controls, controlState{control: ctrl, value: "--", top: top, minus: minus, plus: plus})
		}
	}
	h.intSetter, _ = sim.(core.IntParameterSetter)
	h.floatSetter, _ = sim.(core.FloatParameterSetter)
	return h
}

// SetStatus replaces the status lines drawn at the bottom of the panel.
func (h *HUD) SetStatus(lines ...string) {
	if h == nil {
		return
	}
	h.status = append(h.status[:0], lines...)
}

// SetTimings replaces the stage timing report.
func (h *HUD) SetTimings(timings []core.StageTiming) {
	if h == nil {
		return
	}
	h.timings = timings
}

// Update refreshes the cached parameter snapshot and handles clicks on the
// adjustment buttons.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	provider, ok := h.sim.(parameterProvider)
	if !ok {
		h.snapshot = core.ParameterSnapshot{}
		return
	}
	h.snapshot = provider.Parameters()
	h.refreshValues()
	h.handleInput()
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelFill)
	y := h.drawControls()
	y = h.drawSummaries(y)
	y = h.drawTimings(y)
	h.drawStatus(y)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Controls"
	}
	name := sim.Name()
	r, n := utf8.DecodeRuneInString(name)
	return fmt.Sprintf("%c%s map", unicode.ToUpper(r), name[n:])
}

func (h *HUD) refreshValues() {
	params := h.snapshot.Index()
	for i := range h.controls {
		state := &h.controls[i]
		state.hasValue = false
		state.value = "--"
		param, ok := params[state.control.Key]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			continue
		}
		state.current = v
		state.hasValue = true
		state.value = formatValue(state.control, v)
	}
}

func (h *HUD) handleInput() {
	if len(h.controls) == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	pt := image.Pt(mx-h.panelOffsetX, my)
	for i := range h.controls {
		state := &h.controls[i]
		switch {
		case pt.In(state.minus):
			h.apply(state, -1)
			return
		case pt.In(state.plus):
			h.apply(state, 1)
			return
		}
	}
}

// target computes the clamped value one step away from the current one and
// reports whether it differs.
func (h *HUD) target(state *controlState, direction int) (float64, bool) {
	if !state.hasValue || direction == 0 {
		return 0, false
	}
	ctrl := state.control
	step := ctrl.Step
	switch ctrl.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return 0, false
		}
		step = math.Max(math.Round(step), 1)
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return 0, false
		}
		if step <= 0 {
			step = 0.05
		}
	default:
		return 0, false
	}
	next := state.current + float64(direction)*step
	if ctrl.HasMin && next < ctrl.Min {
		next = ctrl.Min
	}
	if ctrl.HasMax && next > ctrl.Max {
		next = ctrl.Max
	}
	return next, math.Abs(next-state.current) > 1e-9
}

func (h *HUD) apply(state *controlState, direction int) {
	next, ok := h.target(state, direction)
	if !ok {
		return
	}
	var accepted bool
	if state.control.Type == core.ParamTypeInt {
		next = math.Round(next)
		accepted = h.intSetter.SetIntParameter(state.control.Key, int(next))
	} else {
		accepted = h.floatSetter.SetFloatParameter(state.control.Key, next)
	}
	if accepted {
		state.current = next
		state.value = formatValue(state.control, next)
	}
}

func (h *HUD) drawControls() int {
	face := basicfont.Face7x13
	headerY := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, headerY, textHeader)
	if len(h.controls) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, headerY+infoSpacing, textDim)
		return headerY + infoSpacing + sectionGap
	}
	for i := range h.controls {
		state := &h.controls[i]
		baseline := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, baseline, textBright)

		valueColor := textBright
		if !state.hasValue {
			valueColor = textDim
		}
		valueX := state.minus.Min.X - buttonGap - text.BoundString(face, state.value).Dx()
		text.Draw(h.panel, state.value, face, valueX, baseline, valueColor)

		_, minusOK := h.target(state, -1)
		_, plusOK := h.target(state, 1)
		h.drawButton(state.minus, "-", minusOK)
		h.drawButton(state.plus, "+", plusOK)
	}
	return controlsTop + len(h.controls)*lineHeight + sectionGap
}

func (h *HUD) drawSummaries(y int) int {
	face := basicfont.Face7x13
	for _, group := range h.snapshot.Groups {
		if group.Summary == "" {
			continue
		}
		text.Draw(h.panel, group.Name+": "+group.Summary, face, panelPadding, y, textDim)
		y += textLine
	}
	return y + sectionGap
}

func (h *HUD) drawTimings(y int) int {
	if len(h.timings) == 0 {
		return y
	}
	face := basicfont.Face7x13
	text.Draw(h.panel, "Stage timings", face, panelPadding, y, textHeader)
	y += textLine
	for _, st := range h.timings {
		label := fmt.Sprintf("%-8s %6.2fms", st.Name, float64(st.Avg.Microseconds())/1000)
		text.Draw(h.panel, label, face, panelPadding, y, textBright)
		barX := panelPadding + text.BoundString(face, label).Dx() + buttonGap
		barW := min(st.Bars*barUnit, h.width-panelPadding-barX)
		h.fillRect(image.Rect(barX, y-barHeight, barX+max(barW, 0), y), barFill)
		y += textLine
	}
	return y + sectionGap
}

func (h *HUD) drawStatus(y int) {
	face := basicfont.Face7x13
	for _, line := range h.status {
		text.Draw(h.panel, strings.TrimSpace(line), face, panelPadding, y, textBright)
		y += textLine
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	h.fillRect(rect, bg)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) fillRect(rect image.Rectangle, c color.RGBA) {
	if h.pixel == nil || rect.Empty() {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(c)
	h.panel.DrawImage(h.pixel, op)
}

func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	precision := 1
	switch step := ctrl.Step; {
	case step <= 0:
		precision = 2
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

type controlState struct {
	control  core.ParameterControl
	value    string
	current  float64
	hasValue bool

	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	textLine       = 16
	sectionGap     = 12
	barUnit        = 4
	barHeight      = 9
	controlsTop    = panelPadding + headerBaseline + 14
)
