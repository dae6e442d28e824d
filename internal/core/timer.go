package core

import (
	"sort"
	"time"
)

// FixedStep helps run simulation updates at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	fs := &FixedStep{}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := time.Now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}

// StageTiming is the averaged cost of one named stage over a report window.
type StageTiming struct {
	Name    string
	Avg     time.Duration
	Percent float64
	Bars    int
}

// StageTimer accumulates wall time per named stage and, every window frames,
// produces a report sorted by descending average cost.
type StageTimer struct {
	window int
	frames int
	order  []string
	totals map[string]time.Duration
}

// NewStageTimer constructs a timer that reports every window frames. A window
// of zero or less disables reporting.
func NewStageTimer(window int) *StageTimer {
	return &StageTimer{window: window, totals: make(map[string]time.Duration)}
}

// Time runs fn and charges its duration to the named stage.
func (t *StageTimer) Time(name string, fn func()) {
	start := time.Now()
	fn()
	t.Add(name, time.Since(start))
}

// Add charges d to the named stage.
func (t *StageTimer) Add(name string, d time.Duration) {
	if _, ok := t.totals[name]; !ok {
		t.order = append(t.order, name)
	}
	t.totals[name] += d
}

// EndFrame closes the current frame. When the window is full it returns the
// report and true, and resets the accumulated totals.
func (t *StageTimer) EndFrame() ([]StageTiming, bool) {
	if t.window <= 0 {
		return nil, false
	}
	t.frames++
	if t.frames < t.window {
		return nil, false
	}
	report := t.Report(t.frames)
	t.frames = 0
	for name := range t.totals {
		t.totals[name] = 0
	}
	return report, true
}

// Report averages the totals over frames. Stages averaging under a
// microsecond are omitted; each bar is four percent of the total, at least one.
func (t *StageTimer) Report(frames int) []StageTiming {
	if frames <= 0 {
		frames = 1
	}
	var total time.Duration
	for _, d := range t.totals {
		total += d
	}
	avgTotal := total / time.Duration(frames)
	out := make([]StageTiming, 0, len(t.order))
	for _, name := range t.order {
		avg := t.totals[name] / time.Duration(frames)
		if avg < time.Microsecond {
			continue
		}
		pct := 0.0
		if avgTotal > 0 {
			pct = float64(avg) / float64(avgTotal) * 100
		}
		bars := int(pct / 4)
		if bars < 1 {
			bars = 1
		}
		out = append(out, StageTiming{Name: name, Avg: avg, Percent: pct, Bars: bars})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Avg > out[j].Avg })
	return out
}
