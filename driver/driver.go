// Package driver runs the frame loop: each iteration either applies one
// due input event or advances the roll by one frame, never both.
package driver

import (
	"pianoroll/debug"
	"pianoroll/midi"
	"pianoroll/roll"
)

// Source hands out input events without blocking
type Source interface {
	Poll() (midi.Event, bool)
}

// Canvas is the raster the keyboard is drawn on each advance
type Canvas interface {
	roll.Surface
	Clear()
	Height() int
}

// Mode says what a single Step did
type Mode int

const (
	ModeEvent Mode = iota
	ModeAdvance
	ModeIdle
)

func (m Mode) String() string {
	switch m {
	case ModeEvent:
		return "event"
	case ModeAdvance:
		return "advance"
	default:
		return "idle"
	}
}

const (
	DefaultDelta      = 1
	DefaultSleepAfter = 30
	DefaultMaxEvents  = 256
)

// FrameStats summarizes one RunFrame call
type FrameStats struct {
	Events int
	Mode   Mode // how the frame ended
}

type Driver struct {
	kb     *roll.Keyboard
	src    Source
	canvas Canvas

	delta      int
	sleepAfter int
	hooks      []func(*roll.Keyboard)

	sinceLast int
	pending   *midi.Event
}

type Option func(*Driver)

// WithDelta sets how many ticks one advance moves the roll
func WithDelta(delta int) Option {
	return func(d *Driver) {
		if delta > 0 {
			d.delta = delta
		}
	}
}

// WithSleepAfter stops advancing once this many frames pass without input
// while no key is held. Zero keeps the roll moving forever.
func WithSleepAfter(frames int) Option {
	return func(d *Driver) {
		if frames >= 0 {
			d.sleepAfter = frames
		}
	}
}

// WithFrameHook runs f after every advance, on the loop goroutine
func WithFrameHook(f func(*roll.Keyboard)) Option {
	return func(d *Driver) {
		if f != nil {
			d.hooks = append(d.hooks, f)
		}
	}
}

func New(kb *roll.Keyboard, src Source, canvas Canvas, opts ...Option) *Driver {
	d := &Driver{
		kb:         kb,
		src:        src,
		canvas:     canvas,
		delta:      DefaultDelta,
		sleepAfter: DefaultSleepAfter,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Step runs one loop iteration
func (d *Driver) Step() Mode {
	if d.pending == nil && d.src != nil {
		if ev, ok := d.src.Poll(); ok {
			d.pending = &ev
		}
	}

	if d.pending != nil && d.sinceLast >= d.pending.Delay {
		ev := *d.pending
		d.pending = nil
		d.handle(ev)
		d.sinceLast = 0
		return ModeEvent
	}

	if d.pending == nil && d.sleepAfter > 0 && d.sinceLast >= d.sleepAfter && !d.kb.AnyPressed() {
		return ModeIdle
	}

	d.advance()
	return ModeAdvance
}

// RunFrame steps until the roll advances (or idles), applying at most
// maxEvents events on the way
func (d *Driver) RunFrame(maxEvents int) FrameStats {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}

	var stats FrameStats
	for {
		mode := d.Step()
		if mode != ModeEvent {
			stats.Mode = mode
			return stats
		}
		stats.Events++
		if stats.Events >= maxEvents {
			debug.LogEvery(100, "driver", "event cap hit, %d events this frame", stats.Events)
			stats.Mode = ModeEvent
			return stats
		}
	}
}

func (d *Driver) handle(ev midi.Event) {
	if ev.IsMeta || !ev.HasNote {
		return
	}
	if err := d.kb.PlayNote(int(ev.Note), ev.Velocity); err != nil {
		debug.Warn("driver", "ignoring %v: %v", ev, err)
	}
}

func (d *Driver) advance() {
	d.canvas.Clear()
	d.kb.Tick(d.delta, d.canvas, float64(d.canvas.Height()))
	d.sinceLast++
	for _, hook := range d.hooks {
		hook(d.kb)
	}
}

func (d *Driver) Keyboard() *roll.Keyboard {
	return d.kb
}

// Pending reports whether a polled event is waiting for its delay
func (d *Driver) Pending() bool {
	return d.pending != nil
}

// SinceLast is the number of advanced frames since the last applied event
func (d *Driver) SinceLast() int {
	return d.sinceLast
}

// Asleep reports whether the next Step would idle
func (d *Driver) Asleep() bool {
	return d.pending == nil && d.sleepAfter > 0 && d.sinceLast >= d.sleepAfter && !d.kb.AnyPressed()
}
