package roll

import (
	"fmt"
	"strings"

	"pianoroll/debug"
	"pianoroll/theme"
)

// Command is a speed action bound to a control key
type Command int

const (
	CmdSlower Command = iota
	CmdFaster
	CmdReset
)

func (c Command) String() string {
	switch c {
	case CmdSlower:
		return "slower"
	case CmdFaster:
		return "faster"
	case CmdReset:
		return "reset"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// ControlKeys maps reserved note numbers to commands. A control key
// shadows the playable note with the same number.
type ControlKeys map[int]Command

// DefaultControlKeys reserves the three lowest keys
func DefaultControlKeys() ControlKeys {
	return ControlKeys{
		21: CmdSlower,
		22: CmdFaster,
		23: CmdReset,
	}
}

// Keyboard owns the 88 notes and the shared scroll speed
type Keyboard struct {
	notes    [NumKeys]*Note
	controls ControlKeys
	speed    *ScrollSpeed
	colors   ColorFunc
	onSpeed  func(float64)
}

type Option func(*Keyboard)

// WithControlKeys replaces the control key mapping; nil or empty disables it
func WithControlKeys(keys ControlKeys) Option {
	return func(k *Keyboard) {
		k.controls = keys
	}
}

func WithColorFunc(f ColorFunc) Option {
	return func(k *Keyboard) {
		if f != nil {
			k.colors = f
		}
	}
}

// WithSpeedListener is called after every speed command
func WithSpeedListener(f func(float64)) Option {
	return func(k *Keyboard) {
		k.onSpeed = f
	}
}

func WithInitialSpeed(v float64) Option {
	return func(k *Keyboard) {
		if v > 0 {
			k.speed = NewScrollSpeed(v)
		}
	}
}

func NewKeyboard(opts ...Option) *Keyboard {
	k := &Keyboard{
		controls: DefaultControlKeys(),
		speed:    NewScrollSpeed(DefaultSpeed),
		colors:   theme.VelocityColor,
	}
	for i := range k.notes {
		k.notes[i] = newNote(LowestNote + i)
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// PlayNote applies one note event: control keys change the speed, any
// other key toggles. Notes outside the piano range are an error.
func (k *Keyboard) PlayNote(note, velocity int) error {
	if cmd, ok := k.controls[note]; ok {
		k.Apply(cmd)
		return nil
	}

	n, ok := k.Note(note)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNote, note)
	}
	if err := n.Toggle(velocity); err != nil {
		return err
	}
	debug.Log("roll", "Showing %d rects.", k.countRects())
	return nil
}

// Apply runs a speed command
func (k *Keyboard) Apply(cmd Command) {
	switch cmd {
	case CmdSlower:
		k.speed.Slower()
	case CmdFaster:
		k.speed.Faster()
	case CmdReset:
		k.speed.Reset()
	default:
		return
	}
	if k.onSpeed != nil {
		k.onSpeed(k.speed.Value())
	}
}

// Tick advances every note by delta and draws it, in key order
func (k *Keyboard) Tick(delta int, s Surface, viewportHeight float64) {
	for _, n := range k.notes {
		n.Tick(delta, k.speed, s, viewportHeight, k.colors)
	}
}

// ReleaseAll closes every held key (the input device went away)
func (k *Keyboard) ReleaseAll() int {
	released := 0
	for _, n := range k.notes {
		if n.pressed && n.Release() == nil {
			released++
		}
	}
	return released
}

func (k *Keyboard) Note(n int) (*Note, bool) {
	if !InRange(n) {
		return nil, false
	}
	return k.notes[n-LowestNote], true
}

func (k *Keyboard) Speed() float64 {
	return k.speed.Value()
}

func (k *Keyboard) Controls() ControlKeys {
	return k.controls
}

// Time is the shared tick count; all notes advance together
func (k *Keyboard) Time() int {
	return k.notes[0].time
}

func (k *Keyboard) AnyPressed() bool {
	for _, n := range k.notes {
		if n.pressed {
			return true
		}
	}
	return false
}

// Pressed lists the held note numbers in key order
func (k *Keyboard) Pressed() []int {
	var out []int
	for _, n := range k.notes {
		if n.pressed {
			out = append(out, n.value)
		}
	}
	return out
}

// Rects collects every live rect in key order
func (k *Keyboard) Rects() []*Rect {
	var out []*Rect
	for _, n := range k.notes {
		out = append(out, n.rects...)
	}
	return out
}

func (k *Keyboard) countRects() int {
	total := 0
	for _, n := range k.notes {
		total += len(n.rects)
	}
	return total
}

// String shows X for a pressed key and O for a released one
func (k *Keyboard) String() string {
	var b strings.Builder
	b.Grow(NumKeys)
	for _, n := range k.notes {
		if n.pressed {
			b.WriteByte('X')
		} else {
			b.WriteByte('O')
		}
	}
	return b.String()
}
