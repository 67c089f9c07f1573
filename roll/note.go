package roll

import (
	"fmt"

	"pianoroll/debug"
)

// Note is the state of one piano key: whether it is held, its local tick
// counter and the rects of its current and past presses, oldest first.
type Note struct {
	value   int
	pressed bool
	time    int
	rects   []*Rect
}

func newNote(value int) *Note {
	return &Note{value: value}
}

func (n *Note) Value() int    { return n.value }
func (n *Note) Pressed() bool { return n.pressed }
func (n *Note) Time() int     { return n.time }

// Rects returns a copy of the rect sequence
func (n *Note) Rects() []*Rect {
	out := make([]*Rect, len(n.rects))
	copy(out, n.rects)
	return out
}

// Press opens a new rect starting at the current time
func (n *Note) Press(velocity int) error {
	if n.pressed {
		return fmt.Errorf("%w: %d", ErrAlreadyPressed, n.value)
	}
	debug.Log("roll", ">>> Pressed note %d", n.value)
	n.pressed = true
	n.rects = append(n.rects, newRect(n, velocity))
	return nil
}

// Release closes the open rect. A release without a matching press
// means the incoming stream lost a note-on and is reported, not applied.
func (n *Note) Release() error {
	last := n.openRect()
	if !n.pressed || last == nil {
		return fmt.Errorf("%w: %d", ErrNotPressed, n.value)
	}
	last.close()
	n.pressed = false
	debug.Log("roll", "<<< Released note %d after %d", n.value, last.Duration())
	return nil
}

// Toggle is how every note event is applied: the model knows no on/off,
// so a second note-on without a note-off releases the key.
func (n *Note) Toggle(velocity int) error {
	if n.pressed {
		return n.Release()
	}
	return n.Press(velocity)
}

// Tick advances the note clock by delta, draws every rect and drops the
// closed ones that scrolled past viewportHeight. A dropped rect is still
// drawn in the frame it is dropped. Returns how many were dropped.
func (n *Note) Tick(delta int, speed *ScrollSpeed, s Surface, viewportHeight float64, colors ColorFunc) int {
	n.time += delta

	kept := n.rects[:0]
	for _, r := range n.rects {
		r.Draw(s, speed, colors)
		if r.closed && r.scrolled(speed.Value()) > viewportHeight {
			debug.Log("roll", "Dropped rectangle %v at %d", r, n.time)
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(n.rects); i++ {
		n.rects[i] = nil
	}
	dropped := len(n.rects) - len(kept)
	n.rects = kept
	return dropped
}

func (n *Note) openRect() *Rect {
	if len(n.rects) == 0 {
		return nil
	}
	last := n.rects[len(n.rects)-1]
	if last.closed {
		return nil
	}
	return last
}
