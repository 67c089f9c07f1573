package roll

import "fmt"

// Rect is one press interval of a note. It is open while the key is held
// and closed (stop set) on release; closed rects never change again.
type Rect struct {
	note     *Note
	start    int
	stop     int
	closed   bool
	velocity int
}

// Geometry is the on-screen box of a rect for the current frame
type Geometry struct {
	Left, Top, Width, Height float64
}

func newRect(n *Note, velocity int) *Rect {
	return &Rect{
		note:     n,
		start:    n.time,
		velocity: velocity,
	}
}

func (r *Rect) Start() int    { return r.start }
func (r *Rect) Velocity() int { return r.velocity }
func (r *Rect) Note() *Note   { return r.note }

// Stop returns the stop tick and whether the rect is closed
func (r *Rect) Stop() (int, bool) {
	return r.stop, r.closed
}

func (r *Rect) Open() bool {
	return !r.closed
}

// close records the owning note's current time as the stop tick
func (r *Rect) close() {
	r.stop = r.note.time
	r.closed = true
}

// Duration is measured up to the note's current time while open
func (r *Rect) Duration() int {
	if r.closed {
		return r.stop - r.start
	}
	return r.note.time - r.start
}

// scrolled is how far a closed rect has moved down since release
func (r *Rect) scrolled(speed float64) float64 {
	if !r.closed {
		return 0
	}
	return speed * float64(r.note.time-r.stop)
}

// Geometry derives the box from scratch; nothing is cached between frames.
func (r *Rect) Geometry(speed float64) Geometry {
	return Geometry{
		Left:   float64((r.note.value-LowestNote)*KeyWidth + LeftMargin),
		Top:    r.scrolled(speed),
		Width:  KeyWidth,
		Height: speed * float64(r.Duration()),
	}
}

func (r *Rect) Draw(s Surface, speed *ScrollSpeed, colors ColorFunc) {
	g := r.Geometry(speed.Value())
	s.FillRect(g.Left, g.Top, g.Width, g.Height, colors(r.velocity))
}

func (r *Rect) String() string {
	stop := "-"
	if r.closed {
		stop = fmt.Sprint(r.stop)
	}
	return fmt.Sprintf("Note: %d, start: %d, stop: %s, duration: %d", r.note.value, r.start, stop, r.Duration())
}
