package roll

import "pianoroll/debug"

// Scroll speed in pixels per tick
const (
	DefaultSpeed = 5.0
	SpeedStep    = 0.5
)

// ScrollSpeed is the one speed shared by every note. The keyboard owns it
// and hands a pointer to each Note.Tick / Rect.Draw.
type ScrollSpeed struct {
	value float64
}

func NewScrollSpeed(v float64) *ScrollSpeed {
	return &ScrollSpeed{value: v}
}

func (s *ScrollSpeed) Value() float64 {
	return s.value
}

// Slower steps down while the speed is at least 1, so the floor is 0.5.
// Returns false when already at the floor.
func (s *ScrollSpeed) Slower() bool {
	if s.value >= 1 {
		s.value -= SpeedStep
		debug.Log("roll", "Slower -> %v", s.value)
		return true
	}
	debug.Log("roll", "Already at slowest speed -> %v", s.value)
	return false
}

func (s *ScrollSpeed) Faster() {
	s.value += SpeedStep
	debug.Log("roll", "Faster -> %v", s.value)
}

func (s *ScrollSpeed) Reset() {
	s.value = DefaultSpeed
	debug.Log("roll", "Reset -> %v", s.value)
}
