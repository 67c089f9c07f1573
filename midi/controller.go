package midi

import "errors"

var ErrPortNotFound = errors.New("unknown port")

// Source is polled once per loop iteration and must never block
type Source interface {
	Poll() (Event, bool)
}

// Controller is an open MIDI input device
type Controller interface {
	ID() string
	Close() error
}

// poll reads one event from ch without waiting
func poll(ch <-chan Event) (Event, bool) {
	select {
	case ev := <-ch:
		return ev, true
	default:
		return Event{}, false
	}
}
