package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// FileSource replays a Standard MIDI File as a stream of events whose
// Delay is expressed in frames at a fixed frame rate.
type FileSource struct {
	events []Event
	next   int
}

type timedEvent struct {
	micros int64
	track  int
	order  int
	ev     Event
}

// ReadFile loads path for replay at fps frames per second
func ReadFile(path string, fps int) (src *FileSource, err error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	return NewFileSource(bytes.NewReader(dat), fps)
}

// NewFileSource parses an SMF from r
func NewFileSource(r io.Reader, fps int) (src *FileSource, err error) {
	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", fps)
	}

	// the smf reader can panic on malformed files
	defer func() {
		if rec := recover(); rec != nil {
			src = nil
			err = errors.New(fmt.Sprint("parsing midi file: ", rec))
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("parsing midi file: %w", err)
	}

	var timed []timedEvent
	for ti, track := range s.Tracks {
		var absTicks int64
		for i, e := range track {
			absTicks += int64(e.Delta)
			var ev Event
			if e.Message.IsMeta() {
				ev = Event{Kind: KindMeta, IsMeta: true, Velocity: NoVelocity}
			} else {
				ev = FromMessage(gomidi.Message(e.Message))
			}
			timed = append(timed, timedEvent{
				micros: s.TimeAt(absTicks),
				track:  ti,
				order:  i,
				ev:     ev,
			})
		}
	}

	// earlier first; at the same instant releases go before presses so a
	// re-struck note is not inverted by the toggle model
	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].micros != timed[j].micros {
			return timed[i].micros < timed[j].micros
		}
		return isRelease(timed[i].ev) && !isRelease(timed[j].ev)
	})

	src = &FileSource{events: make([]Event, 0, len(timed))}
	prevFrame := 0
	for _, te := range timed {
		frame := int(math.Round(float64(te.micros) * float64(fps) / 1e6))
		te.ev.Delay = frame - prevFrame
		prevFrame = frame
		src.events = append(src.events, te.ev)
	}
	return src, nil
}

func isRelease(ev Event) bool {
	return ev.Kind == KindNoteOff || (ev.Kind == KindNoteOn && ev.Velocity == 0)
}

// Poll hands out the next event; it never waits, the delay is the
// caller's business
func (f *FileSource) Poll() (Event, bool) {
	if f.next >= len(f.events) {
		return Event{}, false
	}
	ev := f.events[f.next]
	f.next++
	return ev, true
}

// Done reports whether every event has been handed out
func (f *FileSource) Done() bool {
	return f.next >= len(f.events)
}

func (f *FileSource) Len() int {
	return len(f.events)
}

// Duration is the total length in frames
func (f *FileSource) Duration() int {
	total := 0
	for _, ev := range f.events {
		total += ev.Delay
	}
	return total
}
