package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// NoVelocity is used for events that carry no velocity
const NoVelocity = -1

// Kind is the coarse message type the roll cares about
type Kind int

const (
	KindOther Kind = iota
	KindNoteOn
	KindNoteOff
	KindControlChange
	KindMeta
)

func (k Kind) String() string {
	switch k {
	case KindNoteOn:
		return "note_on"
	case KindNoteOff:
		return "note_off"
	case KindControlChange:
		return "control_change"
	case KindMeta:
		return "meta"
	default:
		return "other"
	}
}

// Event is one incoming MIDI message as seen by the frame loop.
// Only note-on and note-off carry a note.
type Event struct {
	Kind     Kind
	IsMeta   bool
	HasNote  bool
	Channel  uint8
	Note     uint8
	Velocity int
	// Delay is the number of frames to wait after the previous event;
	// live input is always due immediately.
	Delay int
}

// FromMessage converts a live (or file) channel message
func FromMessage(msg gomidi.Message) Event {
	var channel, key, velocity, controller, value uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		return Event{Kind: KindNoteOn, HasNote: true, Channel: channel, Note: key, Velocity: int(velocity)}
	case msg.GetNoteOff(&channel, &key, &velocity):
		return Event{Kind: KindNoteOff, HasNote: true, Channel: channel, Note: key, Velocity: int(velocity)}
	case msg.GetControlChange(&channel, &controller, &value):
		return Event{Kind: KindControlChange, Channel: channel, Velocity: NoVelocity}
	default:
		return Event{Kind: KindOther, Velocity: NoVelocity}
	}
}

func (e Event) String() string {
	if e.IsMeta {
		return fmt.Sprintf("%s delay=%d", e.Kind, e.Delay)
	}
	if e.HasNote {
		return fmt.Sprintf("%s channel=%d note=%d velocity=%d delay=%d", e.Kind, e.Channel, e.Note, e.Velocity, e.Delay)
	}
	return fmt.Sprintf("%s channel=%d delay=%d", e.Kind, e.Channel, e.Delay)
}
