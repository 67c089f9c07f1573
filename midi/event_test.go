package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestFromMessage(t *testing.T) {
	tests := []struct {
		name     string
		msg      gomidi.Message
		kind     Kind
		hasNote  bool
		note     uint8
		velocity int
	}{
		{"note on", gomidi.NoteOn(0, 60, 100), KindNoteOn, true, 60, 100},
		{"note off", gomidi.NoteOffVelocity(3, 21, 40), KindNoteOff, true, 21, 40},
		{"control change", gomidi.ControlChange(0, 64, 127), KindControlChange, false, 0, NoVelocity},
		{"pitch bend", gomidi.Pitchbend(0, 100), KindOther, false, 0, NoVelocity},
		{"aftertouch", gomidi.AfterTouch(0, 50), KindOther, false, 0, NoVelocity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			ev := FromMessage(tt.msg)
			assert.Equal(tt.kind, ev.Kind)
			assert.Equal(tt.hasNote, ev.HasNote)
			assert.Equal(tt.note, ev.Note)
			assert.Equal(tt.velocity, ev.Velocity)
			assert.False(ev.IsMeta)
			assert.Zero(ev.Delay)
		})
	}
}

func TestEventString(t *testing.T) {
	ev := FromMessage(gomidi.NoteOn(2, 64, 90))
	assert.Equal(t, "note_on channel=2 note=64 velocity=90 delay=0", ev.String())

	meta := Event{Kind: KindMeta, IsMeta: true, Delay: 4}
	assert.Equal(t, "meta delay=4", meta.String())
}

func TestMatchPort(t *testing.T) {
	names := []string{"Midi Through Port-0", "USB Keystation 88", "Digital Piano MIDI 1"}

	tests := []struct {
		name string
		want string
		got  string
		ok   bool
	}{
		{"first real port", "", "USB Keystation 88", true},
		{"exact", "Digital Piano MIDI 1", "Digital Piano MIDI 1", true},
		{"substring any case", "keystation", "USB Keystation 88", true},
		{"explicit virtual port", "through", "Midi Through Port-0", true},
		{"unknown", "Roland", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchPort(names, tt.want)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.got, got)
		})
	}

	_, ok := MatchPort([]string{"Midi Through Port-0", "Dummy"}, "")
	assert.False(t, ok)
}

func TestDeviceManagerPoll(t *testing.T) {
	dm := NewDeviceManager("")
	_, ok := dm.Poll()
	assert.False(t, ok)

	dm.input <- Event{Kind: KindNoteOn, HasNote: true, Note: 60, Velocity: 1}
	dm.input <- Event{Kind: KindNoteOff, HasNote: true, Note: 60}

	ev, ok := dm.Poll()
	assert.True(t, ok)
	assert.Equal(t, KindNoteOn, ev.Kind)
	ev, ok = dm.Poll()
	assert.True(t, ok)
	assert.Equal(t, KindNoteOff, ev.Kind)
	_, ok = dm.Poll()
	assert.False(t, ok)
	assert.Empty(t, dm.Connected())
}

func TestDeviceManagerEmitNeverBlocks(t *testing.T) {
	dm := NewDeviceManager("")
	for i := 0; i < cap(dm.events)+5; i++ {
		dm.emit(DeviceEvent{Type: DeviceConnected, ID: "x"})
	}
	assert.Len(t, dm.events, cap(dm.events))
}
