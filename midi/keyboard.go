package midi

import (
	"fmt"

	"pianoroll/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// KeyboardController forwards everything a MIDI keyboard sends into a
// shared event channel
type KeyboardController struct {
	id       string
	inPort   drivers.In
	stopFunc func()
	out      chan<- Event
}

// NewKeyboardController starts listening on inPort. onError is called
// (from the driver goroutine) when the port reports a read error.
func NewKeyboardController(id string, inPort drivers.In, out chan<- Event, onError func(error)) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:     id,
		inPort: inPort,
		out:    out,
	}

	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
		ev := FromMessage(msg)
		if ev.Kind == KindOther {
			debug.LogEvery(100, "midi", "ignored %s from %s", msg.String(), id)
			return
		}
		select {
		case kb.out <- ev:
		default:
			debug.Warn("midi", "input buffer full, dropped %v", ev)
		}
	}, gomidi.HandleError(func(listenErr error) {
		debug.Warn("midi", "listener error on %s: %v", id, listenErr)
		if onError != nil {
			onError(listenErr)
		}
	}))
	if err != nil {
		return nil, fmt.Errorf("open input %q: %w", id, err)
	}
	kb.stopFunc = stop

	return kb, nil
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
		kb.stopFunc = nil
	}
	if kb.inPort != nil && kb.inPort.IsOpen() {
		return kb.inPort.Close()
	}
	return nil
}
