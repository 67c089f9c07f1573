package midi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"pianoroll/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ExcludedPatterns are virtual/system ports never picked automatically
var ExcludedPatterns = []string{"Midi Through", "Through Port", "Dummy"}

// DeviceEvent is emitted when the input connects/disconnects
type DeviceEvent struct {
	Type DeviceEventType
	ID   string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager keeps one input port connected, following hot-plug.
// All connected inputs feed the same event buffer, read with Poll.
type DeviceManager struct {
	portName string
	current  Controller
	mu       sync.Mutex
	events   chan DeviceEvent
	input    chan Event
	pollRate time.Duration
	lost     chan string
}

// NewDeviceManager watches for portName (exact or case-insensitive
// substring). An empty name takes the first non-virtual input.
func NewDeviceManager(portName string) *DeviceManager {
	return &DeviceManager{
		portName: portName,
		events:   make(chan DeviceEvent, 16),
		input:    make(chan Event, 1024),
		pollRate: time.Second,
		lost:     make(chan string, 1),
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Poll returns the next buffered event without blocking
func (dm *DeviceManager) Poll() (Event, bool) {
	return poll(dm.input)
}

// Connected returns the connected port name, or ""
func (dm *DeviceManager) Connected() string {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.current == nil {
		return ""
	}
	return dm.current.ID()
}

// Connect opens the configured port now. The error lists the ports that
// do exist so a typo is easy to fix.
func (dm *DeviceManager) Connect() error {
	names := InputNames()
	name, ok := MatchPort(names, dm.portName)
	if !ok {
		return fmt.Errorf("%w %q. Available ports are %v", ErrPortNotFound, dm.portName, names)
	}
	return dm.open(name)
}

// Run rescans the ports until ctx is done (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case id := <-dm.lost:
			dm.disconnect(id)
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	names, ok := inputNamesWithTimeout(3 * time.Second)
	if !ok {
		// CoreMIDI is hung - skip this scan
		return
	}

	connected := dm.Connected()
	if connected != "" {
		for _, n := range names {
			if n == connected {
				return
			}
		}
		debug.Warn("midi", "device disappeared: %s", connected)
		dm.disconnect(connected)
		return
	}

	name, ok := MatchPort(names, dm.portName)
	if !ok {
		return
	}
	if err := dm.open(name); err != nil {
		debug.Warn("midi", "connect %s failed: %v", name, err)
	}
}

func (dm *DeviceManager) open(name string) error {
	in, err := findInPort(name)
	if err != nil {
		return err
	}

	ctrl, err := NewKeyboardController(name, in, dm.input, func(error) {
		select {
		case dm.lost <- name:
		default:
		}
	})
	if err != nil {
		return err
	}

	dm.mu.Lock()
	if dm.current != nil {
		dm.current.Close()
	}
	dm.current = ctrl
	dm.mu.Unlock()

	debug.Log("midi", "connected %s", name)
	dm.emit(DeviceEvent{Type: DeviceConnected, ID: name})
	return nil
}

func (dm *DeviceManager) disconnect(id string) {
	dm.mu.Lock()
	if dm.current == nil || dm.current.ID() != id {
		dm.mu.Unlock()
		return
	}
	dm.current.Close()
	dm.current = nil
	dm.mu.Unlock()

	dm.emit(DeviceEvent{Type: DeviceDisconnected, ID: id})
}

func (dm *DeviceManager) emit(ev DeviceEvent) {
	select {
	case dm.events <- ev:
	default:
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.current != nil {
		dm.current.Close()
		dm.current = nil
	}
}

// Close releases the port and the MIDI driver
func (dm *DeviceManager) Close() error {
	dm.closeAll()
	CloseDriver()
	return nil
}

// CloseDriver shuts the MIDI driver down
func CloseDriver() {
	gomidi.CloseDriver()
}

// InputNames lists the MIDI input ports
func InputNames() []string {
	names, _ := inputNamesWithTimeout(3 * time.Second)
	return names
}

func inputNamesWithTimeout(timeout time.Duration) ([]string, bool) {
	ch := make(chan []string, 1)
	go func() {
		var names []string
		for _, p := range gomidi.GetInPorts() {
			names = append(names, p.String())
		}
		ch <- names
	}()

	select {
	case names := <-ch:
		return names, true
	case <-time.After(timeout):
		return nil, false
	}
}

func findInPort(name string) (drivers.In, error) {
	for _, p := range gomidi.GetInPorts() {
		if p.String() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrPortNotFound, name)
}

// MatchPort picks a port: exact name first, then case-insensitive
// substring. With an empty want the first non-excluded port wins.
func MatchPort(names []string, want string) (string, bool) {
	if want == "" {
		for _, n := range names {
			if !IsVirtual(n) {
				return n, true
			}
		}
		return "", false
	}

	for _, n := range names {
		if n == want {
			return n, true
		}
	}
	for _, n := range names {
		if containsCI(n, want) {
			return n, true
		}
	}
	return "", false
}

// IsVirtual reports whether name looks like a loopback or dummy port
func IsVirtual(name string) bool {
	for _, pat := range ExcludedPatterns {
		if containsCI(name, pat) {
			return true
		}
	}
	return false
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
