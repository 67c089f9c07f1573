package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"pianoroll/debug"
	"pianoroll/driver"
	"pianoroll/midi"
	"pianoroll/render"
	"pianoroll/roll"
	"pianoroll/theme"
	"pianoroll/widgets"
)

// chrome is the number of terminal rows not used by the roll image
const chrome = 3

var keySections = []widgets.KeySection{
	{Title: "Speed", Keys: []widgets.KeyBinding{
		{Key: "-", Desc: "slower"},
		{Key: "+", Desc: "faster"},
		{Key: "0", Desc: "reset"},
	}},
	{Title: "View", Keys: []widgets.KeyBinding{
		{Key: "s", Desc: "snapshot"},
		{Key: "d", Desc: "keys"},
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	}},
}

type Model struct {
	Driver    *driver.Driver
	Canvas    *render.Canvas
	DeviceMgr *midi.DeviceManager // nil when not reading a live port
	Theme     *theme.Theme

	Caption     string
	FPS         int
	SnapshotDir string
	// OnIdle runs on frames where the roll sleeps, so observers still
	// get a frame while nothing moves
	OnIdle func(*roll.Keyboard)

	width, height int
	showKeys      bool
	showHelp      bool
	device        string
	message       string
	last          driver.FrameStats
	quitting      bool
}

type frameMsg time.Time

type DeviceEventMsg midi.DeviceEvent

type devicesClosedMsg struct{}

func NewModel(d *driver.Driver, canvas *render.Canvas, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	m := Model{
		Driver:    d,
		Canvas:    canvas,
		DeviceMgr: deviceMgr,
		Theme:     th,
		Caption:   "MIDI Visualizer",
		FPS:       60,
	}
	if deviceMgr != nil {
		m.device = deviceMgr.Connected()
	}
	return m
}

// ShowKeys starts with the pressed-key strip visible
func (m Model) ShowKeys(on bool) Model {
	m.showKeys = on
	return m
}

func tick(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return devicesClosedMsg{}
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle(m.Caption),
		tick(m.FPS),
	}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	kb := m.Driver.Keyboard()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "-", "_":
			kb.Apply(roll.CmdSlower)

		case "+", "=":
			kb.Apply(roll.CmdFaster)

		case "0":
			kb.Apply(roll.CmdReset)

		case "d":
			m.showKeys = !m.showKeys

		case "?":
			m.showHelp = !m.showHelp

		case "s":
			m.message = m.snapshot()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case frameMsg:
		m.last = m.Driver.RunFrame(0)
		if m.last.Mode == driver.ModeIdle && m.OnIdle != nil {
			m.OnIdle(kb)
		}
		return m, tick(m.FPS)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.device = event.ID
			m.message = ""
		case midi.DeviceDisconnected:
			if n := kb.ReleaseAll(); n > 0 {
				debug.Log("tui", "released %d held keys after %s went away", n, event.ID)
			}
			m.device = ""
			m.message = "lost " + event.ID
		}
		return m, ListenForDevices(m.DeviceMgr)

	case devicesClosedMsg:
		m.device = ""
	}

	return m, nil
}

func (m Model) snapshot() string {
	path := filepath.Join(m.SnapshotDir, fmt.Sprintf("pianoroll-%s.png", uuid.NewString()))
	if err := m.Canvas.SavePNG(path); err != nil {
		debug.Warn("tui", "snapshot: %v", err)
		return "snapshot failed: " + err.Error()
	}
	debug.Log("tui", "snapshot saved to %s", path)
	return "saved " + path
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	kb := m.Driver.Keyboard()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	device := warnStyle.Render("no input")
	if m.DeviceMgr == nil {
		device = dimStyle.Render("replay")
	} else if m.device != "" {
		device = m.device
	}

	state := ""
	if m.Driver.Asleep() {
		state = dimStyle.Render("  zz")
	}
	if debug.Enabled() {
		state += dimStyle.Render("  debug")
	}

	header := headerStyle.Render(fmt.Sprintf("%s  speed %.1f  rects %d  ", m.Caption, kb.Speed(), len(kb.Rects()))) + device + state

	rows := m.height - chrome
	if m.showKeys {
		rows--
	}

	var out strings.Builder
	out.WriteString(header)
	out.WriteString("\n")
	if m.width > 0 && rows > 0 {
		if m.showHelp {
			// same height as the image so the layout does not jump
			panel := lipgloss.NewStyle().Height(rows).MaxHeight(rows)
			out.WriteString(panel.Render(widgets.RenderKeyHelp(keySections, m.Theme)))
		} else {
			out.WriteString(widgets.RenderImage(m.Canvas.Image(), m.width, rows))
		}
		out.WriteString("\n")
	}
	if m.showKeys {
		out.WriteString(widgets.RenderKeyStrip(kb.String(), m.Theme))
		out.WriteString("\n")
	}

	help := widgets.RenderKeyLine(keySections)
	if m.message != "" {
		help = m.message
	}
	out.WriteString(dimStyle.Render(help))

	return out.String()
}
