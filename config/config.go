package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"pianoroll/roll"
	"pianoroll/theme"
)

const appName = "pianoroll"

// InputConfig selects the MIDI input port
type InputConfig struct {
	PortName string `json:"portName,omitempty"` // exact or substring, empty = first real port
}

// DisplayConfig describes the raster and the terminal view
type DisplayConfig struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"`
	Caption    string `json:"caption"`
	FPS        int    `json:"fps"`
	Palette    string `json:"palette,omitempty"` // .gpl file, empty = hot
}

// ControlKeysConfig binds the speed commands to note numbers
type ControlKeysConfig struct {
	Enabled bool `json:"enabled"`
	Slower  int  `json:"slower"`
	Faster  int  `json:"faster"`
	Reset   int  `json:"reset"`
}

// RollConfig tunes the frame loop
type RollConfig struct {
	SleepAfter  int               `json:"sleepAfter"` // frames without input before the roll stops
	Delta       int               `json:"delta"`
	ControlKeys ControlKeysConfig `json:"controlKeys"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	LastSpeed    float64 `json:"lastSpeed,omitempty"`
	RestoreSpeed bool    `json:"restoreSpeed"`
	SnapshotDir  string  `json:"snapshotDir,omitempty"`
	ShowKeys     bool    `json:"showKeys"`
}

type HTTPConfig struct {
	Addr string `json:"addr,omitempty"` // empty = no status server
}

// Config is the main configuration structure
type Config struct {
	Input   InputConfig   `json:"input"`
	Display DisplayConfig `json:"display"`
	Roll    RollConfig    `json:"roll"`
	UI      UIConfig      `json:"ui"`
	HTTP    HTTPConfig    `json:"http,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:      2400,
			Height:     1200,
			Background: "#ffffff",
			Caption:    "MIDI Visualizer",
			FPS:        60,
		},
		Roll: RollConfig{
			SleepAfter: 30,
			Delta:      1,
			ControlKeys: ControlKeysConfig{
				Enabled: true,
				Slower:  21,
				Faster:  22,
				Reset:   23,
			},
		},
		UI: UIConfig{
			LastSpeed: roll.DefaultSpeed,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DebugLogPath is where --debug writes its log
func DebugLogPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName+"-debug.log")
	}
	return filepath.Join(dir, "debug.log")
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path on top of the defaults; a missing file is not an error
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

func (c *Config) SaveFile(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the roll cannot run with
func (c *Config) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", c.Display.FPS)
	}
	if c.Roll.Delta <= 0 {
		return fmt.Errorf("invalid delta %d", c.Roll.Delta)
	}
	if c.Roll.SleepAfter < 0 {
		return fmt.Errorf("invalid sleep-after %d", c.Roll.SleepAfter)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	return c.Roll.ControlKeys.validate()
}

func (ck ControlKeysConfig) validate() error {
	if !ck.Enabled {
		return nil
	}
	seen := make(map[int]string, 3)
	for _, k := range []struct {
		name string
		note int
	}{{"slower", ck.Slower}, {"faster", ck.Faster}, {"reset", ck.Reset}} {
		if !roll.InRange(k.note) {
			return fmt.Errorf("control key %s: note %d outside %d..%d", k.name, k.note, roll.LowestNote, roll.HighestNote)
		}
		if other, ok := seen[k.note]; ok {
			return fmt.Errorf("control keys %s and %s share note %d", other, k.name, k.note)
		}
		seen[k.note] = k.name
	}
	return nil
}

// Controls builds the keyboard's control key map; nil when disabled
func (c *Config) Controls() roll.ControlKeys {
	ck := c.Roll.ControlKeys
	if !ck.Enabled {
		return nil
	}
	return roll.ControlKeys{
		ck.Slower: roll.CmdSlower,
		ck.Faster: roll.CmdFaster,
		ck.Reset:  roll.CmdReset,
	}
}

// InitialSpeed is the saved speed when restoring is on, else the default
func (c *Config) InitialSpeed() float64 {
	if c.UI.RestoreSpeed && c.UI.LastSpeed > 0 {
		return c.UI.LastSpeed
	}
	return roll.DefaultSpeed
}

func (c *Config) BackgroundColor() (color.RGBA, error) {
	return theme.ParseColor(c.Display.Background)
}

// LoadPalette loads the configured gradient, nil for the built-in one
func (c *Config) LoadPalette() (*theme.Palette, error) {
	if c.Display.Palette == "" {
		return nil, nil
	}
	return theme.LoadGPL(c.Display.Palette)
}

// SnapshotDir returns where snapshots go, defaulting to the working dir
func (c *Config) SnapshotDir() string {
	if c.UI.SnapshotDir == "" {
		return "."
	}
	return c.UI.SnapshotDir
}

// ParseSize reads "WxH" (or "W,H")
func ParseSize(s string) (w, h int, err error) {
	s = strings.Trim(strings.TrimSpace(s), "()")
	sep := "x"
	if strings.Contains(s, ",") {
		sep = ","
	}
	parts := strings.Split(strings.ToLower(s), sep)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q, want WIDTHxHEIGHT", s)
	}
	w, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	return w, h, nil
}
