package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pianoroll/roll"
)

func TestDefaultConfig(t *testing.T) {
	assert := assert.New(t)
	cfg := DefaultConfig()

	assert.Equal(2400, cfg.Display.Width)
	assert.Equal(1200, cfg.Display.Height)
	assert.Equal("MIDI Visualizer", cfg.Display.Caption)
	assert.Equal(30, cfg.Roll.SleepAfter)
	assert.Equal(roll.DefaultControlKeys(), cfg.Controls())
	assert.Equal(roll.DefaultSpeed, cfg.InitialSpeed())
	assert.NoError(cfg.Validate())

	bg, err := cfg.BackgroundColor()
	assert.NoError(err)
	assert.Equal(color.RGBA{255, 255, 255, 255}, bg)
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Input.PortName = "Keystation"
	cfg.Display.Palette = "fire.gpl"
	cfg.HTTP.Addr = ":8888"
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFileMissingGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"display": {"fps": 30}}`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Display.FPS)
	assert.Equal(t, 2400, cfg.Display.Width)
	assert.True(t, cfg.Roll.ControlKeys.Enabled)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"display": `), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestControls(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Roll.ControlKeys = ControlKeysConfig{Enabled: true, Slower: 106, Faster: 107, Reset: 108}
	assert.Equal(t, roll.ControlKeys{106: roll.CmdSlower, 107: roll.CmdFaster, 108: roll.CmdReset}, cfg.Controls())

	cfg.Roll.ControlKeys.Enabled = false
	assert.Nil(t, cfg.Controls())
}

func TestInitialSpeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UI.LastSpeed = 8
	assert.Equal(t, roll.DefaultSpeed, cfg.InitialSpeed())

	cfg.UI.RestoreSpeed = true
	assert.Equal(t, 8.0, cfg.InitialSpeed())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Display.Width = 0 }},
		{"zero fps", func(c *Config) { c.Display.FPS = 0 }},
		{"zero delta", func(c *Config) { c.Roll.Delta = 0 }},
		{"negative sleep", func(c *Config) { c.Roll.SleepAfter = -1 }},
		{"bad background", func(c *Config) { c.Display.Background = "mauve" }},
		{"control key below piano", func(c *Config) { c.Roll.ControlKeys.Slower = 20 }},
		{"control key above piano", func(c *Config) { c.Roll.ControlKeys.Reset = 109 }},
		{"duplicate control keys", func(c *Config) { c.Roll.ControlKeys.Faster = c.Roll.ControlKeys.Slower }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateIgnoresDisabledControlKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Roll.ControlKeys = ControlKeysConfig{Enabled: false, Slower: 0, Faster: 0, Reset: 200}
	assert.NoError(t, cfg.Validate())
	assert.NoError(t, DefaultConfig().Validate())
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		w, h int
		ok   bool
	}{
		{"2400x1200", 2400, 1200, true},
		{"800X600", 800, 600, true},
		{"(640, 480)", 640, 480, true},
		{"640", 0, 0, false},
		{"0x10", 0, 0, false},
		{"axb", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := ParseSize(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.w, w)
			assert.Equal(t, tt.h, h)
		})
	}
}

func TestSpeedSaverDebounces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	saver := NewSpeedSaver(cfg, path, 20*time.Millisecond)

	for _, v := range []float64{5.5, 6, 6.5} {
		saver.OnSpeed(v)
	}

	assert.Eventually(t, func() bool {
		loaded, err := LoadFile(path)
		return err == nil && loaded.UI.LastSpeed == 6.5
	}, 2*time.Second, 10*time.Millisecond)
}
