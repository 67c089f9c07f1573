package config

import (
	"sync"
	"time"

	"github.com/bep/debounce"

	"pianoroll/debug"
)

// SpeedSaver remembers the last scroll speed. Speed keys can be hammered,
// so writes are debounced.
type SpeedSaver struct {
	mu        sync.Mutex
	cfg       *Config
	path      string
	debounced func(f func())
}

// NewSpeedSaver writes cfg to path (ConfigPath when empty) at most once
// per quiet period of wait
func NewSpeedSaver(cfg *Config, path string, wait time.Duration) *SpeedSaver {
	return &SpeedSaver{
		cfg:       cfg,
		path:      path,
		debounced: debounce.New(wait),
	}
}

// OnSpeed is a roll.WithSpeedListener callback
func (s *SpeedSaver) OnSpeed(v float64) {
	s.mu.Lock()
	s.cfg.UI.LastSpeed = v
	snapshot := *s.cfg
	s.mu.Unlock()

	s.debounced(func() {
		var err error
		if s.path == "" {
			err = snapshot.Save()
		} else {
			err = snapshot.SaveFile(s.path)
		}
		if err != nil {
			debug.Warn("config", "saving speed: %v", err)
			return
		}
		debug.Log("config", "saved speed %.1f", v)
	})
}
