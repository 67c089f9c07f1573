package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pianoroll/apiserver"
	"pianoroll/config"
	"pianoroll/debug"
	"pianoroll/driver"
	"pianoroll/midi"
	"pianoroll/render"
	"pianoroll/roll"
	"pianoroll/theme"
	"pianoroll/tui"
)

var rootCmd = &cobra.Command{
	Use:   "pianoroll",
	Short: "Scrolling MIDI piano roll",
	Long: `pianoroll listens to a MIDI keyboard and draws every held note as a
rectangle that grows while the key is down and scrolls away once it is
released. The three lowest keys change the scroll speed (slower, faster,
reset) unless control keys are disabled.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, saved, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		return run(cfg, saved, configFile(cmd.Flags()))
	},
}

func init() {
	registerFlags(rootCmd.PersistentFlags())
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func registerFlags(f *pflag.FlagSet) {
	f.String("config", "", "config file (default ~/.config/pianoroll/config.json)")
	f.StringP("size", "s", "2400x1200", "raster size WIDTHxHEIGHT")
	f.StringP("input-port", "i", "", "MIDI input port (exact name or substring)")
	f.String("background", "#ffffff", "background color, #rrggbb or r,g,b")
	f.Int("sleep-after", 30, "frames without input before the roll stops (0 = never)")
	f.String("caption", "MIDI Visualizer", "window title")
	f.Bool("debug", false, "write a debug log to ~/.config/pianoroll/debug.log")
	f.Int("fps", 60, "frames per second")
	f.String("palette", "", "GIMP .gpl palette used instead of the hot colormap")
	f.String("http", "", "serve /status, /keyboard and /frame.png on this address")
	f.Bool("no-control-keys", false, "treat the three lowest keys as ordinary notes")
}

func configFile(f *pflag.FlagSet) string {
	path, _ := f.GetString("config")
	return path
}

// loadConfig returns the effective config (file plus flags) and the
// config as saved on disk, which is what speed persistence writes back
func loadConfig(f *pflag.FlagSet) (cfg, saved *config.Config, err error) {
	if path := configFile(f); path != "" {
		saved, err = config.LoadFile(path)
	} else {
		saved, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	effective := *saved
	if err := applyFlags(&effective, f); err != nil {
		return nil, nil, err
	}
	if err := effective.Validate(); err != nil {
		return nil, nil, err
	}

	if on, _ := f.GetBool("debug"); on {
		if err := debug.Enable(config.DebugLogPath()); err != nil {
			return nil, nil, fmt.Errorf("enabling debug log: %w", err)
		}
	}
	return &effective, saved, nil
}

// applyFlags overrides cfg with the flags given on the command line
func applyFlags(cfg *config.Config, f *pflag.FlagSet) error {
	if f.Changed("size") {
		s, _ := f.GetString("size")
		w, h, err := config.ParseSize(s)
		if err != nil {
			return err
		}
		cfg.Display.Width, cfg.Display.Height = w, h
	}
	if f.Changed("input-port") {
		cfg.Input.PortName, _ = f.GetString("input-port")
	}
	if f.Changed("background") {
		cfg.Display.Background, _ = f.GetString("background")
	}
	if f.Changed("sleep-after") {
		cfg.Roll.SleepAfter, _ = f.GetInt("sleep-after")
	}
	if f.Changed("caption") {
		cfg.Display.Caption, _ = f.GetString("caption")
	}
	if f.Changed("fps") {
		cfg.Display.FPS, _ = f.GetInt("fps")
	}
	if f.Changed("palette") {
		cfg.Display.Palette, _ = f.GetString("palette")
	}
	if f.Changed("http") {
		cfg.HTTP.Addr, _ = f.GetString("http")
	}
	if off, _ := f.GetBool("no-control-keys"); off {
		cfg.Roll.ControlKeys.Enabled = false
	}
	return nil
}

// setup builds the keyboard, its canvas and theme from cfg
func setup(cfg *config.Config, opts ...roll.Option) (*roll.Keyboard, *render.Canvas, *theme.Theme, error) {
	palette, err := cfg.LoadPalette()
	if err != nil {
		return nil, nil, nil, err
	}
	th := theme.New(palette)

	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append([]roll.Option{
		roll.WithControlKeys(cfg.Controls()),
		roll.WithColorFunc(th.VelocityColor),
		roll.WithInitialSpeed(cfg.InitialSpeed()),
	}, opts...)

	kb := roll.NewKeyboard(opts...)
	canvas := render.NewCanvas(cfg.Display.Width, cfg.Display.Height, bg)
	return kb, canvas, th, nil
}

func run(cfg, saved *config.Config, cfgPath string) error {
	defer debug.Disable()

	var kbOpts []roll.Option
	if cfg.UI.RestoreSpeed {
		saver := config.NewSpeedSaver(saved, cfgPath, time.Second)
		kbOpts = append(kbOpts, roll.WithSpeedListener(saver.OnSpeed))
	}
	kb, canvas, th, err := setup(cfg, kbOpts...)
	if err != nil {
		return err
	}

	// Create MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(cfg.Input.PortName)
	if err := deviceMgr.Connect(); err != nil {
		if cfg.Input.PortName != "" {
			return err
		}
		debug.Warn("cli", "no input yet, waiting for a device: %v", err)
	}
	defer deviceMgr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	driverOpts := []driver.Option{
		driver.WithDelta(cfg.Roll.Delta),
		driver.WithSleepAfter(cfg.Roll.SleepAfter),
	}

	var idle func(*roll.Keyboard)
	if cfg.HTTP.Addr != "" {
		srv := apiserver.New(cfg.HTTP.Addr)
		hook := srv.FrameHook(canvas)
		driverOpts = append(driverOpts, driver.WithFrameHook(hook))
		idle = hook
		go func() {
			if err := srv.Run(ctx); err != nil {
				debug.Warn("http", "server stopped: %v", err)
			}
		}()
	}

	d := driver.New(kb, deviceMgr, canvas, driverOpts...)

	m := tui.NewModel(d, canvas, deviceMgr, th).ShowKeys(cfg.UI.ShowKeys)
	m.Caption = cfg.Display.Caption
	m.FPS = cfg.Display.FPS
	m.SnapshotDir = cfg.SnapshotDir()
	m.OnIdle = idle

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
