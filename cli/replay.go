package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pianoroll/config"
	"pianoroll/debug"
	"pianoroll/driver"
	"pianoroll/midi"
	"pianoroll/render"
	"pianoroll/roll"
)

var (
	replayOut       string
	replayMaxFrames int
)

func init() {
	replayCmd.Flags().StringVarP(&replayOut, "out", "o", "_frames", "directory the PNG frames are written to")
	replayCmd.Flags().IntVar(&replayMaxFrames, "max-frames", 0, "stop after this many frames (0 = whole file)")
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Render a .mid file to PNG frames",
	Long: `Replays a Standard MIDI File through the same roll as live input and
writes one PNG per frame (fr00001.png, fr00002.png, ...) at --fps frames per
second. The roll keeps scrolling after the last event until every note
has left the canvas.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		defer debug.Disable()

		n, err := replayFile(cfg, args[0], replayOut, replayMaxFrames)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", n, replayOut)
		return nil
	},
}

// replayFile renders path into outDir and returns the frame count
func replayFile(cfg *config.Config, path, outDir string, maxFrames int) (int, error) {
	src, err := midi.ReadFile(path, cfg.Display.FPS)
	if err != nil {
		return 0, err
	}
	debug.Log("replay", "%s: %d events, %d frames", path, src.Len(), src.Duration())

	kb, canvas, _, err := setup(cfg)
	if err != nil {
		return 0, err
	}

	frames := 0
	var saveErr error
	save := func(*roll.Keyboard) {
		if saveErr != nil {
			return
		}
		frames++
		saveErr = canvas.SavePNG(filepath.Join(outDir, render.FrameName(frames)))
	}

	// offline playback never sleeps: silence still has to be rendered
	d := driver.New(kb, src, canvas,
		driver.WithDelta(cfg.Roll.Delta),
		driver.WithSleepAfter(0),
		driver.WithFrameHook(save),
	)

	done := func() bool {
		return saveErr != nil || (maxFrames > 0 && frames >= maxFrames)
	}

	for (!src.Done() || d.Pending()) && !done() {
		d.RunFrame(0)
	}

	// let the last notes scroll off; a note never released would scroll forever
	tail := int(float64(canvas.Height())/kb.Speed()) + 2
	for i := 0; i < tail && len(kb.Rects()) > 0 && !done(); i++ {
		d.RunFrame(0)
	}

	if saveErr != nil {
		return frames, fmt.Errorf("writing frame %d: %w", frames, saveErr)
	}
	return frames, nil
}
