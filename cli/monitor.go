package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"pianoroll/debug"
	"pianoroll/midi"
)

func init() {
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print incoming MIDI events until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		defer debug.Disable()

		deviceMgr := midi.NewDeviceManager(cfg.Input.PortName)
		if err := deviceMgr.Connect(); err != nil {
			return err
		}
		defer deviceMgr.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		go deviceMgr.Run(ctx)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Listening on %s. Ctrl+C to exit.\n", deviceMgr.Connected())

		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		start := time.Now()
		events := deviceMgr.Events()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if ev.Type == midi.DeviceConnected {
					fmt.Fprintf(out, "[%s] connected %s\n", time.Now().Format("15:04:05"), ev.ID)
				} else {
					fmt.Fprintf(out, "[%s] lost %s\n", time.Now().Format("15:04:05"), ev.ID)
				}
			case <-ticker.C:
				for {
					ev, ok := deviceMgr.Poll()
					if !ok {
						break
					}
					fmt.Fprintf(out, "%8.3fs  %s\n", time.Since(start).Seconds(), ev)
				}
			}
		}
	},
}
