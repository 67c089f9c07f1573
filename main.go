package main

import (
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"pianoroll/cli"
)

func main() {
	cli.Execute()
}
