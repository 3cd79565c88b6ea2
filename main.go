// Firmware entry point: plays the light show forever on the board's LEDs.
//
//	tinygo flash -target pico -ldflags "-X main.board=pico" .
package main

import (
	"context"
	"os"
	"time"

	"ledshow-go/bus"
	"ledshow-go/services/config"
	"ledshow-go/services/console"
	"ledshow-go/services/hal"
	"ledshow-go/services/show"
)

// board selects the compiled-in profile; set with -ldflags "-X main.board=...".
var board = config.DefaultBoard

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(bootDelay)

	con := console.New(os.Stdout, consoleMirror()...)
	show.Banner(con, config.BoardTitle(board))

	cfg, ok := config.ForBoard(board)
	if !ok {
		con.Tagf("ERROR", "unknown board %q", board)
		return
	}
	if err := cfg.Validate(); err != nil {
		con.Tagf("ERROR", "%v", err)
		return
	}

	ctx := context.Background()
	b := bus.NewBus(32)
	config.NewConfigService(cfg).Publish(b.NewConnection("config"))

	bank, err := hal.Open(ctx, cfg.HAL(), hal.Options{
		Conn:    b.NewConnection("hal"),
		Console: con,
	})
	if err != nil {
		// hal has already reported the failing LED.
		return
	}

	s := show.New(bank,
		show.WithTiming(cfg.ShowTiming()),
		show.WithConsole(con),
		show.WithConn(b.NewConnection("show")),
	)
	seq, err := show.NewSequencer(s, cfg.ShowProgram())
	if err != nil {
		con.Tagf("ERROR", "%v", err)
		return
	}
	_ = seq.Run(ctx, 0)
}
