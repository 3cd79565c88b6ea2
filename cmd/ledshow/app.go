package main

import (
	"context"
	"io"
	"log/slog"

	"ledshow-go/bus"
	"ledshow-go/internal/logging"
	"ledshow-go/services/config"
	"ledshow-go/services/console"
	"ledshow-go/services/hal"
	"ledshow-go/services/show"
)

// app is the wiring shared by the run and effect commands.
type app struct {
	cfg     config.Config
	log     *slog.Logger
	bus     *bus.Bus
	console *console.Console
	bank    *hal.Bank
	show    *show.Show
	closers []io.Closer
}

// newApp opens the console mirror and the LED bank. An initialization failure
// is reported on the console, as the firmware does, and returned.
func newApp(ctx context.Context, cfg config.Config, out io.Writer) (*app, error) {
	a := &app{
		cfg:     cfg,
		log:     logging.GetLogger("app"),
		bus:     bus.NewBus(64),
		console: console.New(out),
	}
	if port := cfg.Console.SerialPort; port != "" {
		w, err := console.OpenSerial(port, cfg.Console.Baud)
		if err != nil {
			// The mirror is optional; the show runs without it.
			a.log.Warn("serial mirror unavailable", "port", port, "error", err)
		} else {
			a.console.Mirror(w)
			a.closers = append(a.closers, w)
		}
	}

	config.NewConfigService(cfg).Publish(a.bus.NewConnection("config"))

	bank, err := hal.Open(ctx, cfg.HAL(), hal.Options{
		Conn:    a.bus.NewConnection("hal"),
		Console: a.console,
	})
	if err != nil {
		a.log.Error("LED bank initialization failed", "backend", cfg.Backend, "error", err)
		a.Close()
		return nil, err
	}
	a.bank = bank
	a.log.Info("LED bank ready", "backend", bank.Backend(), "board", cfg.Board)

	a.show = show.New(bank,
		show.WithTiming(cfg.ShowTiming()),
		show.WithConsole(a.console),
		show.WithConn(a.bus.NewConnection("show")),
	)
	return a, nil
}

func (a *app) Close() {
	if a.bank != nil {
		a.bank.AllOff()
	}
	for _, c := range a.closers {
		_ = c.Close()
	}
}
