package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ledshow-go/internal/metrics"
	"ledshow-go/internal/systemd"
	"ledshow-go/services/config"
	"ledshow-go/services/console"
	"ledshow-go/services/heartbeat"
	"ledshow-go/services/show"
)

type runOpts struct {
	loops         int
	metricsListen string
	serialPort    string
	baud          int
	finale        bool
}

func newRunCmd(g *globalOpts) *cobra.Command {
	o := &runOpts{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play the show (forever unless --loops is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return o.run(ctx, cmd, g)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&o.loops, "loops", "n", 0, "outer iterations to play, 0 for forever")
	f.StringVar(&o.metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9105)")
	f.StringVar(&o.serialPort, "serial-port", "", "mirror console output to this serial port")
	f.IntVar(&o.baud, "baud", 115200, "serial mirror baud rate")
	f.BoolVar(&o.finale, "finale", true, "end every loop with the grand finale")
	return cmd
}

func (o *runOpts) run(ctx context.Context, cmd *cobra.Command, g *globalOpts) error {
	cfg, err := g.load(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	fs := cmd.Flags()
	if changed(fs, "metrics-listen") {
		cfg.Metrics.Listen = o.metricsListen
	}
	if changed(fs, "serial-port") {
		cfg.Console.SerialPort = o.serialPort
	}
	if changed(fs, "baud") {
		cfg.Console.Baud = o.baud
	}
	if changed(fs, "finale") {
		cfg.Finale = &o.finale
	}

	show.Banner(console.New(cmd.OutOrStdout()), config.BoardTitle(cfg.Board))
	a, err := newApp(ctx, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	if iv := cfg.HeartbeatInterval(); iv > 0 {
		hb := heartbeat.New(a.console)
		hb.Interval = iv
		_ = hb.Start(ctx, a.bus.NewConnection("heartbeat"))
	}

	if cfg.Metrics.Listen != "" {
		ln, err := net.Listen("tcp", cfg.Metrics.Listen)
		if err != nil {
			return err
		}
		mc := metrics.New(true)
		go mc.Run(ctx, a.bus.NewConnection("metrics"))
		go func() {
			if err := mc.Serve(ctx, ln); err != nil {
				a.log.Error("metrics server stopped", "error", err)
			}
		}()
		a.log.Info("metrics listening", "addr", ln.Addr().String())
	}

	seq, err := show.NewSequencer(a.show, cfg.ShowProgram())
	if err != nil {
		return err
	}

	sd := systemd.NewNotifier()
	if err := sd.Ready(); err != nil {
		a.log.Warn("sd_notify failed", "error", err)
	}
	go func() {
		if err := sd.Watchdog(ctx); err != nil {
			a.log.Warn("watchdog", "error", err)
		}
	}()

	err = seq.Run(ctx, o.loops)
	_ = sd.Stopping()
	if errors.Is(err, context.Canceled) {
		a.log.Info("show stopped")
		return nil
	}
	return err
}
