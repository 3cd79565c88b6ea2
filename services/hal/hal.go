// Package hal owns the LED bank: the ordered set of output lines the show
// drives. The bank is created and configured once at startup and is the only
// place that touches the pins.
package hal

import (
	"context"
	"fmt"

	"ledshow-go/bus"
	"ledshow-go/errcode"
	"ledshow-go/services/console"
	"ledshow-go/services/hal/internal/halcore"
	"ledshow-go/services/hal/internal/platform"
	"ledshow-go/types"
	"ledshow-go/x/mathx"
	"ledshow-go/x/timex"
)

// NumLines is the number of LED lines in a bank.
const NumLines = 4

// LineConfig maps one logical line to a backend pin.
type LineConfig struct {
	Pin       int  `toml:"pin"`
	ActiveLow bool `toml:"active_low"` // logical on drives the pin low
}

// Config selects the pin backend and the line mapping.
type Config struct {
	Backend string       // "" selects the build's default backend
	Lines   []LineConfig // exactly NumLines entries
	I2CBus  string       // for I²C-attached backends
	I2CAddr uint16
}

// Options are runtime collaborators; all are optional.
type Options struct {
	Conn    *bus.Connection  // line info/value publishing
	Console *console.Console // init progress lines
	Pins    halcore.PinFactory
}

type line struct {
	pin       halcore.GPIOPin
	pinN      int
	activeLow bool
	on        bool
}

// Bank is the ordered collection of output lines.
type Bank struct {
	lines   []line
	backend string
	conn    *bus.Connection
	out     *console.Console
}

// Open resolves the configured backend, binds every line to its pin and runs
// Configure. Any failure is an initialization failure: the caller reports it
// and aborts startup.
func Open(ctx context.Context, cfg Config, opt Options) (*Bank, error) {
	if len(cfg.Lines) != NumLines {
		return nil, &errcode.E{C: errcode.InvalidConfig, Op: "hal.Open",
			Msg: fmt.Sprintf("need %d lines, got %d", NumLines, len(cfg.Lines))}
	}
	backend := cfg.Backend
	if backend == "" {
		backend = platform.DefaultBackend
	}
	pf := opt.Pins
	if pf == nil {
		var err error
		pf, err = platform.Open(backend, platform.Options{I2CBus: cfg.I2CBus, I2CAddr: cfg.I2CAddr})
		if err != nil {
			return nil, err
		}
	}
	b := &Bank{
		lines:   make([]line, NumLines),
		backend: backend,
		conn:    opt.Conn,
		out:     opt.Console,
	}
	for i, lc := range cfg.Lines {
		b.lines[i] = line{pinN: lc.Pin, activeLow: lc.ActiveLow}
		if p, ok := pf.ByNumber(lc.Pin); ok {
			b.lines[i].pin = p
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.Configure(); err != nil {
		return nil, err
	}
	return b, nil
}

// Configure checks every line is ready and configures it as an output in the
// inactive state. It stops at the first failing line.
func (b *Bank) Configure() error {
	for i := range b.lines {
		l := &b.lines[i]
		if l.pin == nil || !halcore.IsReady(l.pin) {
			b.out.Tagf("ERROR", "LED%d GPIO device not ready", i)
			code := errcode.NotReady
			if l.pin == nil {
				code = errcode.UnknownPin
			}
			return &errcode.E{C: code, Op: fmt.Sprintf("LED%d", i),
				Msg: fmt.Sprintf("%s pin %d", b.backend, l.pinN)}
		}
		if err := l.pin.ConfigureOutput(l.level(false)); err != nil {
			b.out.Tagf("ERROR", "Failed to configure LED%d (err=%v)", i, err)
			return errcode.Wrap(errcode.ConfigureFailed, fmt.Sprintf("LED%d", i), err)
		}
		l.on = false
		b.out.Tagf("OK", "LED%d initialized successfully", i)
		b.publishInfo(i)
		b.publishValue(i)
	}
	return nil
}

// level converts a logical state to the electrical pin level.
func (l *line) level(on bool) bool { return on != l.activeLow }

// Set drives line i. Out-of-range indices are ignored.
func (b *Bank) Set(i int, on bool) {
	if !mathx.InRange(i, 0, len(b.lines)) {
		return
	}
	l := &b.lines[i]
	if l.pin == nil {
		return
	}
	l.pin.Set(l.level(on))
	if l.on != on {
		l.on = on
		b.publishValue(i)
	}
}

// AllOn switches every line on.
func (b *Bank) AllOn() { b.setAll(true) }

// AllOff switches every line off.
func (b *Bank) AllOff() { b.setAll(false) }

func (b *Bank) setAll(on bool) {
	for i := range b.lines {
		b.Set(i, on)
	}
}

// Len returns the number of lines.
func (b *Bank) Len() int { return len(b.lines) }

// Level returns the logical state of line i (false when out of range).
func (b *Bank) Level(i int) bool {
	if !mathx.InRange(i, 0, len(b.lines)) {
		return false
	}
	return b.lines[i].on
}

// Pattern returns the logical state of all lines, line i in bit i.
func (b *Bank) Pattern() uint8 {
	var p uint8
	for i := range b.lines {
		if b.lines[i].on {
			p |= 1 << i
		}
	}
	return p
}

// Backend names the pin backend in use.
func (b *Bank) Backend() string { return b.backend }

func (b *Bank) publishInfo(i int) {
	if b.conn == nil {
		return
	}
	l := &b.lines[i]
	b.conn.Publish(b.conn.NewMessage(TopicLineInfo(i), types.LineInfo{
		Line:      i,
		Pin:       l.pinN,
		ActiveLow: l.activeLow,
		Backend:   b.backend,
	}, true))
}

func (b *Bank) publishValue(i int) {
	if b.conn == nil {
		return
	}
	b.conn.Publish(b.conn.NewMessage(TopicLineValue(i), types.LineValue{
		Line: i,
		On:   b.lines[i].on,
		TS:   timex.NowMs(),
	}, true))
}

// TopicLineValue is hal/line/<i>/value.
func TopicLineValue(i int) bus.Topic { return bus.T("hal", "line", i, "value") }

// TopicLineInfo is hal/line/<i>/info.
func TopicLineInfo(i int) bus.Topic { return bus.T("hal", "line", i, "info") }

// TopicLineValues matches every line value.
func TopicLineValues() bus.Topic { return bus.T("hal", "line", "+", "value") }

// Backends lists the pin backends compiled into this build.
func Backends() []string { return platform.Backends() }
