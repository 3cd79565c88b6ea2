// services/hal/internal/platform/factories_periph.go
//go:build linux && !tinygo

package platform

import (
	"strconv"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"ledshow-go/services/hal/internal/halcore"
)

// Linux single-board computers: GPIO through periph.io host drivers
// (gpiochip / sysfs / SoC registers, whichever host.Init finds).

func init() { Register("periph", openPeriph) }

func openPeriph(Options) (halcore.PinFactory, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	return periphFactory{}, nil
}

type periphFactory struct{}

// ByNumber resolves pins by their GPIO number ("17" == "GPIO17").
func (periphFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	if n < 0 {
		return nil, false
	}
	p := gpioreg.ByName(strconv.Itoa(n))
	if p == nil {
		return nil, false
	}
	return &periphPin{p: p, n: n}, true
}

type periphPin struct {
	p gpio.PinIO
	n int
}

func (r *periphPin) ConfigureOutput(initial bool) error {
	if err := r.p.Out(gpio.Level(initial)); err != nil {
		return errors.Wrapf(err, "GPIO%d out", r.n)
	}
	return nil
}

func (r *periphPin) Set(level bool) { _ = r.p.Out(gpio.Level(level)) }
func (r *periphPin) Get() bool      { return bool(r.p.Read()) }
func (r *periphPin) Number() int    { return r.n }

// openI2C opens a Linux I²C bus by periph name ("1", "/dev/i2c-1"); empty
// selects the first bus.
func openI2C(id string) (halcore.I2C, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	b, err := i2creg.Open(id)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", id)
	}
	return b, nil
}
