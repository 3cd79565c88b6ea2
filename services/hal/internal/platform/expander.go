package platform

import (
	"ledshow-go/drivers/pca9536"
	"ledshow-go/errcode"
	"ledshow-go/services/hal/internal/halcore"
)

// LEDs on a PCA9536 4-bit I²C expander: pin numbers are expander ports 0..3.

func init() { Register("pca9536", openExpander) }

func openExpander(opts Options) (halcore.PinFactory, error) {
	bus := opts.I2C
	if bus == nil {
		b, err := openI2C(opts.I2CBus)
		if err != nil {
			return nil, err
		}
		bus = b
	}
	dev := pca9536.New(bus)
	if opts.I2CAddr != 0 {
		dev.Address = opts.I2CAddr
	}
	f := &expanderFactory{dev: dev}
	f.probeErr = dev.Configure()
	return f, nil
}

type expanderFactory struct {
	dev      *pca9536.Device
	probeErr error // nil once the expander answered
}

func (f *expanderFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	if n < 0 || n >= pca9536.NumPorts {
		return nil, false
	}
	return &expanderPin{f: f, n: n}, true
}

type expanderPin struct {
	f *expanderFactory
	n int
}

// Ready retries the probe until the expander answers once.
func (p *expanderPin) Ready() bool {
	if p.f.probeErr != nil {
		p.f.probeErr = p.f.dev.Configure()
	}
	return p.f.probeErr == nil
}

func (p *expanderPin) ConfigureOutput(initial bool) error {
	if err := p.f.dev.Set(p.n, initial); err != nil {
		return errcode.Wrap(errcode.ConfigureFailed, "pca9536", err)
	}
	if err := p.f.dev.ConfigureOutput(p.n); err != nil {
		return errcode.Wrap(errcode.ConfigureFailed, "pca9536", err)
	}
	return nil
}

func (p *expanderPin) Set(level bool) { _ = p.f.dev.Set(p.n, level) }
func (p *expanderPin) Get() bool      { return p.f.dev.Get(p.n) }
func (p *expanderPin) Number() int    { return p.n }
