// services/hal/internal/platform/factories_mcu.go
//go:build baremetal

package platform

import (
	"machine"

	"ledshow-go/services/hal/internal/halcore"
)

// -----------------------------------------------------------------------------
// TinyGo microcontrollers (RP2040/RP2350, nRF52/nRF53): pins map directly to
// machine.Pin(n), which matches Pico GP numbering and nRF P0.xx numbering.
// -----------------------------------------------------------------------------

func init() {
	Register("machine", func(Options) (halcore.PinFactory, error) { return mcuPinFactory{}, nil })
}

// maxPin bounds the numbers accepted; P1.15 on nRF is the highest in use.
const maxPin = 47

type mcuPinFactory struct{}

func (mcuPinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	if n < 0 || n > maxPin {
		return nil, false
	}
	return &mcuPin{p: machine.Pin(n), n: n}, true
}

type mcuPin struct {
	p machine.Pin
	n int
}

func (r *mcuPin) ConfigureOutput(initial bool) error {
	// Latch the level before switching direction so the line never glitches.
	r.p.Set(initial)
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *mcuPin) Set(level bool) { r.p.Set(level) }
func (r *mcuPin) Get() bool      { return r.p.Get() }
func (r *mcuPin) Number() int    { return r.n }
