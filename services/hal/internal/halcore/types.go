// services/hal/internal/halcore/types.go
package halcore

import "tinygo.org/x/drivers"

// ---- GPIO abstractions ----

// GPIOPin is one digital line as seen by the LED bank.
type GPIOPin interface {
	// ConfigureOutput makes the pin an output driving initial (electrical level).
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// ReadyPin is implemented by pins whose backing device can be probed before
// configuration. Pins without it are treated as ready once resolved.
type ReadyPin interface {
	GPIOPin
	Ready() bool
}

// PinFactory supplies GPIO pins by the configured number scheme.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

// ---- Buses ----

// I2C is the subset we need. It is the TinyGo drivers.I2C interface, which the
// RP2 machine buses and periph.io i2c buses both satisfy.
type I2C = drivers.I2C

// IsReady reports whether p is ready for configuration.
func IsReady(p GPIOPin) bool {
	if r, ok := p.(ReadyPin); ok {
		return r.Ready()
	}
	return true
}
