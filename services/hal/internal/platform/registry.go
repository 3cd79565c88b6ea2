package platform

import (
	"sort"
	"sync"

	"ledshow-go/errcode"
	"ledshow-go/services/hal/internal/halcore"
)

// Options carries backend-specific parameters.
type Options struct {
	I2CBus  string      // bus id for I²C-attached backends ("i2c0", "1", "/dev/i2c-1")
	I2CAddr uint16      // device address; 0 selects the driver default
	I2C     halcore.I2C // injected bus; takes precedence over I2CBus
}

// Opener resolves a pin factory for one backend.
type Opener func(opts Options) (halcore.PinFactory, error)

var (
	regMu    sync.RWMutex
	backends = map[string]Opener{}
)

// Register makes a backend available by name. Backends register from init().
func Register(name string, o Opener) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := backends[name]; exists {
		panic("duplicate pin backend: " + name)
	}
	backends[name] = o
}

// Open resolves the named backend; an empty name selects DefaultBackend.
func Open(name string, opts Options) (halcore.PinFactory, error) {
	if name == "" {
		name = DefaultBackend
	}
	regMu.RLock()
	o, ok := backends[name]
	regMu.RUnlock()
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownBackend, Op: "platform.Open", Msg: name}
	}
	return o(opts)
}

// Backends lists the backends compiled into this build.
func Backends() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(backends))
	for name := range backends {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
