// services/hal/internal/platform/factories_host.go
//go:build !baremetal

package platform

import (
	"sync"

	"ledshow-go/services/hal/internal/halcore"
)

func init() {
	Register("memory", func(Options) (halcore.PinFactory, error) {
		return NewHostPinFactory(), nil
	})
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements GPIOPin and ReadyPin for host runs and tests.
type FakePin struct {
	mu       sync.RWMutex
	number   int
	level    bool
	modeOut  bool
	notReady bool
	failCfg  error
	writes   int
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failCfg != nil {
		return p.failCfg
	}
	p.modeOut = true
	p.level = initial
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.writes++
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.notReady
}

// IsOutput reports whether ConfigureOutput succeeded.
func (p *FakePin) IsOutput() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modeOut
}

// Writes counts Set calls since creation.
func (p *FakePin) Writes() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.writes
}

// HostPinFactory returns stable *FakePin instances per number.
type HostPinFactory struct {
	mu      sync.Mutex
	pins    map[int]*FakePin
	missing map[int]bool
}

func NewHostPinFactory() *HostPinFactory {
	return &HostPinFactory{pins: make(map[int]*FakePin), missing: make(map[int]bool)}
}

func (f *HostPinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[n] {
		return nil, false
	}
	return f.pin(n), true
}

func (f *HostPinFactory) pin(n int) *FakePin {
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{number: n}
		f.pins[n] = p
	}
	return p
}

// Get exposes the underlying *FakePin for tests.
func (f *HostPinFactory) Get(n int) (*FakePin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	return p, ok
}

// Remove makes pin n unresolvable.
func (f *HostPinFactory) Remove(n int) {
	f.mu.Lock()
	f.missing[n] = true
	f.mu.Unlock()
}

// SetNotReady makes pin n resolve but report not ready.
func (f *HostPinFactory) SetNotReady(n int) {
	f.mu.Lock()
	p := f.pin(n)
	f.mu.Unlock()
	p.mu.Lock()
	p.notReady = true
	p.mu.Unlock()
}

// FailConfigure makes ConfigureOutput on pin n return err.
func (f *HostPinFactory) FailConfigure(n int, err error) {
	f.mu.Lock()
	p := f.pin(n)
	f.mu.Unlock()
	p.mu.Lock()
	p.failCfg = err
	p.mu.Unlock()
}
