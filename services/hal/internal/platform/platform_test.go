package platform

import (
	"errors"
	"testing"

	"ledshow-go/errcode"
	"ledshow-go/services/hal/internal/halcore"
)

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("no-such-backend", Options{})
	if errcode.Of(err) != errcode.UnknownBackend {
		t.Fatalf("got %v, want %s", err, errcode.UnknownBackend)
	}
}

func TestBackends_IncludesHostAndExpander(t *testing.T) {
	have := map[string]bool{}
	for _, b := range Backends() {
		have[b] = true
	}
	for _, want := range []string{"memory", "pca9536", DefaultBackend} {
		if !have[want] {
			t.Fatalf("backend %q not registered (have %v)", want, Backends())
		}
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	Register("memory", nil)
}

func TestMemoryBackend_StablePins(t *testing.T) {
	pf, err := Open("memory", Options{})
	if err != nil {
		t.Fatal(err)
	}
	a, ok := pf.ByNumber(28)
	if !ok {
		t.Fatal("pin 28 not resolved")
	}
	b, _ := pf.ByNumber(28)
	if a != b {
		t.Fatal("ByNumber returned different instances for the same pin")
	}
	if err := a.ConfigureOutput(true); err != nil {
		t.Fatal(err)
	}
	if !b.Get() {
		t.Fatal("level not shared between handles")
	}
}

func TestHostPinFactory_Faults(t *testing.T) {
	f := NewHostPinFactory()
	f.Remove(3)
	if _, ok := f.ByNumber(3); ok {
		t.Fatal("removed pin resolved")
	}

	f.SetNotReady(4)
	p, _ := f.ByNumber(4)
	if halcore.IsReady(p) {
		t.Fatal("not-ready pin reported ready")
	}

	boom := errors.New("boom")
	f.FailConfigure(5, boom)
	p, _ = f.ByNumber(5)
	if err := p.ConfigureOutput(false); !errors.Is(err, boom) {
		t.Fatalf("ConfigureOutput err=%v", err)
	}
	fp, _ := f.Get(5)
	if fp.IsOutput() {
		t.Fatal("failed pin marked as output")
	}
}

// regI2C emulates the PCA9536 register file.
type regI2C struct {
	regs [4]uint8
	nack bool
}

func newRegI2C() *regI2C {
	return &regI2C{regs: [4]uint8{0xFF, 0xFF, 0x00, 0xFF}}
}

func (b *regI2C) Tx(_ uint16, w, r []byte) error {
	if b.nack {
		return errors.New("nack")
	}
	if len(w) == 0 {
		return nil
	}
	reg := w[0] & 0x03
	if len(w) > 1 {
		b.regs[reg] = w[1]
		if reg == 0x03 {
			b.regs[reg] |= 0xF0
		}
	}
	if len(r) > 0 {
		r[0] = b.regs[reg]
	}
	return nil
}

func TestExpanderBackend(t *testing.T) {
	bus := newRegI2C()
	pf, err := Open("pca9536", Options{I2C: bus})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := pf.ByNumber(4); ok {
		t.Fatal("port 4 resolved on a 4-port expander")
	}
	for n := 0; n < 4; n++ {
		p, ok := pf.ByNumber(n)
		if !ok || !halcore.IsReady(p) {
			t.Fatalf("port %d not ready", n)
		}
		if err := p.ConfigureOutput(false); err != nil {
			t.Fatalf("port %d: %v", n, err)
		}
	}
	if bus.regs[0x03] != 0xF0 {
		t.Fatalf("config=0x%02x want 0xF0", bus.regs[0x03])
	}
	p2, _ := pf.ByNumber(2)
	p2.Set(true)
	if bus.regs[0x01] != 0x04 || !p2.Get() {
		t.Fatalf("output=0x%02x want 0x04", bus.regs[0x01])
	}
}

func TestExpanderBackend_NotReadyUntilAnswers(t *testing.T) {
	bus := newRegI2C()
	bus.nack = true
	pf, err := Open("pca9536", Options{I2C: bus})
	if err != nil {
		t.Fatal(err)
	}
	p, _ := pf.ByNumber(0)
	if halcore.IsReady(p) {
		t.Fatal("expander ready while NACKing")
	}
	bus.nack = false
	if !halcore.IsReady(p) {
		t.Fatal("expander not ready after it answered")
	}
}
