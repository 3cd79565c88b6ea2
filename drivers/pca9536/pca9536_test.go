package pca9536

import (
	"errors"
	"testing"
)

// fakeBus emulates the PCA9536 register file.
type fakeBus struct {
	regs [4]uint8
	addr uint16
	fail error
	txs  int
}

func newFakeBus() *fakeBus {
	b := &fakeBus{}
	b.regs[regInput] = 0xFF
	b.regs[regOutput] = 0xFF
	b.regs[regConfig] = 0xFF
	return b
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	b.txs++
	b.addr = addr
	if b.fail != nil {
		return b.fail
	}
	if len(w) == 0 {
		return nil
	}
	reg := w[0] & 0x03
	if len(w) > 1 {
		v := w[1]
		if reg == regConfig {
			v |= 0xF0
		}
		b.regs[reg] = v
	}
	if len(r) > 0 {
		r[0] = b.regs[reg]
	}
	return nil
}

func TestConfigure_ResetsRegisters(t *testing.T) {
	bus := newFakeBus()
	d := New(bus)
	if err := d.Configure(); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if bus.addr != Address {
		t.Fatalf("addressed 0x%02x, want 0x%02x", bus.addr, Address)
	}
	if bus.regs[regOutput] != 0x00 || bus.regs[regPolarity] != 0x00 || bus.regs[regConfig] != 0xFF {
		t.Fatalf("unexpected registers after Configure: %#v", bus.regs)
	}
}

func TestConfigure_ProbeFailures(t *testing.T) {
	bus := newFakeBus()
	bus.fail = errors.New("nack")
	if err := New(bus).Configure(); err == nil {
		t.Fatal("expected bus error")
	}

	bus = newFakeBus()
	bus.regs[regConfig] = 0x0F // upper nibble must read as ones
	if err := New(bus).Configure(); !errors.Is(err, ErrProtocol) {
		t.Fatalf("got %v, want ErrProtocol", err)
	}
}

func TestOutputsAndLatch(t *testing.T) {
	bus := newFakeBus()
	d := New(bus)
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	for p := 0; p < NumPorts; p++ {
		if err := d.ConfigureOutput(p); err != nil {
			t.Fatalf("ConfigureOutput(%d): %v", p, err)
		}
	}
	if bus.regs[regConfig] != 0xF0 {
		t.Fatalf("config=0x%02x want 0xF0", bus.regs[regConfig])
	}

	_ = d.Set(0, true)
	_ = d.Set(3, true)
	if bus.regs[regOutput] != 0x09 {
		t.Fatalf("output=0x%02x want 0x09", bus.regs[regOutput])
	}
	if !d.Get(0) || d.Get(1) || !d.Get(3) {
		t.Fatal("shadow latch does not match writes")
	}
	_ = d.Set(0, false)
	if bus.regs[regOutput] != 0x08 {
		t.Fatalf("output=0x%02x want 0x08", bus.regs[regOutput])
	}
}

func TestInvalidPort(t *testing.T) {
	d := New(newFakeBus())
	if err := d.Set(4, true); !errors.Is(err, ErrInvalidPort) {
		t.Fatalf("Set(4): %v", err)
	}
	if err := d.ConfigureOutput(-1); !errors.Is(err, ErrInvalidPort) {
		t.Fatalf("ConfigureOutput(-1): %v", err)
	}
	if d.Get(7) {
		t.Fatal("Get(7) reported high")
	}
}
