package hal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ledshow-go/bus"
	"ledshow-go/errcode"
	"ledshow-go/services/console"
	"ledshow-go/services/hal/internal/platform"
	"ledshow-go/types"
)

var dkLines = []LineConfig{
	{Pin: 28, ActiveLow: true},
	{Pin: 29, ActiveLow: true},
	{Pin: 30, ActiveLow: true},
	{Pin: 31, ActiveLow: true},
}

func openFake(t *testing.T, lines []LineConfig) (*Bank, *platform.HostPinFactory, *bytes.Buffer) {
	t.Helper()
	pf := platform.NewHostPinFactory()
	var out bytes.Buffer
	b, err := Open(context.Background(), Config{Backend: "memory", Lines: lines},
		Options{Pins: pf, Console: console.New(&out)})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return b, pf, &out
}

func TestOpen_ConfiguresAllLinesInactive(t *testing.T) {
	b, pf, out := openFake(t, dkLines)

	for i, lc := range dkLines {
		p, ok := pf.Get(lc.Pin)
		if !ok || !p.IsOutput() {
			t.Fatalf("line %d (pin %d) not configured as output", i, lc.Pin)
		}
		// Active-low: logical off is electrical high.
		if !p.Get() {
			t.Fatalf("line %d pin level low, want high (inactive, active-low)", i)
		}
		if b.Level(i) {
			t.Fatalf("line %d starts on", i)
		}
	}
	for i := 0; i < NumLines; i++ {
		want := "[OK] LED" + string(rune('0'+i)) + " initialized successfully"
		if !strings.Contains(out.String(), want) {
			t.Fatalf("console missing %q:\n%s", want, out.String())
		}
	}
}

func TestSet_OutOfRangeIsNoop(t *testing.T) {
	b, _, _ := openFake(t, dkLines)
	b.Set(1, true)
	before := b.Pattern()

	for _, i := range []int{-1, 4, 5, 100} {
		b.Set(i, true)
		b.Set(i, false)
		if got := b.Pattern(); got != before {
			t.Fatalf("Set(%d) changed pattern %04b -> %04b", i, before, got)
		}
	}
	if b.Level(-1) || b.Level(4) {
		t.Fatal("Level out of range reported on")
	}
}

func TestSet_InRangeChangesExactlyOneLine(t *testing.T) {
	b, pf, _ := openFake(t, dkLines)
	for i := 0; i < NumLines; i++ {
		b.AllOff()
		b.Set(i, true)
		if got, want := b.Pattern(), uint8(1)<<i; got != want {
			t.Fatalf("Set(%d): pattern %04b want %04b", i, got, want)
		}
		p, _ := pf.Get(dkLines[i].Pin)
		if p.Get() {
			t.Fatalf("line %d: active-low pin still high while on", i)
		}
	}
}

func TestAllOnAllOff(t *testing.T) {
	b, _, _ := openFake(t, []LineConfig{{Pin: 2}, {Pin: 3}, {Pin: 4}, {Pin: 5}})
	b.AllOn()
	if b.Pattern() != 0x0F {
		t.Fatalf("AllOn pattern %04b", b.Pattern())
	}
	b.AllOff()
	if b.Pattern() != 0 {
		t.Fatalf("AllOff pattern %04b", b.Pattern())
	}
	if b.Len() != NumLines || b.Backend() != "memory" {
		t.Fatalf("Len=%d Backend=%q", b.Len(), b.Backend())
	}
}

func TestOpen_LineCountValidated(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "memory", Lines: dkLines[:3]}, Options{})
	if errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("got %v, want invalid_config", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "gpio-over-carrier-pigeon", Lines: dkLines}, Options{})
	if errcode.Of(err) != errcode.UnknownBackend {
		t.Fatalf("got %v, want unknown_backend", err)
	}
}

func TestOpen_InitFailures(t *testing.T) {
	boom := errors.New("EIO")
	cases := []struct {
		name    string
		fault   func(pf *platform.HostPinFactory)
		code    errcode.Code
		console string
	}{
		{"missing pin", func(pf *platform.HostPinFactory) { pf.Remove(30) }, errcode.UnknownPin,
			"[ERROR] LED2 GPIO device not ready"},
		{"not ready", func(pf *platform.HostPinFactory) { pf.SetNotReady(28) }, errcode.NotReady,
			"[ERROR] LED0 GPIO device not ready"},
		{"configure fails", func(pf *platform.HostPinFactory) { pf.FailConfigure(31, boom) }, errcode.ConfigureFailed,
			"[ERROR] Failed to configure LED3 (err=EIO)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pf := platform.NewHostPinFactory()
			c.fault(pf)
			var out bytes.Buffer
			_, err := Open(context.Background(), Config{Lines: dkLines},
				Options{Pins: pf, Console: console.New(&out)})
			if errcode.Of(err) != c.code {
				t.Fatalf("got %v, want %s", err, c.code)
			}
			if !strings.Contains(out.String(), c.console) {
				t.Fatalf("console missing %q:\n%s", c.console, out.String())
			}
		})
	}
}

func TestOpen_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Open(ctx, Config{Backend: "memory", Lines: dkLines}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestBank_PublishesLineValues(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("hal")
	obs := b.NewConnection("test")

	bank, err := Open(context.Background(), Config{Backend: "memory", Lines: dkLines},
		Options{Conn: conn, Pins: platform.NewHostPinFactory()})
	if err != nil {
		t.Fatal(err)
	}

	sub := obs.Subscribe(TopicLineValue(2))
	// Retained initial value.
	expectLine(t, sub, 2, false)

	bank.Set(2, true)
	expectLine(t, sub, 2, true)

	// Unchanged level does not republish.
	bank.Set(2, true)
	select {
	case m := <-sub.Channel():
		t.Fatalf("unexpected republish %v", m.Payload)
	case <-time.After(20 * time.Millisecond):
	}

	info := obs.Subscribe(TopicLineInfo(3))
	select {
	case m := <-info.Channel():
		li, ok := m.Payload.(types.LineInfo)
		if !ok || li.Pin != 31 || !li.ActiveLow || li.Backend != "memory" {
			t.Fatalf("info payload %#v", m.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no retained line info")
	}
}

func expectLine(t *testing.T, sub *bus.Subscription, line int, on bool) {
	t.Helper()
	select {
	case m := <-sub.Channel():
		v, ok := m.Payload.(types.LineValue)
		if !ok || v.Line != line || v.On != on {
			t.Fatalf("payload %#v, want line %d on=%v", m.Payload, line, on)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for line %d on=%v", line, on)
	}
}
