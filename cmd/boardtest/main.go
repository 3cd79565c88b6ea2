// cmd/boardtest/main.go
//
// LED bring-up firmware: walks every line of the bank on and off, checks the
// bank reports each level change on the bus, and flashes PASS/FAIL.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"ledshow-go/bus"
	"ledshow-go/services/config"
	"ledshow-go/services/console"
	"ledshow-go/services/hal"
	"ledshow-go/types"
)

// ---------- Configuration ----------

const (
	stepDelayUp   = 300 * time.Millisecond
	stepDelayDown = 300 * time.Millisecond
	dwellUp       = 2 * time.Second
	dwellDown     = time.Second

	// How long a level change may take to show up on the bus.
	reportTimeout = 200 * time.Millisecond
)

// Set with -ldflags "-X main.board=pico -X main.cycles=3".
var (
	board  = config.DefaultBoard
	cycles = "0" // 0 = loop forever
)

// ---------- Helpers ----------

// expect waits for line i to be reported at level on.
func expect(sub *bus.Subscription, i int, on bool) bool {
	dead := time.After(reportTimeout)
	for {
		select {
		case m := <-sub.Channel():
			if v, ok := m.Payload.(types.LineValue); ok && v.Line == i && v.On == on {
				return true
			}
		case <-dead:
			return false
		}
	}
}

func drain(sub *bus.Subscription) {
	for {
		select {
		case <-sub.Channel():
		default:
			return
		}
	}
}

func ledFlashPassFail(bank *hal.Bank, pass bool) {
	if pass {
		// Double short
		for i := 0; i < 2; i++ {
			bank.AllOn()
			time.Sleep(120 * time.Millisecond)
			bank.AllOff()
			time.Sleep(200 * time.Millisecond)
		}
	} else {
		// Single long
		bank.AllOn()
		time.Sleep(400 * time.Millisecond)
		bank.AllOff()
		time.Sleep(200 * time.Millisecond)
	}
}

// parseCycles reads the linker-set cycle limit; 0 means forever.
func parseCycles(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ---------- Main ----------

func main() {
	time.Sleep(2 * time.Second)
	o := console.New(os.Stdout)

	cfg, ok := config.ForBoard(board)
	if !ok {
		o.Tagf("boardtest", "unknown board %q", board)
		return
	}
	limit, ok := parseCycles(cycles)
	if !ok {
		o.Tagf("boardtest", "bad cycle count %q", cycles)
		return
	}

	b := bus.NewBus(16, "+", "#")
	ui := b.NewConnection("ui")
	sub := ui.Subscribe(hal.TopicLineValues())
	defer ui.Unsubscribe(sub)

	bank, err := hal.Open(context.Background(), cfg.HAL(), hal.Options{
		Conn:    b.NewConnection("hal"),
		Console: o,
	})
	if err != nil {
		o.Tagf("FAIL", "bank: %v", err)
		return
	}

	cycle := 0
	for {
		cycle++
		o.Printf("=== boardtest: %s cycle %d ===\n", cfg.Board, cycle)
		drain(sub)

		var miss []string
		// Sequence UP (front to back)
		for i := 0; i < bank.Len(); i++ {
			bank.Set(i, true)
			if !expect(sub, i, true) {
				miss = append(miss, fmt.Sprintf("LED%d on", i))
			}
			o.Printf("line up: LED%d pin %d\n", i, cfg.Lines[i].Pin)
			time.Sleep(stepDelayUp)
		}
		time.Sleep(dwellUp)

		// Sequence DOWN (back to front)
		for i := bank.Len() - 1; i >= 0; i-- {
			bank.Set(i, false)
			if !expect(sub, i, false) {
				miss = append(miss, fmt.Sprintf("LED%d off", i))
			}
			o.Printf("line down: LED%d\n", i)
			time.Sleep(stepDelayDown)
		}
		time.Sleep(dwellDown)

		pass := len(miss) == 0 && bank.Pattern() == 0
		if pass {
			o.Tagf("PASS", "all %d lines toggled and reported", bank.Len())
		} else {
			o.Tagf("FAIL", "missing: %v", miss)
		}
		ledFlashPassFail(bank, pass)

		if limit > 0 && cycle >= limit {
			o.Printf("completed %d cycles; halting\n", cycle)
			return
		}
	}
}
