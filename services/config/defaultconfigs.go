package config

import (
	"sort"

	"ledshow-go/services/hal"
	"ledshow-go/types"
)

// -----------------------------------------------------------------------------
// Board profiles
//
// Key: board name (firmware build var, --board on the host).
// Val: full configuration; a file or flags overlay it.
// -----------------------------------------------------------------------------

// DefaultBoard is the profile used when none is named.
const DefaultBoard = "nrf5340dk"

// BoardLookup allows overriding how profiles are resolved.
var BoardLookup = func(board string) (Config, bool) {
	mk, ok := boards[board]
	if !ok {
		return Config{}, false
	}
	return mk(), true
}

var boards = map[string]func() Config{
	// nRF5340 DK: LED1..LED4 on P0.28..P0.31, sinking.
	"nrf5340dk": func() Config {
		c := base()
		c.Lines = lines(true, 28, 29, 30, 31)
		return c
	},
	// Raspberry Pi Pico: LEDs on GP2..GP5 via resistors to ground.
	"pico": func() Config {
		c := base()
		c.Lines = lines(false, 2, 3, 4, 5)
		return c
	},
	// Raspberry Pi header, BCM numbering.
	"rpi": func() Config {
		c := base()
		c.Backend = "periph"
		c.Lines = lines(false, 17, 27, 22, 23)
		return c
	},
	// PCA9536 expander ports IO0..IO3, LEDs to VCC.
	"pca9536": func() Config {
		c := base()
		c.Backend = "pca9536"
		c.Lines = lines(true, 0, 1, 2, 3)
		c.I2C = I2CConfig{Bus: "", Addr: 0x41}
		return c
	},
	// In-memory pins; runs anywhere.
	"sim": func() Config {
		c := base()
		c.Backend = "memory"
		c.Lines = lines(true, 28, 29, 30, 31)
		return c
	},
}

// Banner titles; boards without one use their profile name.
var titles = map[string]string{
	"nrf5340dk": "nRF5340",
	"pico":      "Raspberry Pi Pico",
	"rpi":       "Raspberry Pi",
	"pca9536":   "PCA9536",
	"sim":       "Simulated",
}

// BoardTitle is the display name of board for the startup banner.
func BoardTitle(board string) string {
	if board == "" {
		board = DefaultBoard
	}
	if t, ok := titles[board]; ok {
		return t
	}
	return board
}

// Boards lists the known profile names.
func Boards() []string {
	out := make([]string, 0, len(boards))
	for k := range boards {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func base() Config {
	return Config{
		Timing: TimingConfig{
			FastMs:      50,
			MediumMs:    100,
			SlowMs:      200,
			PauseMs:     500,
			LoopPauseMs: 1000,
		},
		Console:   ConsoleConfig{Baud: 115200},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Heartbeat: types.HeartbeatConfig{IntervalS: 10},
	}
}

func lines(activeLow bool, pins ...int) []hal.LineConfig {
	out := make([]hal.LineConfig, len(pins))
	for i, p := range pins {
		out[i] = hal.LineConfig{Pin: p, ActiveLow: activeLow}
	}
	return out
}
