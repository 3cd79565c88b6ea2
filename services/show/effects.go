package show

import (
	"context"
	"time"

	"ledshow-go/x/ramp"
)

// Effect names, as used in programs and on the command line.
const (
	KnightRider    = "knight_rider"
	Wave           = "wave"
	AlternateFlash = "alternate_flash"
	Converge       = "converge"
	BinaryCounter  = "binary_counter"
	Sparkle        = "sparkle"
	Breathe        = "breathe"
	Cascade        = "cascade"
	GrandFinale    = "grand_finale"
)

// Breathe software-PWM parameters: one pulse period is breathePeriod ms.
const (
	breathePeriod = 10
	breathePulses = 5
)

// Grand finale: all lines flash together.
const (
	finaleFlashes = 10
	finaleOn      = 50 * time.Millisecond
	finaleOff     = 50 * time.Millisecond
)

// EffectFunc runs one effect for n cycles (iterations for sparkle).
type EffectFunc func(s *Show, ctx context.Context, n int) error

type effectDef struct {
	name string
	run  EffectFunc
}

var effects = []effectDef{
	{KnightRider, (*Show).KnightRider},
	{Wave, (*Show).Wave},
	{AlternateFlash, (*Show).AlternateFlash},
	{Converge, (*Show).Converge},
	{BinaryCounter, (*Show).BinaryCounter},
	{Sparkle, (*Show).Sparkle},
	{Breathe, (*Show).Breathe},
	{Cascade, (*Show).Cascade},
	{GrandFinale, func(s *Show, ctx context.Context, _ int) error { return s.GrandFinale(ctx) }},
}

// Kept apart from effects: the effect bodies read titles.
var titles = map[string]string{
	KnightRider:    "Knight Rider",
	Wave:           "Wave",
	AlternateFlash: "Alternate Flash",
	Converge:       "Converge",
	BinaryCounter:  "Binary Counter",
	Sparkle:        "Sparkle",
	Breathe:        "Breathe",
	Cascade:        "Cascade",
	GrandFinale:    "Grand Finale",
}

// Lookup returns the effect registered under name.
func Lookup(name string) (EffectFunc, bool) {
	for _, e := range effects {
		if e.name == name {
			return e.run, true
		}
	}
	return nil, false
}

// Names lists the effects in their stock program order.
func Names() []string {
	out := make([]string, len(effects))
	for i, e := range effects {
		out[i] = e.name
	}
	return out
}

// Title returns the human-readable name printed on the console.
func Title(name string) string {
	if t, ok := titles[name]; ok {
		return t
	}
	return name
}

// KnightRider sweeps a single lit line 0→3 and back 2→0 per cycle.
func (s *Show) KnightRider(ctx context.Context, cycles int) error {
	s.begin(KnightRider, cycles)
	n := s.bank.Len()
	step := func(i int) error {
		s.bank.AllOff()
		s.bank.Set(i, true)
		return s.wait(ctx, s.timing.Medium)
	}
	for c := 0; c < cycles; c++ {
		for i := 0; i < n; i++ {
			if err := step(i); err != nil {
				return err
			}
		}
		// The far end was just lit; start the return one short of it.
		for i := n - 2; i >= 0; i-- {
			if err := step(i); err != nil {
				return err
			}
		}
	}
	s.bank.AllOff()
	return nil
}

// Wave fills the lines 0→3 then empties them in the same order.
func (s *Show) Wave(ctx context.Context, cycles int) error {
	s.begin(Wave, cycles)
	n := s.bank.Len()
	for c := 0; c < cycles; c++ {
		for _, on := range []bool{true, false} {
			for i := 0; i < n; i++ {
				s.bank.Set(i, on)
				if err := s.wait(ctx, s.timing.Slow); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// AlternateFlash flips between the even pair {0,2} and the odd pair {1,3}.
func (s *Show) AlternateFlash(ctx context.Context, cycles int) error {
	s.begin(AlternateFlash, cycles)
	for c := 0; c < cycles; c++ {
		for _, bits := range []uint8{0b0101, 0b1010} {
			s.pattern(bits)
			if err := s.wait(ctx, s.timing.Slow); err != nil {
				return err
			}
		}
	}
	s.bank.AllOff()
	return nil
}

// Converge alternates the outer pair (0,3) with the inner pair (1,2).
func (s *Show) Converge(ctx context.Context, cycles int) error {
	s.begin(Converge, cycles)
	for c := 0; c < cycles; c++ {
		for _, pair := range [2][2]int{{0, 3}, {1, 2}} {
			s.bank.AllOff()
			s.bank.Set(pair[0], true)
			s.bank.Set(pair[1], true)
			if err := s.wait(ctx, s.timing.Slow); err != nil {
				return err
			}
		}
	}
	s.bank.AllOff()
	return nil
}

// BinaryCounter counts 0..15 with line 0 as the least significant bit.
func (s *Show) BinaryCounter(ctx context.Context, cycles int) error {
	s.begin(BinaryCounter, cycles)
	for c := 0; c < cycles; c++ {
		for count := uint8(0); count < 16; count++ {
			s.pattern(count)
			if err := s.wait(ctx, s.timing.Medium); err != nil {
				return err
			}
		}
	}
	s.bank.AllOff()
	return nil
}

// Sparkle shows a pseudo-random 4-bit LFSR pattern per iteration.
func (s *Show) Sparkle(ctx context.Context, iterations int) error {
	s.begin(Sparkle, iterations)
	r := newLFSR4()
	for i := 0; i < iterations; i++ {
		s.pattern(r.Next())
		if err := s.wait(ctx, s.timing.Fast); err != nil {
			return err
		}
	}
	s.bank.AllOff()
	return nil
}

// Breathe fades all lines in and out with software PWM: brightness 0..9 up,
// 10..1 down, breathePulses pulses of breathePeriod ms per level.
func (s *Show) Breathe(ctx context.Context, cycles int) error {
	s.begin(Breathe, cycles)
	var err error
	pulse := func(level int) bool {
		for p := 0; p < breathePulses; p++ {
			s.bank.AllOn()
			if err = s.wait(ctx, time.Duration(level)*time.Millisecond); err != nil {
				return false
			}
			s.bank.AllOff()
			if err = s.wait(ctx, time.Duration(breathePeriod-level)*time.Millisecond); err != nil {
				return false
			}
		}
		return true
	}
	for c := 0; c < cycles; c++ {
		if !ramp.Triangle(0, breathePeriod, pulse) {
			return err
		}
	}
	return nil
}

// Cascade slides a two-line window (i, i+1 mod 4) around the bank.
func (s *Show) Cascade(ctx context.Context, cycles int) error {
	s.begin(Cascade, cycles)
	n := s.bank.Len()
	for c := 0; c < cycles; c++ {
		for i := 0; i < n; i++ {
			s.bank.AllOff()
			s.bank.Set(i, true)
			s.bank.Set((i+1)%n, true)
			if err := s.wait(ctx, s.timing.Fast); err != nil {
				return err
			}
		}
	}
	s.bank.AllOff()
	return nil
}

// GrandFinale flashes every line together finaleFlashes times.
func (s *Show) GrandFinale(ctx context.Context) error {
	s.begin(GrandFinale, finaleFlashes)
	for i := 0; i < finaleFlashes; i++ {
		s.bank.AllOn()
		if err := s.wait(ctx, finaleOn); err != nil {
			return err
		}
		s.bank.AllOff()
		if err := s.wait(ctx, finaleOff); err != nil {
			return err
		}
	}
	return nil
}

// PulsesPerBreath is the number of PWM pulses one Breathe cycle emits.
func PulsesPerBreath() int { return ramp.TriangleLen(0, breathePeriod) * breathePulses }
