// Package show holds the light-show effects and the sequencer that plays them.
//
// Every effect is a blocking generator over a Bank: it announces itself once
// on the console, mutates the bank step by step with a sleep between steps,
// and leaves the bank all off when it returns. Cancellation of the context
// ends an effect at its next sleep.
package show

import (
	"context"
	"time"

	"ledshow-go/bus"
	"ledshow-go/services/console"
	"ledshow-go/types"
	"ledshow-go/x/timex"
)

// Bank is the LED bank an effect drives. *hal.Bank implements it.
type Bank interface {
	Set(i int, on bool)
	AllOn()
	AllOff()
	Len() int
}

// Timing holds the shared delay tiers.
type Timing struct {
	Fast   time.Duration // sparkle, cascade
	Medium time.Duration // knight rider, binary counter
	Slow   time.Duration // wave, alternate flash, converge
}

// DefaultTiming returns the stock 50/100/200 ms tiers.
func DefaultTiming() Timing {
	return Timing{
		Fast:   50 * time.Millisecond,
		Medium: 100 * time.Millisecond,
		Slow:   200 * time.Millisecond,
	}
}

// Option customises a Show.
type Option func(*Show)

// WithTiming overrides the delay tiers.
func WithTiming(t Timing) Option { return func(s *Show) { s.timing = t } }

// WithSleeper replaces the real-time sleep (tests use a recording sleeper).
func WithSleeper(sl timex.Sleeper) Option { return func(s *Show) { s.sleep = sl } }

// WithConsole sets where progress lines go.
func WithConsole(c *console.Console) Option { return func(s *Show) { s.out = c } }

// WithConn publishes effect events and show state on the bus.
func WithConn(c *bus.Connection) Option { return func(s *Show) { s.conn = c } }

// Show binds effects to one bank.
type Show struct {
	bank   Bank
	timing Timing
	sleep  timex.Sleeper
	out    *console.Console
	conn   *bus.Connection
}

func New(b Bank, opts ...Option) *Show {
	s := &Show{
		bank:   b,
		timing: DefaultTiming(),
		sleep:  timex.Sleep,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Timing returns the delay tiers in use.
func (s *Show) Timing() Timing { return s.timing }

// begin prints the effect title and publishes the start event.
func (s *Show) begin(name string, cycles int) {
	s.out.Tagf("Effect", "%s", Title(name))
	if s.conn != nil {
		s.conn.Publish(s.conn.NewMessage(TopicEffect(), types.EffectEvent{
			Name:   name,
			Cycles: cycles,
			TS:     timex.NowMs(),
		}, false))
	}
}

// wait sleeps for d. On cancellation the bank is cleared and ctx.Err returned.
func (s *Show) wait(ctx context.Context, d time.Duration) error {
	if s.sleep(ctx, d) {
		return nil
	}
	s.bank.AllOff()
	if err := ctx.Err(); err != nil {
		return err
	}
	return context.Canceled
}

// pattern drives line k from bit k of bits.
func (s *Show) pattern(bits uint8) {
	for k := 0; k < s.bank.Len() && k < 8; k++ {
		s.bank.Set(k, bits&(1<<k) != 0)
	}
}

// TopicEffect is show/effect.
func TopicEffect() bus.Topic { return bus.T("show", "effect") }

// TopicState is show/state (retained).
func TopicState() bus.Topic { return bus.T("show", "state") }
