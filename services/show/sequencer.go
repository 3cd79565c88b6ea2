package show

import (
	"context"
	"fmt"
	"time"

	"ledshow-go/errcode"
	"ledshow-go/services/console"
	"ledshow-go/types"
	"ledshow-go/x/timex"
)

// Step is one effect of a program.
type Step struct {
	Effect string `toml:"effect"`
	Cycles int    `toml:"cycles"` // iterations for sparkle
}

// Program is the ordered list of effects one loop plays.
type Program struct {
	Steps     []Step
	Pause     time.Duration // after every step
	LoopPause time.Duration // after the finale
	NoFinale  bool
}

// DefaultProgram is the stock show.
func DefaultProgram() Program {
	return Program{
		Steps: []Step{
			{KnightRider, 3},
			{Wave, 2},
			{AlternateFlash, 6},
			{Converge, 4},
			{BinaryCounter, 2},
			{Sparkle, 50},
			{Breathe, 2},
			{Cascade, 8},
		},
		Pause:     500 * time.Millisecond,
		LoopPause: 1000 * time.Millisecond,
	}
}

// Validate checks every step names a known effect with a non-negative count.
func (p Program) Validate() error {
	if len(p.Steps) == 0 && p.NoFinale {
		return &errcode.E{C: errcode.InvalidConfig, Op: "show.Program", Msg: "empty program"}
	}
	for i, st := range p.Steps {
		if _, ok := Lookup(st.Effect); !ok {
			return &errcode.E{C: errcode.UnknownEffect, Op: "show.Program",
				Msg: fmt.Sprintf("step %d: %q", i, st.Effect)}
		}
		if st.Cycles < 0 {
			return &errcode.E{C: errcode.InvalidConfig, Op: "show.Program",
				Msg: fmt.Sprintf("step %d: negative cycles %d", i, st.Cycles)}
		}
	}
	if p.Pause < 0 || p.LoopPause < 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "show.Program", Msg: "negative pause"}
	}
	return nil
}

// Sequencer plays a Program on a Show, loop after loop.
type Sequencer struct {
	show *Show
	prog Program
}

func NewSequencer(s *Show, p Program) (*Sequencer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Sequencer{show: s, prog: p}, nil
}

// Program returns the program being played.
func (q *Sequencer) Program() Program { return q.prog }

// Run plays loops iterations (0 means until ctx is done). The bank is all
// off when Run returns.
func (q *Sequencer) Run(ctx context.Context, loops int) error {
	s := q.show
	s.out.Printf("\n[START] Beginning light show sequence...\n\n")
	defer q.stop()
	for loop := 1; loops == 0 || loop <= loops; loop++ {
		if err := q.RunOnce(ctx, loop); err != nil {
			return err
		}
	}
	return nil
}

// RunOnce plays one outer iteration: every step with its pause, the grand
// finale, the restart line and the loop pause.
func (q *Sequencer) RunOnce(ctx context.Context, loop int) error {
	s := q.show
	for _, st := range q.prog.Steps {
		if err := ctx.Err(); err != nil {
			s.bank.AllOff()
			return err
		}
		run, _ := Lookup(st.Effect)
		q.publishState(types.ShowRunning, st.Effect, loop)
		if err := run(s, ctx, st.Cycles); err != nil {
			return err
		}
		if err := s.wait(ctx, q.prog.Pause); err != nil {
			return err
		}
	}
	if !q.prog.NoFinale {
		q.publishState(types.ShowRunning, GrandFinale, loop)
		if err := s.GrandFinale(ctx); err != nil {
			return err
		}
	}
	s.out.Printf("\n[LOOP] Restarting sequence...\n\n")
	return s.wait(ctx, q.prog.LoopPause)
}

func (q *Sequencer) stop() {
	q.show.bank.AllOff()
	q.publishState(types.ShowStopped, "", 0)
}

func (q *Sequencer) publishState(level types.ShowLevel, effect string, loop int) {
	c := q.show.conn
	if c == nil {
		return
	}
	c.Publish(c.NewMessage(TopicState(), types.ShowState{
		Level:  level,
		Effect: effect,
		Loop:   loop,
		TS:     timex.NowMs(),
	}, true))
}

const bannerRule = "========================================"

// Banner prints the startup banner naming board. It comes before the bank is
// opened so that init failures appear under it.
func Banner(c *console.Console, board string) {
	c.Printf("\n%s\n    %s LED Light Show\n    TinyGo Demo\n%s\n\n",
		bannerRule, board, bannerRule)
}
