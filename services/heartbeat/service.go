// Package heartbeat prints a periodic status line built from what the other
// services leave on the bus: the retained show state and the line values.
package heartbeat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ledshow-go/bus"
	"ledshow-go/services/console"
	"ledshow-go/types"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	topicShowState       = bus.T("show", "state")
	topicLineValues      = bus.T("hal", "line", "+", "value")
)

const DefaultInterval = time.Second

type Service struct {
	Out      *console.Console
	Interval time.Duration // until config/heartbeat says otherwise

	mu    sync.Mutex
	start time.Time
	state types.ShowState
	lines [8]bool
	nl    int
}

func New(out *console.Console) *Service {
	return &Service{Out: out, Interval: DefaultInterval}
}

// Status renders the current status line (without the tag).
func (s *Service) Status(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	leds := make([]byte, s.nl)
	for i := 0; i < s.nl; i++ {
		leds[i] = '.'
		if s.lines[i] {
			leds[i] = '*'
		}
	}
	st := s.state
	if st.Level == "" {
		st.Level = types.ShowIdle
	}
	line := fmt.Sprintf("up=%s show=%s loop=%d leds=[%s]",
		now.Sub(s.start).Truncate(time.Second), st.Level, st.Loop, leds)
	if st.Effect != "" {
		line += " effect=" + st.Effect
	}
	return line
}

func (s *Service) observe(msg *bus.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch p := msg.Payload.(type) {
	case types.ShowState:
		s.state = p
	case types.LineValue:
		if p.Line >= 0 && p.Line < len(s.lines) {
			s.lines[p.Line] = p.On
			if p.Line >= s.nl {
				s.nl = p.Line + 1
			}
		}
	}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	stateSub := conn.Subscribe(topicShowState)
	defer conn.Unsubscribe(stateSub)
	lineSub := conn.Subscribe(topicLineValues)
	defer conn.Unsubscribe(lineSub)

	iv := s.Interval
	if iv <= 0 {
		iv = DefaultInterval
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Out.Tagf("HB", "stopping")
			return
		case now := <-tick.C:
			s.Out.Tagf("HB", "%s", s.Status(now))
		case msg := <-stateSub.Channel():
			s.observe(msg)
		case msg := <-lineSub.Channel():
			s.observe(msg)
		case msg := <-cfgSub.Channel():
			hb, ok := msg.Payload.(types.HeartbeatConfig)
			if !ok || hb.IntervalS <= 0 {
				continue
			}
			tick.Reset(time.Duration(hb.IntervalS) * time.Second)
			s.Out.Tagf("HB", "interval set to %ds", hb.IntervalS)
		}
	}
}

// Start launches the heartbeat loop; it ends with ctx.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	s.start = time.Now()
	go s.serviceLoop(ctx, conn)
	return nil
}
