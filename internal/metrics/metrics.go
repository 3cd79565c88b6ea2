// Package metrics exports the show's activity as Prometheus metrics. It has
// no hooks into the show itself: everything is derived from bus traffic.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ledshow-go/bus"
	"ledshow-go/types"
)

const namespace = "ledshow"

var (
	topicEffect     = bus.T("show", "effect")
	topicState      = bus.T("show", "state")
	topicLineValues = bus.T("hal", "line", "+", "value")
)

type Collector struct {
	reg *prometheus.Registry

	effects     *prometheus.CounterVec
	lineChanges *prometheus.CounterVec
	lineOn      *prometheus.GaugeVec
	loop        prometheus.Gauge
	running     prometheus.Gauge

	mu   sync.Mutex
	last map[int]bool
}

// New builds a collector on its own registry. Go runtime and process
// collectors are included when withRuntime is set.
func New(withRuntime bool) *Collector {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	f := promauto.With(reg)
	return &Collector{
		reg: reg,
		effects: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "show",
			Name:      "effects_total",
			Help:      "Effects started, by name",
		}, []string{"effect"}),
		lineChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hal",
			Name:      "line_changes_total",
			Help:      "Logical level changes per LED line",
		}, []string{"line"}),
		lineOn: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "hal",
			Name:      "line_on",
			Help:      "1 while the LED line is on",
		}, []string{"line"}),
		loop: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "show",
			Name:      "loop",
			Help:      "Current outer iteration of the sequencer",
		}),
		running: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "show",
			Name:      "running",
			Help:      "1 while the sequencer is playing",
		}),
		last: make(map[int]bool),
	}
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// Observe folds one bus message into the metrics.
func (c *Collector) Observe(msg *bus.Message) {
	switch p := msg.Payload.(type) {
	case types.EffectEvent:
		c.effects.WithLabelValues(p.Name).Inc()
	case types.ShowState:
		c.loop.Set(float64(p.Loop))
		if p.Level == types.ShowRunning {
			c.running.Set(1)
		} else {
			c.running.Set(0)
		}
	case types.LineValue:
		label := strconv.Itoa(p.Line)
		c.mu.Lock()
		prev, seen := c.last[p.Line]
		c.last[p.Line] = p.On
		c.mu.Unlock()
		if seen && prev != p.On {
			c.lineChanges.WithLabelValues(label).Inc()
		}
		v := 0.0
		if p.On {
			v = 1
		}
		c.lineOn.WithLabelValues(label).Set(v)
	}
}

// Run consumes show and line traffic until ctx is done.
func (c *Collector) Run(ctx context.Context, conn *bus.Connection) {
	subs := []*bus.Subscription{
		conn.Subscribe(topicEffect),
		conn.Subscribe(topicState),
		conn.Subscribe(topicLineValues),
	}
	defer func() {
		for _, s := range subs {
			conn.Unsubscribe(s)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-subs[0].Channel():
			c.Observe(m)
		case m := <-subs[1].Channel():
			c.Observe(m)
		case m := <-subs[2].Channel():
			c.Observe(m)
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{Registry: c.reg})
}

// Serve exposes /metrics on ln until ctx is done.
func (c *Collector) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
