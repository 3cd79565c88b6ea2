// Package config holds the show configuration: compiled-in board profiles,
// validation, conversion into the hal/show types and retained publishing of
// each section on config/<section>.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ledshow-go/bus"
	"ledshow-go/errcode"
	"ledshow-go/services/hal"
	"ledshow-go/services/show"
	"ledshow-go/types"
	"ledshow-go/x/timex"
)

const (
	serviceName  = "config"
	configPrefix = "config"

	// Environment overrides, applied after the file.
	EnvBackend  = "LEDSHOW_BACKEND"
	EnvLogLevel = "LEDSHOW_LOG_LEVEL"
)

type TimingConfig struct {
	FastMs      int `toml:"fast_ms" json:"fast_ms"`
	MediumMs    int `toml:"medium_ms" json:"medium_ms"`
	SlowMs      int `toml:"slow_ms" json:"slow_ms"`
	PauseMs     int `toml:"pause_ms" json:"pause_ms"`
	LoopPauseMs int `toml:"loop_pause_ms" json:"loop_pause_ms"`
}

type I2CConfig struct {
	Bus  string `toml:"bus"`
	Addr uint16 `toml:"addr"`
}

type ConsoleConfig struct {
	SerialPort string `toml:"serial_port"` // host mirror, empty disables
	Baud       int    `toml:"baud"`
}

type MetricsConfig struct {
	Listen string `toml:"listen"` // empty disables the exporter
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, json, journal
}

type Config struct {
	Board     string                `toml:"board"`
	Backend   string                `toml:"backend"`
	Lines     []hal.LineConfig      `toml:"lines"`
	Timing    TimingConfig          `toml:"timing"`
	Program   []show.Step           `toml:"program"`
	Finale    *bool                 `toml:"finale,omitempty"`
	I2C       I2CConfig             `toml:"i2c"`
	Console   ConsoleConfig         `toml:"console"`
	Metrics   MetricsConfig         `toml:"metrics"`
	Logging   LoggingConfig         `toml:"logging"`
	Heartbeat types.HeartbeatConfig `toml:"heartbeat"`
}

// Default returns the profile of DefaultBoard.
func Default() Config {
	c, _ := ForBoard(DefaultBoard)
	return c
}

// ForBoard returns the compiled-in profile for board.
func ForBoard(board string) (Config, bool) {
	if board == "" {
		board = DefaultBoard
	}
	c, ok := BoardLookup(board)
	if !ok {
		return Config{}, false
	}
	c.Board = board
	return c, true
}

// Validate reports the first problem found, as an errcode.InvalidConfig (or
// UnknownEffect / PinInUse) error.
func (c Config) Validate() error {
	if len(c.Lines) != hal.NumLines {
		return invalid("lines: need %d, got %d", hal.NumLines, len(c.Lines))
	}
	seen := make(map[int]int, len(c.Lines))
	for i, l := range c.Lines {
		if l.Pin < 0 {
			return invalid("lines[%d]: negative pin %d", i, l.Pin)
		}
		if j, dup := seen[l.Pin]; dup {
			return &errcode.E{C: errcode.PinInUse, Op: "config",
				Msg: fmt.Sprintf("lines[%d] and lines[%d] share pin %d", j, i, l.Pin)}
		}
		seen[l.Pin] = i
	}
	t := c.Timing
	for _, v := range []struct {
		name string
		ms   int
	}{{"fast_ms", t.FastMs}, {"medium_ms", t.MediumMs}, {"slow_ms", t.SlowMs},
		{"pause_ms", t.PauseMs}, {"loop_pause_ms", t.LoopPauseMs}} {
		if v.ms < 0 {
			return invalid("timing.%s: negative", v.name)
		}
	}
	if err := c.ShowProgram().Validate(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return invalid("logging.level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "text", "json", "journal":
	default:
		return invalid("logging.format: %q", c.Logging.Format)
	}
	if c.Heartbeat.IntervalS < 0 {
		return invalid("heartbeat.interval_s: negative")
	}
	if c.I2C.Addr > 0x7F {
		return invalid("i2c.addr: %#x is not a 7-bit address", c.I2C.Addr)
	}
	if c.Console.Baud < 0 {
		return invalid("console.baud: negative")
	}
	return nil
}

func invalid(format string, a ...any) error {
	return &errcode.E{C: errcode.InvalidConfig, Op: "config", Msg: fmt.Sprintf(format, a...)}
}

// HAL returns the bank configuration.
func (c Config) HAL() hal.Config {
	return hal.Config{
		Backend: c.Backend,
		Lines:   append([]hal.LineConfig(nil), c.Lines...),
		I2CBus:  c.I2C.Bus,
		I2CAddr: c.I2C.Addr,
	}
}

// ShowTiming returns the effect delay tiers.
func (c Config) ShowTiming() show.Timing {
	return show.Timing{
		Fast:   timex.Ms(c.Timing.FastMs),
		Medium: timex.Ms(c.Timing.MediumMs),
		Slow:   timex.Ms(c.Timing.SlowMs),
	}
}

// ShowProgram returns the sequencer program. An empty step list selects the
// stock program's steps.
func (c Config) ShowProgram() show.Program {
	p := show.Program{
		Steps:     append([]show.Step(nil), c.Program...),
		Pause:     timex.Ms(c.Timing.PauseMs),
		LoopPause: timex.Ms(c.Timing.LoopPauseMs),
	}
	if len(p.Steps) == 0 {
		p.Steps = show.DefaultProgram().Steps
	}
	if c.Finale != nil {
		p.NoFinale = !*c.Finale
	}
	return p
}

// ApplyEnv overlays the environment overrides using getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// HeartbeatInterval is the heartbeat period; zero disables it.
func (c Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.Heartbeat.IntervalS) * time.Second
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
	cfg  Config
}

func NewConfigService(cfg Config) *ConfigService {
	return &ConfigService{Name: serviceName, cfg: cfg}
}

// Topic returns config/<section>.
func Topic(section string) bus.Topic { return bus.T(configPrefix, section) }

// Publish places every section on the bus as a retained message.
func (s *ConfigService) Publish(conn *bus.Connection) {
	c := s.cfg
	sections := []struct {
		key string
		val any
	}{
		{"board", c.Board},
		{"backend", c.Backend},
		{"lines", append([]hal.LineConfig(nil), c.Lines...)},
		{"timing", c.Timing},
		{"program", c.ShowProgram()},
		{"heartbeat", c.Heartbeat},
		{"logging", c.Logging},
	}
	for _, sec := range sections {
		conn.Publish(conn.NewMessage(Topic(sec.key), sec.val, true))
	}
}

// Start publishes the configuration once ctx is live.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Publish(conn)
	return nil
}
