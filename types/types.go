package types

// ---- Show state (retained on show/state) ----

// ShowLevel is the lifecycle level of the sequencer.
type ShowLevel string

const (
	ShowIdle    ShowLevel = "idle"
	ShowRunning ShowLevel = "running"
	ShowStopped ShowLevel = "stopped"
)

type ShowState struct {
	Level  ShowLevel `json:"level"`
	Effect string    `json:"effect,omitempty"` // effect currently playing
	Loop   int       `json:"loop"`             // 1-based outer iteration
	TS     int64     `json:"ts_ms"`
}

// EffectEvent is published on show/effect when a generator starts.
type EffectEvent struct {
	Name   string `json:"name"`
	Cycles int    `json:"cycles"`
	TS     int64  `json:"ts_ms"`
}

// ---- LED lines ----

// LineInfo is retained on hal/line/<i>/info once the bank is configured.
type LineInfo struct {
	Line      int    `json:"line"`
	Pin       int    `json:"pin"`
	ActiveLow bool   `json:"active_low"`
	Backend   string `json:"backend"`
}

// LineValue is retained on hal/line/<i>/value and follows every level change.
type LineValue struct {
	Line int   `json:"line"`
	On   bool  `json:"on"`
	TS   int64 `json:"ts_ms"`
}

// ---- Config sections (retained on config/<section>) ----

type HeartbeatConfig struct {
	IntervalS int `json:"interval_s" toml:"interval_s"`
}
