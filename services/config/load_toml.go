//go:build !tinygo

package config

import (
	"bytes"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"ledshow-go/errcode"
)

// LoadFile reads a TOML file and overlays it on a board profile. The profile
// is board when non-empty, else the file's own board key, else DefaultBoard.
// A missing path yields the bare profile. Unknown keys are rejected.
func LoadFile(path, board string) (Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
	}
	return Load(data, board)
}

// Load is LoadFile over an in-memory document.
func Load(data []byte, board string) (Config, error) {
	// Syntax errors surface from the strict decode below.
	var head map[string]any
	_ = toml.Unmarshal(data, &head)
	if board == "" {
		board, _ = head["board"].(string)
	}
	cfg, ok := ForBoard(board)
	if !ok {
		return Config{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.Load",
			Msg: "unknown board " + board}
	}
	// Arrays in the file replace the profile's rather than extend them.
	if _, ok := head["lines"]; ok {
		cfg.Lines = nil
	}
	if _, ok := head["program"]; ok {
		cfg.Program = nil
	}
	if len(data) > 0 {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				err = errors.New(strict.String())
			}
			return Config{}, errcode.Wrap(errcode.InvalidConfig, "config.Load", err)
		}
		cfg.Board = board
		if cfg.Board == "" {
			cfg.Board = DefaultBoard
		}
	}
	return cfg, nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	return buf.Bytes(), nil
}
