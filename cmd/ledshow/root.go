package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ledshow-go/internal/logging"
	"ledshow-go/services/config"
)

// globalOpts are the persistent flags shared by every subcommand.
type globalOpts struct {
	configPath string
	board      string
	backend    string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globalOpts{}
	root := &cobra.Command{
		Use:           "ledshow",
		Short:         "Four-LED light show",
		Long:          "Plays the looping four-LED light show: Knight Rider, Wave, Alternate Flash, Converge, Binary Counter, Sparkle, Breathe, Cascade and a grand finale.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "TOML configuration file")
	pf.StringVar(&g.board, "board", "", "board profile (see 'ledshow list boards')")
	pf.StringVar(&g.backend, "backend", "", "pin backend, overrides the profile")
	pf.StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&g.logFormat, "log-format", "", "log format (text, json, journal)")

	root.AddCommand(newRunCmd(g), newEffectCmd(g), newListCmd(), newConfigCmd(g))
	return root
}

// load resolves the configuration with precedence flags > environment > file
// > board profile, then validates it and initialises logging.
func (g *globalOpts) load(cmd *cobra.Command, logOut io.Writer) (config.Config, error) {
	cfg, err := config.LoadFile(g.configPath, g.board)
	if err != nil {
		return config.Config{}, err
	}
	cfg.ApplyEnv(os.Getenv)

	fs := cmd.Flags()
	if changed(fs, "backend") {
		cfg.Backend = g.backend
	}
	if changed(fs, "log-level") {
		cfg.Logging.Level = g.logLevel
	}
	if changed(fs, "log-format") {
		cfg.Logging.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	logging.Initialize(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}, logOut)
	return cfg, nil
}

// changed reports whether the flag was given on the command line.
func changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
