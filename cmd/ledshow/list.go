package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledshow-go/services/config"
	"ledshow-go/services/hal"
	"ledshow-go/services/show"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list {effects|boards|backends}",
		Short:     "List effects, board profiles or pin backends",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"effects", "boards", "backends"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "effects":
				for _, n := range show.Names() {
					fmt.Fprintf(out, "%-16s %s\n", n, show.Title(n))
				}
			case "boards":
				for _, b := range config.Boards() {
					fmt.Fprintln(out, b)
				}
			case "backends":
				for _, b := range hal.Backends() {
					fmt.Fprintln(out, b)
				}
			}
			return nil
		},
	}
}

func newConfigCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			data, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
