package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"ledshow-go/errcode"
	"ledshow-go/services/show"
)

func newEffectCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "effect NAME [CYCLES]",
		Short: "Play a single effect once",
		Args:  cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return show.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			run, ok := show.Lookup(args[0])
			if !ok {
				return &errcode.E{C: errcode.UnknownEffect, Op: "effect", Msg: args[0]}
			}
			cycles := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil || n < 0 {
					return &errcode.E{C: errcode.InvalidParams, Op: "effect",
						Msg: fmt.Sprintf("cycles %q", args[1])}
				}
				cycles = n
			}

			cfg, err := g.load(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a, err := newApp(ctx, cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()
			return run(a.show, ctx, cycles)
		},
	}
}
