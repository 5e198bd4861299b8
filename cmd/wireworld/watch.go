package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wireworld/internal/verify"
	"wireworld/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-verify levels whenever a level or solution file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Levels
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("watch needs a directory argument or --levels")
			}
			out := cmd.OutOrStdout()
			w, err := watch.New(dir, func(r verify.Result) {
				fmt.Fprintln(out, describe(r))
			}, watch.Options{
				Debounce: a.cfg.Watch.Debounce,
				Verify:   verify.Options{MaxTicks: a.cfg.Verify.MaxTicks, Logger: a.logger},
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			a.logger.Info("watching", "dir", dir)
			return w.Run(cmd.Context())
		},
	}
}
