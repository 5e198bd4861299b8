package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLevelsCmd(a *app) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List the level catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := a.source()
			c, err := src.Catalog()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TITLE\tFILE\tSIZE\tEXERCISES")
			for _, e := range c.Levels {
				fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\n", e.Title, e.File, e.Width, e.Height, e.Exercises)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if !check {
				return nil
			}
			bad := 0
			for _, r := range c.Check(src.Loader()) {
				if r.Err != nil {
					bad++
					fmt.Fprintf(cmd.OutOrStdout(), "mismatch: %v\n", r.Err)
				}
			}
			if bad > 0 {
				return fmt.Errorf("%d catalog entries do not match their levels", bad)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "parse every level and compare it with the catalog")
	return cmd
}
