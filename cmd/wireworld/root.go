package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"wireworld/internal/config"
	"wireworld/levels"
)

// app carries the state shared by every subcommand once flags are parsed.
type app struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
}

func (a *app) source() levels.Source {
	return levels.Source{Dir: a.cfg.Levels, CatalogPath: a.cfg.Catalog}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}
	root := &cobra.Command{
		Use:           "wireworld",
		Short:         "Build circuits in Wireworld and verify them against level exercises",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.configPath != "" {
				if err := a.cfg.Load(a.configPath, cmd.Flags()); err != nil {
					return err
				}
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			a.logger = a.cfg.Logger(cmd.ErrOrStderr())
			return nil
		},
	}
	a.cfg.Bind(root.PersistentFlags())
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")

	root.AddCommand(
		newPlayCmd(a),
		newVerifyCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newLevelsCmd(a),
	)
	return root
}
