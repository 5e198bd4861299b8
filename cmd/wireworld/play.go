package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"wireworld/internal/core"
	"wireworld/internal/level"
	"wireworld/internal/session"
	"wireworld/internal/tui"
	"wireworld/levels"
)

func newPlayCmd(a *app) *cobra.Command {
	var (
		sandbox bool
		seed    int64
		size    = core.Size{W: 48, H: 20}
	)
	cmd := &cobra.Command{
		Use:   "play [level]",
		Short: "Play a level in the terminal",
		Long: `Play a level in the terminal. The level is a path to a .level file,
a catalog title or a level file name. It defaults to the first level.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var desc *level.Descriptor
			var err error
			switch {
			case sandbox:
				desc, err = levels.Sandbox(size, seed)
			case len(args) == 1:
				desc, err = a.source().Open(args[0])
			default:
				desc, err = a.source().Open("wire")
			}
			if err != nil {
				return err
			}
			s, err := session.New(desc, session.WithLogger(a.logger), session.WithInterval(a.cfg.Tick))
			if err != nil {
				return err
			}
			p := tea.NewProgram(tui.New(s), tea.WithAltScreen(), tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&sandbox, "sandbox", false, "play a random free-play grid")
	cmd.Flags().Int64Var(&seed, "seed", 1, "sandbox seed")
	cmd.Flags().IntVar(&size.W, "width", size.W, "sandbox width")
	cmd.Flags().IntVar(&size.H, "height", size.H, "sandbox height")
	return cmd
}
