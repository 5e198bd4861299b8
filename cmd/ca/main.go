//go:build ebiten

package main

import (
	"errors"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"

	"wireworld/internal/app"
	"wireworld/internal/config"
	"wireworld/internal/core"
	"wireworld/internal/level"
	"wireworld/internal/session"
	"wireworld/levels"
)

func main() {
	cfg := config.Default()
	fs := pflag.CommandLine
	cfg.Bind(fs)
	configPath := fs.String("config", "", "YAML configuration file")
	name := fs.String("level", "wire", "level path, catalog title or file name")
	sandbox := fs.Bool("sandbox", false, "play a random free-play grid instead of a level")
	seed := fs.Int64("seed", 1, "sandbox seed")
	pflag.Parse()

	if *configPath != "" {
		if err := cfg.Load(*configPath, fs); err != nil {
			fatal(err)
		}
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	logger := cfg.Logger(os.Stderr)

	var desc *level.Descriptor
	var err error
	if *sandbox {
		desc, err = levels.Sandbox(core.Size{W: 64, H: 48}, *seed)
	} else {
		desc, err = levels.Source{Dir: cfg.Levels, CatalogPath: cfg.Catalog}.Open(*name)
	}
	if err != nil {
		fatal(err)
	}

	s, err := session.New(desc, session.WithLogger(logger), session.WithInterval(cfg.Tick))
	if err != nil {
		fatal(err)
	}
	game := app.New(s, cfg.Scale, logger)

	ebiten.SetWindowTitle("wireworld - " + desc.Name)
	ebiten.SetWindowSize(app.WindowSize(desc.Size, cfg.Scale))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		fatal(err)
	}
}

func fatal(err error) {
	config.Default().Logger(os.Stderr).Error("wireworld", "err", err)
	os.Exit(1)
}
