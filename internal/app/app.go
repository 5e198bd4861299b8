//go:build ebiten

package app

import (
	"log/slog"

	"wireworld/internal/core"
	"wireworld/internal/render"
	"wireworld/internal/session"
	"wireworld/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a session to the ebiten.Game interface.
type Game struct {
	s       *session.Session
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	logger  *slog.Logger

	scale int
	brush Brush
}

// New constructs a Game for the provided session.
func New(s *session.Session, scale int, logger *slog.Logger) *Game {
	if scale <= 0 {
		scale = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	size := s.Size()
	return &Game{
		s:       s,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(s, scale),
		hud:     ui.NewHUD(s, HUDWidth),
		logger:  logger,
		scale:   scale,
	}
}

// Update handles input and advances the session on its own clock.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.apply(TogglePlay(g.s))
	}
	for i, key := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3} {
		if inpututil.IsKeyJustPressed(key) {
			g.s.Play(core.SpeedPresets[i])
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && g.s.Paused() {
		g.report(g.s.Tick())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.apply(ui.ActionRestart)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		if err := g.s.Reload(); err != nil {
			g.logger.Error("reload failed", "err", err)
		}
	}

	size := g.s.Size()
	g.apply(g.hud.Update(size.W * g.scale))
	g.handleMouse(size)

	g.overlay.Update()
	if r, ok := g.s.Step(); ok {
		g.report(r)
	}
	g.hud.SetNotes(ui.Notes(g.s.Status()))
	return nil
}

func (g *Game) handleMouse(size core.Size) {
	mx, my := ebiten.CursorPosition()
	if mx < 0 || my < 0 || mx >= size.W*g.scale || my >= size.H*g.scale {
		g.brush.Lift()
		return
	}
	p := core.Point{X: mx / g.scale, Y: my / g.scale}
	switch {
	case g.brush.Stroke(p, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)):
		g.s.TryClick(p, session.ButtonLeft)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		g.s.TryClick(p, session.ButtonRight)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle):
		g.s.TryClick(p, session.ButtonMiddle)
	}
}

func (g *Game) apply(a ui.Action) {
	switch a {
	case ui.ActionPlay:
		g.s.Play(g.s.Speed())
	case ui.ActionPause:
		g.s.Pause()
	case ui.ActionRestart:
		g.s.Restart()
	}
}

func (g *Game) report(r session.Report) {
	g.overlay.Flash(ui.Banner(r.Outcome))
	if r.Outcome != session.OutcomeRunning && r.Outcome != session.OutcomeNone {
		g.logger.Info("exercise outcome", "tick", r.Tick, "exercise", r.Exercise, "outcome", r.Outcome)
	}
}

// Draw renders the grid, markers and panel.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.s.Cells(), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.s.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowSize(g.s.Size(), g.scale)
}
