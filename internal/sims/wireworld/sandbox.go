package wireworld

import (
	"strconv"

	"wireworld/internal/core"
	rng "wireworld/pkg/core"
)

// SandboxConfig controls the free-play sandbox dimensions and seeding.
type SandboxConfig struct {
	Width  int
	Height int
	Loops  int
}

// DefaultSandboxConfig returns the standard sandbox configuration.
func DefaultSandboxConfig() SandboxConfig {
	return SandboxConfig{Width: 100, Height: 100, Loops: 24}
}

// SandboxFromMap populates a SandboxConfig from a string map.
func SandboxFromMap(cfg map[string]string) SandboxConfig {
	c := DefaultSandboxConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["loops"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Loops = parsed
		}
	}
	return c
}

// Sandbox runs a World without exercises, seeded with random wire loops
// carrying one signal each.
type Sandbox struct {
	cfg     SandboxConfig
	world   *World
	display []uint8
}

// NewSandbox returns an empty sandbox.
func NewSandbox(cfg SandboxConfig) *Sandbox {
	size := core.Size{W: cfg.Width, H: cfg.Height}
	return &Sandbox{cfg: cfg, world: New(size), display: make([]uint8, size.Area())}
}

// Name returns the simulation identifier.
func (s *Sandbox) Name() string { return "wireworld" }

// Size returns the grid dimensions.
func (s *Sandbox) Size() core.Size { return s.world.Size() }

// World exposes the underlying runtime grid.
func (s *Sandbox) World() *World { return s.world }

// Cells exposes the display buffer, one DisplayValue per cell.
func (s *Sandbox) Cells() []uint8 {
	for i, c := range s.world.Cells() {
		s.display[i] = c.DisplayValue()
	}
	return s.display
}

// Reset clears the grid and draws cfg.Loops rectangular loops.
func (s *Sandbox) Reset(seed int64) {
	size := s.world.Size()
	s.world = New(size)
	r := rng.NewRNG(seed)
	for i := 0; i < s.cfg.Loops; i++ {
		w := 3 + r.IntN(8)
		h := 3 + r.IntN(6)
		x := r.IntN(size.W)
		y := r.IntN(size.H)
		s.drawLoop(x, y, w, h, r.Bool())
	}
}

// Step advances the sandbox by one tick.
func (s *Sandbox) Step() { s.world.Tick() }

func (s *Sandbox) drawLoop(x0, y0, w, h int, clockwise bool) {
	size := s.world.Size()
	at := func(x, y int) core.Point {
		return core.Point{X: ((x0+x)%size.W + size.W) % size.W, Y: ((y0+y)%size.H + size.H) % size.H}
	}
	for x := 0; x < w; x++ {
		s.world.Set(at(x, 0), Wire(false))
		s.world.Set(at(x, h-1), Wire(false))
	}
	for y := 0; y < h; y++ {
		s.world.Set(at(0, y), Wire(false))
		s.world.Set(at(w-1, y), Wire(false))
	}
	head, tail := at(1, 0), at(0, 0)
	if !clockwise {
		head, tail = at(0, 1), at(0, 0)
	}
	s.world.Set(tail, Tail(false))
	s.world.Set(head, Electron(false))
}

func init() {
	core.Register("wireworld", func(cfg map[string]string) core.Sim {
		return NewSandbox(SandboxFromMap(cfg))
	})
}
