package game

import "log/slog"

// Input is one frame of user commands. The viewer fills it from the keyboard
// and the HUD slider; tests fill it directly.
type Input struct {
	ToggleView    bool
	OmegaSteps    int // +1 per RIGHT press, -1 per LEFT press
	SetOmega      bool
	Omega         float64 // slider value, applied when SetOmega is set
	CycleMaterial bool
	TogglePause   bool
}

// apply updates the control state. Omega always stays within the configured range.
func (g *Game) apply(in Input) {
	if in.ToggleView {
		g.showObject = !g.showObject
	}
	if in.TogglePause {
		g.paused = !g.paused
	}

	if in.SetOmega {
		g.SetOmega(in.Omega)
	}
	if in.OmegaSteps != 0 {
		g.omega = g.cfg.ClampOmega(g.omega + float64(in.OmegaSteps)*g.cfg.Control.OmegaStep)
	}

	if in.CycleMaterial {
		g.material = g.material.Next()
		g.solver.SetMaterial(g.material)
		slog.Info("material changed", "material", g.material.String(), "frame", g.frame)
	}
}

// SetOmega sets the rim speed, clamped to the configured range.
func (g *Game) SetOmega(omega float64) {
	g.omega = g.cfg.ClampOmega(omega)
}
