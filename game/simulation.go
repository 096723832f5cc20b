package game

import "github.com/pthm-cable/kaleido/telemetry"

// Update applies one frame of user input, then steps unless paused.
func (g *Game) Update(in Input) {
	g.apply(in)
	if g.paused {
		return
	}
	g.step()
}

// UpdateHeadless runs a single frame without input handling.
func (g *Game) UpdateHeadless() {
	g.step()
}

// step advances the solver by one frame and rebuilds both buffers.
func (g *Game) step() {
	g.perfCollector.StartFrame()

	n := g.solver.Step(g.cfg.Physics.FrameDuration, g.omega)
	g.compose()
	g.frame++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordFrame(g.omega, n, g.solver.Field().Stats(g.solver.Params().ParticleMass()))
	g.flushTelemetry()

	g.perfCollector.EndFrame()
}

// compose draws the object buffer and resolves the kaleidoscope from it.
func (g *Game) compose() {
	g.perfCollector.StartPhase(telemetry.PhaseComposite)
	g.compositor.DrawObject(g.solver.Field(), g.solver.RimAngle())
	g.perfCollector.StartPhase(telemetry.PhaseResolve)
	g.compositor.Resolve(g.lookup)
}
