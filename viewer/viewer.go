// Package viewer runs a game in a raylib window: keyboard and slider input,
// frame upload, the mirror overlay and the HUD.
package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kaleido/game"
	"github.com/pthm-cable/kaleido/renderer"
	"github.com/pthm-cable/kaleido/ui"
)

const title = "Kaleidoscope"

var mirrorColor = rl.Color{R: 0, G: 0, B: 0, A: 255}

// Viewer owns the window-side state for one game.
type Viewer struct {
	g         *game.Game
	frames    *renderer.FrameRenderer
	hud       *ui.HUD
	perfPanel *ui.PerfPanel

	showHUD  bool
	showPerf bool

	// Slider value picked during the last Draw, applied on the next Update.
	sliderOmega float64
	sliderMoved bool
}

// New creates a viewer (must be called after the raylib window is created).
func New(g *game.Game) *Viewer {
	res := int32(g.Config().Derived.Res)
	v := &Viewer{
		g:         g,
		frames:    renderer.NewFrameRenderer(res, res),
		hud:       ui.NewHUD(10, 10, 230),
		perfPanel: ui.NewPerfPanel(res-220, 10),
		showHUD:   true,
	}
	v.frames.Init()
	return v
}

// Update reads input and advances the game by one frame.
func (v *Viewer) Update() {
	in := v.pollInput()
	v.g.Update(in)
}

// pollInput collects this frame's key presses.
func (v *Viewer) pollInput() game.Input {
	var in game.Input

	if rl.IsKeyPressed(rl.KeySpace) {
		in.ToggleView = true
	}
	if rl.IsKeyPressed(rl.KeyRight) {
		in.OmegaSteps++
	}
	if rl.IsKeyPressed(rl.KeyLeft) {
		in.OmegaSteps--
	}
	if rl.IsKeyPressed(rl.KeyM) {
		in.CycleMaterial = true
	}
	if rl.IsKeyPressed(rl.KeyP) {
		in.TogglePause = true
	}
	if v.sliderMoved {
		in.SetOmega, in.Omega = true, v.sliderOmega
		v.sliderMoved = false
	}

	// Panel toggles stay on the window side.
	if rl.IsKeyPressed(rl.KeyH) {
		v.showHUD = !v.showHUD
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		v.showPerf = !v.showPerf
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	return in
}

// Draw renders the current frame, overlays and HUD.
func (v *Viewer) Draw() {
	g := v.g
	cfg := g.Config()
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	dst := rl.Rectangle{X: 0, Y: 0, Width: float32(sw), Height: float32(sh)}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	v.frames.Draw(g.DisplayFrame(), dst)
	if g.ShowObject() {
		renderer.DrawMirrors(g.Polygon(), cfg.Derived.Res, dst, 1.5, mirrorColor)
	}

	if v.showHUD {
		v.hud.Draw(ui.HUDData{
			Title:        title,
			Frame:        g.Frame(),
			SimTime:      g.SimTime(),
			FPS:          rl.GetFPS(),
			Paused:       g.Paused(),
			ShowObject:   g.ShowObject(),
			Material:     g.Material().String(),
			Particles:    g.Solver().Field().Len(),
			Mirrors:      g.Polygon().Len(),
			CappedTraces: g.Lookup().Capped,
			Omega:        g.Omega(),
			OmegaMin:     cfg.Control.OmegaMin,
			OmegaMax:     cfg.Control.OmegaMax,
			Palette:      g.Palette(),
		})

		slider := rl.Rectangle{X: float32(sw) * 0.2, Y: float32(sh)*0.8 - 26, Width: float32(sw) * 0.6, Height: 18}
		if omega, moved := v.hud.OmegaSlider(slider, g.Omega(), cfg.Control.OmegaMin, cfg.Control.OmegaMax); moved {
			v.sliderOmega, v.sliderMoved = omega, true
		}
		v.hud.DrawInstructions(sw, sh, g.Omega())
	}
	if v.showPerf {
		v.perfPanel.SetPosition(sw-220, 10)
		v.perfPanel.Draw(g.PerfStats())
	}

	rl.EndDrawing()
	g.RecordDisplay()
}

// Unload frees GPU resources.
func (v *Viewer) Unload() {
	v.frames.Unload()
}
