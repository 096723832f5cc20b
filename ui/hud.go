package ui

import (
	"fmt"
	"image/color"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kaleido/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Frame        int32
	SimTime      float64
	FPS          int32
	Paused       bool
	ShowObject   bool
	Material     string
	Particles    int
	Mirrors      int
	CappedTraces int
	Omega        float64
	OmegaMin     float64
	OmegaMax     float64
	Palette      []color.RGBA
}

// HUD renders the status panel in the top-left corner.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	pad := r.Theme.Padding
	r.DrawPanel(h.x, h.y, h.width, 9*r.Theme.LineHeight+2*pad)

	x := h.x + pad
	y := r.DrawSectionHeader(x, h.y+pad, data.Title)

	view := "kaleidoscope"
	if data.ShowObject {
		view = "object"
	}
	status := "running"
	if data.Paused {
		status = "PAUSED"
	}

	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%d (%.3fs) %s", data.Frame, data.SimTime, status))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawLabelValue(x, y, "View", view)
	y = r.DrawLabelValue(x, y, "Material", data.Material)
	y = r.DrawLabelValue(x, y, "Particles", fmt.Sprintf("%d", data.Particles))

	mirrors := fmt.Sprintf("%d", data.Mirrors)
	if data.CappedTraces > 0 {
		mirrors += fmt.Sprintf(" (%d capped)", data.CappedTraces)
	}
	y = r.DrawLabelValue(x, y, "Mirrors", mirrors)
	y = r.DrawCenteredBar(x, y, "Omega", float32(data.Omega), float32(data.OmegaMin), float32(data.OmegaMax), h.width-2*pad)
	r.DrawPalette(x, y, "Colors", data.Palette, h.width-2*pad)
}

// OmegaSlider draws a raygui slider for the rim speed and returns the new
// value and whether the user moved it.
func (h *HUD) OmegaSlider(bounds rl.Rectangle, omega, omegaMin, omegaMax float64) (float64, bool) {
	v := gui.SliderBar(
		bounds,
		fmt.Sprintf("%.0f", omegaMin), fmt.Sprintf("%.0f", omegaMax),
		float32(omega), float32(omegaMin), float32(omegaMax),
	)
	if v == float32(omega) {
		return omega, false
	}
	return float64(v), true
}

// DrawInstructions renders the key legend on a white note near the bottom.
func (h *HUD) DrawInstructions(screenWidth, screenHeight int32, omega float64) {
	t := h.renderer.Theme
	note := rl.Rectangle{
		X:      float32(screenWidth) * 0.1,
		Y:      float32(screenHeight) * 0.8,
		Width:  float32(screenWidth) * 0.8,
		Height: float32(screenHeight) * 0.13,
	}
	rl.DrawRectangleRounded(note, 0.3, 8, t.NoteBg)

	x := int32(note.X) + t.Padding
	y := int32(note.Y) + t.Padding/2
	lines := []string{
		fmt.Sprintf("Current angular velocity: %.2f", omega),
		"Press SPACE to switch between object/image pixels",
		"Press LEFT/RIGHT to change angular velocity.",
		"M: material  P: pause  ESC: exit",
	}
	for _, line := range lines {
		rl.DrawText(line, x, y, t.FontSize, t.NoteText)
		y += t.LineHeight
	}
}

// PerfPanel renders the frame phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  (%.0f frames/s)", stats.AvgFrameDuration.Round(time.Microsecond), stats.FramesPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		pct := stats.PhasePct[phase]

		col := rl.LightGray
		if pct > 40 {
			col = rl.Red
		} else if pct > 20 {
			col = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, col,
		)
		y += 14
	}
}
