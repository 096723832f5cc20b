package ui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawCenteredBar draws a bar that grows left or right from the middle of
// [minVal, maxVal].
func (r *Renderer) DrawCenteredBar(x, y int32, label string, value, minVal, maxVal float32, width int32) int32 {
	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50
	center := barX + barWidth/2

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	half := (maxVal - minVal) / 2
	if half > 0 {
		t := (value - (minVal + half)) / half
		t = max(-1, min(1, t))
		fill := int32(float32(barWidth/2) * t)
		if fill >= 0 {
			rl.DrawRectangle(center, y+2, fill, r.Theme.BarHeight, r.Theme.BarFillPositive)
		} else {
			rl.DrawRectangle(center+fill, y+2, -fill, r.Theme.BarHeight, r.Theme.BarFillNegative)
		}
	}
	rl.DrawLine(center, y, center, y+r.Theme.BarHeight+4, r.Theme.LabelColor)

	rl.DrawText(fmt.Sprintf("%+.2f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawPalette draws one swatch per colour, wrapping at width.
func (r *Renderer) DrawPalette(x, y int32, label string, colors []color.RGBA, width int32) int32 {
	const swatch = int32(10)
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)

	sx := x + r.Theme.LabelWidth
	for _, c := range colors {
		if sx+swatch > x+width {
			sx = x + r.Theme.LabelWidth
			y += swatch + 2
		}
		rl.DrawRectangle(sx, y+1, swatch, swatch, c)
		sx += swatch + 2
	}
	return y + r.Theme.LineHeight
}
