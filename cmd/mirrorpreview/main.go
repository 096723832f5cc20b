// Mirror fan preview tool - interactive tuning of the mirror count and
// radius on a static bead pattern.
//
// Usage: go run ./cmd/mirrorpreview
package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/kaleido/canvas"
	"github.com/pthm-cable/kaleido/mirror"
	"github.com/pthm-cable/kaleido/mpm"
	"github.com/pthm-cable/kaleido/renderer"
	"github.com/pthm-cable/kaleido/sampler"
	"github.com/pthm-cable/kaleido/workers"
)

const (
	windowWidth  = 1100
	windowHeight = 760
	previewSize  = 512
	res          = 256
	particles    = 6000
	panelY       = previewSize + 30
)

// PreviewParams holds the mirror and cap parameters.
type PreviewParams struct {
	Mirrors        int
	RadiusFraction float32
	RimAngle       float32
}

func defaultParams() PreviewParams {
	return PreviewParams{Mirrors: 5, RadiusFraction: 0.15, RimAngle: 0}
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Mirror Fan Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	pool := workers.NewPool(0)
	defer pool.Stop()

	// Static object: the built-in pattern sampled once.
	field, _, err := sampler.Sample(sampler.Pattern(res), particles, rand.New(rand.NewSource(1)),
		sampler.Options{Material: mpm.Jelly, Lo: 0.05, Hi: 0.95})
	if err != nil {
		panic(err)
	}

	comp := canvas.NewCompositor(res, canvas.DefaultCapOptions(), pool)
	objView := renderer.NewFrameRenderer(res, res)
	imgView := renderer.NewFrameRenderer(res, res)
	objView.Init()
	imgView.Init()
	defer objView.Unload()
	defer imgView.Unload()

	params := defaultParams()
	var polygon *mirror.Polygon
	var lookup *mirror.Lookup
	var buildTime time.Duration

	rebuild := func() {
		center := r2.Vec{X: res / 2, Y: res / 2}
		p, err := mirror.NewPolygon(center, params.Mirrors, float64(params.RadiusFraction)*res)
		if err != nil {
			return
		}
		start := time.Now()
		polygon = p
		lookup = mirror.BuildLookup(pool, polygon, res, res)
		buildTime = time.Since(start)
	}
	redraw := func() {
		comp.DrawObject(field, float64(params.RimAngle))
		comp.Resolve(lookup)
	}

	rebuild()
	redraw()
	spinning := false

	for !rl.WindowShouldClose() {
		if spinning {
			params.RimAngle = float32(math.Mod(float64(params.RimAngle+rl.GetFrameTime()), 2*math.Pi))
			redraw()
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		objRect := rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize}
		imgRect := rl.Rectangle{X: previewSize + 20, Y: 10, Width: previewSize, Height: previewSize}
		objView.Draw(comp.Object(), objRect)
		renderer.DrawMirrors(polygon, res, objRect, 1.5, rl.Black)
		imgView.Draw(comp.Image(), imgRect)
		rl.DrawRectangleLinesEx(objRect, 1, rl.DarkGray)
		rl.DrawRectangleLinesEx(imgRect, 1, rl.DarkGray)

		// Control panel
		x := float32(10)
		y := float32(panelY)
		sliderWidth := float32(previewSize - 90)

		rl.DrawText("Mirrors", int32(x), int32(y), 14, rl.Gray)
		y += 18
		newMirrors := gui.SliderBar(
			rl.Rectangle{X: x + 30, Y: y, Width: sliderWidth, Height: 20},
			"2", "12",
			float32(params.Mirrors), 2, 12,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Mirrors), int32(x+sliderWidth+70), int32(y+2), 16, rl.DarkGray)
		if int(newMirrors) != params.Mirrors {
			params.Mirrors = int(newMirrors)
			rebuild()
			redraw()
		}
		y += 35

		rl.DrawText("Radius (fraction of the frame)", int32(x), int32(y), 14, rl.Gray)
		y += 18
		newRadius := gui.SliderBar(
			rl.Rectangle{X: x + 30, Y: y, Width: sliderWidth, Height: 20},
			"0.05", "0.5",
			params.RadiusFraction, 0.05, 0.5,
		)
		rl.DrawText(fmt.Sprintf("%.3f", params.RadiusFraction), int32(x+sliderWidth+70), int32(y+2), 16, rl.DarkGray)
		if newRadius != params.RadiusFraction {
			params.RadiusFraction = newRadius
			rebuild()
			redraw()
		}
		y += 35

		rl.DrawText("Rim angle", int32(x), int32(y), 14, rl.Gray)
		y += 18
		newAngle := gui.SliderBar(
			rl.Rectangle{X: x + 30, Y: y, Width: sliderWidth, Height: 20},
			"0", "2pi",
			params.RimAngle, 0, 2*math.Pi,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.RimAngle), int32(x+sliderWidth+70), int32(y+2), 16, rl.DarkGray)
		if newAngle != params.RimAngle {
			params.RimAngle = newAngle
			redraw()
		}
		y += 45

		if gui.Button(rl.Rectangle{X: x, Y: y, Width: 120, Height: 30}, toggleText(spinning, "Stop", "Spin")) {
			spinning = !spinning
		}
		if gui.Button(rl.Rectangle{X: x + 130, Y: y, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			rebuild()
			redraw()
		}

		// Stats and config snippet
		sx := int32(previewSize + 20)
		sy := int32(panelY)
		rl.DrawText(fmt.Sprintf("Lookup: %dx%d in %s", res, res, buildTime.Round(time.Millisecond)), sx, sy, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Deepest path: %d reflections", lookup.MaxReflections), sx, sy+20, 16, rl.DarkGray)
		capCol := rl.DarkGray
		if lookup.Capped > 0 {
			capCol = rl.Red
		}
		rl.DrawText(fmt.Sprintf("Capped traces: %d", lookup.Capped), sx, sy+40, 16, capCol)

		sy += 75
		rl.DrawText("YAML Config:", sx, sy, 16, rl.DarkGray)
		sy += 25
		yamlLines := []string{
			"scope:",
			fmt.Sprintf("  mirrors: %d", params.Mirrors),
			fmt.Sprintf("  radius_fraction: %.3f", params.RadiusFraction),
		}
		for _, line := range yamlLines {
			rl.DrawText(line, sx, sy, 14, rl.Gray)
			sy += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", sx, int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(fmt.Sprintf("scope:\n  mirrors: %d\n  radius_fraction: %.3f",
				params.Mirrors, params.RadiusFraction))
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
