// Package renderer uploads frame buffers to raylib textures and draws the
// mirror overlay.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kaleido/canvas"
)

// FrameRenderer streams a canvas.Frame into a GPU texture every frame.
type FrameRenderer struct {
	texture     rl.Texture2D
	pixels      []color.RGBA
	w, h        int32
	initialized bool
}

// NewFrameRenderer creates a renderer for w x h frames.
func NewFrameRenderer(w, h int32) *FrameRenderer {
	return &FrameRenderer{w: w, h: h}
}

// Init allocates the texture (must be called after the raylib window is created).
func (r *FrameRenderer) Init() {
	if r.initialized {
		return
	}
	img := rl.GenImageColor(int(r.w), int(r.h), rl.Black)
	r.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	r.initialized = true
}

// Draw uploads f and stretches it over dst.
func (r *FrameRenderer) Draw(f *canvas.Frame, dst rl.Rectangle) {
	if !r.initialized {
		r.Init()
	}
	if int32(f.W) != r.w || int32(f.H) != r.h {
		return
	}

	r.pixels = f.RGBA(r.pixels)
	rl.UpdateTexture(r.texture, r.pixels)
	rl.DrawTexturePro(
		r.texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(r.w), Height: float32(r.h)},
		dst,
		rl.Vector2{X: 0, Y: 0},
		0,
		rl.White,
	)
}

// Unload frees resources.
func (r *FrameRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.texture)
		r.initialized = false
	}
}
