package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/kaleido/mirror"
)

// DrawMirrors outlines the mirror fan over a frame drawn into dst. res is the
// frame side in pixels; mirror coordinates have y up.
func DrawMirrors(p *mirror.Polygon, res int, dst rl.Rectangle, thick float32, col rl.Color) {
	sx := dst.Width / float32(res)
	sy := dst.Height / float32(res)
	toScreen := func(x, y float64) rl.Vector2 {
		return rl.Vector2{
			X: dst.X + float32(x)*sx,
			Y: dst.Y + (float32(res)-float32(y))*sy,
		}
	}

	for k := 0; k < p.Len(); k++ {
		a, b := p.Mirror(k)
		rl.DrawLineEx(toScreen(a.X, a.Y), toScreen(b.X, b.Y), thick, col)
	}
}
