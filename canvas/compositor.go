package canvas

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/kaleido/mirror"
	"github.com/pthm-cable/kaleido/mpm"
	"github.com/pthm-cable/kaleido/workers"
)

// Background shades.
var (
	capColor  = RGB{1, 1, 1}
	tickColor = RGB{0.2, 0.2, 0.2}
	skyColor  = RGB{0.6, 0.6, 0.6}
)

const (
	splatRadius = 5
	splatEps    = 1e-3
)

// CapOptions places the cap (the rim seen from the eye) in the object buffer.
type CapOptions struct {
	Shift     r2.Vec  // cap centre offset in units of the resolution
	RimBand   float64 // width in pixels of the tick band outside the cap
	TickAngle float64 // angular width of one tick
}

// DefaultCapOptions is the standard cap placement.
func DefaultCapOptions() CapOptions {
	return CapOptions{
		Shift:     r2.Vec{X: 0, Y: 1.0 / 3},
		RimBand:   10,
		TickAngle: math.Pi / 30,
	}
}

type splatTap struct {
	dx, dy int
	weight float64
}

// Compositor owns the object and image buffers for a res x res display.
type Compositor struct {
	res  int
	opts CapOptions
	pool *workers.Pool

	capCenter r2.Vec
	capRadius float64
	taps      []splatTap

	object *Frame
	image  *Frame
}

// NewCompositor allocates both buffers. pool may be nil.
func NewCompositor(res int, opts CapOptions, pool *workers.Pool) *Compositor {
	c := &Compositor{
		res:       res,
		opts:      opts,
		pool:      pool,
		capCenter: r2.Scale(float64(res), r2.Add(r2.Vec{X: 0.5, Y: 0.5}, opts.Shift)),
		capRadius: float64(res) / 2,
		object:    NewFrame(res, res),
		image:     NewFrame(res, res),
	}
	for i := -splatRadius; i <= splatRadius; i++ {
		for j := -splatRadius; j <= splatRadius; j++ {
			d := math.Sqrt(float64(i*i+j*j) + splatEps)
			if d < splatRadius {
				c.taps = append(c.taps, splatTap{dx: i, dy: j, weight: 1 / (d + 1)})
			}
		}
	}
	return c
}

// Object returns the object-space buffer.
func (c *Compositor) Object() *Frame { return c.object }

// Image returns the resolved kaleidoscope buffer.
func (c *Compositor) Image() *Frame { return c.image }

// Res returns the buffer resolution.
func (c *Compositor) Res() int { return c.res }

// DrawObject paints the background for the given rim angle and splats every
// particle over it. Particles blend in index order.
func (c *Compositor) DrawObject(field *mpm.ParticleField, rimAngle float64) {
	c.drawBackground(rimAngle)
	c.splat(field)
}

// background returns the colour of object pixel (x, y).
func (c *Compositor) background(x, y int, dir r2.Vec) RGB {
	dpos := r2.Sub(r2.Vec{X: float64(x), Y: float64(y)}, c.capCenter)
	r := r2.Norm(dpos)
	if r < c.capRadius {
		return capColor
	}
	cos := math.Max(-1, math.Min(1, r2.Dot(dpos, dir)/r))
	theta := math.Acos(cos)
	tick := int((theta+c.opts.TickAngle/2)/c.opts.TickAngle) % 2
	if r-c.capRadius < c.opts.RimBand && tick == 0 {
		return tickColor
	}
	return skyColor
}

func (c *Compositor) drawBackground(rimAngle float64) {
	sn, cs := math.Sincos(rimAngle)
	dir := r2.Vec{X: cs, Y: sn}
	f := c.object
	c.pool.Run(f.H, func(_, start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < f.W; x++ {
				f.Set(x, y, c.background(x, y, dir))
			}
		}
	})
}

func (c *Compositor) splat(field *mpm.ParticleField) {
	f := c.object
	res := float64(c.res)
	offX, offY := res*c.opts.Shift.X, res*c.opts.Shift.Y
	for p, pos := range field.Pos {
		col := field.Color[p]
		for _, tap := range c.taps {
			x := int(pos.X*res + float64(tap.dx) + offX)
			y := int(pos.Y*res + float64(tap.dy) + offY)
			if x <= 0 || x >= c.res || y <= 0 || y >= c.res {
				continue
			}
			k := y*f.W + x
			w := tap.weight
			pix := f.Pix[k]
			f.Pix[k] = RGB{
				col[0]*w + pix[0]*(1-w),
				col[1]*w + pix[1]*(1-w),
				col[2]*w + pix[2]*(1-w),
			}
		}
	}
}

// Resolve fills the image buffer from the object buffer through lookup.
func (c *Compositor) Resolve(lookup *mirror.Lookup) {
	src, dst := c.object.Pix, c.image.Pix
	w := c.image.W
	c.pool.Run(c.image.H, func(_, start, end int) {
		for k := start * w; k < end*w; k++ {
			dst[k] = src[lookup.Index[k]]
		}
	})
}
