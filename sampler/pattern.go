package sampler

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// patternColors are the bead colours of the built-in pattern.
var patternColors = []color.RGBA{
	{R: 0xe6, G: 0x39, B: 0x46, A: 0xff},
	{R: 0xf4, G: 0xa2, B: 0x61, A: 0xff},
	{R: 0x2a, G: 0x9d, B: 0x8f, A: 0xff},
	{R: 0x26, G: 0x46, B: 0x53, A: 0xff},
	{R: 0x8e, G: 0x44, B: 0xad, A: 0xff},
}

// Pattern renders the source image used when no file is configured: a
// white square with rings of coloured beads in the lower half, where the
// material settles against the rim.
func Pattern(side int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	s := float64(side)
	beadR := 0.045 * s
	k := 0
	for ring, radius := range []float64{0.12, 0.22, 0.32} {
		count := 6 + 4*ring
		for i := 0; i < count; i++ {
			// Beads fan across the lower half-disc around the centre.
			angle := math.Pi + math.Pi*(float64(i)+0.5)/float64(count)
			cx := 0.5*s + radius*s*math.Cos(angle)
			cy := 0.5*s - radius*s*math.Sin(angle)
			fillDisc(img, cx, cy, beadR, patternColors[k%len(patternColors)])
			k++
		}
	}
	return img
}

// fillDisc paints a disc in image coordinates (y down).
func fillDisc(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	b := img.Bounds()
	x0 := max(b.Min.X, int(math.Floor(cx-r)))
	x1 := min(b.Max.X, int(math.Ceil(cx+r))+1)
	y0 := max(b.Min.Y, int(math.Floor(cy-r)))
	y1 := min(b.Max.Y, int(math.Ceil(cy+r))+1)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
}
