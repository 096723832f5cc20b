// Package canvas rasterizes the particle field into the object-space
// buffer and resolves the kaleidoscope image from it.
package canvas

import (
	"image"
	"image/color"
)

// RGB is a linear colour with channels in [0, 1].
type RGB = [3]float64

// Frame is a W x H colour buffer with row 0 at the bottom.
type Frame struct {
	W, H int
	Pix  []RGB // row-major, len = W*H
}

// NewFrame allocates a black frame.
func NewFrame(w, h int) *Frame {
	return &Frame{W: w, H: h, Pix: make([]RGB, w*h)}
}

// At returns the colour at (x, y).
func (f *Frame) At(x, y int) RGB { return f.Pix[y*f.W+x] }

// Set stores the colour at (x, y).
func (f *Frame) Set(x, y int, c RGB) { f.Pix[y*f.W+x] = c }

// Fill sets every pixel to c.
func (f *Frame) Fill(c RGB) {
	for i := range f.Pix {
		f.Pix[i] = c
	}
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// PixelRGBA converts one frame colour to 8-bit opaque RGBA.
func PixelRGBA(c RGB) color.RGBA {
	return color.RGBA{R: to8(c[0]), G: to8(c[1]), B: to8(c[2]), A: 0xff}
}

// RGBA writes the frame top row first into dst, reusing its storage.
// The result is laid out for texture upload and image encoding.
func (f *Frame) RGBA(dst []color.RGBA) []color.RGBA {
	if cap(dst) < len(f.Pix) {
		dst = make([]color.RGBA, len(f.Pix))
	}
	dst = dst[:len(f.Pix)]
	for y := 0; y < f.H; y++ {
		src := f.Pix[y*f.W : (y+1)*f.W]
		row := dst[(f.H-1-y)*f.W:]
		for x, c := range src {
			row[x] = PixelRGBA(c)
		}
	}
	return dst
}

// ToImage converts the frame to an 8-bit image with the usual y-down rows.
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			img.SetRGBA(x, f.H-1-y, PixelRGBA(f.At(x, y)))
		}
	}
	return img
}
