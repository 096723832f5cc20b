// Package sampler turns a source image into the initial particle field by
// rejection sampling its non-white pixels.
package sampler

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"

	_ "github.com/HugoSmits86/nativewebp"
	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/kaleido/mpm"
)

// Sampling errors.
var (
	ErrInvalidCount                    = errors.New("sampler: particle count must be positive")
	ErrInsufficientNonBackgroundPixels = errors.New("sampler: insufficient non-background pixels")
)

// DefaultMaxAttempts bounds the consecutive rejections allowed per particle.
const DefaultMaxAttempts = 10000

// background is the colour that is never sampled.
var background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Options controls Sample.
type Options struct {
	MaxAttempts int          // consecutive rejections before giving up; <= 0 uses DefaultMaxAttempts
	Material    mpm.Material // material assigned to every particle
	Lo, Hi      float64      // positions are drawn in [Lo, Hi)²; Hi <= Lo means [0, 1)²
}

// Load decodes an image file. PNG, JPEG, GIF, BMP, WebP and TGA are supported.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sampler: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("sampler: decode %s: %w", path, err)
	}
	return img, nil
}

// roi is the bottom-left anchored square of an image, addressed with y up.
type roi struct {
	img  image.Image
	side int
}

func newROI(img image.Image) roi {
	b := img.Bounds()
	return roi{img: img, side: min(b.Dx(), b.Dy())}
}

// at returns the 8-bit colour at (x, y), y counted up from the bottom edge.
// Fully transparent pixels read as background.
func (r roi) at(x, y int) color.RGBA {
	b := r.img.Bounds()
	c := color.NRGBAModel.Convert(r.img.At(b.Min.X+x, b.Max.Y-1-y)).(color.NRGBA)
	if c.A == 0 {
		return background
	}
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// hasForeground reports whether any pixel of the square can be sampled.
func (r roi) hasForeground() bool {
	for y := 0; y < r.side; y++ {
		for x := 0; x < r.side; x++ {
			if r.at(x, y) != background {
				return true
			}
		}
	}
	return false
}

// Sample draws n particles. Each draw picks a uniform point of the position
// square, maps it onto the image square and accepts it when the pixel is not
// pure white. The returned palette lists the accepted colours in the order
// they were first seen; ParticleField.Palette indexes into it.
func Sample(img image.Image, n int, rng *rand.Rand, opts Options) (*mpm.ParticleField, []color.RGBA, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	lo, hi := opts.Lo, opts.Hi
	if hi <= lo {
		lo, hi = 0, 1
	}

	r := newROI(img)
	if r.side == 0 || !r.hasForeground() {
		return nil, nil, fmt.Errorf("%w: no non-white pixel in the %dx%d sampling square",
			ErrInsufficientNonBackgroundPixels, r.side, r.side)
	}

	field := mpm.NewParticleField(n)
	var palette []color.RGBA
	seen := make(map[color.RGBA]int)

	for p := 0; p < n; p++ {
		accepted := false
		for try := 0; try < attempts; try++ {
			u, v := rng.Float64(), rng.Float64()
			c := r.at(int(u*float64(r.side)), int(v*float64(r.side)))
			if c == background {
				continue
			}

			idx, ok := seen[c]
			if !ok {
				idx = len(palette)
				seen[c] = idx
				palette = append(palette, c)
			}
			field.Pos[p] = r2.Vec{X: lo + u*(hi-lo), Y: lo + v*(hi-lo)}
			field.Material[p] = opts.Material
			field.Color[p] = [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
			field.Palette[p] = idx
			accepted = true
			break
		}
		if !accepted {
			return nil, nil, fmt.Errorf("%w: particle %d of %d rejected %d consecutive draws",
				ErrInsufficientNonBackgroundPixels, p, n, attempts)
		}
	}
	return field, palette, nil
}
