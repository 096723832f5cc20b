package sampler

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/pthm-cable/kaleido/geom"
	"github.com/pthm-cable/kaleido/mpm"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
	black = color.RGBA{A: 0xff}
)

func filled(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func fillRect(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func TestSampleInvalidCount(t *testing.T) {
	img := filled(10, 10, black)
	for _, n := range []int{0, -5} {
		_, _, err := Sample(img, n, rand.New(rand.NewSource(1)), Options{})
		assert.ErrorIs(t, err, ErrInvalidCount)
	}
}

func TestSampleRejectsBackgroundOnlySquare(t *testing.T) {
	wide := filled(200, 100, color.White)
	fillRect(wide, image.Rect(100, 0, 200, 100), black)

	tall := filled(100, 200, color.White)
	fillRect(tall, image.Rect(0, 0, 100, 100), black)

	transparent := image.NewNRGBA(image.Rect(0, 0, 50, 50))

	tests := []struct {
		name string
		img  image.Image
	}{
		{"all white", filled(64, 64, color.White)},
		{"foreground right of square", wide},
		{"foreground above square", tall},
		{"fully transparent", transparent},
		{"empty", image.NewRGBA(image.Rectangle{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Sample(tt.img, 10, rand.New(rand.NewSource(1)), Options{})
			assert.ErrorIs(t, err, ErrInsufficientNonBackgroundPixels)
		})
	}
}

func TestSampleBoundedAttempts(t *testing.T) {
	img := filled(100, 100, color.White)
	img.Set(10, 10, black)

	_, _, err := Sample(img, 50, rand.New(rand.NewSource(3)), Options{MaxAttempts: 3})
	assert.ErrorIs(t, err, ErrInsufficientNonBackgroundPixels)
}

func TestSampleColorsAndOrientation(t *testing.T) {
	// Top half red, bottom half blue in image coordinates.
	img := filled(100, 100, blue)
	fillRect(img, image.Rect(0, 0, 100, 50), red)

	const lo, hi = 0.1, 0.9
	field, palette, err := Sample(img, 500, rand.New(rand.NewSource(42)), Options{
		Material: mpm.Snow,
		Lo:       lo,
		Hi:       hi,
	})
	require.NoError(t, err)
	require.Equal(t, 500, field.Len())
	require.Len(t, palette, 2)

	assert.Equal(t, 0, field.Palette[0], "palette is in first-seen order")

	for i := 0; i < field.Len(); i++ {
		p := field.Pos[i]
		assert.GreaterOrEqual(t, p.X, lo)
		assert.Less(t, p.X, hi)
		assert.GreaterOrEqual(t, p.Y, lo)
		assert.Less(t, p.Y, hi)

		want := blue
		if (p.Y-lo)/(hi-lo) >= 0.5 {
			want = red
		}
		got := palette[field.Palette[i]]
		assert.Equal(t, want, got, "particle %d at %v", i, p)
		assert.Equal(t, [3]float64{float64(want.R) / 255, 0, float64(want.B) / 255}, field.Color[i])

		assert.Equal(t, mpm.Snow, field.Material[i])
		assert.Equal(t, geom.Identity(), field.F[i])
		assert.Equal(t, 1.0, field.Jp[i])
	}
}

func TestSampleDeterministic(t *testing.T) {
	img := filled(64, 64, color.White)
	fillRect(img, image.Rect(8, 8, 56, 56), black)
	fillRect(img, image.Rect(20, 20, 40, 40), red)

	a, pa, err := Sample(img, 300, rand.New(rand.NewSource(9)), Options{})
	require.NoError(t, err)
	b, pb, err := Sample(img, 300, rand.New(rand.NewSource(9)), Options{})
	require.NoError(t, err)

	assert.Equal(t, a.Pos, b.Pos)
	assert.Equal(t, a.Palette, b.Palette)
	assert.Equal(t, pa, pb)
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	img := filled(16, 16, color.White)
	fillRect(img, image.Rect(0, 8, 8, 16), red)

	encoders := map[string]func(f *os.File) error{
		"src.png":  func(f *os.File) error { return png.Encode(f, img) },
		"src.bmp":  func(f *os.File) error { return bmp.Encode(f, img) },
		"src.webp": func(f *os.File) error { return nativewebp.Encode(f, img, nil) },
	}
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			f, err := os.Create(path)
			require.NoError(t, err)
			require.NoError(t, enc(f))
			require.NoError(t, f.Close())

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 16, 16), got.Bounds())

			r := newROI(got)
			assert.Equal(t, red, r.at(0, 0), "bottom-left pixel")
			assert.Equal(t, background, r.at(15, 15), "top-right pixel")
		})
	}

	_, err := Load(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestPatternIsSampleable(t *testing.T) {
	img := Pattern(128)
	require.Equal(t, image.Rect(0, 0, 128, 128), img.Bounds())

	field, palette, err := Sample(img, 500, rand.New(rand.NewSource(3)), Options{Lo: 0.05, Hi: 0.95})
	require.NoError(t, err)
	assert.Equal(t, 500, field.Len())
	assert.NotEmpty(t, palette)
	for _, c := range palette {
		assert.Contains(t, patternColors, c)
	}

	// Beads fan across the lower half-disc; with y up they stay near or below the middle.
	for i, p := range field.Pos {
		assert.Less(t, p.Y, 0.55, "particle %d", i)
	}
}
