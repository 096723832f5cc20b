// Package main renders kaleidoscope frames headless and writes them as an
// animated WebP or a numbered PNG sequence.
//
// Usage: go run ./cmd/render -frames 300 -every 2 -out kaleido.webp
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pthm-cable/kaleido/canvas"
	"github.com/pthm-cable/kaleido/config"
	"github.com/pthm-cable/kaleido/game"
)

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

// options are the parsed command line.
type options struct {
	configPath string
	imagePath  string
	seed       int64
	frames     int
	every      int
	scale      float64
	out        string
	object     bool
	omega      float64
	omegaSet   bool // -omega given explicitly; 0 is a valid stationary rim
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "Config YAML file (empty = use defaults)")
	fs.StringVar(&o.imagePath, "image", "", "Source image (empty = use config, then the built-in pattern)")
	fs.Int64Var(&o.seed, "seed", 1, "RNG seed for particle sampling")
	fs.IntVar(&o.frames, "frames", 150, "Number of frames to simulate")
	fs.IntVar(&o.every, "every", 1, "Capture every Nth frame")
	fs.Float64Var(&o.scale, "scale", 1, "Output scale factor")
	fs.StringVar(&o.out, "out", "kaleido.webp", "Output: .webp for an animation, .png for the last frame, a directory (trailing /) for a PNG sequence")
	fs.BoolVar(&o.object, "object", false, "Capture the object view instead of the kaleidoscope")
	fs.Float64Var(&o.omega, "omega", 0, "Rim speed (default from config)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "omega" {
			o.omegaSet = true
		}
	})

	if o.frames <= 0 || o.every <= 0 || o.scale <= 0 {
		return o, errors.New("-frames, -every and -scale must be positive")
	}
	return o, nil
}

func run(o options) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:       o.seed,
		ImagePath:  o.imagePath,
		ShowObject: o.object,
		Config:     cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer g.Unload()

	if o.omegaSet {
		g.SetOmega(o.omega)
	}

	// Captured frames play back at the display rate the simulation is tuned for.
	delay := time.Duration(o.every) * time.Second / time.Duration(max(cfg.Screen.TargetFPS, 1))
	sink, err := newSink(o.out, delay)
	if err != nil {
		return err
	}

	start := time.Now()
	for g.Frame() < int32(o.frames) {
		g.UpdateHeadless()
		if int(g.Frame())%o.every != 0 {
			continue
		}
		img := canvas.Scale(g.DisplayFrame().ToImage(), o.scale)
		if err := sink.add(img); err != nil {
			return err
		}
	}
	if err := sink.close(); err != nil {
		return err
	}

	perf := g.PerfStats()
	fmt.Printf("rendered %d frames (%.3fs simulated, omega %.2f) in %s, %.1f frames/s, wrote %s\n",
		g.Frame(), g.SimTime(), g.Omega(), time.Since(start).Round(time.Millisecond), perf.FramesPerSecond, o.out)
	return nil
}

// sink collects captured frames for one output kind.
type sink struct {
	path   string
	kind   string // "webp", "png" or "dir"
	delay  time.Duration
	frames []image.Image
	count  int
}

func newSink(path string, delay time.Duration) (*sink, error) {
	s := &sink{path: path, delay: delay}
	switch {
	case strings.HasSuffix(path, "/") || isDir(path):
		s.kind = "dir"
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	case strings.EqualFold(filepath.Ext(path), ".webp"):
		s.kind = "webp"
	case strings.EqualFold(filepath.Ext(path), ".png"):
		s.kind = "png"
	default:
		return nil, fmt.Errorf("unsupported output %q: use .webp, .png or a directory", path)
	}
	return s, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (s *sink) add(img image.Image) error {
	s.count++
	switch s.kind {
	case "dir":
		return writeFile(filepath.Join(s.path, fmt.Sprintf("frame_%05d.png", s.count)), func(f *os.File) error {
			return canvas.EncodePNG(f, img)
		})
	case "png":
		s.frames = []image.Image{img}
	default:
		s.frames = append(s.frames, img)
	}
	return nil
}

func (s *sink) close() error {
	switch s.kind {
	case "webp":
		return writeFile(s.path, func(f *os.File) error {
			return canvas.EncodeAnimation(f, s.frames, s.delay)
		})
	case "png":
		if len(s.frames) == 0 {
			return canvas.ErrNoFrames
		}
		return writeFile(s.path, func(f *os.File) error {
			return canvas.EncodePNG(f, s.frames[0])
		})
	}
	return nil
}

func writeFile(path string, encode func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
