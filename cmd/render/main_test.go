package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
screen:
  width: 48
  height: 48
physics:
  base_particles: 200
  base_grid_res: 32
parallel:
  workers: 2
`

func TestParseFlagsOmega(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantSet bool
		want    float64
	}{
		{"default", nil, false, 0},
		{"stationary rim", []string{"-omega", "0"}, true, 0},
		{"negative", []string{"-omega=-2.5"}, true, -2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseFlags(tt.args)
			if err != nil {
				t.Fatalf("parseFlags: %v", err)
			}
			if o.omegaSet != tt.wantSet || o.omega != tt.want {
				t.Errorf("omega = %v (set %v), want %v (set %v)", o.omega, o.omegaSet, tt.want, tt.wantSet)
			}
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-frames", "0"},
		{"-every", "-1"},
		{"-scale", "0"},
		{"-frames", "many"},
	} {
		if _, err := parseFlags(args); err == nil {
			t.Errorf("parseFlags(%q): expected error", args)
		}
	}
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunWritesLastFrame(t *testing.T) {
	out := filepath.Join(t.TempDir(), "last.png")
	o, err := parseFlags([]string{"-config", writeTestConfig(t), "-frames", "2", "-scale", "2", "-omega", "0", "-out", out})
	if err != nil {
		t.Fatal(err)
	}
	if err := run(o); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 96 {
		t.Errorf("output is %dx%d, want 96x96", b.Dx(), b.Dy())
	}
}

func TestRunWritesSequence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames") + "/"
	o, err := parseFlags([]string{"-config", writeTestConfig(t), "-frames", "4", "-every", "2", "-out", dir})
	if err != nil {
		t.Fatal(err)
	}
	if err := run(o); err != nil {
		t.Fatalf("run: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("wrote %d frames, want 2", len(entries))
	}
}

func TestRunBadConfig(t *testing.T) {
	o, err := parseFlags([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	if err != nil {
		t.Fatal(err)
	}
	if err := run(o); err == nil {
		t.Error("expected error for missing config")
	}
}
