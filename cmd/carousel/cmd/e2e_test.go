package cmd

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-carousel/internal/config"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	verbose = false
	configPath = ""
	flags = config.Flags{}
	simStepMs = 16
	simFrames = false
	simTrace = false
	snapOutput = "carousel.png"
	snapAtMs = -1
	snapShading = true

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestPlanE2E(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name: "backward is shorter",
			args: []string{"plan", "0", "4", "--items", "6"},
			wantContain: []string{
				"direction: backward",
				"steps:     2",
				"angle:     -120.00°",
				"path:      5 4",
				"timeline:  1.2s",
			},
		},
		{
			name:        "ties go forward",
			args:        []string{"plan", "0", "3", "-n", "6"},
			wantContain: []string{"direction: forward", "steps:     3"},
		},
		{
			name:        "same face",
			args:        []string{"plan", "2", "2", "-n", "6"},
			wantContain: []string{"nothing to do"},
		},
		{
			name:    "target out of range",
			args:    []string{"plan", "0", "9", "-n", "6"},
			wantErr: true,
		},
		{
			name:    "not a number",
			args:    []string{"plan", "zero", "1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v\n%s", err, tt.wantErr, out)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestSimulateE2E(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "two steps forward",
			args:        []string{"simulate", "-n", "4", "next", "next"},
			wantContain: []string{"face 0/4 swatch 1", "face 2/4 swatch 3"},
		},
		{
			name:        "goto and back",
			args:        []string{"simulate", "-n", "6", "goto:4", "prev"},
			wantContain: []string{"face 4/6", "face 3/6"},
		},
		{
			name:        "by name with trace",
			args:        []string{"simulate", "-n", "5", "--trace", "name:swatch 2"},
			wantContain: []string{"face 1/5 swatch 2", "trace:"},
		},
		{
			name:        "single item does not rotate",
			args:        []string{"simulate", "-n", "1", "next"},
			wantContain: []string{"next (no rotation)", "fwd=false back=false"},
		},
		{
			name:    "unknown move",
			args:    []string{"simulate", "sideways"},
			wantErr: true,
		},
		{
			name:    "goto past the end",
			args:    []string{"simulate", "-n", "3", "goto:7"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v\n%s", err, tt.wantErr, out)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestSnapshotE2E(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.png")

	out, err := execute(t, "snapshot", "-n", "5", "--width", "160", "--height", "90", "-O", path, "next")
	if err != nil {
		t.Fatalf("snapshot: %v\n%s", err, out)
	}
	if !strings.Contains(out, "face 1/5 swatch 2") {
		t.Errorf("unexpected output: %s", out)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 90 {
		t.Fatalf("size = %v, want 160x90", b)
	}

	if _, err := execute(t, "snapshot", "-O", filepath.Join(dir, "frame.gif")); err == nil {
		t.Fatal("expected an error for an unsupported output format")
	}
}
