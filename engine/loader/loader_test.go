package loader

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sunset.png")
	red := color.RGBA{R: 200, G: 10, B: 10, A: 255}
	writePNG(t, path, 40, 20, red)

	l := NewLoader()
	item, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if item.Name() != "sunset" {
		t.Errorf("Name = %q, want sunset", item.Name())
	}
	if item.Swatch() != red {
		t.Errorf("Swatch = %v, want %v", item.Swatch(), red)
	}
	if got := item.Image().Bounds().Size(); got != image.Pt(40, 20) {
		t.Errorf("image size = %v, want 40x20", got)
	}

	again, err := l.Load(path)
	if err != nil || again != item {
		t.Fatalf("second Load = %p, %v; want cached %p", again, err, item)
	}
	if l.Get(path) != item {
		t.Fatalf("Get did not return the cached item")
	}
}

func TestLoadDownscales(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wide.png")
	writePNG(t, path, 300, 100, color.RGBA{G: 255, A: 255})

	item, err := NewLoader(WithMaxDimension(60)).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := item.Image().Bounds().Size(); got != image.Pt(60, 20) {
		t.Fatalf("image size = %v, want 60x20", got)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.png", "a.png", "b.png"} {
		writePNG(t, filepath.Join(dir, name), 8, 8, color.RGBA{B: 255, A: 255})
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewLoader(WithWorkers(2)).LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("loaded %d items, want %d", len(got), len(want))
	}
	for i, item := range got {
		if item.Name() != want[i] {
			t.Errorf("item %d = %q, want %q", i, item.Name(), want[i])
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"unsupported extension", filepath.Join(dir, "model.gltf")},
		{"missing file", filepath.Join(dir, "missing.png")},
		{"corrupt image", bad},
	}
	l := NewLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.Load(tt.path); err == nil {
				t.Fatalf("Load(%s) succeeded, want error", tt.path)
			}
		})
	}

	if _, err := l.LoadDir(dir); err == nil {
		t.Fatalf("LoadDir with a corrupt image succeeded, want error")
	}
}

func TestExtensions(t *testing.T) {
	l := NewLoader(WithExtensions(".JPG"))
	if !l.Supported("photo.jpg") {
		t.Errorf("photo.jpg should be supported")
	}
	if l.Supported("photo.png") {
		t.Errorf("photo.png should be filtered out")
	}
}

func TestPalette(t *testing.T) {
	colors := Palette(6)
	seen := map[color.RGBA]bool{}
	for _, c := range colors {
		if c.A != 255 {
			t.Errorf("color %v is not opaque", c)
		}
		seen[c] = true
	}
	if len(seen) != 6 {
		t.Fatalf("palette has %d distinct colors, want 6", len(seen))
	}
	item := NewSwatchItem("red", colors[0])
	if item.Image() != nil || item.Path() != "" || item.Swatch() != colors[0] {
		t.Fatalf("unexpected swatch item %+v", item)
	}
}
