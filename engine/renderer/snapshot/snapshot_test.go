package snapshot

import (
	"errors"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-carousel/common"
	"github.com/Carmen-Shannon/oxy-carousel/engine/carousel"
	"github.com/Carmen-Shannon/oxy-carousel/engine/items"
	"golang.org/x/image/webp"
)

type tile struct {
	name  string
	img   image.Image
	color color.RGBA
}

func (t *tile) Name() string       { return t.name }
func (t *tile) Image() image.Image { return t.img }
func (t *tile) Swatch() color.RGBA { return t.color }

var (
	red  = color.RGBA{R: 220, A: 255}
	blue = color.RGBA{B: 220, A: 255}
)

func newCarousel(t *testing.T, tiles ...items.Item) carousel.Carousel {
	t.Helper()
	seq, err := items.NewSequence(tiles...)
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	c, err := carousel.NewCarousel(seq,
		carousel.WithViewport(64, 36),
		carousel.WithLogger(log.New(io.Discard, "", 0)),
	)
	if err != nil {
		t.Fatalf("NewCarousel: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func swatches(n int) []items.Item {
	out := make([]items.Item, n)
	for i := range out {
		c := red
		if i%2 == 1 {
			c = blue
		}
		out[i] = &tile{name: string(rune('a' + i)), color: c}
	}
	return out
}

func TestRenderFramedSwatch(t *testing.T) {
	c := newCarousel(t, swatches(6)...)
	img, err := NewRenderer().Render(c)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(64, 36) {
		t.Fatalf("size = %v, want the carousel viewport", got)
	}
	if got := img.RGBAAt(32, 18); got != red {
		t.Fatalf("center pixel = %v, want the framed face's swatch %v", got, red)
	}
}

func TestRenderMapsImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				src.SetRGBA(x, y, red)
			} else {
				src.SetRGBA(x, y, blue)
			}
		}
	}
	c := newCarousel(t, &tile{name: "split", img: src, color: red}, &tile{name: "other", color: blue})

	img, err := NewRenderer(WithShading(false)).Render(c)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	left, right := img.RGBAAt(8, 18), img.RGBAAt(56, 18)
	if left.R <= left.B {
		t.Errorf("left pixel = %v, want red dominant", left)
	}
	if right.B <= right.R {
		t.Errorf("right pixel = %v, want blue dominant", right)
	}
}

func TestRenderCullsBackFaces(t *testing.T) {
	c := newCarousel(t, swatches(6)...)
	if !c.Next() {
		t.Fatalf("Next refused")
	}
	built := 0
	for _, ok := range c.Calculated() {
		if ok {
			built++
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, 64, 36))
	painted, err := NewRenderer().RenderTo(dst, c)
	if err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if painted < 1 || painted >= built {
		t.Fatalf("painted %d of %d built faces, want the far faces culled", painted, built)
	}
	if got := dst.RGBAAt(32, 18); got != blue {
		t.Fatalf("center pixel = %v, want face 1's swatch %v", got, blue)
	}
}

func TestRenderEmpty(t *testing.T) {
	bg := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	c := newCarousel(t)
	img, err := NewRenderer(WithBackground(bg), WithSize(10, 10)).Render(c)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := img.RGBAAt(5, 5); got != bg {
		t.Fatalf("pixel = %v, want background %v", got, bg)
	}
}

func TestWriteFile(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(1, 1, blue)
	dir := t.TempDir()

	webpPath := filepath.Join(dir, "frame.webp")
	if err := WriteFile(webpPath, img); err != nil {
		t.Fatalf("WriteFile webp: %v", err)
	}
	f, err := os.Open(webpPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	decoded, err := webp.Decode(f)
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	if decoded.Bounds().Size() != image.Pt(3, 2) {
		t.Fatalf("decoded size = %v", decoded.Bounds().Size())
	}

	if err := WriteFile(filepath.Join(dir, "frame.png"), img); err != nil {
		t.Fatalf("WriteFile png: %v", err)
	}
	if err := WriteFile(filepath.Join(dir, "frame.gif"), img); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("WriteFile gif error = %v, want ErrInvalidArgument", err)
	}
}

func TestSwatch(t *testing.T) {
	if got := Swatch(&tile{color: blue}, 0); got != blue {
		t.Errorf("Swatch of painted item = %v, want %v", got, blue)
	}
	if Swatch("plain", 0) == Swatch("plain", 1) {
		t.Errorf("fallback swatches should alternate")
	}
}
