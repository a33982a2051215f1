// Package snapshot rasterizes a carousel frame on the CPU. Faces are projected through the carousel
// camera, culled when they face away, sorted back to front and painted with their item's image or
// swatch color.
package snapshot

import (
	"cmp"
	"image"
	"image/color"
	"image/draw"
	"math"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-carousel/common"
	"github.com/Carmen-Shannon/oxy-carousel/engine/carousel"
	"github.com/Carmen-Shannon/oxy-carousel/engine/items"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// Painted is implemented by items that carry their own paint. Image may return nil, in which case
// the swatch color fills the face.
type Painted interface {
	Image() image.Image
	Swatch() color.RGBA
}

// minShade keeps faces seen edge-on from going fully black.
const minShade = 0.35

type renderer struct {
	mu *sync.Mutex

	width      int
	height     int
	background color.RGBA
	shading    bool
	fallback   func(index int) color.RGBA
}

// Renderer draws carousel frames into RGBA images.
type Renderer interface {
	// Render draws the carousel as seen by its camera. The image size is the renderer's fixed size
	// when one was configured, otherwise the carousel viewport.
	//
	// Parameters:
	//   - c: the carousel to draw
	//
	// Returns:
	//   - *image.RGBA: the frame
	//   - error: an error if the pending viewport reset fails
	Render(c carousel.Carousel) (*image.RGBA, error)

	// RenderTo draws the carousel into dst, scaling the projection to dst's bounds.
	//
	// Parameters:
	//   - dst: the target image, cleared to the background first
	//   - c: the carousel to draw
	//
	// Returns:
	//   - int: the number of faces painted
	//   - error: an error if the pending viewport reset fails
	RenderTo(dst *image.RGBA, c carousel.Carousel) (int, error)
}

var _ Renderer = &renderer{}

// NewRenderer creates a snapshot Renderer.
//
// Parameters:
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:         &sync.Mutex{},
		background: color.RGBA{R: 0x12, G: 0x12, B: 0x16, A: 0xff},
		shading:    true,
		fallback:   grayFallback,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *renderer) Render(c carousel.Carousel) (*image.RGBA, error) {
	w, h := r.width, r.height
	if w <= 0 || h <= 0 {
		w, h = c.Viewport()
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if _, err := r.RenderTo(dst, c); err != nil {
		return nil, err
	}
	return dst, nil
}

// projectedFace is a face ready to paint: screen corners in mesh order and its distance to the camera.
type projectedFace struct {
	view    carousel.FaceView
	corners [4]f64.Vec2
	depth   float64
	shade   float64
}

func (r *renderer) RenderTo(dst *image.RGBA, c carousel.Carousel) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := c.Prepare(); err != nil {
		return 0, err
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)

	faces := r.project(dst.Bounds(), c)
	for _, f := range faces {
		r.paint(dst, f)
	}
	return len(faces), nil
}

// project returns the visible built faces sorted far to near.
func (r *renderer) project(bounds image.Rectangle, c carousel.Carousel) []projectedFace {
	cam := c.Camera()
	mesh := c.Mesh()
	pose := cam.Pose()
	vp := cam.ViewProjectionMatrix()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())

	var out []projectedFace
	for _, view := range c.Faces() {
		if !view.Built {
			continue
		}
		t := view.Placement.Transform()
		center := t.Point(common.Vec3{})
		toCamera := pose.Position.Sub(center)
		facing := t.Vector(common.AxisZ).Dot(toCamera.Normalize())
		if facing <= 0 {
			continue
		}

		pf := projectedFace{view: view, depth: toCamera.Len(), shade: 1}
		if r.shading {
			pf.shade = max(facing, minShade)
		}
		visible := true
		for i, p := range mesh.Corners(t) {
			ndc, clipW := vp.Project(p)
			if clipW <= 0 {
				visible = false
				break
			}
			pf.corners[i] = f64.Vec2{
				float64(bounds.Min.X) + (ndc[0]+1)/2*w,
				float64(bounds.Min.Y) + (1-ndc[1])/2*h,
			}
		}
		if visible {
			out = append(out, pf)
		}
	}
	slices.SortStableFunc(out, func(a, b projectedFace) int {
		return cmp.Compare(b.depth, a.depth)
	})
	return out
}

// paint fills one projected face. The quad is rasterized into a coverage mask scaled by the face
// opacity; images are mapped onto it by the affine transform through the top-left, bottom-left and
// top-right corners.
func (r *renderer) paint(dst *image.RGBA, f projectedFace) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	off := f64.Vec2{float64(b.Min.X), float64(b.Min.Y)}
	z.MoveTo(float32(f.corners[0][0]-off[0]), float32(f.corners[0][1]-off[1]))
	for _, p := range f.corners[1:] {
		z.LineTo(float32(p[0]-off[0]), float32(p[1]-off[1]))
	}
	z.ClosePath()

	mask := image.NewAlpha(b)
	z.Draw(mask, b, image.NewUniform(color.Alpha{A: uint8(255 * clamp01(f.view.Opacity))}), image.Point{})

	paint, _ := f.view.Item.(Painted)
	var src image.Image
	swatch := r.fallback(f.view.Index)
	if paint != nil {
		src = paint.Image()
		swatch = paint.Swatch()
	}

	if src == nil {
		fill := shadeColor(swatch, f.shade)
		draw.DrawMask(dst, b, image.NewUniform(fill), image.Point{}, mask, b.Min, draw.Over)
		return
	}

	sr := src.Bounds()
	sw, sh := float64(sr.Dx()), float64(sr.Dy())
	p0, p1, p3 := f.corners[0], f.corners[1], f.corners[3]
	a := (p3[0] - p0[0]) / sw
	bb := (p1[0] - p0[0]) / sh
	d := (p3[1] - p0[1]) / sw
	e := (p1[1] - p0[1]) / sh
	m := f64.Aff3{
		a, bb, p0[0] - a*float64(sr.Min.X) - bb*float64(sr.Min.Y),
		d, e, p0[1] - d*float64(sr.Min.X) - e*float64(sr.Min.Y),
	}
	xdraw.ApproxBiLinear.Transform(dst, m, src, sr, xdraw.Over, &xdraw.Options{
		DstMask: mask,
	})

	if f.shade < 1 {
		dark := color.RGBA{A: uint8(255 * (1 - f.shade))}
		draw.DrawMask(dst, b, image.NewUniform(dark), image.Point{}, mask, b.Min, draw.Over)
	}
}

func shadeColor(c color.RGBA, shade float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(float64(c.R) * shade)),
		G: uint8(math.Round(float64(c.G) * shade)),
		B: uint8(math.Round(float64(c.B) * shade)),
		A: c.A,
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// grayFallback paints items without their own paint in alternating grays.
func grayFallback(index int) color.RGBA {
	if index%2 == 0 {
		return color.RGBA{R: 0xa0, G: 0xa0, B: 0xa8, A: 0xff}
	}
	return color.RGBA{R: 0x70, G: 0x70, B: 0x78, A: 0xff}
}

// paintOf returns the swatch a face would be painted with, for callers that only need a color.
func paintOf(item items.Item, index int, fallback func(int) color.RGBA) color.RGBA {
	if p, ok := item.(Painted); ok {
		return p.Swatch()
	}
	return fallback(index)
}

// Swatch returns the flat color that represents item, using the renderer's fallback for items that
// carry no paint.
//
// Parameters:
//   - item: the carousel item, may be nil
//   - index: the item index
//
// Returns:
//   - color.RGBA: the color
func Swatch(item items.Item, index int) color.RGBA {
	return paintOf(item, index, grayFallback)
}
