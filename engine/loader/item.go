package loader

import (
	"image"
	"image/color"
)

// Item is a carousel entry backed by an image file.
type Item struct {
	name   string
	path   string
	image  image.Image
	swatch color.RGBA
}

// NewSwatchItem creates an item without an image, painted with a flat color.
//
// Parameters:
//   - name: the item name
//   - swatch: the paint color
//
// Returns:
//   - *Item: the new item
func NewSwatchItem(name string, swatch color.RGBA) *Item {
	return &Item{name: name, swatch: swatch}
}

// Name returns the file base name without extension.
func (i *Item) Name() string {
	return i.name
}

// Path returns the source file, empty for swatch items.
func (i *Item) Path() string {
	return i.path
}

// Image returns the downscaled image, nil for swatch items.
func (i *Item) Image() image.Image {
	return i.image
}

// Swatch returns the item's average color.
func (i *Item) Swatch() color.RGBA {
	return i.swatch
}

func (i *Item) String() string {
	return i.name
}

// averageColor samples img on a grid of at most 64x64 points.
func averageColor(img image.Image) color.RGBA {
	b := img.Bounds()
	if b.Empty() {
		return color.RGBA{A: 0xff}
	}
	stepX := max(b.Dx()/64, 1)
	stepY := max(b.Dy()/64, 1)
	var r, g, bl, n uint64
	for y := b.Min.Y; y < b.Max.Y; y += stepY {
		for x := b.Min.X; x < b.Max.X; x += stepX {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r += uint64(cr >> 8)
			g += uint64(cg >> 8)
			bl += uint64(cb >> 8)
			n++
		}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: 0xff}
}

// Palette returns count distinct, evenly spaced hues for generated swatch items.
//
// Parameters:
//   - count: number of colors
//
// Returns:
//   - []color.RGBA: the colors
func Palette(count int) []color.RGBA {
	out := make([]color.RGBA, count)
	for i := range out {
		out[i] = hsv(float64(i)*6/float64(max(count, 1)), 0.55, 0.9)
	}
	return out
}

// hsv converts a hue in sextants [0, 6) with saturation and value to RGB.
func hsv(h6, s, v float64) color.RGBA {
	sector := int(h6) % 6
	f := h6 - float64(int(h6))
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	var r, g, b float64
	switch sector {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 0xff}
}
