package snapshot

import "image/color"

// RendererBuilderOption is a functional option for configuring a Renderer via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithSize fixes the output size of Render instead of following the carousel viewport.
//
// Parameters:
//   - width: image width in pixels
//   - height: image height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the option to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width = width
		r.height = height
	}
}

// WithBackground sets the clear color.
func WithBackground(c color.RGBA) RendererBuilderOption {
	return func(r *renderer) {
		r.background = c
	}
}

// WithShading toggles darkening faces by the angle they are viewed at.
func WithShading(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.shading = enabled
	}
}

// WithFallback sets the color used for items that do not carry their own paint.
func WithFallback(fn func(index int) color.RGBA) RendererBuilderOption {
	return func(r *renderer) {
		if fn != nil {
			r.fallback = fn
		}
	}
}
