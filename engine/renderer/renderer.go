// Package renderer presents CPU-rendered carousel frames on a window surface through WebGPU.
package renderer

import (
	_ "embed"
	"image"
	"image/color"
	"sync"

	"github.com/Carmen-Shannon/oxy-carousel/engine/window"
)

//go:embed shaders/present.wgsl
var presentShaderSource string

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	clearColor           color.RGBA
}

// Renderer uploads finished frames to the GPU and presents them.
type Renderer interface {
	// Resize reconfigures the surface for a new framebuffer size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes how frames are delivered. Takes effect on the next Resize.
	SetPresentMode(mode PresentMode)

	// Present uploads frame and draws it stretched over the surface. A nil frame presents the
	// last uploaded one, or the clear color before any upload.
	//
	// Parameters:
	//   - frame: the CPU-rendered frame
	//
	// Returns:
	//   - error: an error if the surface texture cannot be acquired or the upload fails
	Present(frame *image.RGBA) error

	// Release frees every GPU resource. The renderer must not be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		clearColor:  color.RGBA{R: 0x12, G: 0x12, B: 0x16, A: 0xff},
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, r.clearColor)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Present(frame *image.RGBA) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if frame != nil {
		if err := r.backend.UploadFrame(frame); err != nil {
			return err
		}
	}
	return r.backend.DrawFrame()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}
