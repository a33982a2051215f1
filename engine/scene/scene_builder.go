package scene

import (
	"log"

	"github.com/Carmen-Shannon/oxy-carousel/engine/carousel"
	"github.com/Carmen-Shannon/oxy-carousel/engine/loader"
	"github.com/Carmen-Shannon/oxy-carousel/engine/profiler"
	"github.com/Carmen-Shannon/oxy-carousel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-carousel/engine/renderer/snapshot"
)

// SceneBuilderOption is a functional option for configuring a Scene.
type SceneBuilderOption func(s *scene)

// WithCarouselOptions passes configuration to the carousel. The animation player is always the
// scene's tick player.
//
// Parameters:
//   - options: carousel options such as orientation, margin, viewport and timing
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCarouselOptions(options ...carousel.CarouselBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.carouselOpts = append(s.carouselOpts, options...)
	}
}

// WithPresenter attaches the GPU presenter frames are sent to.
func WithPresenter(r renderer.Renderer) SceneBuilderOption {
	return func(s *scene) {
		s.presenter = r
	}
}

// WithSnapshotRenderer replaces the frame rasterizer.
func WithSnapshotRenderer(r snapshot.Renderer) SceneBuilderOption {
	return func(s *scene) {
		s.snapshot = r
	}
}

// WithLoader sets the loader used for dropped files.
func WithLoader(l loader.Loader) SceneBuilderOption {
	return func(s *scene) {
		s.loader = l
	}
}

// WithProfiler reports transitions and face builds to p.
func WithProfiler(p *profiler.Profiler) SceneBuilderOption {
	return func(s *scene) {
		s.profiler = p
	}
}

// WithLogger sets the logger for the scene and its carousel.
func WithLogger(logger *log.Logger) SceneBuilderOption {
	return func(s *scene) {
		s.logger = logger
	}
}

// WithMargins sets the margins the margin key cycles through. Empty lists are ignored.
//
// Parameters:
//   - margins: face gaps, each >= 0
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMargins(margins ...float64) SceneBuilderOption {
	return func(s *scene) {
		if len(margins) > 0 {
			s.margins = margins
		}
	}
}
