package carousel

import (
	"log"
	"time"

	"github.com/Carmen-Shannon/oxy-carousel/common"
	"github.com/Carmen-Shannon/oxy-carousel/engine/animation"
	"github.com/Carmen-Shannon/oxy-carousel/engine/camera"
	"github.com/Carmen-Shannon/oxy-carousel/engine/facecache"
)

// CarouselBuilderOption is a functional option for configuring a Carousel.
type CarouselBuilderOption func(*carouselImpl)

// WithOrientation sets the polygon orientation.
//
// Parameters:
//   - orientation: horizontal circles the Y axis, vertical circles the X axis
//
// Returns:
//   - CarouselBuilderOption: functional option to set the orientation
func WithOrientation(orientation common.Orientation) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.orientation = orientation
	}
}

// WithMargin sets the gap added to the polygon radius. Negative values make NewCarousel fail.
//
// Parameters:
//   - margin: the face margin
//
// Returns:
//   - CarouselBuilderOption: functional option to set the margin
func WithMargin(margin float64) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.margin = margin
	}
}

// WithViewport sets the render size in pixels; its aspect ratio shapes the faces.
//
// Parameters:
//   - width: viewport width
//   - height: viewport height
//
// Returns:
//   - CarouselBuilderOption: functional option to set the viewport
func WithViewport(width, height int) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.width, c.height = width, height
	}
}

// WithZoomTime sets the duration of each zoom phase.
func WithZoomTime(d time.Duration) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.zoomTime = d
	}
}

// WithRotationTime sets the rotation duration per face stepped over.
func WithRotationTime(d time.Duration) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.rotationTime = d
	}
}

// WithPlayer sets the animation player. The default completes every transition synchronously.
//
// Parameters:
//   - player: the animation player
//
// Returns:
//   - CarouselBuilderOption: functional option to set the player
func WithPlayer(player animation.Player) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.player = player
	}
}

// WithCamera sets the camera the carousel animates.
func WithCamera(cam camera.Camera) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.cam = cam
	}
}

// WithLogger sets the logger for diagnostics. A nil logger keeps diagnostics in DebugInfo only.
//
// Parameters:
//   - logger: destination logger
//
// Returns:
//   - CarouselBuilderOption: functional option to set the logger
func WithLogger(logger *log.Logger) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.logger = logger
	}
}

// WithTraceLimit sets how many lines DebugInfo keeps.
func WithTraceLimit(limit int) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.trace = newDebugTrace(limit)
	}
}

// WithCacheOptions passes options through to the face cache.
func WithCacheOptions(options ...facecache.FaceCacheOption) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.cacheOpts = append(c.cacheOpts, options...)
	}
}

// WithFaceBuildCallback registers a function called for every face the cache builds. It runs while
// the face cache is locked and must not call back into the carousel.
//
// Parameters:
//   - fn: receives the built face index
//
// Returns:
//   - CarouselBuilderOption: a function that applies the option to a carousel
func WithFaceBuildCallback(fn func(index int)) CarouselBuilderOption {
	return func(c *carouselImpl) {
		c.onFaceBuilt = fn
	}
}
