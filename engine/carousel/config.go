package carousel

import (
	"time"

	"github.com/Carmen-Shannon/oxy-carousel/common"
)

// ConfigChange carries configuration updates; nil fields are left unchanged.
type ConfigChange struct {
	Orientation  *common.Orientation
	Margin       *float64
	Width        *int
	Height       *int
	ZoomTime     *time.Duration
	RotationTime *time.Duration
}

func validate(margin float64, width, height int, zoomTime, rotationTime time.Duration) error {
	if margin < 0 {
		return common.InvalidArgument("face margin must not be negative, got %g", margin)
	}
	if width <= 0 || height <= 0 {
		return common.InvalidArgument("viewport must be positive, got %dx%d", width, height)
	}
	if zoomTime < 0 || rotationTime < 0 {
		return common.InvalidArgument("animation durations must not be negative")
	}
	return nil
}

func (c *carouselImpl) OnConfigurationChanged(change ConfigChange) error {
	c.mu.Lock()
	orientation := derefOr(change.Orientation, c.orientation)
	margin := derefOr(change.Margin, c.margin)
	width := derefOr(change.Width, c.width)
	height := derefOr(change.Height, c.height)
	zoomTime := derefOr(change.ZoomTime, c.zoomTime)
	rotationTime := derefOr(change.RotationTime, c.rotationTime)
	if err := validate(margin, width, height, zoomTime, rotationTime); err != nil {
		c.mu.Unlock()
		return err
	}

	if orientation != c.orientation {
		c.trace.add(c.logger, "orientation changed to %s", orientation)
	}
	if margin != c.margin {
		c.trace.add(c.logger, "face margin changed to %g", margin)
	}
	if width != c.width || height != c.height {
		c.trace.add(c.logger, "viewport resized to %dx%d", width, height)
	}
	c.orientation, c.margin = orientation, margin
	c.width, c.height = width, height
	c.zoomTime, c.rotationTime = zoomTime, rotationTime

	if c.cache.SetLayout(c.layout()) {
		c.needsReset = true
	}
	ev := events{config: &change, onConfig: c.onConfigChanged}
	c.mu.Unlock()

	ev.emit()
	return nil
}

func (c *carouselImpl) SetOrientation(orientation common.Orientation) {
	_ = c.OnConfigurationChanged(ConfigChange{Orientation: &orientation})
}

func (c *carouselImpl) SetMargin(margin float64) error {
	return c.OnConfigurationChanged(ConfigChange{Margin: &margin})
}

func (c *carouselImpl) SetViewport(width, height int) error {
	return c.OnConfigurationChanged(ConfigChange{Width: &width, Height: &height})
}

func derefOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
