package camera

import "github.com/Carmen-Shannon/oxy-carousel/common"

type CameraBuilderOption func(*cameraImpl)

// WithBase sets the camera's base pose.
//
// Parameters:
//   - base: the base pose
//
// Returns:
//   - CameraBuilderOption: a function that sets the base pose
func WithBase(base common.Pose) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.base = base
	}
}

// WithFieldOfView sets the camera's horizontal field of view in degrees.
//
// Parameters:
//   - degrees: horizontal field of view
//
// Returns:
//   - CameraBuilderOption: a function that sets the field of view
func WithFieldOfView(degrees float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = degrees
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}
