package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-carousel/common"
)

// DefaultFieldOfView is the horizontal field of view, in degrees, the n-gon geometry is framed for.
const DefaultFieldOfView = 60.0

type cameraImpl struct {
	mu *sync.Mutex

	base     common.Pose
	zoom     float64
	rotation common.Quat

	fov    float64
	aspect float64
	near   float64
	far    float64
}

// Camera is the carousel's perspective camera. It holds a base pose plus two animated properties: a
// uniform zoom scale and a rotation, applied in that order about the polygon's center. Rotation is
// only reset together with the base pose, so it accumulates across transitions.
type Camera interface {
	// Base returns the pose the camera was last reset to.
	//
	// Returns:
	//   - common.Pose: the base pose
	Base() common.Pose

	// Reset replaces the base pose and returns zoom and rotation to identity.
	//
	// Parameters:
	//   - base: the new base pose
	Reset(base common.Pose)

	// Pose returns the effective pose: base position scaled by zoom, then rotated.
	//
	// Returns:
	//   - common.Pose: the effective camera pose
	Pose() common.Pose

	// Zoom returns the current zoom scale (1 is no zoom).
	Zoom() float64

	// SetZoom sets the zoom scale.
	SetZoom(zoom float64)

	// Rotation returns the accumulated rotation.
	Rotation() common.Quat

	// SetRotation sets the accumulated rotation.
	SetRotation(rotation common.Quat)

	// FieldOfView returns the horizontal field of view in degrees.
	FieldOfView() float64

	// VerticalFieldOfView returns the vertical field of view in radians for the current aspect ratio.
	VerticalFieldOfView() float64

	// Aspect returns the aspect ratio (width / height).
	Aspect() float64

	// SetAspect sets the aspect ratio (width / height).
	//
	// Parameters:
	//   - aspect: the aspect ratio, ignored unless positive
	SetAspect(aspect float64)

	// Near returns the near clipping plane distance.
	Near() float64

	// Far returns the far clipping plane distance.
	Far() float64

	// ViewMatrix returns the view matrix for the effective pose (column-major).
	//
	// Returns:
	//   - common.Mat4: the view matrix
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the perspective projection (column-major, depth [0,1]).
	//
	// Returns:
	//   - common.Mat4: the projection matrix
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - common.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() common.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera at common.DefaultPose with a 60° horizontal field of view.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		base:     common.DefaultPose,
		zoom:     1,
		rotation: common.QuatIdentity,
		fov:      DefaultFieldOfView,
		aspect:   1.0,
		near:     0.1,
		far:      100.0,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Base() common.Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.base
}

func (c *cameraImpl) Reset(base common.Pose) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = base
	c.zoom = 1
	c.rotation = common.QuatIdentity
}

func (c *cameraImpl) Pose() common.Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose()
}

// pose applies scale then rotation to the base pose. Caller must hold the mutex.
func (c *cameraImpl) pose() common.Pose {
	return common.Pose{
		Position:      c.rotation.Rotate(c.base.Position.Scale(c.zoom)),
		LookDirection: c.rotation.Rotate(c.base.LookDirection),
		Up:            c.rotation.Rotate(c.base.Up),
	}
}

func (c *cameraImpl) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *cameraImpl) SetZoom(zoom float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = zoom
}

func (c *cameraImpl) Rotation() common.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation
}

func (c *cameraImpl) SetRotation(rotation common.Quat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotation = rotation.Normalize()
}

func (c *cameraImpl) FieldOfView() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) VerticalFieldOfView() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fovY()
}

// fovY converts the horizontal field of view to the vertical one the projection needs.
// Caller must hold the mutex.
func (c *cameraImpl) fovY() float64 {
	return 2 * math.Atan(math.Tan(common.Radians(c.fov)/2)/c.aspect)
}

func (c *cameraImpl) Aspect() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect > 0 {
		c.aspect = aspect
	}
}

func (c *cameraImpl) Near() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.LookAt(c.pose())
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.Perspective(c.fovY(), c.aspect, c.near, c.far)
}

func (c *cameraImpl) ViewProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.Mul4(common.Perspective(c.fovY(), c.aspect, c.near, c.far), common.LookAt(c.pose()))
}
