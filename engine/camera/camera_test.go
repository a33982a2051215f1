package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-carousel/common"
	"github.com/Carmen-Shannon/oxy-carousel/engine/geometry"
)

const eps = 1e-9

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	if !c.Pose().ApproxEqual(common.DefaultPose, eps) {
		t.Fatalf("default pose = %+v", c.Pose())
	}
	if c.FieldOfView() != DefaultFieldOfView || c.Zoom() != 1 {
		t.Fatalf("fov %v zoom %v", c.FieldOfView(), c.Zoom())
	}
	if got := c.VerticalFieldOfView(); math.Abs(got-common.Radians(60)) > eps {
		t.Fatalf("square viewport vertical fov = %v rad", got)
	}
}

func TestPoseAppliesScaleThenRotation(t *testing.T) {
	c := NewCamera()
	c.SetZoom(1.5)
	c.SetRotation(common.QuatFromAxisAngle(common.AxisY, 90))

	got := c.Pose()
	want := common.Pose{
		Position:      common.Vec3{4.5, 0, 0},
		LookDirection: common.Vec3{-1, 0, 0},
		Up:            common.AxisY,
	}
	if !got.ApproxEqual(want, eps) {
		t.Fatalf("pose = %+v, want %+v", got, want)
	}

	c.Reset(common.DefaultPose)
	if c.Zoom() != 1 || !c.Rotation().ApproxEqual(common.QuatIdentity, eps) {
		t.Fatalf("Reset left zoom %v rotation %v", c.Zoom(), c.Rotation())
	}
}

func TestRotationRoundTrip(t *testing.T) {
	c := NewCamera()
	start := c.Pose()
	for n := 3; n <= 8; n++ {
		for i := 0; i < n; i++ {
			c.SetRotation(c.Rotation().Mul(common.QuatFromAxisAngle(common.AxisY, 360.0/float64(n))))
		}
		if !c.Pose().ApproxEqual(start, 1e-6) {
			t.Fatalf("%d steps of 360/%d did not return to the start pose: %+v", n, n, c.Pose())
		}
	}
}

func TestFramedFaceFillsViewportWidth(t *testing.T) {
	aspect := 16.0 / 9.0
	p, err := geometry.IdentityPlacement(common.OrientationHorizontal, aspect)
	if err != nil {
		t.Fatalf("IdentityPlacement: %v", err)
	}
	c := NewCamera(WithAspect(aspect), WithBase(p.CameraPose()))
	vp := c.ViewProjectionMatrix()

	center, w := vp.Project(common.Vec3{})
	if w <= 0 || math.Abs(center[0]) > eps || math.Abs(center[1]) > eps {
		t.Fatalf("face center projects to %v (w=%v)", center, w)
	}
	edge, _ := vp.Project(common.Vec3{aspect / 2, 0, 0})
	if math.Abs(edge[0]-1) > 1e-6 {
		t.Fatalf("face edge projects to x=%v, want 1", edge[0])
	}
	top, _ := vp.Project(common.Vec3{0, 0.5, 0})
	if math.Abs(top[1]-1) > 1e-6 {
		t.Fatalf("face top projects to y=%v, want 1", top[1])
	}
}

func TestSetAspectIgnoresNonPositive(t *testing.T) {
	c := NewCamera(WithAspect(2))
	c.SetAspect(0)
	c.SetAspect(-1)
	if c.Aspect() != 2 {
		t.Fatalf("aspect = %v, want 2", c.Aspect())
	}
}
