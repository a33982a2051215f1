// package common contains common types that are used throughout the carousel engine. They are not interface-wrapped structs, just plain
// value types that express the shared geometry vocabulary (vectors, quaternions, rigid transforms, camera poses) and enums.
package common

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned (wrapped) whenever a caller passes an argument outside of an operation's contract,
// e.g. a nil item, a non-positive side count or aspect ratio, or an angle multiplier other than ±1.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgument wraps ErrInvalidArgument with a formatted message.
//
// Parameters:
//   - format: fmt-style format string describing the offending argument
//   - args: format arguments
//
// Returns:
//   - error: an error for which errors.Is(err, ErrInvalidArgument) holds
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Orientation selects which world axis the polygon circles around.
type Orientation int

const (
	// OrientationHorizontal circles the Y axis; faces rotate left <-> right.
	OrientationHorizontal Orientation = iota
	// OrientationVertical circles the X axis; faces rotate top <-> bottom.
	OrientationVertical
)

func (o Orientation) String() string {
	switch o {
	case OrientationHorizontal:
		return "horizontal"
	case OrientationVertical:
		return "vertical"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// Axis returns the world axis the polygon rotates around for this orientation.
//
// Returns:
//   - Vec3: unit Y for horizontal, unit X for vertical
func (o Orientation) Axis() Vec3 {
	if o == OrientationVertical {
		return AxisX
	}
	return AxisY
}

// Toggle returns the other orientation.
func (o Orientation) Toggle() Orientation {
	if o == OrientationVertical {
		return OrientationHorizontal
	}
	return OrientationVertical
}

// ParseOrientation converts "horizontal"/"vertical" (or "h"/"v") to an Orientation.
//
// Parameters:
//   - s: the textual orientation
//
// Returns:
//   - Orientation: the parsed orientation
//   - error: ErrInvalidArgument if s is not recognised
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "horizontal", "h", "":
		return OrientationHorizontal, nil
	case "vertical", "v":
		return OrientationVertical, nil
	}
	return OrientationHorizontal, InvalidArgument("unknown orientation %q", s)
}

// Direction is the travel direction through the circular item sequence.
// Its numeric value doubles as the rotation angle multiplier.
type Direction int

const (
	DirectionForward  Direction = 1
	DirectionBackward Direction = -1
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Vec3 is a 3-component vector (value type).
type Vec3 [3]float64

var (
	AxisX = Vec3{1, 0, 0}
	AxisY = Vec3{0, 1, 0}
	AxisZ = Vec3{0, 0, 1}
)

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Midpoint returns the point halfway between a and b.
func (a Vec3) Midpoint(b Vec3) Vec3 {
	return a.Add(b).Scale(0.5)
}

// ApproxEqual reports whether every component of a and b differs by at most eps.
func (a Vec3) ApproxEqual(b Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Pose is a camera placement: where it is, where it looks, and which way is up.
type Pose struct {
	Position      Vec3
	LookDirection Vec3
	Up            Vec3
}

// ApproxEqual compares two poses component-wise; look and up are compared after normalization.
func (p Pose) ApproxEqual(o Pose, eps float64) bool {
	return p.Position.ApproxEqual(o.Position, eps) &&
		p.LookDirection.Normalize().ApproxEqual(o.LookDirection.Normalize(), eps) &&
		p.Up.Normalize().ApproxEqual(o.Up.Normalize(), eps)
}

// DefaultPose is the fixed base camera: at (0,0,3) looking down -Z with +Y up.
var DefaultPose = Pose{
	Position:      Vec3{0, 0, 3},
	LookDirection: Vec3{0, 0, -1},
	Up:            AxisY,
}

// Transform is a rigid transform: rotate about the origin, then translate.
type Transform struct {
	Rotation    Quat
	Translation Vec3
}

// IdentityTransform leaves points and vectors unchanged.
var IdentityTransform = Transform{Rotation: QuatIdentity}

// Point applies the full transform to a point.
func (t Transform) Point(p Vec3) Vec3 {
	return t.Rotation.Rotate(p).Add(t.Translation)
}

// Vector applies only the rotational part, as directions are translation invariant.
func (t Transform) Vector(v Vec3) Vec3 {
	return t.Rotation.Rotate(v)
}

// Matrix returns the transform as a column-major 4x4 matrix.
func (t Transform) Matrix() Mat4 {
	m := t.Rotation.Mat4()
	m[12], m[13], m[14] = t.Translation[0], t.Translation[1], t.Translation[2]
	return m
}
