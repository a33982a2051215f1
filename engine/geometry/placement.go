package geometry

import (
	"math"

	"github.com/Carmen-Shannon/oxy-carousel/common"
)

// FacePlacement is everything derived for one face: the transform that puts the unit face mesh on its
// polygon edge, and the camera pose that frames the face when it becomes current.
type FacePlacement struct {
	// Translation is the midpoint of the edge the face sits on.
	Translation common.Vec3
	// Axis is the rotation axis (Y for horizontal, X for vertical).
	Axis common.Vec3
	// AngleDegrees is the rotation about Axis, applied around Translation.
	AngleDegrees float64
	// Rotation is Axis/AngleDegrees as a quaternion.
	Rotation common.Quat

	// Up is the face's local Y axis after the transform; it becomes the camera up vector.
	Up common.Vec3
	// Normal is Up × (transformed local X); it becomes the camera look direction.
	Normal common.Vec3
	// CameraPosition is InitialCameraPosition carried through the face transform.
	CameraPosition common.Vec3
}

// Transform returns the face transform: rotate about the origin, then translate to the edge midpoint,
// which is the same as translating first and rotating about the midpoint.
func (p FacePlacement) Transform() common.Transform {
	return common.Transform{Rotation: p.Rotation, Translation: p.Translation}
}

// CameraPose returns the pose that frames this face.
func (p FacePlacement) CameraPose() common.Pose {
	return common.Pose{Position: p.CameraPosition, LookDirection: p.Normal, Up: p.Up}
}

// RotationAngle computes the angle, in degrees, that lays the face mesh along the segment a→b.
// The segment is the hypotenuse of a right triangle against the face, so the angle is an arctangent of
// its slope. The negation (horizontal) and the 180° complement (vertical) keep faces pointed at the camera.
//
// Parameters:
//   - a: first vertex
//   - b: next vertex
//   - orientation: polygon orientation
//
// Returns:
//   - float64: the rotation angle in degrees
func RotationAngle(a, b common.Vec3, orientation common.Orientation) float64 {
	dz := b[2] - a[2]
	if orientation == common.OrientationHorizontal {
		return -common.Degrees(math.Atan2(dz, b[0]-a[0]))
	}
	return -(180.0 - common.Degrees(math.Atan2(dz, b[1]-a[1])))
}

// BuildFacePlacement places a face on the edge between two adjacent vertices and derives its framing pose.
//
// Parameters:
//   - a: the face's first vertex
//   - b: the following vertex
//   - orientation: polygon orientation
//   - aspectRatio: face width / height (> 0)
//
// Returns:
//   - FacePlacement: the placement and camera framing data
//   - error: ErrInvalidArgument when aspectRatio <= 0
func BuildFacePlacement(a, b common.Vec3, orientation common.Orientation, aspectRatio float64) (FacePlacement, error) {
	if aspectRatio <= 0 || math.IsNaN(aspectRatio) {
		return FacePlacement{}, common.InvalidArgument("aspect ratio must be positive, got %g", aspectRatio)
	}

	axis := orientation.Axis()
	angle := RotationAngle(a, b, orientation)
	p := FacePlacement{
		Translation:  a.Midpoint(b),
		Axis:         axis,
		AngleDegrees: angle,
		Rotation:     common.QuatFromAxisAngle(axis, angle),
	}
	frame(&p, aspectRatio)
	return p, nil
}

// IdentityPlacement is the placement of a lone face: no translation or rotation, the mesh stays at the origin.
//
// Parameters:
//   - orientation: polygon orientation, only recorded as the rotation axis
//   - aspectRatio: face width / height (> 0)
//
// Returns:
//   - FacePlacement: the untransformed placement
//   - error: ErrInvalidArgument when aspectRatio <= 0
func IdentityPlacement(orientation common.Orientation, aspectRatio float64) (FacePlacement, error) {
	if aspectRatio <= 0 || math.IsNaN(aspectRatio) {
		return FacePlacement{}, common.InvalidArgument("aspect ratio must be positive, got %g", aspectRatio)
	}
	p := FacePlacement{Axis: orientation.Axis(), Rotation: common.QuatIdentity}
	frame(&p, aspectRatio)
	return p, nil
}

// frame fills in the camera fields of p from its transform.
func frame(p *FacePlacement, aspectRatio float64) {
	t := p.Transform()
	u := t.Vector(common.AxisY)
	v := t.Vector(common.AxisX)
	p.Up = u
	p.Normal = u.Cross(v)
	p.CameraPosition = t.Point(InitialCameraPosition(aspectRatio))
}
