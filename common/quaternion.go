package common

import "math"

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float64

// QuatIdentity is the rotation that does nothing.
var QuatIdentity = Quat{0, 0, 0, 1}

// QuatFromAxisAngle builds a rotation of angleDegrees around axis (right-handed).
//
// Parameters:
//   - axis: rotation axis, need not be normalized
//   - angleDegrees: rotation angle in degrees
//
// Returns:
//   - Quat: the unit rotation quaternion
func QuatFromAxisAngle(axis Vec3, angleDegrees float64) Quat {
	n := axis.Normalize()
	half := angleDegrees * math.Pi / 360.0
	s := math.Sin(half)
	return Quat{n[0] * s, n[1] * s, n[2] * s, math.Cos(half)}
}

// Mul returns q*r: the rotation r applied first, then q.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		q[3]*r[0] + q[0]*r[3] + q[1]*r[2] - q[2]*r[1],
		q[3]*r[1] - q[0]*r[2] + q[1]*r[3] + q[2]*r[0],
		q[3]*r[2] + q[0]*r[1] - q[1]*r[0] + q[2]*r[3],
		q[3]*r[3] - q[0]*r[0] - q[1]*r[1] - q[2]*r[2],
	}
}

func (q Quat) Normalize() Quat {
	l := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if l < 1e-12 {
		return QuatIdentity
	}
	return Quat{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q[0], q[1], q[2]}
	w := q[3]
	// v' = v + 2w(u×v) + 2u×(u×v)
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(w)).Add(u.Cross(t))
}

// ApproxEqual treats q and -q as the same rotation.
func (q Quat) ApproxEqual(r Quat, eps float64) bool {
	same, flipped := true, true
	for i := range q {
		if math.Abs(q[i]-r[i]) > eps {
			same = false
		}
		if math.Abs(q[i]+r[i]) > eps {
			flipped = false
		}
	}
	return same || flipped
}

// Mat4 converts the quaternion to a column-major 4x4 rotation matrix.
func (q Quat) Mat4() Mat4 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0,
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0,
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}
