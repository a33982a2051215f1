package common

import "math"

// Mat4 is a 4x4 matrix stored in column-major order (OpenGL/WebGPU convention).
type Mat4 [16]float64

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// Mul4 multiplies two 4x4 matrices.
// Result: a * b
//
// Parameters:
//   - a: left-hand matrix
//   - b: right-hand matrix
//
// Returns:
//   - Mat4: the product
func Mul4(a, b Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			out[i*4+j] = sum
		}
	}
	return out
}

// Perspective creates a perspective projection matrix.
// Uses the WebGPU clip space depth convention [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovY/2.0)
	out := Identity4()

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
	return out
}

// LookAt creates a view matrix from a camera pose.
// The resulting matrix transforms world coordinates to view/camera space.
//
// Parameters:
//   - pose: camera position, look direction and up vector
//
// Returns:
//   - Mat4: the view matrix
func LookAt(pose Pose) Mat4 {
	z := pose.LookDirection.Scale(-1).Normalize()
	if z == (Vec3{}) {
		z = AxisZ
	}
	x := pose.Up.Cross(z).Normalize()
	y := z.Cross(x)
	eye := pose.Position

	return Mat4{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// Project transforms a point by m and performs the perspective divide.
//
// Parameters:
//   - p: the point to transform
//
// Returns:
//   - Vec3: normalized device coordinates
//   - float64: the clip-space w; points with w <= 0 are behind the camera
func (m Mat4) Project(p Vec3) (Vec3, float64) {
	x := m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y := m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z := m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	w := m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]
	if w == 0 {
		return Vec3{}, 0
	}
	return Vec3{x / w, y / w, z / w}, w
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}
