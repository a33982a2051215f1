// Package geometry places the vertices and faces of the carousel n-gon in 3-D space and derives the
// camera pose that frames a face. Everything here is a pure function of its inputs except the face
// mesh memo, which reuses the last rectangle built for a given aspect ratio.
package geometry

import (
	"math"

	"github.com/Carmen-Shannon/oxy-carousel/common"
)

// FieldOfView is the fixed vertical field of view, in degrees, the framing math assumes.
const FieldOfView = 60.0

// CircumscribedRadius returns the radius of the circle through the n-gon vertices, widened by margin.
//
// Parameters:
//   - sideCount: number of polygon sides
//   - sideLength: length of one side
//   - margin: extra radius inserted between adjacent faces
//
// Returns:
//   - float64: 0.5*sideLength/sin(pi/sideCount) + margin
func CircumscribedRadius(sideCount int, sideLength, margin float64) float64 {
	return (0.5*sideLength)/math.Sin(math.Pi/float64(sideCount)) + margin
}

// SideLength returns the polygon side length for a viewport aspect ratio: horizontal polygons are as
// wide as the viewport is relative to its height, vertical polygons use unit height.
//
// Parameters:
//   - orientation: the polygon orientation
//   - aspectRatio: viewport width / height
//
// Returns:
//   - float64: the side length to lay the polygon out with
func SideLength(orientation common.Orientation, aspectRatio float64) float64 {
	if orientation == common.OrientationHorizontal {
		return aspectRatio
	}
	return 1.0
}

// ComputeVertices calculates the vertex points of the n-gon by walking its circumscribed circle in
// equal angular steps starting at angle 0.
//
// A side count of 1 is not a polygon; callers guard count > 1 before laying faces out.
//
// Parameters:
//   - sideCount: number of sides (> 0)
//   - sideLength: length of each side (> 0)
//   - margin: face margin added to the radius (>= 0)
//   - orientation: horizontal polygons circle the Y axis, vertical ones the X axis
//
// Returns:
//   - []common.Vec3: exactly sideCount vertex points
//   - error: ErrInvalidArgument for a non-positive side count or side length, or a negative margin
func ComputeVertices(sideCount int, sideLength, margin float64, orientation common.Orientation) ([]common.Vec3, error) {
	if sideCount <= 0 {
		return nil, common.InvalidArgument("side count must be positive, got %d", sideCount)
	}
	if sideLength <= 0 {
		return nil, common.InvalidArgument("side length must be positive, got %g", sideLength)
	}
	if margin < 0 {
		return nil, common.InvalidArgument("face margin must not be negative, got %g", margin)
	}

	r := CircumscribedRadius(sideCount, sideLength, margin)
	step := 360.0 / float64(sideCount)

	vertices := make([]common.Vec3, sideCount)
	for i := range vertices {
		theta := common.Radians(step * float64(i))
		if orientation == common.OrientationHorizontal {
			// the viewer looks down -Z, so -Z is "up" on the XZ plane
			vertices[i] = common.Vec3{r * math.Cos(theta), 0, -r * math.Sin(theta)}
		} else {
			vertices[i] = common.Vec3{0, r * math.Sin(theta), -r * math.Cos(theta)}
		}
	}
	return vertices, nil
}

// InitialCameraPosition is the camera position, before any face transform, that frames a unit-height
// plane of the given aspect ratio at the origin with a 60° field of view.
//
// Parameters:
//   - aspectRatio: face width / height
//
// Returns:
//   - common.Vec3: (0, 0, aspectRatio / (2*tan(30°)))
func InitialCameraPosition(aspectRatio float64) common.Vec3 {
	return common.Vec3{0, 0, aspectRatio / (2 * math.Tan(common.Radians(FieldOfView/2)))}
}
