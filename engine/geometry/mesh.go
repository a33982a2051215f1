package geometry

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-carousel/common"
)

// FaceMesh is the rectangle every face is painted on before its placement transform.
type FaceMesh struct {
	AspectRatio float64
	Positions   [4]common.Vec3
	// TexCoords map the corners to the item's paint in the conventional order.
	TexCoords [4][2]float64
	Indices   [6]uint32
}

var (
	meshMu   sync.Mutex
	lastMesh *FaceMesh
)

// FaceMeshFor returns the face rectangle for an aspect ratio: width aspectRatio, height 1, centered
// on the origin. The last mesh is memoized and only rebuilt when the aspect ratio changes.
//
// Parameters:
//   - aspectRatio: face width / height
//
// Returns:
//   - *FaceMesh: the shared mesh; callers must not modify it
func FaceMeshFor(aspectRatio float64) *FaceMesh {
	meshMu.Lock()
	defer meshMu.Unlock()

	if lastMesh != nil && lastMesh.AspectRatio == aspectRatio {
		return lastMesh
	}

	half := aspectRatio / 2.0
	lastMesh = &FaceMesh{
		AspectRatio: aspectRatio,
		Positions: [4]common.Vec3{
			{-half, 0.5, 0},
			{-half, -0.5, 0},
			{half, -0.5, 0},
			{half, 0.5, 0},
		},
		TexCoords: [4][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
		Indices:   [6]uint32{0, 1, 2, 0, 2, 3},
	}
	return lastMesh
}

// Corners returns the mesh corners carried through a face transform.
func (m *FaceMesh) Corners(t common.Transform) [4]common.Vec3 {
	var out [4]common.Vec3
	for i, p := range m.Positions {
		out[i] = t.Point(p)
	}
	return out
}
