package animation

import (
	"time"

	"github.com/Carmen-Shannon/oxy-carousel/common"
)

// ZoomOutScale is the camera scale the carousel zooms out to while rotating.
const ZoomOutScale = 1.5

// TransitionParams describes one carousel move.
type TransitionParams struct {
	// Axis is the polygon's rotation axis.
	Axis common.Vec3
	// SideCount is the number of polygon faces.
	SideCount int
	// Steps is the number of faces to move by.
	Steps int
	// Multiplier is +1 for forward and -1 for backward.
	Multiplier int
	// ZoomTime is the duration of each zoom phase.
	ZoomTime time.Duration
	// RotationTime is the duration of a single step of rotation.
	RotationTime time.Duration
}

// TransitionTimeline builds the three phase carousel move: zoom out to ZoomOutScale, rotate by
// 360/SideCount degrees per step with symmetric ease-in/ease-out, then zoom back to 1.
//
// Parameters:
//   - p: the move description
//
// Returns:
//   - Timeline: the three track timeline
//   - error: ErrInvalidArgument when the multiplier is not ±1 or the counts are not positive
func TransitionTimeline(p TransitionParams) (Timeline, error) {
	if p.Multiplier != 1 && p.Multiplier != -1 {
		return Timeline{}, common.InvalidArgument("angle multiplier must be 1 or -1, got %d", p.Multiplier)
	}
	if p.SideCount <= 0 || p.Steps <= 0 {
		return Timeline{}, common.InvalidArgument("side count %d and steps %d must be positive", p.SideCount, p.Steps)
	}
	if p.ZoomTime < 0 || p.RotationTime < 0 {
		return Timeline{}, common.InvalidArgument("durations must not be negative")
	}

	rotationTime := p.RotationTime * time.Duration(p.Steps)
	angle := 360.0 / float64(p.SideCount) * float64(p.Steps) * float64(p.Multiplier)
	return Timeline{Tracks: []Track{
		{
			Property: PropertyZoom,
			Duration: p.ZoomTime,
			Zoom:     ZoomOutScale,
		},
		{
			Property:     PropertyRotation,
			Begin:        p.ZoomTime,
			Duration:     rotationTime,
			Rotation:     Rotation{Axis: p.Axis, AngleDegrees: angle},
			Acceleration: 0.5,
			Deceleration: 0.5,
		},
		{
			Property: PropertyZoom,
			Begin:    p.ZoomTime + rotationTime,
			Duration: p.ZoomTime,
			Zoom:     1,
		},
	}}, nil
}
