// Package planner picks the shorter way around the circular item sequence.
package planner

import "github.com/Carmen-Shannon/oxy-carousel/common"

// Plan is the outcome of planning a move from one face to another.
type Plan struct {
	// Direction is the chosen travel direction; forward on ties.
	Direction common.Direction
	// Steps is the number of faces crossed in Direction; zero means nothing to do.
	Steps int

	ForwardSteps  int
	BackwardSteps int
}

// Noop reports whether the plan requires no rotation.
func (p Plan) Noop() bool {
	return p.Steps == 0
}

// Allowed reports whether the rotate permission for the plan's direction is granted.
// A refused plan must not be partially applied.
//
// Parameters:
//   - canRotateForward: permission for forward moves
//   - canRotateBack: permission for backward moves
//
// Returns:
//   - bool: true if the plan may start
func (p Plan) Allowed(canRotateForward, canRotateBack bool) bool {
	if p.Noop() {
		return false
	}
	if p.Direction == common.DirectionForward {
		return canRotateForward
	}
	return canRotateBack
}

// AngleDegrees is the signed rotation the plan turns the polygon by.
//
// Parameters:
//   - count: number of faces
//
// Returns:
//   - float64: (360/count) * steps * direction
func (p Plan) AngleDegrees(count int) float64 {
	if count <= 0 {
		return 0
	}
	return 360.0 / float64(count) * float64(p.Steps) * float64(p.Direction)
}

// PlanMove walks forward from current to target and takes the circular complement as the backward
// distance, then chooses the smaller. Exact ties go forward.
//
// Parameters:
//   - current: index of the face currently framed
//   - target: index of the face to move to
//   - count: number of faces
//
// Returns:
//   - Plan: the chosen direction and step count (zero steps when target == current or count <= 1)
//   - error: ErrInvalidArgument when an index is outside [0, count)
func PlanMove(current, target, count int) (Plan, error) {
	if count <= 1 {
		return Plan{Direction: common.DirectionForward}, nil
	}
	if current < 0 || current >= count {
		return Plan{}, common.InvalidArgument("current index %d out of range [0,%d)", current, count)
	}
	if target < 0 || target >= count {
		return Plan{}, common.InvalidArgument("target index %d out of range [0,%d)", target, count)
	}
	if target == current {
		return Plan{Direction: common.DirectionForward}, nil
	}

	forward := 0
	for i := Step(current, common.DirectionForward, count); i != current; i = Step(i, common.DirectionForward, count) {
		forward++
		if i == target {
			break
		}
	}
	backward := count - forward

	p := Plan{ForwardSteps: forward, BackwardSteps: backward}
	if forward <= backward {
		p.Direction, p.Steps = common.DirectionForward, forward
	} else {
		p.Direction, p.Steps = common.DirectionBackward, backward
	}
	return p, nil
}

// Step moves index one position in dir, wrapping around count.
func Step(index int, dir common.Direction, count int) int {
	if count <= 0 {
		return 0
	}
	if dir == common.DirectionForward {
		return (index + 1) % count
	}
	if index == 0 {
		return count - 1
	}
	return index - 1
}

// Advance moves index by steps positions in dir, wrapping around count.
func Advance(index int, dir common.Direction, steps, count int) int {
	if count <= 0 {
		return 0
	}
	return (((index + int(dir)*steps) % count) + count) % count
}
