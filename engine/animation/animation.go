// Package animation describes carousel camera animations as timelines of property tracks and plays
// them against a Target.
package animation

import (
	"time"

	"github.com/Carmen-Shannon/oxy-carousel/common"
)

// Property names the animatable camera property a Track drives.
type Property int

const (
	PropertyZoom Property = iota
	PropertyRotation
)

func (p Property) String() string {
	switch p {
	case PropertyZoom:
		return "zoom"
	case PropertyRotation:
		return "rotation"
	default:
		return "unknown"
	}
}

// Rotation is a relative rotation applied on top of the target's rotation when the track begins.
type Rotation struct {
	Axis         common.Vec3
	AngleDegrees float64
}

// Quat returns the rotation scaled by progress p in [0,1].
func (r Rotation) Quat(p float64) common.Quat {
	return common.QuatFromAxisAngle(r.Axis, r.AngleDegrees*p)
}

// Track animates one property from the value it has when the track begins.
type Track struct {
	Property Property
	Begin    time.Duration
	Duration time.Duration
	// Zoom is the final zoom scale of a PropertyZoom track.
	Zoom float64
	// Rotation is the rotation a PropertyRotation track adds.
	Rotation Rotation
	// Acceleration and Deceleration are the fractions of Duration spent speeding up and slowing down.
	Acceleration float64
	Deceleration float64
}

// End returns the offset at which the track finishes.
func (t Track) End() time.Duration {
	return t.Begin + t.Duration
}

// Timeline is a set of tracks that play as one animation.
type Timeline struct {
	Tracks []Track
}

// Duration returns the offset at which the last track finishes.
func (t Timeline) Duration() time.Duration {
	var d time.Duration
	for _, track := range t.Tracks {
		d = max(d, track.End())
	}
	return d
}

// Target is the object a timeline animates, typically the carousel camera.
type Target interface {
	Zoom() float64
	SetZoom(zoom float64)
	Rotation() common.Quat
	SetRotation(rotation common.Quat)
}

// Player plays timelines. Play must not block on the animation; done is invoked exactly once when
// every track has finished, possibly before Play returns.
type Player interface {
	// Play starts timeline against target.
	//
	// Parameters:
	//   - timeline: the tracks to play
	//   - target: the animated object
	//   - done: completion callback, may be nil
	Play(timeline Timeline, target Target, done func())
}

// Ease maps linear progress t in [0,1] to eased progress using constant acceleration over the first
// accel fraction and constant deceleration over the last decel fraction, with constant speed between.
// accel+decel values above 1 are scaled down to sum to 1.
//
// Parameters:
//   - t: linear progress
//   - accel: acceleration ratio in [0,1]
//   - decel: deceleration ratio in [0,1]
//
// Returns:
//   - float64: eased progress in [0,1]
func Ease(t, accel, decel float64) float64 {
	t = min(max(t, 0), 1)
	accel = max(accel, 0)
	decel = max(decel, 0)
	if sum := accel + decel; sum > 1 {
		accel, decel = accel/sum, decel/sum
	}
	if accel == 0 && decel == 0 {
		return t
	}

	rate := 1 / (1 - accel/2 - decel/2)
	switch {
	case t < accel:
		return rate * t * t / (2 * accel)
	case t <= 1-decel:
		return rate * (t - accel/2)
	default:
		r := 1 - t
		return 1 - rate*r*r/(2*decel)
	}
}

// progress returns eased progress of track at elapsed timeline time.
func (t Track) progress(elapsed time.Duration) float64 {
	if t.Duration <= 0 {
		return 1
	}
	return Ease(float64(elapsed-t.Begin)/float64(t.Duration), t.Acceleration, t.Deceleration)
}
