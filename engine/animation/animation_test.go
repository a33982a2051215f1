package animation

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-carousel/common"
)

const eps = 1e-9

type fakeTarget struct {
	mu       sync.Mutex
	zoom     float64
	rotation common.Quat
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{zoom: 1, rotation: common.QuatIdentity}
}

func (f *fakeTarget) Zoom() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.zoom
}

func (f *fakeTarget) SetZoom(zoom float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zoom = zoom
}

func (f *fakeTarget) Rotation() common.Quat {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rotation
}

func (f *fakeTarget) SetRotation(rotation common.Quat) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rotation = rotation
}

func TestEase(t *testing.T) {
	tests := []struct {
		t, accel, decel, want float64
	}{
		{0, 0.5, 0.5, 0},
		{0.25, 0.5, 0.5, 0.125},
		{0.5, 0.5, 0.5, 0.5},
		{0.75, 0.5, 0.5, 0.875},
		{1, 0.5, 0.5, 1},
		{0.3, 0, 0, 0.3},
		{0.5, 0.25, 0.25, 0.5},
		{2, 0, 0, 1},
	}
	for _, tt := range tests {
		if got := Ease(tt.t, tt.accel, tt.decel); math.Abs(got-tt.want) > eps {
			t.Errorf("Ease(%v, %v, %v) = %v, want %v", tt.t, tt.accel, tt.decel, got, tt.want)
		}
	}
	prev := 0.0
	for i := 0; i <= 100; i++ {
		got := Ease(float64(i)/100, 0.3, 0.2)
		if got < prev-eps {
			t.Fatalf("Ease is not monotonic at %d: %v < %v", i, got, prev)
		}
		prev = got
	}
}

func TestTransitionTimeline(t *testing.T) {
	tl, err := TransitionTimeline(TransitionParams{
		Axis:         common.AxisY,
		SideCount:    6,
		Steps:        2,
		Multiplier:   -1,
		ZoomTime:     250 * time.Millisecond,
		RotationTime: 350 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("TransitionTimeline: %v", err)
	}
	if len(tl.Tracks) != 3 {
		t.Fatalf("got %d tracks", len(tl.Tracks))
	}
	rot := tl.Tracks[1]
	if rot.Rotation.AngleDegrees != -120 || rot.Duration != 700*time.Millisecond || rot.Begin != 250*time.Millisecond {
		t.Fatalf("rotation track = %+v", rot)
	}
	if rot.Acceleration != 0.5 || rot.Deceleration != 0.5 {
		t.Fatalf("rotation easing = %v/%v", rot.Acceleration, rot.Deceleration)
	}
	if tl.Tracks[0].Zoom != ZoomOutScale || tl.Tracks[2].Zoom != 1 || tl.Tracks[2].Begin != 950*time.Millisecond {
		t.Fatalf("zoom tracks = %+v %+v", tl.Tracks[0], tl.Tracks[2])
	}
	if tl.Duration() != 1200*time.Millisecond {
		t.Fatalf("duration = %v", tl.Duration())
	}
}

func TestTransitionTimelineRejectsBadMultiplier(t *testing.T) {
	for _, m := range []int{0, 2, -3} {
		_, err := TransitionTimeline(TransitionParams{Axis: common.AxisY, SideCount: 4, Steps: 1, Multiplier: m})
		if !errors.Is(err, common.ErrInvalidArgument) {
			t.Errorf("multiplier %d: err = %v, want ErrInvalidArgument", m, err)
		}
	}
}

func TestTickPlayerPlaysPhasesInOrder(t *testing.T) {
	tl, _ := TransitionTimeline(TransitionParams{
		Axis:         common.AxisY,
		SideCount:    4,
		Steps:        1,
		Multiplier:   1,
		ZoomTime:     100 * time.Millisecond,
		RotationTime: 200 * time.Millisecond,
	})
	target := newFakeTarget()
	player := NewTickPlayer()
	doneCalls := 0
	player.Play(tl, target, func() { doneCalls++ })

	player.Advance(50 * time.Millisecond)
	if z := target.Zoom(); math.Abs(z-1.25) > eps {
		t.Fatalf("zoom halfway through zoom-out = %v, want 1.25", z)
	}
	player.Advance(150 * time.Millisecond)
	if z := target.Zoom(); z != ZoomOutScale {
		t.Fatalf("zoom during rotation = %v", z)
	}
	half := common.QuatFromAxisAngle(common.AxisY, 45)
	if !target.Rotation().ApproxEqual(half, 1e-9) {
		t.Fatalf("rotation at midpoint = %v, want 45°", target.Rotation())
	}
	if doneCalls != 0 {
		t.Fatalf("done called early")
	}

	player.Advance(time.Second)
	if doneCalls != 1 || player.Active() {
		t.Fatalf("done calls %d active %v", doneCalls, player.Active())
	}
	if target.Zoom() != 1 || !target.Rotation().ApproxEqual(common.QuatFromAxisAngle(common.AxisY, 90), eps) {
		t.Fatalf("final state zoom %v rotation %v", target.Zoom(), target.Rotation())
	}
}

func TestTickPlayerSingleLargeStep(t *testing.T) {
	tl, _ := TransitionTimeline(TransitionParams{Axis: common.AxisX, SideCount: 3, Steps: 1, Multiplier: -1, ZoomTime: time.Millisecond, RotationTime: time.Millisecond})
	target := newFakeTarget()
	target.SetRotation(common.QuatFromAxisAngle(common.AxisX, 30))
	player := NewTickPlayer()
	player.Play(tl, target, nil)
	player.Finish()

	want := common.QuatFromAxisAngle(common.AxisX, 30).Mul(common.QuatFromAxisAngle(common.AxisX, -120))
	if target.Zoom() != 1 || !target.Rotation().ApproxEqual(want, eps) {
		t.Fatalf("zoom %v rotation %v, want 1 and %v", target.Zoom(), target.Rotation(), want)
	}
}

func TestPlayFromDoneCallback(t *testing.T) {
	tl := Timeline{Tracks: []Track{{Property: PropertyZoom, Duration: time.Millisecond, Zoom: 2}}}
	target := newFakeTarget()
	player := NewTickPlayer()
	second := false
	player.Play(tl, target, func() {
		player.Play(Timeline{Tracks: []Track{{Property: PropertyZoom, Duration: time.Millisecond, Zoom: 3}}}, target, func() { second = true })
	})
	player.Advance(time.Millisecond)
	if !player.Active() {
		t.Fatalf("timeline queued from a done callback was lost")
	}
	player.Advance(time.Millisecond)
	if !second || target.Zoom() != 3 {
		t.Fatalf("second timeline did not complete: zoom %v", target.Zoom())
	}
}

func TestImmediatePlayer(t *testing.T) {
	tl, _ := TransitionTimeline(TransitionParams{Axis: common.AxisY, SideCount: 5, Steps: 2, Multiplier: 1, ZoomTime: time.Second, RotationTime: time.Second})
	target := newFakeTarget()
	done := false
	NewImmediatePlayer().Play(tl, target, func() { done = true })
	if !done || target.Zoom() != 1 {
		t.Fatalf("done %v zoom %v", done, target.Zoom())
	}
	if !target.Rotation().ApproxEqual(common.QuatFromAxisAngle(common.AxisY, 144), eps) {
		t.Fatalf("rotation %v, want 144°", target.Rotation())
	}
}
