package planner

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-carousel/common"
)

func TestPlanMoveProperties(t *testing.T) {
	for count := 2; count <= 12; count++ {
		for current := 0; current < count; current++ {
			for target := 0; target < count; target++ {
				p, err := PlanMove(current, target, count)
				if err != nil {
					t.Fatalf("PlanMove(%d,%d,%d): %v", current, target, count, err)
				}
				if target == current {
					if !p.Noop() || p.ForwardSteps != 0 || p.BackwardSteps != 0 {
						t.Fatalf("PlanMove(%d,%d,%d) = %+v, want zero plan", current, target, count, p)
					}
					continue
				}
				if p.ForwardSteps+p.BackwardSteps != count {
					t.Fatalf("PlanMove(%d,%d,%d): forward %d + backward %d != count", current, target, count, p.ForwardSteps, p.BackwardSteps)
				}
				if 2*p.Steps > count {
					t.Fatalf("PlanMove(%d,%d,%d) chose %d steps, more than half way", current, target, count, p.Steps)
				}
				if p.ForwardSteps == p.BackwardSteps && p.Direction != common.DirectionForward {
					t.Fatalf("PlanMove(%d,%d,%d) tie resolved %s, want forward", current, target, count, p.Direction)
				}
				if got := Advance(current, p.Direction, p.Steps, count); got != target {
					t.Fatalf("PlanMove(%d,%d,%d) = %+v lands on %d", current, target, count, p, got)
				}
			}
		}
	}
}

func TestPlanMoveScenario(t *testing.T) {
	p, err := PlanMove(0, 4, 6)
	if err != nil {
		t.Fatalf("PlanMove: %v", err)
	}
	if p.ForwardSteps != 4 || p.BackwardSteps != 2 {
		t.Fatalf("forward/backward = %d/%d, want 4/2", p.ForwardSteps, p.BackwardSteps)
	}
	if p.Direction != common.DirectionBackward || p.Steps != 2 {
		t.Fatalf("plan = %s x%d, want backward x2", p.Direction, p.Steps)
	}
	if got := p.AngleDegrees(6); got != -120 {
		t.Fatalf("AngleDegrees = %g, want -120", got)
	}
}

func TestPlanMoveDegenerateCounts(t *testing.T) {
	for _, count := range []int{0, 1} {
		p, err := PlanMove(0, 0, count)
		if err != nil || !p.Noop() {
			t.Fatalf("PlanMove(count=%d) = %+v, %v; want no-op", count, p, err)
		}
	}
}

func TestPlanMoveOutOfRange(t *testing.T) {
	cases := [][3]int{{-1, 0, 4}, {4, 0, 4}, {0, 5, 4}, {0, -2, 4}}
	for _, tc := range cases {
		if _, err := PlanMove(tc[0], tc[1], tc[2]); !errors.Is(err, common.ErrInvalidArgument) {
			t.Errorf("PlanMove%v err = %v, want ErrInvalidArgument", tc, err)
		}
	}
}

func TestAllowed(t *testing.T) {
	fwd := Plan{Direction: common.DirectionForward, Steps: 1}
	back := Plan{Direction: common.DirectionBackward, Steps: 1}

	if !fwd.Allowed(true, false) || fwd.Allowed(false, true) {
		t.Errorf("forward plan permissions wrong")
	}
	if !back.Allowed(false, true) || back.Allowed(true, false) {
		t.Errorf("backward plan permissions wrong")
	}
	if (Plan{}).Allowed(true, true) {
		t.Errorf("no-op plan must never be allowed to start")
	}
}

func TestStepWraps(t *testing.T) {
	if got := Step(4, common.DirectionForward, 5); got != 0 {
		t.Errorf("Step forward from last = %d, want 0", got)
	}
	if got := Step(0, common.DirectionBackward, 5); got != 4 {
		t.Errorf("Step backward from 0 = %d, want 4", got)
	}
	if got := Advance(1, common.DirectionBackward, 3, 5); got != 3 {
		t.Errorf("Advance(1, back, 3, 5) = %d, want 3", got)
	}
}
