package profiler

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	var buf bytes.Buffer
	p := NewProfiler(WithClock(clock.now), WithLogger(log.New(&buf, "", 0)))

	for range 3 {
		p.RecordFaceBuild()
	}
	p.RecordTransition()

	for i := range 9 {
		clock.t = clock.t.Add(100 * time.Millisecond)
		if p.Tick() {
			t.Fatalf("tick %d reported before the interval elapsed", i)
		}
	}
	clock.t = clock.t.Add(100 * time.Millisecond)
	if !p.Tick() {
		t.Fatalf("tick after one second did not report")
	}

	s := p.Last()
	if s.FPS != 10 {
		t.Errorf("FPS = %v, want 10", s.FPS)
	}
	if s.Transitions != 1 || s.FaceBuilds != 3 {
		t.Errorf("counters = %d transitions, %d builds; want 1, 3", s.Transitions, s.FaceBuilds)
	}
	if !strings.Contains(buf.String(), "[Profiler] FPS: 10.00 | Transitions: 1 | Face builds: 3") {
		t.Errorf("unexpected log line %q", buf.String())
	}

	clock.t = clock.t.Add(time.Second)
	p.Tick()
	if s := p.Last(); s.Transitions != 0 || s.FaceBuilds != 0 {
		t.Errorf("counters were not reset: %+v", s)
	}
}

func TestTickSilent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithLogger(nil), WithUpdateInterval(time.Millisecond))
	clock.t = clock.t.Add(time.Second)
	if !p.Tick() {
		t.Fatalf("Tick did not report")
	}
}
