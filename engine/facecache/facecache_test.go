package facecache

import (
	"errors"
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-carousel/common"
	"github.com/Carmen-Shannon/oxy-carousel/engine/geometry"
)

const eps = 1e-9

func layout(count int) Layout {
	return Layout{Count: count, Orientation: common.OrientationHorizontal, AspectRatio: 16.0 / 9.0}
}

func builtIndices(c FaceCache) []int {
	var out []int
	for i, b := range c.Calculated() {
		if b {
			out = append(out, i)
		}
	}
	return out
}

func TestEnsureFaceIsLazyAndIdempotent(t *testing.T) {
	var builds []int
	c := NewFaceCache(layout(6), WithBuildCallback(func(i int) { builds = append(builds, i) }))

	if got := c.BuiltCount(); got != 0 {
		t.Fatalf("new cache has %d built faces", got)
	}
	first, err := c.EnsureFace(3)
	if err != nil {
		t.Fatalf("EnsureFace: %v", err)
	}
	second, err := c.EnsureFace(3)
	if err != nil {
		t.Fatalf("EnsureFace: %v", err)
	}
	if !slices.Equal(builds, []int{3}) {
		t.Fatalf("builds = %v, want [3]", builds)
	}
	if first != second {
		t.Fatalf("second EnsureFace returned a different placement")
	}
	if !slices.Equal(builtIndices(c), []int{3}) {
		t.Fatalf("calculated = %v", c.Calculated())
	}
}

func TestEnsureFaceMatchesGeometry(t *testing.T) {
	l := layout(5)
	l.Margin = 0.2
	c := NewFaceCache(l)
	vertices, err := geometry.ComputeVertices(5, l.SideLength(), l.Margin, l.Orientation)
	if err != nil {
		t.Fatalf("ComputeVertices: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := c.EnsureFace(i)
		if err != nil {
			t.Fatalf("EnsureFace(%d): %v", i, err)
		}
		want, _ := geometry.BuildFacePlacement(vertices[i], vertices[(i+1)%5], l.Orientation, l.AspectRatio)
		if !got.Translation.ApproxEqual(want.Translation, eps) || !got.Rotation.ApproxEqual(want.Rotation, eps) {
			t.Fatalf("face %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestEnsureFaceOutOfRange(t *testing.T) {
	c := NewFaceCache(layout(3))
	for _, idx := range []int{-1, 3} {
		if _, err := c.EnsureFace(idx); !errors.Is(err, common.ErrInvalidArgument) {
			t.Fatalf("EnsureFace(%d) err = %v, want ErrInvalidArgument", idx, err)
		}
	}
	if err := c.EnsurePath(5, common.DirectionForward, 1); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("EnsurePath err = %v, want ErrInvalidArgument", err)
	}
}

func TestSingleFaceUsesIdentityPlacement(t *testing.T) {
	l := layout(1)
	c := NewFaceCache(l)
	got, err := c.EnsureFace(0)
	if err != nil {
		t.Fatalf("EnsureFace: %v", err)
	}
	want, _ := geometry.IdentityPlacement(l.Orientation, l.AspectRatio)
	if got != want {
		t.Fatalf("single face = %+v, want identity %+v", got, want)
	}
}

func TestEnsurePath(t *testing.T) {
	tests := []struct {
		name  string
		count int
		from  int
		dir   common.Direction
		steps int
		want  []int
	}{
		{"square forward", 4, 0, common.DirectionForward, 1, []int{1}},
		{"square backward wraps", 4, 0, common.DirectionBackward, 2, []int{2, 3}},
		{"hexagon adds surroundings", 6, 0, common.DirectionForward, 2, []int{0, 1, 2, 3, 5}},
		{"hexagon backward", 6, 1, common.DirectionBackward, 2, []int{0, 1, 2, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFaceCache(layout(tt.count))
			if err := c.EnsurePath(tt.from, tt.dir, tt.steps); err != nil {
				t.Fatalf("EnsurePath: %v", err)
			}
			if got := builtIndices(c); !slices.Equal(got, tt.want) {
				t.Fatalf("built %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnsureSurrounding(t *testing.T) {
	tests := []struct {
		name  string
		count int
		index int
		dir   common.Direction
		want  []int
	}{
		{"triangle forward", 3, 0, common.DirectionForward, []int{0, 1}},
		{"square backward", 4, 0, common.DirectionBackward, []int{0, 3}},
		{"pentagon both", 5, 0, common.DirectionForward, []int{0, 1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFaceCache(layout(tt.count))
			if err := c.EnsureSurrounding(tt.index, tt.dir); err != nil {
				t.Fatalf("EnsureSurrounding: %v", err)
			}
			if got := builtIndices(c); !slices.Equal(got, tt.want) {
				t.Fatalf("built %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetLayoutInvalidates(t *testing.T) {
	c := NewFaceCache(layout(4))
	if err := c.EnsurePath(0, common.DirectionForward, 4); err != nil {
		t.Fatalf("EnsurePath: %v", err)
	}
	if c.SetLayout(layout(4)) {
		t.Fatalf("SetLayout with identical layout reported a change")
	}
	if c.BuiltCount() != 4 {
		t.Fatalf("identical layout dropped faces")
	}

	l := layout(4)
	l.Orientation = common.OrientationVertical
	if !c.SetLayout(l) {
		t.Fatalf("SetLayout did not report orientation change")
	}
	if c.BuiltCount() != 0 {
		t.Fatalf("orientation change left %d faces built", c.BuiltCount())
	}
	p, err := c.EnsureFace(0)
	if err != nil {
		t.Fatalf("EnsureFace: %v", err)
	}
	if !p.Axis.ApproxEqual(common.AxisX, eps) {
		t.Fatalf("vertical face rotates about %v, want X", p.Axis)
	}
}

func TestInvalidateDropsSingleSlot(t *testing.T) {
	c := NewFaceCache(layout(4))
	_ = c.EnsurePath(0, common.DirectionForward, 4)
	c.Invalidate(2)
	if got := builtIndices(c); !slices.Equal(got, []int{0, 1, 3}) {
		t.Fatalf("built %v after Invalidate(2)", got)
	}
}

func TestRemoveRebuildsAgainstNewRing(t *testing.T) {
	c := NewFaceCache(layout(6))
	_ = c.EnsurePath(0, common.DirectionForward, 6)

	c.Remove(5)
	if got := c.Layout().Count; got != 5 {
		t.Fatalf("count after Remove = %d, want 5", got)
	}
	if c.Built(4) {
		t.Fatalf("face 4 still reported built against the old ring")
	}
	got, err := c.EnsureFace(4)
	if err != nil {
		t.Fatalf("EnsureFace: %v", err)
	}
	want, _ := NewFaceCache(layout(5)).EnsureFace(4)
	if !got.Translation.ApproxEqual(want.Translation, eps) || !got.Rotation.ApproxEqual(want.Rotation, eps) {
		t.Fatalf("rebuilt face %+v, want %+v", got, want)
	}

	c.Insert(0)
	if got := len(c.Calculated()); got != 6 {
		t.Fatalf("Calculated has %d entries after Insert, want 6", got)
	}
	if c.BuiltCount() != 0 {
		t.Fatalf("faces %v survived the side count change", c.Calculated())
	}
}

func TestParallelBuildMatchesSerial(t *testing.T) {
	l := layout(12)
	l.Margin = 0.1
	var builds []int
	parallel := NewFaceCache(l, WithWorkers(4), WithParallelThreshold(2), WithBuildCallback(func(i int) { builds = append(builds, i) }))
	serial := NewFaceCache(l, WithParallelThreshold(1000))

	if err := parallel.EnsurePath(0, common.DirectionForward, 12); err != nil {
		t.Fatalf("EnsurePath: %v", err)
	}
	if parallel.BuiltCount() != 12 {
		t.Fatalf("parallel build left %v", parallel.Calculated())
	}
	if len(builds) != 12 {
		t.Fatalf("build callback fired %d times, want 12", len(builds))
	}
	for i := 0; i < 12; i++ {
		got, _ := parallel.Face(i)
		want, _ := serial.EnsureFace(i)
		if got != want {
			t.Fatalf("face %d differs between parallel and serial builds", i)
		}
	}
}

func TestCloseStopsWorkersAndKeepsBuilding(t *testing.T) {
	l := layout(12)
	before := runtime.NumGoroutine()
	c := NewFaceCache(l, WithWorkers(1), WithParallelThreshold(2))
	if err := c.EnsurePath(0, common.DirectionForward, 6); err != nil {
		t.Fatalf("EnsurePath: %v", err)
	}
	c.Close()

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if after := runtime.NumGoroutine(); after > before {
		t.Fatalf("goroutines before=%d after=%d: worker outlived Close", before, after)
	}

	if err := c.EnsurePath(6, common.DirectionForward, 5); err != nil {
		t.Fatalf("EnsurePath after Close: %v", err)
	}
	if c.BuiltCount() != 12 {
		t.Fatalf("built %v after Close, want every face", c.Calculated())
	}
}

func TestBadAspectRatio(t *testing.T) {
	c := NewFaceCache(Layout{Count: 4, AspectRatio: 0})
	if _, err := c.EnsureFace(0); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if _, err := c.Vertices(); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("Vertices err = %v, want ErrInvalidArgument", err)
	}
}
