// Package facecache lazily materializes n-gon face placements. Each face index owns one slot; a slot is
// either absent or holds the placement built for the current layout. Bulk invalidation only clears
// membership, and faces are rebuilt strictly on demand.
package facecache

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-carousel/common"
	"github.com/Carmen-Shannon/oxy-carousel/engine/geometry"
	"github.com/Carmen-Shannon/oxy-carousel/engine/planner"
)

// DefaultParallelThreshold is the number of faces a single ensure call must build before the work is
// spread over the worker pool.
const DefaultParallelThreshold = 8

// Layout is every input the face geometry depends on. Changing any field invalidates the cache.
type Layout struct {
	Count       int
	Orientation common.Orientation
	Margin      float64
	AspectRatio float64
}

// SideLength is the polygon side length for this layout.
func (l Layout) SideLength() float64 {
	return geometry.SideLength(l.Orientation, l.AspectRatio)
}

type slot struct {
	built     bool
	gen       uint64
	placement geometry.FacePlacement
}

type faceCache struct {
	mu *sync.Mutex

	layout Layout
	// gen advances whenever the vertex ring has to be recomputed; slots from older generations are stale.
	gen      uint64
	ringGen  uint64
	vertices []common.Vec3
	mesh     *geometry.FaceMesh
	slots    []slot

	workers           int
	parallelThreshold int
	pool              worker.DynamicWorkerPool
	closed            bool

	logger  *log.Logger
	onBuild func(index int)
}

// FaceCache is the sparse store of constructed face placements.
type FaceCache interface {
	// Layout returns the layout the cache currently builds faces for.
	Layout() Layout

	// SetLayout replaces the layout. Any change drops every cached face.
	//
	// Parameters:
	//   - layout: the new layout
	//
	// Returns:
	//   - bool: true if the layout changed and the cache was invalidated
	SetLayout(layout Layout) bool

	// EnsureFace returns the placement of face index, building and storing it if absent.
	//
	// Parameters:
	//   - index: face index in [0, Count)
	//
	// Returns:
	//   - geometry.FacePlacement: the face placement
	//   - error: ErrInvalidArgument for an out of range index or an unusable layout
	EnsureFace(index int) (geometry.FacePlacement, error)

	// EnsurePath builds count faces starting one step past from in dir. On polygons with more than four
	// sides it also builds both neighbours of from and the face one step past the end of the path, which
	// would otherwise show as a gap while zoomed out.
	//
	// Parameters:
	//   - from: the face the path starts at (not itself part of the path)
	//   - dir: travel direction
	//   - count: number of steps to cover
	//
	// Returns:
	//   - error: ErrInvalidArgument for an out of range index or an unusable layout
	EnsurePath(from int, dir common.Direction, count int) error

	// EnsureSurrounding builds the face at index and its neighbours: both of them when the polygon has
	// five or more sides, otherwise only the neighbour in dir.
	//
	// Parameters:
	//   - index: the center face
	//   - dir: travel direction
	//
	// Returns:
	//   - error: ErrInvalidArgument for an out of range index or an unusable layout
	EnsureSurrounding(index int, dir common.Direction) error

	// Face returns a cached placement without building it.
	//
	// Parameters:
	//   - index: face index
	//
	// Returns:
	//   - geometry.FacePlacement: the placement, zero if absent
	//   - bool: true if the face is built for the current layout
	Face(index int) (geometry.FacePlacement, bool)

	// Built reports whether face index holds a placement for the current layout.
	Built(index int) bool

	// Calculated returns a copy of the membership set, one entry per face.
	Calculated() []bool

	// BuiltCount returns how many faces are built for the current layout.
	BuiltCount() int

	// InvalidateAll clears every slot and the vertex ring.
	InvalidateAll()

	// Invalidate drops a single slot, e.g. when the item on that face was replaced.
	Invalidate(index int)

	// Insert grows the side count by one for an item added at index. Every face moves, so all slots
	// become absent.
	Insert(index int)

	// Remove shrinks the side count by one for the item removed at index; all slots become absent.
	// Out of range indices are ignored.
	Remove(index int)

	// Close stops the build workers. Later ensure calls still work but build serially.
	Close()

	// Vertices returns the vertex ring for the current layout, computing it if needed.
	//
	// Returns:
	//   - []common.Vec3: a copy of the vertex points
	//   - error: ErrInvalidArgument when the layout cannot be laid out
	Vertices() ([]common.Vec3, error)

	// Mesh returns the face rectangle for the current aspect ratio.
	Mesh() *geometry.FaceMesh
}

var _ FaceCache = &faceCache{}

// NewFaceCache creates an empty cache for layout.
//
// Parameters:
//   - layout: the initial layout
//   - options: functional options to configure the cache
//
// Returns:
//   - FaceCache: the newly created cache
func NewFaceCache(layout Layout, options ...FaceCacheOption) FaceCache {
	c := &faceCache{
		mu:                &sync.Mutex{},
		layout:            layout,
		gen:               1,
		slots:             make([]slot, max(layout.Count, 0)),
		workers:           max(runtime.NumCPU()-1, 1),
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *faceCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.pool != nil {
		c.pool.Stop()
		c.pool = nil
	}
}

// workerPool returns the build pool, starting it on first use. A closed cache has no pool and builds
// serially. Caller must hold the mutex.
func (c *faceCache) workerPool() worker.DynamicWorkerPool {
	if c.closed {
		return nil
	}
	if c.pool == nil {
		c.pool = worker.NewDynamicWorkerPool(c.workers, 64, 1*time.Second)
	}
	return c.pool
}

func (c *faceCache) Layout() Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout
}

func (c *faceCache) SetLayout(layout Layout) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if layout == c.layout {
		return false
	}
	c.layout = layout
	c.slots = make([]slot, max(layout.Count, 0))
	c.invalidateAll()
	return true
}

func (c *faceCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateAll()
}

// invalidateAll resets membership and retires the vertex ring. Caller must hold the mutex.
func (c *faceCache) invalidateAll() {
	for i := range c.slots {
		c.slots[i] = slot{}
	}
	c.gen++
	c.vertices = nil
}

func (c *faceCache) Invalidate(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index >= 0 && index < len(c.slots) {
		c.slots[index] = slot{}
	}
}

func (c *faceCache) Insert(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resized(len(c.slots) + 1)
}

func (c *faceCache) Remove(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.slots) {
		return
	}
	c.resized(len(c.slots) - 1)
}

// resized records a side count change. Every vertex moves when the side count changes, so no
// placement survives: the slots start absent and are rebuilt the next time they are needed.
// Caller must hold the mutex.
func (c *faceCache) resized(count int) {
	c.layout.Count = count
	c.slots = make([]slot, count)
	c.gen++
	c.vertices = nil
}

func (c *faceCache) Face(index int) (geometry.FacePlacement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.fresh(index) {
		return geometry.FacePlacement{}, false
	}
	return c.slots[index].placement, true
}

func (c *faceCache) Built(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fresh(index)
}

func (c *faceCache) Calculated() []bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bool, len(c.slots))
	for i := range c.slots {
		out[i] = c.fresh(i)
	}
	return out
}

func (c *faceCache) BuiltCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for i := range c.slots {
		if c.fresh(i) {
			n++
		}
	}
	return n
}

func (c *faceCache) Vertices() ([]common.Vec3, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureRing(); err != nil {
		return nil, err
	}
	out := make([]common.Vec3, len(c.vertices))
	copy(out, c.vertices)
	return out, nil
}

func (c *faceCache) Mesh() *geometry.FaceMesh {
	c.mu.Lock()
	defer c.mu.Unlock()
	return geometry.FaceMeshFor(c.layout.AspectRatio)
}

func (c *faceCache) EnsureFace(index int) (geometry.FacePlacement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.build([]int{index}); err != nil {
		return geometry.FacePlacement{}, err
	}
	return c.slots[index].placement, nil
}

func (c *faceCache) EnsurePath(from int, dir common.Direction, count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndex(from); err != nil {
		return err
	}

	n := len(c.slots)
	indices := make([]int, 0, count+4)
	current := planner.Step(from, dir, n)
	for i := 0; i < count; i++ {
		indices = append(indices, current)
		current = planner.Step(current, dir, n)
	}
	if n > 4 {
		indices = append(indices, c.surrounding(from, dir)...)
		indices = append(indices, current)
	}
	return c.build(indices)
}

func (c *faceCache) EnsureSurrounding(index int, dir common.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndex(index); err != nil {
		return err
	}
	return c.build(c.surrounding(index, dir))
}

// surrounding lists index and the neighbours that are visible around it. Caller must hold the mutex.
func (c *faceCache) surrounding(index int, dir common.Direction) []int {
	n := len(c.slots)
	previous := planner.Step(index, common.DirectionBackward, n)
	next := planner.Step(index, common.DirectionForward, n)
	if n < 5 {
		if dir == common.DirectionForward {
			return []int{index, next}
		}
		return []int{index, previous}
	}
	return []int{index, previous, next}
}

// fresh reports whether slot index is built for the current ring generation. Caller must hold the mutex.
func (c *faceCache) fresh(index int) bool {
	if index < 0 || index >= len(c.slots) {
		return false
	}
	s := c.slots[index]
	return s.built && s.gen == c.gen
}

// checkIndex validates a face index against the slot array. Caller must hold the mutex.
func (c *faceCache) checkIndex(index int) error {
	if index < 0 || index >= len(c.slots) {
		return common.InvalidArgument("face index %d out of range [0,%d)", index, len(c.slots))
	}
	return nil
}

// ensureRing recomputes the vertex ring when it belongs to an older generation. A single face has no
// ring. Caller must hold the mutex.
func (c *faceCache) ensureRing() error {
	if c.layout.AspectRatio <= 0 {
		return common.InvalidArgument("aspect ratio must be positive, got %g", c.layout.AspectRatio)
	}
	if c.vertices != nil && c.ringGen == c.gen {
		return nil
	}
	if len(c.slots) < 2 {
		c.vertices = []common.Vec3{}
		c.ringGen = c.gen
		return nil
	}
	vertices, err := geometry.ComputeVertices(len(c.slots), c.layout.SideLength(), c.layout.Margin, c.layout.Orientation)
	if err != nil {
		return err
	}
	c.vertices = vertices
	c.ringGen = c.gen
	return nil
}

// build materializes every listed face that is not already fresh, in order and without duplicates.
// Large batches are spread across the worker pool; the call returns only once every face is stored.
// Caller must hold the mutex.
func (c *faceCache) build(indices []int) error {
	for _, index := range indices {
		if err := c.checkIndex(index); err != nil {
			return err
		}
	}
	if err := c.ensureRing(); err != nil {
		return err
	}

	pending := make([]int, 0, len(indices))
	seen := make(map[int]bool, len(indices))
	for _, index := range indices {
		if seen[index] || c.fresh(index) {
			continue
		}
		seen[index] = true
		pending = append(pending, index)
	}
	if len(pending) == 0 {
		return nil
	}

	// warm the shared mesh memo before any worker could race on it
	geometry.FaceMeshFor(c.layout.AspectRatio)

	errs := make([]error, len(pending))
	var pool worker.DynamicWorkerPool
	if len(pending) >= c.parallelThreshold {
		pool = c.workerPool()
	}
	if pool != nil {
		var wg sync.WaitGroup
		for i, index := range pending {
			wg.Add(1)
			slotIdx, errIdx := index, i
			pool.SubmitTask(worker.Task{
				ID: index,
				Do: func() (any, error) {
					defer wg.Done()
					errs[errIdx] = c.buildSlot(slotIdx)
					return nil, errs[errIdx]
				},
			})
		}
		wg.Wait()
	} else {
		for i, index := range pending {
			errs[i] = c.buildSlot(index)
		}
	}

	for i, index := range pending {
		if errs[i] != nil {
			return errs[i]
		}
		if c.logger != nil {
			c.logger.Printf("[FaceCache] calculated face model for index %d", index)
		}
		if c.onBuild != nil {
			c.onBuild(index)
		}
	}
	return nil
}

// buildSlot computes and stores one placement. Each call touches only its own slot, so distinct indices
// may be built concurrently while the caller holds the mutex.
func (c *faceCache) buildSlot(index int) error {
	var (
		placement geometry.FacePlacement
		err       error
	)
	if len(c.slots) > 1 {
		next := index + 1
		if next == len(c.vertices) {
			next = 0
		}
		placement, err = geometry.BuildFacePlacement(c.vertices[index], c.vertices[next], c.layout.Orientation, c.layout.AspectRatio)
	} else {
		placement, err = geometry.IdentityPlacement(c.layout.Orientation, c.layout.AspectRatio)
	}
	if err != nil {
		return err
	}
	c.slots[index] = slot{built: true, gen: c.gen, placement: placement}
	return nil
}
