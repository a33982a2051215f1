// Package carousel is the n-gon carousel control. It owns the current face, the rotation permission
// flags and the camera, and serializes transitions so that at most one rotation is ever in flight.
package carousel

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-carousel/common"
	"github.com/Carmen-Shannon/oxy-carousel/engine/animation"
	"github.com/Carmen-Shannon/oxy-carousel/engine/camera"
	"github.com/Carmen-Shannon/oxy-carousel/engine/facecache"
	"github.com/Carmen-Shannon/oxy-carousel/engine/geometry"
	"github.com/Carmen-Shannon/oxy-carousel/engine/items"
)

const (
	DefaultZoomTime     = 250 * time.Millisecond
	DefaultRotationTime = 350 * time.Millisecond
	DefaultWidth        = 1280
	DefaultHeight       = 720
)

// State is the transition state of the carousel.
type State int

const (
	// StateIdle accepts new transitions.
	StateIdle State = iota
	// StateArmed is held while the faces along a planned path are built.
	StateArmed
	// StateAnimating lasts until the animation player reports completion.
	StateAnimating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateAnimating:
		return "animating"
	default:
		return "unknown"
	}
}

// FaceView is what a renderer needs to draw one face.
type FaceView struct {
	Index int
	Item  items.Item
	Built bool
	// Opacity is 1 for built faces and 0.5 for faces that have not been materialized yet.
	Opacity   float64
	Placement geometry.FacePlacement
}

type carouselImpl struct {
	mu *sync.Mutex

	seq       *items.Sequence
	unsub     func()
	items     []items.Item
	cache     facecache.FaceCache
	cam       camera.Camera
	player    animation.Player
	cacheOpts []facecache.FaceCacheOption

	orientation  common.Orientation
	margin       float64
	width        int
	height       int
	zoomTime     time.Duration
	rotationTime time.Duration

	state        State
	current      int
	canForward   bool
	canBack      bool
	currentItem  items.Item
	transitionID uint64
	targetPose   common.Pose
	needsReset   bool

	logger *log.Logger
	trace  *debugTrace

	onCurrentItem   func(item items.Item)
	onRotationState func(canForward, canBack bool)
	onConfigChanged func(change ConfigChange)
	onFaceBuilt     func(index int)
}

// Carousel is the transition controller for an n-gon of items.
type Carousel interface {
	// Next rotates one face forward.
	//
	// Returns:
	//   - bool: true if a transition was started; false when blocked or there is nothing to rotate to
	Next() bool

	// Previous rotates one face backward.
	//
	// Returns:
	//   - bool: true if a transition was started
	Previous() bool

	// MoveTo rotates the shorter way round to item. Unknown items are logged and ignored.
	//
	// Parameters:
	//   - item: the item to frame
	//
	// Returns:
	//   - error: ErrInvalidArgument when item is nil
	MoveTo(item items.Item) error

	// MoveToName rotates to the first items.Named item called name. Unknown names are logged and ignored.
	//
	// Parameters:
	//   - name: the item name
	//
	// Returns:
	//   - error: ErrInvalidArgument when name is empty
	MoveToName(name string) error

	// OnConfigurationChanged applies every non-nil field of change, invalidates the face geometry and
	// schedules a viewport reset.
	//
	// Parameters:
	//   - change: the configuration values to replace
	//
	// Returns:
	//   - error: ErrInvalidArgument for a negative margin or duration or a non-positive viewport
	OnConfigurationChanged(change ConfigChange) error

	// SetOrientation changes the polygon orientation.
	SetOrientation(orientation common.Orientation)

	// SetMargin changes the gap between faces.
	SetMargin(margin float64) error

	// SetViewport changes the render size in pixels.
	SetViewport(width, height int) error

	// Prepare performs a pending viewport reset: it lays the polygon out for the current
	// configuration, builds the current face and points the camera at it. Renderers call this before
	// every frame; it does nothing while a transition is in flight.
	//
	// Returns:
	//   - error: an error if the current face cannot be built
	Prepare() error

	// State returns the transition state.
	State() State

	// CurrentIndex returns the logical current face; during a transition this is already the target.
	CurrentIndex() int

	// CurrentItem returns the last published current item, nil when the carousel is empty.
	CurrentItem() items.Item

	// CanRotateForward reports whether Next and forward moves are accepted.
	CanRotateForward() bool

	// CanRotateBack reports whether Previous and backward moves are accepted.
	CanRotateBack() bool

	// Count returns the number of faces.
	Count() int

	// Faces returns a view of every face for rendering.
	Faces() []FaceView

	// Calculated returns which faces are built.
	Calculated() []bool

	// Camera returns the animated camera.
	Camera() camera.Camera

	// Mesh returns the face rectangle for the current viewport.
	Mesh() *geometry.FaceMesh

	// TargetPose returns the camera pose framing the current face, as derived when the last
	// transition or reset started.
	TargetPose() common.Pose

	// Orientation returns the polygon orientation.
	Orientation() common.Orientation

	// Margin returns the gap between faces.
	Margin() float64

	// Viewport returns the render size in pixels.
	Viewport() (width, height int)

	// Timing returns the zoom and per-step rotation durations.
	Timing() (zoomTime, rotationTime time.Duration)

	// DebugInfo returns the recent debug trace, oldest first.
	DebugInfo() []string

	// SetCurrentItemCallback registers fn to receive every published current item.
	SetCurrentItemCallback(fn func(item items.Item))

	// SetRotationStateCallback registers fn to receive rotation flag changes.
	SetRotationStateCallback(fn func(canForward, canBack bool))

	// SetConfigurationChangedCallback registers fn to receive applied configuration changes.
	SetConfigurationChangedCallback(fn func(change ConfigChange))

	// Close detaches the carousel from its item sequence and stops the face cache workers.
	Close()
}

var _ Carousel = &carouselImpl{}

// NewCarousel creates a carousel over seq framing its first item.
// Panics if seq is nil.
//
// Parameters:
//   - seq: the caller owned item sequence
//   - options: functional options to configure the carousel
//
// Returns:
//   - Carousel: the new carousel
//   - error: ErrInvalidArgument for an invalid option value
func NewCarousel(seq *items.Sequence, options ...CarouselBuilderOption) (Carousel, error) {
	if seq == nil {
		panic("carousel: NewCarousel requires a non-nil item sequence")
	}

	c := &carouselImpl{
		mu:           &sync.Mutex{},
		seq:          seq,
		orientation:  common.OrientationHorizontal,
		width:        DefaultWidth,
		height:       DefaultHeight,
		zoomTime:     DefaultZoomTime,
		rotationTime: DefaultRotationTime,
		needsReset:   true,
		logger:       log.Default(),
		trace:        newDebugTrace(defaultTraceLimit),
	}
	for _, option := range options {
		option(c)
	}
	if err := validate(c.margin, c.width, c.height, c.zoomTime, c.rotationTime); err != nil {
		return nil, err
	}
	if c.player == nil {
		c.player = animation.NewImmediatePlayer()
	}
	if c.cam == nil {
		c.cam = camera.NewCamera()
	}
	c.cam.SetAspect(c.aspect())

	c.items = seq.Items()
	cacheOpts := append([]facecache.FaceCacheOption{
		facecache.WithBuildCallback(func(index int) {
			c.trace.add(c.logger, "calculated face model for index %d", index)
			if c.onFaceBuilt != nil {
				c.onFaceBuilt(index)
			}
		}),
	}, c.cacheOpts...)
	c.cache = facecache.NewFaceCache(c.layout(), cacheOpts...)

	c.mu.Lock()
	c.canForward, c.canBack = c.rotatable(), c.rotatable()
	if len(c.items) > 0 {
		c.currentItem = c.items[0]
	}
	if err := c.prepare(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	c.unsub = seq.Subscribe(c.itemsChanged)
	return c, nil
}

// aspect returns the viewport aspect ratio. Caller must hold the mutex.
func (c *carouselImpl) aspect() float64 {
	return float64(c.width) / float64(c.height)
}

// layout describes the polygon for the current configuration. Caller must hold the mutex.
func (c *carouselImpl) layout() facecache.Layout {
	return facecache.Layout{
		Count:       len(c.items),
		Orientation: c.orientation,
		Margin:      c.margin,
		AspectRatio: c.aspect(),
	}
}

// rotatable reports whether the polygon has more than one face. Caller must hold the mutex.
func (c *carouselImpl) rotatable() bool {
	return len(c.items) > 1
}

func (c *carouselImpl) Prepare() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return nil
	}
	return c.prepare()
}

// prepare runs a pending viewport reset. Caller must hold the mutex.
func (c *carouselImpl) prepare() error {
	if !c.needsReset {
		return nil
	}
	c.cache.SetLayout(c.layout())
	c.cam.SetAspect(c.aspect())
	if len(c.items) == 0 {
		c.cam.Reset(common.DefaultPose)
		c.targetPose = common.DefaultPose
		c.needsReset = false
		return nil
	}
	face, err := c.cache.EnsureFace(c.current)
	if err != nil {
		return err
	}
	c.targetPose = face.CameraPose()
	c.cam.Reset(c.targetPose)
	c.needsReset = false
	c.trace.add(c.logger, "viewport reset to face %d", c.current)
	return nil
}

func (c *carouselImpl) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *carouselImpl) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *carouselImpl) CurrentItem() items.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentItem
}

func (c *carouselImpl) CanRotateForward() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canForward
}

func (c *carouselImpl) CanRotateBack() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canBack
}

func (c *carouselImpl) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *carouselImpl) Faces() []FaceView {
	c.mu.Lock()
	defer c.mu.Unlock()
	views := make([]FaceView, len(c.items))
	for i, item := range c.items {
		placement, built := c.cache.Face(i)
		opacity := 0.5
		if built {
			opacity = 1
		}
		views[i] = FaceView{Index: i, Item: item, Built: built, Opacity: opacity, Placement: placement}
	}
	return views
}

func (c *carouselImpl) Calculated() []bool {
	return c.cache.Calculated()
}

func (c *carouselImpl) Camera() camera.Camera {
	return c.cam
}

func (c *carouselImpl) Mesh() *geometry.FaceMesh {
	return c.cache.Mesh()
}

func (c *carouselImpl) TargetPose() common.Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetPose
}

func (c *carouselImpl) Orientation() common.Orientation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientation
}

func (c *carouselImpl) Margin() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.margin
}

func (c *carouselImpl) Viewport() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *carouselImpl) Timing() (time.Duration, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoomTime, c.rotationTime
}

func (c *carouselImpl) DebugInfo() []string {
	return c.trace.entries()
}

func (c *carouselImpl) SetCurrentItemCallback(fn func(item items.Item)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onCurrentItem = fn
}

func (c *carouselImpl) SetRotationStateCallback(fn func(canForward, canBack bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRotationState = fn
}

func (c *carouselImpl) SetConfigurationChangedCallback(fn func(change ConfigChange)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConfigChanged = fn
}

func (c *carouselImpl) Close() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.mu.Unlock()
	c.cache.Close()
	if unsub != nil {
		unsub()
	}
}
