package scene

import (
	"fmt"
	"image"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-carousel/common"
	"github.com/Carmen-Shannon/oxy-carousel/engine/animation"
	"github.com/Carmen-Shannon/oxy-carousel/engine/carousel"
	"github.com/Carmen-Shannon/oxy-carousel/engine/items"
	"github.com/Carmen-Shannon/oxy-carousel/engine/loader"
	"github.com/Carmen-Shannon/oxy-carousel/engine/profiler"
	"github.com/Carmen-Shannon/oxy-carousel/engine/renderer"
	"github.com/Carmen-Shannon/oxy-carousel/engine/renderer/snapshot"
)

// DefaultMargins are the face gaps the margin key cycles through.
var DefaultMargins = []float64{0, 0.1, 0.25}

// Scene binds a carousel to the frame loop: the tick loop advances its animation player, the
// render loop rasterizes and presents it, and window input drives it.
// Input and rendering may happen on different goroutines.
type Scene interface {
	// Active returns whether this scene is currently rendered.
	Active() bool

	// SetActive sets whether this scene is rendered.
	SetActive(active bool)

	// Carousel returns the driven carousel.
	Carousel() carousel.Carousel

	// Sequence returns the item sequence the carousel observes.
	Sequence() *items.Sequence

	// Tick advances running animations.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous tick
	Tick(deltaTime float32)

	// Render draws the carousel into the scene frame and presents it when a presenter is attached.
	// Frames are only rasterized while something changed or an animation runs.
	//
	// Returns:
	//   - bool: true if a new frame was rasterized
	//   - error: an error if rasterizing or presenting fails
	Render() (bool, error)

	// Frame returns the last rasterized frame, nil before the first Render.
	Frame() *image.RGBA

	// Resize updates the carousel viewport and the presenter surface.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	Resize(width, height int)

	// HandleKey applies a key binding.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	//
	// Returns:
	//   - bool: true if the key is bound
	HandleKey(keyCode uint32) bool

	// HandleClick rotates backward for clicks on the left half of the viewport and forward otherwise.
	HandleClick(x, y float64)

	// HandleDrop loads dropped image files and appends them as items. Files that fail to load are
	// logged and skipped.
	//
	// Parameters:
	//   - paths: the dropped files
	//
	// Returns:
	//   - int: the number of items added
	HandleDrop(paths []string) int

	// Title describes the current item for a window title bar.
	Title() string

	// SetTitleCallback registers a function called with the new title whenever the current item
	// or the item count changes.
	SetTitleCallback(callback func(title string))

	// SetProfilerToggleCallback registers the function the profiler key calls.
	SetProfilerToggleCallback(callback func())

	// Close detaches the scene from the carousel and releases the presenter.
	Close()
}

type scene struct {
	mu *sync.Mutex

	active atomic.Bool
	dirty  atomic.Bool

	seq       *items.Sequence
	carousel  carousel.Carousel
	player    animation.TickPlayer
	snapshot  snapshot.Renderer
	presenter renderer.Renderer
	loader    loader.Loader
	profiler  *profiler.Profiler
	logger    *log.Logger

	frame     *image.RGBA
	margins   []float64
	marginIdx int
	added     atomic.Int64
	unsub     func()

	carouselOpts     []carousel.CarouselBuilderOption
	onTitle          func(title string)
	onToggleProfiler func()
}

var _ Scene = &scene{}

// NewScene creates an active Scene over seq. The carousel is created with a tick driven animation
// player; options may add presenters, profilers and carousel configuration.
//
// Parameters:
//   - seq: the item sequence
//   - options: a variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the new scene
//   - error: an error if the carousel configuration is invalid
func NewScene(seq *items.Sequence, options ...SceneBuilderOption) (Scene, error) {
	if seq == nil {
		panic("scene: NewScene requires a non-nil item sequence")
	}

	s := &scene{
		mu:       &sync.Mutex{},
		seq:      seq,
		player:   animation.NewTickPlayer(),
		snapshot: snapshot.NewRenderer(),
		loader:   loader.NewLoader(),
		logger:   log.Default(),
		margins:  DefaultMargins,
	}
	for _, option := range options {
		option(s)
	}

	var player animation.Player = s.player
	opts := []carousel.CarouselBuilderOption{carousel.WithLogger(s.logger)}
	if s.profiler != nil {
		player = &countingPlayer{Player: s.player, profiler: s.profiler}
		opts = append(opts, carousel.WithFaceBuildCallback(func(int) {
			s.profiler.RecordFaceBuild()
		}))
	}
	opts = append(opts, s.carouselOpts...)
	opts = append(opts, carousel.WithPlayer(player))

	c, err := carousel.NewCarousel(seq, opts...)
	if err != nil {
		return nil, err
	}
	s.carousel = c
	s.marginIdx = marginIndex(s.margins, c.Margin())

	c.SetCurrentItemCallback(func(items.Item) {
		s.titleChanged()
	})
	c.SetConfigurationChangedCallback(func(carousel.ConfigChange) {
		s.dirty.Store(true)
	})
	s.unsub = seq.Subscribe(func(items.Change) {
		s.titleChanged()
	})

	s.active.Store(true)
	s.dirty.Store(true)
	return s, nil
}

// countingPlayer reports every started transition to the profiler.
type countingPlayer struct {
	animation.Player
	profiler *profiler.Profiler
}

func (p *countingPlayer) Play(timeline animation.Timeline, target animation.Target, done func()) {
	p.profiler.RecordTransition()
	p.Player.Play(timeline, target, done)
}

func marginIndex(margins []float64, margin float64) int {
	for i, m := range margins {
		if m == margin {
			return i
		}
	}
	return 0
}

func (s *scene) titleChanged() {
	s.dirty.Store(true)
	if s.onTitle != nil {
		s.onTitle(s.Title())
	}
}

func (s *scene) Active() bool {
	return s.active.Load()
}

func (s *scene) SetActive(active bool) {
	s.active.Store(active)
	if active {
		s.dirty.Store(true)
	}
}

func (s *scene) Carousel() carousel.Carousel {
	return s.carousel
}

func (s *scene) Sequence() *items.Sequence {
	return s.seq
}

func (s *scene) Tick(deltaTime float32) {
	if deltaTime <= 0 {
		return
	}
	s.player.Advance(time.Duration(float64(deltaTime) * float64(time.Second)))
}

func (s *scene) Render() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	animating := s.player.Active() || s.carousel.State() != carousel.StateIdle
	if !s.dirty.Swap(false) && !animating && s.frame != nil {
		if s.presenter != nil {
			return false, s.presenter.Present(nil)
		}
		return false, nil
	}

	w, h := s.carousel.Viewport()
	if s.frame == nil || s.frame.Bounds().Dx() != w || s.frame.Bounds().Dy() != h {
		s.frame = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	if _, err := s.snapshot.RenderTo(s.frame, s.carousel); err != nil {
		return false, err
	}
	if s.presenter != nil {
		if err := s.presenter.Present(s.frame); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (s *scene) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func (s *scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		// Minimized windows report a zero framebuffer.
		return
	}
	if err := s.carousel.SetViewport(width, height); err != nil {
		s.logger.Printf("[Scene] resize to %dx%d failed: %v", width, height, err)
		return
	}
	if s.presenter != nil {
		s.presenter.Resize(width, height)
	}
	s.dirty.Store(true)
}

func (s *scene) HandleKey(keyCode uint32) bool {
	c := s.carousel
	switch keyCode {
	case common.KeyRight, common.KeyDown:
		c.Next()
	case common.KeyLeft, common.KeyUp:
		c.Previous()
	case common.KeySpace:
		if s.seq.Len() > 0 {
			s.moveTo(0)
		}
	case common.KeyEqual, common.KeyKPAdd:
		s.addSwatch()
	case common.KeyMinus, common.KeyKPSubtract:
		if n := s.seq.Len(); n > 0 {
			if err := s.seq.RemoveAt(n - 1); err != nil {
				s.logger.Printf("[Scene] remove failed: %v", err)
			}
		}
	case common.KeyO:
		c.SetOrientation(c.Orientation().Toggle())
	case common.KeyM:
		s.cycleMargin()
	case common.KeyP:
		if s.onToggleProfiler != nil {
			s.onToggleProfiler()
		}
	default:
		if keyCode >= common.Key1 && keyCode <= common.Key9 {
			s.moveTo(int(keyCode - common.Key1))
			return true
		}
		return false
	}
	return true
}

func (s *scene) moveTo(index int) {
	item := s.seq.At(index)
	if item == nil {
		return
	}
	if err := s.carousel.MoveTo(item); err != nil {
		s.logger.Printf("[Scene] move to %d failed: %v", index, err)
	}
}

func (s *scene) addSwatch() {
	n := s.added.Add(1)
	palette := loader.Palette(12)
	item := loader.NewSwatchItem(fmt.Sprintf("swatch %d", n), palette[int(n-1)%len(palette)])
	if err := s.seq.Append(item); err != nil {
		s.logger.Printf("[Scene] add failed: %v", err)
	}
}

func (s *scene) cycleMargin() {
	s.mu.Lock()
	s.marginIdx = (s.marginIdx + 1) % len(s.margins)
	margin := s.margins[s.marginIdx]
	s.mu.Unlock()

	if err := s.carousel.SetMargin(margin); err != nil {
		s.logger.Printf("[Scene] margin %.2f rejected: %v", margin, err)
	}
}

func (s *scene) HandleClick(x, y float64) {
	w, _ := s.carousel.Viewport()
	if x < float64(w)/2 {
		s.carousel.Previous()
		return
	}
	s.carousel.Next()
}

func (s *scene) HandleDrop(paths []string) int {
	added := 0
	for _, path := range paths {
		item, err := s.loader.Load(path)
		if err != nil {
			s.logger.Printf("[Scene] skipping %s: %v", path, err)
			continue
		}
		if err := s.seq.Append(item); err != nil {
			s.logger.Printf("[Scene] skipping %s: %v", path, err)
			continue
		}
		added++
	}
	return added
}

func (s *scene) Title() string {
	n := s.seq.Len()
	if n == 0 {
		return "Carousel (empty)"
	}
	index := s.carousel.CurrentIndex()
	name := fmt.Sprint(s.carousel.CurrentItem())
	if named, ok := s.carousel.CurrentItem().(items.Named); ok {
		name = named.Name()
	}
	return fmt.Sprintf("Carousel: %s (%d/%d)", name, index+1, n)
}

func (s *scene) SetTitleCallback(callback func(title string)) {
	s.onTitle = callback
}

func (s *scene) SetProfilerToggleCallback(callback func()) {
	s.onToggleProfiler = callback
}

func (s *scene) Close() {
	s.unsub()
	s.carousel.Close()
	if s.presenter != nil {
		s.presenter.Release()
	}
}
