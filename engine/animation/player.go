package animation

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-carousel/common"
)

type trackState struct {
	started  bool
	finished bool
	fromZoom float64
	fromRot  common.Quat
}

type run struct {
	timeline Timeline
	order    []int
	states   []trackState
	target   Target
	done     func()
	elapsed  time.Duration
}

type tickPlayerImpl struct {
	mu *sync.Mutex
	// tickMu serializes Advance so runs are only ever stepped by one goroutine.
	tickMu *sync.Mutex

	pending []*run
	active  []*run
}

// TickPlayer is a Player driven by an external clock, typically the engine's tick loop.
// Targets and completion callbacks are only touched from inside Advance.
type TickPlayer interface {
	Player

	// Advance moves every playing timeline forward by dt, applies the new property values and invokes
	// the completion callbacks of timelines that finished.
	//
	// Parameters:
	//   - dt: elapsed time since the previous call
	Advance(dt time.Duration)

	// Active reports whether any timeline is queued or playing.
	Active() bool

	// Finish advances every playing timeline to its end.
	Finish()
}

var _ TickPlayer = &tickPlayerImpl{}

// NewTickPlayer creates an idle TickPlayer.
//
// Returns:
//   - TickPlayer: the new player
func NewTickPlayer() TickPlayer {
	return &tickPlayerImpl{
		mu:     &sync.Mutex{},
		tickMu: &sync.Mutex{},
	}
}

func (p *tickPlayerImpl) Play(timeline Timeline, target Target, done func()) {
	r := newRun(timeline, target, done)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, r)
}

func (p *tickPlayerImpl) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending) > 0 || len(p.active) > 0
}

func (p *tickPlayerImpl) Finish() {
	for p.Active() {
		p.Advance(time.Duration(math.MaxInt64))
	}
}

func (p *tickPlayerImpl) Advance(dt time.Duration) {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	p.mu.Lock()
	p.active = append(p.active, p.pending...)
	p.pending = nil
	runs := slices.Clone(p.active)
	p.mu.Unlock()

	var finished []*run
	for _, r := range runs {
		if remaining := r.timeline.Duration() - r.elapsed; dt >= remaining {
			r.elapsed += remaining
		} else {
			r.elapsed += dt
		}
		r.step()
		if r.elapsed >= r.timeline.Duration() {
			finished = append(finished, r)
		}
	}

	p.mu.Lock()
	p.active = slices.DeleteFunc(p.active, func(r *run) bool {
		return slices.Contains(finished, r)
	})
	p.mu.Unlock()

	for _, r := range finished {
		if r.done != nil {
			r.done()
		}
	}
}

func newRun(timeline Timeline, target Target, done func()) *run {
	order := make([]int, len(timeline.Tracks))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(timeline.Tracks[a].Begin, timeline.Tracks[b].Begin)
	})
	return &run{
		timeline: timeline,
		order:    order,
		states:   make([]trackState, len(timeline.Tracks)),
		target:   target,
		done:     done,
	}
}

// step applies every track that has begun, in begin order, so a later track on the same property
// captures the value an earlier one left behind.
func (r *run) step() {
	for _, i := range r.order {
		track := r.timeline.Tracks[i]
		state := &r.states[i]
		if state.finished || r.elapsed < track.Begin {
			continue
		}
		if !state.started {
			state.started = true
			state.fromZoom = r.target.Zoom()
			state.fromRot = r.target.Rotation()
		}
		progress := 1.0
		if r.elapsed < track.End() {
			progress = track.progress(r.elapsed)
		} else {
			state.finished = true
		}
		apply(track, state, r.target, progress)
	}
}

func apply(track Track, state *trackState, target Target, progress float64) {
	switch track.Property {
	case PropertyZoom:
		target.SetZoom(state.fromZoom + (track.Zoom-state.fromZoom)*progress)
	case PropertyRotation:
		target.SetRotation(state.fromRot.Mul(track.Rotation.Quat(progress)))
	}
}

type immediatePlayerImpl struct{}

// NewImmediatePlayer returns a Player that jumps every track to its final value and completes
// synchronously inside Play. Useful for headless simulation.
//
// Returns:
//   - Player: the immediate player
func NewImmediatePlayer() Player {
	return immediatePlayerImpl{}
}

func (immediatePlayerImpl) Play(timeline Timeline, target Target, done func()) {
	r := newRun(timeline, target, done)
	r.elapsed = timeline.Duration()
	r.step()
	if done != nil {
		done()
	}
}
