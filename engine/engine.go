package engine

import (
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-carousel/engine/profiler"
	"github.com/Carmen-Shannon/oxy-carousel/engine/window"
)

// Stage is what the engine drives each tick and frame. scene.Scene implements it.
type Stage interface {
	Active() bool
	Tick(deltaTime float32)
	Render() (bool, error)
	Resize(width, height int)
	HandleKey(keyCode uint32) bool
	HandleClick(x, y float64)
	HandleDrop(paths []string) int
	SetTitleCallback(callback func(title string))
	SetProfilerToggleCallback(callback func())
}

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	stages map[int]Stage

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastRenderErr    string
}

// Engine is the main entry point for the viewer.
// It orchestrates the tick loop, render loop, and window management.
type Engine interface {
	// Window returns the underlying window, nil for headless engines.
	Window() window.Window

	// Profiler returns the engine's profiler.
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// ToggleProfiler flips profiling output.
	ToggleProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// Stages advance their animations at this rate.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers an extra function called each engine tick after the stages.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers an extra function called each render frame after the stages.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddStage registers a stage at the given z-index key and wires it to the window's input,
	// resize and title. Stages are ticked and rendered in ascending key order.
	//
	// Parameters:
	//   - key: the z-index determining order (lower first)
	//   - s: the Stage to register
	AddStage(key int, s Stage)

	// RemoveStage removes the stage at the given z-index key.
	RemoveStage(key int)

	// Stage retrieves the stage registered at the given key, nil if none.
	Stage(key int) Stage

	// Run starts the tick and render loops and runs the window message loop on the calling
	// goroutine. Blocks until the window closes.
	Run()

	// Quit signals all engine goroutines to stop; Run returns once they have exited.
	// Safe to call multiple times and from tick or render callbacks.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		stages:          make(map[int]Stage),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			for _, s := range e.sortedStages() {
				s.Resize(width, height)
			}
		})
		e.window.SetKeyDownCallback(func(keyCode uint32) {
			for _, s := range e.activeStages() {
				s.HandleKey(keyCode)
			}
		})
		e.window.SetClickCallback(func(x, y float64) {
			for _, s := range e.activeStages() {
				s.HandleClick(x, y)
			}
		})
		e.window.SetDropCallback(func(paths []string) {
			for _, s := range e.activeStages() {
				s.HandleDrop(paths)
			}
		})
	}
	for _, s := range e.sortedStages() {
		e.wire(s)
	}

	return e
}

// wire connects a stage to the profiler toggle and the window title and size.
func (e *engine) wire(s Stage) {
	s.SetProfilerToggleCallback(e.ToggleProfiler)
	if e.window != nil {
		s.SetTitleCallback(e.window.SetTitle)
		s.Resize(e.window.Width(), e.window.Height())
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run() {
	e.handle()
	if e.window == nil {
		<-e.quitChannel
		e.wg.Wait()
		return
	}
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// handle launches the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.running.Store(true)
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

// sortedStages returns the registered stages in ascending key order.
func (e *engine) sortedStages() []Stage {
	e.mu.Lock()
	defer e.mu.Unlock()
	keys := make([]int, 0, len(e.stages))
	for k := range e.stages {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]Stage, 0, len(keys))
	for _, k := range keys {
		out = append(out, e.stages[k])
	}
	return out
}

func (e *engine) activeStages() []Stage {
	all := e.sortedStages()
	active := all[:0]
	for _, s := range all {
		if s.Active() {
			active = append(active, s)
		}
	}
	return active
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Advances every active stage at the configured tick rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			for _, s := range e.activeStages() {
				s.Tick(dt)
			}
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Renders active stages in ascending z-index order. Recovers from panics to avoid crashing the
// process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			for _, s := range e.activeStages() {
				if _, err := s.Render(); err != nil {
					e.logRenderError(err)
				}
			}

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled.Load() {
				e.profiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// logRenderError logs each distinct render error once so a failing surface does not flood the log.
func (e *engine) logRenderError(err error) {
	if msg := err.Error(); msg != e.lastRenderErr {
		e.lastRenderErr = msg
		log.Printf("[Engine] render failed: %v", err)
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) ToggleProfiler() {
	for {
		old := e.profilingEnabled.Load()
		if e.profilingEnabled.CompareAndSwap(old, !old) {
			log.Printf("[Engine] profiler enabled: %v", !old)
			return
		}
	}
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddStage(key int, s Stage) {
	e.mu.Lock()
	e.stages[key] = s
	e.mu.Unlock()
	e.wire(s)
}

func (e *engine) RemoveStage(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.stages, key)
}

func (e *engine) Stage(key int) Stage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stages[key]
}
