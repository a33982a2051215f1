package profiler

import (
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Stats is one reporting window of the profiler.
type Stats struct {
	FPS         float64
	Transitions uint64
	FaceBuilds  uint64
	HeapMB      float64
	AllocRateMB float64
	NumGC       uint32
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks frame rate, carousel activity and memory statistics. It logs one line per
// update interval.
type Profiler struct {
	mu sync.Mutex

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	transitions atomic.Uint64
	faceBuilds  atomic.Uint64

	logger *log.Logger
	now    func() time.Time
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: a variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		logger:         log.Default(),
		now:            time.Now,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// RecordTransition counts a started carousel transition. Safe from any goroutine.
func (p *Profiler) RecordTransition() {
	p.transitions.Add(1)
}

// RecordFaceBuild counts a materialized face. Safe from any goroutine.
func (p *Profiler) RecordFaceBuild() {
	p.faceBuilds.Add(1)
}

// Last returns the most recently reported window.
func (p *Profiler) Last() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Tick should be called once per frame. When the update interval has elapsed it reports FPS,
// transitions and face builds since the last report, heap usage, allocation rate and GC pauses.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		Transitions: p.transitions.Swap(0),
		FaceBuilds:  p.faceBuilds.Swap(0),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		NumGC:       p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}

	// PauseNs is a circular buffer of the last 256 pauses.
	start := p.lastGCCount
	if s.NumGC-start > 256 {
		start = s.NumGC - 256
	}
	for i := start; i < s.NumGC; i++ {
		s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	if p.logger != nil {
		p.logger.Printf("[Profiler] FPS: %.2f | Transitions: %d | Face builds: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max: %d µs) | Sys: %.2f MB",
			s.FPS, s.Transitions, s.FaceBuilds, s.HeapMB, s.AllocRateMB, s.NumGC, s.MaxPauseUs, s.SysMB)
	}

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = s
	return true
}
