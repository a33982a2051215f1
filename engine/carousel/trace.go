package carousel

import (
	"fmt"
	"log"
	"sync"
)

const defaultTraceLimit = 256

// debugTrace keeps the most recent diagnostic lines. It has its own lock because the face cache
// reports builds while the carousel is locked.
type debugTrace struct {
	mu    *sync.Mutex
	limit int
	lines []string
}

func newDebugTrace(limit int) *debugTrace {
	return &debugTrace{mu: &sync.Mutex{}, limit: max(limit, 1)}
}

func (t *debugTrace) add(logger *log.Logger, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if logger != nil {
		logger.Printf("[Carousel] %s", line)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if over := len(t.lines) - t.limit; over > 0 {
		t.lines = append(t.lines[:0], t.lines[over:]...)
	}
}

func (t *debugTrace) entries() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.lines...)
}
