package carousel

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-carousel/engine/items"
)

// itemsChanged mirrors a sequence change into the face cache. Adds and removes change the side count,
// which retires every face, while the current index shifts to keep the framed item stable. A replace
// drops one face and a reset drops them all. The current face is
// rebuilt right away while the camera is reset lazily, so an in-flight animation is never
// interrupted.
func (c *carouselImpl) itemsChanged(change items.Change) {
	c.mu.Lock()
	var ev events

	switch change.Action {
	case items.ActionAdd:
		index := min(max(change.Index, 0), len(c.items))
		c.items = slices.Insert(c.items, index, change.Item)
		c.cache.Insert(index)
		if len(c.items) > 1 && index <= c.current {
			c.current++
		}
		c.trace.add(c.logger, "item added at index %d", index)
	case items.ActionRemove:
		if change.Index < 0 || change.Index >= len(c.items) {
			break
		}
		c.items = slices.Delete(c.items, change.Index, change.Index+1)
		c.cache.Remove(change.Index)
		if change.Index < c.current {
			c.current--
		}
		c.trace.add(c.logger, "item removed at index %d", change.Index)
	case items.ActionReplace:
		if change.Index < 0 || change.Index >= len(c.items) {
			break
		}
		c.items[change.Index] = change.Item
		c.cache.Invalidate(change.Index)
		c.trace.add(c.logger, "item replaced at index %d", change.Index)
	case items.ActionReset:
		c.items = c.seq.Items()
		c.current = 0
		c.cache.SetLayout(c.layout())
		c.cache.InvalidateAll()
		c.trace.add(c.logger, "items reset, %d item(s)", len(c.items))
	}

	c.current = min(c.current, max(len(c.items)-1, 0))
	c.needsReset = true
	if len(c.items) > 0 {
		if _, err := c.cache.EnsureFace(c.current); err != nil {
			c.trace.add(c.logger, "failed to rebuild face %d: %v", c.current, err)
		}
	}
	if c.state == StateIdle {
		c.setFlags(&ev, c.rotatable(), c.rotatable())
		c.publish(&ev)
	}
	c.mu.Unlock()

	ev.emit()
}
