package carousel

import "github.com/Carmen-Shannon/oxy-carousel/engine/items"

// events collects the notifications produced while the carousel is locked so they can be delivered
// after the lock is released.
type events struct {
	rotation    bool
	canForward  bool
	canBack     bool
	item        bool
	currentItem items.Item
	config      *ConfigChange
	onRotation  func(canForward, canBack bool)
	onItem      func(item items.Item)
	onConfig    func(change ConfigChange)
}

// setFlags updates the rotation flags and records a notification if they changed.
// Caller must hold the mutex.
func (c *carouselImpl) setFlags(ev *events, canForward, canBack bool) {
	if c.canForward == canForward && c.canBack == canBack {
		return
	}
	c.canForward, c.canBack = canForward, canBack
	ev.rotation = true
	ev.canForward, ev.canBack = canForward, canBack
	ev.onRotation = c.onRotationState
}

// publish makes the item on the current face the observable current item.
// Caller must hold the mutex.
func (c *carouselImpl) publish(ev *events) {
	var item items.Item
	if c.current < len(c.items) {
		item = c.items[c.current]
	}
	if item == c.currentItem {
		return
	}
	c.currentItem = item
	ev.item = true
	ev.currentItem = item
	ev.onItem = c.onCurrentItem
}

func (ev *events) emit() {
	if ev.rotation && ev.onRotation != nil {
		ev.onRotation(ev.canForward, ev.canBack)
	}
	if ev.item && ev.onItem != nil {
		ev.onItem(ev.currentItem)
	}
	if ev.config != nil && ev.onConfig != nil {
		ev.onConfig(*ev.config)
	}
}
