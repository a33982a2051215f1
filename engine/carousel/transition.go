package carousel

import (
	"github.com/Carmen-Shannon/oxy-carousel/common"
	"github.com/Carmen-Shannon/oxy-carousel/engine/animation"
	"github.com/Carmen-Shannon/oxy-carousel/engine/items"
	"github.com/Carmen-Shannon/oxy-carousel/engine/planner"
)

func (c *carouselImpl) Next() bool {
	return c.rotateBy(common.DirectionForward)
}

func (c *carouselImpl) Previous() bool {
	return c.rotateBy(common.DirectionBackward)
}

func (c *carouselImpl) rotateBy(dir common.Direction) bool {
	c.mu.Lock()
	if len(c.items) <= 1 {
		c.mu.Unlock()
		return false
	}
	return c.begin(planner.Plan{Direction: dir, Steps: 1})
}

func (c *carouselImpl) MoveTo(item items.Item) error {
	if item == nil {
		return common.InvalidArgument("cannot move to a nil item")
	}
	c.mu.Lock()
	index := -1
	for i, it := range c.items {
		if it == item {
			index = i
			break
		}
	}
	if index < 0 {
		c.mu.Unlock()
		c.trace.add(c.logger, "item %v not found", item)
		return nil
	}
	return c.moveToIndex(index)
}

func (c *carouselImpl) MoveToName(name string) error {
	if name == "" {
		return common.InvalidArgument("cannot move to an empty name")
	}
	c.mu.Lock()
	index := -1
	for i, it := range c.items {
		if n, ok := it.(items.Named); ok && n.Name() == name {
			index = i
			break
		}
	}
	if index < 0 {
		c.mu.Unlock()
		c.trace.add(c.logger, "unable to find item with name %q", name)
		return nil
	}
	return c.moveToIndex(index)
}

// moveToIndex plans and starts the shorter rotation to index. Caller must hold the mutex; it is
// released before returning.
func (c *carouselImpl) moveToIndex(index int) error {
	if index == c.current {
		c.mu.Unlock()
		return nil
	}
	plan, err := planner.PlanMove(c.current, index, len(c.items))
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.begin(plan)
	return nil
}

// begin runs a planned transition: it arms the carousel, builds every face the camera will pass,
// advances the current face and hands the three phase timeline to the player. Blocked plans are
// dropped silently and a failed build leaves the carousel untouched.
// Caller must hold the mutex; it is released before returning.
func (c *carouselImpl) begin(plan planner.Plan) bool {
	if plan.Noop() || c.state != StateIdle || !plan.Allowed(c.canForward, c.canBack) {
		c.mu.Unlock()
		return false
	}
	if err := c.prepare(); err != nil {
		c.mu.Unlock()
		c.trace.add(c.logger, "failed to lay out faces: %v", err)
		return false
	}

	var ev events
	n := len(c.items)
	c.state = StateArmed
	pathCount := plan.Steps
	if c.margin > 0 {
		// every face can show through the gaps
		pathCount = n
	}
	if err := c.cache.EnsurePath(c.current, plan.Direction, pathCount); err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		c.trace.add(c.logger, "failed to build faces along the path: %v", err)
		return false
	}

	timeline, err := animation.TransitionTimeline(animation.TransitionParams{
		Axis:         c.orientation.Axis(),
		SideCount:    n,
		Steps:        plan.Steps,
		Multiplier:   int(plan.Direction),
		ZoomTime:     c.zoomTime,
		RotationTime: c.rotationTime,
	})
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		c.trace.add(c.logger, "failed to build the transition timeline: %v", err)
		return false
	}

	target := planner.Advance(c.current, plan.Direction, plan.Steps, n)
	face, err := c.cache.EnsureFace(target)
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		c.trace.add(c.logger, "failed to build face %d: %v", target, err)
		return false
	}

	c.trace.add(c.logger, "rotating %s %d step(s) from face %d to face %d", plan.Direction, plan.Steps, c.current, target)
	c.current = target
	c.targetPose = face.CameraPose()
	c.setFlags(&ev, false, false)
	c.state = StateAnimating
	c.transitionID++
	id := c.transitionID
	player, cam := c.player, c.cam
	c.mu.Unlock()

	ev.emit()
	player.Play(timeline, cam, func() { c.complete(id) })
	return true
}

// complete returns the carousel to idle after the player finished transition id.
func (c *carouselImpl) complete(id uint64) {
	c.mu.Lock()
	if c.state != StateAnimating || id != c.transitionID {
		c.mu.Unlock()
		return
	}
	var ev events
	c.state = StateIdle
	if err := c.prepare(); err != nil {
		c.trace.add(c.logger, "failed to reset viewport: %v", err)
	}
	c.setFlags(&ev, c.rotatable(), c.rotatable())
	c.publish(&ev)
	c.mu.Unlock()

	ev.emit()
}
