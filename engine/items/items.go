// Package items holds the caller-owned, observable item sequence a carousel displays.
package items

import (
	"reflect"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-carousel/common"
)

// Item is one carousel entry. Items are compared by identity so they must be comparable values,
// typically pointers.
type Item any

// Named is implemented by items that can be addressed by name.
type Named interface {
	Name() string
}

// Action describes what a Change did to the sequence.
type Action int

const (
	ActionAdd Action = iota
	ActionRemove
	ActionReplace
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	case ActionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers after every mutation.
type Change struct {
	Action Action
	// Index is the affected position; -1 for ActionReset.
	Index int
	Item  Item
	// Old is the replaced or removed item.
	Old Item
}

// Sequence is an ordered, index addressable list of items that notifies subscribers of each change.
// Subscribers run on the mutating goroutine after the sequence lock is released.
type Sequence struct {
	mu          *sync.Mutex
	items       []Item
	subscribers map[int]func(Change)
	nextID      int
}

// NewSequence creates a sequence holding initial.
//
// Parameters:
//   - initial: the starting items
//
// Returns:
//   - *Sequence: the new sequence
//   - error: ErrInvalidArgument if any item is not comparable
func NewSequence(initial ...Item) (*Sequence, error) {
	for i, item := range initial {
		if err := checkItem(item); err != nil {
			return nil, common.InvalidArgument("item %d: %v", i, err)
		}
	}
	return &Sequence{
		mu:          &sync.Mutex{},
		items:       append([]Item(nil), initial...),
		subscribers: make(map[int]func(Change)),
	}, nil
}

func checkItem(item Item) error {
	if item == nil {
		return common.InvalidArgument("nil item")
	}
	if !reflect.TypeOf(item).Comparable() {
		return common.InvalidArgument("item of type %T is not comparable", item)
	}
	return nil
}

// Subscribe registers fn for change notifications.
//
// Parameters:
//   - fn: called after every mutation
//
// Returns:
//   - func(): cancels the subscription
func (s *Sequence) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Len returns the number of items.
func (s *Sequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// At returns the item at index, or nil when index is out of range.
func (s *Sequence) At(index int) Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return nil
	}
	return s.items[index]
}

// Items returns a copy of the current contents.
func (s *Sequence) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

// IndexOf returns the position of item, or -1.
func (s *Sequence) IndexOf(item Item) int {
	if item == nil || !reflect.TypeOf(item).Comparable() {
		return -1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it == item {
			return i
		}
	}
	return -1
}

// IndexOfName returns the position of the first Named item called name, or -1.
func (s *Sequence) IndexOfName(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if n, ok := it.(Named); ok && n.Name() == name {
			return i
		}
	}
	return -1
}

// Append adds item at the end.
func (s *Sequence) Append(item Item) error {
	s.mu.Lock()
	index := len(s.items)
	s.mu.Unlock()
	return s.Insert(index, item)
}

// Insert places item at index, shifting later items up.
//
// Parameters:
//   - index: position in [0, Len()]
//   - item: the item to insert
//
// Returns:
//   - error: ErrInvalidArgument for a bad index or a non-comparable item
func (s *Sequence) Insert(index int, item Item) error {
	if err := checkItem(item); err != nil {
		return err
	}
	s.mu.Lock()
	if index < 0 || index > len(s.items) {
		n := len(s.items)
		s.mu.Unlock()
		return common.InvalidArgument("insert index %d out of range [0,%d]", index, n)
	}
	s.items = slices.Insert(s.items, index, item)
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	notify(subs, Change{Action: ActionAdd, Index: index, Item: item})
	return nil
}

// RemoveAt deletes the item at index.
func (s *Sequence) RemoveAt(index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.items) {
		n := len(s.items)
		s.mu.Unlock()
		return common.InvalidArgument("remove index %d out of range [0,%d)", index, n)
	}
	old := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	notify(subs, Change{Action: ActionRemove, Index: index, Old: old})
	return nil
}

// Remove deletes item if present and reports whether it was found.
func (s *Sequence) Remove(item Item) bool {
	index := s.IndexOf(item)
	if index < 0 {
		return false
	}
	return s.RemoveAt(index) == nil
}

// Replace swaps the item at index for item.
func (s *Sequence) Replace(index int, item Item) error {
	if err := checkItem(item); err != nil {
		return err
	}
	s.mu.Lock()
	if index < 0 || index >= len(s.items) {
		n := len(s.items)
		s.mu.Unlock()
		return common.InvalidArgument("replace index %d out of range [0,%d)", index, n)
	}
	old := s.items[index]
	s.items[index] = item
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	notify(subs, Change{Action: ActionReplace, Index: index, Item: item, Old: old})
	return nil
}

// Clear removes every item.
func (s *Sequence) Clear() {
	s.Reset()
}

// Reset replaces the whole contents with items and sends a single ActionReset change.
// Non-comparable items are skipped.
func (s *Sequence) Reset(items ...Item) {
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if checkItem(item) == nil {
			kept = append(kept, item)
		}
	}
	s.mu.Lock()
	s.items = kept
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	notify(subs, Change{Action: ActionReset, Index: -1})
}

// snapshotSubscribers copies the subscriber set in registration order. Caller must hold the mutex.
func (s *Sequence) snapshotSubscribers() []func(Change) {
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(Change), len(ids))
	for i, id := range ids {
		out[i] = s.subscribers[id]
	}
	return out
}

func notify(subs []func(Change), change Change) {
	for _, fn := range subs {
		fn(change)
	}
}
