package state

import "sort"

type entry[T any] struct {
	seq   uint64
	value T
}

// Collection holds entities keyed by id. Replace and remove are O(1); the
// ordered view is only built by Values.
type Collection[T any] struct {
	key   func(T) int64
	items map[int64]entry[T]
	seq   uint64
}

func NewCollection[T any](key func(T) int64) *Collection[T] {
	return &Collection[T]{
		key:   key,
		items: make(map[int64]entry[T]),
	}
}

// Reset drops every entity and loads values in the given order.
func (c *Collection[T]) Reset(values []T) {
	c.items = make(map[int64]entry[T], len(values))
	c.seq = 0
	for _, v := range values {
		c.Upsert(v)
	}
}

// Upsert replaces an entity with the same id in place, keeping its position,
// or appends it.
func (c *Collection[T]) Upsert(v T) bool {
	id := c.key(v)
	if existing, ok := c.items[id]; ok {
		c.items[id] = entry[T]{seq: existing.seq, value: v}
		return true
	}
	c.seq++
	c.items[id] = entry[T]{seq: c.seq, value: v}
	return false
}

// Replace swaps the entity with v's id wholesale. It is a no-op when no such
// entity is held.
func (c *Collection[T]) Replace(v T) bool {
	id := c.key(v)
	existing, ok := c.items[id]
	if !ok {
		return false
	}
	c.items[id] = entry[T]{seq: existing.seq, value: v}
	return true
}

func (c *Collection[T]) Modify(id int64, fn func(*T)) bool {
	existing, ok := c.items[id]
	if !ok {
		return false
	}
	fn(&existing.value)
	c.items[id] = existing
	return true
}

func (c *Collection[T]) Each(fn func(*T)) {
	for id, e := range c.items {
		fn(&e.value)
		c.items[id] = e
	}
}

func (c *Collection[T]) Remove(id int64) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	return true
}

func (c *Collection[T]) Get(id int64) (T, bool) {
	e, ok := c.items[id]
	return e.value, ok
}

func (c *Collection[T]) Len() int {
	return len(c.items)
}

func (c *Collection[T]) Clear() {
	c.Reset(nil)
}

// Values projects the collection into insertion order.
func (c *Collection[T]) Values() []T {
	entries := make([]entry[T], 0, len(c.items))
	for _, e := range c.items {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	values := make([]T, 0, len(entries))
	for _, e := range entries {
		values = append(values, e.value)
	}
	return values
}
