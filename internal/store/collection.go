package store

// Collection is an insertion-ordered map keyed by entity identifier.
// Lookup, update and delete are O(1); iteration preserves the order
// records were first added, which is the display order.
type Collection[T any] struct {
	ids   []string
	items map[string]T
}

// NewCollection builds a collection from an ordered list.
func NewCollection[T any](records []T, id func(T) string) Collection[T] {
	c := Collection[T]{items: make(map[string]T, len(records))}
	for _, rec := range records {
		c.Put(id(rec), rec)
	}
	return c
}

// Put inserts or replaces a record. Replacement keeps the original
// position; inserts append.
func (c *Collection[T]) Put(id string, record T) {
	if c.items == nil {
		c.items = make(map[string]T)
	}
	if _, ok := c.items[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.items[id] = record
}

// Delete removes a record. Unknown identifiers are a no-op.
func (c *Collection[T]) Delete(id string) {
	if _, ok := c.items[id]; !ok {
		return
	}
	delete(c.items, id)
	for i, existing := range c.ids {
		if existing == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
}

// Get returns the record for id.
func (c Collection[T]) Get(id string) (T, bool) {
	record, ok := c.items[id]
	return record, ok
}

// Has reports whether id is present.
func (c Collection[T]) Has(id string) bool {
	_, ok := c.items[id]
	return ok
}

// Len returns the number of records.
func (c Collection[T]) Len() int {
	return len(c.ids)
}

// Values returns records in insertion order.
func (c Collection[T]) Values() []T {
	out := make([]T, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.items[id])
	}
	return out
}

// IDs returns identifiers in insertion order.
func (c Collection[T]) IDs() []string {
	return append([]string(nil), c.ids...)
}

// Clone returns an independent copy so the transition function can
// mutate the copy without touching the previous snapshot.
func (c Collection[T]) Clone() Collection[T] {
	clone := Collection[T]{
		ids:   append([]string(nil), c.ids...),
		items: make(map[string]T, len(c.items)),
	}
	for id, record := range c.items {
		clone.items[id] = record
	}
	return clone
}
