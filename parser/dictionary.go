package parser

// Dictionary maps 64-bit writer-assigned ids to values.
//
// Ids are not required to be dense, but writers assign them more or
// less monotonically, so a pre-sized map gives O(1) average lookups
// with a single allocation per pool. Entries are never mutated after
// insertion; consumers share them by reference.
type Dictionary[T any] struct {
	entries map[int64]T
}

// NewDictionary creates an empty dictionary.
func NewDictionary[T any]() *Dictionary[T] {
	return &Dictionary[T]{entries: make(map[int64]T)}
}

// Preallocate hints the expected number of entries about to be added
// and returns that count for the caller to iterate. The capacity
// reservation only applies while the dictionary is still empty.
func (d *Dictionary[T]) Preallocate(n int32) int {
	if n > 0 && len(d.entries) == 0 {
		d.entries = make(map[int64]T, n)
	}
	if n < 0 {
		return 0
	}

	return int(n)
}

// Put stores value under id, replacing any previous entry.
func (d *Dictionary[T]) Put(id int64, value T) {
	d.entries[id] = value
}

// Get returns the value stored under id.
func (d *Dictionary[T]) Get(id int64) (T, bool) {
	v, ok := d.entries[id]

	return v, ok
}

// Len returns the number of entries.
func (d *Dictionary[T]) Len() int {
	return len(d.entries)
}

// ForEach calls fn for every entry in unspecified order.
func (d *Dictionary[T]) ForEach(fn func(id int64, value T)) {
	for id, v := range d.entries {
		fn(id, v)
	}
}
