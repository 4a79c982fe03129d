package date

import "slices"

// History stores a chronological series of values, each associated with a
// specific date. Dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// search returns the index at which 'on' is or would be inserted.
func (h *History[T]) search(on Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, on, Date.Compare)
}

// Set adds a point to the history. An existing value at that date is overwritten.
func (h *History[T]) Set(on Date, v T) {
	i, found := h.search(on)
	if found {
		h.values[i] = v
		return
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
}

// Get returns the value at 'on' and true, or the zero value and false.
func (h *History[T]) Get(on Date) (T, bool) {
	if i, found := h.search(on); found {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// DeleteFrom removes every point at or after 'from'.
func (h *History[T]) DeleteFrom(from Date) {
	i, _ := h.search(from)
	h.days = h.days[:i]
	h.values = h.values[:i]
}

// Values calls fn for each date/value pair in chronological order, stopping
// early when fn returns false.
func (h *History[T]) Values(fn func(on Date, v T) bool) {
	for i, on := range h.days {
		if !fn(on, h.values[i]) {
			return
		}
	}
}
