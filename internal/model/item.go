package model

import (
	"cmp"
	"slices"
)

// DefaultPriority is assigned when the caller does not pick one.
// Lower numbers sort first.
const DefaultPriority = 1

// Item is the domain model for a todo entry.
type Item struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Priority  int    `json:"priority"`
}

// SortByPriority orders items by ascending priority in place.
// Items with equal priority keep their relative order.
func SortByPriority(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
}

// Split partitions items into pending and completed, preserving order.
func Split(items []Item) (pending, done []Item) {
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pending = append(pending, it)
		}
	}
	return
}

// Stats counts completed and pending items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
