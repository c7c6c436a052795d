package sequence

import (
	"container/heap"
	"time"
)

// Scheduled is an entry of a Timeline.
type Scheduled[T any] struct {
	Value T
	At    time.Duration
	order uint64
	index int
}

type timelineHeap[T any] struct {
	items []*Scheduled[T]
}

func (h *timelineHeap[T]) Len() int {
	return len(h.items)
}

// Earlier entries first; entries due at the same time keep insertion order.
func (h *timelineHeap[T]) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.At != b.At {
		return a.At < b.At
	}
	return a.order < b.order
}

func (h *timelineHeap[T]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

func (h *timelineHeap[T]) Push(x any) {
	item := x.(*Scheduled[T])
	item.index = len(h.items)
	h.items = append(h.items, item)
}

func (h *timelineHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	h.items = old[0 : n-1]
	return item
}

// Timeline releases values once a clock passes their scheduled time.
type Timeline[T any] struct {
	h    timelineHeap[T]
	next uint64
}

func NewTimeline[T any]() *Timeline[T] {
	t := &Timeline[T]{}
	heap.Init(&t.h)
	return t
}

// Schedule queues value to become due at at.
func (t *Timeline[T]) Schedule(at time.Duration, value T) *Scheduled[T] {
	item := &Scheduled[T]{
		Value: value,
		At:    at,
		order: t.next,
	}
	t.next++
	heap.Push(&t.h, item)
	return item
}

// Reschedule moves a queued entry to a new time.
func (t *Timeline[T]) Reschedule(item *Scheduled[T], at time.Duration) {
	if item.index < 0 {
		return
	}
	item.At = at
	heap.Fix(&t.h, item.index)
}

// Due removes and returns every value scheduled at or before now, in order.
func (t *Timeline[T]) Due(now time.Duration) []T {
	var out []T
	for t.h.Len() > 0 && t.h.items[0].At <= now {
		out = append(out, heap.Pop(&t.h).(*Scheduled[T]).Value)
	}
	return out
}

// Peek returns the next entry without removing it.
func (t *Timeline[T]) Peek() (*Scheduled[T], bool) {
	if t.h.Len() == 0 {
		return nil, false
	}
	return t.h.items[0], true
}

func (t *Timeline[T]) Len() int {
	return t.h.Len()
}

func (t *Timeline[T]) IsEmpty() bool {
	return t.h.Len() == 0
}
