package sim

import "container/heap"

// EventQueue implements heap.Interface with deterministic ordering.
// Order by: timestamp → sequence number, so events sharing a timestamp
// pop in the order they were scheduled.
type EventQueue struct {
	events  []*Event
	nextSeq uint64
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	eq := &EventQueue{
		events: make([]*Event, 0),
	}
	heap.Init(eq)
	return eq
}

// Len implements heap.Interface
func (eq *EventQueue) Len() int {
	return len(eq.events)
}

// Less implements heap.Interface
func (eq *EventQueue) Less(i, j int) bool {
	ei, ej := eq.events[i], eq.events[j]
	if ei.Time != ej.Time {
		return ei.Time < ej.Time
	}
	return ei.seq < ej.seq
}

// Swap implements heap.Interface
func (eq *EventQueue) Swap(i, j int) {
	eq.events[i], eq.events[j] = eq.events[j], eq.events[i]
}

// Push implements heap.Interface
func (eq *EventQueue) Push(x any) {
	eq.events = append(eq.events, x.(*Event))
}

// Pop implements heap.Interface
func (eq *EventQueue) Pop() any {
	old := eq.events
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	eq.events = old[0 : n-1]
	return item
}

// Schedule stamps e with the next sequence number and adds it to the heap.
func (eq *EventQueue) Schedule(e *Event) {
	eq.nextSeq++
	e.seq = eq.nextSeq
	heap.Push(eq, e)
}

// PopNext removes and returns the next event, or nil when empty.
func (eq *EventQueue) PopNext() *Event {
	if eq.Len() == 0 {
		return nil
	}
	return heap.Pop(eq).(*Event)
}

// Peek returns the next event without removing it
func (eq *EventQueue) Peek() *Event {
	if eq.Len() == 0 {
		return nil
	}
	return eq.events[0]
}

// IsEmpty reports whether no events are pending.
func (eq *EventQueue) IsEmpty() bool {
	return len(eq.events) == 0
}
