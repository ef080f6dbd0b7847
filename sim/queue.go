// Implements the ReadyQueue, which holds all processes waiting for the CPU.
// Processes are enqueued on arrival, on I/O completion and on preemption.

package sim

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// ReadyQueue is a FIFO queue of process IDs waiting to be dispatched.
// Admission appends at the tail; dispatch takes from the head, which yields
// round-robin order among ready processes.
type ReadyQueue struct {
	queue *linkedlistqueue.Queue
}

// NewReadyQueue creates an empty ready queue.
func NewReadyQueue() *ReadyQueue {
	return &ReadyQueue{queue: linkedlistqueue.New()}
}

// Enqueue adds a process to the back of the ready queue.
func (rq *ReadyQueue) Enqueue(pid ProcessID) {
	rq.queue.Enqueue(pid)
}

// Dequeue removes the process at the front of the queue.
// Returns false if the queue is empty.
func (rq *ReadyQueue) Dequeue() (ProcessID, bool) {
	v, ok := rq.queue.Dequeue()
	if !ok {
		return 0, false
	}
	return v.(ProcessID), true
}

// Peek returns the process at the front of the queue without removing it.
// Returns false if the queue is empty.
func (rq *ReadyQueue) Peek() (ProcessID, bool) {
	v, ok := rq.queue.Peek()
	if !ok {
		return 0, false
	}
	return v.(ProcessID), true
}

// Len returns the number of queued processes.
func (rq *ReadyQueue) Len() int {
	return rq.queue.Size()
}

// IsEmpty reports whether no process is waiting.
func (rq *ReadyQueue) IsEmpty() bool {
	return rq.queue.Empty()
}

// Items returns the queued IDs from head to tail.
func (rq *ReadyQueue) Items() []ProcessID {
	values := rq.queue.Values()
	ids := make([]ProcessID, len(values))
	for i, v := range values {
		ids[i] = v.(ProcessID)
	}
	return ids
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, id := range rq.Items() {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprint(id))
	}
	sb.WriteString("]")
	return sb.String()
}
