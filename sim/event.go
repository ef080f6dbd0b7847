package sim

// EventType tags the state transition an Event requests.
type EventType int

const (
	EventNewProcess EventType = iota
	EventProcessReady
	EventProcessRunning
	EventProcessBlocked
	EventProcessTerminated
	EventProcessPreempted
)

func (t EventType) String() string {
	switch t {
	case EventNewProcess:
		return "created"
	case EventProcessReady:
		return "ready"
	case EventProcessRunning:
		return "running"
	case EventProcessBlocked:
		return "blocked"
	case EventProcessTerminated:
		return "terminated"
	case EventProcessPreempted:
		return "preempted"
	default:
		return "unknown"
	}
}

// Event is a timestamped request to transition a process's state.
// It carries the process ID rather than the process itself; the Simulator
// resolves it through its ProcessTable.
type Event struct {
	Type EventType
	Time int64     // Simulation time at which the event fires (in ticks)
	PID  ProcessID // Process the event applies to

	seq uint64 // push order, assigned by EventQueue.Schedule
}

// NewEvent creates an event of the given type.
func NewEvent(t EventType, time int64, pid ProcessID) *Event {
	return &Event{Type: t, Time: time, PID: pid}
}

// Timestamp returns the scheduled time of the event.
func (e *Event) Timestamp() int64 {
	return e.Time
}

// Seq returns the sequence number assigned when the event was queued.
func (e *Event) Seq() uint64 {
	return e.seq
}
