// Defines the Process entity that models one simulated process: its CPU/I/O burst
// schedule, the progress cursors the engine advances, and the table that owns it.

package sim

import (
	"fmt"
	"strings"
)

// ProcessID uniquely identifies a process within a simulation run.
type ProcessID int64

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	StateNew        ProcessState = "new"
	StateReady      ProcessState = "ready"
	StateRunning    ProcessState = "running"
	StateBlocked    ProcessState = "blocked"
	StateTerminated ProcessState = "terminated"
)

// Process models a single process's lifecycle in the simulation.
// CPU bursts and I/O bursts alternate, starting and ending with a CPU burst,
// so len(IO) == len(Bursts)-1.
type Process struct {
	ID          ProcessID
	ArrivalTime int64   // Time the process enters the system (in ticks)
	Bursts      []int64 // CPU burst lengths, in order
	IO          []int64 // I/O burst lengths between consecutive CPU bursts

	CurrentBurst int   // index into Bursts of the burst being (or about to be) executed
	CurrentIO    int   // index into IO of the next I/O wait; len(IO) once all I/O is done
	BurstRemain  int64 // CPU time left in the current burst, reduced by preemption
	IORemain     int64 // length of the next I/O wait

	State          ProcessState
	CompletionTime int64 // set when the process terminates
	Preemptions    int   // number of quantum expirations suffered
}

// NewProcess constructs a Process positioned at its first CPU burst and first I/O stage.
// It does not validate its arguments; see Validate.
func NewProcess(id ProcessID, arrival int64, bursts, io []int64) *Process {
	p := &Process{
		ID:          id,
		ArrivalTime: arrival,
		Bursts:      bursts,
		IO:          io,
		State:       StateNew,
	}
	if len(bursts) > 0 {
		p.BurstRemain = bursts[0]
	}
	if len(io) > 0 {
		p.IORemain = io[0]
	}
	return p
}

// Validate checks the burst schedule invariants.
func (p *Process) Validate() error {
	if p.ArrivalTime < 0 {
		return fmt.Errorf("%w: process %d: arrival time must be non-negative, got %d", ErrInvalidWorkload, p.ID, p.ArrivalTime)
	}
	if len(p.Bursts) == 0 {
		return fmt.Errorf("%w: process %d: at least one CPU burst required", ErrInvalidWorkload, p.ID)
	}
	if len(p.IO) != len(p.Bursts)-1 {
		return fmt.Errorf("%w: process %d: %d CPU bursts need %d I/O bursts, got %d",
			ErrInvalidWorkload, p.ID, len(p.Bursts), len(p.Bursts)-1, len(p.IO))
	}
	for i, b := range p.Bursts {
		if b <= 0 {
			return fmt.Errorf("%w: process %d: CPU burst %d must be positive, got %d", ErrInvalidWorkload, p.ID, i, b)
		}
	}
	for i, d := range p.IO {
		if d < 0 {
			return fmt.Errorf("%w: process %d: I/O burst %d must be non-negative, got %d", ErrInvalidWorkload, p.ID, i, d)
		}
	}
	return nil
}

// IsLastCPU reports whether the process is on its final CPU burst.
func (p *Process) IsLastCPU() bool {
	return p.CurrentBurst == len(p.Bursts)-1
}

// IsLastIO reports whether every I/O stage has been consumed.
func (p *Process) IsLastIO() bool {
	return p.CurrentIO == len(p.IO)
}

// HasIO reports whether an I/O stage remains to be performed.
func (p *Process) HasIO() bool {
	return p.CurrentIO < len(p.IO)
}

// NextBurst moves the CPU cursor forward and loads the new burst's length.
// Once the cursor runs past the last burst BurstRemain is 0.
func (p *Process) NextBurst() {
	p.CurrentBurst++
	if p.CurrentBurst < len(p.Bursts) {
		p.BurstRemain = p.Bursts[p.CurrentBurst]
	} else {
		p.BurstRemain = 0
	}
}

// NextIO moves the I/O cursor forward and loads the next wait's length.
func (p *Process) NextIO() {
	if p.IsLastIO() {
		return
	}
	p.CurrentIO++
	if p.CurrentIO < len(p.IO) {
		p.IORemain = p.IO[p.CurrentIO]
	} else {
		p.IORemain = 0
	}
}

// TotalCPU returns the sum of all CPU bursts.
func (p *Process) TotalCPU() int64 {
	var sum int64
	for _, b := range p.Bursts {
		sum += b
	}
	return sum
}

// TotalIO returns the sum of all I/O bursts.
func (p *Process) TotalIO() int64 {
	var sum int64
	for _, d := range p.IO {
		sum += d
	}
	return sum
}

func (p *Process) String() string {
	return fmt.Sprintf("Process: (ID: %d, State: %s, Burst: %d/%d, Remain: %d, ArrivalTime: %d)",
		p.ID, p.State, p.CurrentBurst, len(p.Bursts), p.BurstRemain, p.ArrivalTime)
}

// IDGenerator hands out sequential process identifiers.
// Each loader owns its generator, so identifier assignment is reproducible.
type IDGenerator struct {
	next ProcessID
}

// NewIDGenerator creates a generator whose first identifier is first.
func NewIDGenerator(first ProcessID) *IDGenerator {
	return &IDGenerator{next: first}
}

// Next returns the next identifier.
func (g *IDGenerator) Next() ProcessID {
	id := g.next
	g.next++
	return id
}

// ProcessTable owns every Process of a run, keyed by ID.
// Iteration follows insertion order so reports are deterministic.
type ProcessTable struct {
	byID  map[ProcessID]*Process
	order []ProcessID
}

// NewProcessTable creates an empty table.
func NewProcessTable() *ProcessTable {
	return &ProcessTable{byID: make(map[ProcessID]*Process)}
}

// Add inserts p. Duplicate IDs are rejected.
func (t *ProcessTable) Add(p *Process) error {
	if _, dup := t.byID[p.ID]; dup {
		return fmt.Errorf("%w: duplicate process ID %d", ErrInvalidWorkload, p.ID)
	}
	t.byID[p.ID] = p
	t.order = append(t.order, p.ID)
	return nil
}

// Get looks up a process by ID.
func (t *ProcessTable) Get(id ProcessID) (*Process, bool) {
	p, ok := t.byID[id]
	return p, ok
}

// Len returns the number of processes.
func (t *ProcessTable) Len() int {
	return len(t.order)
}

// Processes returns all processes in insertion order.
func (t *ProcessTable) Processes() []*Process {
	out := make([]*Process, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

func (t *ProcessTable) String() string {
	ids := make([]string, 0, len(t.order))
	for _, id := range t.order {
		ids = append(ids, fmt.Sprint(id))
	}
	return "[" + strings.Join(ids, " ") + "]"
}
