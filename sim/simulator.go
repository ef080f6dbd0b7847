// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rrsim/sim/trace"
)

// Simulator is the core object that holds simulation time, system state, and the event loop.
type Simulator struct {
	Clock   int64
	Quantum int64
	// EventQueue has all pending state transitions, ordered by (time, seq)
	EventQueue *EventQueue
	// ReadyQ holds processes waiting for the CPU, dispatched head first
	ReadyQ    *ReadyQueue
	Processes *ProcessTable
	// InCPU is the process that owns the CPU, nil when it is free. Ownership is
	// taken when a RUNNING event is scheduled, so two processes admitted at the
	// same instant cannot both be dispatched.
	InCPU *Process
	// cpuEmptyAt is the time the CPU last became free
	cpuEmptyAt int64
	Metrics    *Metrics
	Trace      *trace.SimulationTrace
}

// NewSimulator validates cfg and processes, registers every process and
// schedules one NEW_PROCESS event per process in load order.
// An empty process list is accepted and produces an empty run.
func NewSimulator(cfg Config, processes []*Process) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level := cfg.TraceLevel
	if level == "" {
		level = trace.TraceLevelEvents
	}
	s := &Simulator{
		Clock:      0,
		Quantum:    cfg.Quantum,
		EventQueue: NewEventQueue(),
		ReadyQ:     NewReadyQueue(),
		Processes:  NewProcessTable(),
		Metrics:    NewMetrics(),
		Trace:      trace.NewSimulationTrace(trace.TraceConfig{Level: level}),
	}
	for _, p := range processes {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if err := s.Processes.Add(p); err != nil {
			return nil, err
		}
		s.Schedule(NewEvent(EventNewProcess, p.ArrivalTime, p.ID))
	}
	if len(processes) == 0 {
		logrus.Warnf("%v: simulation will finish without events", ErrEmptyWorkload)
	}
	return s, nil
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev *Event) {
	sim.EventQueue.Schedule(ev)
}

// Run drains the event queue. It stops at the first internal fault
// (ErrUnknownEventType, ErrInvalidTransition) and returns it.
func (sim *Simulator) Run() error {
	for !sim.EventQueue.IsEmpty() {
		ev := sim.EventQueue.PopNext()
		// advance the clock
		sim.Clock = ev.Timestamp()
		logrus.Infof("[tick %07d] Executing %s for process %d", sim.Clock, ev.Type, ev.PID)
		if err := sim.process(ev); err != nil {
			return err
		}
		sim.dispatch(ev.Time)
	}
	sim.Metrics.SimEndedTime = sim.Clock
	sim.Trace.SetSummary(sim.Metrics.Summary().Record())
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
	return nil
}

// process applies one event's transition.
func (sim *Simulator) process(ev *Event) error {
	p, ok := sim.Processes.Get(ev.PID)
	if !ok {
		return fmt.Errorf("%w: %s event for unknown process %d", ErrInvalidTransition, ev.Type, ev.PID)
	}
	record := trace.EventRecord{Clock: ev.Time, PID: int64(p.ID), Kind: ev.Type.String()}

	switch ev.Type {
	case EventNewProcess:
		sim.admit(p)
	case EventProcessReady:
		sim.admit(p)
		p.NextIO()
	case EventProcessRunning:
		if err := sim.run(p, ev.Time); err != nil {
			return err
		}
	case EventProcessBlocked:
		if err := sim.block(p, ev.Time); err != nil {
			return err
		}
	case EventProcessTerminated:
		stats := sim.terminate(p, ev.Time)
		record.Turnaround = stats.Turnaround
		record.Wait = stats.Wait
	case EventProcessPreempted:
		sim.preempt(p, ev.Time)
	default:
		return fmt.Errorf("%w: %d at tick %d", ErrUnknownEventType, int(ev.Type), ev.Time)
	}

	sim.Trace.RecordEvent(record)
	return nil
}

// admit appends p to the back of the ready queue.
func (sim *Simulator) admit(p *Process) {
	p.State = StateReady
	sim.ReadyQ.Enqueue(p.ID)
	logrus.Debugf("ready queue: %s", sim.ReadyQ)
}

// run starts p's slice on the CPU and schedules how it ends: preemption when
// the remaining burst exceeds the quantum, termination on the last burst,
// otherwise an I/O block.
func (sim *Simulator) run(p *Process, now int64) error {
	if sim.InCPU != p {
		return fmt.Errorf("%w: process %d running without holding the CPU", ErrInvalidTransition, p.ID)
	}
	if now != sim.cpuEmptyAt {
		sim.Metrics.AddIdle(now - sim.cpuEmptyAt)
		logrus.Debugf("CPU idle from %d to %d", sim.cpuEmptyAt, now)
	}
	p.State = StateRunning
	sim.Metrics.Dispatches++

	burst := p.BurstRemain
	switch {
	case burst > sim.Quantum:
		sim.Schedule(NewEvent(EventProcessPreempted, now+sim.Quantum, p.ID))
	case p.IsLastCPU():
		sim.Schedule(NewEvent(EventProcessTerminated, now+burst, p.ID))
	default:
		sim.Schedule(NewEvent(EventProcessBlocked, now+burst, p.ID))
	}
	return nil
}

// block moves p to its next CPU burst and starts its I/O wait.
func (sim *Simulator) block(p *Process, now int64) error {
	if !p.HasIO() {
		return fmt.Errorf("%w: process %d blocked with no I/O stage left", ErrInvalidTransition, p.ID)
	}
	p.State = StateBlocked
	p.NextBurst()
	sim.Schedule(NewEvent(EventProcessReady, now+p.IORemain, p.ID))
	logrus.Debugf("process %d I/O until %d", p.ID, now+p.IORemain)
	sim.freeCPU(now)
	return nil
}

// terminate records p's statistics and releases the CPU.
func (sim *Simulator) terminate(p *Process, now int64) ProcessStats {
	p.State = StateTerminated
	p.CompletionTime = now
	stats := sim.Metrics.RecordCompletion(p, now)
	logrus.Debugf("process %d finished: turnaround=%d wait=%d", p.ID, stats.Turnaround, stats.Wait)
	sim.freeCPU(now)
	return stats
}

// preempt charges a full quantum to p and requeues it at the back.
func (sim *Simulator) preempt(p *Process, now int64) {
	p.BurstRemain -= sim.Quantum
	p.Preemptions++
	sim.Metrics.Preemptions++
	sim.admit(p)
	sim.freeCPU(now)
}

func (sim *Simulator) freeCPU(now int64) {
	sim.InCPU = nil
	sim.cpuEmptyAt = now
}

// dispatch hands a free CPU to the head of the ready queue at time now.
func (sim *Simulator) dispatch(now int64) {
	if sim.InCPU != nil {
		return
	}
	pid, ok := sim.ReadyQ.Dequeue()
	if !ok {
		return
	}
	p, _ := sim.Processes.Get(pid)
	sim.InCPU = p
	sim.Schedule(NewEvent(EventProcessRunning, now, pid))
}
