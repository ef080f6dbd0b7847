package sim

import (
	"errors"
	"fmt"

	"github.com/inference-sim/rrsim/sim/trace"
)

var (
	// ErrInvalidWorkload marks a workload or configuration that cannot be simulated:
	// inconsistent burst/I/O counts, non-positive quantum, unparsable fields.
	ErrInvalidWorkload = errors.New("invalid workload")

	// ErrEmptyWorkload marks a workload with no processes. The engine still runs
	// it to completion and reports a zero summary.
	ErrEmptyWorkload = errors.New("empty workload")

	// ErrUnknownEventType marks an event outside the closed set of event types.
	// It indicates an engine bug and aborts the run.
	ErrUnknownEventType = errors.New("unknown event type")

	// ErrInvalidTransition marks an event that does not apply to the current
	// state of its process or of the CPU. It indicates an engine bug.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Config groups the engine parameters.
type Config struct {
	Quantum    int64            // round-robin time slice (in ticks, must be > 0)
	TraceLevel trace.TraceLevel // "none" or "events" (empty means events)
}

// Validate checks the engine parameters.
func (c Config) Validate() error {
	if c.Quantum <= 0 {
		return fmt.Errorf("%w: quantum must be positive, got %d", ErrInvalidWorkload, c.Quantum)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("unknown trace level %q; valid: none, events", c.TraceLevel)
	}
	return nil
}

// ValidateWorkload checks every process and reports ErrEmptyWorkload when
// there are none. Callers may treat the empty case as a warning.
func ValidateWorkload(processes []*Process) error {
	if len(processes) == 0 {
		return ErrEmptyWorkload
	}
	for _, p := range processes {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
