// Package trace provides event-trace recording for scheduling simulations.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// EventRecord captures a single processed simulation event.
type EventRecord struct {
	Clock      int64
	PID        int64
	Kind       string
	Turnaround int64 // set on termination only
	Wait       int64 // set on termination only
}

// SummaryRecord captures the end-of-run statistics.
type SummaryRecord struct {
	FinalTime      int64
	CPUUtilization float64 // ratio in [0, 1]
	AvgTurnaround  float64
	AvgWait        float64
	Completed      int
}
