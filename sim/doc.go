// Package sim provides the core discrete-event simulation engine for rrsim,
// a round-robin CPU scheduling simulator with interleaved I/O bursts.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: Process lifecycle (new → ready → running → blocked/terminated) and burst cursors
//   - event.go: Event types that drive the simulation (NewProcess, Ready, Running, Blocked, ...)
//   - simulator.go: The event loop, the state machine and round-robin dispatch
//
// # Architecture
//
// The engine owns one CPU slot, a FIFO ReadyQueue and a (time, seq) ordered
// EventQueue. Events carry process IDs; processes live in a ProcessTable.
// Sub-packages:
//   - sim/workload/: workload loading (text and YAML) and synthetic generation
//   - sim/trace/: event trace and summary records
//
// Metrics accumulates turnaround, wait and CPU idle time and produces the
// end-of-run Summary.
package sim
