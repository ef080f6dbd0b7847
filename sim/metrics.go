// Tracks simulation-wide and per-process scheduling statistics:
// turnaround, wait, CPU idle time and utilization.

package sim

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/inference-sim/rrsim/sim/trace"
)

// ProcessStats holds the outcome of one terminated process.
type ProcessStats struct {
	PID         ProcessID
	Arrival     int64
	Completion  int64
	Turnaround  int64 // Completion - Arrival
	Wait        int64 // Turnaround - total CPU time; includes I/O and queueing
	CPUTime     int64
	IOTime      int64
	Preemptions int
}

// Metrics aggregates statistics about the simulation
// for final reporting.
type Metrics struct {
	Completed    []ProcessStats // one sample per termination, in termination order
	CPUIdle      int64          // cumulative time the CPU sat idle before a dispatch
	SimEndedTime int64          // time of the last processed event
	Dispatches   int            // number of RUNNING events executed
	Preemptions  int            // number of quantum expirations
}

// Summary is the end-of-run report.
type Summary struct {
	FinalTime      int64
	CPUUtilization float64 // ratio in [0, 1]
	AvgTurnaround  float64
	AvgWait        float64
	P50Turnaround  float64
	P90Turnaround  float64
	P50Wait        float64
	P90Wait        float64
	Completed      int
	Empty          bool // true when no process terminated; averages are reported as 0
}

func NewMetrics() *Metrics {
	return &Metrics{
		Completed: make([]ProcessStats, 0),
	}
}

// RecordCompletion records the turnaround and wait sample of p terminating at now.
func (m *Metrics) RecordCompletion(p *Process, now int64) ProcessStats {
	turnaround := now - p.ArrivalTime
	stats := ProcessStats{
		PID:         p.ID,
		Arrival:     p.ArrivalTime,
		Completion:  now,
		Turnaround:  turnaround,
		Wait:        turnaround - p.TotalCPU(),
		CPUTime:     p.TotalCPU(),
		IOTime:      p.TotalIO(),
		Preemptions: p.Preemptions,
	}
	m.Completed = append(m.Completed, stats)
	return stats
}

// AddIdle charges d ticks of CPU idle time.
func (m *Metrics) AddIdle(d int64) {
	m.CPUIdle += d
}

// Utilization returns (SimEndedTime - CPUIdle) / SimEndedTime, or 0 when no time elapsed.
func (m *Metrics) Utilization() float64 {
	if m.SimEndedTime <= 0 {
		return 0
	}
	return float64(m.SimEndedTime-m.CPUIdle) / float64(m.SimEndedTime)
}

// Summary computes the end-of-run report.
func (m *Metrics) Summary() Summary {
	tats := make([]int64, len(m.Completed))
	waits := make([]int64, len(m.Completed))
	for i, s := range m.Completed {
		tats[i] = s.Turnaround
		waits[i] = s.Wait
	}
	return Summary{
		FinalTime:      m.SimEndedTime,
		CPUUtilization: m.Utilization(),
		AvgTurnaround:  CalculateMean(tats),
		AvgWait:        CalculateMean(waits),
		P50Turnaround:  CalculatePercentile(tats, 50),
		P90Turnaround:  CalculatePercentile(tats, 90),
		P50Wait:        CalculatePercentile(waits, 50),
		P90Wait:        CalculatePercentile(waits, 90),
		Completed:      len(m.Completed),
		Empty:          len(m.Completed) == 0,
	}
}

// Record converts the summary into its trace representation.
func (s Summary) Record() trace.SummaryRecord {
	return trace.SummaryRecord{
		FinalTime:      s.FinalTime,
		CPUUtilization: s.CPUUtilization,
		AvgTurnaround:  s.AvgTurnaround,
		AvgWait:        s.AvgWait,
		Completed:      s.Completed,
	}
}

// Print renders the per-process table and the aggregate figures to w.
func (m *Metrics) Print(w io.Writer) {
	s := m.Summary()
	_, _ = fmt.Fprintln(w, "=== Simulation Metrics ===")
	if s.Empty {
		_, _ = fmt.Fprintln(w, "No processes terminated (empty workload); statistics are zero.")
		_, _ = fmt.Fprintf(w, "Final Time           : %d\n", s.FinalTime)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PID", "Arrival", "CPU", "I/O", "Exit", "Turnaround", "Wait", "Preempted"})
	for _, p := range m.Completed {
		table.Append([]string{
			strconv.FormatInt(int64(p.PID), 10),
			strconv.FormatInt(p.Arrival, 10),
			strconv.FormatInt(p.CPUTime, 10),
			strconv.FormatInt(p.IOTime, 10),
			strconv.FormatInt(p.Completion, 10),
			strconv.FormatInt(p.Turnaround, 10),
			strconv.FormatInt(p.Wait, 10),
			strconv.Itoa(p.Preemptions),
		})
	}
	table.SetFooter([]string{"", "", "", "", "",
		fmt.Sprintf("Average %.2f", s.AvgTurnaround),
		fmt.Sprintf("Average %.2f", s.AvgWait),
		strconv.Itoa(m.Preemptions)})
	table.Render()

	_, _ = fmt.Fprintf(w, "Completed Processes  : %d\n", s.Completed)
	_, _ = fmt.Fprintf(w, "Final Time           : %d\n", s.FinalTime)
	_, _ = fmt.Fprintf(w, "CPU Idle             : %d\n", m.CPUIdle)
	_, _ = fmt.Fprintf(w, "CPU Utilization      : %.2f%%\n", s.CPUUtilization*100)
	_, _ = fmt.Fprintf(w, "Turnaround p50/p90   : %.2f / %.2f\n", s.P50Turnaround, s.P90Turnaround)
	_, _ = fmt.Fprintf(w, "Wait p50/p90         : %.2f / %.2f\n", s.P50Wait, s.P90Wait)
}
