package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/inference-sim/rrsim/sim/trace"
)

// formatEvent renders one trace record as a human-readable line.
func formatEvent(ev trace.EventRecord) string {
	line := fmt.Sprintf("Time: %d - Process ID: %d %s", ev.Clock, ev.PID, ev.Kind)
	if ev.Kind == "terminated" {
		line += fmt.Sprintf(" - Turn-Around-Time: %d Wait time: %d", ev.Turnaround, ev.Wait)
	}
	return line
}

// formatSummary renders the end-of-run line; utilization is shown as a percentage.
func formatSummary(s *trace.SummaryRecord) string {
	if s.Completed == 0 {
		return fmt.Sprintf("Time: %d - No processes completed (empty workload) - CPU utilization: n/a - Avg TAT: 0.00 - Avg WT: 0.00", s.FinalTime)
	}
	return fmt.Sprintf("Time: %d - CPU utilization: %.2f%% - Avg TAT: %.2f - Avg WT: %.2f",
		s.FinalTime, s.CPUUtilization*100, s.AvgTurnaround, s.AvgWait)
}

// printTrace writes every event line followed by the summary line.
func printTrace(w io.Writer, st *trace.SimulationTrace) error {
	for _, ev := range st.Events {
		if _, err := fmt.Fprintln(w, formatEvent(ev)); err != nil {
			return err
		}
	}
	if st.Summary != nil {
		if _, err := fmt.Fprintln(w, formatSummary(st.Summary)); err != nil {
			return err
		}
	}
	return nil
}

// writeTraceCSV writes the event trace to path, one row per event.
func writeTraceCSV(path string, st *trace.SimulationTrace) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing trace file: %w", closeErr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "pid", "event", "turnaround", "wait"}); err != nil {
		return fmt.Errorf("writing trace header: %w", err)
	}
	for _, ev := range st.Events {
		rec := []string{
			strconv.FormatInt(ev.Clock, 10),
			strconv.FormatInt(ev.PID, 10),
			ev.Kind,
			"",
			"",
		}
		if ev.Kind == "terminated" {
			rec[3] = strconv.FormatInt(ev.Turnaround, 10)
			rec[4] = strconv.FormatInt(ev.Wait, 10)
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("writing trace row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
