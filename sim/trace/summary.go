package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents     int
	UniqueProcesses int
	Preemptions     int
	Terminations    int
	KindCounts      map[string]int // event kind → number of records
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KindCounts: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	seen := make(map[int64]bool)
	for _, ev := range st.Events {
		summary.KindCounts[ev.Kind]++
		seen[ev.PID] = true
	}
	summary.TotalEvents = len(st.Events)
	summary.UniqueProcesses = len(seen)
	summary.Preemptions = summary.KindCounts["preempted"]
	summary.Terminations = summary.KindCounts["terminated"]

	return summary
}
