package trace

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures every processed event.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to events
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether event records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level != TraceLevelNone
}

// SimulationTrace collects event records during a simulation.
type SimulationTrace struct {
	Config  TraceConfig
	Events  []EventRecord
	Summary *SummaryRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config: config,
		Events: make([]EventRecord, 0),
	}
}

// RecordEvent appends an event record. No-op when tracing is disabled.
func (st *SimulationTrace) RecordEvent(record EventRecord) {
	if !st.Config.Enabled() {
		return
	}
	st.Events = append(st.Events, record)
}

// SetSummary stores the end-of-run summary. It is kept at every trace level.
func (st *SimulationTrace) SetSummary(record SummaryRecord) {
	st.Summary = &record
}
