package sim

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/rrsim/sim/internal/testutil"
	"github.com/inference-sim/rrsim/sim/trace"
)

// step is a compact view of one trace record for sequence assertions.
type step struct {
	clock int64
	pid   int64
	kind  string
}

func steps(st *trace.SimulationTrace) []step {
	out := make([]step, len(st.Events))
	for i, ev := range st.Events {
		out[i] = step{ev.Clock, ev.PID, ev.Kind}
	}
	return out
}

// newTestProcesses builds processes with sequential IDs starting at 1.
func newTestProcesses(specs ...testutil.GoldenProcess) []*Process {
	gen := NewIDGenerator(1)
	procs := make([]*Process, len(specs))
	for i, s := range specs {
		procs[i] = NewProcess(gen.Next(), s.Arrival, s.Bursts, s.IO)
	}
	return procs
}

func mustRun(t *testing.T, quantum int64, procs []*Process) *Simulator {
	t.Helper()
	s, err := NewSimulator(Config{Quantum: quantum}, procs)
	require.NoError(t, err)
	require.NoError(t, s.Run())
	return s
}

func TestSimulator_SingleBurst_QuantumCoversBurst(t *testing.T) {
	// GIVEN one process with a single burst of 6 and quantum 6
	procs := newTestProcesses(testutil.GoldenProcess{Arrival: 0, Bursts: []int64{6}})

	// WHEN simulated
	s := mustRun(t, 6, procs)

	// THEN it terminates at 6 with turnaround 6 and no wait
	require.Len(t, s.Metrics.Completed, 1)
	stats := s.Metrics.Completed[0]
	assert.Equal(t, int64(6), stats.Completion)
	assert.Equal(t, int64(6), stats.Turnaround)
	assert.Equal(t, int64(0), stats.Wait)
	assert.Equal(t, int64(6), s.Clock)
	assert.Equal(t, StateTerminated, procs[0].State)
}

func TestSimulator_BurstIOBurst_Trace(t *testing.T) {
	// GIVEN bursts [5,3] with I/O [2] and quantum 10
	procs := newTestProcesses(testutil.GoldenProcess{Arrival: 0, Bursts: []int64{5, 3}, IO: []int64{2}})

	// WHEN simulated
	s := mustRun(t, 10, procs)

	// THEN it runs 0→5, waits on I/O 5→7, runs 7→10
	want := []step{
		{0, 1, "created"},
		{0, 1, "running"},
		{5, 1, "blocked"},
		{7, 1, "ready"},
		{7, 1, "running"},
		{10, 1, "terminated"},
	}
	assert.Equal(t, want, steps(s.Trace))

	sum := s.Metrics.Summary()
	assert.Equal(t, int64(10), sum.FinalTime)
	assert.Equal(t, 10.0, sum.AvgTurnaround)
	assert.Equal(t, 2.0, sum.AvgWait)
	assert.InDelta(t, 0.8, sum.CPUUtilization, 1e-9)

	last := s.Trace.Events[len(s.Trace.Events)-1]
	assert.Equal(t, int64(10), last.Turnaround)
	assert.Equal(t, int64(2), last.Wait)
}

func TestSimulator_RoundRobinPair_AlternatesSlices(t *testing.T) {
	// GIVEN two processes of burst 4 arriving together, quantum 2
	procs := newTestProcesses(
		testutil.GoldenProcess{Arrival: 0, Bursts: []int64{4}},
		testutil.GoldenProcess{Arrival: 0, Bursts: []int64{4}},
	)

	// WHEN simulated
	s := mustRun(t, 2, procs)

	// THEN the CPU alternates 2-tick slices and never runs both at once
	want := []step{
		{0, 1, "created"},
		{0, 2, "created"},
		{0, 1, "running"},
		{2, 1, "preempted"},
		{2, 2, "running"},
		{4, 2, "preempted"},
		{4, 1, "running"},
		{6, 1, "terminated"},
		{6, 2, "running"},
		{8, 2, "terminated"},
	}
	assert.Equal(t, want, steps(s.Trace))

	sum := s.Metrics.Summary()
	assert.Equal(t, int64(8), sum.FinalTime)
	assert.Equal(t, 1.0, sum.CPUUtilization)
	assert.Equal(t, int64(6), procs[0].CompletionTime)
	assert.Equal(t, int64(8), procs[1].CompletionTime)
	assert.Equal(t, 1, procs[0].Preemptions)
	assert.Equal(t, 1, procs[1].Preemptions)
}

func TestSimulator_LargeQuantum_NoPreemption(t *testing.T) {
	// GIVEN a quantum larger than every burst
	procs := newTestProcesses(
		testutil.GoldenProcess{Arrival: 0, Bursts: []int64{3, 4}, IO: []int64{6}},
		testutil.GoldenProcess{Arrival: 1, Bursts: []int64{5}},
		testutil.GoldenProcess{Arrival: 2, Bursts: []int64{2, 2, 2}, IO: []int64{1, 1}},
	)

	// WHEN simulated
	s := mustRun(t, 1000, procs)

	// THEN no PREEMPTED event ever fires
	summary := trace.Summarize(s.Trace)
	assert.Equal(t, 0, summary.Preemptions)
	assert.Equal(t, 0, s.Metrics.Preemptions)
	assert.Equal(t, 3, summary.Terminations)
}

func TestSimulator_IdleBeforeFirstArrival(t *testing.T) {
	// GIVEN a process arriving at 5
	procs := newTestProcesses(testutil.GoldenProcess{Arrival: 5, Bursts: []int64{3}})

	// WHEN simulated
	s := mustRun(t, 10, procs)

	// THEN the first 5 ticks are idle
	assert.Equal(t, int64(5), s.Metrics.CPUIdle)
	assert.InDelta(t, 3.0/8.0, s.Metrics.Utilization(), 1e-9)
}

func TestSimulator_EmptyWorkload_TerminatesCleanly(t *testing.T) {
	// GIVEN no processes
	s, err := NewSimulator(Config{Quantum: 4}, nil)
	require.NoError(t, err)

	// WHEN simulated
	require.NoError(t, s.Run())

	// THEN nothing happened and statistics are zero, not NaN
	sum := s.Metrics.Summary()
	assert.True(t, sum.Empty)
	assert.Equal(t, int64(0), sum.FinalTime)
	assert.Equal(t, 0.0, sum.CPUUtilization)
	assert.Empty(t, s.Trace.Events)
	require.NotNil(t, s.Trace.Summary)
	assert.Equal(t, 0, s.Trace.Summary.Completed)
}

func TestNewSimulator_InvalidInput(t *testing.T) {
	valid := func() []*Process {
		return newTestProcesses(testutil.GoldenProcess{Arrival: 0, Bursts: []int64{1}})
	}

	_, err := NewSimulator(Config{Quantum: 0}, valid())
	assert.ErrorIs(t, err, ErrInvalidWorkload, "non-positive quantum")

	_, err = NewSimulator(Config{Quantum: 1}, []*Process{NewProcess(1, 0, []int64{2, 2}, nil)})
	assert.ErrorIs(t, err, ErrInvalidWorkload, "burst/io count mismatch")

	dup := []*Process{NewProcess(1, 0, []int64{1}, nil), NewProcess(1, 3, []int64{1}, nil)}
	_, err = NewSimulator(Config{Quantum: 1}, dup)
	assert.ErrorIs(t, err, ErrInvalidWorkload, "duplicate IDs")
}

func TestSimulator_UnknownEventType_IsFatal(t *testing.T) {
	// GIVEN a simulator with a foreign event queued
	procs := newTestProcesses(testutil.GoldenProcess{Arrival: 0, Bursts: []int64{3}})
	s, err := NewSimulator(Config{Quantum: 2}, procs)
	require.NoError(t, err)
	s.Schedule(NewEvent(EventType(99), 0, procs[0].ID))

	// WHEN simulated
	err = s.Run()

	// THEN the run stops with ErrUnknownEventType
	assert.ErrorIs(t, err, ErrUnknownEventType)
}

func TestSimulator_RunningWithoutCPU_IsInvalidTransition(t *testing.T) {
	// GIVEN two processes at 0 and a forged RUNNING event for the second
	procs := newTestProcesses(
		testutil.GoldenProcess{Arrival: 0, Bursts: []int64{3}},
		testutil.GoldenProcess{Arrival: 0, Bursts: []int64{3}},
	)
	s, err := NewSimulator(Config{Quantum: 2}, procs)
	require.NoError(t, err)
	s.Schedule(NewEvent(EventProcessRunning, 0, procs[1].ID))

	// WHEN simulated
	err = s.Run()

	// THEN the forged dispatch is rejected because the first process holds the CPU
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSimulator_TraceLevelNone_KeepsSummaryOnly(t *testing.T) {
	procs := newTestProcesses(testutil.GoldenProcess{Arrival: 0, Bursts: []int64{3}})
	s, err := NewSimulator(Config{Quantum: 2, TraceLevel: trace.TraceLevelNone}, procs)
	require.NoError(t, err)
	require.NoError(t, s.Run())

	assert.Empty(t, s.Trace.Events)
	require.NotNil(t, s.Trace.Summary)
	assert.Equal(t, int64(3), s.Trace.Summary.FinalTime)
}

// randomProcesses builds a reproducible random workload.
func randomProcesses(seed int64, n int) []*Process {
	rng := rand.New(rand.NewSource(seed))
	gen := NewIDGenerator(1)
	procs := make([]*Process, n)
	arrival := int64(0)
	for i := range procs {
		arrival += rng.Int63n(6)
		nb := 1 + rng.Intn(4)
		bursts := make([]int64, nb)
		io := make([]int64, nb-1)
		for j := range bursts {
			bursts[j] = 1 + rng.Int63n(12)
		}
		for j := range io {
			io[j] = rng.Int63n(9)
		}
		procs[i] = NewProcess(gen.Next(), arrival, bursts, io)
	}
	return procs
}

func TestSimulator_Invariants_RandomWorkloads(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		for _, quantum := range []int64{1, 3, 7, 50} {
			t.Run(fmt.Sprintf("seed=%d/q=%d", seed, quantum), func(t *testing.T) {
				procs := randomProcesses(seed, 8)
				s := mustRun(t, quantum, procs)

				// every process terminates exactly once
				require.Len(t, s.Metrics.Completed, len(procs))

				for _, stats := range s.Metrics.Completed {
					p, ok := s.Processes.Get(stats.PID)
					require.True(t, ok)
					// wait = turnaround - sum(CPU bursts), never negative,
					// and at least the process's own I/O time
					assert.Equal(t, stats.Turnaround-p.TotalCPU(), stats.Wait)
					assert.GreaterOrEqual(t, stats.Wait, p.TotalIO())
					assert.GreaterOrEqual(t, stats.Wait, int64(0))
				}

				u := s.Metrics.Utilization()
				assert.GreaterOrEqual(t, u, 0.0)
				assert.LessOrEqual(t, u, 1.0)

				// busy time equals total CPU demand
				var demand int64
				for _, p := range procs {
					demand += p.TotalCPU()
				}
				assert.Equal(t, demand, s.Metrics.SimEndedTime-s.Metrics.CPUIdle)
			})
		}
	}
}

func TestSimulator_Deterministic_IdenticalTraceAndSummary(t *testing.T) {
	// GIVEN the same workload and quantum twice
	s1 := mustRun(t, 3, randomProcesses(42, 12))
	s2 := mustRun(t, 3, randomProcesses(42, 12))

	// THEN trace and summary are identical
	assert.Equal(t, s1.Trace.Events, s2.Trace.Events)
	assert.Equal(t, s1.Trace.Summary, s2.Trace.Summary)
	assert.Equal(t, s1.Metrics.Summary(), s2.Metrics.Summary())
}

func TestSimulator_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			procs := newTestProcesses(tc.Processes...)
			s := mustRun(t, tc.Quantum, procs)
			sum := s.Metrics.Summary()
			want := tc.Metrics

			assert.Equal(t, want.FinalTime, sum.FinalTime, "final_time")
			assert.Equal(t, want.CPUIdle, s.Metrics.CPUIdle, "cpu_idle")
			assert.Equal(t, want.Completed, sum.Completed, "completed")
			assert.Equal(t, want.Preemptions, s.Metrics.Preemptions, "preemptions")
			testutil.AssertFloat64Equal(t, "cpu_utilization", want.CPUUtilization, sum.CPUUtilization, 1e-9)
			testutil.AssertFloat64Equal(t, "avg_turnaround", want.AvgTurnaround, sum.AvgTurnaround, 1e-9)
			testutil.AssertFloat64Equal(t, "avg_wait", want.AvgWait, sum.AvgWait, 1e-9)

			got := make([]int64, len(procs))
			for i, p := range procs {
				got[i] = p.CompletionTime - p.ArrivalTime
			}
			assert.Equal(t, want.Turnarounds, got, "turnarounds")
		})
	}
}
