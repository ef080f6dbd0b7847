// Package testutil provides shared test infrastructure for the rrsim simulator.
// It consolidates golden dataset types and assertion helpers used across
// sim/ and its sub-package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenProcess is one workload record of a golden test case.
type GoldenProcess struct {
	Arrival int64   `json:"arrival"`
	Bursts  []int64 `json:"bursts"`
	IO      []int64 `json:"io"`
}

// GoldenTestCase represents a single test case from the golden dataset.
type GoldenTestCase struct {
	Name      string          `json:"name"`
	Quantum   int64           `json:"quantum"`
	Processes []GoldenProcess `json:"processes"`
	Metrics   GoldenMetrics   `json:"metrics"`
}

// GoldenMetrics represents the expected metrics from a golden test case.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	FinalTime   int64 `json:"final_time"`
	CPUIdle     int64 `json:"cpu_idle"`
	Completed   int   `json:"completed"`
	Preemptions int   `json:"preemptions"`

	// Floating-point metrics derived from the integer clock
	CPUUtilization float64 `json:"cpu_utilization"`
	AvgTurnaround  float64 `json:"avg_turnaround"`
	AvgWait        float64 `json:"avg_wait"`

	// Per-process turnaround in workload order
	Turnarounds []int64 `json:"turnarounds"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
