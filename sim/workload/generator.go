package workload

import (
	"fmt"

	"github.com/inference-sim/rrsim/sim"
)

// GeneratorConfig parameterizes synthetic workload generation.
type GeneratorConfig struct {
	Seed          int64
	NumProcesses  int
	MaxArrivalGap int64 // inter-arrival gap drawn uniformly from [0, MaxArrivalGap]
	MaxCPUBursts  int   // CPU burst count drawn uniformly from [1, MaxCPUBursts]
	MinBurst      int64 // CPU burst length drawn uniformly from [MinBurst, MaxBurst]
	MaxBurst      int64
	MaxIO         int64 // I/O burst length drawn uniformly from [0, MaxIO]

	// ArrivalProcess shapes the inter-arrival gaps (uniform, poisson, gamma, weibull).
	// Gaps never exceed MaxArrivalGap whatever the process.
	ArrivalProcess string
	ArrivalCV      float64 // coefficient of variation for gamma and weibull
	// BurstDist shapes CPU and I/O burst lengths within their bounds
	// (uniform, gaussian, exponential, constant).
	BurstDist string
}

// Validate checks the generator bounds.
func (c GeneratorConfig) Validate() error {
	switch {
	case c.NumProcesses < 0:
		return fmt.Errorf("num processes must be non-negative, got %d", c.NumProcesses)
	case c.MaxArrivalGap < 0:
		return fmt.Errorf("max arrival gap must be non-negative, got %d", c.MaxArrivalGap)
	case c.MaxCPUBursts < 1:
		return fmt.Errorf("max CPU bursts must be at least 1, got %d", c.MaxCPUBursts)
	case c.MinBurst < 1:
		return fmt.Errorf("min burst must be at least 1, got %d", c.MinBurst)
	case c.MaxBurst < c.MinBurst:
		return fmt.Errorf("max burst %d below min burst %d", c.MaxBurst, c.MinBurst)
	case c.MaxIO < 0:
		return fmt.Errorf("max I/O must be non-negative, got %d", c.MaxIO)
	}
	return nil
}

// Generate creates a synthetic workload. Deterministic given the same config.
// Returns records sorted by arrival time.
func Generate(cfg GeneratorConfig) ([]Record, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}

	gaps, err := NewArrivalSampler(cfg.ArrivalProcess, cfg.MaxArrivalGap, cfg.ArrivalCV)
	if err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	cpuLen, err := NewLengthSampler(cfg.BurstDist, cfg.MinBurst, cfg.MaxBurst)
	if err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	ioLen, err := NewLengthSampler(cfg.BurstDist, 0, cfg.MaxIO)
	if err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.Seed))
	arrivals := rng.ForSubsystem(sim.SubsystemArrivals)
	bursts := rng.ForSubsystem(sim.SubsystemBursts)
	ios := rng.ForSubsystem(sim.SubsystemIO)

	records := make([]Record, 0, cfg.NumProcesses)
	var clock int64
	for i := 0; i < cfg.NumProcesses; i++ {
		if i > 0 {
			clock += gaps.SampleGap(arrivals)
		}
		n := 1 + bursts.Intn(cfg.MaxCPUBursts)
		rec := Record{
			Arrival: clock,
			Count:   n,
			Bursts:  make([]int64, n),
			IO:      make([]int64, n-1),
		}
		for j := range rec.Bursts {
			rec.Bursts[j] = cpuLen.Sample(bursts)
		}
		for j := range rec.IO {
			rec.IO[j] = ioLen.Sample(ios)
		}
		records = append(records, rec)
	}
	return records, nil
}
