package workload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/rrsim/sim"
)

// CurrentSpecVersion is written by SpecFromRecords.
const CurrentSpecVersion = "1"

// WorkloadSpec is the YAML form of a workload.
// Loaded from YAML via LoadWorkloadSpec(path).
type WorkloadSpec struct {
	Version   string        `yaml:"version"`
	Processes []ProcessSpec `yaml:"processes"`
}

// ProcessSpec describes one process. IO must hold one entry fewer than Bursts.
type ProcessSpec struct {
	Arrival int64   `yaml:"arrival"`
	Bursts  []int64 `yaml:"bursts,flow"`
	IO      []int64 `yaml:"io,flow,omitempty"`
}

// LoadWorkloadSpec reads and parses a YAML workload specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	return ParseWorkloadSpec(data)
}

// ParseWorkloadSpec decodes a YAML workload specification.
func ParseWorkloadSpec(data []byte) (*WorkloadSpec, error) {
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parsing workload spec: %v", sim.ErrInvalidWorkload, err)
	}
	if spec.Version == "" {
		logrus.Debugf("workload spec has no version; assuming %q", CurrentSpecVersion)
		spec.Version = CurrentSpecVersion
	}
	return &spec, nil
}

// Validate checks that all processes in the spec are well formed.
func (s *WorkloadSpec) Validate() error {
	if s.Version != CurrentSpecVersion {
		return fmt.Errorf("%w: unsupported spec version %q; valid: %q", sim.ErrInvalidWorkload, s.Version, CurrentSpecVersion)
	}
	for i, rec := range s.Records() {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("processes[%d]: %w", i, err)
		}
	}
	return nil
}

// Records converts the spec into loader records.
func (s *WorkloadSpec) Records() []Record {
	records := make([]Record, len(s.Processes))
	for i, p := range s.Processes {
		records[i] = Record{
			Arrival: p.Arrival,
			Count:   len(p.Bursts),
			Bursts:  p.Bursts,
			IO:      p.IO,
		}
	}
	return records
}

// SpecFromRecords builds a WorkloadSpec from loader records.
func SpecFromRecords(records []Record) *WorkloadSpec {
	spec := &WorkloadSpec{
		Version:   CurrentSpecVersion,
		Processes: make([]ProcessSpec, len(records)),
	}
	for i, rec := range records {
		spec.Processes[i] = ProcessSpec{
			Arrival: rec.Arrival,
			Bursts:  rec.Bursts,
			IO:      rec.IO,
		}
	}
	return spec
}

// Marshal encodes the spec as YAML.
func (s *WorkloadSpec) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding workload spec: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding workload spec: %w", err)
	}
	return buf.Bytes(), nil
}
