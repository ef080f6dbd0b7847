package workload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rrsim/sim"
)

// Record is one parsed workload line: an arrival time followed by
// alternating CPU and I/O burst lengths that start and end on a CPU burst.
type Record struct {
	Arrival int64
	Count   int // declared number of CPU bursts
	Bursts  []int64
	IO      []int64
}

// Validate checks the declared count and the burst/I/O shape.
func (r Record) Validate() error {
	if r.Arrival < 0 {
		return fmt.Errorf("%w: arrival must be non-negative, got %d", sim.ErrInvalidWorkload, r.Arrival)
	}
	if len(r.Bursts) == 0 {
		return fmt.Errorf("%w: at least one CPU burst required", sim.ErrInvalidWorkload)
	}
	if r.Count != len(r.Bursts) {
		return fmt.Errorf("%w: declared %d CPU bursts, found %d", sim.ErrInvalidWorkload, r.Count, len(r.Bursts))
	}
	if len(r.IO) != len(r.Bursts)-1 {
		return fmt.Errorf("%w: %d CPU bursts need %d I/O bursts, found %d",
			sim.ErrInvalidWorkload, len(r.Bursts), len(r.Bursts)-1, len(r.IO))
	}
	for i, b := range r.Bursts {
		if b <= 0 {
			return fmt.Errorf("%w: CPU burst %d must be positive, got %d", sim.ErrInvalidWorkload, i, b)
		}
	}
	for i, d := range r.IO {
		if d < 0 {
			return fmt.Errorf("%w: I/O burst %d must be non-negative, got %d", sim.ErrInvalidWorkload, i, d)
		}
	}
	return nil
}

// ParseText reads the line-oriented workload format:
//
//	arrival count cpu io cpu ... cpu
//
// Blank lines and lines starting with '#' are skipped.
func ParseText(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading workload: %w", err)
	}
	return records, nil
}

func parseLine(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Record{}, fmt.Errorf("%w: need arrival, count and at least one CPU burst, got %d fields",
			sim.ErrInvalidWorkload, len(fields))
	}
	values := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: field %d %q is not an integer", sim.ErrInvalidWorkload, i+1, f)
		}
		values[i] = v
	}
	rest := values[2:]
	if len(rest)%2 == 0 {
		return Record{}, fmt.Errorf("%w: burst list must end on a CPU burst, got %d values",
			sim.ErrInvalidWorkload, len(rest))
	}
	rec := Record{
		Arrival: values[0],
		Count:   int(values[1]),
		Bursts:  make([]int64, 0, len(rest)/2+1),
		IO:      make([]int64, 0, len(rest)/2),
	}
	for i, v := range rest {
		if i%2 == 0 {
			rec.Bursts = append(rec.Bursts, v)
		} else {
			rec.IO = append(rec.IO, v)
		}
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// LoadFile reads a workload file. Files ending in .yaml or .yml are read as a
// WorkloadSpec; anything else uses the text format.
func LoadFile(path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		spec, err := LoadWorkloadSpec(path)
		if err != nil {
			return nil, err
		}
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		return spec.Records(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening workload: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logrus.Warnf("closing workload %s: %v", path, closeErr)
		}
	}()
	return ParseText(f)
}

// BuildProcesses turns records into processes, taking identifiers from gen
// in record order.
func BuildProcesses(records []Record, gen *sim.IDGenerator) ([]*sim.Process, error) {
	procs := make([]*sim.Process, 0, len(records))
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		bursts := append([]int64(nil), rec.Bursts...)
		ioBursts := append([]int64(nil), rec.IO...)
		procs = append(procs, sim.NewProcess(gen.Next(), rec.Arrival, bursts, ioBursts))
	}
	return procs, nil
}

// WriteText writes records in the text format accepted by ParseText.
func WriteText(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		fields := []string{
			strconv.FormatInt(rec.Arrival, 10),
			strconv.Itoa(len(rec.Bursts)),
		}
		for i, b := range rec.Bursts {
			fields = append(fields, strconv.FormatInt(b, 10))
			if i < len(rec.IO) {
				fields = append(fields, strconv.FormatInt(rec.IO[i], 10))
			}
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
			return fmt.Errorf("writing workload: %w", err)
		}
	}
	return bw.Flush()
}
