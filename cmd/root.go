package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/rrsim/sim"
	"github.com/inference-sim/rrsim/sim/trace"
	"github.com/inference-sim/rrsim/sim/workload"
)

var (
	// CLI flags for the run command
	logLevel   string // Log verbosity level
	firstPID   int64  // Identifier given to the first loaded process
	traceLevel string // Trace verbosity: none or events
	traceOut   string // Optional CSV file receiving the event trace
	showTable  bool   // Print the per-process statistics table
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rrsim",
	Short: "Discrete-event simulator for round-robin CPU scheduling",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runOptions carries everything runSimulation needs, decoupled from flag globals.
type runOptions struct {
	WorkloadPath string
	Quantum      int64
	FirstPID     int64
	TraceLevel   string
	TraceOut     string
	ShowTable    bool
}

// runCmd executes the simulation on a workload file with the given quantum
var runCmd = &cobra.Command{
	Use:   "run <workload> <quantum>",
	Short: "Run the round-robin simulation",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		quantum, err := parseQuantum(args[1])
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		opts := runOptions{
			WorkloadPath: args[0],
			Quantum:      quantum,
			FirstPID:     firstPID,
			TraceLevel:   traceLevel,
			TraceOut:     traceOut,
			ShowTable:    showTable,
		}
		if err := runSimulation(os.Stdout, opts); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// parseQuantum parses the positional quantum argument; it must be a positive integer.
func parseQuantum(arg string) (int64, error) {
	q, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: quantum %q is not an integer", sim.ErrInvalidWorkload, arg)
	}
	if q <= 0 {
		return 0, fmt.Errorf("%w: quantum must be positive, got %d", sim.ErrInvalidWorkload, q)
	}
	return q, nil
}

// runSimulation loads the workload, runs the engine and writes the trace and summary to w.
func runSimulation(w io.Writer, opts runOptions) error {
	records, err := workload.LoadFile(opts.WorkloadPath)
	if err != nil {
		return err
	}
	procs, err := workload.BuildProcesses(records, sim.NewIDGenerator(sim.ProcessID(opts.FirstPID)))
	if err != nil {
		return err
	}
	if err := sim.ValidateWorkload(procs); err != nil {
		if !errors.Is(err, sim.ErrEmptyWorkload) {
			return err
		}
		logrus.Warnf("%s: %v", opts.WorkloadPath, err)
	}

	logrus.Infof("Starting simulation with %d processes, quantum=%d", len(procs), opts.Quantum)
	s, err := sim.NewSimulator(sim.Config{
		Quantum:    opts.Quantum,
		TraceLevel: trace.TraceLevel(opts.TraceLevel),
	}, procs)
	if err != nil {
		return err
	}
	if err := s.Run(); err != nil {
		return err
	}

	if err := printTrace(w, s.Trace); err != nil {
		return err
	}
	if opts.TraceOut != "" {
		if err := writeTraceCSV(opts.TraceOut, s.Trace); err != nil {
			return err
		}
		logrus.Infof("Trace written to %s", opts.TraceOut)
	}
	if opts.ShowTable {
		s.Metrics.Print(w)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().Int64Var(&firstPID, "first-pid", 1, "Identifier assigned to the first process; later processes count up from it")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelEvents), "Trace level (none, events)")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the event trace as CSV to this file")
	runCmd.Flags().BoolVar(&showTable, "table", false, "Print the per-process statistics table")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(generateCmd)
}
