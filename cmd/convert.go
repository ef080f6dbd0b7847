package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/rrsim/sim/workload"
)

var convertCmd = &cobra.Command{
	Use:   "convert <workload>",
	Short: "Convert a workload file to the YAML workload format",
	Long:  "Convert a text (or YAML) workload file to a validated YAML WorkloadSpec. Output is written to stdout for piping.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		records, err := workload.LoadFile(args[0])
		if err != nil {
			logrus.Fatalf("Workload conversion failed: %v", err)
		}
		writeSpecToStdout(workload.SpecFromRecords(records))
	},
}

// writeSpecToStdout marshals a WorkloadSpec to YAML and writes to stdout.
func writeSpecToStdout(spec *workload.WorkloadSpec) {
	data, err := spec.Marshal()
	if err != nil {
		logrus.Fatalf("YAML marshal failed: %v", err)
	}
	fmt.Print(string(data))
}
