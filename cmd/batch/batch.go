// Package batch handles batch processing of files
package batch

import (
	"fmt"

	"github.com/spf13/cobra"

	"finbridge/cmd/root"
	"finbridge/internal/batch"
	"finbridge/internal/logging"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert every statement file in a directory",
	Long: `Batch converts all recognizable statement files in the input directory
and writes the results to the output directory. Each file is converted
independently; a malformed file is reported and skipped, the rest of the
run continues.

For batch, -i and -o name directories rather than files.

Example:
  finbridge batch -i statements/ -o converted/ -t camt`,
	RunE: batchFunc,
}

func batchFunc(cmd *cobra.Command, args []string) error {
	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("--input and --output directories are required")
	}
	target := root.SharedFlags.Target
	if target == "" {
		target = "csv"
	}

	pipeline, err := root.NewPipeline()
	if err != nil {
		return err
	}
	processor := batch.NewProcessor(pipeline, logging.GetLogger())
	summary, err := processor.ProcessDirectory(inputDir, outputDir, target)
	if err != nil {
		return err
	}

	for _, r := range summary.Converted {
		fmt.Printf("converted %s -> %s (%d transaction(s))\n", r.Input, r.Output, r.Transactions)
	}
	for _, s := range summary.Skipped {
		fmt.Printf("skipped   %s (format not recognized)\n", s)
	}
	for _, f := range summary.Failed {
		fmt.Printf("failed    %s: %v\n", f.Input, f.Err)
	}
	if period := summary.Period(); period.String() != "" {
		fmt.Printf("booking period: %s\n", period.String())
	}
	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d file(s) failed", len(summary.Failed))
	}
	return nil
}
