// Package convert implements the statement conversion command
package convert

import (
	"fmt"

	"github.com/spf13/cobra"

	"finbridge/cmd/common"
	"finbridge/cmd/root"
	"finbridge/internal/logging"
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a statement file to another format",
	Long: `Convert reads an MT940, camt or DATEV input file, detects its format
and writes it in the target format selected with --to. The target "csv"
exports the parsed transactions as CSV instead of another statement
format.`,
	RunE: convertFunc,
}

func convertFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}
	if root.SharedFlags.Target == "" {
		return fmt.Errorf("--to is required")
	}
	log := logging.NewLogrusAdapterFromLogger(root.Log)
	log.Info("converting statement file",
		logging.Field{Key: logging.FieldFile, Value: root.SharedFlags.Input})

	pipeline, err := root.NewPipeline()
	if err != nil {
		return err
	}
	return common.ProcessFile(pipeline, root.SharedFlags.Input,
		root.SharedFlags.Output, root.SharedFlags.Target, log)
}
