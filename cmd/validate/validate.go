// Package validate implements the statement validation command
package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"finbridge/cmd/root"
	"finbridge/internal/fileutils"
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse a statement file and check its invariants",
	Long: `Validate parses an MT940, camt or DATEV input file and checks its
structural and business rules, including the opening/closing balance
arithmetic. It exits non-zero when the file is invalid.`,
	RunE: validateFunc,
}

func validateFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}
	text, err := fileutils.ReadTextFile(root.SharedFlags.Input)
	if err != nil {
		return err
	}
	pipeline, err := root.NewPipeline()
	if err != nil {
		return err
	}
	doc, format, err := pipeline.Parse(text)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	fmt.Printf("OK: %s statement, account %s, %d transaction(s)\n",
		format, doc.AccountID, len(doc.Transactions))
	return nil
}
