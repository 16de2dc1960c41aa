// Package analyze implements the format detection command
package analyze

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"finbridge/cmd/root"
	"finbridge/internal/camt"
	"finbridge/internal/convert"
	"finbridge/internal/datev"
	"finbridge/internal/fileutils"
	"finbridge/internal/mt9xx"
	"finbridge/internal/swift"
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Detect the format of a statement file",
	Long: `Analyze reads a statement file and reports its detected format: SWIFT
MT9xx with message type, camt with message type and schema version, or
DATEV with format name and version.`,
	RunE: analyzeFunc,
}

func analyzeFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}
	text, err := fileutils.ReadTextFile(root.SharedFlags.Input)
	if err != nil {
		return err
	}

	switch convert.DetectFormat(text) {
	case convert.FormatMT940:
		return analyzeMT940(text)
	case convert.FormatCamt:
		return analyzeCamt(text)
	case convert.FormatDatev:
		return analyzeDatev(text)
	}
	return fmt.Errorf("unrecognized input format in %s", root.SharedFlags.Input)
}

func analyzeMT940(text string) error {
	fmt.Println("Format: SWIFT MT9xx")
	if swift.HasEnvelope(text) {
		env, err := swift.Parse(text)
		if err != nil {
			return err
		}
		fmt.Printf("Message type: MT%s\n", env.MessageType())
		fmt.Printf("Sender BIC: %s\n", env.Basic.BIC())
	} else {
		fmt.Println("Envelope: none (bare tag lines)")
	}
	docs, err := mt9xx.NewParser(nil).ParseAll(text)
	if err != nil {
		return err
	}
	fmt.Printf("Statements: %d\n", len(docs))
	return nil
}

func analyzeCamt(text string) error {
	msgType, ok := camt.DetectType(text)
	if !ok {
		return fmt.Errorf("not a recognized camt message")
	}
	version := camt.DetectVersion(text, msgType)
	fmt.Printf("Format: ISO 20022 %s\n", msgType)
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Supported: %t\n", msgType.SupportsVersion(version))
	if msgType.IsStatementType() || msgType.IsNotificationType() {
		return nil
	}

	// Cancellation and investigation messages have no statement shape;
	// report their registry-extracted fields instead.
	pipeline, err := root.NewPipeline()
	if err != nil {
		return err
	}
	result, err := pipeline.Extract(text)
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(result.Fields) {
		fmt.Printf("%s: %s\n", name, result.Fields[name])
	}
	fmt.Printf("Items: %d\n", len(result.Items))
	for i, item := range result.Items {
		for _, name := range sortedKeys(item) {
			fmt.Printf("  [%d] %s: %s\n", i+1, name, item[name])
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func analyzeDatev(text string) error {
	analysis, err := datev.NewParser(nil).AnalyzeFormat(text)
	if err != nil {
		return err
	}
	fmt.Printf("Format: DATEV %s\n", analysis.FormatName)
	fmt.Printf("Version: %s\n", analysis.Version)
	fmt.Printf("Supported: %t\n", analysis.Supported)
	fmt.Printf("Lines: %d\n", analysis.LineCount)
	if len(analysis.Currencies) > 0 {
		fmt.Printf("Currencies: %v\n", analysis.Currencies)
	}
	return nil
}
