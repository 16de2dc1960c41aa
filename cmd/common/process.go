// Package common contains shared functionality for command handlers
package common

import (
	"fmt"

	"finbridge/internal/convert"
	"finbridge/internal/export"
	"finbridge/internal/fileutils"
	"finbridge/internal/logging"
)

// TargetCSV is the pseudo target that exports parsed transactions as CSV
// rows instead of rendering another statement format.
const TargetCSV = "csv"

// ConvertText renders input text in the named target format. The target
// is either a statement format name or TargetCSV.
func ConvertText(pipeline *convert.Pipeline, text, target string) (string, error) {
	if target == TargetCSV {
		doc, _, err := pipeline.Parse(text)
		if err != nil {
			return "", err
		}
		return export.WriteCSV(doc)
	}
	format, err := convert.FormatFromString(target)
	if err != nil {
		return "", err
	}
	return pipeline.Convert(text, format)
}

// ProcessFile converts one statement file and writes the result to
// outputFile. An empty outputFile prints to stdout instead.
func ProcessFile(pipeline *convert.Pipeline, inputFile, outputFile, target string, log logging.Logger) error {
	if log == nil {
		log = logging.GetLogger()
	}
	text, err := fileutils.ReadTextFile(inputFile)
	if err != nil {
		return err
	}
	output, err := ConvertText(pipeline, text, target)
	if err != nil {
		return fmt.Errorf("%s: %w", inputFile, err)
	}
	if outputFile == "" {
		fmt.Print(output)
		return nil
	}
	if err := fileutils.WriteTextFile(outputFile, output); err != nil {
		return err
	}
	log.Info("conversion completed",
		logging.Field{Key: logging.FieldFile, Value: outputFile})
	return nil
}
