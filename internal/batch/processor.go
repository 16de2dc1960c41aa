// Package batch converts every statement file found in a directory,
// collecting a per-file outcome so one malformed file never aborts the
// rest of the run.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"finbridge/internal/convert"
	"finbridge/internal/export"
	"finbridge/internal/fileutils"
	"finbridge/internal/logging"
)

// DateRange is the booking period covered by one converted file.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String renders the range as "YYYY-MM-DD_YYYY-MM-DD", empty when unset.
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))
}

// Merge widens the range to include another one.
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	if start.IsZero() || (!other.Start.IsZero() && other.Start.Before(start)) {
		start = other.Start
	}
	end := dr.End
	if end.IsZero() || other.End.After(end) {
		end = other.End
	}
	return DateRange{Start: start, End: end}
}

// Result describes one successfully converted file.
type Result struct {
	Input        string
	Output       string
	Source       convert.Format
	Transactions int
	Period       DateRange
}

// Failure describes one file that could not be converted.
type Failure struct {
	Input string
	Err   error
}

// Summary is the outcome of a directory run.
type Summary struct {
	Converted []Result
	Skipped   []string
	Failed    []Failure
}

// Period is the overall booking period across all converted files.
func (s *Summary) Period() DateRange {
	var dr DateRange
	for _, r := range s.Converted {
		dr = dr.Merge(r.Period)
	}
	return dr
}

// Processor runs a conversion pipeline over a directory of files.
type Processor struct {
	pipeline *convert.Pipeline
	logger   logging.Logger
}

func NewProcessor(pipeline *convert.Pipeline, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Processor{pipeline: pipeline, logger: logger}
}

// ProcessDirectory converts every recognizable statement file directly
// under inputDir into outputDir. Files whose format cannot be detected
// are skipped; files that fail to parse or convert are recorded as
// failures without stopping the run. Target "csv" exports transaction
// rows, any other target renders a statement format.
func (p *Processor) ProcessDirectory(inputDir, outputDir, target string) (*Summary, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", inputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	ext, err := targetExtension(target)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	summary := &Summary{}
	for _, name := range names {
		inputPath := filepath.Join(inputDir, name)
		text, err := fileutils.ReadTextFile(inputPath)
		if err != nil {
			summary.Failed = append(summary.Failed, Failure{Input: inputPath, Err: err})
			continue
		}
		source := convert.DetectFormat(text)
		if source == convert.FormatUnknown {
			p.logger.Debug("skipping unrecognized file",
				logging.Field{Key: logging.FieldFile, Value: inputPath})
			summary.Skipped = append(summary.Skipped, inputPath)
			continue
		}

		result, err := p.processOne(text, inputPath, outputDir, target, ext, source)
		if err != nil {
			p.logger.WithError(err).Error("batch conversion failed",
				logging.Field{Key: logging.FieldFile, Value: inputPath})
			summary.Failed = append(summary.Failed, Failure{Input: inputPath, Err: err})
			continue
		}
		summary.Converted = append(summary.Converted, result)
	}

	p.logger.Info("batch run finished",
		logging.Field{Key: "converted", Value: len(summary.Converted)},
		logging.Field{Key: "skipped", Value: len(summary.Skipped)},
		logging.Field{Key: "failed", Value: len(summary.Failed)})
	return summary, nil
}

func (p *Processor) processOne(text, inputPath, outputDir, target, ext string, source convert.Format) (Result, error) {
	doc, _, err := p.pipeline.Parse(text)
	if err != nil {
		return Result{}, err
	}

	var output string
	if target == "csv" {
		output, err = export.WriteCSV(doc)
	} else {
		var format convert.Format
		if format, err = convert.FormatFromString(target); err == nil {
			output, err = p.pipeline.Convert(text, format)
		}
	}
	if err != nil {
		return Result{}, err
	}

	base := filepath.Base(inputPath)
	outputPath := filepath.Join(outputDir, stripExtension(base)+ext)
	if err := fileutils.WriteTextFile(outputPath, output); err != nil {
		return Result{}, err
	}

	period := DateRange{}
	for _, tx := range doc.Transactions {
		period = period.Merge(DateRange{Start: tx.BookingDate, End: tx.BookingDate})
	}
	return Result{
		Input:        inputPath,
		Output:       outputPath,
		Source:       source,
		Transactions: len(doc.Transactions),
		Period:       period,
	}, nil
}

func targetExtension(target string) (string, error) {
	switch target {
	case "csv":
		return ".csv", nil
	}
	format, err := convert.FormatFromString(target)
	if err != nil {
		return "", err
	}
	switch format {
	case convert.FormatMT940:
		return ".sta", nil
	case convert.FormatCamt:
		return ".xml", nil
	default:
		return ".csv", nil
	}
}

func stripExtension(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
