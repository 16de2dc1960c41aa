// Package converter exposes the statement conversion engine as a
// text-to-text library API for embedding applications. The heavy lifting
// lives in the internal packages; this surface stays deliberately small.
package converter

import (
	"finbridge/internal/camt"
	"finbridge/internal/convert"
	"finbridge/internal/datev"
	"finbridge/internal/export"
)

// Format names a statement format family.
type Format = convert.Format

const (
	FormatUnknown = convert.FormatUnknown
	FormatMT940   = convert.FormatMT940
	FormatCamt    = convert.FormatCamt
	FormatDatev   = convert.FormatDatev
)

// SchemaValidator checks camt XML text against the XSD of the named
// message type and version. Implementations are supplied by the
// embedding application; validation only happens when one is set.
type SchemaValidator interface {
	Validate(xmlText, camtType, version string) error
}

// Options configures a Converter. The zero value is usable: lenient code
// validation, newest camt.053 schema version, hard truncation, no schema
// validation.
type Options struct {
	// StrictCodes rejects ISO 20022 codes outside the known closed sets
	// instead of tolerating them as descriptive metadata.
	StrictCodes bool
	// CamtVersion is the two-digit schema version of generated camt.053
	// output, e.g. "08". Empty selects the newest supported version.
	CamtVersion string
	// EllipsisTruncation marks over-long DATEV export fields with "..."
	// instead of cutting them silently.
	EllipsisTruncation bool
	// SchemaValidator, when set, is invoked on camt input before parsing
	// and on generated camt output before it is returned.
	SchemaValidator SchemaValidator
}

// Converter converts statement text between MT940, camt.053 and DATEV.
type Converter struct {
	pipeline *convert.Pipeline
}

// New creates a Converter.
func New(opts Options) *Converter {
	truncation := datev.TruncateHard
	if opts.EllipsisTruncation {
		truncation = datev.TruncateEllipsis
	}
	pipelineOpts := convert.Options{
		StrictCodes: opts.StrictCodes,
		CamtVersion: camt.Version(opts.CamtVersion),
		Truncation:  truncation,
	}
	if opts.SchemaValidator != nil {
		pipelineOpts.Validator = validatorAdapter{opts.SchemaValidator}
	}
	return &Converter{pipeline: convert.NewPipeline(pipelineOpts)}
}

type validatorAdapter struct {
	v SchemaValidator
}

func (a validatorAdapter) Validate(xmlText string, t camt.Type, v camt.Version) error {
	return a.v.Validate(xmlText, t.String(), string(v))
}

// DetectFormat classifies statement text by its leading structure.
func DetectFormat(text string) Format {
	return convert.DetectFormat(text)
}

// FormatFromString resolves a format name such as "mt940" or "camt.053".
func FormatFromString(s string) (Format, error) {
	return convert.FormatFromString(s)
}

// Convert parses the input text, detecting its format, and renders it in
// the target format.
func (c *Converter) Convert(text string, target Format) (string, error) {
	return c.pipeline.Convert(text, target)
}

// ExportCSV parses the input text and renders its transactions as CSV.
func (c *Converter) ExportCSV(text string) (string, error) {
	doc, _, err := c.pipeline.Parse(text)
	if err != nil {
		return "", err
	}
	return export.WriteCSV(doc)
}

// Extraction is the registry-driven field view of a camt message, for
// the cancellation and investigation types that have no statement shape.
type Extraction struct {
	// Type is the canonical message family name, e.g. "camt.056".
	Type string
	// Fields holds the payload-level values. Absent elements have no key.
	Fields map[string]string
	// Items holds the values of each repeated transaction-level element.
	Items []map[string]string
}

// ExtractFields runs the registry-driven extractor over camt XML. Types
// covered out of the box include the cancellation and investigation
// family; LoadRegistryOverlay can extend or override the field mappings.
func (c *Converter) ExtractFields(text string) (*Extraction, error) {
	result, err := c.pipeline.Extract(text)
	if err != nil {
		return nil, err
	}
	return &Extraction{
		Type:   result.Type.String(),
		Fields: result.Fields,
		Items:  result.Items,
	}, nil
}

// LoadRegistryOverlay merges YAML extraction configurations, keyed by
// canonical type name, into the extraction registry.
func (c *Converter) LoadRegistryOverlay(yamlText []byte) error {
	return c.pipeline.LoadRegistryOverlay(yamlText)
}
