package convert

import (
	"strings"

	"finbridge/internal/camt"
	"finbridge/internal/datev"
	"finbridge/internal/logging"
	"finbridge/internal/models"
	"finbridge/internal/mt9xx"
	"finbridge/internal/parsererror"
	"finbridge/internal/swift"
)

// Format names a statement format family the pipeline can read or write.
type Format string

const (
	FormatUnknown Format = ""
	FormatMT940   Format = "mt940"
	FormatCamt    Format = "camt"
	FormatDatev   Format = "datev"
)

// FormatFromString resolves a user-supplied format name.
func FormatFromString(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mt940", "mt9xx", "swift":
		return FormatMT940, nil
	case "camt", "camt053", "camt.053", "iso20022", "xml":
		return FormatCamt, nil
	case "datev":
		return FormatDatev, nil
	}
	return FormatUnknown, &parsererror.UnknownFormatError{Token: s, Kind: "target format"}
}

// DetectFormat classifies raw input text by its leading structure: a
// SWIFT envelope or tag line, an XML document, or a DATEV meta header.
func DetectFormat(text string) Format {
	trimmed := strings.TrimSpace(text)
	switch {
	case swift.HasEnvelope(text), strings.HasPrefix(trimmed, ":"):
		return FormatMT940
	case strings.HasPrefix(trimmed, "<"):
		return FormatCamt
	case strings.HasPrefix(trimmed, `"EXTF"`), strings.HasPrefix(trimmed, `"DTVF"`),
		strings.HasPrefix(trimmed, "EXTF;"), strings.HasPrefix(trimmed, "DTVF;"):
		return FormatDatev
	}
	return FormatUnknown
}

// Options configures a conversion pipeline.
type Options struct {
	Logger      logging.Logger
	StrictCodes bool
	// CamtVersion selects the schema version of generated camt.053
	// output. Zero value means the newest supported version.
	CamtVersion camt.Version
	Truncation  datev.TruncationPolicy
	// Registry supplies the extraction metadata behind Extract. Nil
	// means a fresh registry holding only the built-in configurations.
	Registry *camt.Registry
	// Validator, when set, is asked to check camt input before parsing
	// and generated camt output before it is returned.
	Validator camt.SchemaValidator
}

// Pipeline wires the per-format parsers and generators into a single
// text-to-text conversion surface.
type Pipeline struct {
	logger      logging.Logger
	mt940       *mt9xx.Parser
	camt        *camt.Parser
	datev       *datev.Parser
	registry    *camt.Registry
	generic     *camt.GenericExtractor
	validator   camt.SchemaValidator
	camtVersion camt.Version
	truncation  datev.TruncationPolicy
}

func NewPipeline(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}
	camtParser := camt.NewParser(logger)
	camtParser.StrictCodes = opts.StrictCodes
	version := opts.CamtVersion
	if version == "" {
		versions := camt.Camt053.SupportedVersions()
		version = versions[len(versions)-1]
	}
	registry := opts.Registry
	if registry == nil {
		registry = camt.NewRegistry()
		registry.Initialize()
	}
	return &Pipeline{
		logger:      logger,
		mt940:       mt9xx.NewParser(logger),
		camt:        camtParser,
		datev:       datev.NewParser(logger),
		registry:    registry,
		generic:     camt.NewGenericExtractor(registry, logger),
		validator:   opts.Validator,
		camtVersion: version,
		truncation:  opts.Truncation,
	}
}

// Registry exposes the extraction metadata registry backing Extract.
func (p *Pipeline) Registry() *camt.Registry {
	return p.registry
}

// LoadRegistryOverlay merges YAML extraction configurations into the
// registry, letting a deployment cover additional camt types or override
// the built-in field mappings without code.
func (p *Pipeline) LoadRegistryOverlay(data []byte) error {
	return p.registry.LoadYAML(data)
}

// Extract runs the registry-driven extractor over camt XML. This is the
// read path for the investigation and cancellation types that have no
// statement representation, and for any type added via overlay.
func (p *Pipeline) Extract(text string) (*camt.GenericResult, error) {
	if DetectFormat(text) != FormatCamt {
		return nil, &parsererror.UnknownFormatError{Token: snippet(text), Kind: "camt input"}
	}
	if err := p.validateSchema(text); err != nil {
		return nil, err
	}
	return p.generic.Extract(text)
}

// validateSchema asks the configured validator to check camt text. A nil
// validator means the caller did not opt into schema validation.
func (p *Pipeline) validateSchema(text string) error {
	if p.validator == nil {
		return nil
	}
	msgType, ok := camt.DetectType(text)
	if !ok {
		return &parsererror.UnknownFormatError{Token: snippet(text), Kind: "CAMT type"}
	}
	return p.validator.Validate(text, msgType, camt.DetectVersion(text, msgType))
}

// generateCamt renders a statement as camt.053 and, when a validator is
// configured, rejects output that fails schema validation.
func (p *Pipeline) generateCamt(doc *models.StatementDocument) (string, error) {
	text, err := camt.Generate(doc, p.camtVersion)
	if err != nil {
		return "", err
	}
	if p.validator != nil {
		if err := p.validator.Validate(text, camt.Camt053, p.camtVersion); err != nil {
			return "", err
		}
	}
	return text, nil
}

// Parse reads input text in any supported format and returns the common
// statement model together with the detected source format.
func (p *Pipeline) Parse(text string) (*models.StatementDocument, Format, error) {
	source := DetectFormat(text)
	switch source {
	case FormatMT940:
		doc, err := p.mt940.Parse(text)
		return doc, source, err
	case FormatCamt:
		if err := p.validateSchema(text); err != nil {
			return nil, source, err
		}
		doc, err := p.camt.Parse(text)
		return doc, source, err
	case FormatDatev:
		d, err := p.datev.FromString(text)
		if err != nil {
			return nil, source, err
		}
		doc, err := d.ToStatement()
		return doc, source, err
	}
	return nil, FormatUnknown, &parsererror.UnknownFormatError{Token: snippet(text), Kind: "input"}
}

// Convert parses the input, translates it and renders it in the target
// format. Same-format input is normalized through a parse and re-emit.
func (p *Pipeline) Convert(text string, target Format) (string, error) {
	source := DetectFormat(text)
	if source == FormatUnknown {
		return "", &parsererror.UnknownFormatError{Token: snippet(text), Kind: "input"}
	}
	p.logger.Info("converting statement",
		logging.Field{Key: logging.FieldFormat, Value: string(source) + " -> " + string(target)})

	if source == FormatDatev {
		d, err := p.datev.FromString(text)
		if err != nil {
			return "", err
		}
		switch target {
		case FormatMT940:
			doc, err := DatevToMT940(d)
			if err != nil {
				return "", err
			}
			return mt9xx.Generate(doc)
		case FormatCamt:
			doc, err := DatevToCamt(d)
			if err != nil {
				return "", err
			}
			return p.generateCamt(doc)
		case FormatDatev:
			return datev.Write(d, p.truncation)
		}
		return "", &parsererror.UnknownFormatError{Token: string(target), Kind: "target format"}
	}

	doc, _, err := p.Parse(text)
	if err != nil {
		return "", err
	}
	switch target {
	case FormatMT940:
		if source == FormatCamt {
			if doc, err = CamtToMT940(doc); err != nil {
				return "", err
			}
		}
		return mt9xx.Generate(doc)
	case FormatCamt:
		if source == FormatMT940 {
			if doc, err = MT940ToCamt(doc); err != nil {
				return "", err
			}
		}
		return p.generateCamt(doc)
	case FormatDatev:
		d, err := StatementToDatev(doc)
		if err != nil {
			return "", err
		}
		return datev.Write(d, p.truncation)
	}
	return "", &parsererror.UnknownFormatError{Token: string(target), Kind: "target format"}
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 40 {
		return s[:40]
	}
	return s
}
