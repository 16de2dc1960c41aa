// Package parsererror defines the error types reported by the parsing and
// conversion engine. Every core operation either returns a fully valid
// document or one of these errors; there are no partial results.
package parsererror

import "fmt"

// StructuralError reports a violation of a format's structural grammar:
// envelope block boundaries, tag-line syntax, or fixed-field layout.
type StructuralError struct {
	Format   string // "SWIFT", "MT9xx", "CAMT", "DATEV"
	Location string // tag, block number, or "line N"
	Msg      string
	Err      error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: structural error at %s: %s: %v", e.Format, e.Location, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: structural error at %s: %s", e.Format, e.Location, e.Msg)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// MissingEnvelopeError reports that a buffer contains no SWIFT block-1
// envelope where one was required.
type MissingEnvelopeError struct {
	Snippet string
}

func (e *MissingEnvelopeError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("no SWIFT envelope found: input does not start with a '{1:' block (got %q)", e.Snippet)
	}
	return "no SWIFT envelope found: input does not start with a '{1:' block"
}

// UnknownFormatError reports a meta-header or type token that does not
// resolve to any known format.
type UnknownFormatError struct {
	Token string
	Kind  string // "DATEV format" or "CAMT type"
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Token)
}

// UnsupportedVersionError reports a recognized type paired with a schema
// version outside its supported set.
type UnsupportedVersionError struct {
	Type    string
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("version %s is not supported for %s", e.Version, e.Type)
}

// BalanceMismatchError reports that the computed closing balance disagrees
// with the declared one. This is always fatal: silently tolerating it would
// corrupt downstream accounting.
type BalanceMismatchError struct {
	AccountID string
	Expected  string // declared closing amount (signed)
	Computed  string // opening + sum of signed transactions
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("balance mismatch for account %s: declared closing %s, computed %s",
		e.AccountID, e.Expected, e.Computed)
}

// ConfigurationError reports a registry lookup for a type that has no
// registered extraction metadata.
type ConfigurationError struct {
	Type string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no extraction configuration registered for %s", e.Type)
}

// ValidationError reports a business-rule violation in otherwise
// structurally valid input.
type ValidationError struct {
	Format   string
	Rule     string
	Location string
}

func (e *ValidationError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s: validation failed at %s: %s", e.Format, e.Location, e.Rule)
	}
	return fmt.Sprintf("%s: validation failed: %s", e.Format, e.Rule)
}

// FileNotFoundError reports a missing input file. A missing file is never
// mapped to an empty document.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

func (e *FileNotFoundError) Unwrap() error {
	return e.Err
}
