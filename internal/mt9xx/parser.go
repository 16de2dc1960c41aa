// Package mt9xx parses the tag-line grammar of SWIFT category-9 statement
// messages (MT940/MT942 and friends) into statement documents, and
// generates MT940 text back from them.
package mt9xx

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbridge/internal/fileutils"
	"finbridge/internal/logging"
	"finbridge/internal/models"
	"finbridge/internal/parsererror"
	"finbridge/internal/swift"
)

// Parser parses MT9xx text blocks. A zero-configured parser from NewParser
// is ready to use; the same instance can parse any number of inputs.
type Parser struct {
	logger logging.Logger
}

// NewParser creates an MT9xx parser with the given logger. A nil logger
// falls back to the package default.
func NewParser(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{logger: logger}
}

// ParseFile reads and parses a file containing either a bare text block or
// a full FIN message with envelope.
func (p *Parser) ParseFile(path string) (*models.StatementDocument, error) {
	text, err := fileutils.ReadTextFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

// Parse parses a single statement. When the input carries a SWIFT envelope
// the text block is extracted first; otherwise the whole buffer is treated
// as the text block.
func (p *Parser) Parse(text string) (*models.StatementDocument, error) {
	docs, err := p.ParseAll(text)
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// ParseAll parses every statement in the input. A buffer may contain
// several concatenated FIN messages, and a single text block may contain
// several :20:-delimited statements.
func (p *Parser) ParseAll(text string) ([]*models.StatementDocument, error) {
	var blocks []string
	if swift.HasEnvelope(text) {
		envelopes, err := swift.ParseMultiple(text)
		if err != nil {
			return nil, err
		}
		for _, env := range envelopes {
			blocks = append(blocks, env.Text)
		}
	} else {
		blocks = []string{text}
	}

	var docs []*models.StatementDocument
	for _, block := range blocks {
		fields, err := splitFields(block)
		if err != nil {
			return nil, err
		}
		for _, group := range groupStatements(fields) {
			doc, err := p.buildStatement(group)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	if len(docs) == 0 {
		return nil, &parsererror.StructuralError{
			Format:   "MT9xx",
			Location: "text block",
			Msg:      "no :20: statement found",
		}
	}
	p.logger.Debug("parsed MT9xx statements",
		logging.Field{Key: logging.FieldCount, Value: len(docs)})
	return docs, nil
}

// groupStatements splits a field sequence into per-statement groups, each
// starting at a :20: field.
func groupStatements(fields []field) [][]field {
	var groups [][]field
	var current []field
	for _, f := range fields {
		if f.Tag == "20" && current != nil {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, f)
	}
	if current != nil {
		groups = append(groups, current)
	}
	return groups
}

// buildStatement assembles one statement from its logical fields and
// enforces the balance invariants.
func (p *Parser) buildStatement(fields []field) (*models.StatementDocument, error) {
	doc := &models.StatementDocument{}
	var pending *models.Transaction

	flush := func() {
		if pending != nil {
			doc.Transactions = append(doc.Transactions, *pending)
			pending = nil
		}
	}

	for _, f := range fields {
		switch f.Tag {
		case "20":
			doc.ReferenceID = f.Value
		case "21":
			// Related reference, informational only.
		case "25":
			doc.AccountID = f.Value
		case "28C", "28":
			doc.SequenceNumber = f.Value
		case "60F", "60M":
			bal, err := parseBalance(f)
			if err != nil {
				return nil, err
			}
			bal.SubType = openingSubType(f.Tag)
			doc.Opening = &bal
			doc.Currency = bal.Amount.Currency
		case "61":
			flush()
			tx, err := parseStatementLine(f, doc.Currency)
			if err != nil {
				return nil, err
			}
			pending = &tx
		case "86":
			if pending != nil {
				pending.Reference.AdditionalInfo = f.Value
				pending.PartyName = extractPartyName(f.Value)
				flush()
			} else {
				// Statement-level narrative after :62F:, keep ignoring.
				continue
			}
		case "62F", "62M":
			flush()
			bal, err := parseBalance(f)
			if err != nil {
				return nil, err
			}
			bal.SubType = closingSubType(f.Tag)
			doc.Closing = &bal
			if doc.Currency == "" {
				doc.Currency = bal.Amount.Currency
			}
		case "64", "65", "34F", "13D", "90D", "90C":
			// Available balances, floor limits and turnover summaries are
			// informational for statement conversion.
			continue
		default:
			return nil, &parsererror.StructuralError{
				Format:   "MT9xx",
				Location: lineRef(f.Line),
				Msg:      "unexpected tag :" + f.Tag + ":",
			}
		}
	}
	flush()

	if doc.Opening != nil && doc.Closing != nil && doc.Closing.Date.Before(doc.Opening.Date) {
		return nil, &parsererror.ValidationError{
			Format:   "MT9xx",
			Rule:     "closing balance date precedes opening balance date",
			Location: "tag :62:",
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func openingSubType(tag string) string {
	if tag == "60M" {
		return "ITBD"
	}
	return "OPBD"
}

func closingSubType(tag string) string {
	if tag == "62M" {
		return "ITBD"
	}
	return "CLBD"
}

// parseBalance parses a :60x:/:62x: value of the form
// <C|D><YYMMDD><CCY><amount>, e.g. "C250115EUR10000,00".
func parseBalance(f field) (models.Balance, error) {
	v := f.Value
	fail := func(msg string) (models.Balance, error) {
		return models.Balance{}, &parsererror.StructuralError{
			Format:   "MT9xx",
			Location: "tag :" + f.Tag + ": (" + lineRef(f.Line) + ")",
			Msg:      msg,
		}
	}
	if len(v) < 10 {
		return fail("balance too short: " + v)
	}
	var indicator models.CreditDebit
	switch v[0] {
	case 'C':
		indicator = models.Credit
	case 'D':
		indicator = models.Debit
	default:
		return fail("invalid debit/credit mark " + v[0:1])
	}
	date, err := parseYYMMDD(v[1:7])
	if err != nil {
		return fail("invalid balance date " + v[1:7])
	}
	currency := v[7:10]
	amount, err := parseCommaAmount(v[10:])
	if err != nil {
		return fail("invalid balance amount " + v[10:])
	}
	return models.Balance{
		Indicator: indicator,
		Amount:    models.NewMoney(amount, currency),
		Date:      date,
	}, nil
}

// parseStatementLine parses a :61: value per the grammar
//
//	YYMMDD[MMDD]<sign-code><amount><type><reference>[//<bank-reference>]
//
// The outer YYMMDD is the booking date; a second MMDD is the value date in
// the statement's year, otherwise value date equals booking date.
func parseStatementLine(f field, currency string) (models.Transaction, error) {
	v := f.Value
	fail := func(msg string) (models.Transaction, error) {
		return models.Transaction{}, &parsererror.StructuralError{
			Format:   "MT9xx",
			Location: "tag :61: (" + lineRef(f.Line) + ")",
			Msg:      msg,
		}
	}

	if len(v) < 6 {
		return fail("statement line too short: " + v)
	}
	booking, err := parseYYMMDD(v[:6])
	if err != nil {
		return fail("invalid booking date " + v[:6])
	}
	rest := v[6:]

	valueDate := booking
	if len(rest) >= 4 && isDigits(rest[:4]) {
		valueDate, err = parseMMDD(rest[:4], booking.Year())
		if err != nil {
			return fail("invalid value date " + rest[:4])
		}
		rest = rest[4:]
	}

	// Two-letter reversal codes take precedence over the plain one-letter
	// marks they start with.
	var mark string
	for _, candidate := range []string{"RC", "RD", "DR", "C", "D"} {
		if strings.HasPrefix(rest, candidate) {
			mark = candidate
			break
		}
	}
	indicator, reversal, ok := signCode(mark)
	if !ok || mark == "" {
		return fail("invalid debit/credit mark in " + rest)
	}
	rest = rest[len(mark):]

	// Amount runs until the first letter, comma as decimal separator.
	end := 0
	for end < len(rest) && (rest[end] >= '0' && rest[end] <= '9' || rest[end] == ',') {
		end++
	}
	if end == 0 {
		return fail("missing amount in " + v)
	}
	amount, err := parseCommaAmount(rest[:end])
	if err != nil {
		return fail("invalid amount " + rest[:end])
	}
	rest = rest[end:]

	if len(rest) < 4 {
		return fail("missing transaction type code in " + v)
	}
	typeCode := rest[:4]
	rest = rest[4:]

	ownerRef := rest
	bankRef := ""
	if idx := strings.Index(rest, "//"); idx >= 0 {
		ownerRef = rest[:idx]
		bankRef = rest[idx+2:]
	}
	if ownerRef == "NONREF" {
		ownerRef = ""
	}

	return models.Transaction{
		BookingDate:     booking,
		ValueDate:       valueDate,
		Amount:          amount,
		Currency:        currency,
		CreditDebit:     indicator,
		Reversal:        reversal,
		ProprietaryCode: typeCode,
		Reference: models.Reference{
			EndToEndID:         ownerRef,
			AccountServicerRef: bankRef,
		},
	}, nil
}

// extractPartyName pulls a counterparty name from a :86: narrative when it
// uses the structured ?32 sub-field, otherwise returns "".
func extractPartyName(narrative string) string {
	if idx := strings.Index(narrative, "?32"); idx >= 0 {
		rest := narrative[idx+3:]
		if end := strings.Index(rest, "?"); end >= 0 {
			rest = rest[:end]
		}
		if nl := strings.IndexAny(rest, "\n\r"); nl >= 0 {
			rest = rest[:nl]
		}
		return strings.TrimSpace(rest)
	}
	return ""
}

func parseYYMMDD(s string) (time.Time, error) {
	return time.Parse("060102", s)
}

func parseMMDD(s string, year int) (time.Time, error) {
	t, err := time.Parse("0102", s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// parseCommaAmount converts a SWIFT decimal (comma separator, no thousands
// grouping) into a non-negative magnitude.
func parseCommaAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Decimal{}, err
	}
	return d.Abs(), nil
}
