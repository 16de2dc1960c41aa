package datev

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbridge/internal/fileutils"
	"finbridge/internal/logging"
	"finbridge/internal/parsererror"
)

// MetaHeader is the parsed first line of a DATEV export.
type MetaHeader struct {
	Token           string
	FormatName      string
	Version         string
	Origin          string
	Description     string
	BaseCurrency    string
	FiscalYearStart time.Time
	PeriodStart     time.Time
	PeriodEnd       time.Time
	// Raw keeps the header fields as read, for re-export.
	Raw []string
}

// periodYear is the year DDMM document dates are resolved in.
func (h MetaHeader) periodYear() int {
	if !h.PeriodStart.IsZero() {
		return h.PeriodStart.Year()
	}
	if !h.FiscalYearStart.IsZero() {
		return h.FiscalYearStart.Year()
	}
	return 0
}

// Booking is one parsed Buchungsstapel data line.
type Booking struct {
	Amount        decimal.Decimal
	DebitCredit   string // "S" or "H"
	Currency      string
	Account       string
	ContraAccount string
	PostingKey    string
	DocumentDate  time.Time
	DocField1     string
	DocField2     string
	Text          string
	// Line is the 1-based physical line number in the source file.
	Line int
	// Fields holds the full raw record for lossless re-export.
	Fields []string
}

// Document is a fully parsed DATEV export.
type Document struct {
	Format     FormatType
	Version    string
	Header     MetaHeader
	Bookings   []Booking
	Currencies []string
}

// FormatAnalysis is the result of resolving a file's meta header without
// parsing its data lines.
type FormatAnalysis struct {
	Format     FormatType
	FormatName string
	Version    string
	Supported  bool
	LineCount  int
	Currencies []string
}

// Parser parses DATEV fixed-field exports.
type Parser struct {
	logger logging.Logger
}

func NewParser(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{logger: logger}
}

// AnalyzeFile analyzes the file at path without fully parsing it.
func (p *Parser) AnalyzeFile(path string) (*FormatAnalysis, error) {
	text, err := fileutils.ReadTextFile(path)
	if err != nil {
		return nil, err
	}
	return p.AnalyzeFormat(text)
}

// AnalyzeFormat resolves the declared format from the meta header and
// reports whether this engine supports it, together with the line count
// and, for supported formats, the currency codes observed in the data.
func (p *Parser) AnalyzeFormat(text string) (*FormatAnalysis, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, &parsererror.StructuralError{
			Format: "datev", Location: "line 1", Msg: "empty input",
		}
	}
	header, err := parseMetaHeader(lines[0])
	if err != nil {
		return nil, err
	}
	format, ok := FormatFromName(header.FormatName)
	if !ok {
		return nil, &parsererror.UnknownFormatError{Token: header.FormatName, Kind: "datev format"}
	}

	analysis := &FormatAnalysis{
		Format:     format,
		FormatName: header.FormatName,
		Version:    header.Version,
		Supported:  format.IsSupported() && format.SupportsVersion(header.Version),
		LineCount:  len(lines),
	}
	if analysis.Supported {
		seen := map[string]bool{}
		for i, line := range lines[1:] {
			fields, err := splitRecord(line)
			if err != nil || len(fields) <= fieldCurrency {
				continue
			}
			if i == 0 && !looksLikeAmount(fields[fieldAmount]) {
				continue
			}
			if ccy := strings.TrimSpace(fields[fieldCurrency]); ccy != "" && !seen[ccy] {
				seen[ccy] = true
				analysis.Currencies = append(analysis.Currencies, ccy)
			}
		}
	}
	p.logger.Debug("analyzed datev input",
		logging.Field{Key: logging.FieldFormat, Value: format.String()},
		logging.Field{Key: logging.FieldVersion, Value: header.Version},
		logging.Field{Key: logging.FieldCount, Value: analysis.LineCount})
	return analysis, nil
}

// ParseFile parses the file at path.
func (p *Parser) ParseFile(path string) (*Document, error) {
	text, err := fileutils.ReadTextFile(path)
	if err != nil {
		return nil, err
	}
	return p.FromString(text)
}

// FromString fully parses a DATEV export. Every data line must match the
// exact field count of the resolved format, required fields must be
// non-empty, and booking dates must be non-decreasing across rows.
func (p *Parser) FromString(text string) (*Document, error) {
	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, &parsererror.StructuralError{
			Format: "datev", Location: "line 1",
			Msg: fmt.Sprintf("got %d line(s), need the meta header plus at least one further line", len(lines)),
		}
	}
	header, err := parseMetaHeader(lines[0])
	if err != nil {
		return nil, err
	}
	format, ok := FormatFromName(header.FormatName)
	if !ok {
		return nil, &parsererror.UnknownFormatError{Token: header.FormatName, Kind: "datev format"}
	}
	if !format.IsSupported() {
		return nil, &parsererror.UnsupportedVersionError{Type: format.String(), Version: header.Version}
	}
	if !format.SupportsVersion(header.Version) {
		return nil, &parsererror.UnsupportedVersionError{Type: format.String(), Version: header.Version}
	}

	doc := &Document{Format: format, Version: header.Version, Header: header}
	seenCcy := map[string]bool{}
	for i, line := range lines[1:] {
		lineNo := i + 2
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields, err := splitRecord(line)
		if err != nil {
			return nil, &parsererror.StructuralError{
				Format: "datev", Location: fmt.Sprintf("line %d", lineNo),
				Msg: "malformed record", Err: err,
			}
		}
		// Line 2 may be the column-caption line; it is recognized by a
		// non-numeric first field and carries no booking data.
		if lineNo == 2 && !looksLikeAmount(fields[fieldAmount]) {
			continue
		}
		if len(fields) != format.FieldCount() {
			return nil, &parsererror.ValidationError{
				Format: "datev", Rule: "field count",
				Location: fmt.Sprintf("line %d: got %d fields, want exactly %d", lineNo, len(fields), format.FieldCount()),
			}
		}
		booking, err := parseBooking(fields, lineNo, header)
		if err != nil {
			return nil, err
		}
		doc.Bookings = append(doc.Bookings, booking)
		if booking.Currency != "" && !seenCcy[booking.Currency] {
			seenCcy[booking.Currency] = true
			doc.Currencies = append(doc.Currencies, booking.Currency)
		}
	}

	if err := checkDateOrder(doc.Bookings); err != nil {
		return nil, err
	}
	p.logger.Info("parsed datev document",
		logging.Field{Key: logging.FieldFormat, Value: format.String()},
		logging.Field{Key: logging.FieldCount, Value: len(doc.Bookings)})
	return doc, nil
}

func parseBooking(fields []string, lineNo int, header MetaHeader) (Booking, error) {
	required := map[int]string{
		fieldAmount:        "amount",
		fieldDebitCredit:   "debit/credit mark",
		fieldAccount:       "account",
		fieldContraAccount: "contra account",
		fieldDocumentDate:  "document date",
	}
	for idx, name := range required {
		if strings.TrimSpace(fields[idx]) == "" {
			return Booking{}, &parsererror.ValidationError{
				Format: "datev", Rule: "required field",
				Location: fmt.Sprintf("line %d: %s (field %d) is empty", lineNo, name, idx+1),
			}
		}
	}

	amount, err := parseCommaAmount(fields[fieldAmount])
	if err != nil {
		return Booking{}, &parsererror.StructuralError{
			Format: "datev", Location: fmt.Sprintf("line %d", lineNo),
			Msg: fmt.Sprintf("invalid amount %q", fields[fieldAmount]), Err: err,
		}
	}
	mark := strings.ToUpper(strings.TrimSpace(fields[fieldDebitCredit]))
	if mark != "S" && mark != "H" {
		return Booking{}, &parsererror.ValidationError{
			Format: "datev", Rule: "debit/credit mark",
			Location: fmt.Sprintf("line %d: got %q, want S or H", lineNo, fields[fieldDebitCredit]),
		}
	}
	date, err := parseDDMM(fields[fieldDocumentDate], header.periodYear(), lineNo)
	if err != nil {
		return Booking{}, err
	}

	return Booking{
		Amount:        amount.Abs(),
		DebitCredit:   mark,
		Currency:      strings.TrimSpace(fields[fieldCurrency]),
		Account:       strings.TrimSpace(fields[fieldAccount]),
		ContraAccount: strings.TrimSpace(fields[fieldContraAccount]),
		PostingKey:    strings.TrimSpace(fields[fieldPostingKey]),
		DocumentDate:  date,
		DocField1:     strings.TrimSpace(fields[fieldDocField1]),
		DocField2:     strings.TrimSpace(fields[fieldDocField2]),
		Text:          strings.TrimSpace(fields[fieldText]),
		Line:          lineNo,
		Fields:        fields,
	}, nil
}

func checkDateOrder(bookings []Booking) error {
	for i := 1; i < len(bookings); i++ {
		if bookings[i].DocumentDate.Before(bookings[i-1].DocumentDate) {
			return &parsererror.ValidationError{
				Format: "datev", Rule: "booking date order",
				Location: fmt.Sprintf("line %d: %s is before the preceding booking's %s",
					bookings[i].Line,
					bookings[i].DocumentDate.Format("2006-01-02"),
					bookings[i-1].DocumentDate.Format("2006-01-02")),
			}
		}
	}
	return nil
}

func parseMetaHeader(line string) (MetaHeader, error) {
	fields, err := splitRecord(line)
	if err != nil {
		return MetaHeader{}, &parsererror.StructuralError{
			Format: "datev", Location: "line 1", Msg: "malformed meta header", Err: err,
		}
	}
	if len(fields) <= headerVersion {
		return MetaHeader{}, &parsererror.StructuralError{
			Format: "datev", Location: "line 1",
			Msg: fmt.Sprintf("meta header has %d field(s), need at least %d", len(fields), headerVersion+1),
		}
	}
	token := strings.TrimSpace(fields[headerToken])
	if token != "EXTF" && token != "DTVF" {
		return MetaHeader{}, &parsererror.UnknownFormatError{Token: token, Kind: "datev header token"}
	}

	header := MetaHeader{
		Token:      token,
		FormatName: strings.TrimSpace(fields[headerFormatName]),
		Version:    strings.TrimSpace(fields[headerVersion]),
		Raw:        fields,
	}
	header.Origin = headerField(fields, headerOrigin)
	header.Description = headerField(fields, headerDescription)
	header.BaseCurrency = headerField(fields, headerBaseCurrency)
	header.FiscalYearStart = parseYYYYMMDD(headerField(fields, headerFiscalStart))
	header.PeriodStart = parseYYYYMMDD(headerField(fields, headerPeriodStart))
	header.PeriodEnd = parseYYYYMMDD(headerField(fields, headerPeriodEnd))
	return header, nil
}

func headerField(fields []string, index int) string {
	if index < len(fields) {
		return strings.TrimSpace(fields[index])
	}
	return ""
}

// parseDDMM resolves a DDMM document date in the given period year.
func parseDDMM(value string, year, lineNo int) (time.Time, error) {
	v := strings.TrimSpace(value)
	if len(v) == 3 {
		v = "0" + v
	}
	if year == 0 {
		return time.Time{}, &parsererror.ValidationError{
			Format: "datev", Rule: "booking period",
			Location: fmt.Sprintf("line %d: document date %q cannot be resolved without a period in the meta header", lineNo, value),
		}
	}
	if len(v) != 4 {
		return time.Time{}, &parsererror.StructuralError{
			Format: "datev", Location: fmt.Sprintf("line %d", lineNo),
			Msg: fmt.Sprintf("invalid DDMM document date %q", value),
		}
	}
	t, err := time.Parse("20060102", fmt.Sprintf("%04d%s%s", year, v[2:4], v[0:2]))
	if err != nil {
		return time.Time{}, &parsererror.StructuralError{
			Format: "datev", Location: fmt.Sprintf("line %d", lineNo),
			Msg: fmt.Sprintf("invalid DDMM document date %q", value), Err: err,
		}
	}
	return t, nil
}

func parseYYYYMMDD(value string) time.Time {
	t, err := time.Parse("20060102", value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseCommaAmount(value string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	return decimal.NewFromString(normalized)
}

func looksLikeAmount(value string) bool {
	_, err := parseCommaAmount(value)
	return err == nil && strings.TrimSpace(value) != ""
}

// splitLines splits on LF, tolerating CRLF, and drops a trailing empty
// line left by a final newline.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitRecord splits one semicolon-delimited, optionally quoted line.
func splitRecord(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	return r.Read()
}
