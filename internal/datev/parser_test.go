package datev

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbridge/internal/parsererror"
)

const sampleHeader = `"EXTF";700;21;"Buchungsstapel";700;;;"RE";;;;;20250101;;20250101;20250131;"Januar 2025";;;;;"EUR"`

const captionLine = `Umsatz (ohne Soll/Haben-Kz);Soll/Haben-Kennzeichen;WKZ Umsatz;Kurs;Basis-Umsatz;WKZ Basis-Umsatz;Konto;Gegenkonto (ohne BU-Schluessel);BU-Schluessel;Belegdatum;Belegfeld 1;Belegfeld 2;Skonto;Buchungstext`

// bookingLine builds one Buchungsstapel data line with the exact field
// count, overriding selected zero-based positions.
func bookingLine(overrides map[int]string) string {
	fields := make([]string, buchungsstapelFieldCount)
	fields[fieldAmount] = "100,00"
	fields[fieldDebitCredit] = "S"
	fields[fieldCurrency] = "EUR"
	fields[fieldAccount] = "1200"
	fields[fieldContraAccount] = "8400"
	fields[fieldDocumentDate] = "1501"
	fields[fieldDocField1] = "RE-2025-001"
	fields[fieldText] = "Testbuchung"
	for i, v := range overrides {
		fields[i] = v
	}
	return strings.Join(fields, ";")
}

func sampleFile(lines ...string) string {
	return sampleHeader + "\r\n" + strings.Join(lines, "\r\n") + "\r\n"
}

func TestParseBuchungsstapel(t *testing.T) {
	text := sampleFile(
		captionLine,
		bookingLine(nil),
		bookingLine(map[int]string{
			fieldAmount: "49,50", fieldDebitCredit: "H", fieldDocumentDate: "1601",
			fieldDocField1: "GU-7", fieldPostingKey: "8", fieldText: "Gutschrift",
		}),
	)

	doc, err := NewParser(nil).FromString(text)
	require.NoError(t, err)

	assert.Equal(t, Buchungsstapel, doc.Format)
	assert.Equal(t, "700", doc.Version)
	assert.Equal(t, "EXTF", doc.Header.Token)
	assert.Equal(t, "Buchungsstapel", doc.Header.FormatName)
	assert.Equal(t, "Januar 2025", doc.Header.Description)
	assert.Equal(t, "EUR", doc.Header.BaseCurrency)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), doc.Header.PeriodStart)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), doc.Header.PeriodEnd)
	assert.Equal(t, []string{"EUR"}, doc.Currencies)

	require.Len(t, doc.Bookings, 2)
	first := doc.Bookings[0]
	assert.True(t, decimal.NewFromFloat(100.00).Equal(first.Amount))
	assert.Equal(t, "S", first.DebitCredit)
	assert.Equal(t, "1200", first.Account)
	assert.Equal(t, "8400", first.ContraAccount)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), first.DocumentDate)
	assert.Equal(t, "RE-2025-001", first.DocField1)
	assert.Equal(t, "Testbuchung", first.Text)
	assert.Equal(t, 3, first.Line)

	second := doc.Bookings[1]
	assert.Equal(t, "H", second.DebitCredit)
	assert.Equal(t, "8", second.PostingKey)
	assert.Equal(t, time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC), second.DocumentDate)
}

func TestParseFieldCountIsExact(t *testing.T) {
	short := bookingLine(nil)
	short = short[:strings.LastIndex(short, ";")] // 124 fields
	long := bookingLine(nil) + ";"                // 126 fields

	for name, line := range map[string]string{"one too few": short, "one too many": long} {
		t.Run(name, func(t *testing.T) {
			_, err := NewParser(nil).FromString(sampleFile(line))
			var valErr *parsererror.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, "field count", valErr.Rule)
			assert.Contains(t, valErr.Location, "want exactly 125")
		})
	}
}

func TestParseCaptionLineOnlyOnLineTwo(t *testing.T) {
	// The caption line is only tolerated directly after the meta header.
	text := sampleHeader + "\r\n" + bookingLine(nil) + "\r\n" + captionLine + "\r\n"
	_, err := NewParser(nil).FromString(text)
	var valErr *parsererror.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "field count", valErr.Rule)
}

func TestParseRequiredFieldEmpty(t *testing.T) {
	_, err := NewParser(nil).FromString(sampleFile(bookingLine(map[int]string{fieldAccount: ""})))
	var valErr *parsererror.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "required field", valErr.Rule)
	assert.Contains(t, valErr.Location, "account")
}

func TestParseRejectsBadDebitCreditMark(t *testing.T) {
	_, err := NewParser(nil).FromString(sampleFile(bookingLine(map[int]string{fieldDebitCredit: "X"})))
	var valErr *parsererror.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "debit/credit mark", valErr.Rule)
}

func TestParseRejectsDecreasingDates(t *testing.T) {
	text := sampleFile(
		bookingLine(map[int]string{fieldDocumentDate: "2001"}),
		bookingLine(map[int]string{fieldDocumentDate: "1501"}),
	)
	_, err := NewParser(nil).FromString(text)
	var valErr *parsererror.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "booking date order", valErr.Rule)
}

func TestParseEqualDatesAllowed(t *testing.T) {
	text := sampleFile(
		bookingLine(map[int]string{fieldDocumentDate: "1501"}),
		bookingLine(map[int]string{fieldDocumentDate: "1501"}),
	)
	_, err := NewParser(nil).FromString(text)
	assert.NoError(t, err)
}

func TestParseDDMMNeedsPeriod(t *testing.T) {
	// Header without fiscal year start or reporting period: a DDMM date
	// has no year to resolve in.
	header := `"EXTF";700;21;"Buchungsstapel";700;;;"RE"`
	_, err := NewParser(nil).FromString(header + "\r\n" + bookingLine(nil) + "\r\n")
	var valErr *parsererror.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "booking period", valErr.Rule)
}

func TestParseThreeDigitDocumentDate(t *testing.T) {
	// "501" means the 5th of January, with the leading zero dropped.
	doc, err := NewParser(nil).FromString(sampleFile(bookingLine(map[int]string{fieldDocumentDate: "501"})))
	require.NoError(t, err)
	require.Len(t, doc.Bookings, 1)
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), doc.Bookings[0].DocumentDate)
}

func TestParseRejectsUnknownHeaderToken(t *testing.T) {
	_, err := NewParser(nil).FromString(strings.Replace(sampleFile(bookingLine(nil)), "EXTF", "XXTF", 1))
	var unknownErr *parsererror.UnknownFormatError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "XXTF", unknownErr.Token)
}

func TestParseRejectsUnknownFormatName(t *testing.T) {
	_, err := NewParser(nil).FromString(strings.Replace(sampleFile(bookingLine(nil)), "Buchungsstapel", "Phantasieformat", 1))
	var unknownErr *parsererror.UnknownFormatError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "Phantasieformat", unknownErr.Token)
}

func TestParseRejectsRecognizedButUnsupportedFormat(t *testing.T) {
	header := `"EXTF";700;21;"Debitoren/Kreditoren";500`
	_, err := NewParser(nil).FromString(header + "\r\n" + "dummy" + "\r\n")
	var versionErr *parsererror.UnsupportedVersionError
	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, "Debitoren/Kreditoren", versionErr.Type)
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	_, err := NewParser(nil).FromString(strings.Replace(sampleFile(bookingLine(nil)), `"Buchungsstapel";700`, `"Buchungsstapel";300`, 1))
	var versionErr *parsererror.UnsupportedVersionError
	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, "300", versionErr.Version)
}

func TestParseNeedsHeaderAndData(t *testing.T) {
	_, err := NewParser(nil).FromString(sampleHeader + "\r\n")
	var structErr *parsererror.StructuralError
	require.ErrorAs(t, err, &structErr)
}

func TestAnalyzeFormatSupported(t *testing.T) {
	text := sampleFile(
		captionLine,
		bookingLine(nil),
		bookingLine(map[int]string{fieldCurrency: "CHF", fieldDocumentDate: "1601"}),
	)
	analysis, err := NewParser(nil).AnalyzeFormat(text)
	require.NoError(t, err)

	assert.Equal(t, Buchungsstapel, analysis.Format)
	assert.Equal(t, "Buchungsstapel", analysis.FormatName)
	assert.Equal(t, "700", analysis.Version)
	assert.True(t, analysis.Supported)
	assert.Equal(t, 4, analysis.LineCount)
	assert.Equal(t, []string{"EUR", "CHF"}, analysis.Currencies)
}

func TestAnalyzeFormatRecognizesUnsupported(t *testing.T) {
	header := `"EXTF";510;21;"Zahlungsbedingungen";200`
	analysis, err := NewParser(nil).AnalyzeFormat(header + "\r\nsome;line\r\n")
	require.NoError(t, err)

	assert.Equal(t, Zahlungsbedingungen, analysis.Format)
	assert.False(t, analysis.Supported)
	assert.Empty(t, analysis.Currencies)
}

func TestToStatement(t *testing.T) {
	text := sampleFile(
		bookingLine(map[int]string{fieldDocField1: "RE-1"}),
		bookingLine(map[int]string{fieldAmount: "20,00", fieldDebitCredit: "H", fieldDocField1: "RE-2", fieldText: "Erstattung"}),
	)
	doc, err := NewParser(nil).FromString(text)
	require.NoError(t, err)

	stmt, err := doc.ToStatement()
	require.NoError(t, err)

	assert.Equal(t, "1200", stmt.AccountID)
	assert.Equal(t, "EUR", stmt.Currency)
	assert.Equal(t, "Januar 2025", stmt.ReferenceID)
	assert.Nil(t, stmt.Opening)
	assert.Nil(t, stmt.Closing)

	require.Len(t, stmt.Transactions, 2)
	assert.Equal(t, "DBIT", string(stmt.Transactions[0].CreditDebit))
	assert.Equal(t, "RE-1", stmt.Transactions[0].Reference.EntryReference)
	assert.Equal(t, "CRDT", string(stmt.Transactions[1].CreditDebit))
	assert.Equal(t, "Erstattung", stmt.Transactions[1].Reference.AdditionalInfo)
	assert.True(t, decimal.NewFromFloat(80.00).Equal(stmt.SumSigned().Neg()))
}
