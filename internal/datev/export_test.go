package datev

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbridge/internal/models"
	"finbridge/internal/parsererror"
)

func TestTruncationPolicyFromString(t *testing.T) {
	for input, want := range map[string]TruncationPolicy{
		"": TruncateHard, "hard": TruncateHard, "Hard": TruncateHard,
		"ellipsis": TruncateEllipsis, "ELLIPSIS": TruncateEllipsis,
	} {
		got, err := TruncationPolicyFromString(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := TruncationPolicyFromString("middle")
	var cfgErr *parsererror.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestWriteRoundTrip(t *testing.T) {
	text := sampleFile(
		bookingLine(nil),
		bookingLine(map[int]string{fieldAmount: "20,00", fieldDebitCredit: "H", fieldDocumentDate: "1601"}),
	)
	parser := NewParser(nil)
	doc, err := parser.FromString(text)
	require.NoError(t, err)

	out, err := Write(doc, TruncateHard)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "\r\n"))

	again, err := parser.FromString(out)
	require.NoError(t, err)
	require.Len(t, again.Bookings, 2)
	for i := range doc.Bookings {
		assert.Equal(t, doc.Bookings[i].Fields, again.Bookings[i].Fields, "line %d", i)
		assert.True(t, doc.Bookings[i].Amount.Equal(again.Bookings[i].Amount))
		assert.Equal(t, doc.Bookings[i].DocumentDate, again.Bookings[i].DocumentDate)
	}
}

func TestWriteTruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", 70) // Buchungstext allows 60
	doc, err := NewParser(nil).FromString(sampleFile(bookingLine(map[int]string{fieldText: long})))
	require.NoError(t, err)

	hard, err := Write(doc, TruncateHard)
	require.NoError(t, err)
	assert.Contains(t, hard, `"`+strings.Repeat("x", 60)+`"`)
	assert.NotContains(t, hard, strings.Repeat("x", 61))

	soft, err := Write(doc, TruncateEllipsis)
	require.NoError(t, err)
	assert.Contains(t, soft, strings.Repeat("x", 57)+"...")
	assert.NotContains(t, soft, strings.Repeat("x", 58))
}

func TestWriteQuotesTextFields(t *testing.T) {
	doc, err := NewParser(nil).FromString(sampleFile(bookingLine(map[int]string{fieldText: "Miete Januar"})))
	require.NoError(t, err)

	out, err := Write(doc, TruncateHard)
	require.NoError(t, err)
	assert.Contains(t, out, `"Miete Januar"`)
	// Plain numeric fields stay unquoted.
	assert.Contains(t, out, "100,00;")
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	_, err := Write(&Document{}, TruncateHard)
	var unknownErr *parsererror.UnknownFormatError
	assert.ErrorAs(t, err, &unknownErr)
}

func TestFromStatement(t *testing.T) {
	jan15 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	jan20 := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	stmt := &models.StatementDocument{
		AccountID:   "1200",
		Currency:    "EUR",
		ReferenceID: "STMT-42",
		Transactions: []models.Transaction{
			{
				BookingDate: jan15, ValueDate: jan15,
				Amount: decimal.NewFromFloat(500.00), Currency: "EUR",
				CreditDebit: models.Debit,
				Reference:   models.Reference{EndToEndID: "E2E-1", EntryReference: "4711", AdditionalInfo: "Lieferung"},
			},
			{
				BookingDate: jan20, ValueDate: jan20,
				Amount: decimal.NewFromFloat(80.25), Currency: "EUR",
				CreditDebit: models.Credit,
			},
		},
	}

	doc, err := FromStatement(stmt)
	require.NoError(t, err)

	assert.Equal(t, Buchungsstapel, doc.Format)
	assert.Equal(t, "700", doc.Version)
	assert.Equal(t, "EXTF", doc.Header.Raw[headerToken])
	assert.Equal(t, "Buchungsstapel", doc.Header.Raw[headerFormatName])
	assert.Equal(t, "20250115", doc.Header.Raw[headerPeriodStart])
	assert.Equal(t, "20250120", doc.Header.Raw[headerPeriodEnd])
	assert.Equal(t, "20250101", doc.Header.Raw[headerFiscalStart])
	assert.Equal(t, "STMT-42", doc.Header.Raw[headerDescription])
	assert.Equal(t, "EUR", doc.Header.Raw[headerBaseCurrency])

	require.Len(t, doc.Bookings, 2)
	first := doc.Bookings[0]
	require.Len(t, first.Fields, buchungsstapelFieldCount)
	assert.Equal(t, "500,00", first.Fields[fieldAmount])
	assert.Equal(t, "S", first.DebitCredit)
	assert.Equal(t, "1200", first.Account)
	assert.Equal(t, "4711", first.ContraAccount)
	assert.Equal(t, "1501", first.Fields[fieldDocumentDate])
	assert.Equal(t, "E2E-1", first.DocField1)
	assert.Equal(t, "Lieferung", first.Text)

	second := doc.Bookings[1]
	assert.Equal(t, "H", second.DebitCredit)
	assert.Equal(t, "9999", second.ContraAccount)
	assert.Equal(t, "B0002", second.DocField1)
}

func TestFromStatementThenWriteParses(t *testing.T) {
	jan15 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	stmt := &models.StatementDocument{
		AccountID: "1200",
		Currency:  "EUR",
		Transactions: []models.Transaction{
			{
				BookingDate: jan15, ValueDate: jan15,
				Amount: decimal.NewFromFloat(42.00), Currency: "EUR",
				CreditDebit: models.Credit,
				Reference:   models.Reference{AdditionalInfo: "Zinsgutschrift"},
			},
		},
	}

	doc, err := FromStatement(stmt)
	require.NoError(t, err)
	text, err := Write(doc, TruncateHard)
	require.NoError(t, err)

	parsed, err := NewParser(nil).FromString(text)
	require.NoError(t, err)
	require.Len(t, parsed.Bookings, 1)
	assert.True(t, decimal.NewFromFloat(42.00).Equal(parsed.Bookings[0].Amount))
	assert.Equal(t, jan15, parsed.Bookings[0].DocumentDate)
	assert.Equal(t, "Zinsgutschrift", parsed.Bookings[0].Text)
}

func TestFromStatementRejectsBalanceMismatch(t *testing.T) {
	jan15 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	opening := models.NewBalance(models.Credit, decimal.NewFromInt(100), "EUR", jan15)
	closing := models.NewBalance(models.Credit, decimal.NewFromInt(999), "EUR", jan15)
	stmt := &models.StatementDocument{
		AccountID: "1200",
		Currency:  "EUR",
		Opening:   &opening,
		Closing:   &closing,
	}

	_, err := FromStatement(stmt)
	var balErr *parsererror.BalanceMismatchError
	assert.ErrorAs(t, err, &balErr)
}
