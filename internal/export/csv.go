// Package export writes parsed statement documents to CSV so they can be
// inspected or fed into spreadsheet tooling.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"finbridge/internal/logging"
	"finbridge/internal/models"
)

// Delimiter is the CSV output delimiter, configurable via the central
// configuration.
var Delimiter rune = ','

// SetDelimiter sets the delimiter for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

// Row is the flat CSV projection of one transaction.
type Row struct {
	AccountID          string `csv:"AccountID"`
	BookingDate        string `csv:"BookingDate"`
	ValueDate          string `csv:"ValueDate"`
	Amount             string `csv:"Amount"`
	Currency           string `csv:"Currency"`
	CreditDebit        string `csv:"CreditDebit"`
	Reversal           bool   `csv:"Reversal"`
	PartyName          string `csv:"PartyName"`
	PartyIBAN          string `csv:"PartyIBAN"`
	EndToEndID         string `csv:"EndToEndID"`
	EntryReference     string `csv:"EntryReference"`
	AccountServicerRef string `csv:"AccountServicerRef"`
	BankTxCode         string `csv:"BankTxCode"`
	PurposeCode        string `csv:"PurposeCode"`
	ReturnReason       string `csv:"ReturnReason"`
	Description        string `csv:"Description"`
}

// Rows projects a statement document onto CSV rows.
func Rows(doc *models.StatementDocument) []Row {
	rows := make([]Row, 0, len(doc.Transactions))
	for _, tx := range doc.Transactions {
		row := Row{
			AccountID:          doc.AccountID,
			BookingDate:        tx.BookingDate.Format("02.01.2006"),
			Amount:             tx.Amount.StringFixed(2),
			Currency:           tx.Currency,
			CreditDebit:        string(tx.CreditDebit),
			Reversal:           tx.Reversal,
			PartyName:          tx.PartyName,
			PartyIBAN:          tx.PartyIBAN,
			EndToEndID:         tx.Reference.EndToEndID,
			EntryReference:     tx.Reference.EntryReference,
			AccountServicerRef: tx.Reference.AccountServicerRef,
			BankTxCode:         tx.BankTxCode.String(),
			PurposeCode:        tx.PurposeCode,
			ReturnReason:       tx.ReturnReason,
			Description:        tx.Reference.AdditionalInfo,
		}
		if !tx.ValueDate.IsZero() {
			row.ValueDate = tx.ValueDate.Format("02.01.2006")
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV renders a statement document's transactions as CSV text.
func WriteCSV(doc *models.StatementDocument) (string, error) {
	return gocsv.MarshalString(Rows(doc))
}

// WriteCSVFile writes a statement document's transactions to a CSV file,
// creating parent directories as needed.
func WriteCSVFile(doc *models.StatementDocument, path string, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger.Info("writing csv export",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(doc.Transactions)})

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("failed to close file")
		}
	}()

	if err := gocsv.MarshalFile(Rows(doc), file); err != nil {
		return fmt.Errorf("error writing CSV file: %w", err)
	}
	return nil
}
