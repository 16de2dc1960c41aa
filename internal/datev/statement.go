package datev

import (
	"finbridge/internal/models"
)

// ToStatement maps a parsed booking batch onto the common statement
// model. DATEV batches carry no balances, so Opening and Closing stay
// nil; the balance invariant is then vacuously satisfied. The account of
// the first booking line identifies the statement account, and a Soll
// mark maps to a debit, a Haben mark to a credit.
func (d *Document) ToStatement() (*models.StatementDocument, error) {
	doc := &models.StatementDocument{
		ReferenceID: d.Header.Description,
	}
	if len(d.Bookings) > 0 {
		doc.AccountID = d.Bookings[0].Account
	}
	doc.Currency = d.Header.BaseCurrency
	if doc.Currency == "" && len(d.Currencies) > 0 {
		doc.Currency = d.Currencies[0]
	}

	for _, b := range d.Bookings {
		tx := models.Transaction{
			BookingDate: b.DocumentDate,
			ValueDate:   b.DocumentDate,
			Amount:      b.Amount,
			Currency:    b.Currency,
			CreditDebit: markToIndicator(b.DebitCredit),
		}
		if tx.Currency == "" {
			tx.Currency = doc.Currency
		}
		tx.Reference.EntryReference = b.DocField1
		tx.Reference.AdditionalInfo = b.Text
		tx.ProprietaryCode = b.PostingKey
		doc.Transactions = append(doc.Transactions, tx)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func markToIndicator(mark string) models.CreditDebit {
	if mark == "S" {
		return models.Debit
	}
	return models.Credit
}

func indicatorToMark(cd models.CreditDebit) string {
	if cd == models.Debit {
		return "S"
	}
	return "H"
}
