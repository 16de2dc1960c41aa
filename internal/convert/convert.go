// Package convert translates parsed statement documents between the
// MT9xx, CAMT and DATEV families. Converters are pure: they deep-copy
// the source, never mutate it, and fail fast when the source violates
// its own balance invariant.
package convert

import (
	"fmt"

	"finbridge/internal/datev"
	"finbridge/internal/models"
)

// syntheticServicerRef derives an account-servicer reference from the
// booking date and the transaction's ordinal within the statement. The
// derivation is deterministic so that different conversion paths between
// the same formats synthesize matching references.
func syntheticServicerRef(tx models.Transaction, ordinal int) string {
	return fmt.Sprintf("SYN%s%04d", tx.BookingDate.Format("20060102"), ordinal+1)
}

// MT940ToCamt prepares an MT9xx-sourced statement for CAMT emission.
// Entries without any reference get a deterministic synthetic
// account-servicer reference; everything else is carried unchanged.
func MT940ToCamt(doc *models.StatementDocument) (*models.StatementDocument, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	out := doc.Clone()
	ensureServicerRefs(out)
	return out, nil
}

// CamtToMT940 prepares a CAMT-sourced statement for MT940 emission. The
// MT940 surface has no party fields, so a counterparty name is folded
// into the unstructured information line when that line is free.
// Balances are carried as-is; a statement without them stays without
// them and cannot be rendered as MT940 until the caller supplies them.
func CamtToMT940(doc *models.StatementDocument) (*models.StatementDocument, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	out := doc.Clone()
	for i := range out.Transactions {
		tx := &out.Transactions[i]
		if tx.Reference.AdditionalInfo == "" && tx.PartyName != "" {
			tx.Reference.AdditionalInfo = tx.PartyName
		}
		if tx.ValueDate.IsZero() {
			tx.ValueDate = tx.BookingDate
		}
	}
	return out, nil
}

// DatevToMT940 maps a DATEV booking batch onto the statement model used
// for MT940 emission. DATEV carries no balances and none are invented.
func DatevToMT940(d *datev.Document) (*models.StatementDocument, error) {
	return d.ToStatement()
}

// DatevToCamt maps a DATEV booking batch onto the statement model used
// for CAMT emission, synthesizing account-servicer references for rows
// that carry no reference of their own. The synthesis matches what
// DatevToMT940 followed by MT940ToCamt produces for the same source.
func DatevToCamt(d *datev.Document) (*models.StatementDocument, error) {
	doc, err := d.ToStatement()
	if err != nil {
		return nil, err
	}
	ensureServicerRefs(doc)
	return doc, nil
}

// StatementToDatev renders any statement as a Buchungsstapel document.
// Balances have no DATEV representation and are dropped, never summed
// into fake rows.
func StatementToDatev(doc *models.StatementDocument) (*datev.Document, error) {
	return datev.FromStatement(doc)
}

func ensureServicerRefs(doc *models.StatementDocument) {
	for i := range doc.Transactions {
		tx := &doc.Transactions[i]
		if !tx.Reference.HasAny() {
			tx.Reference.AccountServicerRef = syntheticServicerRef(*tx, i)
		}
	}
}
