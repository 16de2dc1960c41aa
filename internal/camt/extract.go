package camt

import (
	"encoding/xml"
	"time"

	"github.com/shopspring/decimal"

	"finbridge/internal/codes"
	"finbridge/internal/fileutils"
	"finbridge/internal/logging"
	"finbridge/internal/models"
	"finbridge/internal/parsererror"
)

// Parser extracts statement documents from the common statement-carrying
// camt types (052/053/054) using hand-written field mappings. The
// infrequent investigation and notification types go through the
// registry-driven generic extractor instead.
type Parser struct {
	logger logging.Logger
	// StrictCodes makes unknown purpose/return-reason codes a validation
	// failure instead of descriptive-only metadata.
	StrictCodes bool
}

// NewParser creates a camt parser with the given logger. A nil logger
// falls back to the package default.
func NewParser(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{logger: logger}
}

// ParseFile reads and parses a camt XML file.
func (p *Parser) ParseFile(path string) (*models.StatementDocument, error) {
	text, err := fileutils.ReadTextFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

// Parse detects the message type and extracts the first statement. The
// type must be one of the hand-written statement types; anything else is
// an unknown format here.
func (p *Parser) Parse(xmlText string) (*models.StatementDocument, error) {
	docs, err := p.ParseAll(xmlText)
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// ParseAll extracts every statement/report/notification payload of the
// message, validating each against the balance invariant.
func (p *Parser) ParseAll(xmlText string) ([]*models.StatementDocument, error) {
	msgType, ok := DetectType(xmlText)
	if !ok {
		return nil, &parsererror.UnknownFormatError{Token: snippet(xmlText), Kind: "CAMT type"}
	}
	if msgType != Camt052 && msgType != Camt053 && msgType != Camt054 {
		return nil, &parsererror.UnknownFormatError{Token: msgType.String(), Kind: "CAMT statement type"}
	}
	version := DetectVersion(xmlText, msgType)
	p.logger.Debug("parsing camt message",
		logging.Field{Key: logging.FieldType, Value: msgType.String()},
		logging.Field{Key: logging.FieldVersion, Value: string(version)})

	var document Document
	if err := xml.Unmarshal([]byte(xmlText), &document); err != nil {
		return nil, &parsererror.StructuralError{
			Format:   "CAMT",
			Location: "XML document",
			Msg:      "failed to unmarshal",
			Err:      err,
		}
	}
	payloads := document.Payloads()
	if len(payloads) == 0 {
		return nil, &parsererror.StructuralError{
			Format:   "CAMT",
			Location: msgType.RootElement(),
			Msg:      "no " + msgType.PayloadElement() + " payload found",
		}
	}

	var docs []*models.StatementDocument
	for i := range payloads {
		doc, err := p.payloadToStatement(&payloads[i])
		if err != nil {
			return nil, err
		}
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// payloadToStatement maps one Stmt/Rpt/Ntfctn payload onto the internal
// statement document.
func (p *Parser) payloadToStatement(payload *Payload) (*models.StatementDocument, error) {
	doc := &models.StatementDocument{
		AccountID:   payload.Acct.Identifier(),
		Currency:    payload.Acct.Ccy,
		ReferenceID: payload.ID,
	}

	for _, bal := range payload.Bal {
		balance, err := p.toBalance(bal)
		if err != nil {
			return nil, err
		}
		subType, _ := codes.BalanceTypeFromString(bal.Tp.CdOrPrtry.Cd)
		switch {
		case subType.IsOpening():
			doc.Opening = balance
		case subType.IsClosing():
			doc.Closing = balance
		}
		if doc.Currency == "" {
			doc.Currency = balance.Amount.Currency
		}
	}

	for i := range payload.Ntry {
		tx, err := p.entryToTransaction(&payload.Ntry[i])
		if err != nil {
			return nil, err
		}
		if tx.Currency == "" {
			tx.Currency = doc.Currency
		}
		doc.Transactions = append(doc.Transactions, tx)
	}
	return doc, nil
}

func (p *Parser) toBalance(bal Bal) (*models.Balance, error) {
	amount, err := decimal.NewFromString(bal.Amt.Value)
	if err != nil {
		return nil, &parsererror.StructuralError{
			Format:   "CAMT",
			Location: "Bal/Amt",
			Msg:      "invalid balance amount " + bal.Amt.Value,
			Err:      err,
		}
	}
	date, err := parseISODate(bal.Dt.Dt)
	if err != nil {
		return nil, &parsererror.StructuralError{
			Format:   "CAMT",
			Location: "Bal/Dt",
			Msg:      "invalid balance date " + bal.Dt.Dt,
			Err:      err,
		}
	}
	return &models.Balance{
		Indicator: toCreditDebit(bal.CdtDbtInd),
		Amount:    models.NewMoney(amount.Abs(), bal.Amt.Ccy),
		Date:      date,
		SubType:   bal.Tp.CdOrPrtry.Cd,
	}, nil
}

func (p *Parser) entryToTransaction(entry *Entry) (models.Transaction, error) {
	amount, err := decimal.NewFromString(entry.Amt.Value)
	if err != nil {
		return models.Transaction{}, &parsererror.StructuralError{
			Format:   "CAMT",
			Location: "Ntry/Amt",
			Msg:      "invalid entry amount " + entry.Amt.Value,
			Err:      err,
		}
	}
	booking, err := parseISODate(entry.BookgDt.Dt)
	if err != nil {
		return models.Transaction{}, &parsererror.StructuralError{
			Format:   "CAMT",
			Location: "Ntry/BookgDt",
			Msg:      "invalid booking date " + entry.BookgDt.Dt,
			Err:      err,
		}
	}
	valueDate := booking
	if entry.ValDt.Dt != "" {
		valueDate, err = parseISODate(entry.ValDt.Dt)
		if err != nil {
			return models.Transaction{}, &parsererror.StructuralError{
				Format:   "CAMT",
				Location: "Ntry/ValDt",
				Msg:      "invalid value date " + entry.ValDt.Dt,
				Err:      err,
			}
		}
	}

	tx := models.Transaction{
		BookingDate: booking,
		ValueDate:   valueDate,
		Amount:      amount.Abs(),
		Currency:    entry.Amt.Ccy,
		CreditDebit: toCreditDebit(entry.CdtDbtInd),
		Reversal:    entry.IsReversal(),
		BankTxCode: models.BankTxCode{
			Domain:    entry.BkTxCd.Domn.Cd,
			Family:    entry.BkTxCd.Domn.Fmly.Cd,
			SubFamily: entry.BkTxCd.Domn.Fmly.SubFmlyCd,
		},
		ProprietaryCode: entry.BkTxCd.Prtry.Cd,
		PartyName:       entry.CounterpartyName(),
		PartyIBAN:       entry.CounterpartyIBAN(),
		PartyBIC:        entry.CounterpartyBIC(),
	}
	tx.Reference = models.Reference{
		EntryReference:     entry.NtryRef,
		AccountServicerRef: entry.AcctSvcrRef,
		AdditionalInfo:     firstNonEmpty(entry.AddtlNtryInf, entry.RemittanceInfo()),
	}
	if td := entry.GetFirstTxDetails(); td != nil {
		tx.Reference.EndToEndID = td.Refs.EndToEndID
		tx.Reference.InstructionID = td.Refs.InstrID
		tx.Reference.MandateID = td.Refs.MndtID
		tx.Reference.CreditorID = td.CdtrSchmeID.ID.PrvtID.Othr.ID
		tx.PurposeCode = td.Purp.Cd
		tx.ReturnReason = td.RtrInf.Rsn.Cd
	}

	if err := p.checkCodes(tx); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// checkCodes validates closed-set codes. Unknown codes are tolerated
// unless strict validation was requested; they are descriptive metadata,
// not structure.
func (p *Parser) checkCodes(tx models.Transaction) error {
	if tx.PurposeCode != "" {
		if _, ok := codes.PurposeFromString(tx.PurposeCode); !ok {
			if p.StrictCodes {
				return &parsererror.ValidationError{
					Format: "CAMT",
					Rule:   "unknown purpose code " + tx.PurposeCode,
				}
			}
			p.logger.Debug("unknown purpose code", logging.Field{Key: "code", Value: tx.PurposeCode})
		}
	}
	if tx.ReturnReason != "" {
		if _, ok := codes.ReturnReasonFromString(tx.ReturnReason); !ok {
			if p.StrictCodes {
				return &parsererror.ValidationError{
					Format: "CAMT",
					Rule:   "unknown return reason code " + tx.ReturnReason,
				}
			}
			p.logger.Debug("unknown return reason code", logging.Field{Key: "code", Value: tx.ReturnReason})
		}
	}
	return nil
}

func toCreditDebit(ind string) models.CreditDebit {
	if ind == "DBIT" {
		return models.Debit
	}
	return models.Credit
}

func parseISODate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func snippet(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
