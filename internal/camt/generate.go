package camt

import (
	"encoding/xml"
	"regexp"
	"time"

	"github.com/google/uuid"

	"finbridge/internal/models"
	"finbridge/internal/parsererror"
)

// Marshalling shapes for generated camt.053 messages. They are separate
// from the parsing structs so absent optional data is omitted instead of
// serialized as empty elements.
type genDocument struct {
	XMLName xml.Name `xml:"Document"`
	Xmlns   string   `xml:"xmlns,attr"`
	Stmt    genContainer `xml:"BkToCstmrStmt"`
}

type genContainer struct {
	GrpHdr genGrpHdr `xml:"GrpHdr"`
	Stmt   []genStmt `xml:"Stmt"`
}

type genGrpHdr struct {
	MsgID   string `xml:"MsgId"`
	CreDtTm string `xml:"CreDtTm"`
}

type genStmt struct {
	ID      string   `xml:"Id"`
	CreDtTm string   `xml:"CreDtTm,omitempty"`
	Acct    genAcct  `xml:"Acct"`
	Bal     []genBal `xml:"Bal"`
	Ntry    []genNtry `xml:"Ntry"`
}

type genAcct struct {
	IBAN  string `xml:"Id>IBAN,omitempty"`
	Other string `xml:"Id>Othr>Id,omitempty"`
	Ccy   string `xml:"Ccy,omitempty"`
}

type genAmt struct {
	Value string `xml:",chardata"`
	Ccy   string `xml:"Ccy,attr"`
}

type genBal struct {
	Cd        string `xml:"Tp>CdOrPrtry>Cd"`
	Amt       genAmt `xml:"Amt"`
	CdtDbtInd string `xml:"CdtDbtInd"`
	Dt        string `xml:"Dt>Dt"`
}

type genNtry struct {
	NtryRef      string      `xml:"NtryRef,omitempty"`
	Amt          genAmt      `xml:"Amt"`
	CdtDbtInd    string      `xml:"CdtDbtInd"`
	RvslInd      string      `xml:"RvslInd,omitempty"`
	Sts          string      `xml:"Sts"`
	BookgDt      string      `xml:"BookgDt>Dt"`
	ValDt        string      `xml:"ValDt>Dt,omitempty"`
	AcctSvcrRef  string      `xml:"AcctSvcrRef,omitempty"`
	BkTxCd       *genBkTxCd  `xml:"BkTxCd"`
	NtryDtls     *genNtryDtls `xml:"NtryDtls"`
	AddtlNtryInf string      `xml:"AddtlNtryInf,omitempty"`
}

type genBkTxCd struct {
	DomnCd    string `xml:"Domn>Cd,omitempty"`
	FmlyCd    string `xml:"Domn>Fmly>Cd,omitempty"`
	SubFmlyCd string `xml:"Domn>Fmly>SubFmlyCd,omitempty"`
	PrtryCd   string `xml:"Prtry>Cd,omitempty"`
}

type genNtryDtls struct {
	TxDtls []genTxDtls `xml:"TxDtls"`
}

type genTxDtls struct {
	EndToEndID  string      `xml:"Refs>EndToEndId,omitempty"`
	InstrID     string      `xml:"Refs>InstrId,omitempty"`
	MndtID      string      `xml:"Refs>MndtId,omitempty"`
	RtrRsn      string      `xml:"RtrInf>Rsn>Cd,omitempty"`
	RltdPties   *genParties `xml:"RltdPties"`
	RltdAgts    *genAgents  `xml:"RltdAgts"`
	CdtrSchmeID string      `xml:"CdtrSchmeId>Id>PrvtId>Othr>Id,omitempty"`
	PurpCd      string      `xml:"Purp>Cd,omitempty"`
}

type genParties struct {
	DbtrNm   string `xml:"Dbtr>Nm,omitempty"`
	DbtrIBAN string `xml:"DbtrAcct>Id>IBAN,omitempty"`
	CdtrNm   string `xml:"Cdtr>Nm,omitempty"`
	CdtrIBAN string `xml:"CdtrAcct>Id>IBAN,omitempty"`
}

type genAgents struct {
	DbtrBIC string `xml:"DbtrAgt>FinInstnId>BICFI,omitempty"`
	CdtrBIC string `xml:"CdtrAgt>FinInstnId>BICFI,omitempty"`
}

var ibanRe = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z0-9]{10,30}$`)

// Generate serializes a statement document as camt.053 XML in the given
// schema version. The document must satisfy its own balance invariant.
// The account identifier keeps its source shape: a non-IBAN id goes into
// the proprietary Othr element, never into the IBAN one.
func Generate(doc *models.StatementDocument, version Version) (string, error) {
	if !Camt053.SupportsVersion(version) {
		return "", &parsererror.UnsupportedVersionError{Type: Camt053.String(), Version: string(version)}
	}
	if err := doc.Validate(); err != nil {
		return "", err
	}

	namespace, err := Namespace(Camt053, version)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	out := genDocument{Xmlns: namespace}
	out.Stmt.GrpHdr = genGrpHdr{MsgID: uuid.NewString(), CreDtTm: now}

	stmt := genStmt{ID: doc.ReferenceID, CreDtTm: now}
	if ibanRe.MatchString(doc.AccountID) {
		stmt.Acct.IBAN = doc.AccountID
	} else {
		stmt.Acct.Other = doc.AccountID
	}
	stmt.Acct.Ccy = doc.Currency

	if doc.Opening != nil {
		stmt.Bal = append(stmt.Bal, toGenBal(*doc.Opening, "OPBD"))
	}
	if doc.Closing != nil {
		stmt.Bal = append(stmt.Bal, toGenBal(*doc.Closing, "CLBD"))
	}
	for _, tx := range doc.Transactions {
		stmt.Ntry = append(stmt.Ntry, toGenEntry(tx))
	}
	out.Stmt.Stmt = []genStmt{stmt}

	data, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(data), nil
}

func toGenBal(bal models.Balance, defaultCode string) genBal {
	code := bal.SubType
	if code == "" {
		code = defaultCode
	}
	return genBal{
		Cd:        code,
		Amt:       genAmt{Value: bal.Amount.Amount.StringFixed(2), Ccy: bal.Amount.Currency},
		CdtDbtInd: string(bal.Indicator),
		Dt:        bal.Date.Format("2006-01-02"),
	}
}

func toGenEntry(tx models.Transaction) genNtry {
	entry := genNtry{
		NtryRef:      tx.Reference.EntryReference,
		Amt:          genAmt{Value: tx.Amount.StringFixed(2), Ccy: tx.Currency},
		CdtDbtInd:    string(tx.CreditDebit),
		Sts:          "BOOK",
		BookgDt:      tx.BookingDate.Format("2006-01-02"),
		AcctSvcrRef:  tx.Reference.AccountServicerRef,
		AddtlNtryInf: tx.Reference.AdditionalInfo,
	}
	if tx.Reversal {
		entry.RvslInd = "true"
	}
	if !tx.ValueDate.IsZero() {
		entry.ValDt = tx.ValueDate.Format("2006-01-02")
	}
	if tx.BankTxCode.IsSet() || tx.ProprietaryCode != "" {
		entry.BkTxCd = &genBkTxCd{
			DomnCd:    tx.BankTxCode.Domain,
			FmlyCd:    tx.BankTxCode.Family,
			SubFmlyCd: tx.BankTxCode.SubFamily,
			PrtryCd:   tx.ProprietaryCode,
		}
	}

	td := genTxDtls{
		EndToEndID:  tx.Reference.EndToEndID,
		InstrID:     tx.Reference.InstructionID,
		MndtID:      tx.Reference.MandateID,
		RtrRsn:      tx.ReturnReason,
		CdtrSchmeID: tx.Reference.CreditorID,
		PurpCd:      tx.PurposeCode,
	}
	if tx.PartyName != "" || tx.PartyIBAN != "" {
		parties := &genParties{}
		if tx.CreditDebit == models.Credit {
			parties.DbtrNm = tx.PartyName
			parties.DbtrIBAN = tx.PartyIBAN
		} else {
			parties.CdtrNm = tx.PartyName
			parties.CdtrIBAN = tx.PartyIBAN
		}
		td.RltdPties = parties
	}
	if tx.PartyBIC != "" {
		agents := &genAgents{}
		if tx.CreditDebit == models.Credit {
			agents.DbtrBIC = tx.PartyBIC
		} else {
			agents.CdtrBIC = tx.PartyBIC
		}
		td.RltdAgts = agents
	}
	if td != (genTxDtls{}) {
		entry.NtryDtls = &genNtryDtls{TxDtls: []genTxDtls{td}}
	}
	return entry
}

// SchemaValidator is the boundary to an external XSD validation service.
// It is consumed only when a caller explicitly requests validation of
// generated or inbound XML, never implicitly.
type SchemaValidator interface {
	Validate(xmlText string, t Type, v Version) error
}
