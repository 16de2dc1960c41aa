package camt

import (
	"encoding/xml"
	"strings"
)

// Document is the root structure shared by the statement-carrying camt
// types. Exactly one of the three message containers is populated,
// depending on the type: camt.052 account report, camt.053 statement or
// camt.054 debit/credit notification. The payload shape below the
// container is identical for the fields this engine extracts.
type Document struct {
	XMLName xml.Name `xml:"Document"`
	BkToCstmrAcctRpt struct {
		GrpHdr  GroupHeader `xml:"GrpHdr"`
		Payload []Payload   `xml:"Rpt"`
	} `xml:"BkToCstmrAcctRpt"`
	BkToCstmrStmt struct {
		GrpHdr  GroupHeader `xml:"GrpHdr"`
		Payload []Payload   `xml:"Stmt"`
	} `xml:"BkToCstmrStmt"`
	BkToCstmrDbtCdtNtfctn struct {
		GrpHdr  GroupHeader `xml:"GrpHdr"`
		Payload []Payload   `xml:"Ntfctn"`
	} `xml:"BkToCstmrDbtCdtNtfctn"`
}

// Payloads returns the statement/report/notification payloads regardless
// of which container the message used.
func (d *Document) Payloads() []Payload {
	if len(d.BkToCstmrStmt.Payload) > 0 {
		return d.BkToCstmrStmt.Payload
	}
	if len(d.BkToCstmrAcctRpt.Payload) > 0 {
		return d.BkToCstmrAcctRpt.Payload
	}
	return d.BkToCstmrDbtCdtNtfctn.Payload
}

// GroupHeader is the message-level header.
type GroupHeader struct {
	MsgID   string `xml:"MsgId"`
	CreDtTm string `xml:"CreDtTm"`
}

// Payload is one statement, report or notification.
type Payload struct {
	ID      string    `xml:"Id"`
	CreDtTm string    `xml:"CreDtTm"`
	Acct    Account   `xml:"Acct"`
	Bal     []Bal     `xml:"Bal"`
	Ntry    []Entry   `xml:"Ntry"`
}

// Account identifies the statement account.
type Account struct {
	ID struct {
		IBAN string `xml:"IBAN"`
		Othr struct {
			ID string `xml:"Id"`
		} `xml:"Othr"`
	} `xml:"Id"`
	Ccy  string `xml:"Ccy"`
	Ownr struct {
		Nm string `xml:"Nm"`
	} `xml:"Ownr"`
	Svcr struct {
		FinInstnID struct {
			BICFI string `xml:"BICFI"`
			BIC   string `xml:"BIC"`
		} `xml:"FinInstnId"`
	} `xml:"Svcr"`
}

// Identifier returns the IBAN when present, else the proprietary id.
func (a Account) Identifier() string {
	if a.ID.IBAN != "" {
		return a.ID.IBAN
	}
	return a.ID.Othr.ID
}

// Bal is a reported balance.
type Bal struct {
	Tp struct {
		CdOrPrtry struct {
			Cd string `xml:"Cd"`
		} `xml:"CdOrPrtry"`
	} `xml:"Tp"`
	Amt       Amt    `xml:"Amt"`
	CdtDbtInd string `xml:"CdtDbtInd"`
	Dt        struct {
		Dt string `xml:"Dt"`
	} `xml:"Dt"`
}

// Amt is a monetary amount with its currency attribute.
type Amt struct {
	Value string `xml:",chardata"`
	Ccy   string `xml:"Ccy,attr"`
}

// Entry is one booked transaction.
type Entry struct {
	NtryRef     string    `xml:"NtryRef"`
	Amt         Amt       `xml:"Amt"`
	CdtDbtInd   string    `xml:"CdtDbtInd"`
	RvslInd     string    `xml:"RvslInd"`
	Sts         string    `xml:"Sts"`
	BookgDt     EntryDate `xml:"BookgDt"`
	ValDt       EntryDate `xml:"ValDt"`
	AcctSvcrRef string    `xml:"AcctSvcrRef"`
	BkTxCd      BkTxCd    `xml:"BkTxCd"`
	NtryDtls    struct {
		TxDtls []TxDtls `xml:"TxDtls"`
	} `xml:"NtryDtls"`
	AddtlNtryInf string `xml:"AddtlNtryInf"`
}

// EntryDate is a date choice element; only the plain date is used.
type EntryDate struct {
	Dt string `xml:"Dt"`
}

// BkTxCd is the structured or proprietary bank transaction code.
type BkTxCd struct {
	Domn struct {
		Cd   string `xml:"Cd"`
		Fmly struct {
			Cd        string `xml:"Cd"`
			SubFmlyCd string `xml:"SubFmlyCd"`
		} `xml:"Fmly"`
	} `xml:"Domn"`
	Prtry struct {
		Cd string `xml:"Cd"`
	} `xml:"Prtry"`
}

// TxDtls carries the per-transaction detail block.
type TxDtls struct {
	Refs struct {
		MsgID      string `xml:"MsgId"`
		InstrID    string `xml:"InstrId"`
		EndToEndID string `xml:"EndToEndId"`
		TxID       string `xml:"TxId"`
		MndtID     string `xml:"MndtId"`
	} `xml:"Refs"`
	RtrInf struct {
		Rsn struct {
			Cd string `xml:"Cd"`
		} `xml:"Rsn"`
	} `xml:"RtrInf"`
	RltdPties struct {
		Dbtr struct {
			Nm string `xml:"Nm"`
		} `xml:"Dbtr"`
		DbtrAcct struct {
			ID struct {
				IBAN string `xml:"IBAN"`
			} `xml:"Id"`
		} `xml:"DbtrAcct"`
		Cdtr struct {
			Nm string `xml:"Nm"`
		} `xml:"Cdtr"`
		CdtrAcct struct {
			ID struct {
				IBAN string `xml:"IBAN"`
			} `xml:"Id"`
		} `xml:"CdtrAcct"`
	} `xml:"RltdPties"`
	RltdAgts struct {
		DbtrAgt struct {
			FinInstnID struct {
				BICFI string `xml:"BICFI"`
				BIC   string `xml:"BIC"`
			} `xml:"FinInstnId"`
		} `xml:"DbtrAgt"`
		CdtrAgt struct {
			FinInstnID struct {
				BICFI string `xml:"BICFI"`
				BIC   string `xml:"BIC"`
			} `xml:"FinInstnId"`
		} `xml:"CdtrAgt"`
	} `xml:"RltdAgts"`
	CdtrSchmeID struct {
		ID struct {
			PrvtID struct {
				Othr struct {
					ID string `xml:"Id"`
				} `xml:"Othr"`
			} `xml:"PrvtId"`
		} `xml:"Id"`
	} `xml:"CdtrSchmeId"`
	Purp struct {
		Cd string `xml:"Cd"`
	} `xml:"Purp"`
	RmtInf struct {
		Ustrd []string `xml:"Ustrd"`
	} `xml:"RmtInf"`
	AddtlTxInf string `xml:"AddtlTxInf"`
}

// GetFirstTxDetails returns the first transaction detail block, or nil.
func (e *Entry) GetFirstTxDetails() *TxDtls {
	if len(e.NtryDtls.TxDtls) > 0 {
		return &e.NtryDtls.TxDtls[0]
	}
	return nil
}

// IsReversal interprets the RvslInd boolean text.
func (e *Entry) IsReversal() bool {
	return strings.EqualFold(e.RvslInd, "true")
}

// RemittanceInfo joins the unstructured remittance lines.
func (e *Entry) RemittanceInfo() string {
	td := e.GetFirstTxDetails()
	if td == nil {
		return ""
	}
	return strings.Join(td.RmtInf.Ustrd, " ")
}

// CounterpartyName returns the name of the other side of the entry: the
// debtor for incoming (credit) entries, the creditor for outgoing ones.
func (e *Entry) CounterpartyName() string {
	td := e.GetFirstTxDetails()
	if td == nil {
		return ""
	}
	if e.CdtDbtInd == "CRDT" {
		return td.RltdPties.Dbtr.Nm
	}
	return td.RltdPties.Cdtr.Nm
}

// CounterpartyIBAN returns the IBAN of the other side of the entry.
func (e *Entry) CounterpartyIBAN() string {
	td := e.GetFirstTxDetails()
	if td == nil {
		return ""
	}
	if e.CdtDbtInd == "CRDT" {
		return td.RltdPties.DbtrAcct.ID.IBAN
	}
	return td.RltdPties.CdtrAcct.ID.IBAN
}

// CounterpartyBIC returns the BIC of the other side's agent, preferring
// the BICFI spelling introduced with the later schema versions.
func (e *Entry) CounterpartyBIC() string {
	td := e.GetFirstTxDetails()
	if td == nil {
		return ""
	}
	var fin struct{ BICFI, BIC string }
	if e.CdtDbtInd == "CRDT" {
		fin.BICFI = td.RltdAgts.DbtrAgt.FinInstnID.BICFI
		fin.BIC = td.RltdAgts.DbtrAgt.FinInstnID.BIC
	} else {
		fin.BICFI = td.RltdAgts.CdtrAgt.FinInstnID.BICFI
		fin.BIC = td.RltdAgts.CdtrAgt.FinInstnID.BIC
	}
	if fin.BICFI != "" {
		return fin.BICFI
	}
	return fin.BIC
}
