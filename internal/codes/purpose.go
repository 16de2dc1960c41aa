package codes

// Purpose is an ISO 20022 external purpose code (subset relevant to
// statement and payment-initiation round-tripping).
type Purpose string

const (
	PurposeSALA Purpose = "SALA" // salary payment
	PurposePENS Purpose = "PENS" // pension payment
	PurposeSUPP Purpose = "SUPP" // supplier payment
	PurposeTAXS Purpose = "TAXS" // tax payment
	PurposeVATX Purpose = "VATX" // value added tax payment
	PurposeINTC Purpose = "INTC" // intra-company payment
	PurposeTREA Purpose = "TREA" // treasury payment
	PurposeCASH Purpose = "CASH" // cash management transfer
	PurposeDIVD Purpose = "DIVD" // dividend payment
	PurposeINTE Purpose = "INTE" // interest
	PurposeLOAN Purpose = "LOAN" // loan disbursement
	PurposeLOAR Purpose = "LOAR" // loan repayment
	PurposeRENT Purpose = "RENT" // rent payment
	PurposeINSU Purpose = "INSU" // insurance premium
	PurposeCHAR Purpose = "CHAR" // charity payment
	PurposeGOVT Purpose = "GOVT" // government payment
	PurposeBONU Purpose = "BONU" // bonus payment
	PurposeCBFF Purpose = "CBFF" // capital building fringe fortune
	PurposeOTHR Purpose = "OTHR" // other
)

// PurposeFromString resolves a purpose code case-insensitively.
func PurposeFromString(s string) (Purpose, bool) {
	p := Purpose(normalize(s))
	if p.IsValid() {
		return p, true
	}
	return "", false
}

// IsValid reports whether the code belongs to the closed set.
func (p Purpose) IsValid() bool {
	switch p {
	case PurposeSALA, PurposePENS, PurposeSUPP, PurposeTAXS, PurposeVATX,
		PurposeINTC, PurposeTREA, PurposeCASH, PurposeDIVD, PurposeINTE,
		PurposeLOAN, PurposeLOAR, PurposeRENT, PurposeINSU, PurposeCHAR,
		PurposeGOVT, PurposeBONU, PurposeCBFF, PurposeOTHR:
		return true
	}
	return false
}

// Name returns the short human-readable name of the code.
func (p Purpose) Name() string {
	switch p {
	case PurposeSALA:
		return "Salary Payment"
	case PurposePENS:
		return "Pension Payment"
	case PurposeSUPP:
		return "Supplier Payment"
	case PurposeTAXS:
		return "Tax Payment"
	case PurposeVATX:
		return "Value Added Tax Payment"
	case PurposeINTC:
		return "Intra Company Payment"
	case PurposeTREA:
		return "Treasury Payment"
	case PurposeCASH:
		return "Cash Management Transfer"
	case PurposeDIVD:
		return "Dividend"
	case PurposeINTE:
		return "Interest"
	case PurposeLOAN:
		return "Loan"
	case PurposeLOAR:
		return "Loan Repayment"
	case PurposeRENT:
		return "Rent"
	case PurposeINSU:
		return "Insurance Premium"
	case PurposeCHAR:
		return "Charity Payment"
	case PurposeGOVT:
		return "Government Payment"
	case PurposeBONU:
		return "Bonus Payment"
	case PurposeCBFF:
		return "Capital Building Fringe Fortune"
	case PurposeOTHR:
		return "Other"
	}
	return ""
}

// Definition returns the standardized definition text of the code.
func (p Purpose) Definition() string {
	switch p {
	case PurposeSALA:
		return "Transaction is the payment of salaries."
	case PurposePENS:
		return "Transaction is the payment of pension."
	case PurposeSUPP:
		return "Transaction is related to a payment to a supplier."
	case PurposeTAXS:
		return "Transaction is the payment of taxes."
	case PurposeVATX:
		return "Transaction is the payment of value added tax."
	case PurposeINTC:
		return "Transaction is an intra-company payment, a payment between two companies belonging to the same group."
	case PurposeTREA:
		return "Transaction is related to treasury operations."
	case PurposeCASH:
		return "Transaction is a general cash management instruction."
	case PurposeDIVD:
		return "Transaction is the payment of dividends."
	case PurposeINTE:
		return "Transaction is the payment of interest."
	case PurposeLOAN:
		return "Transaction is related to the transfer of a loan to a borrower."
	case PurposeLOAR:
		return "Transaction is related to the repayment of a loan to a lender."
	case PurposeRENT:
		return "Transaction is the payment of rent."
	case PurposeINSU:
		return "Transaction is the payment of an insurance premium."
	case PurposeCHAR:
		return "Transaction is a payment for charity reasons."
	case PurposeGOVT:
		return "Transaction is a payment to or from a government department."
	case PurposeBONU:
		return "Transaction is related to the payment of a bonus."
	case PurposeCBFF:
		return "Transaction is related to capital building fringe fortune, ie savings in a broad sense."
	case PurposeOTHR:
		return "Other payment purpose."
	}
	return ""
}
