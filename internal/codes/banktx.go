package codes

// Domain is an ISO 20022 bank transaction code domain.
type Domain string

const (
	DomainPMNT Domain = "PMNT" // payments
	DomainCAMT Domain = "CAMT" // cash management
	DomainACMT Domain = "ACMT" // account management
	DomainSECU Domain = "SECU" // securities
	DomainTRAD Domain = "TRAD" // trade services
	DomainLDAS Domain = "LDAS" // loans, deposits and syndications
	DomainFORX Domain = "FORX" // foreign exchange
	DomainXTND Domain = "XTND" // extended domain
)

// DomainFromString resolves a domain code case-insensitively.
func DomainFromString(s string) (Domain, bool) {
	d := Domain(normalize(s))
	if d.IsValid() {
		return d, true
	}
	return "", false
}

// IsValid reports whether the code belongs to the closed set.
func (d Domain) IsValid() bool {
	switch d {
	case DomainPMNT, DomainCAMT, DomainACMT, DomainSECU,
		DomainTRAD, DomainLDAS, DomainFORX, DomainXTND:
		return true
	}
	return false
}

// Name returns the short human-readable name of the domain.
func (d Domain) Name() string {
	switch d {
	case DomainPMNT:
		return "Payments"
	case DomainCAMT:
		return "Cash Management"
	case DomainACMT:
		return "Account Management"
	case DomainSECU:
		return "Securities"
	case DomainTRAD:
		return "Trade Services"
	case DomainLDAS:
		return "Loans, Deposits & Syndications"
	case DomainFORX:
		return "Foreign Exchange"
	case DomainXTND:
		return "Extended Domain"
	}
	return ""
}

// Definition returns the standardized definition text of the domain.
func (d Domain) Definition() string {
	switch d {
	case DomainPMNT:
		return "Transactions related to the transfer of cash between accounts."
	case DomainCAMT:
		return "Transactions related to cash management activities."
	case DomainACMT:
		return "Transactions related to the management of accounts."
	case DomainSECU:
		return "Transactions related to securities operations."
	case DomainTRAD:
		return "Transactions related to trade services such as documentary credits and guarantees."
	case DomainLDAS:
		return "Transactions related to loans, deposits and syndications."
	case DomainFORX:
		return "Transactions related to foreign exchange operations."
	case DomainXTND:
		return "Domain extension for codes not covered by the standard domains."
	}
	return ""
}

// Family is an ISO 20022 bank transaction code family (subset spanning the
// payments and cash-management domains used by the extractors).
type Family string

const (
	FamilyRCDT Family = "RCDT" // received credit transfers
	FamilyICDT Family = "ICDT" // issued credit transfers
	FamilyRDDT Family = "RDDT" // received direct debits
	FamilyIDDT Family = "IDDT" // issued direct debits
	FamilyCCRD Family = "CCRD" // customer card transactions
	FamilyMCRD Family = "MCRD" // merchant card transactions
	FamilyCNTR Family = "CNTR" // counter transactions
	FamilyACCB Family = "ACCB" // account balancing
	FamilyOTHR Family = "OTHR" // other
)

// FamilyFromString resolves a family code case-insensitively.
func FamilyFromString(s string) (Family, bool) {
	f := Family(normalize(s))
	if f.IsValid() {
		return f, true
	}
	return "", false
}

// IsValid reports whether the code belongs to the closed set.
func (f Family) IsValid() bool {
	switch f {
	case FamilyRCDT, FamilyICDT, FamilyRDDT, FamilyIDDT, FamilyCCRD,
		FamilyMCRD, FamilyCNTR, FamilyACCB, FamilyOTHR:
		return true
	}
	return false
}

// Name returns the short human-readable name of the family.
func (f Family) Name() string {
	switch f {
	case FamilyRCDT:
		return "Received Credit Transfers"
	case FamilyICDT:
		return "Issued Credit Transfers"
	case FamilyRDDT:
		return "Received Direct Debits"
	case FamilyIDDT:
		return "Issued Direct Debits"
	case FamilyCCRD:
		return "Customer Card Transactions"
	case FamilyMCRD:
		return "Merchant Card Transactions"
	case FamilyCNTR:
		return "Counter Transactions"
	case FamilyACCB:
		return "Account Balancing"
	case FamilyOTHR:
		return "Other"
	}
	return ""
}

// Definition returns the standardized definition text of the family.
func (f Family) Definition() string {
	switch f {
	case FamilyRCDT:
		return "Credit transfers received by the account owner."
	case FamilyICDT:
		return "Credit transfers issued by the account owner."
	case FamilyRDDT:
		return "Direct debits received on the account."
	case FamilyIDDT:
		return "Direct debits issued by the account owner."
	case FamilyCCRD:
		return "Card transactions initiated by the account owner as cardholder."
	case FamilyMCRD:
		return "Card transactions settled to the account owner as merchant."
	case FamilyCNTR:
		return "Cash deposits and withdrawals at a counter."
	case FamilyACCB:
		return "Balancing movements between accounts of the same owner."
	case FamilyOTHR:
		return "Transactions not covered by another family of the domain."
	}
	return ""
}
