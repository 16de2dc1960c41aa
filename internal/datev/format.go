package datev

// FormatType classifies a DATEV export by the format name declared in its
// meta header. The set is closed; adding a member requires updating the
// descriptor table below and every switch over FormatType.
type FormatType int

const (
	FormatUnknown FormatType = iota
	Buchungsstapel
	DebitorenKreditoren
	Kontenbeschriftungen
	WiederkehrendeBuchungen
	Zahlungsbedingungen
)

// descriptor carries the structural contract of one format version: the
// exact number of fields every data line must have and the maximum length
// of each field, applied on export.
type descriptor struct {
	token      string
	versions   []string
	fieldCount int
	// maxLen maps zero-based field index to the maximum rune length.
	// Fields without an entry fall back to defaultMax.
	maxLen     map[int]int
	defaultMax int
	// supported marks formats this engine fully parses. Unsupported
	// formats are still recognized by format analysis.
	supported bool
}

// Zero-based field positions of the Buchungsstapel line grammar.
const (
	fieldAmount        = 0  // Umsatz, comma decimal, always positive
	fieldDebitCredit   = 1  // Soll/Haben-Kennzeichen, S or H
	fieldCurrency      = 2  // WKZ Umsatz
	fieldAccount       = 6  // Konto
	fieldContraAccount = 7  // Gegenkonto
	fieldPostingKey    = 8  // BU-Schluessel
	fieldDocumentDate  = 9  // Belegdatum, DDMM
	fieldDocField1     = 10 // Belegfeld 1
	fieldDocField2     = 11 // Belegfeld 2
	fieldText          = 13 // Buchungstext
)

// Positions in the meta-header line.
const (
	headerToken        = 0  // EXTF or DTVF
	headerFormatName   = 3
	headerVersion      = 4
	headerOrigin       = 7
	headerFiscalStart  = 12 // YYYYMMDD
	headerPeriodStart  = 14 // YYYYMMDD
	headerPeriodEnd    = 15
	headerDescription  = 16
	headerBaseCurrency = 21
)

const buchungsstapelFieldCount = 125

var formatTable = map[FormatType]descriptor{
	Buchungsstapel: {
		token:      "Buchungsstapel",
		versions:   []string{"700"},
		fieldCount: buchungsstapelFieldCount,
		maxLen: map[int]int{
			fieldAmount:        13,
			fieldDebitCredit:   1,
			fieldCurrency:      3,
			fieldAccount:       9,
			fieldContraAccount: 9,
			fieldPostingKey:    4,
			fieldDocumentDate:  4,
			fieldDocField1:     36,
			fieldDocField2:     12,
			fieldText:          60,
		},
		defaultMax: 255,
		supported:  true,
	},
	DebitorenKreditoren: {
		token:      "Debitoren/Kreditoren",
		versions:   []string{"500", "700"},
		fieldCount: 243,
		defaultMax: 255,
	},
	Kontenbeschriftungen: {
		token:      "Kontenbeschriftungen",
		versions:   []string{"200", "300"},
		fieldCount: 4,
		defaultMax: 40,
	},
	WiederkehrendeBuchungen: {
		token:      "Wiederkehrende Buchungen",
		versions:   []string{"400"},
		fieldCount: 128,
		defaultMax: 255,
	},
	Zahlungsbedingungen: {
		token:      "Zahlungsbedingungen",
		versions:   []string{"200"},
		fieldCount: 12,
		defaultMax: 30,
	},
}

// AllFormats lists every known format type.
func AllFormats() []FormatType {
	return []FormatType{
		Buchungsstapel,
		DebitorenKreditoren,
		Kontenbeschriftungen,
		WiederkehrendeBuchungen,
		Zahlungsbedingungen,
	}
}

func (f FormatType) String() string {
	if d, ok := formatTable[f]; ok {
		return d.token
	}
	return "unknown"
}

// FieldCount returns the exact field count every data line must have.
func (f FormatType) FieldCount() int {
	return formatTable[f].fieldCount
}

// MaxFieldLength returns the maximum rune length of the given zero-based
// field, used by the export writer.
func (f FormatType) MaxFieldLength(index int) int {
	d, ok := formatTable[f]
	if !ok {
		return 0
	}
	if n, ok := d.maxLen[index]; ok {
		return n
	}
	return d.defaultMax
}

// SupportsVersion reports whether the format version is known.
func (f FormatType) SupportsVersion(version string) bool {
	for _, v := range formatTable[f].versions {
		if v == version {
			return true
		}
	}
	return false
}

// IsSupported reports whether this engine fully parses the format.
func (f FormatType) IsSupported() bool {
	return formatTable[f].supported
}

// FormatFromName resolves a meta-header format name token.
func FormatFromName(name string) (FormatType, bool) {
	for _, f := range AllFormats() {
		if formatTable[f].token == name {
			return f, true
		}
	}
	return FormatUnknown, false
}
