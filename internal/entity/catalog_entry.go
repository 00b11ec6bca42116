package entity

// Payer identifies the insurer whose tariff catalog governs a position code.
type Payer string

const (
	PayerOEGK    Payer = "ÖGK"
	PayerBVAEB   Payer = "BVAEB"
	PayerSVS     Payer = "SVS"
	PayerKUF     Payer = "KUF"
	PayerMedrech Payer = "MEDRECH"

	// PayerUnknown means no payer could be detected in the query.
	PayerUnknown Payer = ""
)

// AllPayers lists the supported insurers in detection priority order.
var AllPayers = []Payer{PayerOEGK, PayerBVAEB, PayerSVS, PayerKUF, PayerMedrech}

// CatalogEntry is a single billable tariff position. Entries are loaded once
// at startup and never mutated.
type CatalogEntry struct {
	Payer  Payer  `json:"payer"`
	Pos    string `json:"pos"`
	Title  string `json:"title"`
	Points string `json:"points"`
	Notes  string `json:"notes,omitempty"`
	Source string `json:"source,omitempty"`
}
