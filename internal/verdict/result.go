package verdict

// MedicineDetails is the best-effort description of the resolved medicine.
type MedicineDetails struct {
	BrandName    string   `json:"brand_name"`
	GenericName  string   `json:"generic_name"`
	Composition  []string `json:"composition"`
	DosageForm   string   `json:"dosage_form"`
	Uses         []string `json:"uses"`
	Manufacturer string   `json:"manufacturer"`
	Price        string   `json:"price"`
}

// CheckEntry is a single authority's row in the regulatory breakdown.
type CheckEntry struct {
	Status CheckStatus `json:"status"`
	Label  string      `json:"label"`
}

// RegulatoryChecks always carries exactly the cdsco, fda and who entries.
type RegulatoryChecks struct {
	CDSCO CheckEntry `json:"cdsco"`
	FDA   CheckEntry `json:"fda"`
	WHO   CheckEntry `json:"who"`
}

// AlertDetails summarises the alert behind an UNSAFE verdict.
type AlertDetails struct {
	Type        string `json:"type"`
	ReferenceID string `json:"reference_id"`
	IssuedDate  string `json:"issued_date"`
	Summary     string `json:"summary"`
}

// BanDetails describes why a medicine was banned or flagged.
type BanDetails struct {
	Reason string `json:"reason"`
	Year   int    `json:"year"`
}

// Result is the engine output for one request. It is never mutated after assembly.
type Result struct {
	RequestID        string
	Status           Status
	Source           Source
	Level            Level
	CDSCOStatus      string
	Details          *MedicineDetails
	Alerts           []string
	ConfidenceScore  int
	RegulatoryChecks RegulatoryChecks
	Disclaimer       string

	// Populated only when Status is StatusUnsafe.
	AlertLevel     string
	Authority      string
	AlertDetails   *AlertDetails
	BanDetails     *BanDetails
	HistoricalUses []string
}
