package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// BannedDrug is an entry of the national banned-drug list.
type BannedDrug struct {
	ID                 uint   `gorm:"primaryKey" yaml:"-"`
	DrugName           string `gorm:"size:255;index" yaml:"drug_name"`
	NotificationNumber string `gorm:"size:64" yaml:"notification_number"`
	BannedDate         string `gorm:"size:16" yaml:"banned_date"`
	Reason             string `gorm:"type:text" yaml:"reason"`
}

func (BannedDrug) TableName() string { return "cdsco_banned_drugs" }

// SafetyAlert is a batch-level alert issued by the national regulator (NSQ, spurious, ...).
type SafetyAlert struct {
	ID               uint   `gorm:"primaryKey" yaml:"-"`
	MedicineName     string `gorm:"size:255" yaml:"medicine_name"`
	BatchNumber      string `gorm:"size:128;index" yaml:"batch_number"`
	ManufacturerName string `gorm:"size:255" yaml:"manufacturer_name"`
	AlertType        string `gorm:"size:64" yaml:"alert_type"`
	ReasonForAlert   string `gorm:"type:text" yaml:"reason_for_alert"`
	AlertDate        string `gorm:"size:16" yaml:"alert_date"`
}

func (SafetyAlert) TableName() string { return "cdsco_safety_alerts" }

// BlacklistedBatch is a batch reported as falsified by the global surveillance system.
type BlacklistedBatch struct {
	ID           uint   `gorm:"primaryKey" yaml:"-"`
	BatchNumber  string `gorm:"size:128;index" yaml:"batch_number"`
	Source       string `gorm:"size:64" yaml:"source"`
	Reason       string `gorm:"type:text" yaml:"reason"`
	MedicineName string `gorm:"size:255" yaml:"medicine_name"`
}

func (BlacklistedBatch) TableName() string { return "batch_blacklist" }

// ApprovedDrug is a row of the national approved-drug registry. The registry carries no
// manufacturer or price information.
type ApprovedDrug struct {
	ID               uint   `gorm:"primaryKey" yaml:"-"`
	GenericName      string `gorm:"size:255;index" yaml:"generic_name"`
	BrandName        string `gorm:"size:255;index" yaml:"brand_name"`
	DosageForm       string `gorm:"size:100" yaml:"dosage_form"`
	TherapeuticClass string `gorm:"size:255" yaml:"therapeutic_class"`
	Indication       string `gorm:"type:text" yaml:"indication"`
	ApprovalDate     string `gorm:"size:16" yaml:"approval_date"`
}

func (ApprovedDrug) TableName() string { return "cdsco_approved_drugs" }

// Manufacturer is a licensed manufacturer known to the national regulator.
type Manufacturer struct {
	ID            uint   `gorm:"primaryKey" yaml:"-" json:"-"`
	CompanyName   string `gorm:"size:255;index" yaml:"company_name" json:"company_name"`
	LicenseNumber string `gorm:"size:64" yaml:"license_number" json:"license_number"`
	State         string `gorm:"size:128" yaml:"state" json:"state"`
	LicenseStatus string `gorm:"size:32" yaml:"license_status" json:"license_status"`
}

func (Manufacturer) TableName() string { return "cdsco_manufacturers" }

// CatalogueMedicine is a row of the open medicine catalogue. A zero price means the
// catalogue does not carry one.
type CatalogueMedicine struct {
	ID               uint            `gorm:"primaryKey" yaml:"-"`
	MedicineName     string          `gorm:"size:255;not null;index" yaml:"medicine_name"`
	Manufacturer     string          `gorm:"size:255" yaml:"manufacturer"`
	Composition      string          `gorm:"type:text" yaml:"composition"`
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" yaml:"price"`
	DosageForm       string          `gorm:"size:100" yaml:"dosage_form"`
	Category         string          `gorm:"size:100" yaml:"category"`
	TherapeuticClass string          `gorm:"size:255" yaml:"therapeutic_class"`
	Indications      string          `gorm:"type:text" yaml:"indications"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" yaml:"-"`
}

func (CatalogueMedicine) TableName() string { return "indian_medicines" }

// VerificationLog is the append-only record written after every verification.
type VerificationLog struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	RequestID          string    `gorm:"size:36;index" json:"request_id"`
	MedicineName       string    `gorm:"size:255" json:"medicine_name"`
	BatchNumber        string    `gorm:"size:128;index" json:"batch_number"`
	ReportedExpiry     *string   `gorm:"size:16" json:"reported_expiry,omitempty"`
	UserLocation       string    `gorm:"size:255" json:"user_location"`
	VerificationStatus string    `gorm:"size:32;index" json:"verification_status"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (VerificationLog) TableName() string { return "verification_logs" }

func allModels() []any {
	return []any{
		&BannedDrug{},
		&SafetyAlert{},
		&BlacklistedBatch{},
		&ApprovedDrug{},
		&Manufacturer{},
		&CatalogueMedicine{},
		&VerificationLog{},
	}
}
