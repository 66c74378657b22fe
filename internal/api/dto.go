package api

import (
	"medicine-verify/internal/store"
	"medicine-verify/internal/verdict"
	"medicine-verify/internal/verify"
)

// VerificationRequest is the body of POST /api/medicine/verify.
type VerificationRequest struct {
	MedicineInput     string `json:"medicineInput"`
	BatchNumber       string `json:"batchNumber"`
	ManufacturerInput string `json:"manufacturerInput"`
	UserLocation      string `json:"userLocation"`
}

func (r VerificationRequest) toEngine() verify.Request {
	return verify.Request{
		MedicineInput:     r.MedicineInput,
		BatchNumber:       r.BatchNumber,
		ManufacturerInput: r.ManufacturerInput,
		UserLocation:      r.UserLocation,
	}
}

// VerificationResponse is the API representation of a verdict.
type VerificationResponse struct {
	Source             string                   `json:"source"`
	VerificationStatus string                   `json:"verification_status"`
	VerificationLevel  string                   `json:"verification_level"`
	CDSCOStatus        string                   `json:"cdsco_status"`
	MedicineDetails    *verdict.MedicineDetails `json:"medicine_details"`
	Alerts             []string                 `json:"alerts"`
	ConfidenceScore    int                      `json:"confidence_score"`
	RegulatoryChecks   verdict.RegulatoryChecks `json:"regulatory_checks"`
	Disclaimer         string                   `json:"disclaimer"`
	AlertLevel         string                   `json:"alert_level,omitempty"`
	Authority          string                   `json:"authority,omitempty"`
	AlertDetails       *verdict.AlertDetails    `json:"alert_details,omitempty"`
	BanDetails         *verdict.BanDetails      `json:"ban_details,omitempty"`
	HistoricalUses     []string                 `json:"historical_uses,omitempty"`
}

// NewVerificationResponse maps a verdict onto the wire shape. The request ID is not part of
// the body, so identical requests yield identical payloads.
func NewVerificationResponse(r verdict.Result) VerificationResponse {
	alerts := r.Alerts
	if alerts == nil {
		alerts = []string{}
	}
	return VerificationResponse{
		Source:             r.Source.Display(),
		VerificationStatus: r.Status.Display(),
		VerificationLevel:  string(r.Level),
		CDSCOStatus:        r.CDSCOStatus,
		MedicineDetails:    r.Details,
		Alerts:             alerts,
		ConfidenceScore:    r.ConfidenceScore,
		RegulatoryChecks:   r.RegulatoryChecks,
		Disclaimer:         r.Disclaimer,
		AlertLevel:         r.AlertLevel,
		Authority:          r.Authority,
		AlertDetails:       r.AlertDetails,
		BanDetails:         r.BanDetails,
		HistoricalUses:     r.HistoricalUses,
	}
}

// ErrorResponse is the fixed payload returned when a verification cannot complete.
type ErrorResponse struct {
	Source             string            `json:"source"`
	VerificationStatus string            `json:"verification_status"`
	MedicineDetails    map[string]string `json:"medicine_details"`
	Alerts             []string          `json:"alerts"`
	Disclaimer         string            `json:"disclaimer"`
}

func internalErrorResponse() ErrorResponse {
	return ErrorResponse{
		Source:             "ERROR",
		VerificationStatus: string(verdict.StatusError),
		MedicineDetails:    map[string]string{},
		Alerts:             []string{},
		Disclaimer:         "Internal verification error.",
	}
}

// LogsResponse lists recent verification log records.
type LogsResponse struct {
	Items []store.VerificationLog `json:"items"`
	Count int                     `json:"count"`
}

// ManufacturersResponse lists licensed manufacturers.
type ManufacturersResponse struct {
	Items []store.Manufacturer `json:"items"`
	Count int                  `json:"count"`
}

// ConfigResponse describes the active runtime wiring.
type ConfigResponse struct {
	StoreBackend string   `json:"store_backend"`
	Classifiers  []string `json:"classifiers"`
	Sinks        []string `json:"sinks"`
}
