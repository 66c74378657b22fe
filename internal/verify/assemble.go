package verify

import (
	"time"

	"medicine-verify/internal/scoring"
	"medicine-verify/internal/verdict"
)

func assemble(req Request, res resolution, requestID string, now time.Time) verdict.Result {
	resolvedManufacturer := ""
	if res.details != nil {
		resolvedManufacturer = res.details.Manufacturer
	}
	overall := scoring.Combine(scoring.Input{
		Status:               res.status,
		Source:               res.source,
		ManufacturerInput:    req.ManufacturerInput,
		ResolvedManufacturer: resolvedManufacturer,
	})

	alerts := res.alerts
	if alerts == nil {
		alerts = []string{}
	}
	result := verdict.Result{
		RequestID:        requestID,
		Status:           res.status,
		Source:           res.source,
		Level:            overall.Level,
		CDSCOStatus:      overall.CDSCOStatus,
		Details:          res.details,
		Alerts:           alerts,
		ConfidenceScore:  overall.Confidence,
		RegulatoryChecks: overall.Checks,
		Disclaimer:       overall.Disclaimer,
	}

	if res.status == verdict.StatusUnsafe {
		extras := scoring.BuildUnsafeExtras(res.source, alerts, now)
		result.AlertLevel = extras.AlertLevel
		result.Authority = extras.Authority
		result.AlertDetails = &extras.AlertDetails
		result.BanDetails = &extras.BanDetails
		result.HistoricalUses = extras.HistoricalUses
	}
	return result
}
