package verify

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"medicine-verify/internal/ai"
	"medicine-verify/internal/match"
	"medicine-verify/internal/metrics"
	"medicine-verify/internal/verdict"
)

// fallback consults the classifier for medicines no registry knows. Every classifier
// failure resolves to UNVERIFIED; nothing here returns an error.
func (e *Engine) fallback(ctx context.Context, req Request, logger *logrus.Entry) *resolution {
	assessment, outcome := e.classify(ctx, req, logger)
	metrics.ClassifierOutcomesTotal.WithLabelValues(outcome).Inc()

	if assessment.Approved() {
		return &resolution{
			status:  verdict.StatusVerified,
			source:  verdict.SourceGlobalApproval,
			details: globalDetails(req, assessment),
			alerts:  []string{},
		}
	}

	res := &resolution{
		status: verdict.StatusUnverified,
		source: verdict.SourceSystemLogic,
		details: &verdict.MedicineDetails{
			BrandName:    req.MedicineInput,
			GenericName:  "Unknown / Unverified",
			Composition:  []string{},
			DosageForm:   "Unknown",
			Uses:         []string{"Medicine could not be verified by any official authority."},
			Manufacturer: match.FirstNonEmpty(req.ManufacturerInput, "Unknown"),
			Price:        "N/A",
		},
		alerts: []string{},
	}
	if assessment != nil && assessment.Reason != "" {
		res.alerts = append(res.alerts, "Risk Flag: "+assessment.Reason)
	}
	return res
}

func (e *Engine) classify(ctx context.Context, req Request, logger *logrus.Entry) (*ai.Assessment, string) {
	if !e.ClassifierEnabled() {
		return nil, "disabled"
	}
	callCtx, cancel := context.WithTimeout(ctx, e.classifierTimeout)
	defer cancel()

	assessment, err := e.classifier.Classify(callCtx, ai.Query{
		MedicineName: req.MedicineInput,
		Manufacturer: req.ManufacturerInput,
	})
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		logger.WithError(err).Warn("classifier timed out")
		return nil, "timeout"
	case errors.Is(err, ai.ErrMalformedResponse):
		logger.WithError(err).Warn("classifier response unusable")
		return nil, "malformed"
	case err != nil:
		logger.WithError(err).Warn("classifier call failed")
		return nil, "error"
	case assessment == nil:
		return nil, "empty"
	case assessment.Approved():
		return assessment, "approved"
	case !assessment.Found:
		return assessment, "not_found"
	default:
		return assessment, "high_risk"
	}
}

// globalDetails builds details from an approving assessment. A manufacturer that merely
// echoes the brand or the query is discarded.
func globalDetails(req Request, a *ai.Assessment) *verdict.MedicineDetails {
	manufacturer := a.Manufacturer
	if manufacturer == "" || strings.EqualFold(manufacturer, a.BrandName) || strings.EqualFold(manufacturer, req.MedicineInput) {
		manufacturer = match.FirstNonEmpty(req.ManufacturerInput, "Refer to Packaging")
	}
	return &verdict.MedicineDetails{
		BrandName:    match.FirstNonEmpty(a.BrandName, req.MedicineInput),
		GenericName:  match.FirstNonEmpty(a.GenericName, "N/A"),
		Composition:  nonNil(a.Composition),
		DosageForm:   match.FirstNonEmpty(a.DosageForm, "N/A"),
		Uses:         nonNil(a.Uses),
		Manufacturer: manufacturer,
		Price:        match.FirstNonEmpty(string(a.ApproximatePrice), "Refer to MRP"),
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
