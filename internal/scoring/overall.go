// Package scoring turns a resolved verdict into its confidence score, verification level
// and per-authority regulatory breakdown. Everything here is pure.
package scoring

import (
	"medicine-verify/internal/match"
	"medicine-verify/internal/verdict"
)

const (
	confidenceVerified     = 95
	confidenceManufacturer = 99
	confidenceUnverified   = 15
	confidenceUnsafe       = 0
)

// Input is the part of a verdict that scoring depends on.
type Input struct {
	Status               verdict.Status
	Source               verdict.Source
	ManufacturerInput    string
	ResolvedManufacturer string
}

// OverallResult merges the final status and source into the caller-facing scoring fields.
type OverallResult struct {
	Level       verdict.Level
	Confidence  int
	CDSCOStatus string
	Checks      verdict.RegulatoryChecks
	Disclaimer  string
}

// DefaultChecks is the breakdown before any authority is flagged.
func DefaultChecks() verdict.RegulatoryChecks {
	return verdict.RegulatoryChecks{
		CDSCO: verdict.CheckEntry{Status: verdict.CheckPass, Label: "No Alerts (India)"},
		FDA:   verdict.CheckEntry{Status: verdict.CheckPass, Label: "No Recalls (USA)"},
		WHO:   verdict.CheckEntry{Status: verdict.CheckPass, Label: "No Alerts (Global)"},
	}
}

// LevelFor classifies how a verdict was reached.
func LevelFor(status verdict.Status, source verdict.Source) verdict.Level {
	switch status {
	case verdict.StatusVerified:
		switch source {
		case verdict.SourceCDSCO, verdict.SourceOpenDatabase:
			return verdict.LevelDomesticApproval
		case verdict.SourceGlobalApproval:
			return verdict.LevelGlobalApproval
		case verdict.SourceFDA, verdict.SourceWHO, verdict.SourceSystemLogic, verdict.SourceUnknown:
			return verdict.LevelUnknown
		}
		return verdict.LevelUnknown
	case verdict.StatusUnverified:
		return verdict.LevelUnverified
	case verdict.StatusUnsafe:
		return verdict.LevelBannedOrUnsafe
	case verdict.StatusUnknown, verdict.StatusError:
		return verdict.LevelUnknown
	}
	return verdict.LevelUnknown
}

// Combine applies the scoring matrix to a resolved verdict.
func Combine(in Input) OverallResult {
	level := LevelFor(in.Status, in.Source)
	result := OverallResult{
		Level:       level,
		Confidence:  confidenceUnsafe,
		CDSCOStatus: "No public alert found",
		Checks:      DefaultChecks(),
		Disclaimer:  "Information could not be verified from official databases.",
	}

	switch in.Status {
	case verdict.StatusVerified:
		result.Confidence = confidenceVerified
		if match.ContainsFold(in.ResolvedManufacturer, in.ManufacturerInput) {
			result.Confidence = confidenceManufacturer
		}
		switch level {
		case verdict.LevelDomesticApproval:
			result.Checks.CDSCO.Label = "Approved Drug (India)"
			result.CDSCOStatus = "Approved for sale in India"
			result.Disclaimer = "Verified against official regulatory records."
		case verdict.LevelGlobalApproval:
			result.Checks.CDSCO.Label = "No Public Alerts Found"
			result.Checks.FDA.Label = "Approved / Enforced"
			result.Checks.WHO.Label = "Essential Medicine Listed"
			result.CDSCOStatus = "No public safety alert found"
			result.Disclaimer = "Verified using international regulatory data. No safety alerts found."
		case verdict.LevelUnverified, verdict.LevelBannedOrUnsafe, verdict.LevelUnknown:
			result.Disclaimer = "Verified against official regulatory records."
		}
	case verdict.StatusUnverified:
		result.Confidence = confidenceUnverified
		result.Checks.CDSCO = verdict.CheckEntry{Status: verdict.CheckUnknown, Label: "Not Found in Public DB"}
		result.CDSCOStatus = "Not found in public records"
		result.Disclaimer = "Warning: Verification Failed. High Risk."
	case verdict.StatusUnsafe:
		result.Confidence = confidenceUnsafe
		result.Disclaimer = "CRITICAL: Do not consume. Official alert exists."
		switch in.Source {
		case verdict.SourceCDSCO:
			result.Checks.CDSCO = verdict.CheckEntry{Status: verdict.CheckFail, Label: "Banned / Safety Alert"}
			result.CDSCOStatus = "Official Safety Alert Issued"
		case verdict.SourceFDA:
			result.Checks.FDA.Status = verdict.CheckFail
		case verdict.SourceWHO:
			result.Checks.WHO.Status = verdict.CheckFail
		case verdict.SourceOpenDatabase, verdict.SourceGlobalApproval, verdict.SourceSystemLogic, verdict.SourceUnknown:
		}
	case verdict.StatusUnknown, verdict.StatusError:
	}
	return result
}
