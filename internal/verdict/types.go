// Package verdict holds the closed vocabularies and result shapes produced by the
// verification engine.
package verdict

import "strings"

// Status is the terminal state of a single verification request.
type Status string

const (
	StatusUnsafe     Status = "UNSAFE"
	StatusVerified   Status = "VERIFIED"
	StatusUnverified Status = "UNVERIFIED"
	StatusUnknown    Status = "UNKNOWN"
	StatusError      Status = "ERROR"
)

// Display returns the status as reported to callers. UNVERIFIED surfaces as HIGH_RISK.
func (s Status) Display() string {
	switch s {
	case StatusUnverified:
		return "HIGH_RISK"
	case StatusUnsafe, StatusVerified, StatusUnknown, StatusError:
		return string(s)
	default:
		return string(StatusUnknown)
	}
}

// Source identifies which data source produced a verdict.
type Source string

const (
	SourceCDSCO          Source = "CDSCO_INDIA"
	SourceFDA            Source = "FDA_US"
	SourceWHO            Source = "WHO_GLOBAL"
	SourceOpenDatabase   Source = "OPEN_DATABASE"
	SourceGlobalApproval Source = "GLOBAL_APPROVAL"
	SourceSystemLogic    Source = "SYSTEM_LOGIC"
	SourceUnknown        Source = "UNKNOWN"
)

// Display returns the source as reported to callers. Sources that aggregate several
// authorities surface under a combined tag.
func (s Source) Display() string {
	switch s {
	case SourceOpenDatabase, SourceGlobalApproval:
		return "CDSCO_FDA_WHO"
	case SourceCDSCO, SourceFDA, SourceWHO, SourceSystemLogic, SourceUnknown:
		return string(s)
	default:
		return string(SourceUnknown)
	}
}

// Authority renders the source as a human label, e.g. "CDSCO INDIA".
func (s Source) Authority() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Level classifies how a verdict was reached.
type Level string

const (
	LevelDomesticApproval Level = "DOMESTIC_APPROVAL"
	LevelGlobalApproval   Level = "GLOBAL_APPROVAL"
	LevelUnverified       Level = "UNVERIFIED"
	LevelBannedOrUnsafe   Level = "BANNED_OR_UNSAFE"
	LevelUnknown          Level = "UNKNOWN"
)

// CheckStatus is the per-authority outcome shown in the regulatory breakdown.
type CheckStatus string

const (
	CheckPass    CheckStatus = "pass"
	CheckFail    CheckStatus = "fail"
	CheckUnknown CheckStatus = "unknown"
)
