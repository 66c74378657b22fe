package scoring

import (
	"time"

	"medicine-verify/internal/verdict"
)

const banYear = 2024

// AlertTemplate is the canned presentation of an alert raised by one authority.
type AlertTemplate struct {
	ReferenceID    string
	Type           string
	HistoricalUses []string
	DefaultSummary string
}

// TemplateFor returns the alert template for an UNSAFE source.
func TemplateFor(source verdict.Source) AlertTemplate {
	switch source {
	case verdict.SourceCDSCO:
		return AlertTemplate{
			ReferenceID:    "CDSCO/NSQ/2025/SPOT-CHECK",
			Type:           "Not of Standard Quality (NSQ)",
			HistoricalUses: []string{"Pain relief", "Fever reduction"},
			DefaultSummary: "Found to be Not of Standard Quality (NSQ) by CDSCO labs.",
		}
	case verdict.SourceFDA:
		return AlertTemplate{
			ReferenceID:    "FDA/RECALL/2025/CLASS-II",
			Type:           "Enforcement Report",
			HistoricalUses: []string{"Bacterial infection treatment"},
			DefaultSummary: "Voluntary recall due to potential contamination.",
		}
	case verdict.SourceWHO:
		return AlertTemplate{
			ReferenceID:    "WHO/GSMS/ALERT/NO-5",
			Type:           "Substandard/Falsified Product",
			HistoricalUses: []string{"Malaria treatment"},
			DefaultSummary: "Confirmed falsified product detected in supply chain.",
		}
	case verdict.SourceOpenDatabase, verdict.SourceGlobalApproval, verdict.SourceSystemLogic, verdict.SourceUnknown:
	}
	return AlertTemplate{
		ReferenceID:    "REF-GENERIC",
		Type:           "Safety Alert",
		HistoricalUses: []string{},
		DefaultSummary: "Safety violation detected",
	}
}

// UnsafeExtras is the presentation payload attached to UNSAFE results.
type UnsafeExtras struct {
	AlertLevel     string
	Authority      string
	AlertDetails   verdict.AlertDetails
	BanDetails     verdict.BanDetails
	HistoricalUses []string
}

// BuildUnsafeExtras fills the source template. The first collected alert becomes the summary
// when there is one.
func BuildUnsafeExtras(source verdict.Source, alerts []string, issued time.Time) UnsafeExtras {
	tmpl := TemplateFor(source)
	summary := tmpl.DefaultSummary
	if len(alerts) > 0 && alerts[0] != "" {
		summary = alerts[0]
	}
	uses := make([]string, len(tmpl.HistoricalUses))
	copy(uses, tmpl.HistoricalUses)
	return UnsafeExtras{
		AlertLevel: "CRITICAL",
		Authority:  source.Authority(),
		AlertDetails: verdict.AlertDetails{
			Type:        tmpl.Type,
			ReferenceID: tmpl.ReferenceID,
			IssuedDate:  issued.UTC().Format(time.DateOnly),
			Summary:     summary,
		},
		BanDetails:     verdict.BanDetails{Reason: summary, Year: banYear},
		HistoricalUses: uses,
	}
}
