package scoring

import (
	"testing"
	"time"

	"medicine-verify/internal/verdict"
)

func TestBuildUnsafeExtras(t *testing.T) {
	issued := time.Date(2025, 3, 9, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	tests := []struct {
		name      string
		source    verdict.Source
		alerts    []string
		ref       string
		authority string
		summary   string
		uses      int
	}{
		{"cdsco uses first alert", verdict.SourceCDSCO, []string{"BANNED: High risk of hepatotoxicity in children"}, "CDSCO/NSQ/2025/SPOT-CHECK", "CDSCO INDIA", "BANNED: High risk of hepatotoxicity in children", 2},
		{"cdsco default", verdict.SourceCDSCO, nil, "CDSCO/NSQ/2025/SPOT-CHECK", "CDSCO INDIA", "Found to be Not of Standard Quality (NSQ) by CDSCO labs.", 2},
		{"fda", verdict.SourceFDA, []string{"FDA ENFORCEMENT: Class I Recall Active"}, "FDA/RECALL/2025/CLASS-II", "FDA US", "FDA ENFORCEMENT: Class I Recall Active", 1},
		{"who default", verdict.SourceWHO, nil, "WHO/GSMS/ALERT/NO-5", "WHO GLOBAL", "Confirmed falsified product detected in supply chain.", 1},
		{"generic", verdict.SourceSystemLogic, nil, "REF-GENERIC", "SYSTEM LOGIC", "Safety violation detected", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildUnsafeExtras(tc.source, tc.alerts, issued)
			if got.AlertLevel != "CRITICAL" {
				t.Fatalf("expected CRITICAL got %s", got.AlertLevel)
			}
			if got.AlertDetails.ReferenceID != tc.ref || got.Authority != tc.authority {
				t.Fatalf("unexpected template %+v", got)
			}
			if got.AlertDetails.Summary != tc.summary || got.BanDetails.Reason != tc.summary {
				t.Fatalf("summary: expected %q got %+v / %+v", tc.summary, got.AlertDetails, got.BanDetails)
			}
			if got.AlertDetails.IssuedDate != "2025-03-09" {
				t.Fatalf("issued date must be UTC day, got %s", got.AlertDetails.IssuedDate)
			}
			if got.BanDetails.Year != 2024 {
				t.Fatalf("expected ban year 2024 got %d", got.BanDetails.Year)
			}
			if len(got.HistoricalUses) != tc.uses {
				t.Fatalf("expected %d historical uses got %v", tc.uses, got.HistoricalUses)
			}
		})
	}
}

func TestTemplateUsesAreCopied(t *testing.T) {
	first := BuildUnsafeExtras(verdict.SourceCDSCO, nil, time.Now())
	first.HistoricalUses[0] = "mutated"
	if TemplateFor(verdict.SourceCDSCO).HistoricalUses[0] != "Pain relief" {
		t.Fatal("template mutated through result")
	}
}
