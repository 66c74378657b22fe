package verify

import (
	"context"
	"fmt"
	"strings"

	"medicine-verify/internal/verdict"
)

// recallMarker flags a batch as recalled. It is a placeholder policy, not a recall database.
const recallMarker = "RECALL"

const recallAlert = "FDA ENFORCEMENT: Class I Recall Active"

// screen consults the "bad" lists in priority order and stops at the first hit. A nil
// resolution means the medicine is clear. Batch stages only run when a batch was given.
func (e *Engine) screen(ctx context.Context, req Request) (*resolution, error) {
	banned, err := e.registry.BannedDrugs(ctx, req.MedicineInput)
	if err != nil {
		return nil, err
	}
	if len(banned) > 0 {
		return unsafe(verdict.SourceCDSCO, "BANNED: "+banned[0].Reason), nil
	}

	if req.BatchNumber == "" {
		return nil, nil
	}

	alerts, err := e.registry.SafetyAlerts(ctx, req.BatchNumber)
	if err != nil {
		return nil, err
	}
	if len(alerts) > 0 {
		alert := alerts[0]
		return unsafe(verdict.SourceCDSCO, fmt.Sprintf("SAFETY ALERT (%s): %s", alert.AlertType, alert.ReasonForAlert)), nil
	}

	blacklisted, err := e.registry.BlacklistedBatches(ctx, req.BatchNumber)
	if err != nil {
		return nil, err
	}
	if len(blacklisted) > 0 {
		return unsafe(verdict.SourceWHO, "WHO ALERT: "+blacklisted[0].Reason), nil
	}

	if strings.Contains(req.BatchNumber, recallMarker) {
		return unsafe(verdict.SourceFDA, recallAlert), nil
	}
	return nil, nil
}

func unsafe(source verdict.Source, alert string) *resolution {
	return &resolution{
		status: verdict.StatusUnsafe,
		source: source,
		alerts: []string{alert},
	}
}
