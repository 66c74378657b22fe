package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

func normalizeJSONBlock(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.IndexRune(trimmed, '\n'); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	trimmed = strings.TrimSpace(trimmed)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end >= start {
		return strings.TrimSpace(trimmed[start : end+1])
	}
	return trimmed
}

// parseAssessment decodes raw model output. Output without a JSON object or without the
// found key is ErrMalformedResponse.
func parseAssessment(raw string) (*Assessment, error) {
	content := normalizeJSONBlock(raw)
	if content == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &keys); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	found, ok := keys["found"]
	if !ok || bytes.Equal(bytes.TrimSpace(found), []byte("null")) {
		return nil, fmt.Errorf("%w: missing found", ErrMalformedResponse)
	}

	var assessment Assessment
	if err := json.Unmarshal([]byte(content), &assessment); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	sanitizeAssessment(&assessment)
	return &assessment, nil
}

func sanitizeAssessment(a *Assessment) {
	if a == nil {
		return
	}
	a.RiskLevel = RiskLevel(strings.ToUpper(strings.TrimSpace(string(a.RiskLevel))))
	switch a.RiskLevel {
	case RiskLow, RiskHigh:
	default:
		a.RiskLevel = RiskHigh
	}
	a.Reason = strings.TrimSpace(a.Reason)
	a.BrandName = strings.TrimSpace(a.BrandName)
	a.GenericName = strings.TrimSpace(a.GenericName)
	a.DosageForm = strings.TrimSpace(a.DosageForm)
	a.Manufacturer = strings.TrimSpace(a.Manufacturer)
	a.DrugClass = strings.TrimSpace(a.DrugClass)
	a.ApproximatePrice = looseString(strings.TrimSpace(string(a.ApproximatePrice)))
	a.Composition = compact(a.Composition)
	a.Uses = compact(a.Uses)
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
