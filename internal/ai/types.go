package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RiskLevel is the classifier's legitimacy assessment.
type RiskLevel string

const (
	RiskLow  RiskLevel = "LOW"
	RiskHigh RiskLevel = "HIGH"
)

// Query identifies the medicine the classifier should assess.
type Query struct {
	MedicineName string
	Manufacturer string
}

// Assessment captures the structured response expected from a classifier.
type Assessment struct {
	Found            bool        `json:"found"`
	RiskLevel        RiskLevel   `json:"risk_level"`
	Reason           string      `json:"reason"`
	BrandName        string      `json:"brand_name"`
	GenericName      string      `json:"generic_name"`
	Composition      stringList  `json:"composition"`
	DosageForm       string      `json:"dosage_form"`
	Uses             stringList  `json:"uses"`
	Manufacturer     string      `json:"manufacturer"`
	DrugClass        string      `json:"drug_class"`
	ApproximatePrice looseString `json:"approximate_price"`
}

// Approved reports whether the classifier recognised the medicine as a real, low risk product.
func (a *Assessment) Approved() bool {
	return a != nil && a.Found && a.RiskLevel == RiskLow
}

// stringList accepts either a JSON array of strings or a single comma separated string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*l = strings.Split(single, ",")
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// looseString accepts strings and bare numbers.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("approximate_price: %w", err)
		}
		*s = looseString(n.String())
	}
	return nil
}
