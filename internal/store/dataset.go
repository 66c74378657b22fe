package store

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var embeddedDataset []byte

// Dataset is a static snapshot of every registry table. It seeds empty SQL stores and
// backs the fixture strategy.
type Dataset struct {
	BannedDrugs   []BannedDrug        `yaml:"cdsco_banned_drugs"`
	SafetyAlerts  []SafetyAlert       `yaml:"cdsco_safety_alerts"`
	Blacklist     []BlacklistedBatch  `yaml:"batch_blacklist"`
	ApprovedDrugs []ApprovedDrug      `yaml:"cdsco_approved_drugs"`
	Manufacturers []Manufacturer      `yaml:"cdsco_manufacturers"`
	Catalogue     []CatalogueMedicine `yaml:"indian_medicines"`
}

// DefaultDataset returns the dataset compiled into the binary.
func DefaultDataset() (*Dataset, error) {
	return ParseDataset(embeddedDataset)
}

// LoadDataset reads a YAML dataset from disk. An empty path yields the embedded dataset.
func LoadDataset(path string) (*Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultDataset()
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return ParseDataset(data)
}

// ParseDataset decodes and validates a YAML dataset. Unknown keys are rejected so that
// typos in table names do not silently empty a table.
func ParseDataset(data []byte) (*Dataset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if err := ds.validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (ds *Dataset) validate() error {
	for i, row := range ds.BannedDrugs {
		if strings.TrimSpace(row.DrugName) == "" {
			return fmt.Errorf("cdsco_banned_drugs[%d]: drug_name required", i)
		}
	}
	for i, row := range ds.SafetyAlerts {
		if strings.TrimSpace(row.BatchNumber) == "" {
			return fmt.Errorf("cdsco_safety_alerts[%d]: batch_number required", i)
		}
	}
	for i, row := range ds.Blacklist {
		if strings.TrimSpace(row.BatchNumber) == "" {
			return fmt.Errorf("batch_blacklist[%d]: batch_number required", i)
		}
	}
	for i, row := range ds.ApprovedDrugs {
		if strings.TrimSpace(row.GenericName) == "" && strings.TrimSpace(row.BrandName) == "" {
			return fmt.Errorf("cdsco_approved_drugs[%d]: generic_name or brand_name required", i)
		}
	}
	for i, row := range ds.Catalogue {
		if strings.TrimSpace(row.MedicineName) == "" {
			return fmt.Errorf("indian_medicines[%d]: medicine_name required", i)
		}
	}
	return nil
}
