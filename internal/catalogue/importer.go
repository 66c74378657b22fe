package catalogue

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"medicine-verify/internal/match"
	"medicine-verify/internal/store"
)

// Writer replaces the open catalogue contents.
type Writer interface {
	ReplaceCatalogue(ctx context.Context, rows []store.CatalogueMedicine) error
}

// Report summarises a catalogue import.
type Report struct {
	Imported int
	Skipped  int
}

// Importer loads open catalogue rows from CSV exports.
type Importer struct {
	dest Writer
}

func NewImporter(dest Writer) *Importer {
	return &Importer{dest: dest}
}

var headerAliases = map[string][]string{
	"medicine_name":     {"medicine_name", "name", "brand_name", "product_name"},
	"manufacturer":      {"manufacturer", "manufacturer_name", "company"},
	"composition":       {"composition", "short_composition", "short_composition1", "salt_composition"},
	"composition_extra": {"short_composition2"},
	"price":             {"price", "price(₹)", "mrp"},
	"dosage_form":       {"dosage_form", "type", "form"},
	"category":          {"category"},
	"therapeutic_class": {"therapeutic_class", "drug_class"},
	"indications":       {"indications", "uses"},
}

// LoadFromCSV ingests the CSV at path and replaces the stored catalogue. The first row must
// be a header; columns are matched by name so column order does not matter.
func (imp *Importer) LoadFromCSV(ctx context.Context, path string) (Report, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Report{}, fmt.Errorf("catalogue path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open catalogue file: %w", err)
	}
	defer file.Close()

	rows, report, err := parse(file)
	if err != nil {
		return report, err
	}
	if err := imp.dest.ReplaceCatalogue(ctx, rows); err != nil {
		return report, fmt.Errorf("replace catalogue: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"path":     path,
		"imported": report.Imported,
		"skipped":  report.Skipped,
	}).Info("catalogue import complete")
	return report, nil
}

func parse(r io.Reader) ([]store.CatalogueMedicine, Report, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, Report{}, fmt.Errorf("catalogue file is empty")
	}
	if err != nil {
		return nil, Report{}, fmt.Errorf("read catalogue header: %w", err)
	}
	cols := detectColumns(header)
	if _, ok := cols["medicine_name"]; !ok {
		return nil, Report{}, fmt.Errorf("catalogue header has no medicine name column: %v", header)
	}

	var (
		rows   []store.CatalogueMedicine
		report Report
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("read catalogue row: %w", err)
		}
		row, ok := cols.build(record)
		if !ok {
			report.Skipped++
			continue
		}
		rows = append(rows, row)
	}
	report.Imported = len(rows)
	return rows, report, nil
}

type columns map[string]int

func detectColumns(header []string) columns {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	cols := make(columns)
	for field, aliases := range headerAliases {
		for _, alias := range aliases {
			if i, ok := index[alias]; ok {
				cols[field] = i
				break
			}
		}
	}
	return cols
}

func (c columns) get(record []string, field string) string {
	i, ok := c[field]
	if !ok || i >= len(record) {
		return ""
	}
	return match.NormalizeInput(record[i])
}

func (c columns) build(record []string) (store.CatalogueMedicine, bool) {
	name := c.get(record, "medicine_name")
	if name == "" {
		return store.CatalogueMedicine{}, false
	}
	composition := strings.Join(match.CompactStrings([]string{
		c.get(record, "composition"),
		c.get(record, "composition_extra"),
	}), ", ")

	price, ok := parsePrice(c.get(record, "price"))
	if !ok {
		return store.CatalogueMedicine{}, false
	}
	return store.CatalogueMedicine{
		MedicineName:     name,
		Manufacturer:     c.get(record, "manufacturer"),
		Composition:      composition,
		Price:            price,
		DosageForm:       c.get(record, "dosage_form"),
		Category:         c.get(record, "category"),
		TherapeuticClass: c.get(record, "therapeutic_class"),
		Indications:      c.get(record, "indications"),
	}, true
}

// parsePrice accepts blank values (no price) and strips currency decoration.
func parsePrice(value string) (decimal.Decimal, bool) {
	value = strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", ",", "").Replace(value)
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, true
	}
	price, err := decimal.NewFromString(value)
	if err != nil || price.IsNegative() {
		return decimal.Zero, false
	}
	return price.Round(2), true
}
