package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"medicine-verify/internal/match"
)

// Fixture serves the registry from an in-memory dataset. It honours the same matching
// contract as Database so the engine cannot tell the two apart.
type Fixture struct {
	data *Dataset

	mu     sync.Mutex
	logs   []VerificationLog
	nextID uint
}

// NewFixture builds a fixture store over ds.
func NewFixture(ds *Dataset) *Fixture {
	if ds == nil {
		ds = &Dataset{}
	}
	return &Fixture{data: ds, nextID: 1}
}

// BannedDrugs mirrors Database.BannedDrugs.
func (f *Fixture) BannedDrugs(ctx context.Context, name string) ([]BannedDrug, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []BannedDrug
	for i, row := range f.data.BannedDrugs {
		if match.ContainsFold(row.DrugName, name) {
			row.ID = uint(i + 1)
			out = append(out, row)
		}
	}
	return out, nil
}

// SafetyAlerts mirrors Database.SafetyAlerts.
func (f *Fixture) SafetyAlerts(ctx context.Context, batch string) ([]SafetyAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []SafetyAlert
	for i, row := range f.data.SafetyAlerts {
		if row.BatchNumber == batch {
			row.ID = uint(i + 1)
			out = append(out, row)
		}
	}
	return out, nil
}

// BlacklistedBatches mirrors Database.BlacklistedBatches.
func (f *Fixture) BlacklistedBatches(ctx context.Context, batch string) ([]BlacklistedBatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []BlacklistedBatch
	for i, row := range f.data.Blacklist {
		if row.BatchNumber == batch {
			row.ID = uint(i + 1)
			out = append(out, row)
		}
	}
	return out, nil
}

// ApprovedDrug mirrors Database.ApprovedDrug.
func (f *Fixture) ApprovedDrug(ctx context.Context, name string) (*ApprovedDrug, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, row := range f.data.ApprovedDrugs {
		if match.ContainsFold(row.GenericName, name) || match.ContainsFold(row.BrandName, name) {
			row.ID = uint(i + 1)
			return &row, nil
		}
	}
	return nil, nil
}

// CatalogueMedicines mirrors Database.CatalogueMedicines.
func (f *Fixture) CatalogueMedicines(ctx context.Context, name string) ([]CatalogueMedicine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []CatalogueMedicine
	for i, row := range f.data.Catalogue {
		if match.ContainsFold(row.MedicineName, name) || match.ContainsFold(row.Composition, name) {
			row.ID = uint(i + 1)
			out = append(out, row)
		}
	}
	return out, nil
}

// Manufacturers mirrors Database.Manufacturers.
func (f *Fixture) Manufacturers(ctx context.Context, query string, limit int) ([]Manufacturer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	term := match.NormalizeInput(query)
	var out []Manufacturer
	for i, row := range f.data.Manufacturers {
		if term != "" && !match.ContainsFold(row.CompanyName, term) {
			continue
		}
		row.ID = uint(i + 1)
		out = append(out, row)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// RecordVerification appends to the in-memory log.
func (f *Fixture) RecordVerification(ctx context.Context, entry *VerificationLog) error {
	if entry == nil {
		return errors.New("verification log is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = f.nextID
	f.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	f.logs = append(f.logs, *entry)
	return nil
}

// RecentLogs returns the newest in-memory logs first.
func (f *Fixture) RecentLogs(ctx context.Context, limit int) ([]VerificationLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.logs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]VerificationLog, 0, n)
	for i := len(f.logs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, f.logs[i])
	}
	return out, nil
}
