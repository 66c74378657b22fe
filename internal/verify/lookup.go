package verify

import (
	"context"

	"medicine-verify/internal/match"
	"medicine-verify/internal/store"
	"medicine-verify/internal/verdict"
)

// lookup searches the approved registries in priority order. A nil resolution means
// neither registry knows the medicine.
func (e *Engine) lookup(ctx context.Context, req Request) (*resolution, error) {
	approved, err := e.registry.ApprovedDrug(ctx, req.MedicineInput)
	if err != nil {
		return nil, err
	}
	if approved != nil {
		return &resolution{
			status:  verdict.StatusVerified,
			source:  verdict.SourceCDSCO,
			details: registryDetails(approved),
			alerts:  []string{},
		}, nil
	}

	catalogue, err := e.registry.CatalogueMedicines(ctx, req.MedicineInput)
	if err != nil {
		return nil, err
	}
	if len(catalogue) > 0 {
		return &resolution{
			status:  verdict.StatusVerified,
			source:  verdict.SourceOpenDatabase,
			details: catalogueDetails(&catalogue[0]),
			alerts:  []string{},
		}, nil
	}
	return nil, nil
}

func registryDetails(row *store.ApprovedDrug) *verdict.MedicineDetails {
	return &verdict.MedicineDetails{
		BrandName:    match.FirstNonEmpty(row.BrandName, row.GenericName),
		GenericName:  row.GenericName,
		Composition:  match.CompactStrings([]string{row.GenericName}),
		DosageForm:   match.FirstNonEmpty(row.DosageForm, "N/A"),
		Uses:         match.CompactStrings([]string{row.Indication}),
		Manufacturer: "Refer to Packaging (CDSCO Listed)",
		Price:        "Refer to MRP on Pack",
	}
}

func catalogueDetails(row *store.CatalogueMedicine) *verdict.MedicineDetails {
	price := "Refer to MRP"
	if row.Price.IsPositive() {
		price = "₹" + row.Price.StringFixed(2) + " (Approx)"
	}
	return &verdict.MedicineDetails{
		BrandName:    row.MedicineName,
		GenericName:  row.MedicineName,
		Composition:  match.SplitComposition(row.Composition),
		DosageForm:   match.FirstNonEmpty(row.DosageForm, "N/A"),
		Uses:         match.CompactStrings([]string{row.Indications}),
		Manufacturer: match.FirstNonEmpty(row.Manufacturer, "Unknown"),
		Price:        price,
	}
}
