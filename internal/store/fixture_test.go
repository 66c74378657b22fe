package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fixture must answer exactly like the SQL store for the same dataset.
func TestFixtureMatchesDatabase(t *testing.T) {
	db := openSeeded(t)
	ds, err := DefaultDataset()
	require.NoError(t, err)
	fx := NewFixture(ds)
	ctx := context.Background()

	names := []string{"Nimesulide", "amoxicillin", "Amoxil", "paracetamol", "crocin", "500", "Aspirin", "%", "Caffeine"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			wantBanned, err := db.BannedDrugs(ctx, name)
			require.NoError(t, err)
			gotBanned, err := fx.BannedDrugs(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, drugNames(wantBanned), drugNames(gotBanned))

			wantApproved, err := db.ApprovedDrug(ctx, name)
			require.NoError(t, err)
			gotApproved, err := fx.ApprovedDrug(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, wantApproved == nil, gotApproved == nil)
			if wantApproved != nil && gotApproved != nil {
				assert.Equal(t, wantApproved.GenericName, gotApproved.GenericName)
			}

			wantCatalogue, err := db.CatalogueMedicines(ctx, name)
			require.NoError(t, err)
			gotCatalogue, err := fx.CatalogueMedicines(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, catalogueNames(wantCatalogue), catalogueNames(gotCatalogue))
		})
	}

	for _, batch := range []string{"BATCH-XY-001", "FAKE-789", "BLACK-999", "black-999", ""} {
		wantAlerts, err := db.SafetyAlerts(ctx, batch)
		require.NoError(t, err)
		gotAlerts, err := fx.SafetyAlerts(ctx, batch)
		require.NoError(t, err)
		assert.Len(t, gotAlerts, len(wantAlerts), batch)

		wantBlack, err := db.BlacklistedBatches(ctx, batch)
		require.NoError(t, err)
		gotBlack, err := fx.BlacklistedBatches(ctx, batch)
		require.NoError(t, err)
		assert.Len(t, gotBlack, len(wantBlack), batch)
	}
}

func TestFixtureLogs(t *testing.T) {
	fx := NewFixture(nil)
	ctx := context.Background()
	require.NoError(t, fx.RecordVerification(ctx, &VerificationLog{MedicineName: "a"}))
	require.NoError(t, fx.RecordVerification(ctx, &VerificationLog{MedicineName: "b"}))

	logs, err := fx.RecentLogs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "b", logs[0].MedicineName)
	assert.EqualValues(t, 2, logs[0].ID)
}

func TestFixtureHonoursCancellation(t *testing.T) {
	fx := NewFixture(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fx.BannedDrugs(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseDatasetRejectsUnknownTables(t *testing.T) {
	_, err := ParseDataset([]byte("cdsco_bannned_drugs: []\n"))
	assert.Error(t, err)

	_, err = ParseDataset([]byte("indian_medicines:\n  - manufacturer: X\n"))
	assert.ErrorContains(t, err, "medicine_name required")
}

func drugNames(rows []BannedDrug) []string {
	out := []string{}
	for _, r := range rows {
		out = append(out, r.DrugName)
	}
	return out
}

func catalogueNames(rows []CatalogueMedicine) []string {
	out := []string{}
	for _, r := range rows {
		out = append(out, r.MedicineName)
	}
	return out
}
