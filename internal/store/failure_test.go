package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jknair0/beforeeach"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	mockConn *sql.DB
	mock     sqlmock.Sqlmock
	mockDB   *Database
)

func setUp() {
	mockConn, mock, _ = sqlmock.New()
	mock.MatchExpectationsInOrder(false)
	g, err := gorm.Open(postgres.New(postgres.Config{Conn: mockConn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}
	mockDB = &Database{gorm: g, backend: BackendPostgres}
}

func tearDown() {
	mockConn.Close()
}

var it = beforeeach.Create(setUp, tearDown)

func TestQueryFailuresPropagate(t *testing.T) {
	it(func() {
		outage := errors.New("connection reset by peer")
		mock.ExpectQuery("cdsco_banned_drugs").WillReturnError(outage)

		_, err := mockDB.BannedDrugs(context.Background(), "Paracetamol")
		if !errors.Is(err, outage) {
			t.Fatalf("expected wrapped outage error, got %v", err)
		}
	})

	it(func() {
		outage := errors.New("too many connections")
		mock.ExpectQuery("cdsco_approved_drugs").WillReturnError(outage)

		row, err := mockDB.ApprovedDrug(context.Background(), "Amoxicillin")
		if !errors.Is(err, outage) {
			t.Fatalf("expected wrapped outage error, got %v", err)
		}
		if row != nil {
			t.Fatalf("expected no row on failure, got %+v", row)
		}
	})
}

func TestApprovedDrugScansFirstRow(t *testing.T) {
	it(func() {
		rows := sqlmock.NewRows([]string{"id", "generic_name", "brand_name", "dosage_form", "therapeutic_class", "indication", "approval_date"}).
			AddRow(7, "Amoxicillin", "Amoxil", "Capsule", "Antibiotic", "Bacterial infections.", "1990-05-15")
		mock.ExpectQuery("cdsco_approved_drugs").WillReturnRows(rows)

		row, err := mockDB.ApprovedDrug(context.Background(), "amox")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if row == nil || row.ID != 7 || row.BrandName != "Amoxil" {
			t.Fatalf("unexpected row %+v", row)
		}
	})
}
