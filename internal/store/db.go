package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"medicine-verify/internal/match"
)

// Backend selects the storage strategy injected into the engine at startup.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
	BackendFixture  Backend = "fixture"
)

// ErrUnknownBackend is returned for an unsupported STORE_BACKEND value.
var ErrUnknownBackend = errors.New("unknown store backend")

// ParseBackend validates a backend name.
func ParseBackend(value string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(value))); b {
	case "":
		return BackendSQLite, nil
	case BackendSQLite, BackendPostgres, BackendMySQL, BackendFixture:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, value)
	}
}

// Config describes how to reach a live backing store.
type Config struct {
	Backend Backend
	// DSN is used by the postgres and mysql backends.
	DSN string
	// Path is the SQLite database file.
	Path   string
	Silent bool
}

// Database wraps the GORM DB handle and exposes the registry queries.
type Database struct {
	gorm    *gorm.DB
	backend Backend
	mu      sync.Mutex
}

// Open connects to the configured SQL backend and migrates the schema.
func Open(cfg Config) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	gcfg := &gorm.Config{}
	if cfg.Silent {
		gcfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if cfg.Backend == BackendSQLite || cfg.Backend == "" {
		if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
			logrus.WithError(err).Warn("enable WAL mode")
		}
		if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
			logrus.WithError(err).Warn("set synchronous pragma")
		}
	}
	backend := cfg.Backend
	if backend == "" {
		backend = BackendSQLite
	}
	return &Database{gorm: db, backend: backend}, nil
}

func dialectorFor(cfg Config) (gorm.Dialector, error) {
	switch cfg.Backend {
	case BackendSQLite, "":
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, errors.New("sqlite path required")
		}
		return sqlite.Open(cfg.Path), nil
	case BackendPostgres:
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, errors.New("postgres dsn required")
		}
		return postgres.Open(cfg.DSN), nil
	case BackendMySQL:
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, errors.New("mysql dsn required")
		}
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("%w: %q is not a SQL backend", ErrUnknownBackend, cfg.Backend)
	}
}

// Backend reports which SQL dialect the database uses.
func (d *Database) Backend() Backend {
	return d.backend
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

const likeClause = " LIKE ? ESCAPE '" + match.LikeEscape + "'"

// BannedDrugs returns banned-list rows whose drug name contains name, case-insensitively.
func (d *Database) BannedDrugs(ctx context.Context, name string) ([]BannedDrug, error) {
	var rows []BannedDrug
	err := d.gorm.WithContext(ctx).
		Where("LOWER(drug_name)"+likeClause, match.LikePattern(name)).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query banned drugs: %w", err)
	}
	return rows, nil
}

// SafetyAlerts returns national safety alerts for the exact batch number.
func (d *Database) SafetyAlerts(ctx context.Context, batch string) ([]SafetyAlert, error) {
	var rows []SafetyAlert
	if err := d.gorm.WithContext(ctx).Where("batch_number = ?", batch).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query safety alerts: %w", err)
	}
	return rows, nil
}

// BlacklistedBatches returns global blacklist rows for the exact batch number.
func (d *Database) BlacklistedBatches(ctx context.Context, batch string) ([]BlacklistedBatch, error) {
	var rows []BlacklistedBatch
	if err := d.gorm.WithContext(ctx).Where("batch_number = ?", batch).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query batch blacklist: %w", err)
	}
	return rows, nil
}

// ApprovedDrug returns the first registry row whose generic or brand name contains name.
// A nil row with a nil error means no match.
func (d *Database) ApprovedDrug(ctx context.Context, name string) (*ApprovedDrug, error) {
	pattern := match.LikePattern(name)
	var rows []ApprovedDrug
	err := d.gorm.WithContext(ctx).
		Where("LOWER(generic_name)"+likeClause+" OR LOWER(brand_name)"+likeClause, pattern, pattern).
		Order("id ASC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query approved drugs: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CatalogueMedicines returns catalogue rows whose name or composition contains name.
func (d *Database) CatalogueMedicines(ctx context.Context, name string) ([]CatalogueMedicine, error) {
	pattern := match.LikePattern(name)
	var rows []CatalogueMedicine
	err := d.gorm.WithContext(ctx).
		Where("LOWER(medicine_name)"+likeClause+" OR LOWER(composition)"+likeClause, pattern, pattern).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query medicine catalogue: %w", err)
	}
	return rows, nil
}

// Manufacturers lists licensed manufacturers, optionally filtered by company name.
func (d *Database) Manufacturers(ctx context.Context, query string, limit int) ([]Manufacturer, error) {
	q := d.gorm.WithContext(ctx).Model(&Manufacturer{})
	if term := match.NormalizeInput(query); term != "" {
		q = q.Where("LOWER(company_name)"+likeClause, match.LikePattern(term))
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []Manufacturer
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query manufacturers: %w", err)
	}
	return rows, nil
}

// RecordVerification appends a verification log row.
func (d *Database) RecordVerification(ctx context.Context, entry *VerificationLog) error {
	if entry == nil {
		return errors.New("verification log is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.WithContext(ctx).Create(entry).Error
}

// RecentLogs returns the newest verification logs first.
func (d *Database) RecentLogs(ctx context.Context, limit int) ([]VerificationLog, error) {
	q := d.gorm.WithContext(ctx).Model(&VerificationLog{}).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []VerificationLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query verification logs: %w", err)
	}
	return rows, nil
}

// ReplaceCatalogue swaps the catalogue contents with the provided rows.
func (d *Database) ReplaceCatalogue(ctx context.Context, rows []CatalogueMedicine) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&CatalogueMedicine{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		// Batch insert to stay under the SQLite variable limit (999)
		const batchSize = 100
		return tx.CreateInBatches(rows, batchSize).Error
	})
}

// Counts returns the row count of every registry table keyed by table name.
func (d *Database) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, model := range allModels() {
		stmt := &gorm.Statement{DB: d.gorm}
		if err := stmt.Parse(model); err != nil {
			return nil, err
		}
		var count int64
		if err := d.gorm.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", stmt.Schema.Table, err)
		}
		counts[stmt.Schema.Table] = count
	}
	return counts, nil
}
