package services

import (
	"database/sql"
	"testing"
	"time"

	"fundops/internal/database"
	"fundops/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// newTestDB opens an in-memory SQLite store with the full schema migrated.
// Max one connection: every pooled connection to :memory: would otherwise
// get its own empty database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        ":memory:",
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// stubAccess is a fixed authorization context for tests
type stubAccess struct {
	allowed bool
}

func (a stubAccess) UserID() string { return "42" }

func (a stubAccess) HasAccessToCompany(companyID string) bool { return a.allowed }

func allowAll() AccessContext { return stubAccess{allowed: true} }

func denyAll() AccessContext { return stubAccess{allowed: false} }

func createCompany(t *testing.T, db *gorm.DB) *domain.Company {
	t.Helper()
	company := domain.Company{Name: "Acme Capital"}
	if err := db.Create(&company).Error; err != nil {
		t.Fatalf("create company: %v", err)
	}
	return &company
}

func createLOI(t *testing.T, db *gorm.DB, companyID string, masterExpiresAt *time.Time) *domain.LOI {
	t.Helper()
	loi := domain.LOI{
		CompanyID:       companyID,
		Title:           "Series A LOI",
		Status:          domain.LOIStatusSent,
		MasterExpiresAt: masterExpiresAt,
	}
	if err := db.Create(&loi).Error; err != nil {
		t.Fatalf("create loi: %v", err)
	}
	return &loi
}

func createSigner(t *testing.T, db *gorm.DB, loiID string, status domain.SignerStatus, override *time.Time) *domain.Signer {
	t.Helper()
	investor := domain.Investor{CompanyID: "ignored", Name: "Test Investor"}
	if err := db.Create(&investor).Error; err != nil {
		t.Fatalf("create investor: %v", err)
	}
	signer := domain.Signer{
		LOIID:             loiID,
		InvestorID:        investor.ID,
		Status:            status,
		ExpiresAtOverride: override,
	}
	if err := db.Create(&signer).Error; err != nil {
		t.Fatalf("create signer: %v", err)
	}
	return &signer
}

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(f float64) *float64 { return &f }
