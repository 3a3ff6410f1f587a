package database

import (
	"testing"

	"gorm.io/gorm"

	"github.com/mornivek/stafflane/internal/models"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)

	if err := db.Exec("SELECT 1").Error; err != nil {
		t.Fatalf("expected health query to succeed: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "oracle"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestAutoMigrateAndSeedData(t *testing.T) {
	db := openTestDB(t)

	if err := AutoMigrateAndSeed(db); err != nil {
		t.Fatalf("auto migrate and seed failed: %v", err)
	}

	var orgCount int64
	if err := db.Model(&models.Organization{}).Count(&orgCount).Error; err != nil {
		t.Fatalf("count organizations: %v", err)
	}
	if orgCount < 1 {
		t.Fatal("expected the default organization to be seeded")
	}

	// Seeding twice must not duplicate the bootstrap organization.
	if err := SeedData(db); err != nil {
		t.Fatalf("reseed failed: %v", err)
	}
	if err := db.Model(&models.Organization{}).Count(&orgCount).Error; err != nil {
		t.Fatalf("count organizations: %v", err)
	}
	if orgCount != 1 {
		t.Fatalf("expected exactly 1 organization after reseed, got %d", orgCount)
	}
}

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		Driver:   "postgres",
		User:     "stafflane",
		Password: "secret",
		Name:     "stafflane",
		Host:     "db.internal",
		Port:     5433,
	})
	if err != nil {
		t.Fatalf("build dsn: %v", err)
	}

	want := "host=db.internal port=5433 user=stafflane dbname=stafflane password=secret sslmode=disable"
	if dsn != want {
		t.Fatalf("unexpected dsn:\n got: %s\nwant: %s", dsn, want)
	}
}

func TestBuildMySQLDSNRequiresUserAndName(t *testing.T) {
	if _, err := buildMySQLDSN(Config{Driver: "mysql"}); err == nil {
		t.Fatal("expected missing user/name error")
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
