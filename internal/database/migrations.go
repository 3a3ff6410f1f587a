package database

import (
	"gorm.io/gorm"

	"github.com/mornivek/stafflane/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.EmployeeProfile{},
		&models.Project{},
		&models.ProjectAccess{},
		&models.Bill{},
		&models.Session{},
		&models.AuditLog{},
	)
}

// SeedData creates the bootstrap organization on first run.
func SeedData(db *gorm.DB) error {
	org := models.Organization{
		BaseModel:   models.BaseModel{ID: "default"},
		Name:        "Default Organization",
		Description: "Created automatically on first start",
	}

	return db.Where(models.Organization{BaseModel: models.BaseModel{ID: org.ID}}).
		Attrs(org).
		FirstOrCreate(&models.Organization{}).Error
}
