package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bienesraices/bienesraices-go/internal/models"
)

// Connect opens the database named by dsn. postgres:// DSNs use the postgres
// driver; anything else is treated as a sqlite path, which keeps local
// development and the seeder dependency-free.
func Connect(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}
	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return conn, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(conn *gorm.DB) error {
	for _, m := range []interface{}{
		&models.User{}, &models.Category{}, &models.Price{}, &models.Property{}, &models.Message{},
	} {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// ConnectAndMigrate is the standard boot path for the server binary.
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	conn, err := Connect(dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}
