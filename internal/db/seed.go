package db

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bienesraices/bienesraices-go/internal/models"
)

var seedCategories = []string{
	"Casa",
	"Departamento",
	"Bodega",
	"Terreno",
	"Cabaña",
}

var seedPrices = []string{
	"0 - 50,000 US$",
	"50,000 - 75,000 US$",
	"75,000 - 100,000 US$",
	"100,000 - 200,000 US$",
	"200,000 - 500,000 US$",
	"+500,000 US$",
}

// SeedLookups inserts the Category and Price reference rows. Idempotent:
// rows already present by name are left untouched.
func SeedLookups(conn *gorm.DB) error {
	for _, nombre := range seedCategories {
		var existing models.Category
		err := conn.Where("nombre = ?", nombre).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := conn.Create(&models.Category{Nombre: nombre}).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	for _, nombre := range seedPrices {
		var existing models.Price
		err := conn.Where("nombre = ?", nombre).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := conn.Create(&models.Price{Nombre: nombre}).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

// Reset drops every table and recreates the schema empty.
func Reset(conn *gorm.DB) error {
	for _, m := range []interface{}{
		&models.Message{}, &models.Property{}, &models.Price{}, &models.Category{}, &models.User{},
	} {
		if err := conn.Migrator().DropTable(m); err != nil {
			return err
		}
	}
	return Migrate(conn)
}
