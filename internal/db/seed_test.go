package db

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bienesraices/bienesraices-go/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	return conn
}

func TestSeedLookupsIdempotent(t *testing.T) {
	conn := openTestDB(t)

	require.NoError(t, SeedLookups(conn))
	require.NoError(t, SeedLookups(conn))

	var catCount, priceCount int64
	conn.Model(&models.Category{}).Count(&catCount)
	conn.Model(&models.Price{}).Count(&priceCount)
	require.EqualValues(t, len(seedCategories), catCount)
	require.EqualValues(t, len(seedPrices), priceCount)

	var casa int64
	conn.Model(&models.Category{}).Where("nombre = ?", "Casa").Count(&casa)
	require.EqualValues(t, 1, casa, "baseline category duplicated or missing")
}

func TestResetLeavesEmptySchema(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, SeedLookups(conn))
	require.NoError(t, conn.Create(&models.User{Nombre: "Ana", Email: "ana@correo.com", Password: "x"}).Error)

	require.NoError(t, Reset(conn))

	var users, cats int64
	conn.Model(&models.User{}).Count(&users)
	conn.Model(&models.Category{}).Count(&cats)
	require.Zero(t, users)
	require.Zero(t, cats)
	require.True(t, conn.Migrator().HasTable("properties"))
}
