package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bienesraices/bienesraices-go/auth"
	dbpkg "github.com/bienesraices/bienesraices-go/internal/db"
	"github.com/bienesraices/bienesraices-go/internal/models"
)

// setupTestDB opens a unique in-memory database per test and seeds the
// Category/Price lookups so properties can reference them.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := dbpkg.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := dbpkg.SeedLookups(conn); err != nil {
		t.Fatalf("seed lookups: %v", err)
	}
	return conn
}

func createUser(t *testing.T, conn *gorm.DB, nombre, email, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{Nombre: nombre, Email: email, Password: string(hash), Confirmado: true}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createProperty(t *testing.T, conn *gorm.DB, ownerID uint, titulo string, published bool) models.Property {
	t.Helper()
	property := models.Property{
		Titulo:          titulo,
		Descripcion:     "Una descripción corta",
		Habitaciones:    3,
		Estacionamiento: 1,
		WC:              2,
		Calle:           "Calle Falsa 123",
		Lat:             "19.43",
		Lng:             "-99.13",
		Publicado:       published,
		UserID:          ownerID,
		CategoryID:      1,
		PriceID:         1,
	}
	if published {
		property.Imagen = "imagen.jpg"
	}
	if err := conn.Create(&property).Error; err != nil {
		t.Fatalf("create property: %v", err)
	}
	return property
}

// asUser attaches an authenticated identity to the request context.
func asUser(r *http.Request, uid uint) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), uid))
}

// withURLParam injects a chi route parameter for handlers called directly.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// formRequest builds an urlencoded POST.
func formRequest(target string, values url.Values) *http.Request {
	r, _ := http.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func validPropertyForm() url.Values {
	return url.Values{
		"titulo":          {"Casa en la Playa"},
		"descripcion":     {"Casa con vista al mar"},
		"categoria":       {"1"},
		"precio":          {"1"},
		"habitaciones":    {"3"},
		"estacionamiento": {"1"},
		"wc":              {"2"},
		"calle":           {"Calle Falsa 123"},
		"lat":             {"19.43"},
		"lng":             {"-99.13"},
	}
}

func propertyCount(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var n int64
	conn.Model(&models.Property{}).Count(&n)
	return n
}
