package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bienesraices/bienesraices-go/internal/config"
	dbpkg "github.com/bienesraices/bienesraices-go/internal/db"
	"github.com/bienesraices/bienesraices-go/internal/models"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:       "0",
		Env:        "test",
		CSRFKey:    "0123456789abcdef0123456789abcdef",
		UploadsDir: t.TempDir(),
	}
}

func testRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := dbpkg.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := dbpkg.SeedLookups(conn); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return New(conn, testConfig(t), nil), conn
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := testRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestDashboardRequiresLogin(t *testing.T) {
	h, _ := testRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mis-propiedades", nil))

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/auth/login" {
		t.Fatalf("got %d %q, want 303 to /auth/login", w.Code, w.Header().Get("Location"))
	}
}

func TestPublicPageForUnpublishedListing(t *testing.T) {
	h, conn := testRouter(t)
	property := models.Property{
		Titulo: "Casa Oculta", Descripcion: "x", Calle: "y", Lat: "1", Lng: "1",
		UserID: 1, CategoryID: 1, PriceID: 1,
	}
	if err := conn.Create(&property).Error; err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/propiedad/1", nil))

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/404" {
		t.Fatalf("got %d %q, want 303 to /404", w.Code, w.Header().Get("Location"))
	}
}

func TestNotFoundPageStatus(t *testing.T) {
	h, _ := testRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/404", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestRootRedirectsToDashboard(t *testing.T) {
	h, _ := testRouter(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/mis-propiedades" {
		t.Fatalf("got %d %q, want 303 to /mis-propiedades", w.Code, w.Header().Get("Location"))
	}
}

func TestPostWithoutCSRFTokenRejected(t *testing.T) {
	h, _ := testRouter(t)

	r := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader("email=a@b.com&password=x"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

var csrfTokenRe = regexp.MustCompile(`name="gorilla\.csrf\.Token" value="([^"]+)"`)

// TestLoginFlowThroughRouter walks the real form flow: fetch the login page,
// replay its CSRF cookie and hidden field, and land on the dashboard.
func TestLoginFlowThroughRouter(t *testing.T) {
	h, conn := testRouter(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	user := models.User{Nombre: "Juan", Email: "juan@juan.com", Password: string(hash), Confirmado: true}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET login status = %d", w.Code)
	}
	m := csrfTokenRe.FindStringSubmatch(w.Body.String())
	if m == nil {
		t.Fatalf("login page has no CSRF field:\n%s", w.Body.String())
	}

	form := url.Values{
		"email":              {"juan@juan.com"},
		"password":           {"password"},
		"gorilla.csrf.Token": {m[1]},
	}
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/mis-propiedades" {
		t.Fatalf("got %d %q, want 303 to /mis-propiedades", w.Code, w.Header().Get("Location"))
	}
	var session bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "_token" && c.Value != "" {
			session = true
		}
	}
	if !session {
		t.Fatal("login did not issue the _token session cookie")
	}
}
