// Package view renders html/template pages wrapped in the shared layout.
package view

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/csrf"

	"github.com/bienesraices/bienesraices-go/auth"
	"github.com/bienesraices/bienesraices-go/i18n"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	langResolver = func(r *http.Request) string {
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			return c.Value
		}
		return i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	}
)

// SetLangResolver lets the host override how the display language is picked.
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// SetBaseDir overrides the template base directory (used by tests).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	baseDir = filepath.Clean(path)
}

// ResetForTests clears the template cache and base dir detection.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
	baseDir = ""
	once = sync.Once{}
}

// detectBase finds the templates directory whether the process runs from the
// repo root or a package directory (tests).
func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// funcs is the shared func map. Request-scoped values (language, CSRF field)
// are injected as data by Render so cached templates stay request-agnostic.
var funcs = template.FuncMap{
	"t":    i18n.T,
	"year": func() int { return time.Now().Year() },
	"fecha": func(ts time.Time) string {
		return ts.Format("02/01/2006 15:04")
	},
	"add":  func(a, b int) int { return a + b },
	"sub":  func(a, b int) int { return a - b },
	"until": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
}

// Render executes the named template (e.g. "propiedades/crear.html") inside
// layout.html. Common data keys are injected so templates never nil-check
// the basics: Pagina, Lang, IsLoggedIn, CSRFField.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	once.Do(func() {
		if baseDir == "" {
			detectBase()
		}
	})
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Pagina"]; !ok {
		data["Pagina"] = "Bienes Raíces"
	}
	if _, ok := data["Lang"]; !ok {
		data["Lang"] = langResolver(r)
	}
	if _, ok := data["IsLoggedIn"]; !ok {
		_, loggedIn := auth.UserIDFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
	}
	if _, ok := data["CSRFField"]; !ok {
		data["CSRFField"] = csrf.TemplateField(r)
	}

	t, err := load(name)
	if err != nil {
		return err
	}
	return t.Execute(w, data)
}

func load(name string) (*template.Template, error) {
	dev := os.Getenv("DEV") == "1"
	if !dev {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok {
			return t, nil
		}
	}

	files := []string{
		filepath.Join(baseDir, "layout.html"),
		filepath.Join(baseDir, filepath.FromSlash(name)),
	}
	for _, partial := range []string{"errores.html", "formulario-propiedad.html"} {
		if p := filepath.Join(baseDir, "partials", partial); exists(p) {
			files = append(files, p)
		}
	}
	t, err := template.New("layout.html").Funcs(funcs).ParseFiles(files...)
	if err != nil {
		return nil, err
	}
	if !dev {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t, nil
}

func exists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
