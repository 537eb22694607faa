package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"gorm.io/gorm"

	"github.com/bienesraices/bienesraices-go/auth"
	"github.com/bienesraices/bienesraices-go/httpx"
	"github.com/bienesraices/bienesraices-go/internal/config"
	"github.com/bienesraices/bienesraices-go/internal/handlers"
	"github.com/bienesraices/bienesraices-go/internal/mailer"
	"github.com/bienesraices/bienesraices-go/internal/middleware"
	"github.com/bienesraices/bienesraices-go/internal/models"
)

// New builds the application handler: routes, session middleware, CSRF.
func New(db *gorm.DB, cfg config.Config, mail *mailer.Service) http.Handler {
	// Sessions for deleted users are cleared on the next protected request.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	ah := handlers.NewAuthHandler(db, mail)
	ph := handlers.NewPropertyHandler(db, cfg.UploadsDir)

	r := chi.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)
	r.Use(auth.Identify)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", ah.LoginForm)
		r.Get("/registro", ah.RegisterForm)
		r.Get("/olvide-password", ah.ForgotForm)
		r.Get("/confirmar/{token}", ah.Confirm)
		r.Get("/reset-password/{token}", ah.ResetForm)
		r.Post("/cerrar-sesion", ah.Logout)

		// Credential-bearing POSTs get the brute-force limiter.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(5, 10))
			r.Post("/login", ah.Login)
			r.Post("/registro", ah.Register)
			r.Post("/olvide-password", ah.Forgot)
			r.Post("/reset-password/{token}", ah.Reset)
		})
	})

	// Owner-only area.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/mis-propiedades", ph.Index)
		r.Get("/propiedades/crear", ph.CreateForm)
		r.Post("/propiedades/crear", ph.Create)
		r.Get("/propiedades/agregar-imagen/{id}", ph.AttachImageForm)
		r.Post("/propiedades/agregar-imagen/{id}", ph.AttachImage)
		r.Get("/propiedades/editar/{id}", ph.EditForm)
		r.Post("/propiedades/editar/{id}", ph.Edit)
		r.Post("/propiedades/eliminar/{id}", ph.Delete)
		r.Put("/propiedades/{id}", ph.Toggle)
		r.Get("/mensajes/{id}", ph.Messages)
	})

	// Public area.
	r.Get("/propiedad/{id}", ph.Show)
	r.Post("/propiedad/{id}", ph.SendMessage)
	r.Get("/404", handlers.NotFound)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/mis-propiedades", http.StatusSeeOther)
	})

	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadsDir))))

	protect := csrf.Protect(
		[]byte(cfg.CSRFKey),
		csrf.Secure(cfg.Env == "production"),
		csrf.Path("/"),
	)
	return protect(r)
}
