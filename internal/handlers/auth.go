package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bienesraices/bienesraices-go/auth"
	"github.com/bienesraices/bienesraices-go/internal/mailer"
	"github.com/bienesraices/bienesraices-go/internal/models"
	"github.com/bienesraices/bienesraices-go/validation"
	"github.com/bienesraices/bienesraices-go/view"
)

type AuthHandler struct {
	DB   *gorm.DB
	Mail *mailer.Service
}

func NewAuthHandler(db *gorm.DB, mail *mailer.Service) *AuthHandler {
	return &AuthHandler{DB: db, Mail: mail}
}

// render logs template failures; the user gets a plain 500.
func render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name, data); err != nil {
		slog.Error("render failed", "template", name, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("template error"))
	}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, "auth/login.html", map[string]any{"Pagina": "Iniciar Sesión"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulario inválido", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	rerender := func(msgs validation.Violations) {
		render(w, r, "auth/login.html", map[string]any{
			"Pagina":  "Iniciar Sesión",
			"Errores": msgs,
			"Usuario": map[string]string{"Email": email},
		})
	}

	v := validation.Violations{}
	validation.Email("email", email, "El Email es Obligatorio", v)
	validation.Required("password", password, "El Password es Obligatorio", v)
	if !v.Empty() {
		rerender(v)
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		rerender(validation.Violations{"email": "El Usuario No Existe"})
		return
	}
	if !user.Confirmado {
		rerender(validation.Violations{"email": "Tu Cuenta no ha sido Confirmada"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		rerender(validation.Violations{"password": "El Password es incorrecto"})
		return
	}

	if err := auth.CreateSession(w, user.ID); err != nil {
		slog.Error("create session", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/mis-propiedades", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, "auth/registro.html", map[string]any{"Pagina": "Crear Cuenta"})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulario inválido", http.StatusBadRequest)
		return
	}
	nombre := strings.TrimSpace(r.FormValue("nombre"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	rerender := func(msgs validation.Violations) {
		render(w, r, "auth/registro.html", map[string]any{
			"Pagina":  "Crear Cuenta",
			"Errores": msgs,
			"Usuario": map[string]string{"Nombre": nombre, "Email": email},
		})
	}

	v := validation.Violations{}
	validation.Required("nombre", nombre, "El Nombre no puede ir vacío", v)
	validation.Email("email", email, "Eso no parece un email", v)
	validation.MinChars("password", password, 6, "El Password debe ser al menos de 6 caracteres", v)
	validation.Equals("repetir_password", r.FormValue("repetir_password"), password, "Los Passwords no son iguales", v)
	if !v.Empty() {
		rerender(v)
		return
	}

	var count int64
	h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		rerender(validation.Violations{"email": "El Usuario ya está Registrado"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}
	token := uuid.NewString()
	user := models.User{Nombre: nombre, Email: email, Password: string(hash), Token: &token}
	if err := h.DB.Create(&user).Error; err != nil {
		rerender(validation.Violations{"email": "El Usuario ya está Registrado"})
		return
	}

	if h.Mail != nil {
		if err := h.Mail.SendConfirmation(user.Nombre, user.Email, token); err != nil {
			slog.Error("send confirmation email", "error", err)
		}
	}

	render(w, r, "mensaje.html", map[string]any{
		"Pagina":  "Cuenta Creada correctamente",
		"Mensaje": "Hemos Enviado un Email de confirmación, presiona en el enlace",
	})
}

func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var user models.User
	err := h.DB.Where("token = ?", token).First(&user).Error
	if err != nil {
		render(w, r, "auth/confirmar-cuenta.html", map[string]any{
			"Pagina":  "Error al confirmar tu cuenta",
			"Mensaje": "Hubo un error al confirmar tu cuenta",
			"Error":   true,
		})
		return
	}

	user.Token = nil
	user.Confirmado = true
	if err := h.DB.Save(&user).Error; err != nil {
		slog.Error("confirm account", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}

	render(w, r, "auth/confirmar-cuenta.html", map[string]any{
		"Pagina":  "Cuenta Confirmada",
		"Mensaje": "La cuenta se confirmó correctamente",
	})
}

func (h *AuthHandler) ForgotForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, "auth/olvide-password.html", map[string]any{
		"Pagina": "Recupera tu acceso a Bienes Raices",
	})
}

func (h *AuthHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulario inválido", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))

	v := validation.Violations{}
	validation.Email("email", email, "Eso no parece un email", v)
	if !v.Empty() {
		render(w, r, "auth/olvide-password.html", map[string]any{
			"Pagina":  "Recupera tu acceso a Bienes Raices",
			"Errores": v,
		})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		render(w, r, "auth/olvide-password.html", map[string]any{
			"Pagina":  "Recupera tu acceso a Bienes Raices",
			"Errores": validation.Violations{"email": "El email no pertenece a ningún usuario"},
		})
		return
	}

	token := uuid.NewString()
	user.Token = &token
	if err := h.DB.Save(&user).Error; err != nil {
		slog.Error("store reset token", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}

	if h.Mail != nil {
		if err := h.Mail.SendPasswordReset(user.Nombre, user.Email, token); err != nil {
			slog.Error("send reset email", "error", err)
		}
	}

	render(w, r, "mensaje.html", map[string]any{
		"Pagina":  "Reestablece tu Password",
		"Mensaje": "Hemos Enviado un Email con las instrucciones",
	})
}

func (h *AuthHandler) ResetForm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var user models.User
	if err := h.DB.Where("token = ?", token).First(&user).Error; err != nil {
		render(w, r, "auth/confirmar-cuenta.html", map[string]any{
			"Pagina":  "Reestablece tu Password",
			"Mensaje": "Hubo un error al validar tu información, intenta denuevo",
			"Error":   true,
		})
		return
	}

	render(w, r, "auth/reset-password.html", map[string]any{
		"Pagina": "Reestablece Tu Password",
	})
}

func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulario inválido", http.StatusBadRequest)
		return
	}
	token := chi.URLParam(r, "token")
	password := r.FormValue("password")

	v := validation.Violations{}
	validation.MinChars("password", password, 6, "El Password debe ser al menos de 6 caracteres", v)
	if !v.Empty() {
		render(w, r, "auth/reset-password.html", map[string]any{
			"Pagina":  "Reestablece tu Password",
			"Errores": v,
		})
		return
	}

	var user models.User
	err := h.DB.Where("token = ?", token).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		render(w, r, "auth/confirmar-cuenta.html", map[string]any{
			"Pagina":  "Reestablece tu Password",
			"Mensaje": "Hubo un error al validar tu información, intenta denuevo",
			"Error":   true,
		})
		return
	} else if err != nil {
		slog.Error("load user by token", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}
	user.Password = string(hash)
	user.Token = nil
	if err := h.DB.Save(&user).Error; err != nil {
		slog.Error("store new password", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}

	render(w, r, "auth/confirmar-cuenta.html", map[string]any{
		"Pagina":  "Password Reestablecido",
		"Mensaje": "El Password se guardó correctamente",
	})
}
