package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bienesraices/bienesraices-go/auth"
	"github.com/bienesraices/bienesraices-go/httpx"
	"github.com/bienesraices/bienesraices-go/internal/models"
	"github.com/bienesraices/bienesraices-go/internal/policy"
	"github.com/bienesraices/bienesraices-go/validation"
)

// pageSize is the fixed number of listings per dashboard page.
const pageSize = 3

const maxUploadBytes = 10 << 20

type PropertyHandler struct {
	DB         *gorm.DB
	Policy     *policy.OwnershipPolicy
	UploadsDir string
}

func NewPropertyHandler(db *gorm.DB, uploadsDir string) *PropertyHandler {
	return &PropertyHandler{DB: db, Policy: policy.NewOwnershipPolicy(), UploadsDir: uploadsDir}
}

// Index renders the paginated owner dashboard. Any page value that is not a
// positive integer redirects to page 1.
func (h *PropertyHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("pagina"))
	if err != nil || page < 1 {
		http.Redirect(w, r, "/mis-propiedades?pagina=1", http.StatusSeeOther)
		return
	}

	uid, _ := auth.UserIDFromContext(r.Context())
	offset := (page - 1) * pageSize

	var properties []models.Property
	if err := h.DB.
		Where("user_id = ?", uid).
		Preload("Category").
		Preload("Price").
		Preload("Messages").
		Order("id desc").
		Limit(pageSize).
		Offset(offset).
		Find(&properties).Error; err != nil {
		slog.Error("list properties", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}
	var total int64
	h.DB.Model(&models.Property{}).Where("user_id = ?", uid).Count(&total)

	render(w, r, "propiedades/admin.html", map[string]any{
		"Pagina":       "Mis Propiedades",
		"Propiedades":  properties,
		"Paginas":      int(math.Ceil(float64(total) / float64(pageSize))),
		"PaginaActual": page,
		"Total":        total,
	})
}

// lookups loads the Category and Price reference rows for the forms.
func (h *PropertyHandler) lookups() ([]models.Category, []models.Price) {
	var categories []models.Category
	var prices []models.Price
	if err := h.DB.Find(&categories).Error; err != nil {
		slog.Error("load categories", "error", err)
	}
	if err := h.DB.Find(&prices).Error; err != nil {
		slog.Error("load prices", "error", err)
	}
	return categories, prices
}

// propertyForm is the submitted create/edit payload, kept as strings so the
// form can be re-rendered exactly as the user typed it.
type propertyForm struct {
	Titulo          string
	Descripcion     string
	Categoria       string
	Precio          string
	Habitaciones    string
	Estacionamiento string
	WC              string
	Calle           string
	Lat             string
	Lng             string
}

func readPropertyForm(r *http.Request) propertyForm {
	return propertyForm{
		Titulo:          strings.TrimSpace(r.FormValue("titulo")),
		Descripcion:     strings.TrimSpace(r.FormValue("descripcion")),
		Categoria:       r.FormValue("categoria"),
		Precio:          r.FormValue("precio"),
		Habitaciones:    r.FormValue("habitaciones"),
		Estacionamiento: r.FormValue("estacionamiento"),
		WC:              r.FormValue("wc"),
		Calle:           strings.TrimSpace(r.FormValue("calle")),
		Lat:             r.FormValue("lat"),
		Lng:             r.FormValue("lng"),
	}
}

func (f propertyForm) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("titulo", f.Titulo, "El Título del Anuncio es Obligatorio", v)
	validation.Required("descripcion", f.Descripcion, "La Descripción no puede ir vacía", v)
	validation.MaxChars("descripcion", f.Descripcion, 200, "La Descripción es muy larga", v)
	validation.Numeric("categoria", f.Categoria, "Selecciona una categoría", v)
	validation.Numeric("precio", f.Precio, "Selecciona un rango de Precios", v)
	validation.Numeric("habitaciones", f.Habitaciones, "Selecciona la Cantidad de Habitaciones", v)
	validation.Numeric("estacionamiento", f.Estacionamiento, "Selecciona la Cantidad de Estacionamientos", v)
	validation.Numeric("wc", f.WC, "Selecciona la Cantidad de Baños", v)
	validation.Required("lat", f.Lat, "Ubica la Propiedad en el Mapa", v)
	return v
}

// datos maps the submitted values back onto the field names the templates
// render, with the select values remapped to the foreign-key names.
func (f propertyForm) datos() map[string]any {
	categoryID, _ := strconv.Atoi(f.Categoria)
	priceID, _ := strconv.Atoi(f.Precio)
	habitaciones, _ := strconv.Atoi(f.Habitaciones)
	estacionamiento, _ := strconv.Atoi(f.Estacionamiento)
	wc, _ := strconv.Atoi(f.WC)
	return map[string]any{
		"Titulo":          f.Titulo,
		"Descripcion":     f.Descripcion,
		"CategoryID":      uint(categoryID),
		"PriceID":         uint(priceID),
		"Habitaciones":    habitaciones,
		"Estacionamiento": estacionamiento,
		"WC":              wc,
		"Calle":           f.Calle,
		"Lat":             f.Lat,
		"Lng":             f.Lng,
	}
}

// apply overwrites every mutable field of p from the validated form.
func (f propertyForm) apply(p *models.Property) {
	categoryID, _ := strconv.Atoi(f.Categoria)
	priceID, _ := strconv.Atoi(f.Precio)
	p.Titulo = f.Titulo
	p.Descripcion = f.Descripcion
	p.CategoryID = uint(categoryID)
	p.PriceID = uint(priceID)
	p.Habitaciones, _ = strconv.Atoi(f.Habitaciones)
	p.Estacionamiento, _ = strconv.Atoi(f.Estacionamiento)
	p.WC, _ = strconv.Atoi(f.WC)
	p.Calle = f.Calle
	p.Lat = f.Lat
	p.Lng = f.Lng
}

func (h *PropertyHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	categories, prices := h.lookups()
	render(w, r, "propiedades/crear.html", map[string]any{
		"Pagina":     "Crear Propiedad",
		"Categorias": categories,
		"Precios":    prices,
		"Datos":      propertyForm{}.datos(),
	})
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulario inválido", http.StatusBadRequest)
		return
	}
	form := readPropertyForm(r)

	if v := form.validate(); !v.Empty() {
		categories, prices := h.lookups()
		render(w, r, "propiedades/crear.html", map[string]any{
			"Pagina":     "Crear Propiedad",
			"Categorias": categories,
			"Precios":    prices,
			"Errores":    v,
			"Datos":      form.datos(),
		})
		return
	}

	uid, _ := auth.UserIDFromContext(r.Context())
	property := models.Property{Imagen: "", Publicado: false, UserID: uid}
	form.apply(&property)

	if err := h.DB.Create(&property).Error; err != nil {
		slog.Error("create property", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/propiedades/agregar-imagen/%d", property.ID), http.StatusSeeOther)
}

// load fetches the property from the URL id. A nil return means the caller
// must stop; the redirect has already been written.
func (h *PropertyHandler) load(w http.ResponseWriter, r *http.Request) *models.Property {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		http.Redirect(w, r, "/mis-propiedades", http.StatusSeeOther)
		return nil
	}
	var property models.Property
	if err := h.DB.First(&property, id).Error; err != nil {
		http.Redirect(w, r, "/mis-propiedades", http.StatusSeeOther)
		return nil
	}
	return &property
}

// authorize checks ownership; on failure it writes the silent redirect the
// owner-only flows use and returns false.
func (h *PropertyHandler) authorize(w http.ResponseWriter, r *http.Request, action policy.Action, property *models.Property) bool {
	uid, _ := auth.UserIDFromContext(r.Context())
	if !h.Policy.Can(r.Context(), uid, action, property) {
		http.Redirect(w, r, "/mis-propiedades", http.StatusSeeOther)
		return false
	}
	return true
}

func (h *PropertyHandler) AttachImageForm(w http.ResponseWriter, r *http.Request) {
	property := h.load(w, r)
	if property == nil {
		return
	}
	if property.Publicado {
		http.Redirect(w, r, "/mis-propiedades", http.StatusSeeOther)
		return
	}
	if !h.authorize(w, r, policy.ActionUpdate, property) {
		return
	}
	render(w, r, "propiedades/agregar-imagen.html", map[string]any{
		"Pagina":    "Agregar Imagen: " + property.Titulo,
		"Propiedad": property,
	})
}

// AttachImage stores the uploaded file and publishes the listing in a single
// persisted update.
func (h *PropertyHandler) AttachImage(w http.ResponseWriter, r *http.Request) {
	property := h.load(w, r)
	if property == nil {
		return
	}
	if property.Publicado {
		http.Redirect(w, r, "/mis-propiedades", http.StatusSeeOther)
		return
	}
	if !h.authorize(w, r, policy.ActionUpdate, property) {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "imagen inválida", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("imagen")
	if err != nil {
		http.Error(w, "imagen inválida", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := uuid.NewString() + filepath.Ext(header.Filename)
	if err := h.saveUpload(file, filename); err != nil {
		slog.Error("store image", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}

	if err := h.DB.Model(property).Updates(map[string]any{
		"imagen":    filename,
		"publicado": true,
	}).Error; err != nil {
		slog.Error("publish property", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/mis-propiedades", http.StatusSeeOther)
}

func (h *PropertyHandler) saveUpload(src io.Reader, filename string) error {
	if err := os.MkdirAll(h.UploadsDir, 0o755); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(h.UploadsDir, filename))
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}

func (h *PropertyHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	property := h.load(w, r)
	if property == nil {
		return
	}
	if !h.authorize(w, r, policy.ActionUpdate, property) {
		return
	}
	categories, prices := h.lookups()
	render(w, r, "propiedades/editar.html", map[string]any{
		"Pagina":     "Editar Propiedad",
		"Categorias": categories,
		"Precios":    prices,
		"Propiedad":  property,
		"Datos": map[string]any{
			"Titulo":          property.Titulo,
			"Descripcion":     property.Descripcion,
			"CategoryID":      property.CategoryID,
			"PriceID":         property.PriceID,
			"Habitaciones":    property.Habitaciones,
			"Estacionamiento": property.Estacionamiento,
			"WC":              property.WC,
			"Calle":           property.Calle,
			"Lat":             property.Lat,
			"Lng":             property.Lng,
		},
	})
}

// Edit overwrites every mutable field. Editing stays allowed after
// publication; only the image step is gated on the draft state.
func (h *PropertyHandler) Edit(w http.ResponseWriter, r *http.Request) {
	property := h.load(w, r)
	if property == nil {
		return
	}
	if !h.authorize(w, r, policy.ActionUpdate, property) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulario inválido", http.StatusBadRequest)
		return
	}
	form := readPropertyForm(r)

	if v := form.validate(); !v.Empty() {
		categories, prices := h.lookups()
		render(w, r, "propiedades/editar.html", map[string]any{
			"Pagina":     "Editar Propiedad",
			"Categorias": categories,
			"Precios":    prices,
			"Errores":    v,
			"Propiedad":  property,
			"Datos":      form.datos(),
		})
		return
	}

	form.apply(property)
	if err := h.DB.Save(property).Error; err != nil {
		slog.Error("update property", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/mis-propiedades", http.StatusSeeOther)
}

// Delete removes the stored image best-effort, then the record. A missing
// image file never blocks deletion.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	property := h.load(w, r)
	if property == nil {
		return
	}
	if !h.authorize(w, r, policy.ActionDelete, property) {
		return
	}

	if property.Imagen != "" {
		if err := os.Remove(filepath.Join(h.UploadsDir, property.Imagen)); err != nil {
			slog.Warn("remove image file", "file", property.Imagen, "error", err)
		}
	}
	if err := h.DB.Delete(property).Error; err != nil {
		slog.Error("delete property", "error", err)
	}
	http.Redirect(w, r, "/mis-propiedades", http.StatusSeeOther)
}

// Toggle flips the published flag and answers JSON; the dashboard calls it
// with fetch instead of a form navigation.
func (h *PropertyHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	property := h.load(w, r)
	if property == nil {
		return
	}
	if !h.authorize(w, r, policy.ActionToggle, property) {
		return
	}

	if err := h.DB.Model(property).Update("publicado", !property.Publicado).Error; err != nil {
		slog.Error("toggle property", "error", err)
		httpx.Error(w, http.StatusInternalServerError, "error interno")
		return
	}
	httpx.Resultado(w, true)
}

// Show is the public listing page. Unpublished or unknown ids land on the
// 404 page regardless of who asks.
func (h *PropertyHandler) Show(w http.ResponseWriter, r *http.Request) {
	property, ok := h.loadPublic(w, r)
	if !ok {
		return
	}
	viewer, _ := auth.UserIDFromContext(r.Context())
	render(w, r, "propiedades/mostrar.html", map[string]any{
		"Pagina":     property.Titulo,
		"Propiedad":  property,
		"EsVendedor": esVendedor(viewer, property.UserID),
	})
}

// SendMessage appends one immutable message to a listing's thread. The
// sender may be anonymous.
func (h *PropertyHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	// Existence is the only gate here; a listing unpublished between page
	// load and submit still accepts the message.
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		http.Redirect(w, r, "/404", http.StatusSeeOther)
		return
	}
	var loaded models.Property
	if err := h.DB.Preload("Category").Preload("Price").First(&loaded, id).Error; err != nil {
		http.Redirect(w, r, "/404", http.StatusSeeOther)
		return
	}
	property := &loaded
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulario inválido", http.StatusBadRequest)
		return
	}
	viewer, _ := auth.UserIDFromContext(r.Context())
	mensaje := strings.TrimSpace(r.FormValue("mensaje"))

	v := validation.Violations{}
	validation.MinChars("mensaje", mensaje, 10, "El Mensaje no puede ir vacío o es muy corto", v)
	if !v.Empty() {
		render(w, r, "propiedades/mostrar.html", map[string]any{
			"Pagina":     property.Titulo,
			"Propiedad":  property,
			"EsVendedor": esVendedor(viewer, property.UserID),
			"Errores":    v,
		})
		return
	}

	msg := models.Message{Mensaje: mensaje, PropertyID: property.ID, UserID: viewer}
	if err := h.DB.Create(&msg).Error; err != nil {
		slog.Error("create message", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}

	render(w, r, "propiedades/mostrar.html", map[string]any{
		"Pagina":     property.Titulo,
		"Propiedad":  property,
		"EsVendedor": esVendedor(viewer, property.UserID),
		"Enviado":    true,
	})
}

// Messages lists a listing's thread for its owner, with the sender's public
// profile only.
func (h *PropertyHandler) Messages(w http.ResponseWriter, r *http.Request) {
	property := h.load(w, r)
	if property == nil {
		return
	}
	if !h.authorize(w, r, policy.ActionView, property) {
		return
	}

	var messages []models.Message
	if err := h.DB.
		Where("property_id = ?", property.ID).
		Preload("User").
		Order("id asc").
		Find(&messages).Error; err != nil {
		slog.Error("list messages", "error", err)
		http.Error(w, "error interno", http.StatusInternalServerError)
		return
	}
	for i := range messages {
		messages[i].User = messages[i].User.Public()
	}

	render(w, r, "propiedades/mensajes.html", map[string]any{
		"Pagina":   "Mensajes",
		"Mensajes": messages,
	})
}

// NotFound renders the shared 404 page.
func NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	render(w, r, "404.html", map[string]any{"Pagina": "No Encontrado"})
}

// loadPublic fetches a published listing with its lookups for the public
// pages; false means the 404 redirect was written.
func (h *PropertyHandler) loadPublic(w http.ResponseWriter, r *http.Request) (*models.Property, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		http.Redirect(w, r, "/404", http.StatusSeeOther)
		return nil, false
	}
	var property models.Property
	if err := h.DB.
		Preload("Category").
		Preload("Price").
		First(&property, id).Error; err != nil {
		http.Redirect(w, r, "/404", http.StatusSeeOther)
		return nil, false
	}
	if !property.Publicado {
		http.Redirect(w, r, "/404", http.StatusSeeOther)
		return nil, false
	}
	return &property, true
}

// esVendedor reports whether the viewer is the listing's seller; anonymous
// viewers never are.
func esVendedor(viewerID, ownerID uint) bool {
	return viewerID != 0 && viewerID == ownerID
}
