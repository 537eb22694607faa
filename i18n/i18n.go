package i18n

import "strings"

// Chrome translations keyed by code. Validation messages shown inside forms
// are written in Spanish directly by the handlers; this table only covers
// navigation and shared page furniture.
var translations = map[string]map[string]string{
	"es": {
		"nav.my_properties": "Mis Propiedades",
		"nav.create":        "Crear Propiedad",
		"nav.login":         "Iniciar Sesión",
		"nav.register":      "Crear Cuenta",
		"nav.logout":        "Cerrar Sesión",
		"nav.messages":      "Mensajes",
		"form.save":         "Guardar",
		"form.send":         "Enviar",
		"anonymous":         "Anónimo",
	},
	"en": {
		"nav.my_properties": "My Properties",
		"nav.create":        "Create Listing",
		"nav.login":         "Log In",
		"nav.register":      "Sign Up",
		"nav.logout":        "Log Out",
		"nav.messages":      "Messages",
		"form.save":         "Save",
		"form.send":         "Send",
		"anonymous":         "Anonymous",
	},
}

// T returns the translation for code in lang. Unknown languages fall back to
// Spanish; unknown codes fall back to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := translations["es"][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		if tag == "" {
			continue
		}
		if base, _, found := strings.Cut(tag, "-"); found {
			tag = base
		}
		if _, ok := translations[tag]; ok {
			return tag
		}
	}
	return "es"
}
