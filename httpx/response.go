// Package httpx holds small helpers for the few JSON endpoints of an app
// that is otherwise fully server-rendered.
package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes payload with the given status. Encoding happens before the
// header is written so a marshal failure can still produce a clean 500.
func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Resultado writes the acknowledgment body used by the publish toggle,
// matching what the listing index fetches asynchronously.
func Resultado(w http.ResponseWriter, ok bool) {
	JSON(w, http.StatusOK, map[string]bool{"resultado": ok})
}

// Error writes a machine-readable error body.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}
