package helpers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/japi-express/shipment-service/internal/domain"
)

func DecodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func HttpError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

// FieldErrors renders a per-field validation failure the way the wizard
// shows it inline: {"error": ..., "fields": {"phone": "..."}}.
func FieldErrors(w http.ResponseWriter, fields domain.FieldErrors) {
	WriteJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}
