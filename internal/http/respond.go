package httpx

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends an error body. The wire format is a bare JSON string, not
// an object, so clients see e.g. "Rustacean not found".
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, msg)
}
