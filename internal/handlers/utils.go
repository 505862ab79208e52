package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"photo-gallery/internal/admin"
	"photo-gallery/internal/blobstore"
	"photo-gallery/internal/logging"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding errors are logged; the status line is already gone by then.
func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": status})
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, v)
}

// decodeJSON reads the request body into v, replying 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps domain errors onto status codes. Anything unclassified is
// logged and reported as a 500 without its detail.
func writeError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, admin.ErrInvalid):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, admin.ErrWrongPassword):
		writeJSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, admin.ErrNotFound), errors.Is(err, blobstore.ErrNotFound), errors.Is(err, blobstore.ErrInvalidKey):
		writeJSONError(w, "Not found", http.StatusNotFound)
	default:
		logging.Error("%s: %v", action, err)
		writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}
