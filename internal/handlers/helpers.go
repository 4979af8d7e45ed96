// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Nattapat2550/chat/internal/services"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps a service-layer error onto the right status
// class: validation -> 400, missing thread -> 404, everything else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case services.IsValidation(err):
		writeError(w, err.Error(), http.StatusBadRequest)
	case services.IsNotFound(err):
		writeError(w, "Thread not found", http.StatusNotFound)
	default:
		writeError(w, "Something went wrong on our end.", http.StatusInternalServerError)
	}
}
