// Package api provides the HTTP handlers for ShortSwipe's history and
// settings.
package api

import (
	"encoding/json"
	"net/http"
)

// timeFormat is used for every timestamp in responses.
const timeFormat = "2006-01-02T15:04:05Z07:00"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
