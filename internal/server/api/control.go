package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayusman/shortswipe/internal/app"
)

// Switch is the part of the running app the control API drives.
type Switch interface {
	IsEnabled() bool
	SetEnabled(enabled bool)
	Status() app.Status
}

// ControlHandler reports the loop's status and turns recognition on and off.
type ControlHandler struct {
	app Switch
}

// NewControlHandler creates a new ControlHandler for a.
func NewControlHandler(a Switch) *ControlHandler {
	return &ControlHandler{app: a}
}

// Register adds the control routes to r.
func (h *ControlHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/status", h.status).Methods(http.MethodGet)
	r.HandleFunc("/api/enabled", h.setEnabled).Methods(http.MethodPut)
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *ControlHandler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Status())
}

func (h *ControlHandler) setEnabled(w http.ResponseWriter, r *http.Request) {
	var req enabledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	h.app.SetEnabled(*req.Enabled)
	writeJSON(w, http.StatusOK, h.app.Status())
}
