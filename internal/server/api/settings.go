package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/mux"

	"github.com/ayusman/shortswipe/internal/config"
	"github.com/ayusman/shortswipe/internal/store"
)

// Configurable is the part of the running app the settings API changes.
type Configurable interface {
	Config() config.Config
	Reconfigure(cfg config.Config)
}

// The database location cannot be kept inside the database.
var fixedKeys = map[string]bool{"db": true}

// SettingsHandler reads and updates settings. Updates are validated as a
// whole, persisted when a store is configured and handed to the app.
type SettingsHandler struct {
	store  *store.Store
	target Configurable

	// mu serialises updates so each one starts from the previous result.
	mu sync.Mutex
}

// NewSettingsHandler creates a SettingsHandler. s may be nil, in which case
// changes last until the process exits.
func NewSettingsHandler(s *store.Store, target Configurable) *SettingsHandler {
	return &SettingsHandler{store: s, target: target}
}

// Register adds the settings routes to r.
func (h *SettingsHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/settings", h.get).Methods(http.MethodGet)
	r.HandleFunc("/api/settings", h.update).Methods(http.MethodPut)
}

type settingsResponse struct {
	Settings        map[string]string `json:"settings"`
	Live            []string          `json:"live"`
	RestartRequired []string          `json:"restart_required,omitempty"`
}

func newSettingsResponse(cfg config.Config) settingsResponse {
	response := settingsResponse{Settings: cfg.Settings(), Live: []string{}}
	for _, key := range config.Keys() {
		if config.Live(key) {
			response.Live = append(response.Live, key)
		}
	}
	return response
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSettingsResponse(h.target.Config()))
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var changes map[string]string
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(changes) == 0 {
		writeError(w, http.StatusBadRequest, "no settings given")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	old := h.target.Config()
	cfg := old
	for key, value := range changes {
		if fixedKeys[key] {
			writeError(w, http.StatusBadRequest, key+" cannot be changed at runtime")
			return
		}
		if err := cfg.Set(key, value); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Persist the normalised form so reloading yields the same values.
	normalised := make(map[string]string, len(changes))
	for key := range changes {
		normalised[key], _ = cfg.Get(key)
	}
	if h.store != nil {
		if err := h.store.Settings().SetAll(normalised); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	h.target.Reconfigure(cfg)

	response := newSettingsResponse(cfg)
	for key, value := range normalised {
		before, _ := old.Get(key)
		if !config.Live(key) && before != value {
			response.RestartRequired = append(response.RestartRequired, key)
		}
	}
	sort.Strings(response.RestartRequired)

	writeJSON(w, http.StatusOK, response)
}
