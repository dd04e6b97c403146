package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ayusman/shortswipe/internal/gesture"
	"github.com/ayusman/shortswipe/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// EventHandler serves the action history.
type EventHandler struct {
	store *store.Store
}

// NewEventHandler creates a new EventHandler with the given store.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{store: s}
}

// Register adds the history routes to r.
func (h *EventHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/events", h.list).Methods(http.MethodGet)
	r.HandleFunc("/api/events/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/api/events/{id}", h.delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/events/{id}/snapshot", h.snapshot).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", h.stats).Methods(http.MethodGet)
}

type eventResponse struct {
	ID          string  `json:"id"`
	Action      string  `json:"action"`
	Outcome     string  `json:"outcome"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Area        float64 `json:"area"`
	Error       string  `json:"error,omitempty"`
	SnapshotURL string  `json:"snapshot_url"`
	CreatedAt   string  `json:"created_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

type statsResponse struct {
	Total    int            `json:"total"`
	ByAction map[string]int `json:"by_action"`
}

func toEventResponse(e *store.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Action:      e.Action,
		Outcome:     e.Outcome,
		X:           e.X,
		Y:           e.Y,
		Area:        e.Area,
		Error:       e.SinkError,
		SnapshotURL: "/api/events/" + e.ID + "/snapshot",
		CreatedAt:   e.CreatedAt.UTC().Format(timeFormat),
	}
}

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	action := q.Get("action")
	if action != "" {
		if a, err := gesture.ParseAction(action); err != nil || a == gesture.ActionNone {
			writeError(w, http.StatusBadRequest, "unknown action: "+action)
			return
		}
	}

	limit := defaultListLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	events, err := h.store.Events().List(action, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	response := listEventsResponse{
		Events: make([]eventResponse, len(events)),
	}
	for i, e := range events {
		response.Events[i] = toEventResponse(e)
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *EventHandler) get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	event, err := h.store.Events().GetByID(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *EventHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.store.Events().Delete(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) snapshot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	data, err := h.store.Events().Snapshot(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *EventHandler) stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Events().CountByAction()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count events")
		return
	}

	response := statsResponse{ByAction: counts}
	for _, n := range counts {
		response.Total += n
	}
	writeJSON(w, http.StatusOK, response)
}
