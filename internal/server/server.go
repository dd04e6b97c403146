// Package server provides the HTTP dashboard server for ShortSwipe.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ayusman/shortswipe/internal/app"
	"github.com/ayusman/shortswipe/internal/server/api"
	"github.com/ayusman/shortswipe/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Controller is the running app as the server sees it. *app.App
// implements it.
type Controller interface {
	api.Switch
	api.Configurable
	FrameSource
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       Controller
}

// Server represents the HTTP server for the ShortSwipe dashboard.
type Server struct {
	config Config
	router *mux.Router
	hub    *Hub
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: mux.NewRouter(),
		hub:    NewHub(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/api/ws", s.hub).Methods(http.MethodGet)

	if s.config.Store != nil {
		api.NewEventHandler(s.config.Store).Register(s.router)
	}

	if s.config.App != nil {
		api.NewControlHandler(s.config.App).Register(s.router)
		api.NewSettingsHandler(s.config.Store, s.config.App).Register(s.router)
		s.router.Handle("/api/stream", NewStreamHandler(s.config.App)).Methods(http.MethodGet)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.router.PathPrefix("/").Handler(fs).Methods(http.MethodGet, http.MethodHead)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Publish pushes an event to every connected dashboard.
func (s *Server) Publish(e app.Event) {
	s.hub.Publish(e)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and disconnects websocket clients.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Dashboard listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
