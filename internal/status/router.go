package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mazewars/mazewars-go/internal/archive"
	"github.com/mazewars/mazewars-go/internal/model"
)

// Controller is the live-match surface the API reads and administers.
// The game server implements it.
type Controller interface {
	Snapshot() model.MatchSnapshot
	Kick(ctx context.Context, username string) error
}

// RouterConfig holds configuration for the status API router
type RouterConfig struct {
	Logger     *slog.Logger
	Controller Controller
	Archive    archive.Store
}

// NewRouter creates a new status API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	matchHandler := NewMatchHandler(cfg.Controller)
	archiveHandler := NewArchiveHandler(cfg.Archive)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recovery(cfg.Logger))
	api.Use(logging(cfg.Logger))

	// Live match routes
	api.HandleFunc("/match", matchHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/match/kick", matchHandler.Kick).Methods(http.MethodPost)

	// Archive routes
	api.HandleFunc("/matches", archiveHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}", archiveHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
