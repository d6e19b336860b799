package status

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mazewars/mazewars-go/internal/archive"
	"github.com/mazewars/mazewars-go/internal/model"
)

// MatchHandler handles live-match endpoints
type MatchHandler struct {
	controller Controller
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(controller Controller) *MatchHandler {
	return &MatchHandler{controller: controller}
}

// Get handles GET /api/v1/match
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MatchStatusFromSnapshot(h.controller.Snapshot()))
}

// KickRequest is the body for POST /api/v1/match/kick
type KickRequest struct {
	Username string `json:"username"`
}

// Kick handles POST /api/v1/match/kick
func (h *MatchHandler) Kick(w http.ResponseWriter, r *http.Request) {
	var req KickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, newInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		writeError(w, newInvalidRequestError("username is required"))
		return
	}

	if err := h.controller.Kick(r.Context(), req.Username); err != nil {
		writeError(w, err)
		return
	}

	writeNoContent(w)
}

// ArchiveHandler handles archived-match endpoints
type ArchiveHandler struct {
	archive archive.Store
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(store archive.Store) *ArchiveHandler {
	return &ArchiveHandler{archive: store}
}

// List handles GET /api/v1/matches
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.archive.ListMatches(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	matches := make([]ArchivedMatch, len(summaries))
	for i, summary := range summaries {
		matches[i] = ArchivedMatchFromModel(summary)
	}

	writeJSON(w, http.StatusOK, matches)
}

// Get handles GET /api/v1/matches/{id}
func (h *ArchiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.MatchID(mux.Vars(r)["id"])

	summary, err := h.archive.GetMatch(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ArchivedMatchFromModel(summary))
}
