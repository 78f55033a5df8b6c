// Package api provides HTTP handlers for the narrator dev server.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/ImportantSeal/aidventure/internal/domain"
	"github.com/ImportantSeal/aidventure/internal/narrator"
	"github.com/ImportantSeal/aidventure/internal/store"
	"github.com/go-chi/chi/v5"
)

var (
	errMissingSession = errors.New("session_id is required")
	errEmptyCommand   = errors.New("text must not be empty")
)

// Handler serves the narrator wire contract: one operation, "submit turn".
type Handler struct {
	repo   store.Repository
	engine *narrator.Engine

	// Serializes turn resolution. The dev server's load is one player per
	// session; a single critical section keeps the read-modify-write of
	// session state trivially correct.
	mu sync.Mutex
}

// NewHandler creates a turn handler backed by repo and engine.
func NewHandler(repo store.Repository, engine *narrator.Engine) *Handler {
	return &Handler{repo: repo, engine: engine}
}

// RegisterRoutes registers the narrator endpoints on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/turn", h.handleTurn)
	r.Get("/ws/turn", h.handleTurnSocket)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req domain.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.resolveTurn(r.Context(), req)
	switch {
	case errors.Is(err, errMissingSession), errors.Is(err, errEmptyCommand):
		Error(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("turn resolution failed", "session_id", req.SessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to resolve turn")
		return
	}

	JSON(w, http.StatusOK, result)
}

// resolveTurn loads (or creates) the session state, plays the turn, and
// persists the updated state before answering.
func (h *Handler) resolveTurn(ctx context.Context, req domain.TurnRequest) (*domain.TurnResult, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, errMissingSession
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, errEmptyCommand
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	state, err := h.repo.GetGameSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = narrator.NewState()
		slog.Info("new game session", "session_id", req.SessionID)
	}

	result := h.engine.Resolve(state, strings.TrimSpace(req.Text))

	if err := h.repo.SaveGameSession(ctx, req.SessionID, state); err != nil {
		return nil, err
	}
	return result, nil
}
