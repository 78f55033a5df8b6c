package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ImportantSeal/aidventure/internal/domain"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// handleTurnSocket serves the WebSocket variant of the turn endpoint: the
// client writes one TurnRequest frame per turn and reads one TurnResult frame
// back, over a connection it keeps for the whole session.
func (h *Handler) handleTurnSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("failed to accept turn websocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("failed to close turn websocket", "error", closeErr)
		}
	}()

	ctx := r.Context()
	for {
		var req domain.TurnRequest
		if err := wsjson.Read(ctx, ws, &req); err != nil {
			if !isExpectedClose(err) {
				slog.Debug("turn websocket read failed", "error", err)
			}
			return
		}

		result, err := h.resolveTurn(ctx, req)
		if err != nil {
			// The wire contract assumes nothing about failure structure
			// beyond "this call failed"; a close with a reason is enough.
			slog.Warn("turn websocket resolution failed", "session_id", req.SessionID, "error", err)
			_ = ws.Close(websocket.StatusInternalError, "failed to resolve turn")
			return
		}

		if err := wsjson.Write(ctx, ws, result); err != nil {
			slog.Debug("turn websocket write failed", "error", err)
			return
		}
	}
}

func isExpectedClose(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	status := websocket.CloseStatus(err)
	return status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway
}
