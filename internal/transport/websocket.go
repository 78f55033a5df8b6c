package transport

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ImportantSeal/aidventure/internal/domain"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// WSClient submits turns over a persistent WebSocket connection to the
// narrator's /ws/turn endpoint. One request/response pair is exchanged per
// turn; the connection is dialed lazily and redialed after any failure.
type WSClient struct {
	url     string
	timeout time.Duration
	logger  *slog.Logger

	mu   sync.Mutex // serializes exchanges; the wire protocol has no frame IDs
	conn *websocket.Conn
}

// NewWS creates a WebSocket transport. url is the full ws:// or wss:// endpoint.
func NewWS(url string, timeout time.Duration, logger *slog.Logger) *WSClient {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WSClient{url: url, timeout: timeout, logger: logger}
}

// SubmitTurn writes the turn request and reads the narrator's reply. Any
// failure tears the connection down so the next call starts fresh.
func (c *WSClient) SubmitTurn(ctx context.Context, sessionID, text string) (*domain.TurnResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.conn == nil {
		conn, _, err := websocket.Dial(ctx, c.url, nil)
		if err != nil {
			return nil, canceled(ctx, fmt.Errorf("dial narrator: %w", err))
		}
		c.conn = conn
		c.logger.Debug("narrator websocket connected", "url", c.url)
	}

	req := domain.TurnRequest{SessionID: sessionID, Text: text}
	if err := wsjson.Write(ctx, c.conn, req); err != nil {
		c.drop()
		return nil, canceled(ctx, fmt.Errorf("write turn request: %w", err))
	}

	var result domain.TurnResult
	if err := wsjson.Read(ctx, c.conn, &result); err != nil {
		c.drop()
		return nil, canceled(ctx, fmt.Errorf("read turn response: %w", err))
	}
	return &result, nil
}

// Close shuts the connection down cleanly. Safe to call multiple times.
func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close(websocket.StatusNormalClosure, "session ended")
	c.conn = nil
	return err
}

func (c *WSClient) drop() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(websocket.StatusInternalError, "exchange failed"); err != nil {
		c.logger.Debug("failed to close narrator websocket", "error", err)
	}
	c.conn = nil
}
