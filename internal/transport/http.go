package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ImportantSeal/aidventure/internal/domain"
)

const turnPath = "/api/turn"

// HTTPClient submits turns with a JSON POST to the narrator's /api/turn endpoint.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewHTTP creates an HTTP transport against baseURL (scheme://host[:port]).
// Each SubmitTurn call is bounded by timeout in addition to the caller's context.
func NewHTTP(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: timeout,
		logger:  logger,
	}
}

// SubmitTurn sends the player's command tagged with the session identifier and
// decodes the narrator's reply.
func (c *HTTPClient) SubmitTurn(ctx context.Context, sessionID, text string) (*domain.TurnResult, error) {
	body, err := json.Marshal(domain.TurnRequest{SessionID: sessionID, Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode turn request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+turnPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build turn request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("turn request failed", "error", err)
		return nil, canceled(ctx, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for the log, but the error carries only
		// the status; the core has no structural contract with failure bodies.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		c.logger.Warn("narrator returned non-success status", "status", resp.StatusCode, "body", string(snippet))
		return nil, failure(CategoryRemoteStatus, resp.StatusCode, fmt.Errorf("narrator status %s", resp.Status))
	}

	var result domain.TurnResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, failure(CategoryBadReply, 0, fmt.Errorf("decode turn response: %w", err))
	}
	return &result, nil
}
