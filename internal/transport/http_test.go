package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ImportantSeal/aidventure/internal/domain"
)

func TestHTTPSubmitTurnSuccess(t *testing.T) {
	t.Parallel()

	var gotReq domain.TurnRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/turn" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(domain.TurnResult{
			Narration: "You wake in a camp.",
			Choices:   []string{"look around"},
			State: &domain.Snapshot{
				Player: &domain.Player{HP: 10, MaxHP: 10},
				World:  &domain.World{Location: "Village"},
			},
		}); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL, time.Second, nil)
	result, err := c.SubmitTurn(context.Background(), "adv_abc", "begin")
	if err != nil {
		t.Fatalf("SubmitTurn failed: %v", err)
	}

	if gotReq.SessionID != "adv_abc" || gotReq.Text != "begin" {
		t.Fatalf("unexpected wire request: %+v", gotReq)
	}
	if result.Narration != "You wake in a camp." {
		t.Fatalf("unexpected narration: %q", result.Narration)
	}
	if len(result.Choices) != 1 || result.Choices[0] != "look around" {
		t.Fatalf("unexpected choices: %v", result.Choices)
	}
	if result.State == nil || result.State.World.Location != "Village" {
		t.Fatalf("unexpected state: %+v", result.State)
	}
}

func TestHTTPSubmitTurnRemoteStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "narrator on fire", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL, time.Second, nil)
	_, err := c.SubmitTurn(context.Background(), "adv_abc", "begin")

	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if te.Category != CategoryRemoteStatus || te.Status != http.StatusBadGateway {
		t.Fatalf("unexpected error classification: %+v", te)
	}
}

func TestHTTPSubmitTurnBadReply(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("this is not json")); err != nil {
			t.Errorf("write failed: %v", err)
		}
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL, time.Second, nil)
	_, err := c.SubmitTurn(context.Background(), "adv_abc", "begin")

	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if te.Category != CategoryBadReply {
		t.Fatalf("expected bad_reply, got %q", te.Category)
	}
}

func TestHTTPSubmitTurnUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := NewHTTP(srv.URL, time.Second, nil)
	_, err := c.SubmitTurn(context.Background(), "adv_abc", "begin")

	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if te.Category != CategoryUnreachable {
		t.Fatalf("expected unreachable, got %q", te.Category)
	}
}

func TestHTTPSubmitTurnTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewHTTP(srv.URL, 50*time.Millisecond, nil)
	_, err := c.SubmitTurn(context.Background(), "adv_abc", "begin")

	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if te.Category != CategoryUnreachable {
		t.Fatalf("expected timeout to surface as unreachable, got %q", te.Category)
	}
}
