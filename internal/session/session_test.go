package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ImportantSeal/aidventure/internal/domain"
	"github.com/ImportantSeal/aidventure/internal/transport"
)

// fakeTransport resolves turns from a canned script and records every call.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []string
	session string
	results map[string]*domain.TurnResult
	err     error
	gate    chan struct{} // when non-nil, SubmitTurn blocks until closed
}

func (f *fakeTransport) SubmitTurn(ctx context.Context, sessionID, text string) (*domain.TurnResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.session = sessionID
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.results[text]; ok {
		return r, nil
	}
	return &domain.TurnResult{Narration: "Nothing happens."}, nil
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestSession(t *testing.T, ft *fakeTransport) *Session {
	t.Helper()
	s, err := New(ft, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestSendArchivesPreviousCurrent(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{results: map[string]*domain.TurnResult{
		"begin": {
			Narration: "You wake in a camp.",
			Choices:   []string{"look around", "sneak away"},
		},
		"look around": {
			Narration: "You see a fire.",
		},
	}}
	s := newTestSession(t, ft)

	if err := s.Send(context.Background(), "begin"); err != nil {
		t.Fatalf("first Send failed: %v", err)
	}
	if got := s.History(); len(got) != 0 {
		t.Fatalf("expected empty history after first turn, got %v", got)
	}
	cur, ok := s.Current()
	if !ok {
		t.Fatal("expected a current turn after first resolution")
	}
	if cur.Player != "begin" || cur.Narration != "You wake in a camp." {
		t.Fatalf("unexpected current turn: %+v", cur)
	}
	if got := s.Choices(); len(got) != 2 || got[0] != "look around" || got[1] != "sneak away" {
		t.Fatalf("unexpected choices: %v", got)
	}

	if err := s.Send(context.Background(), "look around"); err != nil {
		t.Fatalf("second Send failed: %v", err)
	}
	hist := s.History()
	if len(hist) != 1 {
		t.Fatalf("expected one archived exchange, got %v", hist)
	}
	if hist[0].Player != "begin" || hist[0].Narration != "You wake in a camp." {
		t.Fatalf("unexpected archived exchange: %+v", hist[0])
	}
	cur, _ = s.Current()
	if cur.Player != "look around" || cur.Narration != "You see a fire." {
		t.Fatalf("unexpected current turn after second resolution: %+v", cur)
	}
}

func TestHistoryKeepsResolutionOrder(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{}
	s := newTestSession(t, ft)

	commands := []string{"a", "b", "c", "d"}
	for _, cmd := range commands {
		if err := s.Send(context.Background(), cmd); err != nil {
			t.Fatalf("Send(%q) failed: %v", cmd, err)
		}
	}

	hist := s.History()
	if len(hist) != len(commands)-1 {
		t.Fatalf("expected %d archived exchanges, got %d", len(commands)-1, len(hist))
	}
	for i, ex := range hist {
		if ex.Player != commands[i] {
			t.Fatalf("history out of order at %d: got %q, want %q", i, ex.Player, commands[i])
		}
	}
	cur, _ := s.Current()
	if cur.Player != "d" {
		t.Fatalf("expected current turn for %q, got %+v", "d", cur)
	}
}

func TestStartSendsOpeningCommand(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{results: map[string]*domain.TurnResult{
		OpeningCommand: {Narration: "An adventure begins."},
	}}
	s := newTestSession(t, ft)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if ft.callCount() != 1 {
		t.Fatalf("expected exactly one transport call, got %d", ft.callCount())
	}
	if ft.calls[0] != OpeningCommand {
		t.Fatalf("expected bootstrap command %q, got %q", OpeningCommand, ft.calls[0])
	}
	cur, ok := s.Current()
	if !ok || cur.Player != OpeningCommand {
		t.Fatalf("expected bootstrap exchange as current turn, got %+v", cur)
	}
	if len(s.History()) != 0 {
		t.Fatal("bootstrap must not create a history entry")
	}
}

func TestEmptyInputIsNoOp(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{}
	s := newTestSession(t, ft)

	if err := s.Send(context.Background(), "look"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	before, _ := s.Current()
	histBefore := s.History()

	for _, input := range []string{"", "   ", "\n\t "} {
		if err := s.Send(context.Background(), input); err != nil {
			t.Fatalf("Send(%q) should be a silent no-op, got %v", input, err)
		}
	}

	if ft.callCount() != 1 {
		t.Fatalf("blank input must not reach the transport, got %d calls", ft.callCount())
	}
	after, _ := s.Current()
	if after != before {
		t.Fatalf("current turn changed: %+v != %+v", after, before)
	}
	if got := s.History(); len(got) != len(histBefore) {
		t.Fatalf("history changed: %v", got)
	}
}

func TestRejectsOverlappingSend(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	ft := &fakeTransport{gate: gate}
	s := newTestSession(t, ft)

	errc := make(chan error, 1)
	go func() {
		errc <- s.Send(context.Background(), "first")
	}()

	waitFor(t, func() bool { return s.Busy() })

	if err := s.Send(context.Background(), "second"); !errors.Is(err, ErrTurnInFlight) {
		t.Fatalf("expected ErrTurnInFlight, got %v", err)
	}

	close(gate)
	if err := <-errc; err != nil {
		t.Fatalf("first Send failed: %v", err)
	}
	if s.Busy() {
		t.Fatal("session should be idle after resolution")
	}
	if ft.callCount() != 1 {
		t.Fatalf("rejected submission must not reach the transport, got %d calls", ft.callCount())
	}
	cur, _ := s.Current()
	if cur.Player != "first" {
		t.Fatalf("unexpected current turn: %+v", cur)
	}
}

func TestTransportFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{results: map[string]*domain.TurnResult{
		"look": {
			Narration: "A quiet village square.",
			Choices:   []string{"enter tavern"},
			State: &domain.Snapshot{
				Player: &domain.Player{HP: 10, MaxHP: 10},
				World:  &domain.World{Location: "Village"},
			},
		},
	}}
	s := newTestSession(t, ft)

	if err := s.Send(context.Background(), "look"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	ft.mu.Lock()
	ft.err = &transport.Error{Category: transport.CategoryRemoteStatus, Status: 502, Err: errors.New("bad gateway")}
	ft.mu.Unlock()

	err := s.Send(context.Background(), "attack")
	if err == nil {
		t.Fatal("expected an error from the failed turn")
	}
	if !transport.IsTransportError(err) {
		t.Fatalf("expected the transport error to propagate, got %v", err)
	}

	if s.Busy() {
		t.Fatal("session must return to idle after a failed turn")
	}
	if got := s.History(); len(got) != 0 {
		t.Fatalf("failed turn must not create a history entry: %v", got)
	}
	cur, _ := s.Current()
	if cur.Player != "look" || cur.Narration != "A quiet village square." {
		t.Fatalf("failed turn corrupted current turn: %+v", cur)
	}
	if got := s.Choices(); len(got) != 1 || got[0] != "enter tavern" {
		t.Fatalf("failed turn corrupted choices: %v", got)
	}
	if got := s.Stats().Location(); got != "Village" {
		t.Fatalf("failed turn corrupted derived state: %q", got)
	}

	// The session stays usable: a later attempt succeeds.
	ft.mu.Lock()
	ft.err = nil
	ft.mu.Unlock()
	if err := s.Send(context.Background(), "attack"); err != nil {
		t.Fatalf("retry after failure should succeed: %v", err)
	}
}

func TestSnapshotDrivesDerivedState(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{results: map[string]*domain.TurnResult{
		"go north": {
			Narration: "You crawl into the cave.",
			State: &domain.Snapshot{
				Player:    &domain.Player{HP: 7, MaxHP: 10},
				World:     &domain.World{Location: "Cave"},
				Inventory: []domain.Item{{Name: "torch", Count: 1}},
			},
		},
	}}
	s := newTestSession(t, ft)

	if err := s.Send(context.Background(), "go north"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if got := s.Stats().Health().String(); got != "7/10" {
		t.Fatalf("expected health 7/10, got %q", got)
	}
	if got := s.Stats().Location(); got != "Cave" {
		t.Fatalf("expected location Cave, got %q", got)
	}
	inv := s.Stats().Inventory()
	if len(inv) != 1 || inv[0].Name != "torch" || inv[0].Count != 1 {
		t.Fatalf("unexpected inventory: %v", inv)
	}
}

func TestSessionIDIsStableAndTagged(t *testing.T) {
	t.Parallel()

	ft := &fakeTransport{}
	s := newTestSession(t, ft)
	id := s.ID()
	if id == "" {
		t.Fatal("expected a non-empty session id")
	}

	for _, cmd := range []string{"one", "two"} {
		if err := s.Send(context.Background(), cmd); err != nil {
			t.Fatalf("Send(%q) failed: %v", cmd, err)
		}
		if ft.session != id {
			t.Fatalf("transport saw session %q, want %q", ft.session, id)
		}
	}
	if s.ID() != id {
		t.Fatal("session id must never change")
	}

	other := newTestSession(t, &fakeTransport{})
	if other.ID() == id {
		t.Fatal("two sessions generated the same id")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}
