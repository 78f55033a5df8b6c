// Package session implements the turn-synchronization core of the AIdventure
// client. A Session pairs each submitted player command with the narration it
// produces, archives completed pairs into an ordered history, and keeps the
// derived game status and the reveal animation in step with the narrator's
// authoritative snapshots.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ImportantSeal/aidventure/internal/domain"
	"github.com/ImportantSeal/aidventure/internal/reveal"
	"github.com/ImportantSeal/aidventure/internal/stats"
	"github.com/ImportantSeal/aidventure/internal/transport"
)

// OpeningCommand is the scripted command sent automatically by Start to obtain
// the opening narration and initial state before any user interaction.
const OpeningCommand = "Start the adventure."

// ErrTurnInFlight is returned by Send while a previous turn is still pending.
// Overlapping submissions are rejected, never queued: allowing them would let
// history archive turns out of resolution order.
var ErrTurnInFlight = errors.New("session: a turn is already in flight")

// Session drives one play session against a narrator transport.
//
// At most one turn is pending at any time. The archive-then-replace step on a
// resolved turn runs under a single mutex, so observers never see a half-updated
// current slot or a history entry without its replacement.
type Session struct {
	id        string
	transport transport.Client
	projector *stats.Projector
	revealer  *reveal.Controller
	logger    *slog.Logger

	mu      sync.Mutex
	busy    bool
	history []domain.Exchange
	current *domain.Exchange
	choices []string
	over    bool
}

// New creates a session with a fresh identifier. The identifier is fixed for
// the session's lifetime and tags every transport call.
func New(t transport.Client, logger *slog.Logger) (*Session, error) {
	if t == nil {
		return nil, errors.New("session: transport is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	return &Session{
		id:        id,
		transport: t,
		projector: stats.NewProjector(),
		logger:    logger,
	}, nil
}

// AttachReveal sets the controller restarted with each new narration. Optional;
// a nil session revealer simply skips the animation.
func (s *Session) AttachReveal(r *reveal.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revealer = r
}

// Start issues the implicit bootstrap turn. It counts as turn 1 and follows the
// same rules as any player-submitted turn.
func (s *Session) Start(ctx context.Context) error {
	return s.Send(ctx, OpeningCommand)
}

// Send submits one player command and resolves it into the current turn.
//
// Empty or all-whitespace input is a silent no-op: no transport call, no state
// change, nil return. While a turn is pending, further calls fail with
// ErrTurnInFlight. On transport failure every published value is left exactly
// as it was and the session returns to idle, so the caller may re-offer the
// same text.
func (s *Session) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrTurnInFlight
	}
	s.busy = true
	s.mu.Unlock()

	result, err := s.transport.SubmitTurn(ctx, s.id, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.logger.Warn("turn submission failed", "session_id", s.id, "error", err)
		return fmt.Errorf("submit turn: %w", err)
	}

	// Archive-then-replace: the previous exchange moves to history before the
	// new pair takes the current slot. History order is resolution order.
	if s.current != nil {
		s.history = append(s.history, *s.current)
	}
	s.current = &domain.Exchange{Player: text, Narration: result.Narration}
	s.choices = append([]string(nil), result.Choices...)
	s.over = result.EndGame
	s.projector.Apply(result.State)
	if s.revealer != nil {
		s.revealer.Start(result.Narration)
	}
	return nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Busy reports whether a turn is currently pending.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Over reports whether the narrator has declared the game finished.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// History returns the archived exchanges, oldest first.
func (s *Session) History() []domain.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Exchange(nil), s.history...)
}

// Current returns the most recent resolved exchange. ok is false only before
// the very first response arrives.
func (s *Session) Current() (exchange domain.Exchange, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Exchange{}, false
	}
	return *s.current, true
}

// Choices returns the narrator's suggested follow-up commands for the current
// turn. May be empty.
func (s *Session) Choices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.choices...)
}

// Stats returns the projector holding the derived game status. Its accessors
// are safe for concurrent use.
func (s *Session) Stats() *stats.Projector {
	return s.projector
}
