// Package transport sends player turns to the remote narrator service.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/ImportantSeal/aidventure/internal/domain"
)

// Client submits one player turn to the narrator and returns its result.
// Implementations do not retry: a single failed attempt is reported upward
// immediately so the caller can decide whether to surface it.
type Client interface {
	SubmitTurn(ctx context.Context, sessionID, text string) (*domain.TurnResult, error)
}

// Category classifies a transport failure.
type Category string

const (
	// CategoryUnreachable means the network exchange could not complete
	// (dial failure, timeout, connection dropped mid-exchange).
	CategoryUnreachable Category = "unreachable"
	// CategoryRemoteStatus means the narrator replied with a non-success status.
	CategoryRemoteStatus Category = "remote_status"
	// CategoryBadReply means the narrator's reply could not be decoded.
	CategoryBadReply Category = "bad_reply"
)

// Error is returned by Client implementations for any failed exchange. Status
// is the HTTP status code when Category is CategoryRemoteStatus, zero otherwise.
type Error struct {
	Category Category
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport: %s (status %d): %v", e.Category, e.Status, e.Err)
	}
	return fmt.Sprintf("transport: %s: %v", e.Category, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is (or wraps) a transport *Error.
func IsTransportError(err error) bool {
	var te *Error
	return errors.As(err, &te)
}

func failure(cat Category, status int, err error) *Error {
	return &Error{Category: cat, Status: status, Err: err}
}

// canceled maps context errors to an unreachable transport error so callers
// see a uniform failure type for timeouts.
func canceled(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return failure(CategoryUnreachable, 0, ctxErr)
	}
	return failure(CategoryUnreachable, 0, err)
}
