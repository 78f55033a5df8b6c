package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// newID generates the session identifier: one random, effectively-unique
// opaque token. It is created once at session start and never rotated for the
// lifetime of the session.
func newID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return "adv_" + hex.EncodeToString(buf), nil
}
