// Package flash keeps one-shot payloads keyed by a client session id. A
// payload is returned by the first Take and is gone afterwards.
package flash

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DefaultTTL is how long an unread payload is kept.
const DefaultTTL = 10 * time.Minute

// MaxSessionIDLength bounds the accepted session id.
const MaxSessionIDLength = 128

// ErrInvalidSessionID is returned for empty or oversized session ids.
var ErrInvalidSessionID = errors.New("invalid session id")

// Payload is what a failed form submission leaves behind for the next page
// render: the draft as it was sent and the messages explaining the failure.
type Payload struct {
	Draft              json.RawMessage `json:"draft,omitempty"`
	ValidationMessages []string        `json:"validationMessages"`
}

// Store holds flash payloads.
type Store interface {
	// Put replaces whatever is stored under sessionID.
	Put(ctx context.Context, sessionID string, p Payload) error
	// Take returns the payload and removes it. ok is false when nothing
	// is stored.
	Take(ctx context.Context, sessionID string) (p *Payload, ok bool, err error)
}

// CheckSessionID validates a session id before it is used as a key.
func CheckSessionID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > MaxSessionIDLength {
		return ErrInvalidSessionID
	}
	return nil
}
