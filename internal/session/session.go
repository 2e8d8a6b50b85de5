// Package session keeps the per-browser session record (signed-in user and one-shot flash
// message) in a server-side Store and guards routes that need a signed-in user.
package session

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the lifetime of a session that is not touched.
const DefaultTTL = 24 * time.Hour

// ErrNoSession is returned by Manager operations on a request that passed no session middleware.
var ErrNoSession = errors.New("session: no session in request context")

// Session is the state kept for one browser.
type Session struct {
	Username string `json:"username,omitempty"`
	Flash    string `json:"flash,omitempty"`
}

// SignedIn reports whether the session belongs to a signed-in user.
func (s Session) SignedIn() bool {
	return s.Username != ""
}

// Store persists sessions by id.
type Store interface {
	// Get returns the session with the given id. ok is false for unknown or expired ids.
	Get(ctx context.Context, id string) (s Session, ok bool, err error)
	// Put stores s under id and restarts its lifetime.
	Put(ctx context.Context, id string, s Session) error
	Delete(ctx context.Context, id string) error
}
