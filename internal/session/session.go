// Package session replaces the browser's persistent storage: three string
// slots (access token, refresh token, remembered username) plus the booking
// flow state, keyed by a cookie-carried session id.
package session

import (
	"context"
	"errors"

	"github.com/skywardair/bookingdesk/internal/booking"
)

// ErrNotFound is returned when no session exists for the id.
var ErrNotFound = errors.New("session not found")

// Session is one browser's server-side state.
type Session struct {
	ID               string        `json:"id"`
	AccessToken      string        `json:"access_token"`
	RefreshToken     string        `json:"refresh_token"`
	Username         string        `json:"username"`
	Booking          booking.State `json:"booking"`
	SelectedRosterID int64         `json:"selected_roster_id"`
}

// Authenticated reports whether the session carries a full token pair;
// presence of both tokens is what route protection keys on.
func (s *Session) Authenticated() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

// ClearAuth empties the three auth slots, leaving flow state intact.
func (s *Session) ClearAuth() {
	s.AccessToken = ""
	s.RefreshToken = ""
	s.Username = ""
}

// Store persists sessions.
type Store interface {
	// Get loads a session; ErrNotFound when the id is unknown or expired.
	Get(ctx context.Context, id string) (*Session, error)
	// Save writes a session, refreshing its TTL.
	Save(ctx context.Context, s *Session) error
	// Delete removes a session.
	Delete(ctx context.Context, id string) error
}

// NewSession returns an empty session with a fresh flow state.
func NewSession(id string) *Session {
	return &Session{ID: id, Booking: booking.New()}
}
