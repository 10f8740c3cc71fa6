package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	sess := NewSession("abc")
	sess.AccessToken = "acc"
	sess.Username = "ada"
	sess.Booking.FlightID = 7
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "acc", loaded.AccessToken)
	assert.Equal(t, int64(7), loaded.Booking.FlightID)

	// The store hands back copies, not the saved pointer.
	loaded.AccessToken = "mutated"
	again, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "acc", again.AccessToken)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSession_Authenticated(t *testing.T) {
	sess := NewSession("abc")
	assert.False(t, sess.Authenticated())

	sess.AccessToken = "acc"
	assert.False(t, sess.Authenticated(), "both tokens are required")

	sess.RefreshToken = "ref"
	assert.True(t, sess.Authenticated())
}

func TestSession_ClearAuthKeepsBooking(t *testing.T) {
	sess := NewSession("abc")
	sess.AccessToken = "acc"
	sess.RefreshToken = "ref"
	sess.Username = "ada"
	sess.Booking.FlightID = 7

	sess.ClearAuth()

	assert.Empty(t, sess.AccessToken)
	assert.Empty(t, sess.RefreshToken)
	assert.Empty(t, sess.Username)
	assert.Equal(t, int64(7), sess.Booking.FlightID, "flow state survives logout")
}
