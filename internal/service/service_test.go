package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skywardair/bookingdesk/internal/booking"
	"github.com/skywardair/bookingdesk/internal/config"
	"github.com/skywardair/bookingdesk/internal/models"
	"github.com/skywardair/bookingdesk/internal/roster"
	"github.com/skywardair/bookingdesk/internal/session"
	"github.com/skywardair/bookingdesk/internal/upstream"
	"github.com/skywardair/bookingdesk/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstreamStub serves the remote API surface the service touches.
func upstreamStub() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/flights/":
			w.Write([]byte(`{"results": [
				{"id": 7, "flight_number": "SW123",
				 "origin_airport": {"code": "IST", "city": "Istanbul"},
				 "destination_airport": {"code": "JFK", "city": "New York"}},
				{"id": 8, "flight_number": "SW456",
				 "origin_airport": {"code": "LHR", "city": "London"},
				 "destination_airport": {"code": "CDG", "city": "Paris"}}
			]}`))
		case r.URL.Path == "/api/flights/7/":
			w.Write([]byte(`{
				"id": 7,
				"flight_number": "SW123",
				"plane_type": {"name": "A320", "total_seats": 12}
			}`))
		case r.URL.Path == "/api/tickets/" && r.URL.Query().Get("flight") == "7":
			w.Write([]byte(`{"results": [{"seat_number": "1A"}, {"seat_number": "2B"}]}`))
		case r.URL.Path == "/api/token/":
			w.Write([]byte(`{"access": "acc", "refresh": "ref"}`))
		case r.URL.Path == "/api/rosters/generate/":
			w.Write([]byte(`{"id": 5, "backend": "sql"}`))
		case r.URL.Path == "/api/rosters/":
			w.Write([]byte(`{"results": [{"id": 5, "backend": "sql"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`"not found"`))
		}
	}
}

func newTestService(t *testing.T, handler http.HandlerFunc) (Service, session.Store, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)

	cfg := &config.Config{}
	cfg.Upstream.FlightPageSize = 100
	cfg.Upstream.TicketPageSize = 50
	cfg.Upstream.RosterPageSize = 100
	cfg.Upstream.TakenSeatsLimit = 500
	cfg.Temporal.TaskQueue = "ticket-purchase-queue"

	store := session.NewMemoryStore()
	hub := websocket.NewHub()
	go hub.Run()

	api := upstream.New(srv.URL+"/api/", 5*time.Second)
	svc := New(api, store, hub, nil, cfg)
	return svc, store, srv.Close
}

func TestListFlights_SearchFiltersLocally(t *testing.T) {
	svc, _, done := newTestService(t, upstreamStub())
	defer done()
	ctx := context.Background()

	flights, err := svc.ListFlights(ctx, "sess-1", "")
	require.NoError(t, err)
	assert.Len(t, flights, 2)

	// Matches flight number, airport code, and city, case-insensitively.
	for _, term := range []string{"sw123", "IST", "new york"} {
		flights, err = svc.ListFlights(ctx, "sess-1", term)
		require.NoError(t, err)
		require.Len(t, flights, 1, "term %q", term)
		assert.Equal(t, int64(7), flights[0].ID)
	}

	flights, err = svc.ListFlights(ctx, "sess-1", "nowhere")
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestSelectFlight_InstallsTakenSeats(t *testing.T) {
	svc, _, done := newTestService(t, upstreamStub())
	defer done()

	view, err := svc.SelectFlight(context.Background(), "sess-1", 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), view.FlightID)
	assert.Equal(t, booking.StepPassengerInfo, view.Step)
	assert.ElementsMatch(t, []string{"1A", "2B"}, view.TakenSeats)
	assert.Equal(t, 359.0, view.EstimatedFare)
	assert.Equal(t, "Confirm Booking for $359.00", view.ConfirmLabel)
}

func TestSelectFlight_UnknownFlight(t *testing.T) {
	svc, _, done := newTestService(t, upstreamStub())
	defer done()

	_, err := svc.SelectFlight(context.Background(), "sess-1", 99)
	require.Error(t, err)
}

func TestBookingFlow_EndToEndThroughSeat(t *testing.T) {
	svc, _, done := newTestService(t, upstreamStub())
	defer done()
	ctx := context.Background()

	_, err := svc.SelectFlight(ctx, "sess-1", 7)
	require.NoError(t, err)

	// Advancing with an empty form fails and stays on step one.
	_, err = svc.NextStep(ctx, "sess-1")
	require.EqualError(t, err, "First name required")

	_, err = svc.UpdatePassenger(ctx, "sess-1", booking.Form{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		Phone:          "12345",
		PassportNumber: "X999",
		Nationality:    "UK",
	})
	require.NoError(t, err)

	view, err := svc.NextStep(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, booking.StepSeatSelection, view.Step)

	// Taken seats are rejected, free ones stick.
	_, err = svc.SetSeat(ctx, "sess-1", "1A")
	assert.ErrorIs(t, err, booking.ErrSeatTaken)

	view, err = svc.SetSeat(ctx, "sess-1", "3C")
	require.NoError(t, err)
	assert.Equal(t, "3C", view.SeatNumber)

	// Promo applies to the recomputed fare.
	view, err = svc.ApplyPromo(ctx, "sess-1", "save25")
	require.NoError(t, err)
	assert.InDelta(t, 269.25, view.EstimatedFare, 0.0001)
}

func TestUpdatePassenger_KeepsDefaultDOB(t *testing.T) {
	svc, _, done := newTestService(t, upstreamStub())
	defer done()

	view, err := svc.UpdatePassenger(context.Background(), "sess-1", booking.Form{FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "1990-01-01", view.Form.DateOfBirth, "blank DOB falls back to the prefill")
}

func TestSetClass_Unknown(t *testing.T) {
	svc, _, done := newTestService(t, upstreamStub())
	defer done()

	_, err := svc.SetClass(context.Background(), "sess-1", models.CabinClass("Premium"))
	require.Error(t, err)
}

func TestLoginLogout_SessionState(t *testing.T) {
	svc, store, done := newTestService(t, upstreamStub())
	defer done()
	ctx := context.Background()

	err := svc.Login(ctx, "sess-1", "", "", true)
	assert.ErrorIs(t, err, ErrNoCredentials)

	require.NoError(t, svc.Login(ctx, "sess-1", "ada", "secret", true))

	sess, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "ada", sess.Username)

	require.NoError(t, svc.Logout(ctx, "sess-1"))
	sess, err = store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Username)
}

func TestLogin_WithoutRememberSkipsUsername(t *testing.T) {
	svc, store, done := newTestService(t, upstreamStub())
	defer done()
	ctx := context.Background()

	require.NoError(t, svc.Login(ctx, "sess-1", "ada", "secret", false))

	sess, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated())
	assert.Empty(t, sess.Username)
}

func TestGenerateRoster(t *testing.T) {
	svc, store, done := newTestService(t, upstreamStub())
	defer done()
	ctx := context.Background()

	_, err := svc.GenerateRoster(ctx, "sess-1", 7, "mysql")
	assert.ErrorIs(t, err, ErrBadBackend)

	generated, err := svc.GenerateRoster(ctx, "sess-1", 7, roster.BackendSQL)
	require.NoError(t, err)
	assert.Equal(t, int64(5), generated.ID)

	sess, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), sess.SelectedRosterID, "new roster becomes the selection")
}

func TestRosterView_ModesAndNotFound(t *testing.T) {
	svc, _, done := newTestService(t, upstreamStub())
	defer done()
	ctx := context.Background()

	view, err := svc.RosterView(ctx, "sess-1", 5, "tabular")
	require.NoError(t, err)
	assert.IsType(t, []roster.TableRow{}, view)

	view, err = svc.RosterView(ctx, "sess-1", 5, "plane")
	require.NoError(t, err)
	assert.IsType(t, roster.PlaneView{}, view)

	view, err = svc.RosterView(ctx, "sess-1", 5, "extended")
	require.NoError(t, err)
	assert.IsType(t, roster.ExtendedView{}, view)

	_, err = svc.RosterView(ctx, "sess-1", 5, "fancy")
	require.Error(t, err)

	_, err = svc.RosterView(ctx, "sess-1", 42, "tabular")
	assert.ErrorIs(t, err, ErrRosterNotFound)
}

func TestExportRoster_Filename(t *testing.T) {
	svc, _, done := newTestService(t, upstreamStub())
	defer done()

	export, err := svc.ExportRoster(context.Background(), "sess-1", 5)
	require.NoError(t, err)
	assert.Contains(t, export.Filename, "roster-unknown-")
	assert.Equal(t, "sql", export.Doc.Backend)
}

func TestSeatMap_UsesSessionClassAndTakenSet(t *testing.T) {
	svc, _, done := newTestService(t, upstreamStub())
	defer done()
	ctx := context.Background()

	_, err := svc.SelectFlight(ctx, "sess-1", 7)
	require.NoError(t, err)

	layout, err := svc.SeatMap(ctx, "sess-1", 7, "")
	require.NoError(t, err)
	require.NotEmpty(t, layout.Rows)

	var taken, selectable int
	for _, row := range layout.Rows {
		for _, s := range row.Seats {
			if s.Taken {
				taken++
			}
			if s.Selectable {
				selectable++
			}
		}
	}
	assert.Equal(t, 2, taken)
	assert.Equal(t, 10, selectable, "12 seats minus 2 taken, all economy")
}
