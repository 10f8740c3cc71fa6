package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skywardair/bookingdesk/internal/booking"
	"github.com/skywardair/bookingdesk/internal/config"
	"github.com/skywardair/bookingdesk/internal/models"
	"github.com/skywardair/bookingdesk/internal/pricing"
	"github.com/skywardair/bookingdesk/internal/roster"
	"github.com/skywardair/bookingdesk/internal/seatmap"
	"github.com/skywardair/bookingdesk/internal/session"
	"github.com/skywardair/bookingdesk/internal/upstream"
	"github.com/skywardair/bookingdesk/internal/websocket"
	"github.com/skywardair/bookingdesk/internal/workflows"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
)

var (
	ErrRosterNotFound = errors.New("roster not found")
	ErrBadBackend     = errors.New("backend must be sql or nosql")
	ErrNoCredentials  = errors.New("Please provide username and password.")
)

// BookingView is the flow state as shown to the user: current step, form,
// selection, and the always-recomputed fare.
type BookingView struct {
	Step          booking.Step      `json:"step"`
	FlightID      int64             `json:"flight_id,omitempty"`
	Form          booking.Form      `json:"form"`
	TicketClass   models.CabinClass `json:"ticket_class"`
	SeatNumber    string            `json:"seat_number,omitempty"`
	Promo         pricing.Promo     `json:"promo"`
	EstimatedFare float64           `json:"estimated_fare"`
	ConfirmLabel  string            `json:"confirm_label"`
	TakenSeats    []string          `json:"taken_seats"`
}

// RosterExport pairs the export document with its download filename.
type RosterExport struct {
	Filename string
	Doc      roster.ExportDoc
}

// Service is the BFF's application surface, one method per user-visible
// operation.
type Service interface {
	ListFlights(ctx context.Context, sessionID, search string) ([]models.Flight, error)
	GetFlight(ctx context.Context, sessionID string, flightID int64) (*models.Flight, error)
	SeatMap(ctx context.Context, sessionID string, flightID int64, classOverride models.CabinClass) (seatmap.Layout, error)
	ListTickets(ctx context.Context, sessionID string) ([]models.Ticket, error)

	BookingState(ctx context.Context, sessionID string) (*BookingView, error)
	SelectFlight(ctx context.Context, sessionID string, flightID int64) (*BookingView, error)
	UpdatePassenger(ctx context.Context, sessionID string, form booking.Form) (*BookingView, error)
	NextStep(ctx context.Context, sessionID string) (*BookingView, error)
	PrevStep(ctx context.Context, sessionID string) (*BookingView, error)
	SetSeat(ctx context.Context, sessionID, seat string) (*BookingView, error)
	SetClass(ctx context.Context, sessionID string, class models.CabinClass) (*BookingView, error)
	ApplyPromo(ctx context.Context, sessionID, code string) (*BookingView, error)
	Submit(ctx context.Context, sessionID string) (*models.Ticket, error)
	CancelBooking(ctx context.Context, sessionID string) (*BookingView, error)

	ListRosters(ctx context.Context, sessionID string) ([]models.Roster, error)
	GenerateRoster(ctx context.Context, sessionID string, flightID int64, backend string) (*models.Roster, error)
	RosterView(ctx context.Context, sessionID string, rosterID int64, mode string) (interface{}, error)
	ExportRoster(ctx context.Context, sessionID string, rosterID int64) (*RosterExport, error)

	Login(ctx context.Context, sessionID, username, password string, remember bool) error
	Register(ctx context.Context, sessionID string, req models.RegisterRequest) error
	Logout(ctx context.Context, sessionID string) error
	Me(ctx context.Context, sessionID string) (*models.Profile, error)
}

type serviceImpl struct {
	api      *upstream.Client
	sessions session.Store
	hub      *websocket.Hub
	temporal client.Client
	cfg      *config.Config
}

// New wires the service.
func New(api *upstream.Client, sessions session.Store, hub *websocket.Hub, temporalClient client.Client, cfg *config.Config) Service {
	return &serviceImpl{
		api:      api,
		sessions: sessions,
		hub:      hub,
		temporal: temporalClient,
		cfg:      cfg,
	}
}

func (s *serviceImpl) load(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err == session.ErrNotFound {
		return session.NewSession(sessionID), nil
	}
	return sess, err
}

func (s *serviceImpl) view(sess *session.Session) *BookingView {
	st := &sess.Booking
	fare := st.EstimatedFare()
	taken := st.TakenSeats
	if taken == nil {
		taken = []string{}
	}
	return &BookingView{
		Step:          st.Step,
		FlightID:      st.FlightID,
		Form:          st.Form,
		TicketClass:   st.TicketClass,
		SeatNumber:    st.SeatNumber,
		Promo:         st.Promo,
		EstimatedFare: fare,
		ConfirmLabel:  pricing.ConfirmLabel(fare),
		TakenSeats:    taken,
	}
}

// ListFlights fetches the flight page and filters it locally: flight
// number, airport codes and cities, case-insensitive substring match.
func (s *serviceImpl) ListFlights(ctx context.Context, sessionID, search string) ([]models.Flight, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	flights, err := s.api.ListFlights(ctx, sess.AccessToken, s.cfg.Upstream.FlightPageSize)
	if err != nil {
		return nil, err
	}
	return filterFlights(flights, search), nil
}

func filterFlights(flights []models.Flight, search string) []models.Flight {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return flights
	}
	out := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		if flightMatches(&f, term) {
			out = append(out, f)
		}
	}
	return out
}

func flightMatches(f *models.Flight, term string) bool {
	fields := []string{f.FlightNumber}
	if f.OriginAirport != nil {
		fields = append(fields, f.OriginAirport.Code, f.OriginAirport.City)
	}
	if f.DestAirport != nil {
		fields = append(fields, f.DestAirport.Code, f.DestAirport.City)
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (s *serviceImpl) GetFlight(ctx context.Context, sessionID string, flightID int64) (*models.Flight, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.api.GetFlight(ctx, sess.AccessToken, flightID)
}

// SeatMap builds the annotated layout for a flight. When the flight is the
// one currently being booked, the session's taken set and chosen class
// apply; otherwise occupancy is fetched fresh and economy is assumed. A
// valid classOverride wins in either case.
func (s *serviceImpl) SeatMap(ctx context.Context, sessionID string, flightID int64, classOverride models.CabinClass) (seatmap.Layout, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return seatmap.Layout{}, err
	}
	flight, err := s.api.GetFlight(ctx, sess.AccessToken, flightID)
	if err != nil {
		return seatmap.Layout{}, err
	}

	chosen := models.ClassEconomy
	var taken map[string]bool
	if sess.Booking.FlightID == flightID {
		chosen = sess.Booking.TicketClass
		taken = sess.Booking.TakenSet()
	} else {
		labels := s.api.TakenSeats(ctx, sess.AccessToken, flightID, s.cfg.Upstream.TakenSeatsLimit)
		taken = make(map[string]bool, len(labels))
		for _, l := range labels {
			taken[l] = true
		}
	}
	if classOverride.Valid() {
		chosen = classOverride
	}

	layout := seatmap.Build(flight.PlaneType)
	return seatmap.Annotate(layout, taken, chosen), nil
}

func (s *serviceImpl) ListTickets(ctx context.Context, sessionID string) ([]models.Ticket, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.api.ListTickets(ctx, sess.AccessToken, s.cfg.Upstream.TicketPageSize)
}

func (s *serviceImpl) BookingState(ctx context.Context, sessionID string) (*BookingView, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *serviceImpl) SelectFlight(ctx context.Context, sessionID string, flightID int64) (*BookingView, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// Confirm the flight exists before committing the flow to it.
	if _, err := s.api.GetFlight(ctx, sess.AccessToken, flightID); err != nil {
		return nil, err
	}
	taken := s.api.TakenSeats(ctx, sess.AccessToken, flightID, s.cfg.Upstream.TakenSeatsLimit)
	sess.Booking.SelectFlight(flightID, taken)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *serviceImpl) UpdatePassenger(ctx context.Context, sessionID string, form booking.Form) (*BookingView, error) {
	return s.mutate(ctx, sessionID, func(st *booking.State) error {
		if form.DateOfBirth == "" {
			form.DateOfBirth = st.Form.DateOfBirth
		}
		st.Form = form
		return nil
	})
}

func (s *serviceImpl) NextStep(ctx context.Context, sessionID string) (*BookingView, error) {
	return s.mutate(ctx, sessionID, func(st *booking.State) error {
		return st.Next()
	})
}

func (s *serviceImpl) PrevStep(ctx context.Context, sessionID string) (*BookingView, error) {
	return s.mutate(ctx, sessionID, func(st *booking.State) error {
		st.Back()
		return nil
	})
}

func (s *serviceImpl) SetSeat(ctx context.Context, sessionID, seat string) (*BookingView, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// Resolve the seat's cabin class from the plane layout so a business
	// seat cannot be attached to an economy ticket.
	var seatClass models.CabinClass
	if sess.Booking.FlightID != 0 {
		if flight, err := s.api.GetFlight(ctx, sess.AccessToken, sess.Booking.FlightID); err == nil {
			layout := seatmap.Build(flight.PlaneType)
			for _, row := range layout.Rows {
				for _, sm := range row.Seats {
					if sm.Label == seat {
						seatClass = sm.Class
					}
				}
			}
		}
	}
	if err := sess.Booking.SetSeat(seat, seatClass); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *serviceImpl) SetClass(ctx context.Context, sessionID string, class models.CabinClass) (*BookingView, error) {
	return s.mutate(ctx, sessionID, func(st *booking.State) error {
		if !class.Valid() {
			return fmt.Errorf("unknown ticket class: %s", class)
		}
		st.SetClass(class)
		return nil
	})
}

func (s *serviceImpl) ApplyPromo(ctx context.Context, sessionID, code string) (*BookingView, error) {
	return s.mutate(ctx, sessionID, func(st *booking.State) error {
		return st.ApplyPromo(code)
	})
}

func (s *serviceImpl) CancelBooking(ctx context.Context, sessionID string) (*BookingView, error) {
	return s.mutate(ctx, sessionID, func(st *booking.State) error {
		st.Cancel()
		return nil
	})
}

func (s *serviceImpl) mutate(ctx context.Context, sessionID string, fn func(*booking.State) error) (*BookingView, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(&sess.Booking); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// Submit re-validates the whole form, then hands the two-write purchase to
// the workflow and waits for its result. On success the flow resets.
func (s *serviceImpl) Submit(ctx context.Context, sessionID string) (*models.Ticket, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st := &sess.Booking
	if err := st.Validate(); err != nil {
		return nil, err
	}

	seat := st.SeatNumber
	if seat == "" {
		seat = "AUTO"
	}
	fare := st.EstimatedFare()

	input := workflows.PurchaseInput{
		Token: sess.AccessToken,
		Passenger: models.CreatePassengerRequest{
			FirstName:      st.Form.FirstName,
			LastName:       st.Form.LastName,
			Email:          st.Form.Email,
			Phone:          st.Form.Phone,
			PassportNumber: st.Form.PassportNumber,
			Nationality:    st.Form.Nationality,
			DateOfBirth:    st.Form.DateOfBirth,
		},
		Ticket: models.CreateTicketRequest{
			TicketNumber: fmt.Sprintf("AUTO-%d", time.Now().UnixMilli()),
			FlightID:     st.FlightID,
			SeatNumber:   seat,
			TicketClass:  st.TicketClass,
			Price:        pricing.FormatAmount(fare),
		},
	}

	options := client.StartWorkflowOptions{
		ID:        "purchase-" + uuid.New().String()[:8],
		TaskQueue: s.cfg.Temporal.TaskQueue,
	}
	run, err := s.temporal.ExecuteWorkflow(ctx, options, "TicketPurchaseWorkflow", input)
	if err != nil {
		return nil, fmt.Errorf("failed to start purchase workflow: %w", err)
	}

	var result workflows.PurchaseResult
	if err := run.Get(ctx, &result); err != nil {
		// The activity error carries the upstream response body; strip the
		// workflow/activity wrapping so the user sees that message alone.
		var appErr *temporal.ApplicationError
		if errors.As(err, &appErr) {
			return nil, errors.New(appErr.Message())
		}
		return nil, err
	}

	sess.Booking.Cancel()
	if err := s.sessions.Save(ctx, sess); err != nil {
		logrus.WithError(err).Warn("failed to reset booking flow after purchase")
	}
	return result.Ticket, nil
}

func (s *serviceImpl) ListRosters(ctx context.Context, sessionID string) ([]models.Roster, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.api.ListRosters(ctx, sess.AccessToken, s.cfg.Upstream.RosterPageSize)
}

func (s *serviceImpl) GenerateRoster(ctx context.Context, sessionID string, flightID int64, backend string) (*models.Roster, error) {
	if !roster.ValidBackend(backend) {
		return nil, ErrBadBackend
	}
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	generated, err := s.api.GenerateRoster(ctx, sess.AccessToken, models.GenerateRosterRequest{
		FlightID: flightID,
		Backend:  backend,
	})
	if err != nil {
		return nil, err
	}
	// The new roster becomes the console's selection.
	sess.SelectedRosterID = generated.ID
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return generated, nil
}

func (s *serviceImpl) findRoster(ctx context.Context, sess *session.Session, rosterID int64) (*models.Roster, error) {
	rosters, err := s.api.ListRosters(ctx, sess.AccessToken, s.cfg.Upstream.RosterPageSize)
	if err != nil {
		return nil, err
	}
	for i := range rosters {
		if rosters[i].ID == rosterID {
			return &rosters[i], nil
		}
	}
	return nil, ErrRosterNotFound
}

// RosterView renders one of the three projections. The projections share
// no state; each is recomputed from the roster on every call.
func (s *serviceImpl) RosterView(ctx context.Context, sessionID string, rosterID int64, mode string) (interface{}, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	r, err := s.findRoster(ctx, sess, rosterID)
	if err != nil {
		return nil, err
	}
	switch mode {
	case "tabular":
		return roster.Tabular(r), nil
	case "plane":
		return roster.Plane(r), nil
	case "extended":
		return roster.Extended(r), nil
	default:
		return nil, fmt.Errorf("unknown roster view: %s", mode)
	}
}

func (s *serviceImpl) ExportRoster(ctx context.Context, sessionID string, rosterID int64) (*RosterExport, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	r, err := s.findRoster(ctx, sess, rosterID)
	if err != nil {
		return nil, err
	}
	return &RosterExport{
		Filename: roster.ExportFilename(r, time.Now()),
		Doc:      roster.Export(r),
	}, nil
}

// Login exchanges credentials, persists the token pair, and remembers the
// username only when asked to. All connected tabs are notified.
func (s *serviceImpl) Login(ctx context.Context, sessionID, username, password string, remember bool) error {
	if username == "" || password == "" {
		return ErrNoCredentials
	}
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	pair, err := s.api.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	sess.AccessToken = pair.Access
	sess.RefreshToken = pair.Refresh
	if remember {
		sess.Username = username
	} else {
		sess.Username = ""
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return err
	}
	s.hub.BroadcastAuthChange(sessionID, websocket.EventLogin, username)
	return nil
}

// Register creates the account and persists tokens and username
// unconditionally.
func (s *serviceImpl) Register(ctx context.Context, sessionID string, req models.RegisterRequest) error {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	pair, err := s.api.Register(ctx, req)
	if err != nil {
		return err
	}
	sess.AccessToken = pair.Access
	sess.RefreshToken = pair.Refresh
	sess.Username = req.Username
	if err := s.sessions.Save(ctx, sess); err != nil {
		return err
	}
	s.hub.BroadcastAuthChange(sessionID, websocket.EventRegister, req.Username)
	return nil
}

// Logout clears all three auth slots and notifies the session's tabs so
// they re-render the logged-out state without a reload.
func (s *serviceImpl) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.ClearAuth()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return err
	}
	s.hub.BroadcastAuthChange(sessionID, websocket.EventLogout, "")
	return nil
}

// Me is a best-effort profile read; a nil profile means "not logged in".
func (s *serviceImpl) Me(ctx context.Context, sessionID string) (*models.Profile, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, nil
	}
	return s.api.Me(ctx, sess.AccessToken), nil
}
