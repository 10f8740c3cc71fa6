// Package booking holds the two-step booking flow state machine: passenger
// details first, then seat and class selection. The state is a plain value
// so it can round-trip through the session store as JSON.
package booking

import (
	"errors"
	"strings"

	"github.com/skywardair/bookingdesk/internal/models"
	"github.com/skywardair/bookingdesk/internal/pricing"
)

// Step identifies the flow position.
type Step int

const (
	StepPassengerInfo Step = 1
	StepSeatSelection Step = 2
)

var (
	ErrNoFlight       = errors.New("Choose a flight")
	ErrSeatTaken      = errors.New("Seat is already taken")
	ErrSeatClass      = errors.New("Seat does not match the chosen class")
	ErrWrongStep      = errors.New("Seat selection is not open yet")
	errFirstNameReq   = errors.New("First name required")
	errLastNameReq    = errors.New("Last name required")
	errEmailReq       = errors.New("Email required")
	errPhoneReq       = errors.New("Phone number required")
	errPassportReq    = errors.New("Passport number required")
	errNationalityReq = errors.New("Nationality required")
)

// Form carries the passenger-facing fields of the booking form.
type Form struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PassportNumber string `json:"passport_number"`
	Nationality    string `json:"nationality"`
	DateOfBirth    string `json:"date_of_birth"`
}

// State is the per-session booking flow state.
type State struct {
	Step        Step              `json:"step"`
	FlightID    int64             `json:"flight_id"`
	Form        Form              `json:"form"`
	TicketClass models.CabinClass `json:"ticket_class"`
	SeatNumber  string            `json:"seat_number"`
	Promo       pricing.Promo     `json:"promo"`
	TakenSeats  []string          `json:"taken_seats"`
}

// New returns the initial flow state: step one, economy, default DOB as the
// form has always prefilled it.
func New() State {
	return State{
		Step:        StepPassengerInfo,
		TicketClass: models.ClassEconomy,
		Form:        Form{DateOfBirth: "1990-01-01"},
	}
}

// SelectFlight switches the flow to a flight. Picking a different flight
// resets class to economy, returns to step one, and installs the freshly
// fetched taken-seat set (empty on best-effort failure).
func (s *State) SelectFlight(flightID int64, takenSeats []string) {
	form, promo := s.Form, s.Promo
	*s = New()
	s.Form = form
	s.Promo = promo
	s.FlightID = flightID
	s.TakenSeats = takenSeats
}

// Cancel clears the chosen flight and returns to flight selection.
func (s *State) Cancel() {
	form, promo := s.Form, s.Promo
	*s = New()
	s.Form = form
	s.Promo = promo
}

// Validate checks the required passenger fields, short-circuiting on the
// first failure so only one message ever reaches the user.
func (s *State) Validate() error {
	if s.FlightID == 0 {
		return ErrNoFlight
	}
	checks := []struct {
		value string
		err   error
	}{
		{s.Form.FirstName, errFirstNameReq},
		{s.Form.LastName, errLastNameReq},
		{s.Form.Email, errEmailReq},
		{s.Form.Phone, errPhoneReq},
		{s.Form.PassportNumber, errPassportReq},
		{s.Form.Nationality, errNationalityReq},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return c.err
		}
	}
	return nil
}

// Next gates the transition to seat selection on validation.
func (s *State) Next() error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.Step = StepSeatSelection
	return nil
}

// Back returns to passenger info unconditionally.
func (s *State) Back() {
	s.Step = StepPassengerInfo
}

// SetClass changes the cabin class and drops a seat that no longer matches.
func (s *State) SetClass(class models.CabinClass) {
	s.TicketClass = class
	if s.SeatNumber != "" {
		// The selected seat may belong to another cabin now; clearing it
		// forces an explicit re-pick.
		s.SeatNumber = ""
	}
}

// SetSeat selects a seat label. The seat must not be taken and, when the
// layout knows its class, must match the currently chosen class.
func (s *State) SetSeat(label string, class models.CabinClass) error {
	if s.Step != StepSeatSelection {
		return ErrWrongStep
	}
	for _, t := range s.TakenSeats {
		if t == label {
			return ErrSeatTaken
		}
	}
	if class != "" && class != s.TicketClass {
		return ErrSeatClass
	}
	s.SeatNumber = label
	return nil
}

// ApplyPromo resolves the promo code into discount state.
func (s *State) ApplyPromo(code string) error {
	promo, err := pricing.ResolvePromo(code)
	if err != nil {
		return err
	}
	s.Promo = promo
	return nil
}

// EstimatedFare is recomputed from scratch on every call; flow state never
// caches a price.
func (s *State) EstimatedFare() float64 {
	if s.FlightID == 0 {
		return 0
	}
	return pricing.EstimatedFare(s.FlightID, s.TicketClass, s.Promo)
}

// TakenSet exposes the taken seats as a lookup set for seat-map annotation.
func (s *State) TakenSet() map[string]bool {
	set := make(map[string]bool, len(s.TakenSeats))
	for _, label := range s.TakenSeats {
		set[label] = true
	}
	return set
}
