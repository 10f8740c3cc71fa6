package models

import "time"

// CabinClass is the fare tier of a seat or ticket.
type CabinClass string

const (
	ClassEconomy  CabinClass = "Economy"
	ClassBusiness CabinClass = "Business"
	ClassFirst    CabinClass = "First"
)

// Valid reports whether c is one of the three known cabin classes.
func (c CabinClass) Valid() bool {
	return c == ClassEconomy || c == ClassBusiness || c == ClassFirst
}

// Airport as embedded in flight responses.
type Airport struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// PlaneType describes an aircraft model. SeatLayout maps a cabin-class key
// ("business", "economy", ...) to an ordered list of seat labels; older
// backend versions omit it, in which case a uniform grid is synthesized
// from TotalSeats.
type PlaneType struct {
	ID         int64               `json:"id"`
	Code       string              `json:"code"`
	Name       string              `json:"name"`
	TotalSeats int                 `json:"total_seats"`
	SeatLayout map[string][]string `json:"seat_layout,omitempty"`
}

// Flight is the canonical flight shape: nested airport objects and an
// embedded plane type. The flat origin/destination variant served by older
// backends is not modeled.
type Flight struct {
	ID            int64       `json:"id"`
	FlightNumber  string      `json:"flight_number"`
	Status        string      `json:"status"`
	OriginAirport *Airport    `json:"origin_airport,omitempty"`
	DestAirport   *Airport    `json:"destination_airport,omitempty"`
	DepartureTime time.Time   `json:"departure_time"`
	ArrivalTime   time.Time   `json:"arrival_time"`
	PlaneType     *PlaneType  `json:"plane_type,omitempty"`
	FlightStaff   []StaffStub `json:"flight_staff,omitempty"`
}

// StaffStub is the abbreviated staff entry embedded in flight detail.
type StaffStub struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	AssignedRole string `json:"assigned_role"`
}

// Passenger as created by the booking flow and echoed back with its id.
type Passenger struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PassportNumber string `json:"passport_number"`
	Nationality    string `json:"nationality"`
	DateOfBirth    string `json:"date_of_birth"`
	Age            int    `json:"age,omitempty"`
	Gender         string `json:"gender,omitempty"`
}

// Ticket links a passenger to a flight and seat.
type Ticket struct {
	ID           int64      `json:"id"`
	TicketNumber string     `json:"ticket_number"`
	Flight       *Flight    `json:"flight,omitempty"`
	Passenger    *Passenger `json:"passenger,omitempty"`
	SeatNumber   string     `json:"seat_number"`
	TicketClass  CabinClass `json:"ticket_class"`
	Price        string     `json:"price"`
	Status       string     `json:"status,omitempty"`
}

// CreatePassengerRequest is the POST passengers/ payload.
type CreatePassengerRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	PassportNumber string `json:"passport_number"`
	Nationality    string `json:"nationality"`
	DateOfBirth    string `json:"date_of_birth"`
}

// CreateTicketRequest is the POST tickets/ payload. Price is formatted to
// two decimals by the caller.
type CreateTicketRequest struct {
	TicketNumber string     `json:"ticket_number"`
	FlightID     int64      `json:"flight_id"`
	PassengerID  int64      `json:"passenger_id"`
	SeatNumber   string     `json:"seat_number"`
	TicketClass  CabinClass `json:"ticket_class"`
	Price        string     `json:"price"`
}

// CrewMember covers both pilots and cabin crew in roster assignments.
type CrewMember struct {
	ID             int64    `json:"id"`
	Code           string   `json:"code"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Age            int      `json:"age,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	Nationality    string   `json:"nationality,omitempty"`
	KnownLanguages []string `json:"known_languages,omitempty"`
	Role           string   `json:"role,omitempty"`
	Seniority      string   `json:"seniority,omitempty"`
	MaxRangeKM     int      `json:"max_range_km,omitempty"`
}

// CrewAssignment is one crew slot in a roster. Exactly one of Pilot or
// CabinCrew is set, according to CrewType ("pilot" or "cabin").
type CrewAssignment struct {
	ID           int64       `json:"id"`
	CrewType     string      `json:"crew_type"`
	Pilot        *CrewMember `json:"pilot,omitempty"`
	CabinCrew    *CrewMember `json:"cabin_crew,omitempty"`
	AssignedRole string      `json:"assigned_role"`
}

// PassengerAssignment is one passenger seat slot in a roster.
type PassengerAssignment struct {
	ID         int64      `json:"id"`
	Passenger  *Passenger `json:"passenger,omitempty"`
	SeatNumber string     `json:"seat_number"`
	SeatType   string     `json:"seat_type,omitempty"`
	IsInfant   bool       `json:"is_infant,omitempty"`
}

// Roster is a generated crew+passenger assignment for one flight.
type Roster struct {
	ID                   int64                 `json:"id"`
	Flight               *Flight               `json:"flight,omitempty"`
	Backend              string                `json:"backend"`
	CreatedAt            time.Time             `json:"created_at"`
	CrewAssignments      []CrewAssignment      `json:"crew_assignments"`
	PassengerAssignments []PassengerAssignment `json:"passenger_assignments"`
}

// TokenPair is returned by POST token/ and POST register/.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Profile is the GET auth/me/ response.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	IsStaff  bool   `json:"is_staff,omitempty"`
}

// LoginRequest is the credentials payload for POST token/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for POST register/.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// GenerateRosterRequest is the payload for POST rosters/generate/.
type GenerateRosterRequest struct {
	FlightID int64  `json:"flight_id"`
	Backend  string `json:"backend"`
}
