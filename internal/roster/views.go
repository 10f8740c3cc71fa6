// Package roster renders a generated crew/passenger roster through three
// independent projections: a flat table, a seat-map plane view, and an
// extended detail view. All three are pure functions over one roster value.
package roster

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/skywardair/bookingdesk/internal/models"
	"github.com/skywardair/bookingdesk/internal/seatmap"
)

const (
	// economyRowDisplayCap bounds the plane view to the first 20 distinct
	// economy row numbers.
	economyRowDisplayCap = 20

	missing = "N/A"
)

// Backends accepted by roster generation.
const (
	BackendSQL   = "sql"
	BackendNoSQL = "nosql"
)

// ValidBackend reports whether the generation backend tag is recognized.
func ValidBackend(backend string) bool {
	return backend == BackendSQL || backend == BackendNoSQL
}

// TableRow is one line of the tabular projection.
type TableRow struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	RoleOrSeat string `json:"role_or_seat"`
}

// Tabular flattens pilots, cabin crew and passengers into one list, crew
// before passengers, preserving original assignment order within each group.
func Tabular(r *models.Roster) []TableRow {
	rows := make([]TableRow, 0, len(r.CrewAssignments)+len(r.PassengerAssignments))

	for _, c := range r.CrewAssignments {
		if c.CrewType != "pilot" {
			continue
		}
		rows = append(rows, TableRow{
			Type:       "Flight Crew",
			Name:       crewName(c.Pilot),
			Code:       crewCode(c.Pilot),
			RoleOrSeat: orDefault(c.AssignedRole, "Pilot"),
		})
	}
	for _, c := range r.CrewAssignments {
		if c.CrewType != "cabin" {
			continue
		}
		rows = append(rows, TableRow{
			Type:       "Cabin Crew",
			Name:       crewName(c.CabinCrew),
			Code:       crewCode(c.CabinCrew),
			RoleOrSeat: orDefault(c.AssignedRole, "Cabin Crew"),
		})
	}
	for _, p := range r.PassengerAssignments {
		rows = append(rows, TableRow{
			Type:       "Passenger",
			Name:       passengerName(p.Passenger),
			Code:       passengerCode(p.Passenger),
			RoleOrSeat: orDefault(p.SeatNumber, "No seat"),
		})
	}
	return rows
}

// Occupant is the person shown in a plane-view seat or crew position.
type Occupant struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Code string `json:"code"`
	Role string `json:"role,omitempty"`
	Seat string `json:"seat,omitempty"`
}

// PlaneSeat is one rendered seat of the plane view.
type PlaneSeat struct {
	Label    string    `json:"label"`
	Occupant *Occupant `json:"occupant,omitempty"`
}

// PlaneRow is one rendered cabin row, split into left/right banks around
// the detected aisle.
type PlaneRow struct {
	Number int         `json:"number"`
	Left   []PlaneSeat `json:"left"`
	Right  []PlaneSeat `json:"right"`
}

// Position is a synthetic crew position (P1, P2, ... / CC1, CC2, ...).
type Position struct {
	Label    string   `json:"label"`
	Occupant Occupant `json:"occupant"`
}

// PlaneView is the seat-map projection of a roster.
type PlaneView struct {
	PlaneName      string     `json:"plane_name"`
	PlaneCode      string     `json:"plane_code"`
	TotalSeats     int        `json:"total_seats"`
	PilotPositions []Position `json:"pilot_positions"`
	CabinPositions []Position `json:"cabin_positions"`
	BusinessRows   []PlaneRow `json:"business_rows"`
	EconomyRows    []PlaneRow `json:"economy_rows"`
}

// Plane places crew into synthetic positions and passengers into their real
// seats. Business rows render before economy rows; economy is capped to the
// first distinct row numbers for display.
func Plane(r *models.Roster) PlaneView {
	view := PlaneView{}
	var pt *models.PlaneType
	if r.Flight != nil {
		pt = r.Flight.PlaneType
	}
	if pt != nil {
		view.PlaneName = pt.Name
		view.PlaneCode = pt.Code
		view.TotalSeats = pt.TotalSeats
	}

	occupants := make(map[string]*Occupant, len(r.PassengerAssignments))
	for _, p := range r.PassengerAssignments {
		if p.SeatNumber == "" {
			continue
		}
		occupants[p.SeatNumber] = &Occupant{
			Type: "passenger",
			Name: passengerName(p.Passenger),
			Code: passengerCode(p.Passenger),
			Seat: p.SeatNumber,
		}
	}

	pilotN, cabinN := 0, 0
	for _, c := range r.CrewAssignments {
		if c.CrewType == "pilot" {
			pilotN++
			view.PilotPositions = append(view.PilotPositions, Position{
				Label:    fmt.Sprintf("P%d", pilotN),
				Occupant: Occupant{Type: "pilot", Name: crewName(c.Pilot), Code: crewCode(c.Pilot), Role: c.AssignedRole},
			})
		} else {
			cabinN++
			view.CabinPositions = append(view.CabinPositions, Position{
				Label:    fmt.Sprintf("CC%d", cabinN),
				Occupant: Occupant{Type: "cabin", Name: crewName(c.CabinCrew), Code: crewCode(c.CabinCrew), Role: c.AssignedRole},
			})
		}
	}

	var layout map[string][]string
	if pt != nil {
		layout = pt.SeatLayout
	}
	view.BusinessRows = buildRows(layout["business"], occupants, 0)
	view.EconomyRows = buildRows(layout["economy"], occupants, economyRowDisplayCap)
	return view
}

// buildRows groups labels into rows, orders them, splits banks with the
// shared gap rule, and attaches occupants. rowCap > 0 keeps only the first
// rowCap distinct row numbers.
func buildRows(labels []string, occupants map[string]*Occupant, rowCap int) []PlaneRow {
	if len(labels) == 0 {
		return nil
	}
	seats := make([]seatmap.Seat, 0, len(labels))
	for _, label := range labels {
		row, col, _ := seatmap.ParseLabel(label)
		seats = append(seats, seatmap.Seat{Label: label, Row: row, Column: col})
	}

	byRow := make(map[int][]seatmap.Seat)
	for _, s := range seats {
		byRow[s.Row] = append(byRow[s.Row], s)
	}
	numbers := make([]int, 0, len(byRow))
	for n := range byRow {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	if rowCap > 0 && len(numbers) > rowCap {
		numbers = numbers[:rowCap]
	}

	rows := make([]PlaneRow, 0, len(numbers))
	for _, n := range numbers {
		rowSeats := byRow[n]
		sort.SliceStable(rowSeats, func(i, j int) bool { return rowSeats[i].Column < rowSeats[j].Column })
		left, right := seatmap.SplitBanks(rowSeats)
		rows = append(rows, PlaneRow{Number: n, Left: toPlaneSeats(left, occupants), Right: toPlaneSeats(right, occupants)})
	}
	return rows
}

func toPlaneSeats(seats []seatmap.Seat, occupants map[string]*Occupant) []PlaneSeat {
	out := make([]PlaneSeat, len(seats))
	for i, s := range seats {
		out[i] = PlaneSeat{Label: s.Label, Occupant: occupants[s.Label]}
	}
	return out
}

// PilotDetail is one flight-crew line of the extended projection.
type PilotDetail struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Seniority   string `json:"seniority"`
	Nationality string `json:"nationality"`
	Languages   string `json:"languages"`
	MaxRange    string `json:"max_range"`
}

// CabinDetail is one cabin-crew line of the extended projection.
type CabinDetail struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Seniority   string `json:"seniority"`
	Nationality string `json:"nationality"`
	Languages   string `json:"languages"`
}

// PassengerDetail is one passenger line of the extended projection.
type PassengerDetail struct {
	Name        string `json:"name"`
	Seat        string `json:"seat"`
	Class       string `json:"class"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Passport    string `json:"passport"`
	Nationality string `json:"nationality"`
	Age         string `json:"age"`
}

// ExtendedView groups full demographic/contact/document detail into three
// tables. Every missing field renders as the literal "N/A".
type ExtendedView struct {
	FlightCrew []PilotDetail     `json:"flight_crew"`
	CabinCrew  []CabinDetail     `json:"cabin_crew"`
	Passengers []PassengerDetail `json:"passengers"`
}

// Extended builds the detail projection.
func Extended(r *models.Roster) ExtendedView {
	view := ExtendedView{}
	for _, c := range r.CrewAssignments {
		switch c.CrewType {
		case "pilot":
			d := PilotDetail{Code: missing, Name: missing, Seniority: orDefault(c.AssignedRole, missing), Nationality: missing, Languages: missing, MaxRange: missing}
			if p := c.Pilot; p != nil {
				d.Code = orDefault(p.Code, missing)
				d.Name = orDefault(strings.TrimSpace(p.FirstName+" "+p.LastName), missing)
				d.Seniority = orDefault(p.Seniority, orDefault(c.AssignedRole, missing))
				d.Nationality = orDefault(p.Nationality, missing)
				d.Languages = orDefault(strings.Join(p.KnownLanguages, ", "), missing)
				if p.MaxRangeKM > 0 {
					d.MaxRange = fmt.Sprintf("%d km", p.MaxRangeKM)
				}
			}
			view.FlightCrew = append(view.FlightCrew, d)
		case "cabin":
			d := CabinDetail{Code: missing, Name: missing, Role: orDefault(c.AssignedRole, missing), Seniority: missing, Nationality: missing, Languages: missing}
			if cc := c.CabinCrew; cc != nil {
				d.Code = orDefault(cc.Code, missing)
				d.Name = orDefault(strings.TrimSpace(cc.FirstName+" "+cc.LastName), missing)
				d.Role = orDefault(cc.Role, orDefault(c.AssignedRole, missing))
				d.Seniority = orDefault(cc.Seniority, missing)
				d.Nationality = orDefault(cc.Nationality, missing)
				d.Languages = orDefault(strings.Join(cc.KnownLanguages, ", "), missing)
			}
			view.CabinCrew = append(view.CabinCrew, d)
		}
	}
	for _, pa := range r.PassengerAssignments {
		d := PassengerDetail{
			Name:        missing,
			Seat:        orDefault(pa.SeatNumber, missing),
			Class:       orDefault(pa.SeatType, "economy"),
			Email:       missing,
			Phone:       missing,
			Passport:    missing,
			Nationality: missing,
			Age:         missing,
		}
		if p := pa.Passenger; p != nil {
			d.Name = orDefault(strings.TrimSpace(p.FirstName+" "+p.LastName), missing)
			d.Email = orDefault(p.Email, missing)
			d.Phone = orDefault(p.Phone, missing)
			d.Passport = orDefault(p.PassportNumber, missing)
			d.Nationality = orDefault(p.Nationality, missing)
			if p.Age > 0 {
				d.Age = fmt.Sprintf("%d", p.Age)
			}
		}
		view.Passengers = append(view.Passengers, d)
	}
	return view
}

// ExportDoc is the downloadable roster document. Serialization is a pure
// transformation of the roster; no network call is involved.
type ExportDoc struct {
	Flight     ExportFlight      `json:"flight"`
	Backend    string            `json:"backend"`
	CreatedAt  time.Time         `json:"created_at"`
	Crew       []ExportCrew      `json:"crew"`
	Passengers []ExportPassenger `json:"passengers"`
}

type ExportFlight struct {
	FlightNumber string    `json:"flight_number"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	Departure    time.Time `json:"departure"`
	Arrival      time.Time `json:"arrival"`
}

type ExportCrew struct {
	Type string `json:"type"`
	Code string `json:"code"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type ExportPassenger struct {
	Name     string `json:"name"`
	Seat     string `json:"seat"`
	SeatType string `json:"seat_type"`
	Email    string `json:"email"`
	Passport string `json:"passport"`
}

// Export builds the JSON export document for a roster.
func Export(r *models.Roster) ExportDoc {
	doc := ExportDoc{Backend: r.Backend, CreatedAt: r.CreatedAt}
	if f := r.Flight; f != nil {
		doc.Flight.FlightNumber = f.FlightNumber
		doc.Flight.Departure = f.DepartureTime
		doc.Flight.Arrival = f.ArrivalTime
		if f.OriginAirport != nil {
			doc.Flight.Origin = f.OriginAirport.Code
		}
		if f.DestAirport != nil {
			doc.Flight.Destination = f.DestAirport.Code
		}
	}
	for _, c := range r.CrewAssignments {
		member := c.Pilot
		if c.CrewType != "pilot" {
			member = c.CabinCrew
		}
		doc.Crew = append(doc.Crew, ExportCrew{
			Type: c.CrewType,
			Code: crewCode(member),
			Name: crewName(member),
			Role: c.AssignedRole,
		})
	}
	for _, p := range r.PassengerAssignments {
		doc.Passengers = append(doc.Passengers, ExportPassenger{
			Name:     passengerName(p.Passenger),
			Seat:     p.SeatNumber,
			SeatType: p.SeatType,
			Email:    passengerField(p.Passenger, func(px *models.Passenger) string { return px.Email }),
			Passport: passengerField(p.Passenger, func(px *models.Passenger) string { return px.PassportNumber }),
		})
	}
	return doc
}

// ExportFilename names the downloaded artifact:
// roster-<flight_number>-<ISO date>.json.
func ExportFilename(r *models.Roster, now time.Time) string {
	number := "unknown"
	if r.Flight != nil && r.Flight.FlightNumber != "" {
		number = r.Flight.FlightNumber
	}
	return fmt.Sprintf("roster-%s-%s.json", number, now.UTC().Format("2006-01-02"))
}

func crewName(m *models.CrewMember) string {
	if m == nil {
		return missing
	}
	name := strings.TrimSpace(m.FirstName + " " + m.LastName)
	return orDefault(name, missing)
}

func crewCode(m *models.CrewMember) string {
	if m == nil {
		return missing
	}
	if m.Code != "" {
		return m.Code
	}
	if m.ID != 0 {
		return fmt.Sprintf("%d", m.ID)
	}
	return missing
}

func passengerName(p *models.Passenger) string {
	if p == nil {
		return missing
	}
	return orDefault(strings.TrimSpace(p.FirstName+" "+p.LastName), missing)
}

func passengerCode(p *models.Passenger) string {
	if p == nil {
		return missing
	}
	if p.ID != 0 {
		return fmt.Sprintf("%d", p.ID)
	}
	return orDefault(p.PassportNumber, missing)
}

func passengerField(p *models.Passenger, pick func(*models.Passenger) string) string {
	if p == nil {
		return ""
	}
	return pick(p)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
