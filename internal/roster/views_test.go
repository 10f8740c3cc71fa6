package roster

import (
	"fmt"
	"testing"
	"time"

	"github.com/skywardair/bookingdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRoster() *models.Roster {
	return &models.Roster{
		ID:      5,
		Backend: BackendSQL,
		Flight: &models.Flight{
			ID:           7,
			FlightNumber: "SW123",
			PlaneType: &models.PlaneType{
				Name:       "A320",
				Code:       "A320",
				TotalSeats: 10,
				SeatLayout: map[string][]string{
					"business": {"1A", "1B", "1E", "1F"},
					"economy":  {"2A", "2B", "2C", "3A", "3B", "3C"},
				},
			},
		},
		CrewAssignments: []models.CrewAssignment{
			{CrewType: "cabin", CabinCrew: &models.CrewMember{Code: "CC-9", FirstName: "Mina", LastName: "Park", Role: "chief"}, AssignedRole: "chief"},
			{CrewType: "pilot", Pilot: &models.CrewMember{Code: "PL-1", FirstName: "Jo", LastName: "Mars", Seniority: "captain"}, AssignedRole: "captain"},
			{CrewType: "pilot", Pilot: &models.CrewMember{Code: "PL-2", FirstName: "Sam", LastName: "Reed"}, AssignedRole: "first officer"},
		},
		PassengerAssignments: []models.PassengerAssignment{
			{Passenger: &models.Passenger{ID: 11, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, SeatNumber: "2A", SeatType: "economy"},
			{Passenger: nil, SeatNumber: "2B"},
		},
	}
}

func TestValidBackend(t *testing.T) {
	assert.True(t, ValidBackend(BackendSQL))
	assert.True(t, ValidBackend(BackendNoSQL))
	assert.False(t, ValidBackend("postgres"))
	assert.False(t, ValidBackend(""))
}

func TestTabular_CrewBeforePassengers(t *testing.T) {
	rows := Tabular(sampleRoster())
	require.Len(t, rows, 5)

	// Pilots first, then cabin crew, then passengers.
	assert.Equal(t, "Flight Crew", rows[0].Type)
	assert.Equal(t, "Jo Mars", rows[0].Name)
	assert.Equal(t, "Flight Crew", rows[1].Type)
	assert.Equal(t, "Cabin Crew", rows[2].Type)
	assert.Equal(t, "Mina Park", rows[2].Name)
	assert.Equal(t, "Passenger", rows[3].Type)
	assert.Equal(t, "Ada Lovelace", rows[3].Name)
	assert.Equal(t, "2A", rows[3].RoleOrSeat)
	assert.Equal(t, "N/A", rows[4].Name, "missing passenger renders N/A")
}

func TestPlane_PositionsAndRows(t *testing.T) {
	view := Plane(sampleRoster())

	assert.Equal(t, "A320", view.PlaneName)
	assert.Equal(t, 10, view.TotalSeats)

	require.Len(t, view.PilotPositions, 2)
	assert.Equal(t, "P1", view.PilotPositions[0].Label)
	assert.Equal(t, "Jo Mars", view.PilotPositions[0].Occupant.Name)
	assert.Equal(t, "P2", view.PilotPositions[1].Label)

	require.Len(t, view.CabinPositions, 1)
	assert.Equal(t, "CC1", view.CabinPositions[0].Label)

	// Business renders before economy; the 1B-to-1E gap is the aisle.
	require.Len(t, view.BusinessRows, 1)
	assert.Equal(t, "1A", view.BusinessRows[0].Left[0].Label)
	assert.Equal(t, "1E", view.BusinessRows[0].Right[0].Label)

	require.Len(t, view.EconomyRows, 2)
	assert.Equal(t, 2, view.EconomyRows[0].Number)
	assert.Equal(t, 3, view.EconomyRows[1].Number)
}

func TestPlane_SeatOccupants(t *testing.T) {
	view := Plane(sampleRoster())

	var found *Occupant
	for _, row := range view.EconomyRows {
		for _, seat := range append(row.Left, row.Right...) {
			if seat.Label == "2A" {
				found = seat.Occupant
			}
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "Ada Lovelace", found.Name)
	assert.Equal(t, "passenger", found.Type)
}

func TestPlane_EconomyRowCap(t *testing.T) {
	r := sampleRoster()
	var economy []string
	for row := 1; row <= 30; row++ {
		economy = append(economy, fmt.Sprintf("%dA", row), fmt.Sprintf("%dB", row))
	}
	r.Flight.PlaneType.SeatLayout = map[string][]string{"economy": economy}

	view := Plane(r)
	require.Len(t, view.EconomyRows, 20, "display caps at the first 20 distinct rows")
	assert.Equal(t, 1, view.EconomyRows[0].Number)
	assert.Equal(t, 20, view.EconomyRows[19].Number)
}

func TestExtended_Defaults(t *testing.T) {
	view := Extended(sampleRoster())

	require.Len(t, view.FlightCrew, 2)
	assert.Equal(t, "Jo Mars", view.FlightCrew[0].Name)
	assert.Equal(t, "captain", view.FlightCrew[0].Seniority)
	assert.Equal(t, "N/A", view.FlightCrew[0].Nationality)
	assert.Equal(t, "N/A", view.FlightCrew[0].Languages)
	assert.Equal(t, "N/A", view.FlightCrew[0].MaxRange)

	require.Len(t, view.CabinCrew, 1)
	assert.Equal(t, "chief", view.CabinCrew[0].Role)

	require.Len(t, view.Passengers, 2)
	assert.Equal(t, "Ada Lovelace", view.Passengers[0].Name)
	assert.Equal(t, "economy", view.Passengers[0].Class)
	assert.Equal(t, "N/A", view.Passengers[0].Phone)
	assert.Equal(t, "N/A", view.Passengers[1].Name, "nil passenger defaults every field")
	assert.Equal(t, "2B", view.Passengers[1].Seat)
}

func TestExport(t *testing.T) {
	r := sampleRoster()
	r.Flight.OriginAirport = &models.Airport{Code: "IST"}
	r.Flight.DestAirport = &models.Airport{Code: "JFK"}

	doc := Export(r)
	assert.Equal(t, "SW123", doc.Flight.FlightNumber)
	assert.Equal(t, "IST", doc.Flight.Origin)
	assert.Equal(t, "JFK", doc.Flight.Destination)
	assert.Equal(t, BackendSQL, doc.Backend)
	require.Len(t, doc.Crew, 3)
	require.Len(t, doc.Passengers, 2)
	assert.Equal(t, "ada@example.com", doc.Passengers[0].Email)
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "roster-SW123-2026-08-30.json", ExportFilename(sampleRoster(), now))

	assert.Equal(t, "roster-unknown-2026-08-30.json", ExportFilename(&models.Roster{}, now))
}
