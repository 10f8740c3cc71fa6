package booking

import (
	"testing"

	"github.com/skywardair/bookingdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledForm() Form {
	return Form{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		Phone:          "12345",
		PassportNumber: "X999",
		Nationality:    "UK",
		DateOfBirth:    "1990-01-01",
	}
}

func TestNew_Defaults(t *testing.T) {
	st := New()
	assert.Equal(t, StepPassengerInfo, st.Step)
	assert.Equal(t, models.ClassEconomy, st.TicketClass)
	assert.Equal(t, "1990-01-01", st.Form.DateOfBirth)
	assert.Zero(t, st.FlightID)
}

func TestSelectFlight_ResetsFlowKeepsForm(t *testing.T) {
	st := New()
	st.Form = filledForm()
	st.FlightID = 3
	st.Step = StepSeatSelection
	st.TicketClass = models.ClassBusiness
	st.SeatNumber = "1A"

	st.SelectFlight(7, []string{"2B"})

	assert.Equal(t, int64(7), st.FlightID)
	assert.Equal(t, StepPassengerInfo, st.Step)
	assert.Equal(t, models.ClassEconomy, st.TicketClass)
	assert.Empty(t, st.SeatNumber)
	assert.Equal(t, []string{"2B"}, st.TakenSeats)
	assert.Equal(t, "Ada", st.Form.FirstName, "form survives a flight change")
}

func TestValidate_FirstFailureWins(t *testing.T) {
	st := New()
	err := st.Validate()
	assert.EqualError(t, err, "Choose a flight")

	st.FlightID = 7
	assert.EqualError(t, st.Validate(), "First name required")

	st.Form.FirstName = "Ada"
	assert.EqualError(t, st.Validate(), "Last name required")

	st.Form.LastName = "Lovelace"
	assert.EqualError(t, st.Validate(), "Email required")

	st.Form.Email = "ada@example.com"
	assert.EqualError(t, st.Validate(), "Phone number required")

	st.Form.Phone = "12345"
	assert.EqualError(t, st.Validate(), "Passport number required")

	st.Form.PassportNumber = "X999"
	assert.EqualError(t, st.Validate(), "Nationality required")

	st.Form.Nationality = "UK"
	assert.NoError(t, st.Validate())
}

func TestValidate_WhitespaceCountsAsEmpty(t *testing.T) {
	st := New()
	st.FlightID = 7
	st.Form = filledForm()
	st.Form.Email = "   "
	assert.EqualError(t, st.Validate(), "Email required")
}

func TestNext_GatedOnValidation(t *testing.T) {
	st := New()
	st.FlightID = 7

	err := st.Next()
	require.Error(t, err)
	assert.Equal(t, StepPassengerInfo, st.Step, "failed validation must not advance")

	st.Form = filledForm()
	require.NoError(t, st.Next())
	assert.Equal(t, StepSeatSelection, st.Step)
}

func TestBack(t *testing.T) {
	st := New()
	st.Step = StepSeatSelection
	st.Back()
	assert.Equal(t, StepPassengerInfo, st.Step)
}

func TestSetClass_ClearsSeat(t *testing.T) {
	st := New()
	st.SeatNumber = "1A"
	st.SetClass(models.ClassBusiness)
	assert.Equal(t, models.ClassBusiness, st.TicketClass)
	assert.Empty(t, st.SeatNumber)
}

func TestSetSeat(t *testing.T) {
	st := New()
	st.FlightID = 7
	st.TakenSeats = []string{"2B"}

	err := st.SetSeat("1A", models.ClassEconomy)
	assert.ErrorIs(t, err, ErrWrongStep)

	st.Step = StepSeatSelection

	assert.ErrorIs(t, st.SetSeat("2B", models.ClassEconomy), ErrSeatTaken)
	assert.ErrorIs(t, st.SetSeat("1A", models.ClassBusiness), ErrSeatClass)

	require.NoError(t, st.SetSeat("1A", models.ClassEconomy))
	assert.Equal(t, "1A", st.SeatNumber)

	// Unknown class on the seat skips the class check.
	require.NoError(t, st.SetSeat("3C", ""))
	assert.Equal(t, "3C", st.SeatNumber)
}

func TestApplyPromo(t *testing.T) {
	st := New()
	st.FlightID = 7

	assert.EqualError(t, st.ApplyPromo(""), "Enter a promo code to apply")
	assert.EqualError(t, st.ApplyPromo("NOPE"), "Invalid promo code")
	assert.False(t, st.Promo.Applied)

	require.NoError(t, st.ApplyPromo("save25"))
	assert.True(t, st.Promo.Applied)
	assert.Equal(t, 0.25, st.Promo.Discount)
}

func TestEstimatedFare(t *testing.T) {
	st := New()
	assert.Zero(t, st.EstimatedFare(), "no flight means no fare")

	st.FlightID = 7
	assert.Equal(t, 359.0, st.EstimatedFare())

	st.TicketClass = models.ClassFirst
	assert.InDelta(t, 1148.8, st.EstimatedFare(), 0.0001)

	require.NoError(t, st.ApplyPromo("SAVE10"))
	assert.InDelta(t, 1033.92, st.EstimatedFare(), 0.0001)
}

func TestCancel_KeepsFormAndPromo(t *testing.T) {
	st := New()
	st.Form = filledForm()
	st.FlightID = 7
	st.Step = StepSeatSelection
	require.NoError(t, st.ApplyPromo("SAVE10"))

	st.Cancel()

	assert.Zero(t, st.FlightID)
	assert.Equal(t, StepPassengerInfo, st.Step)
	assert.Equal(t, "Ada", st.Form.FirstName)
	assert.True(t, st.Promo.Applied)
}
