package workflows

import (
	"errors"
	"testing"

	"github.com/skywardair/bookingdesk/internal/activities"
	"github.com/skywardair/bookingdesk/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

type PurchaseWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *PurchaseWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	acts := activities.NewActivities(nil)
	s.env.RegisterActivityWithOptions(acts.CreatePassenger, activity.RegisterOptions{Name: "CreatePassenger"})
	s.env.RegisterActivityWithOptions(acts.CreateTicket, activity.RegisterOptions{Name: "CreateTicket"})
	s.env.RegisterActivityWithOptions(acts.DeletePassenger, activity.RegisterOptions{Name: "DeletePassenger"})
}

func (s *PurchaseWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func TestPurchaseWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseWorkflowTestSuite))
}

func purchaseInput() PurchaseInput {
	return PurchaseInput{
		Token: "token-abc",
		Passenger: models.CreatePassengerRequest{
			FirstName:      "Ada",
			LastName:       "Lovelace",
			Email:          "ada@example.com",
			Phone:          "12345",
			PassportNumber: "X999",
			Nationality:    "UK",
			DateOfBirth:    "1990-01-01",
		},
		Ticket: models.CreateTicketRequest{
			TicketNumber: "AUTO-1700000000000",
			FlightID:     7,
			SeatNumber:   "3A",
			TicketClass:  models.ClassEconomy,
			Price:        "359.00",
		},
	}
}

func (s *PurchaseWorkflowTestSuite) TestPurchase_Success() {
	input := purchaseInput()

	s.env.OnActivity("CreatePassenger", mock.Anything, mock.Anything).
		Return(&models.Passenger{ID: 42, FirstName: "Ada"}, nil)
	s.env.OnActivity("CreateTicket", mock.Anything, mock.Anything).
		Return(&models.Ticket{ID: 9, TicketNumber: "AUTO-1700000000000", SeatNumber: "3A"}, nil)

	s.env.ExecuteWorkflow(TicketPurchaseWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result PurchaseResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal("AUTO-1700000000000", result.Ticket.TicketNumber)
	s.Equal("3A", result.Ticket.SeatNumber)
}

func (s *PurchaseWorkflowTestSuite) TestPurchase_PassengerFails() {
	input := purchaseInput()

	s.env.OnActivity("CreatePassenger", mock.Anything, mock.Anything).
		Return(nil, errors.New("passport already registered"))

	s.env.ExecuteWorkflow(TicketPurchaseWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Error(err)
	s.Contains(err.Error(), "passport already registered")
}

func (s *PurchaseWorkflowTestSuite) TestPurchase_TicketFailsCompensates() {
	input := purchaseInput()

	s.env.OnActivity("CreatePassenger", mock.Anything, mock.Anything).
		Return(&models.Passenger{ID: 42}, nil)
	s.env.OnActivity("CreateTicket", mock.Anything, mock.Anything).
		Return(nil, errors.New("seat already taken"))
	// A failed ticket write must clean up the stranded passenger.
	s.env.OnActivity("DeletePassenger", mock.Anything, mock.Anything).
		Return(nil).Once()

	s.env.ExecuteWorkflow(TicketPurchaseWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Error(err)
	s.Contains(err.Error(), "seat already taken")
}

func (s *PurchaseWorkflowTestSuite) TestPurchase_CompensationFailureKeepsOriginalError() {
	input := purchaseInput()

	s.env.OnActivity("CreatePassenger", mock.Anything, mock.Anything).
		Return(&models.Passenger{ID: 42}, nil)
	s.env.OnActivity("CreateTicket", mock.Anything, mock.Anything).
		Return(nil, errors.New("seat already taken"))
	s.env.OnActivity("DeletePassenger", mock.Anything, mock.Anything).
		Return(errors.New("not found"))

	s.env.ExecuteWorkflow(TicketPurchaseWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Error(err)
	// The user sees the booking failure, not the cleanup failure.
	s.Contains(err.Error(), "seat already taken")
}
