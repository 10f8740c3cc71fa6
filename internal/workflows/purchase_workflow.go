// Package workflows holds the ticket purchase workflow. Passenger and
// ticket creation are two sequential remote writes with no server-side
// transaction around them; the workflow makes the pairing explicit and
// compensates a stranded passenger record when the ticket write fails.
package workflows

import (
	"time"

	"github.com/skywardair/bookingdesk/internal/activities"
	"github.com/skywardair/bookingdesk/internal/models"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// PurchaseInput carries everything the workflow needs to create the
// passenger and then the ticket on the user's behalf.
type PurchaseInput struct {
	Token     string                        `json:"token"`
	Passenger models.CreatePassengerRequest `json:"passenger"`
	Ticket    models.CreateTicketRequest    `json:"ticket"`
}

// PurchaseResult is the completed booking.
type PurchaseResult struct {
	Ticket *models.Ticket `json:"ticket"`
}

// TicketPurchaseWorkflow creates the passenger, captures its id, then
// creates the ticket referencing it. Activities run with a single attempt:
// remote failures surface to the user, nothing is retried automatically.
func TicketPurchaseWorkflow(ctx workflow.Context, input PurchaseInput) (*PurchaseResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Ticket purchase started", "flightId", input.Ticket.FlightID, "seat", input.Ticket.SeatNumber)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	var passenger models.Passenger
	err := workflow.ExecuteActivity(ctx, "CreatePassenger", activities.CreatePassengerInput{
		Token:     input.Token,
		Passenger: input.Passenger,
	}).Get(ctx, &passenger)
	if err != nil {
		logger.Error("Passenger creation failed", "error", err)
		return nil, err
	}

	ticketReq := input.Ticket
	ticketReq.PassengerID = passenger.ID

	var ticket models.Ticket
	err = workflow.ExecuteActivity(ctx, "CreateTicket", activities.CreateTicketInput{
		Token:  input.Token,
		Ticket: ticketReq,
	}).Get(ctx, &ticket)
	if err != nil {
		logger.Error("Ticket creation failed, compensating passenger", "passengerId", passenger.ID, "error", err)

		// Compensation must run even if the workflow context was cancelled.
		compCtx, cancel := workflow.NewDisconnectedContext(ctx)
		defer cancel()
		compCtx = workflow.WithActivityOptions(compCtx, workflow.ActivityOptions{
			StartToCloseTimeout: 30 * time.Second,
			RetryPolicy: &temporal.RetryPolicy{
				MaximumAttempts: 1,
			},
		})
		compErr := workflow.ExecuteActivity(compCtx, "DeletePassenger", activities.DeletePassengerInput{
			Token:       input.Token,
			PassengerID: passenger.ID,
		}).Get(compCtx, nil)
		if compErr != nil {
			// Best-effort cleanup; the booking error below is what the
			// user needs to see.
			logger.Error("Passenger compensation failed", "passengerId", passenger.ID, "error", compErr)
		}
		return nil, err
	}

	logger.Info("Ticket purchase completed", "ticketNumber", ticket.TicketNumber)
	return &PurchaseResult{Ticket: &ticket}, nil
}
