// Package activities wraps the remote API calls executed by the purchase
// workflow. Each activity carries the user's bearer token so the records
// are created under the booking user's account.
package activities

import (
	"context"

	"github.com/skywardair/bookingdesk/internal/models"
	"github.com/skywardair/bookingdesk/internal/upstream"
	"go.temporal.io/sdk/activity"
)

// Activities bundles the upstream client for registration with a worker.
type Activities struct {
	api *upstream.Client
}

func NewActivities(api *upstream.Client) *Activities {
	return &Activities{api: api}
}

type CreatePassengerInput struct {
	Token     string                        `json:"token"`
	Passenger models.CreatePassengerRequest `json:"passenger"`
}

type CreateTicketInput struct {
	Token  string                     `json:"token"`
	Ticket models.CreateTicketRequest `json:"ticket"`
}

type DeletePassengerInput struct {
	Token       string `json:"token"`
	PassengerID int64  `json:"passenger_id"`
}

// CreatePassenger creates the passenger record and returns it with the
// server-assigned id, which the workflow threads into the ticket request.
func (a *Activities) CreatePassenger(ctx context.Context, input CreatePassengerInput) (*models.Passenger, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Creating passenger", "passport", input.Passenger.PassportNumber)

	passenger, err := a.api.CreatePassenger(ctx, input.Token, input.Passenger)
	if err != nil {
		return nil, err
	}

	logger.Info("Passenger created", "passengerId", passenger.ID)
	return passenger, nil
}

// CreateTicket books the ticket referencing the created passenger.
func (a *Activities) CreateTicket(ctx context.Context, input CreateTicketInput) (*models.Ticket, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Creating ticket", "flightId", input.Ticket.FlightID, "passengerId", input.Ticket.PassengerID, "seat", input.Ticket.SeatNumber)

	ticket, err := a.api.CreateTicket(ctx, input.Token, input.Ticket)
	if err != nil {
		return nil, err
	}

	logger.Info("Ticket created", "ticketNumber", ticket.TicketNumber)
	return ticket, nil
}

// DeletePassenger is the compensation for a failed ticket creation.
func (a *Activities) DeletePassenger(ctx context.Context, input DeletePassengerInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Deleting orphaned passenger", "passengerId", input.PassengerID)

	return a.api.DeletePassenger(ctx, input.Token, input.PassengerID)
}
