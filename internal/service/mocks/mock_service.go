package mocks

import (
	"context"

	"github.com/skywardair/bookingdesk/internal/booking"
	"github.com/skywardair/bookingdesk/internal/models"
	"github.com/skywardair/bookingdesk/internal/seatmap"
	"github.com/skywardair/bookingdesk/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockService is a mock implementation of service.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListFlights(ctx context.Context, sessionID, search string) ([]models.Flight, error) {
	args := m.Called(ctx, sessionID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Flight), args.Error(1)
}

func (m *MockService) GetFlight(ctx context.Context, sessionID string, flightID int64) (*models.Flight, error) {
	args := m.Called(ctx, sessionID, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockService) SeatMap(ctx context.Context, sessionID string, flightID int64, classOverride models.CabinClass) (seatmap.Layout, error) {
	args := m.Called(ctx, sessionID, flightID, classOverride)
	return args.Get(0).(seatmap.Layout), args.Error(1)
}

func (m *MockService) ListTickets(ctx context.Context, sessionID string) ([]models.Ticket, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ticket), args.Error(1)
}

func (m *MockService) BookingState(ctx context.Context, sessionID string) (*service.BookingView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingView), args.Error(1)
}

func (m *MockService) SelectFlight(ctx context.Context, sessionID string, flightID int64) (*service.BookingView, error) {
	args := m.Called(ctx, sessionID, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingView), args.Error(1)
}

func (m *MockService) UpdatePassenger(ctx context.Context, sessionID string, form booking.Form) (*service.BookingView, error) {
	args := m.Called(ctx, sessionID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingView), args.Error(1)
}

func (m *MockService) NextStep(ctx context.Context, sessionID string) (*service.BookingView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingView), args.Error(1)
}

func (m *MockService) PrevStep(ctx context.Context, sessionID string) (*service.BookingView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingView), args.Error(1)
}

func (m *MockService) SetSeat(ctx context.Context, sessionID, seat string) (*service.BookingView, error) {
	args := m.Called(ctx, sessionID, seat)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingView), args.Error(1)
}

func (m *MockService) SetClass(ctx context.Context, sessionID string, class models.CabinClass) (*service.BookingView, error) {
	args := m.Called(ctx, sessionID, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingView), args.Error(1)
}

func (m *MockService) ApplyPromo(ctx context.Context, sessionID, code string) (*service.BookingView, error) {
	args := m.Called(ctx, sessionID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingView), args.Error(1)
}

func (m *MockService) Submit(ctx context.Context, sessionID string) (*models.Ticket, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockService) CancelBooking(ctx context.Context, sessionID string) (*service.BookingView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingView), args.Error(1)
}

func (m *MockService) ListRosters(ctx context.Context, sessionID string) ([]models.Roster, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Roster), args.Error(1)
}

func (m *MockService) GenerateRoster(ctx context.Context, sessionID string, flightID int64, backend string) (*models.Roster, error) {
	args := m.Called(ctx, sessionID, flightID, backend)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Roster), args.Error(1)
}

func (m *MockService) RosterView(ctx context.Context, sessionID string, rosterID int64, mode string) (interface{}, error) {
	args := m.Called(ctx, sessionID, rosterID, mode)
	return args.Get(0), args.Error(1)
}

func (m *MockService) ExportRoster(ctx context.Context, sessionID string, rosterID int64) (*service.RosterExport, error) {
	args := m.Called(ctx, sessionID, rosterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RosterExport), args.Error(1)
}

func (m *MockService) Login(ctx context.Context, sessionID, username, password string, remember bool) error {
	args := m.Called(ctx, sessionID, username, password, remember)
	return args.Error(0)
}

func (m *MockService) Register(ctx context.Context, sessionID string, req models.RegisterRequest) error {
	args := m.Called(ctx, sessionID, req)
	return args.Error(0)
}

func (m *MockService) Logout(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockService) Me(ctx context.Context, sessionID string) (*models.Profile, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}
