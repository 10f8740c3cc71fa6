package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/skywardair/bookingdesk/internal/booking"
	"github.com/skywardair/bookingdesk/internal/models"
	"github.com/skywardair/bookingdesk/internal/service"
	"github.com/skywardair/bookingdesk/internal/upstream"
	"github.com/skywardair/bookingdesk/internal/websocket"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	service service.Service
	hub     *websocket.Hub
}

// NewHandler creates a new Handler instance
func NewHandler(svc service.Service, hub *websocket.Hub) *Handler {
	return &Handler{
		service: svc,
		hub:     hub,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service failures onto HTTP statuses. Upstream
// errors pass their status and body through verbatim; everything else from
// the flow is a user mistake and reads as 400.
func respondServiceError(w http.ResponseWriter, err error) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		respondError(w, apiErr.StatusCode, apiErr.Error())
		return
	}
	if errors.Is(err, service.ErrRosterNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondError(w, http.StatusBadRequest, err.Error())
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id, err == nil
}

// GetFlights handles GET /api/flights
func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := h.service.ListFlights(r.Context(), SessionID(r), r.URL.Query().Get("search"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// GetFlight handles GET /api/flights/{id}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid flight id")
		return
	}
	flight, err := h.service.GetFlight(r.Context(), SessionID(r), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Flight not found")
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// GetSeatMap handles GET /api/flights/{id}/seatmap. An optional ?class=
// query previews selectability for a class other than the session's.
func (h *Handler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid flight id")
		return
	}
	layout, err := h.service.SeatMap(r.Context(), SessionID(r), id, models.CabinClass(r.URL.Query().Get("class")))
	if err != nil {
		respondError(w, http.StatusNotFound, "Flight not found")
		return
	}
	respondJSON(w, http.StatusOK, layout)
}

// GetBooking handles GET /api/booking
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.BookingState(r.Context(), SessionID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SelectFlight handles POST /api/booking/flight
func (h *Handler) SelectFlight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FlightID int64 `json:"flight_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FlightID == 0 {
		respondError(w, http.StatusBadRequest, "Flight ID is required")
		return
	}
	view, err := h.service.SelectFlight(r.Context(), SessionID(r), req.FlightID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// UpdatePassenger handles PUT /api/booking/passenger
func (h *Handler) UpdatePassenger(w http.ResponseWriter, r *http.Request) {
	var form booking.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	view, err := h.service.UpdatePassenger(r.Context(), SessionID(r), form)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// NextStep handles POST /api/booking/next
func (h *Handler) NextStep(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.NextStep(r.Context(), SessionID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// PrevStep handles POST /api/booking/back
func (h *Handler) PrevStep(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.PrevStep(r.Context(), SessionID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SetSeat handles PUT /api/booking/seat
func (h *Handler) SetSeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SeatNumber string `json:"seat_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SeatNumber == "" {
		respondError(w, http.StatusBadRequest, "Seat number is required")
		return
	}
	view, err := h.service.SetSeat(r.Context(), SessionID(r), req.SeatNumber)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SetClass handles PUT /api/booking/class
func (h *Handler) SetClass(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TicketClass models.CabinClass `json:"ticket_class"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	view, err := h.service.SetClass(r.Context(), SessionID(r), req.TicketClass)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// ApplyPromo handles POST /api/booking/promo
func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PromoCode string `json:"promo_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	view, err := h.service.ApplyPromo(r.Context(), SessionID(r), req.PromoCode)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SubmitBooking handles POST /api/booking/submit
func (h *Handler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.service.Submit(r.Context(), SessionID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, ticket)
}

// CancelBooking handles POST /api/booking/cancel
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.CancelBooking(r.Context(), SessionID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GetTickets handles GET /api/tickets
func (h *Handler) GetTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.service.ListTickets(r.Context(), SessionID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tickets)
}

// GetRosters handles GET /api/rosters
func (h *Handler) GetRosters(w http.ResponseWriter, r *http.Request) {
	rosters, err := h.service.ListRosters(r.Context(), SessionID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rosters)
}

// GenerateRoster handles POST /api/rosters/generate
func (h *Handler) GenerateRoster(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FlightID == 0 {
		respondError(w, http.StatusBadRequest, "Flight ID is required")
		return
	}
	roster, err := h.service.GenerateRoster(r.Context(), SessionID(r), req.FlightID, req.Backend)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, roster)
}

// GetRosterView handles GET /api/rosters/{id}/view/{mode}
func (h *Handler) GetRosterView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid roster id")
		return
	}
	view, err := h.service.RosterView(r.Context(), SessionID(r), id, mux.Vars(r)["mode"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// ExportRoster handles GET /api/rosters/{id}/export. The document is served
// as an attachment so the browser downloads it.
func (h *Handler) ExportRoster(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid roster id")
		return
	}
	export, err := h.service.ExportRoster(r.Context(), SessionID(r), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(export.Doc)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Remember bool   `json:"remember"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.Login(r.Context(), SessionID(r), req.Username, req.Password, req.Remember); err != nil {
		var apiErr *upstream.APIError
		if errors.As(err, &apiErr) {
			respondError(w, apiErr.StatusCode, apiErr.Error())
			return
		}
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged in"})
}

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if err := h.service.Register(r.Context(), SessionID(r), req); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Account created"})
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), SessionID(r)); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Me(r.Context(), SessionID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if profile == nil {
		respondError(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// ServeWS handles GET /api/ws
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r, SessionID(r))
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
