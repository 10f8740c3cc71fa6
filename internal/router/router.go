package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/skywardair/bookingdesk/internal/handlers"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, cookieName string, sessionTTL time.Duration) *mux.Router {
	r := mux.NewRouter()

	r.Use(corsMiddleware)
	r.Use(loggingMiddleware)
	r.Use(handlers.SessionMiddleware(cookieName, sessionTTL))

	api := r.PathPrefix("/api").Subrouter()

	// Flights
	api.HandleFunc("/flights", h.GetFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}/seatmap", h.GetSeatMap).Methods(http.MethodGet, http.MethodOptions)

	// Booking flow
	api.HandleFunc("/booking", h.GetBooking).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/booking/flight", h.SelectFlight).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/booking/passenger", h.UpdatePassenger).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/booking/next", h.NextStep).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/booking/back", h.PrevStep).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/booking/seat", h.SetSeat).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/booking/class", h.SetClass).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/booking/promo", h.ApplyPromo).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/booking/submit", h.SubmitBooking).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/booking/cancel", h.CancelBooking).Methods(http.MethodPost, http.MethodOptions)

	// Tickets
	api.HandleFunc("/tickets", h.GetTickets).Methods(http.MethodGet, http.MethodOptions)

	// Rosters
	api.HandleFunc("/rosters", h.GetRosters).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rosters/generate", h.GenerateRoster).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/rosters/{id}/view/{mode}", h.GetRosterView).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rosters/{id}/export", h.ExportRoster).Methods(http.MethodGet, http.MethodOptions)

	// Auth
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/auth/me", h.Me).Methods(http.MethodGet, http.MethodOptions)

	// WebSocket for auth-state push
	api.HandleFunc("/ws", h.ServeWS)

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("request handled")
	})
}
