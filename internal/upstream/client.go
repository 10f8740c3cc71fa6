// Package upstream is the HTTP client for the remote airline REST API. It
// attaches the caller's bearer token when one is present and surfaces
// remote error bodies verbatim, stringified when structured.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skywardair/bookingdesk/internal/models"
)

// APIError carries the remote status and the response body exactly as the
// server sent it, stringified when it was a JSON object.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("upstream request failed with status %d", e.StatusCode)
}

// Client talks to the remote API under a common base path.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client. baseURL should end with the API prefix, e.g.
// "http://host/api/".
func New(baseURL string, timeout time.Duration) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// page decodes the "paginated or flat list" response variants: either
// {"results": [...]} or a bare array.
type page[T any] struct {
	Results []T `json:"results"`
}

func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var flat []T
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return nil, err
		}
		return flat, nil
	}
	var p page[T]
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, err
	}
	return p.Results, nil
}

// do issues one request. A non-empty token is attached as a bearer
// credential. 2xx bodies are returned; anything else becomes an *APIError
// with the verbatim body.
func (c *Client) do(ctx context.Context, method, path, token string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &APIError{StatusCode: res.StatusCode, Body: stringifyBody(data)}
	}
	return data, nil
}

// stringifyBody keeps string bodies as-is and re-serializes structured
// bodies so the user sees exactly what the server said.
func stringifyBody(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}
	var asString string
	if json.Unmarshal(trimmed, &asString) == nil {
		return asString
	}
	return string(trimmed)
}

// ListFlights fetches one page of flights. Search filtering happens in the
// service layer over the fetched page, the way the flight list has always
// behaved.
func (c *Client) ListFlights(ctx context.Context, token string, pageSize int) ([]models.Flight, error) {
	body, err := c.do(ctx, http.MethodGet, "flights/?page_size="+strconv.Itoa(pageSize), token, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Flight](body)
}

// GetFlight fetches a single flight, including its embedded staff list
// when the backend provides one.
func (c *Client) GetFlight(ctx context.Context, token string, id int64) (*models.Flight, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("flights/%d/", id), token, nil)
	if err != nil {
		return nil, err
	}
	var f models.Flight
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// TakenSeats derives the taken-seat labels for a flight from its booked
// tickets. This read is best-effort: any failure yields an empty set and a
// log line, never an error, so the seat map always renders.
func (c *Client) TakenSeats(ctx context.Context, token string, flightID int64, limit int) []string {
	path := fmt.Sprintf("tickets/?flight=%d&page_size=%d", flightID, limit)
	body, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		logrus.WithError(err).WithField("flight_id", flightID).Debug("taken-seats fetch failed, using empty set")
		return nil
	}
	tickets, err := decodeList[models.Ticket](body)
	if err != nil {
		logrus.WithError(err).WithField("flight_id", flightID).Debug("taken-seats decode failed, using empty set")
		return nil
	}
	seats := make([]string, 0, len(tickets))
	seen := make(map[string]bool, len(tickets))
	for _, t := range tickets {
		label := strings.TrimSpace(t.SeatNumber)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		seats = append(seats, label)
	}
	return seats
}

// ListTickets fetches the current user's tickets.
func (c *Client) ListTickets(ctx context.Context, token string, pageSize int) ([]models.Ticket, error) {
	body, err := c.do(ctx, http.MethodGet, "tickets/?page_size="+strconv.Itoa(pageSize), token, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Ticket](body)
}

// CreatePassenger creates a passenger record and returns it with the
// server-assigned id.
func (c *Client) CreatePassenger(ctx context.Context, token string, req models.CreatePassengerRequest) (*models.Passenger, error) {
	body, err := c.do(ctx, http.MethodPost, "passengers/", token, req)
	if err != nil {
		return nil, err
	}
	var p models.Passenger
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePassenger removes a passenger record. Used as compensation when
// ticket creation fails after the passenger was already created.
func (c *Client) DeletePassenger(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("passengers/%d/", id), token, nil)
	return err
}

// CreateTicket books a ticket for an existing passenger.
func (c *Client) CreateTicket(ctx context.Context, token string, req models.CreateTicketRequest) (*models.Ticket, error) {
	body, err := c.do(ctx, http.MethodPost, "tickets/", token, req)
	if err != nil {
		return nil, err
	}
	var t models.Ticket
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListRosters fetches one page of rosters.
func (c *Client) ListRosters(ctx context.Context, token string, pageSize int) ([]models.Roster, error) {
	body, err := c.do(ctx, http.MethodGet, "rosters/?page_size="+strconv.Itoa(pageSize), token, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Roster](body)
}

// GenerateRoster asks the backend to generate a roster for a flight using
// the given generation backend tag.
func (c *Client) GenerateRoster(ctx context.Context, token string, req models.GenerateRosterRequest) (*models.Roster, error) {
	body, err := c.do(ctx, http.MethodPost, "rosters/generate/", token, req)
	if err != nil {
		return nil, err
	}
	var r models.Roster
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	body, err := c.do(ctx, http.MethodPost, "token/", "", req)
	if err != nil {
		return nil, err
	}
	var pair models.TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Register creates an account and returns its token pair.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.TokenPair, error) {
	body, err := c.do(ctx, http.MethodPost, "register/", "", req)
	if err != nil {
		return nil, err
	}
	var pair models.TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Me fetches the current profile. Best-effort: any failure means "not
// logged in" and returns nil without error.
func (c *Client) Me(ctx context.Context, token string) *models.Profile {
	if token == "" {
		return nil
	}
	body, err := c.do(ctx, http.MethodGet, "auth/me/", token, nil)
	if err != nil {
		return nil
	}
	var p models.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil
	}
	return &p
}
