// Package pricing computes deterministic, client-local fares. Nothing here
// talks to the remote API: the base price is a pure function of the flight
// id so quoted values stay stable across requests.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skywardair/bookingdesk/internal/models"
)

var (
	ErrEmptyPromo   = errors.New("Enter a promo code to apply")
	ErrInvalidPromo = errors.New("Invalid promo code")
)

// classMultipliers are fixed per-class fare factors.
var classMultipliers = map[models.CabinClass]float64{
	models.ClassEconomy:  1.0,
	models.ClassBusiness: 1.8,
	models.ClassFirst:    3.2,
}

// promoDiscounts are the recognized promo codes. Resolution is exact-match
// and case-insensitive; the set is fixed and never validated server-side.
var promoDiscounts = map[string]float64{
	"SAVE10": 0.10,
	"SAVE25": 0.25,
}

// Promo is an applied promo code's discount state.
type Promo struct {
	Applied  bool    `json:"applied"`
	Discount float64 `json:"discount"`
}

// BasePrice derives a stable base fare in [100, 399] from the flight id.
func BasePrice(flightID int64) float64 {
	return float64(100 + (flightID*37)%300)
}

// Multiplier returns the fare factor for a cabin class. Unknown classes
// fall back to the economy factor.
func Multiplier(class models.CabinClass) float64 {
	if m, ok := classMultipliers[class]; ok {
		return m
	}
	return 1.0
}

// ResolvePromo maps a raw promo input to its discount. The input is trimmed
// and uppercased before matching.
func ResolvePromo(code string) (Promo, error) {
	normalized := normalize(code)
	if normalized == "" {
		return Promo{}, ErrEmptyPromo
	}
	discount, ok := promoDiscounts[normalized]
	if !ok {
		return Promo{}, ErrInvalidPromo
	}
	return Promo{Applied: true, Discount: discount}, nil
}

// EstimatedFare is basePrice × classMultiplier × (1 − discount). Callers
// recompute it whenever flight, class, or promo state changes; it is never
// cached.
func EstimatedFare(flightID int64, class models.CabinClass, promo Promo) float64 {
	fare := BasePrice(flightID) * Multiplier(class)
	if promo.Applied {
		fare *= 1 - promo.Discount
	}
	return fare
}

// FormatAmount renders a fare the way it is shown and submitted: two
// decimal places, no currency symbol.
func FormatAmount(fare float64) string {
	return fmt.Sprintf("%.2f", fare)
}

// ConfirmLabel is the submit-button caption for the current fare.
func ConfirmLabel(fare float64) string {
	return fmt.Sprintf("Confirm Booking for $%.2f", fare)
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
