// Package seatmap converts an aircraft's seat configuration into a
// row/column model for rendering. Input is either an explicit per-class
// layout on the plane type or a bare capacity, from which a uniform
// economy grid is synthesized.
package seatmap

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/skywardair/bookingdesk/internal/models"
)

const (
	seatsPerRow     = 6
	defaultCapacity = 120
)

var gridColumns = []string{"A", "B", "C", "D", "E", "F"}

// labelPattern splits a seat label into digits followed by letters.
// Labels that do not match fall into the row-0 bucket rather than failing.
var labelPattern = regexp.MustCompile(`^(\d+)([A-Za-z]+)`)

// Seat is one derived seat position. Taken and Selectable are filled by
// Annotate; Build leaves them false.
type Seat struct {
	Label      string            `json:"label"`
	Row        int               `json:"row"`
	Column     int               `json:"column"`
	Class      models.CabinClass `json:"class"`
	Taken      bool              `json:"taken"`
	Selectable bool              `json:"selectable"`
}

// Row holds one cabin row's seats ordered by column, optionally split into
// two banks around the aisle.
type Row struct {
	Number int    `json:"number"`
	Seats  []Seat `json:"seats"`
	Left   []Seat `json:"left"`
	Right  []Seat `json:"right"`
}

// Layout is the full derived seat model for one aircraft.
type Layout struct {
	Rows []Row `json:"rows"`
}

// ParseLabel derives (row, column index) from a seat label like "12A".
// Malformed labels report ok=false and map to row 0, column 0; callers keep
// rendering them, just potentially mis-ordered.
func ParseLabel(label string) (row, column int, ok bool) {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, false
	}
	row, err := strconv.Atoi(m[1])
	if err != nil {
		// Row digits overflowing int only happen with garbage input.
		return 0, 0, false
	}
	return row, columnIndex(m[2]), true
}

// columnIndex maps a column letter to its index ("A"→0). Multi-letter
// columns use the first letter.
func columnIndex(letters string) int {
	c := letters[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return int(c - 'A')
}

// Build derives the row model for a plane type. An explicit seat_layout
// wins; otherwise a uniform grid is synthesized from total_seats.
func Build(pt *models.PlaneType) Layout {
	if pt != nil && len(pt.SeatLayout) > 0 {
		return fromExplicit(pt.SeatLayout)
	}
	capacity := defaultCapacity
	if pt != nil && pt.TotalSeats > 0 {
		capacity = pt.TotalSeats
	}
	return fromCapacity(capacity)
}

// fromExplicit concatenates each class's seat list, tagging seats with
// their cabin class.
func fromExplicit(layout map[string][]string) Layout {
	var seats []Seat
	// Deterministic class order: premium cabins first.
	for _, key := range []string{"first", "business", "economy"} {
		for _, label := range layout[key] {
			seats = append(seats, newSeat(label, classForKey(key)))
		}
	}
	for key, labels := range layout {
		if key == "first" || key == "business" || key == "economy" {
			continue
		}
		for _, label := range labels {
			seats = append(seats, newSeat(label, classForKey(key)))
		}
	}
	return group(seats)
}

// fromCapacity synthesizes 6-across economy rows, truncating the last row
// at capacity.
func fromCapacity(capacity int) Layout {
	rows := (capacity + seatsPerRow - 1) / seatsPerRow
	seats := make([]Seat, 0, capacity)
	for r := 1; r <= rows; r++ {
		for c := 0; c < seatsPerRow; c++ {
			if (r-1)*seatsPerRow+c >= capacity {
				break
			}
			seats = append(seats, Seat{
				Label:  strconv.Itoa(r) + gridColumns[c],
				Row:    r,
				Column: c,
				Class:  models.ClassEconomy,
			})
		}
	}
	return group(seats)
}

func newSeat(label string, class models.CabinClass) Seat {
	row, col, _ := ParseLabel(label)
	return Seat{Label: label, Row: row, Column: col, Class: class}
}

func classForKey(key string) models.CabinClass {
	switch key {
	case "business":
		return models.ClassBusiness
	case "first":
		return models.ClassFirst
	default:
		return models.ClassEconomy
	}
}

// group buckets seats by row number, sorts rows ascending and seats within
// a row by column, and splits each row into banks.
func group(seats []Seat) Layout {
	byRow := make(map[int][]Seat)
	for _, s := range seats {
		byRow[s.Row] = append(byRow[s.Row], s)
	}

	numbers := make([]int, 0, len(byRow))
	for n := range byRow {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	layout := Layout{Rows: make([]Row, 0, len(numbers))}
	for _, n := range numbers {
		rowSeats := byRow[n]
		sort.SliceStable(rowSeats, func(i, j int) bool {
			return rowSeats[i].Column < rowSeats[j].Column
		})
		left, right := SplitBanks(rowSeats)
		layout.Rows = append(layout.Rows, Row{Number: n, Seats: rowSeats, Left: left, Right: right})
	}
	return layout
}

// SplitBanks divides a row's column-ordered seats into left and right banks.
// The split lands on the largest gap between consecutive column indices when
// that gap exceeds one; otherwise the row is cut at its midpoint.
func SplitBanks(seats []Seat) (left, right []Seat) {
	if len(seats) < 2 {
		return seats, nil
	}
	splitAt := -1
	largest := 1
	for i := 1; i < len(seats); i++ {
		gap := seats[i].Column - seats[i-1].Column
		if gap > largest {
			largest = gap
			splitAt = i
		}
	}
	if splitAt < 0 {
		splitAt = len(seats) / 2
	}
	return seats[:splitAt], seats[splitAt:]
}

// Annotate recomputes occupancy and selectability against the current
// taken-seat set and chosen cabin class. A seat is selectable only when it
// is not taken and its class matches the chosen class.
func Annotate(layout Layout, taken map[string]bool, chosen models.CabinClass) Layout {
	out := Layout{Rows: make([]Row, len(layout.Rows))}
	for i, row := range layout.Rows {
		out.Rows[i] = Row{
			Number: row.Number,
			Seats:  annotateSeats(row.Seats, taken, chosen),
			Left:   annotateSeats(row.Left, taken, chosen),
			Right:  annotateSeats(row.Right, taken, chosen),
		}
	}
	return out
}

func annotateSeats(seats []Seat, taken map[string]bool, chosen models.CabinClass) []Seat {
	out := make([]Seat, len(seats))
	for i, s := range seats {
		s.Taken = taken[s.Label]
		s.Selectable = !s.Taken && s.Class == chosen
		out[i] = s
	}
	return out
}

// TakenSet builds the taken-seat set from a flight's booked tickets.
// Blank seat numbers are ignored.
func TakenSet(tickets []models.Ticket) map[string]bool {
	taken := make(map[string]bool, len(tickets))
	for _, t := range tickets {
		if s := strings.TrimSpace(t.SeatNumber); s != "" {
			taken[s] = true
		}
	}
	return taken
}
