package scheduling

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sabores/backend/internal/domain/shared"

	// Opening hours are always evaluated in the restaurant's civil timezone,
	// so the zone database must be available regardless of the host image.
	_ "time/tzdata"
)

// RestaurantTimezone is the fixed civil timezone all scheduling decisions
// are made in, independent of the server locale.
const RestaurantTimezone = "Europe/Lisbon"

var restaurantLocation *time.Location

func init() {
	loc, err := time.LoadLocation(RestaurantTimezone)
	if err != nil {
		// tzdata is compiled in, so this only happens on a corrupted build
		loc = time.UTC
	}
	restaurantLocation = loc
}

// Location returns the restaurant's timezone
func Location() *time.Location {
	return restaurantLocation
}

// DayHours is the opening window for a single weekday. Open and Close are
// "HH:MM" times of day; Close is exclusive.
type DayHours struct {
	Closed bool   `json:"closed"`
	Open   string `json:"open"`
	Close  string `json:"close"`
}

// OpenMinutes returns the opening time as minutes since midnight
func (d DayHours) OpenMinutes() (int, error) {
	return parseClock(d.Open)
}

// CloseMinutes returns the closing time as minutes since midnight
func (d DayHours) CloseMinutes() (int, error) {
	return parseClock(d.Close)
}

// Validate checks the window for an open day
func (d DayHours) Validate() error {
	if d.Closed {
		return nil
	}
	open, err := parseClock(d.Open)
	if err != nil {
		return shared.NewDomainError("INVALID_HOURS", fmt.Sprintf("Invalid opening time %q", d.Open))
	}
	closeM, err := parseClock(d.Close)
	if err != nil {
		return shared.NewDomainError("INVALID_HOURS", fmt.Sprintf("Invalid closing time %q", d.Close))
	}
	if closeM <= open {
		return shared.NewDomainError("INVALID_HOURS", "Closing time must be after opening time")
	}
	return nil
}

// WeekSchedule holds opening windows for all seven weekdays, indexed by
// time.Weekday (Sunday = 0)
type WeekSchedule [7]DayHours

// For returns the hours for a weekday
func (w WeekSchedule) For(day time.Weekday) DayHours {
	return w[int(day)]
}

// Validate checks every open day's window
func (w WeekSchedule) Validate() error {
	for i, d := range w {
		if err := d.Validate(); err != nil {
			return shared.NewDomainError("INVALID_HOURS",
				fmt.Sprintf("%s: %s", time.Weekday(i), err.Error()))
		}
	}
	return nil
}

// Value implements driver.Valuer so GORM stores the schedule as JSON
func (w WeekSchedule) Value() (driver.Value, error) {
	return json.Marshal(w)
}

// Scan implements sql.Scanner with a validating decode
func (w *WeekSchedule) Scan(value interface{}) error {
	if value == nil {
		*w = WeekSchedule{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported schedule column type %T", value)
	}

	var decoded WeekSchedule
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("failed to decode week schedule: %w", err)
	}
	*w = decoded
	return nil
}

// DefaultWeekSchedule returns a schedule open every day from 12:00 to 22:00
func DefaultWeekSchedule() WeekSchedule {
	var w WeekSchedule
	for i := range w {
		w[i] = DayHours{Open: "12:00", Close: "22:00"}
	}
	return w
}

// parseClock parses an "HH:MM" time of day into minutes since midnight
func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return h*60 + m, nil
}
