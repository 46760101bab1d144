package scheduling

import (
	"time"

	"github.com/sabores/backend/internal/domain/shared"
)

// Validation errors
var (
	ErrOutOfHours         = shared.NewDomainError("OUT_OF_HOURS", "Requested time is outside opening hours")
	ErrTooSoon            = shared.NewDomainError("TOO_SOON", "Requested time is before the minimum lead time")
	ErrSchedulingDisabled = shared.NewDomainError("SCHEDULING_DISABLED", "Order scheduling is disabled")
)

// Slot is a single schedulable (date, time) pair in restaurant local time
type Slot struct {
	Date string `json:"date"` // 2006-01-02
	Time string `json:"time"` // 15:04
}

// Validator decides whether a requested order time is fulfillable given the
// weekly opening hours and the minimum lead time. All comparisons happen in
// the restaurant's civil timezone.
type Validator struct {
	schedule WeekSchedule
	leadTime time.Duration
	enabled  bool
	now      func() time.Time
}

// NewValidator creates a scheduling validator
func NewValidator(schedule WeekSchedule, leadTime time.Duration, enabled bool) *Validator {
	return &Validator{
		schedule: schedule,
		leadTime: leadTime,
		enabled:  enabled,
		now:      time.Now,
	}
}

// WithNow overrides the clock, for tests
func (v *Validator) WithNow(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate checks a requested order time. It fails with ErrOutOfHours when
// the weekday is closed or the time falls outside [open, close), and with
// ErrTooSoon when the time is before now plus the lead time.
func (v *Validator) Validate(requested time.Time) error {
	if !v.enabled {
		return ErrSchedulingDisabled
	}

	local := requested.In(Location())
	day := v.schedule.For(local.Weekday())
	if day.Closed {
		return ErrOutOfHours
	}

	open, err := day.OpenMinutes()
	if err != nil {
		return ErrOutOfHours
	}
	closeM, err := day.CloseMinutes()
	if err != nil {
		return ErrOutOfHours
	}

	minutes := local.Hour()*60 + local.Minute()
	if minutes < open || minutes >= closeM {
		return ErrOutOfHours
	}

	if local.Before(v.now().In(Location()).Add(v.leadTime)) {
		return ErrTooSoon
	}

	return nil
}

// AvailableSlots produces every schedulable slot for the next `days` days at
// the given step, starting today in restaurant local time. The sequence is
// finite and recomputed on every call.
func (v *Validator) AvailableSlots(days int, step time.Duration) []Slot {
	if !v.enabled || days <= 0 || step < time.Minute {
		return nil
	}

	now := v.now().In(Location())
	earliest := now.Add(v.leadTime)
	slots := make([]Slot, 0)

	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, i)
		day := v.schedule.For(date.Weekday())
		if day.Closed {
			continue
		}

		open, err := day.OpenMinutes()
		if err != nil {
			continue
		}
		closeM, err := day.CloseMinutes()
		if err != nil {
			continue
		}

		stepMinutes := int(step.Minutes())
		for m := open; m < closeM; m += stepMinutes {
			slot := time.Date(date.Year(), date.Month(), date.Day(), m/60, m%60, 0, 0, Location())
			if slot.Before(earliest) {
				continue
			}
			slots = append(slots, Slot{
				Date: slot.Format("2006-01-02"),
				Time: slot.Format("15:04"),
			})
		}
	}

	return slots
}
