package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// 2024-06-10 is a Monday
func monday10h() time.Time {
	return time.Date(2024, 6, 10, 10, 0, 0, 0, Location())
}

func TestValidate(t *testing.T) {
	schedule := DefaultWeekSchedule() // 12:00-22:00 every day

	t.Run("accepts time inside opening hours beyond lead time", func(t *testing.T) {
		v := NewValidator(schedule, 30*time.Minute, true).WithNow(fixedClock(monday10h()))
		err := v.Validate(time.Date(2024, 6, 10, 13, 0, 0, 0, Location()))
		assert.NoError(t, err)
	})

	t.Run("closed weekday fails with OutOfHours", func(t *testing.T) {
		s := schedule
		s[time.Wednesday] = DayHours{Closed: true}
		v := NewValidator(s, 30*time.Minute, true).WithNow(fixedClock(monday10h()))

		// 2024-06-12 is a Wednesday
		err := v.Validate(time.Date(2024, 6, 12, 13, 0, 0, 0, Location()))
		assert.ErrorIs(t, err, ErrOutOfHours)
	})

	t.Run("before opening fails with OutOfHours", func(t *testing.T) {
		v := NewValidator(schedule, 30*time.Minute, true).WithNow(fixedClock(monday10h()))
		err := v.Validate(time.Date(2024, 6, 10, 11, 59, 0, 0, Location()))
		assert.ErrorIs(t, err, ErrOutOfHours)
	})

	t.Run("closing time is exclusive", func(t *testing.T) {
		v := NewValidator(schedule, 30*time.Minute, true).WithNow(fixedClock(monday10h()))

		err := v.Validate(time.Date(2024, 6, 10, 22, 0, 0, 0, Location()))
		assert.ErrorIs(t, err, ErrOutOfHours)

		err = v.Validate(time.Date(2024, 6, 10, 21, 59, 0, 0, Location()))
		assert.NoError(t, err)
	})

	t.Run("opening time is inclusive", func(t *testing.T) {
		v := NewValidator(schedule, 30*time.Minute, true).WithNow(fixedClock(monday10h()))
		err := v.Validate(time.Date(2024, 6, 10, 12, 0, 0, 0, Location()))
		assert.NoError(t, err)
	})

	t.Run("inside hours but before lead time fails with TooSoon", func(t *testing.T) {
		now := time.Date(2024, 6, 10, 13, 0, 0, 0, Location())
		v := NewValidator(schedule, time.Hour, true).WithNow(fixedClock(now))

		err := v.Validate(time.Date(2024, 6, 10, 13, 30, 0, 0, Location()))
		assert.ErrorIs(t, err, ErrTooSoon)

		err = v.Validate(time.Date(2024, 6, 10, 14, 0, 0, 0, Location()))
		assert.NoError(t, err)
	})

	t.Run("comparison uses restaurant local time regardless of input zone", func(t *testing.T) {
		v := NewValidator(schedule, 30*time.Minute, true).WithNow(fixedClock(monday10h()))

		// 11:00 UTC on 2024-06-10 is 12:00 in Lisbon (WEST, UTC+1)
		err := v.Validate(time.Date(2024, 6, 10, 11, 0, 0, 0, time.UTC))
		assert.NoError(t, err)

		// 10:30 UTC is 11:30 local, before opening
		err = v.Validate(time.Date(2024, 6, 10, 10, 30, 0, 0, time.UTC))
		assert.ErrorIs(t, err, ErrOutOfHours)
	})

	t.Run("disabled scheduling rejects everything", func(t *testing.T) {
		v := NewValidator(schedule, 30*time.Minute, false).WithNow(fixedClock(monday10h()))
		err := v.Validate(time.Date(2024, 6, 10, 13, 0, 0, 0, Location()))
		assert.ErrorIs(t, err, ErrSchedulingDisabled)
	})
}

func TestAvailableSlots(t *testing.T) {
	schedule := DefaultWeekSchedule()

	t.Run("produces slots within open hours beyond lead time", func(t *testing.T) {
		now := time.Date(2024, 6, 10, 21, 0, 0, 0, Location())
		v := NewValidator(schedule, 30*time.Minute, true).WithNow(fixedClock(now))

		slots := v.AvailableSlots(2, 30*time.Minute)
		require.NotEmpty(t, slots)

		// today only 21:30 remains (earliest = 21:30, close 22:00 exclusive)
		assert.Equal(t, Slot{Date: "2024-06-10", Time: "21:30"}, slots[0])
		// tomorrow starts at opening
		assert.Contains(t, slots, Slot{Date: "2024-06-11", Time: "12:00"})

		for _, s := range slots {
			assert.NotEqual(t, "22:00", s.Time)
		}
	})

	t.Run("skips closed days", func(t *testing.T) {
		s := schedule
		s[time.Tuesday] = DayHours{Closed: true}
		now := monday10h()
		v := NewValidator(s, 30*time.Minute, true).WithNow(fixedClock(now))

		slots := v.AvailableSlots(3, time.Hour)
		for _, slot := range slots {
			assert.NotEqual(t, "2024-06-11", slot.Date, "Tuesday should have no slots")
		}
		assert.Contains(t, slots, Slot{Date: "2024-06-12", Time: "12:00"})
	})

	t.Run("every produced slot passes Validate", func(t *testing.T) {
		now := monday10h()
		v := NewValidator(schedule, 45*time.Minute, true).WithNow(fixedClock(now))

		for _, slot := range v.AvailableSlots(7, 30*time.Minute) {
			parsed, err := time.ParseInLocation("2006-01-02 15:04", slot.Date+" "+slot.Time, Location())
			require.NoError(t, err)
			assert.NoError(t, v.Validate(parsed), "slot %v should validate", slot)
		}
	})

	t.Run("empty when step under a minute", func(t *testing.T) {
		// A sub-minute step truncates to zero whole minutes, which
		// would never advance the slot cursor.
		v := NewValidator(schedule, 0, true).WithNow(fixedClock(monday10h()))
		assert.Empty(t, v.AvailableSlots(1, 30*time.Second))
		assert.Empty(t, v.AvailableSlots(1, 0))
	})

	t.Run("empty when disabled", func(t *testing.T) {
		v := NewValidator(schedule, 0, false).WithNow(fixedClock(monday10h()))
		assert.Empty(t, v.AvailableSlots(7, 30*time.Minute))
	})

	t.Run("recomputed per call", func(t *testing.T) {
		v := NewValidator(schedule, 0, true).WithNow(fixedClock(monday10h()))
		first := v.AvailableSlots(1, time.Hour)
		second := v.AvailableSlots(1, time.Hour)
		assert.Equal(t, first, second)
	})
}

func TestWeekSchedule(t *testing.T) {
	t.Run("validate rejects inverted window", func(t *testing.T) {
		s := DefaultWeekSchedule()
		s[time.Monday] = DayHours{Open: "22:00", Close: "12:00"}
		assert.Error(t, s.Validate())
	})

	t.Run("validate rejects malformed clock", func(t *testing.T) {
		s := DefaultWeekSchedule()
		s[time.Monday] = DayHours{Open: "noon", Close: "22:00"}
		assert.Error(t, s.Validate())
	})

	t.Run("closed day needs no window", func(t *testing.T) {
		s := DefaultWeekSchedule()
		s[time.Monday] = DayHours{Closed: true}
		assert.NoError(t, s.Validate())
	})

	t.Run("round trip through database value", func(t *testing.T) {
		s := DefaultWeekSchedule()
		s[time.Sunday] = DayHours{Closed: true}

		value, err := s.Value()
		require.NoError(t, err)

		var decoded WeekSchedule
		require.NoError(t, decoded.Scan(value))
		assert.Equal(t, s, decoded)
	})
}
