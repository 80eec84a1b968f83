package scheduling

import (
	"time"

	"github.com/ViniDB27/ignite-call/internal/schedule"
)

// ResolveSlots computes the hour slots of targetDate for a provider with the
// given weekly intervals and existing bookings. It is a pure function of its
// inputs.
//
// A slot is listed when its hour is possible: permitted by the weekly interval
// of targetDate's week day and, on the current day, not yet elapsed. A listed
// slot is unavailable when a booking already occupies that hour. Dates before
// today and week days without an interval yield an empty list, not an error.
func ResolveSlots(intervals []schedule.WeekDayInterval, bookings []Booking, targetDate, now time.Time) []Slot {
	slots := []Slot{}

	if startOfDay(targetDate).Before(startOfDay(now)) {
		return slots
	}

	interval, ok := intervalFor(intervals, int(targetDate.Weekday()))
	if !ok {
		return slots
	}

	booked := bookedHours(bookings, targetDate)
	sameDay := sameDate(targetDate, now)

	possible := func(hour int) bool {
		startMinute := hour * 60
		if startMinute < interval.StartTimeInMinutes || startMinute >= interval.EndTimeInMinutes {
			return false
		}
		if sameDay && !hourOn(targetDate, hour).After(now) {
			return false
		}
		return true
	}

	available := func(hour int) bool {
		return !booked[hour]
	}

	for hour := 0; hour < 24; hour++ {
		if !possible(hour) {
			continue
		}
		slots = append(slots, Slot{Hour: hour, IsAvailable: available(hour)})
	}

	return slots
}

// TruncateToHour normalizes an instant to the start of its hour, the
// canonical slot key.
func TruncateToHour(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, t.Hour(), 0, 0, 0, t.Location())
}

func intervalFor(intervals []schedule.WeekDayInterval, weekDay int) (schedule.WeekDayInterval, bool) {
	for _, interval := range intervals {
		if interval.WeekDay == weekDay {
			return interval, true
		}
	}
	return schedule.WeekDayInterval{}, false
}

func bookedHours(bookings []Booking, targetDate time.Time) map[int]bool {
	booked := make(map[int]bool, len(bookings))
	for _, booking := range bookings {
		if sameDate(booking.Date, targetDate) {
			booked[booking.Date.Hour()] = true
		}
	}
	return booked
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func hourOn(day time.Time, hour int) time.Time {
	year, month, d := day.Date()
	return time.Date(year, month, d, hour, 0, 0, 0, day.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
