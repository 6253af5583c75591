package utils

import (
	"sort"
	"time"

	"github.com/meinhoongagan/ignite-call/models"
)

const daysInWeek = 7

// BlockedDatesResult is the month view of a user's calendar.
type BlockedDatesResult struct {
	BlockedWeekDays []int `json:"blockedWeekDays"`
	BlockedDates    []int `json:"blockedDates"`
}

// DayAvailability lists the hours of a day the user offers and the ones still free.
type DayAvailability struct {
	PossibleTimes  []int `json:"possibleTimes"`
	AvailableTimes []int `json:"availableTimes"`
}

func emptyDay() DayAvailability {
	return DayAvailability{PossibleTimes: []int{}, AvailableTimes: []int{}}
}

// BlockedWeekDays returns, ascending, every weekday that has no interval.
func BlockedWeekDays(intervals []models.UserTimeInterval) []int {
	available := make(map[models.WeekDay]bool, len(intervals))
	for _, i := range intervals {
		available[i.WeekDay] = true
	}

	blocked := make([]int, 0, daysInWeek)
	for day := 0; day < daysInWeek; day++ {
		if !available[models.WeekDay(day)] {
			blocked = append(blocked, day)
		}
	}
	return blocked
}

// BlockedDates returns the days of the month whose bookings fill the
// interval configured for that weekday. Bookings are bucketed by their
// calendar day in loc; bookings outside the month are ignored.
func BlockedDates(year int, month time.Month, intervals []models.UserTimeInterval, bookings []time.Time, loc *time.Location) []int {
	byWeekDay := make(map[time.Weekday]models.UserTimeInterval, len(intervals))
	for _, i := range intervals {
		byWeekDay[time.Weekday(i.WeekDay)] = i
	}

	amount := make(map[int]int)
	for _, b := range bookings {
		local := b.In(loc)
		if local.Year() != year || local.Month() != month {
			continue
		}
		amount[local.Day()]++
	}

	blocked := make([]int, 0, len(amount))
	for day, count := range amount {
		weekDay := time.Date(year, month, day, 0, 0, 0, 0, loc).Weekday()
		interval, ok := byWeekDay[weekDay]
		if !ok {
			// already blocked as a weekday
			continue
		}
		if count >= interval.Capacity() {
			blocked = append(blocked, day)
		}
	}
	sort.Ints(blocked)
	return blocked
}

// ComputeDayAvailability works out the hour slots of day. day may carry any
// time, only its calendar date in its own location is used. interval is the
// user's interval for that weekday or nil. booked holds the start of every
// scheduling on that day.
func ComputeDayAvailability(day time.Time, interval *models.UserTimeInterval, booked []time.Time, now time.Time) DayAvailability {
	loc := day.Location()
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	if !endOfDay.After(now) || interval == nil {
		return emptyDay()
	}

	taken := make(map[int]bool, len(booked))
	for _, b := range booked {
		local := b.In(loc)
		if local.YearDay() == startOfDay.YearDay() && local.Year() == startOfDay.Year() {
			taken[local.Hour()] = true
		}
	}

	result := emptyDay()
	for hour := interval.StartHour(); hour < interval.EndHour(); hour++ {
		result.PossibleTimes = append(result.PossibleTimes, hour)

		slot := time.Date(startOfDay.Year(), startOfDay.Month(), startOfDay.Day(), hour, 0, 0, 0, loc)
		if taken[hour] || slot.Before(now) {
			continue
		}
		result.AvailableTimes = append(result.AvailableTimes, hour)
	}
	return result
}

// SlotWithinInterval reports whether slot is one of the possible hours of
// interval. slot must already be expressed in the application timezone.
func SlotWithinInterval(slot time.Time, interval models.UserTimeInterval) bool {
	if time.Weekday(interval.WeekDay) != slot.Weekday() {
		return false
	}
	return slot.Hour() >= interval.StartHour() && slot.Hour() < interval.EndHour()
}
