package utils

import "time"

// Location is the timezone weekdays and hours are interpreted in.
var Location = time.UTC

// Now is swapped in tests.
var Now = time.Now

func SetLocation(loc *time.Location) {
	if loc != nil {
		Location = loc
	}
}

// ToLocal converts t to the application timezone.
func ToLocal(t time.Time) time.Time {
	return t.In(Location)
}

// StartOfHour truncates t to the hour in the application timezone.
func StartOfHour(t time.Time) time.Time {
	l := ToLocal(t)
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), 0, 0, 0, Location)
}

// ParseDay reads a YYYY-MM-DD date as midnight in the application timezone.
func ParseDay(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, Location)
}

// MonthRange returns [first day of month, first day of next month) in the application timezone.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, Location)
	return start, start.AddDate(0, 1, 0)
}
