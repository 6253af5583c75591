package models

type WeekDay int

const (
	Sunday WeekDay = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

const MinutesPerHour = 60

// UserTimeInterval is a weekly recurring availability window. Times are
// minute offsets from midnight in the application timezone. The JSON keys
// match TimeIntervalInput so a listed set can be posted back unchanged.
type UserTimeInterval struct {
	ID                 uint    `json:"id" gorm:"primaryKey"`
	WeekDay            WeekDay `json:"weekDay" gorm:"uniqueIndex:idx_user_week_day;not null"`
	StartTimeInMinutes int     `json:"startTimeInMinutes" gorm:"not null"`
	EndTimeInMinutes   int     `json:"endTimeInMinutes" gorm:"not null"`
	UserID             string  `json:"userId" gorm:"type:varchar(36);uniqueIndex:idx_user_week_day;not null"`
}

func (i UserTimeInterval) StartHour() int {
	return i.StartTimeInMinutes / MinutesPerHour
}

func (i UserTimeInterval) EndHour() int {
	return i.EndTimeInMinutes / MinutesPerHour
}

// Capacity is the number of hour slots the interval offers, one per hour in
// [StartHour, EndHour).
func (i UserTimeInterval) Capacity() int {
	if n := i.EndHour() - i.StartHour(); n > 0 {
		return n
	}
	return 0
}
