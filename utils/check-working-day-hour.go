package utils

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/meinhoongagan/ignite-call/models"
)

// FindTimeInterval returns userID's interval for weekDay, or nil when the user is not available that day.
func FindTimeInterval(tx *gorm.DB, userID string, weekDay models.WeekDay) (*models.UserTimeInterval, error) {
	var interval models.UserTimeInterval
	err := tx.Where("user_id = ? AND week_day = ?", userID, weekDay).Take(&interval).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find time interval: %w", err)
	}
	return &interval, nil
}

// CheckWithinAvailability reports whether slot, already truncated to the
// hour, is one of the hours userID offers on that weekday.
func CheckWithinAvailability(tx *gorm.DB, userID string, slot time.Time) (bool, error) {
	local := ToLocal(slot)
	interval, err := FindTimeInterval(tx, userID, models.WeekDay(local.Weekday()))
	if err != nil {
		return false, err
	}
	if interval == nil {
		return false, nil
	}
	return SlotWithinInterval(local, *interval), nil
}
