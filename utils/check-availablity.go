package utils

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meinhoongagan/ignite-call/models"
)

// CheckSlotAvailability reports whether the hour slot starting at slot is
// still free for userID. Inside a transaction the matching row is locked.
func CheckSlotAvailability(tx *gorm.DB, userID string, slot time.Time) (bool, error) {
	var existing models.Scheduling
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND date = ?", userID, slot.UTC()).
		Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check slot: %w", err)
	}
	return false, nil
}

// SchedulingDatesBetween returns the start of every scheduling of userID in [from, to).
func SchedulingDatesBetween(tx *gorm.DB, userID string, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := tx.Model(&models.Scheduling{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from.UTC(), to.UTC()).
		Order("date").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("list schedulings: %w", err)
	}
	return dates, nil
}

// ComputeBlockedDates builds the month view of userID's calendar.
func ComputeBlockedDates(tx *gorm.DB, userID string, year int, month time.Month) (BlockedDatesResult, error) {
	var intervals []models.UserTimeInterval
	if err := tx.Where("user_id = ?", userID).Find(&intervals).Error; err != nil {
		return BlockedDatesResult{}, fmt.Errorf("list time intervals: %w", err)
	}

	from, to := MonthRange(year, month)
	dates, err := SchedulingDatesBetween(tx, userID, from, to)
	if err != nil {
		return BlockedDatesResult{}, err
	}

	return BlockedDatesResult{
		BlockedWeekDays: BlockedWeekDays(intervals),
		BlockedDates:    BlockedDates(year, month, intervals, dates, Location),
	}, nil
}

// ComputeAvailability builds the hour slots of day for userID. day is
// midnight in the application timezone.
func ComputeAvailability(tx *gorm.DB, userID string, day time.Time) (DayAvailability, error) {
	interval, err := FindTimeInterval(tx, userID, models.WeekDay(day.Weekday()))
	if err != nil {
		return DayAvailability{}, err
	}
	if interval == nil {
		return emptyDay(), nil
	}

	dates, err := SchedulingDatesBetween(tx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return DayAvailability{}, err
	}
	return ComputeDayAvailability(day, interval, dates, Now()), nil
}
