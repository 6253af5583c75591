package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/meinhoongagan/ignite-call/db"
	"github.com/meinhoongagan/ignite-call/models"
	"github.com/meinhoongagan/ignite-call/redis"
	"github.com/meinhoongagan/ignite-call/utils"
)

// GetTimeIntervals lists the signed in user's weekly availability.
func GetTimeIntervals(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var intervals []models.UserTimeInterval
	if err := db.DB.WithContext(c.UserContext()).
		Where("user_id = ?", user.ID).
		Order("week_day").
		Find(&intervals).Error; err != nil {
		return fmt.Errorf("list time intervals: %w", err)
	}
	return c.JSON(fiber.Map{"intervals": intervals})
}

// CreateTimeIntervals replaces the signed in user's weekly availability.
func CreateTimeIntervals(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input models.TimeIntervalsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if fields := utils.Validate(input); fields != nil {
		return utils.ValidationError(c, fields)
	}
	if fields := checkIntervals(input.Intervals); fields != nil {
		return utils.ValidationError(c, fields)
	}

	intervals := make([]models.UserTimeInterval, 0, len(input.Intervals))
	for _, in := range input.Intervals {
		intervals = append(intervals, models.UserTimeInterval{
			WeekDay:            models.WeekDay(in.WeekDay),
			StartTimeInMinutes: in.StartTimeInMinutes,
			EndTimeInMinutes:   in.EndTimeInMinutes,
			UserID:             user.ID,
		})
	}

	err = db.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserTimeInterval{}).Error; err != nil {
			return fmt.Errorf("clear time intervals: %w", err)
		}
		if err := tx.Create(&intervals).Error; err != nil {
			return fmt.Errorf("create time intervals: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	redis.DeleteUserBlockedDates(c.UserContext(), user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"intervals": intervals})
}

// checkIntervals enforces what struct tags cannot: one interval per weekday
// and at least one hour between start and end.
func checkIntervals(intervals []models.TimeIntervalInput) map[string]string {
	fields := map[string]string{}
	seen := make(map[int]bool, len(intervals))
	for i, in := range intervals {
		key := fmt.Sprintf("intervals[%d]", i)
		if seen[in.WeekDay] {
			fields[key+".weekDay"] = "Week day repeated"
		}
		seen[in.WeekDay] = true
		if in.EndTimeInMinutes-in.StartTimeInMinutes < models.MinutesPerHour {
			fields[key+".endTimeInMinutes"] = "End time must be at least one hour after the start"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
