package controllers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/meinhoongagan/ignite-call/db"
	"github.com/meinhoongagan/ignite-call/logger"
	"github.com/meinhoongagan/ignite-call/metrics"
	"github.com/meinhoongagan/ignite-call/models"
	"github.com/meinhoongagan/ignite-call/redis"
	"github.com/meinhoongagan/ignite-call/utils"
)

const sideEffectTimeout = 10 * time.Second

// GetBlockedDates returns the weekdays without availability and the days of
// the month whose slots are all booked.
// GET /api/users/:username/blocked-dates?year=2024&month=3
func GetBlockedDates(c *fiber.Ctx) error {
	year, errYear := strconv.Atoi(c.Query("year"))
	month, errMonth := strconv.Atoi(c.Query("month"))
	if errYear != nil || errMonth != nil || year < 1 || month < 1 || month > 12 {
		return utils.JSONError(c, fiber.StatusBadRequest, "Year and month are required")
	}

	user, err := findUserByUsername(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	key := redis.BlockedDatesKey(user.ID, year, time.Month(month))

	var result utils.BlockedDatesResult
	if redis.GetJSON(ctx, key, &result) {
		metrics.IncCacheLookup(true)
		return c.JSON(result)
	}
	metrics.IncCacheLookup(false)

	result, err = utils.ComputeBlockedDates(db.DB.WithContext(ctx), user.ID, year, time.Month(month))
	if err != nil {
		return err
	}
	redis.SetJSON(ctx, key, result)
	return c.JSON(result)
}

// GetAvailability returns the possible and still available hours of a day.
// GET /api/users/:username/availability?date=2024-03-18
func GetAvailability(c *fiber.Ctx) error {
	day, err := utils.ParseDay(c.Query("date"))
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "Date not provided")
	}

	user, err := findUserByUsername(c)
	if err != nil {
		return err
	}

	availability, err := utils.ComputeAvailability(db.DB.WithContext(c.UserContext()), user.ID, day)
	if err != nil {
		return err
	}
	return c.JSON(availability)
}

// CreateScheduling books an hour slot with the user.
// POST /api/users/:username/schedule
func CreateScheduling(c *fiber.Ctx) error {
	user, err := findUserByUsername(c)
	if err != nil {
		return err
	}

	var input models.CreateSchedulingInput
	if err := c.BodyParser(&input); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if fields := utils.Validate(input); fields != nil {
		return utils.ValidationError(c, fields)
	}

	slot := utils.StartOfHour(*input.Date)
	if slot.Before(utils.Now()) {
		metrics.IncSchedulingRejected("past")
		return utils.ErrDateInPast
	}

	scheduling := models.Scheduling{
		Date:         slot,
		Name:         input.Name,
		Email:        input.Email,
		Observations: input.Observations,
		UserID:       user.ID,
	}

	err = db.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		within, err := utils.CheckWithinAvailability(tx, user.ID, slot)
		if err != nil {
			return err
		}
		if !within {
			return utils.ErrOutsideAvailability
		}

		free, err := utils.CheckSlotAvailability(tx, user.ID, slot)
		if err != nil {
			return err
		}
		if !free {
			return utils.ErrSlotTaken
		}

		if err := tx.Create(&scheduling).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrSlotTaken
			}
			return fmt.Errorf("create scheduling: %w", err)
		}
		return nil
	})
	switch {
	case errors.Is(err, utils.ErrOutsideAvailability):
		metrics.IncSchedulingRejected("outside_availability")
		return err
	case errors.Is(err, utils.ErrSlotTaken):
		metrics.IncSchedulingRejected("taken")
		return err
	case err != nil:
		return err
	}

	metrics.IncSchedulingCreated()
	local := utils.ToLocal(slot)
	redis.Delete(c.UserContext(), redis.BlockedDatesKey(user.ID, local.Year(), local.Month()))

	logger.Log.Info().
		Str("scheduling_id", scheduling.ID).
		Str("user_id", user.ID).
		Time("date", scheduling.Date).
		Msg("scheduling created")

	// the guest does not wait on Google or SMTP
	effects := bookingEffects{conn: db.DB, calendar: utils.Calendar, mailer: utils.Mail}
	go effects.run(*user, scheduling)

	return c.Status(fiber.StatusCreated).JSON(scheduling)
}

// bookingEffects holds what the post-commit work needs, taken when the request
// arrives so the goroutine does not read globals that may be swapped later.
type bookingEffects struct {
	conn     *gorm.DB
	calendar utils.CalendarService
	mailer   utils.Mailer
}

func (e bookingEffects) run(host models.User, booked models.Scheduling) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	e.addToCalendar(ctx, &host, &booked)
	e.notifyHost(&host, &booked)
}

// addToCalendar puts the meeting on the host's Google Calendar. Failures are logged only.
func (e bookingEffects) addToCalendar(ctx context.Context, user *models.User, scheduling *models.Scheduling) {
	if e.calendar == nil || e.conn == nil {
		return
	}

	var account models.Account
	err := e.conn.WithContext(ctx).
		Where("user_id = ? AND provider = ?", user.ID, models.ProviderGoogle).
		Take(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	if err != nil {
		logger.Log.Error().Err(err).Str("user_id", user.ID).Msg("load google account")
		return
	}

	description := ""
	if scheduling.Observations != nil {
		description = *scheduling.Observations
	}
	eventID, tok, err := e.calendar.CreateEvent(ctx, account.Token(), utils.CalendarEvent{
		RequestID:     scheduling.ID,
		Summary:       "Ignite Call: " + scheduling.Name,
		Description:   description,
		Start:         utils.ToLocal(scheduling.Date),
		End:           utils.ToLocal(scheduling.End()),
		AttendeeName:  scheduling.Name,
		AttendeeEmail: scheduling.Email,
	})
	if tok != nil && tok.AccessToken != "" && (account.AccessToken == nil || tok.AccessToken != *account.AccessToken) {
		account.SetToken(tok)
		if err := e.conn.WithContext(ctx).Save(&account).Error; err != nil {
			logger.Log.Error().Err(err).Str("account_id", account.ID).Msg("store refreshed token")
		}
	}
	if err != nil {
		metrics.IncCalendarEvent("error")
		logger.Log.Error().Err(err).Str("scheduling_id", scheduling.ID).Msg("create calendar event")
		return
	}

	metrics.IncCalendarEvent("created")
	scheduling.GoogleEventID = &eventID
	if err := e.conn.WithContext(ctx).Model(scheduling).Update("google_event_id", eventID).Error; err != nil {
		logger.Log.Error().Err(err).Str("scheduling_id", scheduling.ID).Msg("store calendar event id")
	}
}

// notifyHost emails the host about the new booking. Failures are logged only.
func (e bookingEffects) notifyHost(user *models.User, scheduling *models.Scheduling) {
	if e.mailer == nil || user.Email == nil {
		return
	}

	local := utils.ToLocal(scheduling.Date)
	observations := "-"
	if scheduling.Observations != nil && *scheduling.Observations != "" {
		observations = html.EscapeString(*scheduling.Observations)
	}
	subject := fmt.Sprintf("New booking on %s", local.Format("02/01/2006 15:04"))
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>%s booked a meeting with you.</p>
		<ul>
			<li><strong>Date:</strong> %s</li>
			<li><strong>E-mail:</strong> %s</li>
			<li><strong>Observations:</strong> %s</li>
		</ul>
	`, html.EscapeString(user.Name), html.EscapeString(scheduling.Name),
		local.Format("02/01/2006 15:04"), html.EscapeString(scheduling.Email), observations)

	if err := e.mailer.Send(*user.Email, subject, body); err != nil {
		logger.Log.Error().Err(err).Str("scheduling_id", scheduling.ID).Msg("notify host")
	}
}
