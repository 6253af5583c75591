package cron

import (
	"fmt"
	"html"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/meinhoongagan/ignite-call/db"
	"github.com/meinhoongagan/ignite-call/logger"
	"github.com/meinhoongagan/ignite-call/metrics"
	"github.com/meinhoongagan/ignite-call/models"
	"github.com/meinhoongagan/ignite-call/utils"
)

// Reminders are sent for meetings starting within this window from now.
const (
	reminderWindowStart = 55 * time.Minute
	reminderWindowEnd   = 65 * time.Minute
)

// StartCronJobs starts the reminder scheduler. The returned cron must be stopped on shutdown.
func StartCronJobs(schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(utils.Location))
	if _, err := c.AddFunc(schedule, func() {
		if _, err := SendSchedulingReminders(); err != nil {
			logger.Log.Error().Err(err).Msg("reminder job failed")
		}
	}); err != nil {
		return nil, fmt.Errorf("cron: add reminder job %q: %w", schedule, err)
	}
	c.Start()
	logger.Log.Info().Str("schedule", schedule).Msg("reminder scheduler started")
	return c, nil
}

// SendSchedulingReminders emails every guest whose meeting starts in about an
// hour and has not been reminded yet. It returns how many reminders were sent.
func SendSchedulingReminders() (int, error) {
	if utils.Mail == nil {
		return 0, nil
	}
	now := utils.Now()

	var schedulings []models.Scheduling
	err := db.DB.Preload("User").
		Where("reminder_sent_at IS NULL AND date BETWEEN ? AND ?",
			now.Add(reminderWindowStart).UTC(), now.Add(reminderWindowEnd).UTC()).
		Find(&schedulings).Error
	if err != nil {
		return 0, fmt.Errorf("cron: fetch schedulings: %w", err)
	}

	sent := 0
	for i := range schedulings {
		s := &schedulings[i]
		if err := sendReminderEmail(s); err != nil {
			metrics.IncReminder("error")
			logger.Log.Error().Err(err).Str("scheduling_id", s.ID).Msg("send reminder")
			continue
		}

		sentAt := utils.Now().UTC()
		if err := db.DB.Model(s).Update("reminder_sent_at", sentAt).Error; err != nil {
			logger.Log.Error().Err(err).Str("scheduling_id", s.ID).Msg("mark reminder sent")
			continue
		}
		metrics.IncReminder("sent")
		sent++
	}

	if sent > 0 {
		logger.Log.Info().Int("sent", sent).Msg("reminders sent")
	}
	return sent, nil
}

func sendReminderEmail(s *models.Scheduling) error {
	local := utils.ToLocal(s.Date)
	subject := fmt.Sprintf("Reminder: meeting with %s at %s", s.User.Name, local.Format("15:04"))
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>This is a reminder that your meeting with %s starts in one hour.</p>
		<ul>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s - %s</li>
		</ul>
		<p>See you there!</p>
	`, html.EscapeString(s.Name), html.EscapeString(s.User.Name),
		local.Format("02/01/2006"), local.Format("15:04"), utils.ToLocal(s.End()).Format("15:04"))

	return utils.SendEmail(s.Email, subject, body)
}
