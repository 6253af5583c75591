package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scheduling is a meeting booked by a visitor. Date is the start of the
// one hour slot and is stored in UTC.
type Scheduling struct {
	ID             string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Date           time.Time  `json:"date" gorm:"uniqueIndex:idx_user_date;not null"`
	Name           string     `json:"name" gorm:"not null"`
	Email          string     `json:"email" gorm:"not null"`
	Observations   *string    `json:"observations"`
	GoogleEventID  *string    `json:"-"`
	ReminderSentAt *time.Time `json:"-" gorm:"index"`
	CreatedAt      time.Time  `json:"created_at"`
	UserID         string     `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_user_date;not null"`
	User           User       `json:"-" gorm:"foreignKey:UserID"`
}

func (s *Scheduling) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.Date = s.Date.UTC()
	return nil
}

// End is when the slot finishes.
func (s *Scheduling) End() time.Time {
	return s.Date.Add(time.Hour)
}
