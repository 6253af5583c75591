package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID            string             `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username      string             `json:"username" gorm:"uniqueIndex;not null"`
	Name          string             `json:"name" gorm:"not null"`
	Email         *string            `json:"email" gorm:"uniqueIndex"`
	AvatarURL     *string            `json:"avatar_url"`
	Bio           *string            `json:"bio"`
	CreatedAt     time.Time          `json:"created_at"`
	Accounts      []Account          `json:"-" gorm:"foreignKey:UserID"`
	TimeIntervals []UserTimeInterval `json:"-" gorm:"foreignKey:UserID"`
	Schedulings   []Scheduling       `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// PublicProfile is what a visitor of the booking page may see.
type PublicProfile struct {
	Username  string  `json:"username"`
	Name      string  `json:"name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		Username:  u.Username,
		Name:      u.Name,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
	}
}

// SessionUser is the user shape carried by the session endpoint.
type SessionUser struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Name      string  `json:"name"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`
}

func (u *User) Session() SessionUser {
	return SessionUser{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}
