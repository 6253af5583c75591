package models

import "time"

type RegisterUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=20,username"`
	Name     string `json:"name" validate:"required,min=3,max=40"`
}

type UpdateProfileInput struct {
	Bio string `json:"bio" validate:"required,min=3,max=240"`
}

type TimeIntervalInput struct {
	WeekDay            int `json:"weekDay" validate:"min=0,max=6"`
	StartTimeInMinutes int `json:"startTimeInMinutes" validate:"min=0,max=1440"`
	EndTimeInMinutes   int `json:"endTimeInMinutes" validate:"min=0,max=1440,gtefield=StartTimeInMinutes"`
}

type TimeIntervalsInput struct {
	Intervals []TimeIntervalInput `json:"intervals" validate:"required,min=1,max=7,dive"`
}

type CreateSchedulingInput struct {
	Name         string     `json:"name" validate:"required,min=3,max=100"`
	Email        string     `json:"email" validate:"required,email"`
	Observations *string    `json:"observations" validate:"omitempty,max=1000"`
	Date         *time.Time `json:"date" validate:"required"`
}
