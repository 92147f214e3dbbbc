package model

import (
	"time"
)

type ClockResponse struct {
	Now       time.Time `json:"now"`
	Today     string    `json:"today"`
	TimeOfDay string    `json:"timeOfDay"`
	Simulated bool      `json:"simulated"`
}

type AdvanceClockRequest struct {
	Duration string `json:"duration" binding:"required"`
}
