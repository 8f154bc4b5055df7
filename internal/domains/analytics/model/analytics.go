package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Event is one tracked dashboard action (search run, import, merge,
// export). Payload is free-form JSON.
type Event struct {
	ID        int64                  `json:"id" db:"id"`
	EventType string                 `json:"event_type" db:"event_type"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}

type TrackEventRequest struct {
	EventType string                 `json:"event_type"`
	Payload   map[string]interface{} `json:"payload"`
}

func (r TrackEventRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EventType,
			validation.Required.Error("event_type is required"),
			validation.Length(1, 100),
		),
	)
}

// EngagementTrend is one day of scraped-profile aggregates.
type EngagementTrend struct {
	Date          string  `json:"date"`
	Creators      int64   `json:"creators"`
	AvgEngagement float64 `json:"avg_engagement"`
	AvgFollowers  float64 `json:"avg_followers"`
}
