package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var ErrJobNotFound = errors.New("scraping job not found")

// Job statuses.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ScrapingJob tracks one search-and-save run against Instagram.
type ScrapingJob struct {
	ID           int64      `json:"id" db:"id"`
	SearchQuery  string     `json:"search_query" db:"search_query"`
	Status       string     `json:"status" db:"status"`
	TotalFound   int        `json:"total_found" db:"total_found"`
	TotalSaved   int        `json:"total_saved" db:"total_saved"`
	ErrorMessage string     `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// ScrapeRequest triggers a scrape. Wait=true runs it inline and
// returns the finished job; otherwise it is queued for the worker.
type ScrapeRequest struct {
	SearchQuery string `json:"search_query"`
	Limit       int    `json:"limit"`
	Wait        bool   `json:"wait"`
}

func (r ScrapeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SearchQuery,
			validation.Required.Error("search_query is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(200)),
	)
}
