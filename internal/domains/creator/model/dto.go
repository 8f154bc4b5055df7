package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// MaxFollowerSentinel marks "no upper bound" in follower range
// filters. The UI sends it when the slider sits at its maximum.
const MaxFollowerSentinel = 10_000_000

// SearchFilters narrows the creator listing. Tri-state booleans use
// nil for "don't care".
type SearchFilters struct {
	Hashtags     []string `json:"hashtags"`
	Mentions     []string `json:"mentions"`
	Keywords     []string `json:"keywords"`
	MinFollowers int64    `json:"min_followers"`
	MaxFollowers int64    `json:"max_followers"`
	IsVerified   *bool    `json:"is_verified"`
	IsBusiness   *bool    `json:"is_business"`
	IsPrivate    *bool    `json:"is_private"`
	ProfileType  string   `json:"profile_type"`
	Category     string   `json:"category"`
	Limit        int      `json:"limit"`
	Offset       int      `json:"offset"`
}

func (f SearchFilters) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.MinFollowers, validation.Min(int64(0))),
		validation.Field(&f.MaxFollowers, validation.Min(int64(0))),
		validation.Field(&f.Limit, validation.Min(0), validation.Max(1000)),
		validation.Field(&f.Offset, validation.Min(0)),
	)
}

// CreateCreatorRequest is the manual-entry payload.
type CreateCreatorRequest struct {
	Username       string  `json:"username"`
	FullName       string  `json:"full_name"`
	ProfileURL     string  `json:"profile_url"`
	PK             string  `json:"pk"`
	FollowerCount  int64   `json:"follower_count"`
	FollowingCount int64   `json:"following_count"`
	MediaCount     int64   `json:"media_count"`
	IsVerified     bool    `json:"is_verified"`
	IsBusiness     bool    `json:"is_business"`
	IsPrivate      bool    `json:"is_private"`
	Category       string  `json:"category"`
	Bio            string  `json:"bio"`
	ExternalURL    string  `json:"external_url"`
	ProfilePicURL  string  `json:"profile_pic_url"`
	EngagementRate float64 `json:"engagement_rate"`
	SourceKeyword  string  `json:"source_keyword"`
	ProfileType    string  `json:"profile_type"`
}

func (r CreateCreatorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.FollowerCount, validation.Min(int64(0))),
		validation.Field(&r.FollowingCount, validation.Min(int64(0))),
		validation.Field(&r.MediaCount, validation.Min(int64(0))),
		validation.Field(&r.EngagementRate, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&r.ProfileURL, validation.When(r.ProfileURL != "", is.URL)),
		validation.Field(&r.ExternalURL, validation.When(r.ExternalURL != "", is.URL)),
	)
}

// ImportRequest carries raw import text. Format is "json" or "csv".
type ImportRequest struct {
	Format string `json:"format"`
	Data   string `json:"data"`
}

func (r ImportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Format,
			validation.Required,
			validation.In("json", "csv").Error("format must be json or csv"),
		),
		validation.Field(&r.Data, validation.Required.Error("data is required")),
	)
}

// BulkDeleteRequest removes a selection of creators in one call.
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

func (r BulkDeleteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDs,
			validation.Required.Error("at least one id is required"),
			validation.Length(1, 0),
		),
	)
}

// MergeRequest names the duplicate groups to merge, by group key.
type MergeRequest struct {
	GroupKeys []string `json:"group_keys"`
}

func (r MergeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.GroupKeys,
			validation.Required.Error("at least one group key is required"),
			validation.Length(1, 0),
		),
	)
}

// ExportRequest selects the output format: csv, tsv, json or xlsx.
type ExportRequest struct {
	Format  string        `json:"format"`
	Filters SearchFilters `json:"filters"`
}

func (r ExportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Format,
			validation.Required,
			validation.In("csv", "tsv", "json", "xlsx").Error("format must be csv, tsv, json or xlsx"),
		),
	)
}

// CreatorStats aggregates the database for the dashboard header.
// LastSync is nil while the table is empty.
type CreatorStats struct {
	TotalCreators int64      `json:"total_creators"`
	VerifiedCount int64      `json:"verified_count"`
	BusinessCount int64      `json:"business_count"`
	PrivateCount  int64      `json:"private_count"`
	AvgFollowers  float64    `json:"avg_followers"`
	MaxFollowers  int64      `json:"max_followers"`
	LastSync      *time.Time `json:"last_sync"`
}
