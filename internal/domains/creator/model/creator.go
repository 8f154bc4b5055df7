package model

import (
	"time"
)

// Creator is one social-media profile record. username is the unique
// business key; pk is the platform-native account id.
type Creator struct {
	ID              int64     `json:"id" db:"id"`
	Username        string    `json:"username" db:"username"`
	FullName        string    `json:"full_name" db:"full_name"`
	ProfileURL      string    `json:"profile_url" db:"profile_url"`
	PK              string    `json:"pk" db:"pk"`
	FollowerCount   int64     `json:"follower_count" db:"follower_count"`
	FollowingCount  int64     `json:"following_count" db:"following_count"`
	MediaCount      int64     `json:"media_count" db:"media_count"`
	IsVerified      bool      `json:"is_verified" db:"is_verified"`
	IsBusiness      bool      `json:"is_business" db:"is_business"`
	IsPrivate       bool      `json:"is_private" db:"is_private"`
	Category        string    `json:"category" db:"category"`
	Bio             string    `json:"bio" db:"bio"`
	ExternalURL     string    `json:"external_url" db:"external_url"`
	ProfilePicURL   string    `json:"profile_pic_url" db:"profile_pic_url"`
	ProfilePicLocal string    `json:"profile_pic_local" db:"profile_pic_local"`
	BioHashtags     string    `json:"bio_hashtags" db:"bio_hashtags"`
	BioMentions     string    `json:"bio_mentions" db:"bio_mentions"`
	EngagementRate  float64   `json:"engagement_rate" db:"engagement_rate"`
	SourceKeyword   string    `json:"source_keyword" db:"source_keyword"`
	SearchScore     float64   `json:"search_score" db:"search_score"`
	ProfileType     string    `json:"profile_type" db:"profile_type"`
	ScrapedAt       time.Time `json:"scraped_at" db:"scraped_at"`
	LastUpdated     time.Time `json:"last_updated" db:"last_updated"`
}

// NormalizedUsername returns the username the way de-duplication
// compares it: trimmed and lower-cased.
func (c *Creator) NormalizedUsername() string {
	return NormalizeUsername(c.Username)
}
