package instagram

import "encoding/json"

// TopSearchResponse is the payload returned by the blended topsearch
// endpoint. Only the user results are consumed.
type TopSearchResponse struct {
	Users  []UserResult `json:"users"`
	Status string       `json:"status"`
}

type UserResult struct {
	Position int   `json:"position"`
	User     *User `json:"user"`
}

// User is the raw account object inside a search result. PK is a
// json.Number because the API returns it as a number for some accounts
// and a string for others.
type User struct {
	PK                json.Number `json:"pk"`
	Username          string      `json:"username"`
	FullName          string      `json:"full_name"`
	IsPrivate         bool        `json:"is_private"`
	IsVerified        bool        `json:"is_verified"`
	IsBusinessAccount bool        `json:"is_business_account"`
	FollowerCount     int64       `json:"follower_count"`
	FollowingCount    int64       `json:"following_count"`
	MediaCount        int64       `json:"media_count"`
	Category          string      `json:"category"`
	Biography         string      `json:"biography"`
	ExternalURL       string      `json:"external_url"`
	ProfilePicURL     string      `json:"profile_pic_url"`
}

// Profile is a search result flattened into the creator schema, with
// hashtags and mentions already extracted from the bio.
type Profile struct {
	Username       string
	FullName       string
	ProfileURL     string
	PK             string
	FollowerCount  int64
	FollowingCount int64
	MediaCount     int64
	IsVerified     bool
	IsBusiness     bool
	IsPrivate      bool
	Category       string
	Bio            string
	ExternalURL    string
	ProfilePicURL  string
	BioHashtags    string
	BioMentions    string
	SourceKeyword  string
}
