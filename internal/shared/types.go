package shared

// Asynq task type names.
const (
	TypeScrapeSearch  = "scrape:search"
	TypeMirrorPicture = "media:mirror_picture"
)

// ScrapeSearchPayload is the queued form of a scraping job.
type ScrapeSearchPayload struct {
	JobID       int64  `json:"job_id"`
	SearchQuery string `json:"search_query"`
	Limit       int    `json:"limit"`
}

// MirrorPicturePayload asks the worker to copy one profile picture
// into object storage.
type MirrorPicturePayload struct {
	CreatorID  int64  `json:"creator_id"`
	Username   string `json:"username"`
	PictureURL string `json:"picture_url"`
}
