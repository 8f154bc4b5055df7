package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrorType classifies failures from the Instagram web API.
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error carries the failure class and HTTP status so callers can
// decide whether a retry or a session rotation makes sense.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("instagram %s error (code %d): %s", e.Type, e.Code, e.Message)
}

var (
	hashtagRe = regexp.MustCompile(`#\w+`)
	mentionRe = regexp.MustCompile(`@\w+`)
)

// Client talks to the public topsearch endpoint with browser-like
// headers. A session cookie is optional but raises the rate limits.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) searchURL(query string) string {
	return fmt.Sprintf(
		"%s/web/search/topsearch/?context=blended&query=%s&rank_token=0.%d&include_reel=true",
		c.baseURL,
		url.QueryEscape(query),
		time.Now().UnixMilli(),
	)
}

// Search runs a blended topsearch for query and returns up to limit
// account profiles. sessionID, when non-empty, is sent as the
// sessionid cookie.
func (c *Client) Search(ctx context.Context, query, sessionID string, limit int) ([]Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query), nil)
	if err != nil {
		return nil, &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("failed to create request: %v", err)}
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", "https://www.instagram.com/")

	if sessionID != "" {
		req.Header.Set("Cookie", fmt.Sprintf("sessionid=%s", sessionID))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Type: ErrorTypeNetwork, Message: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("query", query).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("instagram topsearch completed")

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Type: ErrorTypeNetwork, Message: fmt.Sprintf("failed to read response body: %v", err), Code: resp.StatusCode}
	}

	var parsed TopSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &Error{Type: ErrorTypeParsing, Message: fmt.Sprintf("failed to parse JSON: %v", err), Code: resp.StatusCode}
	}

	profiles := make([]Profile, 0, len(parsed.Users))
	for _, item := range parsed.Users {
		if item.User == nil {
			continue
		}
		if limit > 0 && len(profiles) >= limit {
			break
		}
		profiles = append(profiles, mapProfile(item.User, query))
	}

	return profiles, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &Error{Type: ErrorTypeAuth, Message: "authentication required, try adding a valid session ID", Code: code}
	case code == http.StatusTooManyRequests:
		return &Error{Type: ErrorTypeRateLimit, Message: "rate limit exceeded", Code: code}
	case code >= 500:
		return &Error{Type: ErrorTypeServerError, Message: "server error", Code: code}
	default:
		return &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("unexpected status code: %d", code), Code: code}
	}
}

func mapProfile(u *User, keyword string) Profile {
	bio := u.Biography
	return Profile{
		Username:       u.Username,
		FullName:       u.FullName,
		ProfileURL:     fmt.Sprintf("https://instagram.com/%s", u.Username),
		PK:             u.PK.String(),
		FollowerCount:  u.FollowerCount,
		FollowingCount: u.FollowingCount,
		MediaCount:     u.MediaCount,
		IsVerified:     u.IsVerified,
		IsBusiness:     u.IsBusinessAccount,
		IsPrivate:      u.IsPrivate,
		Category:       u.Category,
		Bio:            bio,
		ExternalURL:    u.ExternalURL,
		ProfilePicURL:  u.ProfilePicURL,
		BioHashtags:    strings.Join(hashtagRe.FindAllString(bio, -1), ", "),
		BioMentions:    strings.Join(mentionRe.FindAllString(bio, -1), ", "),
		SourceKeyword:  keyword,
	}
}

// DownloadPicture fetches a profile picture for mirroring into object
// storage. Returns the bytes and the content type reported upstream.
func (c *Client) DownloadPicture(ctx context.Context, pictureURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pictureURL, nil)
	if err != nil {
		return nil, "", &Error{Type: ErrorTypeUnknown, Message: fmt.Sprintf("failed to create request: %v", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", &Error{Type: ErrorTypeNetwork, Message: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Type: ErrorTypeNetwork, Message: fmt.Sprintf("failed to read picture: %v", err), Code: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return data, contentType, nil
}
