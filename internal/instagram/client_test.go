package instagram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topsearchBody = `{
	"users": [
		{"position": 0, "user": {
			"pk": 17841400000,
			"username": "travel_alice",
			"full_name": "Alice",
			"is_verified": true,
			"is_private": false,
			"is_business_account": true,
			"follower_count": 12000,
			"following_count": 300,
			"media_count": 85,
			"biography": "Exploring #travel and #food with @bob",
			"category": "Travel",
			"external_url": "https://alice.example",
			"profile_pic_url": "https://cdn.example/a.jpg"
		}},
		{"position": 1, "user": {
			"pk": "99887766",
			"username": "foodie_bob",
			"full_name": "Bob",
			"biography": ""
		}},
		{"position": 2}
	],
	"status": "ok"
}`

func TestSearchParsesProfiles(t *testing.T) {
	var gotPath, gotCookie, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCookie = r.Header.Get("Cookie")
		gotUA = r.Header.Get("User-Agent")

		assert.Equal(t, "blended", r.URL.Query().Get("context"))
		assert.Equal(t, "travel", r.URL.Query().Get("query"))
		assert.Equal(t, "true", r.URL.Query().Get("include_reel"))
		assert.NotEmpty(t, r.URL.Query().Get("rank_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(topsearchBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	profiles, err := c.Search(context.Background(), "travel", "", 0)

	require.NoError(t, err)
	assert.Equal(t, "/web/search/topsearch/", gotPath)
	assert.Empty(t, gotCookie)
	assert.Contains(t, gotUA, "Chrome/120")

	// The entry without a user object is dropped.
	require.Len(t, profiles, 2)

	p := profiles[0]
	assert.Equal(t, "travel_alice", p.Username)
	assert.Equal(t, "17841400000", p.PK)
	assert.Equal(t, "https://instagram.com/travel_alice", p.ProfileURL)
	assert.Equal(t, int64(12000), p.FollowerCount)
	assert.True(t, p.IsVerified)
	assert.True(t, p.IsBusiness)
	assert.Equal(t, "#travel, #food", p.BioHashtags)
	assert.Equal(t, "@bob", p.BioMentions)
	assert.Equal(t, "travel", p.SourceKeyword)

	// pk arrives as a string for some accounts.
	assert.Equal(t, "99887766", profiles[1].PK)
}

func TestSearchSendsSessionCookie(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(`{"users": [], "status": "ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Search(context.Background(), "travel", "abc123token", 0)

	require.NoError(t, err)
	assert.Equal(t, "sessionid=abc123token", gotCookie)
}

func TestSearchLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(topsearchBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	profiles, err := c.Search(context.Background(), "travel", "", 1)

	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestSearchErrorTaxonomy(t *testing.T) {
	tests := []struct {
		status   int
		wantType ErrorType
	}{
		{http.StatusUnauthorized, ErrorTypeAuth},
		{http.StatusForbidden, ErrorTypeAuth},
		{http.StatusTooManyRequests, ErrorTypeRateLimit},
		{http.StatusInternalServerError, ErrorTypeServerError},
		{http.StatusBadGateway, ErrorTypeServerError},
		{http.StatusTeapot, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, 5*time.Second)
			_, err := c.Search(context.Background(), "travel", "", 0)

			require.Error(t, err)
			var igErr *Error
			require.True(t, errors.As(err, &igErr))
			assert.Equal(t, tt.wantType, igErr.Type)
			assert.Equal(t, tt.status, igErr.Code)
		})
	}
}

func TestSearchParsingError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>login required</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.Search(context.Background(), "travel", "", 0)

	require.Error(t, err)
	var igErr *Error
	require.True(t, errors.As(err, &igErr))
	assert.Equal(t, ErrorTypeParsing, igErr.Type)
}

func TestSearchNetworkError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := c.Search(context.Background(), "travel", "", 0)

	require.Error(t, err)
	var igErr *Error
	require.True(t, errors.As(err, &igErr))
	assert.Equal(t, ErrorTypeNetwork, igErr.Type)
}

func TestDownloadPicture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer srv.Close()

	c := NewClient("https://www.instagram.com", 5*time.Second)
	data, contentType, err := c.DownloadPicture(context.Background(), srv.URL+"/pic.png")

	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}

func TestDownloadPictureDefaultsContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Suppress automatic content-type sniffing.
		w.Header()["Content-Type"] = nil
		w.Write([]byte{0xff, 0xd8})
	}))
	defer srv.Close()

	c := NewClient("https://www.instagram.com", 5*time.Second)
	_, contentType, err := c.DownloadPicture(context.Background(), srv.URL+"/pic")

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
}
