package service

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-dashboard/internal/domains/creator/model"
)

func exportFixture() []model.Creator {
	scraped := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	return []model.Creator{
		{
			ID:             1,
			Username:       "alice",
			FullName:       "Alice A",
			FollowerCount:  12000,
			FollowingCount: 300,
			MediaCount:     85,
			EngagementRate: 3.456,
			Category:       "Travel",
			Bio:            "Exploring the world,\none city at a time",
			ProfileURL:     "https://instagram.com/alice",
			ExternalURL:    "https://alice.example",
			IsVerified:     true,
			BioHashtags:    "#travel, #wanderlust",
			BioMentions:    "@visitnorway",
			ScrapedAt:      scraped,
		},
		{
			ID:        2,
			Username:  "bob",
			FullName:  `Bob "The Builder"`,
			ScrapedAt: scraped,
		},
	}
}

func TestExportCSV(t *testing.T) {
	e := NewExporter()

	file, err := e.Export("csv", exportFixture())
	require.NoError(t, err)

	assert.Equal(t, "text/csv", file.ContentType)
	assert.Regexp(t, `^creators-export-\d{4}-\d{2}-\d{2}\.csv$`, file.Filename)

	lines := strings.Split(string(file.Content), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(exportHeaders, ","), lines[0])

	// Every cell is quoted; embedded quotes double; bio commas and
	// newlines are flattened to spaces.
	assert.Contains(t, lines[1], `"alice"`)
	assert.Contains(t, lines[1], `"3.46%"`)
	assert.Contains(t, lines[1], `"Exploring the world  one city at a time"`)
	assert.Contains(t, lines[1], `"Yes"`)
	assert.Contains(t, lines[1], `"2026-03-15T10:30:00Z"`)
	assert.Contains(t, lines[2], `"Bob ""The Builder"""`)
}

func TestExportTSV(t *testing.T) {
	e := NewExporter()

	creators := exportFixture()
	creators[0].Bio = "tabs\there\nand newlines"

	file, err := e.Export("tsv", creators)
	require.NoError(t, err)

	assert.Equal(t, "text/tab-separated-values", file.ContentType)

	lines := strings.Split(string(file.Content), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(exportHeaders, "\t"), lines[0])

	cells := strings.Split(lines[1], "\t")
	require.Len(t, cells, len(exportHeaders))
	assert.Equal(t, "alice", cells[0])
	assert.Equal(t, "tabs here and newlines", cells[7])
	assert.Equal(t, "12000", cells[2])
}

func TestExportJSON(t *testing.T) {
	e := NewExporter()

	file, err := e.Export("json", exportFixture())
	require.NoError(t, err)

	assert.Equal(t, "application/json", file.ContentType)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(file.Content, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "alice", decoded[0]["username"])
	// JSON keeps the raw numeric rate, not the formatted percentage.
	assert.Equal(t, 3.456, decoded[0]["engagement_rate"])
}

func TestExportXLSX(t *testing.T) {
	e := NewExporter()

	file, err := e.Export("xlsx", exportFixture())
	require.NoError(t, err)

	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		file.ContentType)
	assert.NotEmpty(t, file.Content)
	// xlsx files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, file.Content[:2])
}

func TestExportUnsupportedFormat(t *testing.T) {
	e := NewExporter()

	_, err := e.Export("pdf", exportFixture())
	assert.Error(t, err)
}

func TestExportEmptyList(t *testing.T) {
	e := NewExporter()

	file, err := e.Export("csv", nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(exportHeaders, ","), string(file.Content))
}
