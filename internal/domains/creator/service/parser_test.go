package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-dashboard/internal/domains/creator/model"
)

func TestParseImportDataJSON(t *testing.T) {
	records, err := ParseImportData("json", `[
		{"username": "alice", "followers": 100},
		{"username": "bob"}
	]`)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alice", records[0]["username"])
	assert.Equal(t, float64(100), records[0]["followers"])
	assert.Equal(t, "bob", records[1]["username"])
}

func TestParseImportDataJSONSingleObject(t *testing.T) {
	records, err := ParseImportData("json", `{"username": "alice"}`)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0]["username"])
}

func TestParseImportDataCSV(t *testing.T) {
	records, err := ParseImportData("csv", "username,follower_count\nalice,100\nbob,200")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alice", records[0]["username"])
	assert.Equal(t, "100", records[0]["follower_count"])
	assert.Equal(t, "bob", records[1]["username"])
}

func TestParseImportDataCSVQuotedComma(t *testing.T) {
	records, err := ParseImportData("csv", "full_name,follower_count\n\"smith, jane\",100")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "smith, jane", records[0]["full_name"])
	assert.Equal(t, "100", records[0]["follower_count"])
}

func TestParseImportDataCSVRaggedRows(t *testing.T) {
	// Spreadsheet exports drop trailing cells; short rows still parse.
	records, err := ParseImportData("csv", "username,follower_count,bio\nalice,100\nbob,200,hello")

	require.NoError(t, err)
	require.Len(t, records, 2)
	_, hasBio := records[0]["bio"]
	assert.False(t, hasBio)
	assert.Equal(t, "hello", records[1]["bio"])
}

func TestParseImportDataErrors(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		data    string
		wantErr error
	}{
		{"unsupported format", "xml", "<creators/>", model.ErrInvalidImportData},
		{"malformed json", "json", "{not an array", model.ErrInvalidImportData},
		{"empty json array", "json", "[]", model.ErrEmptyImport},
		{"csv header only", "csv", "username,follower_count", model.ErrEmptyImport},
		{"csv empty", "csv", "", model.ErrEmptyImport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseImportData(tt.format, tt.data)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
