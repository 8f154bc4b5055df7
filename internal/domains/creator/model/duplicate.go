package model

import "strings"

// DuplicateGroup is a set of records that look like the same account.
// Members are sorted by survivorship rank: index 0 is the survivor.
// Groups are computed on demand and never persisted.
type DuplicateGroup struct {
	Key        string    `json:"key"`
	MatchType  string    `json:"match_type"` // username or pk
	Similarity string    `json:"similarity"`
	Creators   []Creator `json:"creators"`
}

// ImportResult aggregates a bulk import run. Errors holds one message
// per failed batch.
type ImportResult struct {
	Success  bool     `json:"success"`
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Errors   int      `json:"errors"`
	Messages []string `json:"messages,omitempty"`
}

// MergeResult reports a merge-selected run.
type MergeResult struct {
	GroupsMerged int     `json:"groups_merged"`
	Deleted      int     `json:"deleted"`
	SurvivorIDs  []int64 `json:"survivor_ids"`
}

// NormalizeUsername trims and lower-cases a username for identity
// comparison. Stored values keep their original casing.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
