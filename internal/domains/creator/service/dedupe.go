package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"creator-dashboard/internal/domains/creator/model"
	"creator-dashboard/internal/domains/creator/repository"
)

// Deduper finds duplicate creator groups and merges selected groups
// down to one surviving record each.
type Deduper struct {
	repo repository.Repository
}

func NewDeduper(repo repository.Repository) *Deduper {
	return &Deduper{repo: repo}
}

// Scan partitions the full creator set into duplicate groups. Username
// groups come first, then pk groups; within each set, groups keep the
// order their key was first seen in the (username-sorted) scan.
func (d *Deduper) Scan(ctx context.Context) ([]model.DuplicateGroup, error) {
	creators, err := d.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("duplicate scan failed: %w", err)
	}

	usernameGroups, usernameOrder := groupBy(creators, func(c model.Creator) string {
		return c.NormalizedUsername()
	})
	pkGroups, pkOrder := groupBy(creators, func(c model.Creator) string {
		return strings.TrimSpace(c.PK)
	})

	var groups []model.DuplicateGroup

	for _, key := range usernameOrder {
		members := usernameGroups[key]
		if len(members) < 2 {
			continue
		}
		rankSurvivorship(members)
		groups = append(groups, model.DuplicateGroup{
			Key:        "username-" + key,
			MatchType:  "username",
			Similarity: fmt.Sprintf("Same username: @%s", key),
			Creators:   members,
		})
	}

	// Usernames already claimed by a username-group must not make a pk
	// group on their own: a pk group survives only if at least two
	// unclaimed members remain.
	claimed := make(map[string]bool)
	for _, g := range groups {
		for _, c := range g.Creators {
			claimed[c.Username] = true
		}
	}

	for _, key := range pkOrder {
		members := pkGroups[key]
		if len(members) < 2 {
			continue
		}

		unclaimed := 0
		for _, c := range members {
			if !claimed[c.Username] {
				unclaimed++
			}
		}
		if unclaimed < 2 {
			continue
		}

		rankSurvivorship(members)
		groups = append(groups, model.DuplicateGroup{
			Key:        "pk-" + key,
			MatchType:  "pk",
			Similarity: fmt.Sprintf("Same Instagram ID: %s...", truncate(key, 10)),
			Creators:   members,
		})
	}

	log.Info().
		Int("creators", len(creators)).
		Int("groups", len(groups)).
		Msg("Duplicate scan finished")

	return groups, nil
}

// MergeSelected rescans and merges only the groups whose keys were
// selected. Each group keeps its top-ranked member and bulk-deletes
// the rest. A deletion failure stops further groups; deletions already
// applied are not rolled back.
func (d *Deduper) MergeSelected(ctx context.Context, groupKeys []string) (*model.MergeResult, error) {
	groups, err := d.Scan(ctx)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]model.DuplicateGroup, len(groups))
	for _, g := range groups {
		byKey[g.Key] = g
	}

	result := &model.MergeResult{}
	for _, key := range groupKeys {
		group, ok := byKey[key]
		if !ok || len(group.Creators) < 2 {
			continue
		}

		survivor := group.Creators[0]
		loserIDs := make([]int64, 0, len(group.Creators)-1)
		for _, c := range group.Creators[1:] {
			loserIDs = append(loserIDs, c.ID)
		}

		deleted, err := d.repo.MergeGroup(ctx, survivor.ID, loserIDs)
		if err != nil {
			return result, fmt.Errorf("merge of group %s failed: %w", key, err)
		}

		result.GroupsMerged++
		result.Deleted += int(deleted)
		result.SurvivorIDs = append(result.SurvivorIDs, survivor.ID)

		log.Info().
			Str("group", key).
			Int64("survivor_id", survivor.ID).
			Int64("deleted", deleted).
			Msg("Merged duplicate group")
	}

	return result, nil
}

// groupBy buckets creators by a non-empty key, remembering first-seen
// key order so scan output is reproducible.
func groupBy(creators []model.Creator, keyFn func(model.Creator) string) (map[string][]model.Creator, []string) {
	groups := make(map[string][]model.Creator)
	var order []string

	for _, c := range creators {
		key := keyFn(c)
		if key == "" {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	return groups, order
}

// rankSurvivorship sorts a group best-first: more followers wins, then
// the more recently updated record, then the lower id so exact ties
// stay deterministic.
func rankSurvivorship(members []model.Creator) {
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].FollowerCount != members[j].FollowerCount {
			return members[i].FollowerCount > members[j].FollowerCount
		}
		if !members[i].LastUpdated.Equal(members[j].LastUpdated) {
			return members[i].LastUpdated.After(members[j].LastUpdated)
		}
		return members[i].ID < members[j].ID
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
