package service

import (
	"fmt"
	"strconv"
	"strings"

	"creator-dashboard/internal/domains/creator/model"
)

// RawRecord is one loosely-typed input record, as parsed from a JSON
// array element or a CSV row.
type RawRecord map[string]interface{}

// fieldAliases maps each canonical field to the input keys that may
// carry it, in resolution order: the first present key wins. Kept as
// data so each rule can be tested on its own.
var fieldAliases = map[string][]string{
	"username":        {"username", "Username"},
	"full_name":       {"full_name", "fullName", "name", "Name"},
	"profile_url":     {"profile_url", "profileUrl", "url"},
	"pk":              {"pk", "instagram_id", "id"},
	"follower_count":  {"follower_count", "followers", "followerCount"},
	"following_count": {"following_count", "following", "followingCount"},
	"media_count":     {"media_count", "posts", "mediaCount"},
	"is_verified":     {"is_verified", "verified", "isVerified"},
	"is_business":     {"is_business", "business", "isBusiness"},
	"is_private":      {"is_private", "private", "isPrivate"},
	"category":        {"category", "Category"},
	"bio":             {"bio", "biography", "Bio"},
	"external_url":    {"external_url", "website", "externalUrl"},
	"profile_pic_url": {"profile_pic_url", "avatar", "profilePicUrl"},
	"bio_hashtags":    {"bio_hashtags", "hashtags"},
	"bio_mentions":    {"bio_mentions", "mentions"},
	"engagement_rate": {"engagement_rate", "engagementRate"},
	"source_keyword":  {"source_keyword", "source"},
	"profile_type":    {"profile_type", "type"},
}

// Normalizer converts heterogeneous input records into the canonical
// creator shape. Pure, never fails: malformed values default to zero
// values, with the failing field names reported alongside.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize maps one raw record to a Creator. The second return value
// lists canonical fields whose value was present but could not be
// parsed and therefore defaulted.
func (n *Normalizer) Normalize(raw RawRecord) (model.Creator, []string) {
	var failed []string

	str := func(field string) string {
		v, ok := resolve(raw, field)
		if !ok {
			return ""
		}
		return asString(v)
	}
	num := func(field string) int64 {
		v, ok := resolve(raw, field)
		if !ok {
			return 0
		}
		parsed, ok := asInt(v)
		if !ok {
			failed = append(failed, field)
			return 0
		}
		return parsed
	}
	flt := func(field string) float64 {
		v, ok := resolve(raw, field)
		if !ok {
			return 0
		}
		parsed, ok := asFloat(v)
		if !ok {
			failed = append(failed, field)
			return 0
		}
		return parsed
	}
	boolean := func(field string) bool {
		v, ok := resolve(raw, field)
		if !ok {
			return false
		}
		return asBool(v)
	}

	creator := model.Creator{
		Username:       str("username"),
		FullName:       str("full_name"),
		ProfileURL:     str("profile_url"),
		PK:             str("pk"),
		FollowerCount:  num("follower_count"),
		FollowingCount: num("following_count"),
		MediaCount:     num("media_count"),
		IsVerified:     boolean("is_verified"),
		IsBusiness:     boolean("is_business"),
		IsPrivate:      boolean("is_private"),
		Category:       str("category"),
		Bio:            str("bio"),
		ExternalURL:    str("external_url"),
		ProfilePicURL:  str("profile_pic_url"),
		BioHashtags:    str("bio_hashtags"),
		BioMentions:    str("bio_mentions"),
		EngagementRate: flt("engagement_rate"),
		SourceKeyword:  str("source_keyword"),
		ProfileType:    str("profile_type"),
	}

	// Import-origin records are distinguishable from scrape-origin
	// ones by their source keyword.
	if creator.SourceKeyword == "" {
		creator.SourceKeyword = "import"
	}

	return creator, failed
}

func resolve(raw RawRecord, field string) (interface{}, bool) {
	for _, alias := range fieldAliases[field] {
		if v, ok := raw[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers arrive as float64; render ids without the
		// trailing ".0".
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asInt(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, true
		}
		if parsed, err := strconv.ParseInt(s, 10, 64); err == nil {
			return parsed, true
		}
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(parsed), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, true
		}
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			return parsed, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func asBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "1" || s == "yes"
	case float64:
		return t != 0
	default:
		return false
	}
}
