package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// Candidate key lists for every canonical field. Upstream agents disagree on
// casing and naming, so each logical field is resolved through an ordered list
// of alternatives; keeping the lists here (instead of scattered literals) is
// the system's defense against schema drift.
var (
	companyNameKeys = []string{"companyName", "company_name"}
	companyURLKeys  = []string{"companyUrl", "company_url", "linkedinUrl", "linkedin_url", "profileUrl"}
	websiteKeys     = []string{"website", "websiteUrl", "website_url"}
	descriptionKeys = []string{"description", "about", "tagline"}
	industryKeys    = []string{"industry"}
	companySizeKeys = []string{"companySize", "company_size", "staffCount"}
	locationKeys    = []string{"location", "headquarters"}
	followerKeys    = []string{"followerCount", "followers", "follower_count"}
	specialtyKeys   = []string{"specialties", "specialities"}

	postIDKeys      = []string{"postId", "post_id", "postID"}
	postURLKeys     = []string{"postUrl", "post_url", "shareUrl", "activityUrl"}
	contentKeys     = []string{"content", "text", "postContent", "post_text"}
	postTypeKeys    = []string{"postType", "post_type"}
	publishedAtKeys = []string{"publishedAt", "published_at", "postDate", "date", "timestamp"}
	authorIDKeys    = []string{"authorId", "author_id", "profileId"}
	hashtagListKeys = []string{"hashtags"}
	mentionListKeys = []string{"mentions"}

	likesKeys       = []string{"likes", "likeCount", "like_count"}
	commentsKeys    = []string{"comments", "commentCount", "comment_count"}
	sharesKeys      = []string{"shares", "shareCount", "share_count", "repostCount"}
	impressionsKeys = []string{"impressions", "impressionCount", "views", "viewCount"}
	clicksKeys      = []string{"clicks", "clickCount", "click_count"}

	csvURLKeys = []string{"csvUrl", "csv_url", "downloadUrl", "resultUrl"}
)

// StringField returns the first candidate key present with a usable value,
// coerced to a trimmed string, or def when none matches. Numbers are rendered
// without a trailing ".0" so CSV and JSON sources agree.
func StringField(rec RawRecord, keys []string, def string) string {
	for _, key := range keys {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		s := coerceString(v)
		if s == "" {
			continue
		}
		return s
	}
	return def
}

// IntField returns the first candidate key coerced to an int. Non-numeric text
// fails softly to def rather than erroring; upstream exports routinely carry
// "N/A" or empty cells where counts belong.
func IntField(rec RawRecord, keys []string, def int) int {
	for _, key := range keys {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		if n, ok := coerceInt(v); ok {
			return n
		}
	}
	return def
}

// StringListField returns the first candidate key that holds a non-empty list
// of strings (stringifying scalar elements), or nil.
func StringListField(rec RawRecord, keys []string) []string {
	for _, key := range keys {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		list, ok := v.([]any)
		if !ok || len(list) == 0 {
			continue
		}
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// hasAny reports whether any candidate key is present with a non-nil value
// that is not an empty string. CSV rows carry every header as a key, so bare
// presence is not enough to classify on.
func hasAny(rec RawRecord, keys []string) bool {
	for _, key := range keys {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return true
	}
	return false
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}
