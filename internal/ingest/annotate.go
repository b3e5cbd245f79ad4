package ingest

import "regexp"

var (
	hashtagPattern = regexp.MustCompile(`#\w+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
)

// Annotate extracts hashtag and mention tokens from free-text content.
// Order of appearance is preserved and duplicates are kept: the result mirrors
// literal occurrence counts, not a set. Empty content yields nil slices.
func Annotate(content string) (hashtags []string, mentions []string) {
	if content == "" {
		return nil, nil
	}
	return hashtagPattern.FindAllString(content, -1), mentionPattern.FindAllString(content, -1)
}
