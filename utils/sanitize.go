package utils

import "github.com/microcosm-cc/bluemonday"

// Posts and comments are plain text; strip all markup rather than trying to
// allow a safe subset.
var contentPolicy = bluemonday.StrictPolicy()

// SanitizeContent removes any HTML from user-supplied content.
func SanitizeContent(input string) string {
	return contentPolicy.Sanitize(input)
}
