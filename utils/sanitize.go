package utils

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// postPolicy is the UGC policy extended for post bodies: comments survive so
// <!--more--> markers and block delimiters reach the excerpt engine.
var postPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowComments()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\- ]+$`)).OnElements("span", "p", "div", "pre", "code")
	return p
}()

var textPolicy = bluemonday.StrictPolicy()

// SanitizeHTML sanitizes post HTML to prevent XSS while keeping formatting
// tags, comments and simple class names.
func SanitizeHTML(html string) string {
	return postPolicy.Sanitize(html)
}

// SanitizeText strips every tag, leaving escaped text. Used for titles.
func SanitizeText(s string) string {
	return textPolicy.Sanitize(s)
}
