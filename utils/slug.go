package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// GenerateSlug generates a URL-friendly slug from a title. Letters of any
// script are kept so CJK titles still produce a slug.
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// UniqueSlug appends -2, -3, ... to base until exists reports false.
func UniqueSlug(base string, exists func(string) bool) string {
	if base == "" {
		base = "post"
	}
	slug := base
	for i := 2; exists(slug); i++ {
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return slug
}
