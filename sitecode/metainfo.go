package sitecode

import (
	"html"
	"strings"

	"blog-toolkit/excerpt"
)

// MetaInfo holds the site wide meta tags shown on the home page.
type MetaInfo struct {
	Enabled         bool   `json:"enabled"`
	SiteDescription string `json:"site_description"`
	SiteKeywords    string `json:"site_keywords"`
}

// MetaTags renders description and keywords meta tags on listing views.
// Empty values are skipped.
func MetaTags(info MetaInfo, view excerpt.View) string {
	if !info.Enabled || view == nil || !view.IsListing() {
		return ""
	}

	var b strings.Builder
	if info.SiteDescription != "" {
		b.WriteString(`<meta name="description" content="` + html.EscapeString(info.SiteDescription) + `"/>` + "\n")
	}
	if info.SiteKeywords != "" {
		b.WriteString(`<meta name="keywords" content="` + html.EscapeString(info.SiteKeywords) + `" />` + "\n")
	}
	return b.String()
}
