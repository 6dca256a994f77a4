// Package listing renders the post lists (recent, most commented, most
// viewed, random, related and same category) and the recent comments list.
package listing

import (
	"strconv"
	"strings"
	"time"
)

const (
	DefaultXFormat    = `<a href="%permalink%" title="View:%title%(Posted on %postdate%)">%title%</a>(%commentcount%)`
	NoCountXFormat    = `<a href="%permalink%" title="View:%title%(Posted on %postdate%)">%title%</a>`
	ViewCountXFormat  = `<a href="%permalink%" title="View:%title%(Posted on %postdate%)">%title%</a>(%viewcount%)`
	DefaultDateFormat = "2006-01-02"
)

// Item is one post in a list.
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Permalink    string    `json:"permalink"`
	CommentCount int       `json:"comment_count"`
	Views        int       `json:"views"`
	PostDate     time.Time `json:"post_date"`
}

// Args controls a list query and its rendering.
type Args struct {
	Limit      int
	Offset     int
	Before     string
	After      string
	None       string
	XFormat    string
	DateFormat string
	Skips      []string
	// Days bounds the most viewed list to posts newer than this many days.
	Days int
}

// DefaultArgs returns the defaults shared by every list.
func DefaultArgs() Args {
	return Args{
		Limit:      5,
		Before:     "<li>",
		After:      "</li>",
		None:       "No Posts.",
		XFormat:    DefaultXFormat,
		DateFormat: DefaultDateFormat,
		Days:       30,
	}
}

// RenderTemplate substitutes the item placeholders in tpl in one pass.
func RenderTemplate(tpl string, item Item, dateFormat string) string {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	r := strings.NewReplacer(
		"%title%", item.Title,
		"%postdate%", item.PostDate.Format(dateFormat),
		"%commentcount%", strconv.Itoa(item.CommentCount),
		"%viewcount%", strconv.Itoa(item.Views),
		"%permalink%", item.Permalink,
	)
	return r.Replace(tpl)
}

// Render wraps each rendered item in Before/After, one per line. An empty
// list renders the None text instead.
func Render(items []Item, args Args) string {
	if len(items) == 0 {
		return args.Before + args.None + args.After
	}

	var b strings.Builder
	for _, item := range items {
		b.WriteString(args.Before)
		b.WriteString(RenderTemplate(args.XFormat, item, args.DateFormat))
		b.WriteString(args.After)
		b.WriteString("\n")
	}
	return b.String()
}
