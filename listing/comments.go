package listing

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html"
	"strings"
	"time"
)

// DefaultCommentXFormat is the recent comments item template.
const DefaultCommentXFormat = `%gravatar%<a class="commentator" href="%permalink%" >%commentauthor%</a> : %commentexcerpt%`

// CommentItem is one comment in the recent comments list.
type CommentItem struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	PostTitle   string    `json:"post_title"`
	Permalink   string    `json:"permalink"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"-"`
	Content     string    `json:"content"`
	Date        time.Time `json:"date"`
}

// CommentArgs controls the recent comments list.
type CommentArgs struct {
	Limit  int
	Offset int
	Before string
	After  string
	// Length is how many characters of the comment the excerpt keeps.
	Length     int
	AvatarSize int
	XFormat    string
	SkipEmails []string
}

func DefaultCommentArgs() CommentArgs {
	return CommentArgs{
		Limit:      5,
		Before:     "<li>",
		After:      "</li>",
		Length:     50,
		AvatarSize: 16,
		XFormat:    DefaultCommentXFormat,
	}
}

// Gravatar returns the avatar image for email at size pixels.
func Gravatar(email string, size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf(`<img alt="" src="https://www.gravatar.com/avatar/%s?s=%d&amp;d=mm" class="avatar avatar-%d photo" height="%d" width="%d" />`,
		hex.EncodeToString(sum[:]), size, size, size, size)
}

// CommentExcerpt keeps the first length characters of escaped text and
// appends an ellipsis. Entities count as one character.
func CommentExcerpt(text string, length int) string {
	runes := []rune(html.UnescapeString(text))
	if length >= 0 && len(runes) > length {
		runes = runes[:length]
	}
	return html.EscapeString(string(runes)) + "..."
}

// RenderComments renders one line per comment. Before and After are part of
// the template, so placeholders in them are replaced too.
func RenderComments(items []CommentItem, args CommentArgs) string {
	if args.XFormat == "" {
		args.XFormat = DefaultCommentXFormat
	}

	var b strings.Builder
	for _, c := range items {
		r := strings.NewReplacer(
			"%gravatar%", Gravatar(c.AuthorEmail, args.AvatarSize),
			"%permalink%", c.Permalink,
			"%commentauthor%", c.AuthorName,
			"%commentexcerpt%", CommentExcerpt(c.Content, args.Length),
			"%posttitle%", c.PostTitle,
		)
		b.WriteString(r.Replace(args.Before + args.XFormat + args.After))
		b.WriteString("\n")
	}
	return b.String()
}
