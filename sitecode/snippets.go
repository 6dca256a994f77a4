// Package sitecode selects the custom code snippets and meta tags injected
// into the page head and footer.
package sitecode

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	HookHead   = "wp_head"
	HookFooter = "wp_footer"

	DateTimeLayout = "2006-01-02 15:04:05"

	bannerStart = "\n\n <!--This Piece of Code is Injected by WUT Custom Code-->\n"
	bannerEnd   = "\n<!--The End of WUT Custom Code-->\n"
)

var (
	ErrUnknownHook     = errors.New("unknown hook")
	ErrSnippetNotFound = errors.New("snippet not found")
	ErrEmptySource     = errors.New("snippet source is empty")
)

// Snippet is a piece of custom code attached to a hook.
type Snippet struct {
	CodeID   string `json:"code_id"`
	Title    string `json:"title"`
	Source   string `json:"source"`
	Priority int    `json:"priority"`
	Hook     string `json:"hook"`
	Remark   string `json:"remark"`
	DateTime string `json:"date_time"`

	// Fields of the legacy snippet format, read but never written.
	Name   string `json:"name,omitempty"`
	HookTo string `json:"hookto,omitempty"`
}

// NewSnippetID returns a fresh snippet identifier.
func NewSnippetID() string {
	return "wut_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidateHook rejects hooks other than head and footer.
func ValidateHook(hook string) error {
	if hook != HookHead && hook != HookFooter {
		return fmt.Errorf("%w: %q", ErrUnknownHook, hook)
	}
	return nil
}

// Normalize upgrades legacy snippets in place and assigns missing IDs.
func Normalize(snippets []Snippet, now time.Time) []Snippet {
	for i := range snippets {
		s := &snippets[i]
		if s.Title == "" && s.Name != "" {
			s.Title = s.Name
		}
		if s.Hook == "" && s.HookTo != "" {
			s.Hook = s.HookTo
		}
		if s.CodeID == "" {
			s.CodeID = NewSnippetID()
		}
		if s.DateTime == "" {
			s.DateTime = now.Format(DateTimeLayout)
		}
		s.Name, s.HookTo = "", ""
	}
	return snippets
}

// Select concatenates the sources of snippets attached to hook, ordered by
// ascending priority. Snippets with equal priority keep their stored order.
func Select(snippets []Snippet, hook string) string {
	var picked []Snippet
	for _, s := range snippets {
		if s.Hook == hook || s.HookTo == hook {
			picked = append(picked, s)
		}
	}
	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].Priority < picked[j].Priority
	})

	var b strings.Builder
	for _, s := range picked {
		b.WriteString(s.Source)
	}
	return b.String()
}

// InjectHead returns the head snippets wrapped in the injection banner.
func InjectHead(snippets []Snippet) string {
	return bannerStart + Select(snippets, HookHead) + bannerEnd
}

// InjectFooter returns the footer snippets wrapped in the injection banner.
func InjectFooter(snippets []Snippet) string {
	return bannerStart + Select(snippets, HookFooter) + bannerEnd
}

// Upsert replaces the snippet with s.CodeID, or appends s with a new ID.
// DateTime is stamped with now.
func Upsert(snippets []Snippet, s Snippet, now time.Time) ([]Snippet, Snippet, error) {
	if err := ValidateHook(s.Hook); err != nil {
		return snippets, s, err
	}
	if strings.TrimSpace(s.Source) == "" {
		return snippets, s, ErrEmptySource
	}
	s.DateTime = now.Format(DateTimeLayout)

	out := make([]Snippet, len(snippets), len(snippets)+1)
	copy(out, snippets)
	if s.CodeID != "" {
		for i := range out {
			if out[i].CodeID == s.CodeID {
				out[i] = s
				return out, s, nil
			}
		}
		return snippets, s, fmt.Errorf("%w: %s", ErrSnippetNotFound, s.CodeID)
	}

	s.CodeID = NewSnippetID()
	return append(out, s), s, nil
}

// Remove deletes the snippet with id.
func Remove(snippets []Snippet, id string) ([]Snippet, error) {
	for i, s := range snippets {
		if s.CodeID == id {
			out := make([]Snippet, 0, len(snippets)-1)
			out = append(out, snippets[:i]...)
			return append(out, snippets[i+1:]...), nil
		}
	}
	return snippets, fmt.Errorf("%w: %s", ErrSnippetNotFound, id)
}
