// Package excerpt builds listing summaries of post content.
//
// A summary is, in order of preference, the author's manual excerpt, the
// teaser before a <!--more--> marker, or the leading paragraphs of the
// content cut to a paragraph and character budget. A "continue reading" tip
// is added whenever the summary is shorter than the post.
package excerpt

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultTipTemplate is the "continue reading" tip shipped with the toolkit.
const DefaultTipTemplate = `<br/><br/><span class="readmore"><a href="%permalink%" title="%title%">Continue Reading--%total_words% words totally</a></span>`

const (
	DefaultParagraphs = 3
	DefaultWords      = 250

	lineBreak      = "<br/>"
	paragraphBreak = "\n\n"
)

var whitespace = regexp.MustCompile(`\s`)

// Post is the read-only view of a post the engine summarizes.
type Post struct {
	Content       string
	ManualExcerpt string
	Title         string
	Permalink     string
}

// Config controls automatic excerption.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Paragraphs  int    `json:"paragraphs"`
	Words       int    `json:"words"`
	TipTemplate string `json:"tip_template"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		Paragraphs:  DefaultParagraphs,
		Words:       DefaultWords,
		TipTemplate: DefaultTipTemplate,
	}
}

// WithDefaults fills unset limits and an empty tip template.
func (c Config) WithDefaults() Config {
	if c.Paragraphs <= 0 {
		c.Paragraphs = DefaultParagraphs
	}
	if c.Words <= 0 {
		c.Words = DefaultWords
	}
	if c.TipTemplate == "" {
		c.TipTemplate = DefaultTipTemplate
	}
	return c
}

// Result is a computed excerpt. Tip is empty unless the post was shortened.
type Result struct {
	Body string `json:"body"`
	Tip  string `json:"tip"`
}

func (r Result) String() string {
	return r.Body + r.Tip
}

// Engine computes excerpts. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	prims Primitives
}

// NewEngine returns an engine over prims, or over DefaultPrimitives when
// prims is nil.
func NewEngine(prims Primitives) *Engine {
	if prims == nil {
		prims = DefaultPrimitives()
	}
	return &Engine{prims: prims}
}

// Compute summarizes post under cfg.
func (e *Engine) Compute(post Post, cfg Config) Result {
	cfg = cfg.WithDefaults()
	stripped := e.stripMarkup(post.Content)

	var body string
	if post.ManualExcerpt != "" {
		body = post.ManualExcerpt + lineBreak
	} else if teaser, ok := e.prims.ExtractBeforeMarker(post.Content); ok {
		body = teaser
	} else {
		body = e.truncate(stripped, cfg)
	}

	res := Result{Body: body}
	if utf8.RuneCountInString(body) < utf8.RuneCountInString(stripped) {
		res.Tip = e.BuildTip(post, cfg, e.TotalWords(post.Content))
	}
	return res
}

func (e *Engine) stripMarkup(content string) string {
	return e.prims.StripBlocks(e.prims.StripShortcodes(content))
}

// truncate keeps leading paragraphs until either the character budget or
// the paragraph budget is reached. The first paragraph is always kept, even
// when it alone exceeds the character budget.
func (e *Engine) truncate(text string, cfg Config) string {
	text = strings.ReplaceAll(text, "]]>", "]]&gt;")

	var paragraphs []string
	for _, p := range strings.Split(text, "\n") {
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) == 0 {
		return ""
	}

	limit := min(len(paragraphs), cfg.Paragraphs)
	var b strings.Builder
	for i, p := range paragraphs {
		b.WriteString(p)
		b.WriteString(paragraphBreak)
		if utf8.RuneCountInString(b.String()) >= cfg.Words || i+1 >= limit {
			break
		}
	}

	return e.prims.BalanceTags(strings.TrimSuffix(b.String(), paragraphBreak))
}

// TotalWords counts the words of content with tags, entities and all
// whitespace removed.
func (e *Engine) TotalWords(content string) int {
	text := html.UnescapeString(e.prims.StripAllTags(content))
	return WordsCount(whitespace.ReplaceAllString(text, ""))
}

// ContentWords counts the words of content as shown in the admin post list.
func (e *Engine) ContentWords(content string) int {
	return WordsCount(html.UnescapeString(e.prims.StripAllTags(content)))
}

// BuildTip renders cfg.TipTemplate for post. Placeholders are replaced in a
// single pass so substituted values are never expanded again.
func (e *Engine) BuildTip(post Post, cfg Config, totalWords int) string {
	r := strings.NewReplacer(
		"%permalink%", post.Permalink,
		"%title%", e.prims.StripAllTags(post.Title),
		"%total_words%", strconv.Itoa(totalWords),
	)
	return r.Replace(cfg.WithDefaults().TipTemplate)
}
