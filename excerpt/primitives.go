package excerpt

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Primitives are the text helpers the engine relies on. They are pure
// functions over strings; tests swap them for fakes.
type Primitives interface {
	// StripShortcodes removes [name ...] and [name]...[/name] markup.
	StripShortcodes(text string) string
	// StripBlocks removes block editor comment delimiters, keeping inner HTML.
	StripBlocks(text string) string
	// BalanceTags closes every tag left open and drops stray closing tags.
	BalanceTags(fragment string) string
	// ExtractBeforeMarker returns the content preceding the first
	// <!--more--> marker. ok is false when there is no marker.
	ExtractBeforeMarker(content string) (teaser string, ok bool)
	// StripAllTags removes every tag, including script and style bodies.
	// The result is escaped HTML text.
	StripAllTags(fragment string) string
}

var (
	moreMarker     = regexp.MustCompile(`<!--more(.*?)?-->`)
	blockDelimiter = regexp.MustCompile(`(?s)<!--\s+/?wp:[a-z][a-z0-9_-]*(?:/[a-z][a-z0-9_-]*)?\s+(?:\{.*?\}\s+)?/?-->`)
	shortcodeTag   = regexp.MustCompile(`\[(\[?)([A-Za-z][\w-]*)((?:\s[^\[\]]*)?)\](\]?)`)

	strictPolicy = bluemonday.StrictPolicy()

	voidElements = map[string]bool{
		"area": true, "base": true, "br": true, "col": true, "embed": true,
		"hr": true, "img": true, "input": true, "link": true, "meta": true,
		"param": true, "source": true, "track": true, "wbr": true,
	}
)

// TextPrimitives is the default Primitives implementation.
type TextPrimitives struct {
	// Shortcodes restricts stripping to these names. Empty strips any name.
	Shortcodes []string
}

// DefaultPrimitives returns primitives that strip every shortcode name.
func DefaultPrimitives() *TextPrimitives {
	return &TextPrimitives{}
}

func (p *TextPrimitives) registered(name string) bool {
	if len(p.Shortcodes) == 0 {
		return true
	}
	for _, s := range p.Shortcodes {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

func (p *TextPrimitives) StripShortcodes(text string) string {
	if !strings.Contains(text, "[") {
		return text
	}

	var b strings.Builder
	for {
		loc := shortcodeTag.FindStringSubmatchIndex(text)
		if loc == nil {
			b.WriteString(text)
			break
		}

		name := text[loc[4]:loc[5]]
		attrs := text[loc[6]:loc[7]]
		openEscaped := loc[3] > loc[2]
		closeEscaped := loc[9] > loc[8]
		rest := text[loc[1]:]

		b.WriteString(text[:loc[0]])
		switch {
		case !p.registered(name):
			b.WriteString(text[loc[0]:loc[1]])
		case openEscaped && closeEscaped:
			// [[name]] is the literal text [name]
			b.WriteString(text[loc[0]+1 : loc[1]-1])
		default:
			if openEscaped {
				b.WriteByte('[')
			}
			if !strings.HasSuffix(strings.TrimSpace(attrs), "/") {
				closer := "[/" + name + "]"
				if idx := strings.Index(rest, closer); idx >= 0 {
					rest = rest[idx+len(closer):]
				}
			}
			if closeEscaped {
				b.WriteByte(']')
			}
		}
		text = rest
	}
	return b.String()
}

func (p *TextPrimitives) StripBlocks(text string) string {
	if !strings.Contains(text, "<!-- wp:") && !strings.Contains(text, "<!-- /wp:") {
		return text
	}
	return blockDelimiter.ReplaceAllString(text, "")
}

func (p *TextPrimitives) ExtractBeforeMarker(content string) (string, bool) {
	loc := moreMarker.FindStringIndex(content)
	if loc == nil {
		return "", false
	}
	return content[:loc[0]], true
}

func (p *TextPrimitives) StripAllTags(fragment string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(fragment))
}

func (p *TextPrimitives) BalanceTags(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return fragment
	}

	var (
		b     strings.Builder
		stack []string
	)
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				b.Write(z.Raw())
			}
			break
		}

		raw := z.Raw()
		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if !voidElements[tag] {
				stack = append(stack, tag)
			}
			b.Write(raw)
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			idx := lastIndex(stack, tag)
			if idx < 0 {
				continue
			}
			for i := len(stack) - 1; i > idx; i-- {
				b.WriteString("</" + stack[i] + ">")
			}
			stack = stack[:idx]
			b.Write(raw)
		case html.CommentToken:
			b.Write(raw)
			b.WriteString(commentTerminator(raw))
		default:
			b.Write(raw)
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteString("</" + stack[i] + ">")
	}
	return b.String()
}

// commentTerminator returns what an unterminated comment token needs so
// that markup written after it is not swallowed.
func commentTerminator(raw []byte) string {
	if bytes.HasPrefix(raw, []byte("<!--")) {
		if bytes.HasSuffix(raw, []byte("-->")) || bytes.HasSuffix(raw, []byte("--!>")) {
			return ""
		}
		return "-->"
	}
	if bytes.HasSuffix(raw, []byte(">")) {
		return ""
	}
	return ">"
}

func lastIndex(stack []string, tag string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == tag {
			return i
		}
	}
	return -1
}
