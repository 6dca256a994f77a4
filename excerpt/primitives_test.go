package excerpt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"

	"blog-toolkit/excerpt"
)

func TestBalanceTags(t *testing.T) {
	prims := excerpt.DefaultPrimitives()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text untouched", input: "no tags here", expected: "no tags here"},
		{name: "balanced untouched", input: "<p>one <b>two</b></p>", expected: "<p>one <b>two</b></p>"},
		{name: "closes open tags in order", input: "<div><p>open para\n\n<b>bold", expected: "<div><p>open para\n\n<b>bold</b></p></div>"},
		{name: "drops stray closers", input: "text</span> more", expected: "text more"},
		{name: "closes inner tags before outer closer", input: "<b><i>x</b>", expected: "<b><i>x</i></b>"},
		{name: "void elements stay open", input: `<p>a<br>b<img src="x">`, expected: `<p>a<br>b<img src="x"></p>`},
		{name: "self closing tags", input: "<p>a<br/>b", expected: "<p>a<br/>b</p>"},
		{name: "comments kept", input: "<p><!-- note -->x", expected: "<p><!-- note -->x</p>"},
		{name: "unterminated comment closed before closers", input: "<p>a<!-- foo", expected: "<p>a<!-- foo--></p>"},
		{name: "bare comment opener", input: "<div><!--", expected: "<div><!----></div>"},
		{name: "unterminated bogus comment", input: "<p>a<?php echo", expected: "<p>a<?php echo></p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, prims.BalanceTags(tt.input))
		})
	}
}

// unclosedTags counts non-void start tags that are never closed.
func unclosedTags(fragment string) int {
	void := map[string]bool{"br": true, "img": true, "hr": true, "input": true, "meta": true, "link": true}
	var stack []string
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return len(stack)
		case html.StartTagToken:
			name, _ := z.TagName()
			if !void[string(name)] {
				stack = append(stack, string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if n := len(stack); n > 0 && stack[n-1] == string(name) {
				stack = stack[:n-1]
			}
		}
	}
}

func TestBalanceTagsLeavesNothingOpen(t *testing.T) {
	prims := excerpt.DefaultPrimitives()
	inputs := []string{
		"<div><section><p>deep",
		"<ul><li>one<li>two",
		"<a href='#'><em>link</a></em></strong>",
		"<table><tr><td>cell",
		"</p></div>orphan closers<span>",
		"<p>a<!-- foo",
		"<section><p>x<!--\n\nnote",
		"<p>y<?bogus",
	}
	for _, in := range inputs {
		assert.Zero(t, unclosedTags(prims.BalanceTags(in)), in)
	}
}

func TestStripShortcodes(t *testing.T) {
	prims := excerpt.DefaultPrimitives()

	assert.Equal(t, "Hello  world", prims.StripShortcodes(`[gallery ids="1,2"]Hello [caption]cap[/caption] world`))
	assert.Equal(t, "see [gallery] here", prims.StripShortcodes("see [[gallery]] here"))
	assert.Equal(t, "footnote [1]", prims.StripShortcodes("footnote [1]"))
	assert.Equal(t, "a  b", prims.StripShortcodes("a [embed src=x /] b"))

	only := &excerpt.TextPrimitives{Shortcodes: []string{"gallery"}}
	assert.Equal(t, "[note]x[/note] ", only.StripShortcodes("[note]x[/note] [gallery]"))
}

func TestStripBlocks(t *testing.T) {
	prims := excerpt.DefaultPrimitives()

	in := "<!-- wp:paragraph -->\n<p>Hi</p>\n<!-- /wp:paragraph -->\n<!-- wp:image {\"id\":5} /-->"
	assert.Equal(t, "\n<p>Hi</p>\n\n", prims.StripBlocks(in))
	assert.Equal(t, "<p><!-- keep --></p>", prims.StripBlocks("<p><!-- keep --></p>"))
}

func TestExtractBeforeMarker(t *testing.T) {
	prims := excerpt.DefaultPrimitives()

	teaser, ok := prims.ExtractBeforeMarker("Intro<!--more Read on-->rest")
	assert.True(t, ok)
	assert.Equal(t, "Intro", teaser)

	teaser, ok = prims.ExtractBeforeMarker("<p>Lead</p><!--more-->tail<!--more-->")
	assert.True(t, ok)
	assert.Equal(t, "<p>Lead</p>", teaser)

	_, ok = prims.ExtractBeforeMarker("no marker")
	assert.False(t, ok)
}

func TestStripAllTags(t *testing.T) {
	prims := excerpt.DefaultPrimitives()

	assert.Equal(t, "Hello World", prims.StripAllTags("<b>Hello</b> <script>x()</script>World"))
	assert.Equal(t, "Go tips", prims.StripAllTags("<em>Go</em> tips"))
	assert.Equal(t, "", prims.StripAllTags(""))
}
