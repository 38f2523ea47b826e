package jira

import (
	"regexp"
	"strings"
)

// Legacy descriptions come back from the v2 read API as Jira wiki
// markup. The generator only needs legible plain text, so cleanup is a
// set of regex substitutions, not a parser; anything unrecognized is
// left alone.
var (
	wikiCodeRe      = regexp.MustCompile(`(?s)\{code(?::[^}]*)?\}(.*?)\{code\}`)
	wikiNoformatRe  = regexp.MustCompile(`(?s)\{noformat\}(.*?)\{noformat\}`)
	wikiColorRe     = regexp.MustCompile(`(?s)\{color(?::[^}]*)?\}(.*?)\{color\}`)
	wikiMonoRe      = regexp.MustCompile(`\{\{(.+?)\}\}`)
	wikiHeadingRe   = regexp.MustCompile(`(?m)^h[1-6]\.\s*`)
	wikiBlockquote  = regexp.MustCompile(`(?m)^bq\.\s*`)
	wikiBoldRe      = regexp.MustCompile(`\*(\S(?:[^*]*\S)?)\*`)
	wikiItalicRe    = regexp.MustCompile(`_(\S(?:[^_]*\S)?)_`)
	wikiLinkTitleRe = regexp.MustCompile(`\[([^|\]]+)\|[^\]]+\]`)
	wikiLinkBareRe  = regexp.MustCompile(`\[([^\]]+)\]`)
)

// StripWikiMarkup reduces Jira wiki markup to plain text.
func StripWikiMarkup(s string) string {
	s = wikiCodeRe.ReplaceAllString(s, "$1")
	s = wikiNoformatRe.ReplaceAllString(s, "$1")
	s = wikiColorRe.ReplaceAllString(s, "$1")
	s = wikiMonoRe.ReplaceAllString(s, "$1")
	s = wikiHeadingRe.ReplaceAllString(s, "")
	s = wikiBlockquote.ReplaceAllString(s, "")
	s = wikiBoldRe.ReplaceAllString(s, "$1")
	s = wikiItalicRe.ReplaceAllString(s, "$1")
	s = wikiLinkTitleRe.ReplaceAllString(s, "$1")
	s = wikiLinkBareRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
