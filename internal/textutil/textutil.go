// Package textutil implements the two pure text transforms the engine
// needs to embed arbitrary text inside generated C source: escaping a
// string for a C string literal, and reflowing free-form doc comments and
// C++ signatures to a fixed column width (spec.md §4.2).
//
// Both reflow functions return owned strings; unlike the original wrapper,
// which returned pointers into a reused static buffer, nothing here is
// invalidated by a subsequent call.
package textutil

import (
	"fmt"
	"regexp"
	"strings"
)

// MinQuoteLen is the smallest max_len QuoteForStringLiteral accepts
// (spec.md §4.2 precondition).
const MinQuoteLen = 32

const truncationSuffix = " ...\n [Truncated]\n"

// QuoteForStringLiteral produces a C-string-safe escaped form of s: '"' and
// '\' escape to `\"` and `\\`, newline becomes `\n`, printable ASCII passes
// through unchanged, and any other byte is emitted as three-digit octal
// (`\NNN`). If the escaped form would exceed maxLen bytes, it is truncated
// and the literal " ...\n [Truncated]\n" is appended in its place.
//
// maxLen must be at least MinQuoteLen.
func QuoteForStringLiteral(s string, maxLen int) string {
	if maxLen < MinQuoteLen {
		panic(fmt.Sprintf("textutil.QuoteForStringLiteral: maxLen %d < %d", maxLen, MinQuoteLen))
	}

	var b strings.Builder
	cut := -1 // length of the longest prefix that still leaves room for the suffix
	for i := 0; i < len(s); i++ {
		c := s[i]
		var piece string
		switch {
		case c == '"':
			piece = `\"`
		case c == '\\':
			piece = `\\`
		case c == '\n':
			piece = `\n`
		case c >= 0x20 && c < 0x7f:
			piece = string(c)
		default:
			piece = fmt.Sprintf(`\%03o`, c)
		}
		if cut < 0 && b.Len()+len(piece) > maxLen-len(truncationSuffix) {
			cut = b.Len()
		}
		b.WriteString(piece)
		if b.Len() > maxLen {
			return b.String()[:cut] + truncationSuffix
		}
	}
	return b.String()
}

// wrapWords greedily fills lines of at most width columns from words,
// joining with single spaces and indenting every continuation line with
// indent. It is the shared fill algorithm behind both reflow functions.
func wrapWords(words []string, width int, indent string) string {
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		switch {
		case i == 0:
			b.WriteString(w)
			lineLen = len(w)
		case lineLen+1+len(w) <= width:
			b.WriteByte(' ')
			b.WriteString(w)
			lineLen += 1 + len(w)
		default:
			b.WriteByte('\n')
			b.WriteString(indent)
			b.WriteString(w)
			lineLen = len(indent) + len(w)
		}
	}
	return b.String()
}

var pureVirtualSuffix = regexp.MustCompile(`\)\s*=\s*0\b\s*;?`)

// escapeQuotes escapes '"' to `\"`, but idempotently: a '"' immediately
// preceded by '\' in the input is assumed already escaped and is left
// alone, so re-running the escape on already-escaped text is a no-op.
func escapeQuotes(s string) string {
	var b strings.Builder
	prevBackslash := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' && !prevBackslash {
			b.WriteString(`\"`)
		} else {
			b.WriteByte(c)
		}
		prevBackslash = c == '\\'
	}
	return b.String()
}

// ReflowSignature reflows a C++ declaration to width columns with a
// two-space continuation indent. The ") = 0" pure-virtual suffix is
// stripped, and embedded quotes are escaped (idempotently) for embedding
// in a generated string literal.
func ReflowSignature(s string, width int) string {
	s = strings.TrimSpace(s)
	s = pureVirtualSuffix.ReplaceAllString(s, ")")
	s = escapeQuotes(s)
	return wrapWords(strings.Fields(s), width, "  ")
}

// blockIndent is the continuation indent used inside a doxygen block
// command (\param, \return, ...), per spec.md §4.2.
const blockIndent = "    "

// blockLabels maps a recognized doxygen block-start command to the label
// line it is rendered as.
var blockLabels = map[string]string{
	`\brief`:    "",
	`\short`:    "",
	`\pre`:      "Precondition:",
	`\post`:     "Postcondition:",
	`\param`:    "Parameter:",
	`\tparam`:   "Template parameter:",
	`\cmdparam`: "Parameter:",
	`\exception`: "Throws:",
	`\return`:   "Returns:",
	`\li`:       "-",
}

// inlineTags are doxygen inline markup commands that are dropped, leaving
// their argument text as plain words.
var inlineTags = map[string]bool{
	`\em`: true, `\a`: true, `\e`: true, `\c`: true, `\b`: true, `\p`: true,
	`\f$`: true, `\f[`: true, `\f]`: true,
}

var sectionMarker = regexp.MustCompile(`(?m)^\.SECTION[ \t]+(.*)$`)
var htmlBreak = regexp.MustCompile(`(?i)<p\s*/?>|<br\s*/?>`)

// ReflowComment reflows a doxygen-flavored doc comment to width columns.
// See spec.md §4.2 for the full list of recognized markup.
func ReflowComment(s string, width int) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	// Carve out \code...\endcode and \verbatim...\endverbatim regions,
	// which suspend line-joining: their bytes are copied verbatim and
	// never re-tokenized.
	segments := splitLiteralBlocks(s)

	var paragraphs []string
	for _, seg := range segments {
		if seg.literal {
			paragraphs = append(paragraphs, seg.text)
			continue
		}
		paragraphs = append(paragraphs, reflowProse(seg.text, width)...)
	}
	return strings.Join(paragraphs, "\n\n")
}

type segment struct {
	text    string
	literal bool
}

var codeBlock = regexp.MustCompile(`(?s)\\code(.*?)\\endcode`)
var verbatimBlock = regexp.MustCompile(`(?s)\\verbatim(.*?)\\endverbatim`)
var literalBlock = regexp.MustCompile(`(?s)\\(code|verbatim)(.*?)\\end(code|verbatim)`)

// splitLiteralBlocks splits s into alternating prose/literal segments on
// \code..\endcode and \verbatim..\endverbatim spans.
func splitLiteralBlocks(s string) []segment {
	var out []segment
	last := 0
	for _, loc := range literalBlock.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] > last {
			out = append(out, segment{text: s[last:loc[0]]})
		}
		out = append(out, segment{text: strings.Trim(s[loc[4]:loc[5]], "\n"), literal: true})
		last = loc[1]
	}
	if last < len(s) {
		out = append(out, segment{text: s[last:]})
	}
	if len(out) == 0 {
		return []segment{{text: s}}
	}
	return out
}

// reflowProse handles a non-literal segment: whitespace collapse, HTML and
// ".SECTION" paragraph breaks, inline tag stripping, and block-command
// rendering, returning one already-wrapped string per resulting paragraph.
func reflowProse(s string, width int) []string {
	s = htmlBreak.ReplaceAllString(s, "\n\n")
	s = sectionMarker.ReplaceAllString(s, "\n\n$1:\n\n")

	var paragraphs []string
	for _, para := range splitOnBlankLines(s) {
		paragraphs = append(paragraphs, reflowParagraph(para, width)...)
	}
	return paragraphs
}

func splitOnBlankLines(s string) []string {
	var out []string
	for _, p := range regexp.MustCompile(`\n\s*\n`).Split(s, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// reflowParagraph wraps a single paragraph, splitting it further on
// recognized block commands (\param, \return, ...) and the literal
// doxygen "\n" paragraph-break command, and stripping inline tags.
func reflowParagraph(s string, width int) []string {
	fields := strings.Fields(s)

	var out []string
	var cur []string
	indent := "  "

	flush := func() {
		if len(cur) > 0 {
			out = append(out, wrapWords(cur, width, indent))
			cur = nil
		}
	}

	for _, w := range fields {
		if w == `\n` {
			flush()
			indent = "  "
			continue
		}
		if label, ok := blockLabels[w]; ok {
			flush()
			indent = blockIndent
			if label != "" {
				out = append(out, label)
			}
			continue
		}
		if inlineTags[w] {
			continue
		}
		cur = append(cur, w)
	}
	flush()
	return out
}
