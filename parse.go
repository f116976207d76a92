// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package richtext

import (
	"strings"

	"go.uber.org/zap"
)

// codeFence is the delimiter that opens and closes a code block.
const codeFence = "```"

// boldDelimiter is the delimiter that toggles [Bold] inside a line.
const boldDelimiter = "**"

// A Parser converts Markdown into a [Document].
// The zero value is a valid parser that does not log.
type Parser struct {
	// Logger receives a debug message
	// for each Markdown construct that was kept as plain paragraph text.
	// If nil, nothing is logged.
	Logger *zap.Logger
}

// Parse converts Markdown into a [Document]
// using a zero [Parser].
func Parse(markdown string) *Document {
	doc, _ := new(Parser).Parse(markdown)
	return doc
}

// Parse converts Markdown into a [Document].
// Each line of input becomes one block,
// except for fenced code blocks, which span from their opening fence
// to their closing fence.
// Parse never fails:
// constructs outside the supported subset are kept as paragraph text
// and reported in the returned slice.
//
// Before parsing, NUL characters and invalid UTF-8 are replaced with U+FFFD
// and line endings are normalized to "\n".
func (p *Parser) Parse(markdown string) (*Document, []*UnsupportedError) {
	lines := strings.Split(sanitizeText(markdown), "\n")
	doc := &Document{blocks: make([]Block, 0, len(lines))}
	var unsupported []*UnsupportedError
	report := func(lineno int, construct string) {
		e := &UnsupportedError{Line: lineno, Construct: construct}
		p.logger().Debug("Markdown construct kept as text",
			zap.Int("line", e.Line),
			zap.String("construct", e.Construct),
		)
		unsupported = append(unsupported, e)
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lineno := i + 1
		if lang, ok := parseCodeFence(line); ok {
			if end := findClosingFence(lines[i+1:]); end >= 0 {
				b := Block{
					typ:  Code(lang),
					runs: []Run{{Text: strings.Join(lines[i+1:i+1+end], "\n")}},
				}
				b.coalesce()
				doc.blocks = append(doc.blocks, b)
				i += 1 + end
				continue
			}
			report(lineno, "unclosed code fence")
		} else if level, content, ok := parseATXHeading(line); ok {
			runs, unmatched := parseInline(content)
			if unmatched {
				report(lineno, "unmatched bold delimiter")
			}
			b := Block{typ: Heading(level), runs: runs}
			b.coalesce()
			doc.blocks = append(doc.blocks, b)
			continue
		} else if construct := unsupportedConstruct(line, afterParagraphText(doc)); construct != "" {
			report(lineno, construct)
		}

		runs, unmatched := parseInline(line)
		if unmatched {
			report(lineno, "unmatched bold delimiter")
		}
		b := Block{typ: Paragraph(), runs: runs}
		b.coalesce()
		doc.blocks = append(doc.blocks, b)
	}
	return doc, unsupported
}

func (p *Parser) logger() *zap.Logger {
	if p == nil || p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// parseCodeFence reports whether line opens a fenced code block
// and returns the block's language tag.
func parseCodeFence(line string) (lang string, ok bool) {
	info, ok := strings.CutPrefix(line, codeFence)
	if !ok || strings.Contains(info, "`") {
		return "", false
	}
	return strings.TrimSpace(info), true
}

// findClosingFence returns the index of the first line
// that closes a fenced code block
// or -1 if no line does.
func findClosingFence(lines []string) int {
	for i, line := range lines {
		if line == codeFence {
			return i
		}
	}
	return -1
}

// parseATXHeading attempts to parse the line as an [ATX heading].
// The content excludes the space after the opening sequence
// and any closing sequence.
// parseATXHeading does not permit indentation before the opening sequence.
//
// [ATX heading]: https://spec.commonmark.org/0.30/#atx-headings
func parseATXHeading(line string) (level int, content string, ok bool) {
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > MaxHeadingLevel {
		return 0, "", false
	}
	rest := line[level:]
	if rest == "" {
		return level, "", true
	}
	if rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}
	content = rest[1:]

	// A closing sequence of hashmarks must be the whole content
	// or be preceded by a space or tab.
	if trimmed := strings.TrimRight(content, "#"); len(trimmed) < len(content) {
		switch {
		case trimmed == "":
			content = ""
		case trimmed[len(trimmed)-1] == ' ' || trimmed[len(trimmed)-1] == '\t':
			content = strings.TrimRight(trimmed, " \t")
		}
	}
	return level, content, true
}

// IsATXHeading reports whether line would be read as a heading.
func IsATXHeading(line string) bool {
	_, _, ok := parseATXHeading(line)
	return ok
}

// IsCodeFence reports whether line would be read as the start of a code block.
func IsCodeFence(line string) bool {
	_, ok := parseCodeFence(line)
	return ok
}

// parseInline splits a line of paragraph or heading content into runs.
// Each unescaped bold delimiter toggles [Bold].
// If the line has an odd number of delimiters,
// the last one is kept as text and unmatched is true.
func parseInline(s string) (runs []Run, unmatched bool) {
	n := countBoldDelimiters(s)
	if n%2 == 1 {
		unmatched = true
		n--
	}
	sb := new(strings.Builder)
	var marks Mark
	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\' && i+1 < len(s) && isASCIIPunctuation(s[i+1]):
			sb.WriteByte(s[i+1])
			i += 2
		case n > 0 && strings.HasPrefix(s[i:], boldDelimiter):
			runs = append(runs, Run{Text: sb.String(), Marks: marks})
			sb.Reset()
			marks ^= Bold
			n--
			i += len(boldDelimiter)
		default:
			sb.WriteByte(s[i])
			i++
		}
	}
	runs = append(runs, Run{Text: sb.String(), Marks: marks})
	return runs, unmatched
}

func countBoldDelimiters(s string) int {
	n := 0
	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\' && i+1 < len(s) && isASCIIPunctuation(s[i+1]):
			i += 2
		case strings.HasPrefix(s[i:], boldDelimiter):
			n++
			i += len(boldDelimiter)
		default:
			i++
		}
	}
	return n
}

// unsupportedConstruct names the CommonMark block construct
// that line would start outside of this package's subset,
// or returns the empty string if the line is an ordinary paragraph.
func unsupportedConstruct(line string, afterParagraph bool) string {
	if isBlankLine(line) {
		return ""
	}
	indent := len(line) - len(strings.TrimLeft(line, " "))
	if indent >= 4 || line[0] == '\t' {
		return "indented code block"
	}
	rest := line[indent:]
	switch {
	case parseThematicBreak(rest) >= 0:
		return "thematic break"
	case rest[0] == '>':
		return "block quote"
	case isListMarker(rest):
		return "list item"
	case afterParagraph && isSetextUnderline(rest):
		return "setext heading"
	case strings.HasPrefix(rest, "~~~"):
		return "tilde code fence"
	case indent > 0 && IsATXHeading(rest):
		return "indented heading"
	case indent > 0 && IsCodeFence(rest):
		return "indented code fence"
	case strings.HasPrefix(rest, "<"):
		return "HTML block"
	}
	return ""
}

// afterParagraphText reports whether the last block parsed so far
// is a non-empty paragraph.
func afterParagraphText(doc *Document) bool {
	n := len(doc.blocks)
	return n > 0 && doc.blocks[n-1].typ.Kind == ParagraphKind && doc.blocks[n-1].Len() > 0
}

// parseThematicBreak attempts to parse the line as a [thematic break].
// It returns the end of the thematic break characters
// or -1 if the line is not a thematic break.
//
// [thematic break]: https://spec.commonmark.org/0.30/#thematic-breaks
func parseThematicBreak(line string) (end int) {
	n := 0
	var want byte
	for i := 0; i < len(line); i++ {
		switch b := line[i]; b {
		case '-', '_', '*':
			if n == 0 {
				want = b
			} else if b != want {
				return -1
			}
			n++
			end = i + 1
		case ' ', '\t':
			// Ignore
		default:
			return -1
		}
	}
	if n < 3 {
		return -1
	}
	return end
}

// isListMarker reports whether line begins with a [list marker]
// followed by whitespace or the end of the line.
//
// [list marker]: https://spec.commonmark.org/0.30/#list-items
func isListMarker(line string) bool {
	switch line[0] {
	case '-', '+', '*':
		return len(line) == 1 || line[1] == ' ' || line[1] == '\t'
	}
	i := 0
	for i < len(line) && i < 9 && '0' <= line[i] && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || (line[i] != '.' && line[i] != ')') {
		return false
	}
	i++
	return i == len(line) || line[i] == ' ' || line[i] == '\t'
}

// isSetextUnderline reports whether line consists of '=' characters
// and optional trailing whitespace.
// Lines of '-' are reported as thematic breaks instead.
func isSetextUnderline(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	return trimmed != "" && strings.Trim(trimmed, "=") == ""
}

func isBlankLine(line string) bool {
	return strings.Trim(line, " \t") == ""
}

// isASCIIPunctuation reports whether c is an [ASCII punctuation character].
//
// [ASCII punctuation character]: https://spec.commonmark.org/0.30/#ascii-punctuation-character
func isASCIIPunctuation(c byte) bool {
	return '!' <= c && c <= '/' ||
		':' <= c && c <= '@' ||
		'[' <= c && c <= '`' ||
		'{' <= c && c <= '~'
}
