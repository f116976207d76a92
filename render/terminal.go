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

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"zombiezen.com/go/richtext"
	"zombiezen.com/go/richtext/highlight"
)

// codeIndent is the prefix of every line of a code block in terminal output.
const codeIndent = "    "

// A TerminalRenderer converts a document into text
// styled with ANSI escape sequences.
//
// Headings keep their leading "#" characters
// and code block lines are indented by four spaces,
// so the output reads like the document's Markdown without the
// bold delimiters and code fences.
type TerminalRenderer struct {
	// Decorations are the code decorations for the document,
	// as returned by [*highlight.Engine.Decorate].
	Decorations []highlight.Decoration
	// Theme maps tags to styles.
	// If nil, [DefaultTheme] is used.
	Theme *Theme
	// Renderer determines the color profile of the output.
	// If nil, [lipgloss.DefaultRenderer] is used.
	Renderer *lipgloss.Renderer
}

// Render writes doc to w, one line per line of text,
// ending with a newline.
// It will return the first error encountered, if any.
func (r *TerminalRenderer) Render(w io.Writer, doc *richtext.Document) error {
	t := &terminalState{
		TerminalRenderer: r,
		styles:           make(map[string]lipgloss.Style),
	}
	if t.theme = r.Theme; t.theme == nil {
		t.theme = DefaultTheme()
	}
	if t.renderer = r.Renderer; t.renderer == nil {
		t.renderer = lipgloss.DefaultRenderer()
	}
	sb := new(strings.Builder)
	for i := 0; i < doc.BlockCount(); i++ {
		sb.Reset()
		t.block(sb, doc, i)
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return fmt.Errorf("render terminal: %w", err)
		}
	}
	return nil
}

type terminalState struct {
	*TerminalRenderer
	theme    *Theme
	renderer *lipgloss.Renderer
	styles   map[string]lipgloss.Style
}

func (t *terminalState) block(sb *strings.Builder, doc *richtext.Document, i int) {
	b := doc.Block(i)
	switch b.Kind() {
	case richtext.HeadingKind:
		prefix := strings.Repeat("#", b.HeadingLevel())
		if b.Len() > 0 {
			prefix += " "
		}
		heading := t.style(HeadingTag)
		t.write(sb, heading, prefix)
		for ri := 0; ri < b.RunCount(); ri++ {
			run := b.Run(ri)
			style := heading
			if run.Marks&richtext.Bold != 0 {
				style = t.style(BoldTag).Inherit(heading)
			}
			t.write(sb, style, run.Text)
		}
	case richtext.CodeKind:
		decorations := blockDecorations(t.Decorations, i)
		code := t.style(CodeTag)
		sb.WriteString(codeIndent)
		for ri := 0; ri < b.RunCount(); ri++ {
			t.code(sb, code, b.Run(ri).Text, runDecorations(decorations, ri))
		}
	default:
		for ri := 0; ri < b.RunCount(); ri++ {
			run := b.Run(ri)
			if run.Marks&richtext.Bold != 0 {
				t.write(sb, t.style(BoldTag), run.Text)
			} else {
				t.write(sb, t.style(highlight.PlainTag), run.Text)
			}
		}
	}
}

func (t *terminalState) code(sb *strings.Builder, base lipgloss.Style, text string, decorations []highlight.Decoration) {
	off := 0
	for _, d := range decorations {
		start := max(d.Start, off)
		end := min(d.End, len(text))
		if start >= end {
			continue
		}
		t.write(sb, base, text[off:start])
		t.write(sb, t.style(d.Tag).Inherit(base), text[start:end])
		off = end
	}
	t.write(sb, base, text[off:])
}

// write appends text rendered in style.
// Each line is styled separately so that newlines stay outside of escape sequences
// and code lines keep their indent.
func (t *terminalState) write(sb *strings.Builder, style lipgloss.Style, text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
			sb.WriteString(codeIndent)
		}
		if line != "" {
			sb.WriteString(style.Render(line))
		}
	}
}

// style returns the lipgloss style for a tag, caching the conversion.
func (t *terminalState) style(tag string) lipgloss.Style {
	if s, ok := t.styles[tag]; ok {
		return s
	}
	s := t.lipglossStyle(t.theme.Lookup(tag))
	t.styles[tag] = s
	return s
}

func (t *terminalState) lipglossStyle(s Style) lipgloss.Style {
	ls := t.renderer.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if s.Foreground != "" {
		ls = ls.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		ls = ls.Background(lipgloss.Color(s.Background))
	}
	if s.Bold {
		ls = ls.Bold(true)
	}
	if s.Italic {
		ls = ls.Italic(true)
	}
	if s.Underline {
		ls = ls.Underline(true)
	}
	return ls
}
