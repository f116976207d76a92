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
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"zombiezen.com/go/richtext"
	"zombiezen.com/go/richtext/highlight"
)

// An HTMLRenderer converts a document into HTML.
//
// Paragraphs, headings, and bold runs use the usual elements.
// Code blocks are rendered as
//
//	<pre class="code-block"><code class="language-go">...</code></pre>
//
// with each decorated range of code wrapped in
// a <span class="token ..."> element
// whose classes are the words of the decoration's tag.
type HTMLRenderer struct {
	// Decorations are the code decorations for the document,
	// as returned by [*highlight.Engine.Decorate].
	// Code without decorations is rendered as plain text.
	Decorations []highlight.Decoration
	// If Theme is not nil, decorated spans get a style attribute
	// with the theme's style for their tag.
	Theme *Theme
}

// RenderHTML writes doc to w as HTML
// with the given decorations and no theme.
func RenderHTML(w io.Writer, doc *richtext.Document, decorations []highlight.Decoration) error {
	return (&HTMLRenderer{Decorations: decorations}).Render(w, doc)
}

// Render writes doc to w as HTML, one block per line.
// It will return the first error encountered, if any.
func (r *HTMLRenderer) Render(w io.Writer, doc *richtext.Document) error {
	var buf []byte
	for i := 0; i < doc.BlockCount(); i++ {
		buf = buf[:0]
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = r.AppendBlock(buf, doc, i)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
	}
	return nil
}

// AppendBlock appends the HTML for the i'th block of doc to dst
// and returns the resulting byte slice.
func (r *HTMLRenderer) AppendBlock(dst []byte, doc *richtext.Document, i int) []byte {
	b := doc.Block(i)
	switch b.Kind() {
	case richtext.HeadingKind:
		tag := headingAtom(b.HeadingLevel())
		dst = openTag(dst, tag)
		dst = appendRunsHTML(dst, b)
		dst = closeTag(dst, tag)
	case richtext.CodeKind:
		dst = append(dst, `<pre class="code-block"><code`...)
		if lang := highlight.LanguageName(b.Language()); lang != "" {
			dst = append(dst, ` class="language-`...)
			dst = append(dst, html.EscapeString(lang)...)
			dst = append(dst, '"')
		}
		dst = append(dst, '>')
		decorations := blockDecorations(r.Decorations, i)
		for ri := 0; ri < b.RunCount(); ri++ {
			dst = r.appendCodeHTML(dst, b.Run(ri).Text, runDecorations(decorations, ri))
		}
		dst = closeTag(dst, atom.Code)
		dst = closeTag(dst, atom.Pre)
	default:
		dst = openTag(dst, atom.P)
		dst = appendRunsHTML(dst, b)
		dst = closeTag(dst, atom.P)
	}
	return dst
}

func appendRunsHTML(dst []byte, b *richtext.Block) []byte {
	for ri := 0; ri < b.RunCount(); ri++ {
		run := b.Run(ri)
		if run.Marks&richtext.Bold != 0 {
			dst = openTag(dst, atom.Strong)
			dst = append(dst, html.EscapeString(run.Text)...)
			dst = closeTag(dst, atom.Strong)
		} else {
			dst = append(dst, html.EscapeString(run.Text)...)
		}
	}
	return dst
}

// appendCodeHTML appends the text of a code run,
// wrapping each non-plain decoration in a span.
// Text not covered by a decoration is appended as-is.
func (r *HTMLRenderer) appendCodeHTML(dst []byte, text string, decorations []highlight.Decoration) []byte {
	off := 0
	for _, d := range decorations {
		start := max(d.Start, off)
		end := min(d.End, len(text))
		if start >= end {
			continue
		}
		dst = append(dst, html.EscapeString(text[off:start])...)
		segment := html.EscapeString(text[start:end])
		if d.Tag == highlight.PlainTag || d.Tag == "" {
			dst = append(dst, segment...)
		} else {
			dst = append(dst, `<span class="token `...)
			dst = append(dst, html.EscapeString(strings.ReplaceAll(d.Tag, ".", " "))...)
			dst = append(dst, '"')
			if css := r.Theme.Lookup(d.Tag).CSS(); css != "" {
				dst = append(dst, ` style="`...)
				dst = append(dst, html.EscapeString(css)...)
				dst = append(dst, '"')
			}
			dst = append(dst, '>')
			dst = append(dst, segment...)
			dst = closeTag(dst, atom.Span)
		}
		off = end
	}
	return append(dst, html.EscapeString(text[off:])...)
}

func headingAtom(level int) atom.Atom {
	switch level {
	case 1:
		return atom.H1
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	case 5:
		return atom.H5
	default:
		return atom.H6
	}
}

func openTag(dst []byte, name atom.Atom) []byte {
	dst = append(dst, '<')
	dst = append(dst, name.String()...)
	return append(dst, '>')
}

func closeTag(dst []byte, name atom.Atom) []byte {
	dst = append(dst, "</"...)
	dst = append(dst, name.String()...)
	return append(dst, '>')
}

// blockDecorations returns the decorations for the given block.
// decorations must be sorted by block.
func blockDecorations(decorations []highlight.Decoration, block int) []highlight.Decoration {
	byBlock := func(d highlight.Decoration, block int) int {
		return cmp.Compare(d.Block, block)
	}
	start, _ := slices.BinarySearchFunc(decorations, block, byBlock)
	end, _ := slices.BinarySearchFunc(decorations, block+1, byBlock)
	return decorations[start:end]
}

// runDecorations returns the decorations for the given run
// from a single block's decorations.
func runDecorations(decorations []highlight.Decoration, run int) []highlight.Decoration {
	var result []highlight.Decoration
	for _, d := range decorations {
		if d.Run == run {
			result = append(result, d)
		}
	}
	return result
}
