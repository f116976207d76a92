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

// Package format provides functions to write a [richtext.Document] as Markdown
// that [richtext.Parse] reads back into an equal document.
package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"go4.org/bytereplacer"
	"zombiezen.com/go/richtext"
)

const (
	codeFence     = "```"
	boldDelimiter = "**"
)

var textEscaper = bytereplacer.New(
	`\`, `\\`,
	`*`, `\*`,
)

// Format writes the document as Markdown to the given writer.
// Each block is written on its own line
// (or lines, for code blocks)
// and blocks are separated by a single "\n".
func Format(w io.Writer, doc *richtext.Document) error {
	ww := &errWriter{w: w}
	var buf []byte
	for i := 0; i < doc.BlockCount(); i++ {
		if i > 0 {
			ww.WriteString("\n")
		}
		buf = AppendBlock(buf[:0], doc.Block(i))
		ww.Write(buf)
	}
	if ww.err != nil {
		return fmt.Errorf("format markdown: %w", ww.err)
	}
	return nil
}

// String returns the document formatted as Markdown.
func String(doc *richtext.Document) string {
	sb := new(strings.Builder)
	// Writing in-memory doesn't fail.
	Format(sb, doc)
	return sb.String()
}

// AppendBlock appends the Markdown for a single block to dst
// and returns the extended buffer.
func AppendBlock(dst []byte, b *richtext.Block) []byte {
	switch b.Kind() {
	case richtext.CodeKind:
		dst = append(dst, codeFence...)
		dst = append(dst, b.Language()...)
		dst = append(dst, '\n')
		dst = append(dst, b.Text()...)
		dst = append(dst, '\n')
		dst = append(dst, codeFence...)
		return dst
	case richtext.HeadingKind:
		for i := 0; i < b.HeadingLevel(); i++ {
			dst = append(dst, '#')
		}
		content := appendInline(nil, b)
		if len(content) == 0 {
			return dst
		}
		dst = append(dst, ' ')
		return appendHeadingContent(dst, content)
	default:
		start := len(dst)
		dst = appendInline(dst, b)
		if line := string(dst[start:]); richtext.IsATXHeading(line) || richtext.IsCodeFence(line) {
			dst = append(dst, 0)
			copy(dst[start+1:], dst[start:])
			dst[start] = '\\'
		}
		return dst
	}
}

// appendInline appends the escaped text of the block's runs to dst,
// wrapping bold runs in delimiters.
func appendInline(dst []byte, b *richtext.Block) []byte {
	for i := 0; i < b.RunCount(); i++ {
		r := b.Run(i)
		if r.Text == "" {
			continue
		}
		bold := r.Marks&richtext.Bold != 0
		if bold {
			dst = append(dst, boldDelimiter...)
		}
		dst = append(dst, textEscaper.Replace([]byte(r.Text))...)
		if bold {
			dst = append(dst, boldDelimiter...)
		}
	}
	return dst
}

// appendHeadingContent appends a heading's inline content to dst,
// escaping the final hashmark if it would be read as a closing sequence.
func appendHeadingContent(dst []byte, content []byte) []byte {
	n := len(content)
	if content[n-1] != '#' {
		return append(dst, content...)
	}
	trimmed := bytes.TrimRight(content, "#")
	if len(trimmed) > 0 {
		if last := trimmed[len(trimmed)-1]; last != ' ' && last != '\t' {
			return append(dst, content...)
		}
	}
	dst = append(dst, content[:n-1]...)
	return append(dst, `\#`...)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = w.w.Write(p)
	return n, w.err
}

func (w *errWriter) WriteString(s string) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = io.WriteString(w.w, s)
	return n, w.err
}
