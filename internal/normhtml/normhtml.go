// Copyright 2023 Ross Light
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

// Package normhtml normalizes HTML fragments
// so that renderings from different Markdown implementations
// can be compared for structure rather than formatting.
package normhtml

import (
	"bytes"
	"regexp"
	"slices"
	"sort"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// Options controls which differences [*Options.Normalize] ignores
// beyond whitespace and attribute order.
type Options struct {
	// IgnoreAttrs is a list of attribute names to remove from every element.
	IgnoreAttrs []string
	// Unwrap is a list of elements whose tags are removed.
	// Their content is kept.
	Unwrap []atom.Atom
}

// NormalizeHTML strips insignificant whitespace from HTML
// and sorts each element's attributes.
func NormalizeHTML(b []byte) []byte {
	return (*Options)(nil).Normalize(b)
}

// Normalize strips insignificant whitespace from HTML,
// sorts each element's attributes,
// and drops the attributes and elements named in opts.
// A single newline at the end of a <pre><code> element is dropped.
// A nil *Options is treated the same as the zero value.
func (opts *Options) Normalize(b []byte) []byte {
	type htmlAttribute struct {
		key   string
		value string
	}

	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	var output []byte
	last := html.StartTagToken
	var lastTag string
	inPre := false
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return output
		case html.TextToken:
			data := tok.Text()
			if !inPre {
				data = whitespaceRE.ReplaceAll(data, []byte(" "))
				if isBlockTag(lastTag) {
					switch last {
					case html.StartTagToken:
						data = bytes.TrimLeftFunc(data, unicode.IsSpace)
					case html.EndTagToken:
						data = bytes.TrimSpace(data)
					}
				}
			}
			output = append(output, htmlEscaper.Replace(bytes.Clone(data))...)
		case html.EndTagToken:
			tagBytes, _ := tok.TagName()
			tag := string(tagBytes)
			switch {
			case tag == "pre":
				inPre = false
			case tag == "code" && inPre:
				output = bytes.TrimSuffix(output, []byte("\n"))
			case isBlockTag(tag):
				output = bytes.TrimRightFunc(output, unicode.IsSpace)
			}
			if opts.unwrap(tag) {
				continue
			}
			output = append(output, "</"...)
			output = append(output, tag...)
			output = append(output, ">"...)
			lastTag = tag
		case html.StartTagToken, html.SelfClosingTagToken:
			tagBytes, hasAttr := tok.TagName()
			tag := string(tagBytes)
			if tag == "pre" {
				inPre = true
			}
			if isBlockTag(tag) {
				output = bytes.TrimRightFunc(output, unicode.IsSpace)
			}
			if opts.unwrap(tag) {
				continue
			}
			output = append(output, "<"...)
			output = append(output, tag...)
			var attrs []htmlAttribute
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = tok.TagAttr()
				if !opts.ignoreAttr(string(k)) {
					attrs = append(attrs, htmlAttribute{string(k), string(v)})
				}
			}
			sort.Slice(attrs, func(i, j int) bool {
				return attrs[i].key < attrs[j].key
			})
			for _, attr := range attrs {
				output = append(output, " "...)
				output = append(output, attr.key...)
				if attr.value != "" {
					output = append(output, `="`...)
					output = append(output, html.EscapeString(attr.value)...)
					output = append(output, `"`...)
				}
			}
			output = append(output, ">"...)
			lastTag = tag
		}

		last = tt
		if tt == html.SelfClosingTagToken {
			last = html.EndTagToken
		}
	}
}

func (opts *Options) ignoreAttr(key string) bool {
	return opts != nil && slices.Contains(opts.IgnoreAttrs, key)
}

func (opts *Options) unwrap(tag string) bool {
	return opts != nil && slices.Contains(opts.Unwrap, atom.Lookup([]byte(tag)))
}

// isBlockTag reports whether whitespace around the tag is insignificant.
func isBlockTag(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.P, atom.Pre, atom.Div, atom.Hr, atom.Blockquote,
		atom.Ol, atom.Ul, atom.Li,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	default:
		return false
	}
}
