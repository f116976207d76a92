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

// Package render draws a [richtext.Document] and its code decorations
// as HTML or as styled terminal text.
// Decoration tags are mapped to visual styles through a [Theme].
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
	"zombiezen.com/go/richtext/highlight"
)

// Tags for document structure outside of code blocks.
const (
	HeadingTag = "markup.heading"
	BoldTag    = "markup.bold"
	CodeTag    = "markup.code"
)

// Style is the visual style of a tag.
// Colors are hex triplets like "#ff0000"
// or, for terminals only, ANSI color numbers.
type Style struct {
	Foreground string `toml:"foreground,omitempty" yaml:"foreground,omitempty"`
	Background string `toml:"background,omitempty" yaml:"background,omitempty"`
	Bold       bool   `toml:"bold,omitempty" yaml:"bold,omitempty"`
	Italic     bool   `toml:"italic,omitempty" yaml:"italic,omitempty"`
	Underline  bool   `toml:"underline,omitempty" yaml:"underline,omitempty"`
}

// IsZero reports whether s has no attributes set.
func (s Style) IsZero() bool {
	return s == Style{}
}

// CSS returns s as a list of CSS declarations
// suitable for a style attribute.
func (s Style) CSS() string {
	var decls []string
	if s.Foreground != "" {
		decls = append(decls, "color:"+s.Foreground)
	}
	if s.Background != "" {
		decls = append(decls, "background-color:"+s.Background)
	}
	if s.Bold {
		decls = append(decls, "font-weight:bold")
	}
	if s.Italic {
		decls = append(decls, "font-style:italic")
	}
	if s.Underline {
		decls = append(decls, "text-decoration:underline")
	}
	return strings.Join(decls, ";")
}

// Theme maps tags to styles.
type Theme struct {
	Name   string           `toml:"name" yaml:"name"`
	Styles map[string]Style `toml:"styles" yaml:"styles"`
}

// Lookup returns the style for a tag.
// If the theme has no style for a dotted tag like "literal.string.double",
// Lookup tries each shorter prefix ("literal.string", then "literal").
// Tags with no match use the style for [highlight.PlainTag].
// A nil theme returns the zero style for every tag.
func (t *Theme) Lookup(tag string) Style {
	if t == nil {
		return Style{}
	}
	for tag != "" {
		if s, ok := t.Styles[tag]; ok {
			return s
		}
		i := strings.LastIndexByte(tag, '.')
		if i < 0 {
			break
		}
		tag = tag[:i]
	}
	return t.Styles[highlight.PlainTag]
}

// DefaultTheme returns a new copy of the built-in theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "default",
		Styles: map[string]Style{
			highlight.PlainTag: {},
			HeadingTag:         {Foreground: "#5f87ff", Bold: true},
			BoldTag:            {Bold: true},
			CodeTag:            {Background: "#262626"},
			"comment":          {Foreground: "#808080", Italic: true},
			"keyword":          {Foreground: "#d75fd7", Bold: true},
			"keyword.constant": {Foreground: "#d75fd7"},
			"keyword.type":     {Foreground: "#00afaf"},
			"name.builtin":     {Foreground: "#00afaf"},
			"name.function":    {Foreground: "#5fafff"},
			"name.class":       {Foreground: "#5fafff", Bold: true},
			"name.tag":         {Foreground: "#d75fd7"},
			"name.attribute":   {Foreground: "#d7af5f"},
			"literal":          {Foreground: "#d7af5f"},
			"literal.string":   {Foreground: "#87af5f"},
			"literal.number":   {Foreground: "#d7875f"},
			"operator":         {Foreground: "#d7d7d7"},
			"punctuation":      {Foreground: "#a8a8a8"},
			"generic.deleted":  {Foreground: "#d75f5f"},
			"generic.inserted": {Foreground: "#87af5f"},
			"generic.heading":  {Bold: true},
			"error":            {Foreground: "#ff5f5f", Underline: true},
		},
	}
}

// LoadTheme decodes a theme from TOML or YAML,
// chosen by the extension of filename (".toml", ".yaml", or ".yml").
// Unknown keys are an error.
// If the theme does not name itself, its name is filename without the extension.
func LoadTheme(filename string, data []byte) (*Theme, error) {
	t := new(Theme)
	ext := filepath.Ext(filename)
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), t)
		if err != nil {
			return nil, fmt.Errorf("load theme %s: %w", filename, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("load theme %s: unknown key %v", filename, undecoded[0])
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(t); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("load theme %s: %w", filename, err)
		}
	default:
		return nil, fmt.Errorf("load theme %s: unknown format %q", filename, ext)
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(filename), ext)
	}
	if t.Styles == nil {
		t.Styles = make(map[string]Style)
	}
	return t, nil
}
