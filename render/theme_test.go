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
	"testing"

	"github.com/google/go-cmp/cmp"
	"zombiezen.com/go/richtext/highlight"
)

func TestThemeLookup(t *testing.T) {
	theme := &Theme{Styles: map[string]Style{
		highlight.PlainTag:       {Foreground: "#ffffff"},
		"literal":                {Foreground: "#aaaaaa"},
		"literal.string":         {Foreground: "#00ff00"},
		"literal.string.escape":  {Bold: true},
		"keyword":                {Bold: true},
		"name.function.magic.xx": {Italic: true},
	}}
	tests := []struct {
		tag  string
		want Style
	}{
		{"literal.string.escape", Style{Bold: true}},
		{"literal.string.double", Style{Foreground: "#00ff00"}},
		{"literal.number", Style{Foreground: "#aaaaaa"}},
		{"keyword.namespace", Style{Bold: true}},
		{"name.function", Style{Foreground: "#ffffff"}},
		{"unknown", Style{Foreground: "#ffffff"}},
		{"", Style{Foreground: "#ffffff"}},
		{highlight.PlainTag, Style{Foreground: "#ffffff"}},
	}
	for _, test := range tests {
		if got := theme.Lookup(test.tag); got != test.want {
			t.Errorf("Lookup(%q) = %+v; want %+v", test.tag, got, test.want)
		}
	}

	var nilTheme *Theme
	if got := nilTheme.Lookup("keyword"); !got.IsZero() {
		t.Errorf("(*Theme)(nil).Lookup(\"keyword\") = %+v; want zero", got)
	}
}

func TestDefaultThemeCopies(t *testing.T) {
	a := DefaultTheme()
	a.Styles["keyword"] = Style{Underline: true}
	if got := DefaultTheme().Lookup("keyword"); got.Underline {
		t.Error("modifying DefaultTheme() result changed later results")
	}
}

func TestStyleCSS(t *testing.T) {
	tests := []struct {
		style Style
		want  string
	}{
		{Style{}, ""},
		{Style{Foreground: "#123456"}, "color:#123456"},
		{
			Style{Foreground: "#fff", Background: "#000", Bold: true, Italic: true, Underline: true},
			"color:#fff;background-color:#000;font-weight:bold;font-style:italic;text-decoration:underline",
		},
	}
	for _, test := range tests {
		if got := test.style.CSS(); got != test.want {
			t.Errorf("%+v.CSS() = %q; want %q", test.style, got, test.want)
		}
	}
}

func TestLoadTheme(t *testing.T) {
	want := &Theme{
		Name: "solar",
		Styles: map[string]Style{
			"keyword":        {Foreground: "#859900", Bold: true},
			"literal.string": {Foreground: "#2aa198"},
			"comment":        {Foreground: "#586e75", Italic: true},
		},
	}
	tests := []struct {
		filename string
		data     string
	}{
		{
			filename: "x.toml",
			data: `name = "solar"

[styles.keyword]
foreground = "#859900"
bold = true

[styles."literal.string"]
foreground = "#2aa198"

[styles.comment]
foreground = "#586e75"
italic = true
`,
		},
		{
			filename: "x.yaml",
			data: `name: solar
styles:
  keyword:
    foreground: "#859900"
    bold: true
  literal.string:
    foreground: "#2aa198"
  comment:
    foreground: "#586e75"
    italic: true
`,
		},
		{
			filename: "/themes/solar.TOML",
			data: `[styles.keyword]
foreground = "#859900"
bold = true

[styles."literal.string"]
foreground = "#2aa198"

[styles.comment]
foreground = "#586e75"
italic = true
`,
		},
		{
			filename: "solar.yml",
			data: `styles:
  keyword: {foreground: "#859900", bold: true}
  literal.string: {foreground: "#2aa198"}
  comment: {foreground: "#586e75", italic: true}
`,
		},
	}
	for _, test := range tests {
		got, err := LoadTheme(test.filename, []byte(test.data))
		if err != nil {
			t.Errorf("LoadTheme(%q, ...): %v", test.filename, err)
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("LoadTheme(%q, ...) (-want +got):\n%s", test.filename, diff)
		}
	}
}

func TestLoadThemeEmpty(t *testing.T) {
	for _, filename := range []string{"empty.toml", "empty.yaml"} {
		got, err := LoadTheme(filename, nil)
		if err != nil {
			t.Errorf("LoadTheme(%q, nil): %v", filename, err)
			continue
		}
		want := &Theme{Name: "empty", Styles: map[string]Style{}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("LoadTheme(%q, nil) (-want +got):\n%s", filename, diff)
		}
	}
}

func TestLoadThemeErrors(t *testing.T) {
	tests := []struct {
		filename string
		data     string
	}{
		{"theme.json", `{}`},
		{"theme", ``},
		{"bad.toml", `name = `},
		{"unknown.toml", "[styles.keyword]\ncolour = \"#fff\"\n"},
		{"bad.yaml", "styles: [1, 2"},
		{"unknown.yaml", "styles:\n  keyword:\n    colour: \"#fff\"\n"},
	}
	for _, test := range tests {
		if got, err := LoadTheme(test.filename, []byte(test.data)); err == nil {
			t.Errorf("LoadTheme(%q, %q) = %+v, <nil>; want error", test.filename, test.data, got)
		}
	}
}
