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

package format

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark"
	"zombiezen.com/go/richtext"
)

func plain(s string) richtext.Run { return richtext.Run{Text: s} }
func bold(s string) richtext.Run  { return richtext.Run{Text: s, Marks: richtext.Bold} }

func para(runs ...richtext.Run) *richtext.Block {
	return richtext.NewBlock(richtext.Paragraph(), runs...)
}

func heading(level int, runs ...richtext.Run) *richtext.Block {
	return richtext.NewBlock(richtext.Heading(level), runs...)
}

func code(lang, text string) *richtext.Block {
	return richtext.NewBlock(richtext.Code(lang), plain(text))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		doc  *richtext.Document
		want string
	}{
		{
			name: "Empty",
			doc:  richtext.NewDocument(),
			want: "",
		},
		{
			name: "BoldThenPlain",
			doc:  richtext.NewDocument(para(bold("Hello"), plain(" world"))),
			want: "**Hello** world",
		},
		{
			name: "CodeBlock",
			doc:  richtext.NewDocument(code("", "const x = 1;")),
			want: "```\nconst x = 1;\n```",
		},
		{
			name: "EmptyCodeBlock",
			doc:  richtext.NewDocument(code("go", "")),
			want: "```go\n\n```",
		},
		{
			name: "Blocks",
			doc: richtext.NewDocument(
				heading(1, plain("Title")),
				para(),
				para(plain("a "), bold("b")),
				code("go", "x := 1\ny := 2"),
			),
			want: "# Title\n\na **b**\n```go\nx := 1\ny := 2\n```",
		},
		{
			name: "EmptyHeading",
			doc:  richtext.NewDocument(heading(2)),
			want: "##",
		},
		{
			name: "HeadingOnlyHash",
			doc:  richtext.NewDocument(heading(1, plain("#"))),
			want: `# \#`,
		},
		{
			name: "HeadingTrailingHash",
			doc:  richtext.NewDocument(heading(1, plain("C #"))),
			want: `# C \#`,
		},
		{
			name: "HeadingHashSuffix",
			doc:  richtext.NewDocument(heading(1, plain("C#"))),
			want: `# C#`,
		},
		{
			name: "ParagraphLooksLikeHeading",
			doc:  richtext.NewDocument(para(plain("# not a heading"))),
			want: `\# not a heading`,
		},
		{
			name: "ParagraphLooksLikeFence",
			doc:  richtext.NewDocument(para(plain("```js"))),
			want: "\\```js",
		},
		{
			name: "Hashtag",
			doc:  richtext.NewDocument(para(plain("#hashtag"))),
			want: "#hashtag",
		},
		{
			name: "Escapes",
			doc:  richtext.NewDocument(para(plain(`a*b\c`), bold("**"))),
			want: `a\*b\\c**\*\***`,
		},
		{
			name: "CodeIsRaw",
			doc:  richtext.NewDocument(code("", `**a** \ #`)),
			want: "```\n**a** \\ #\n```",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := String(test.doc)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("String(doc) (-want +got):\n%s", diff)
			}
			if back := richtext.Parse(got); !back.Equal(test.doc) {
				t.Errorf("Parse(%q) does not equal the original document", got)
			}
		})
	}
}

var roundTripTests = []string{
	"",
	"\n",
	"**Hello** world",
	"```\nconst x = 1;\n```",
	"# Title\n\nSome **bold** text\n```go\nfunc main() {}\n```",
	"###",
	`## \#`,
	`\# literal`,
	"\\```",
	`a\*b\\c`,
	"**a**b**c**",
	"```javascript\n\n```",
}

func TestRoundTrip(t *testing.T) {
	for _, markdown := range roundTripTests {
		doc := richtext.Parse(markdown)
		got := String(doc)
		if got != markdown {
			t.Errorf("String(Parse(%q)) = %q; want %q", markdown, got, markdown)
		}
		if reparsed := richtext.Parse(got); !reparsed.Equal(doc) {
			t.Errorf("Parse(String(Parse(%q))) is not equal to Parse(%q)", markdown, markdown)
		}
	}
}

func FuzzFormat(f *testing.F) {
	for _, markdown := range roundTripTests {
		f.Add(markdown)
	}
	f.Add("> quote\n- item\n***\n   # indented\n####### seven\n```a`b\n```unclosed")
	f.Add("# heading ##\n## \\\\#\n\r\n\x00")

	f.Fuzz(func(t *testing.T, markdown string) {
		doc := richtext.Parse(markdown)
		got := String(doc)
		reparsed := richtext.Parse(got)
		if !reparsed.Equal(doc) {
			t.Errorf("Parse(String(Parse(%q))) is not equal to Parse(%q); formatted as %q", markdown, markdown, got)
		}
		if again := String(reparsed); again != got {
			t.Errorf("Format not idempotent for %q (-first +second):\n%s", markdown, cmp.Diff(got, again))
		}
	})
}

func TestInsertAndBold(t *testing.T) {
	doc := richtext.NewDocument()
	end, err := doc.InsertText(richtext.Pos{}, "hi")
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.ToggleMark(richtext.Selection{Focus: end}, richtext.Bold); err != nil {
		t.Fatal(err)
	}
	if got, want := String(doc), "**hi**"; got != want {
		t.Errorf("String(doc) = %q; want %q", got, want)
	}
}

func TestToggleIntoCode(t *testing.T) {
	doc := richtext.NewDocument(para(plain("let "), bold("x"), plain(" = 1;")))
	if err := doc.SetBlockType(0, richtext.Code("javascript")); err != nil {
		t.Fatal(err)
	}
	b := doc.Block(0)
	for i := 0; i < b.RunCount(); i++ {
		if r := b.Run(i); r.Marks != 0 {
			t.Errorf("doc.Block(0).Run(%d).Marks = %v; want 0", i, r.Marks)
		}
	}
	got := String(doc)
	if want := "```javascript\nlet x = 1;\n```"; got != want {
		t.Errorf("String(doc) = %q; want %q", got, want)
	}
	if strings.Contains(got, boldDelimiter) {
		t.Errorf("String(doc) = %q; contains bold delimiter", got)
	}
}

// TestCommonMark checks the formatted output against an independent CommonMark implementation.
func TestCommonMark(t *testing.T) {
	tests := []struct {
		name string
		doc  *richtext.Document
		want string
	}{
		{
			name: "Bold",
			doc:  richtext.NewDocument(para(bold("Hello"), plain(" world"))),
			want: "<p><strong>Hello</strong> world</p>\n",
		},
		{
			name: "EscapedText",
			doc:  richtext.NewDocument(para(plain(`a*b\c`))),
			want: "<p>a*b\\c</p>\n",
		},
		{
			name: "ParagraphLooksLikeHeading",
			doc:  richtext.NewDocument(para(plain("# not a heading"))),
			want: "<p># not a heading</p>\n",
		},
		{
			name: "HeadingTrailingHash",
			doc:  richtext.NewDocument(heading(1, plain("C #"))),
			want: "<h1>C #</h1>\n",
		},
		{
			name: "HeadingOnlyHash",
			doc:  richtext.NewDocument(heading(2, plain("#"))),
			want: "<h2>#</h2>\n",
		},
		{
			name: "CodeBlock",
			doc:  richtext.NewDocument(code("javascript", "const x = 1;")),
			want: "<pre><code class=\"language-javascript\">const x = 1;\n</code></pre>\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			markdown := String(test.doc)
			got := new(bytes.Buffer)
			if err := goldmark.Convert([]byte(markdown), got); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, got.String()); diff != "" {
				t.Errorf("HTML for %q (-want +got):\n%s", markdown, diff)
			}
		})
	}
}

type failWriter struct{}

var errFail = errors.New("write failed")

func (failWriter) Write(p []byte) (int, error) {
	return 0, errFail
}

func TestFormatWriteError(t *testing.T) {
	doc := richtext.NewDocument(para(plain("a")), para(plain("b")))
	err := Format(failWriter{}, doc)
	if !errors.Is(err, errFail) {
		t.Errorf("Format(failWriter{}, doc) = %v; want %v", err, errFail)
	}
}
