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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInsecureCharacters(t *testing.T) {
	const input = "Hello,\x00World\xff"
	const want = "Hello,\ufffdWorld\ufffd"

	doc := Parse(input)
	if got := doc.BlockCount(); got != 1 {
		t.Fatalf("doc.BlockCount() = %d; want 1", got)
	}
	if got := doc.Block(0).Kind(); got != ParagraphKind {
		t.Fatalf("doc.Block(0).Kind() = %v; want %v", got, ParagraphKind)
	}
	if got := doc.Block(0).Text(); got != want {
		t.Errorf("doc.Block(0).Text() = %q; want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name            string
		markdown        string
		want            *Document
		wantUnsupported []*UnsupportedError
	}{
		{
			name:     "Empty",
			markdown: "",
			want:     NewDocument(),
		},
		{
			name:     "BoldThenPlain",
			markdown: "**Hello** world",
			want:     NewDocument(para(bold("Hello"), plain(" world"))),
		},
		{
			name:     "CodeBlock",
			markdown: "```\nconst x = 1;\n```",
			want:     NewDocument(NewBlock(Code(""), plain("const x = 1;"))),
		},
		{
			name:     "CodeBlockLanguage",
			markdown: "```js extra\nx\n\ny\n```",
			want:     NewDocument(NewBlock(Code("js extra"), plain("x\n\ny"))),
		},
		{
			name:     "EmptyCodeBlock",
			markdown: "```go\n```",
			want:     NewDocument(NewBlock(Code("go"))),
		},
		{
			name:     "HeadingAndParagraph",
			markdown: "# Title\nbody **text**",
			want: NewDocument(
				NewBlock(Heading(1), plain("Title")),
				para(plain("body "), bold("text")),
			),
		},
		{
			name:     "BlankLines",
			markdown: "a\n\nb\n",
			want: NewDocument(
				para(plain("a")),
				para(),
				para(plain("b")),
				para(),
			),
		},
		{
			name:     "LineEndings",
			markdown: "a\r\nb\rc",
			want: NewDocument(
				para(plain("a")),
				para(plain("b")),
				para(plain("c")),
			),
		},
		{
			name:     "ClosingSequence",
			markdown: "## Closing ##",
			want:     NewDocument(NewBlock(Heading(2), plain("Closing"))),
		},
		{
			name:     "EscapedClosingSequence",
			markdown: `# \#`,
			want:     NewDocument(NewBlock(Heading(1), plain("#"))),
		},
		{
			name:     "SevenHashes",
			markdown: "####### seven",
			want:     NewDocument(para(plain("####### seven"))),
		},
		{
			name:     "Hashtag",
			markdown: "#hashtag",
			want:     NewDocument(para(plain("#hashtag"))),
		},
		{
			name:     "Escapes",
			markdown: `\# \*\*not bold\*\* \\ \a`,
			want:     NewDocument(para(plain(`# **not bold** \ \a`))),
		},
		{
			name:     "UnmatchedBold",
			markdown: "a **b** **c",
			want:     NewDocument(para(plain("a "), bold("b"), plain(" **c"))),
			wantUnsupported: []*UnsupportedError{
				{Line: 1, Construct: "unmatched bold delimiter"},
			},
		},
		{
			name:     "UnclosedFence",
			markdown: "```go\nx := 1",
			want: NewDocument(
				para(plain("```go")),
				para(plain("x := 1")),
			),
			wantUnsupported: []*UnsupportedError{
				{Line: 1, Construct: "unclosed code fence"},
			},
		},
		{
			name:     "BacktickInfo",
			markdown: "```a`b",
			want:     NewDocument(para(plain("```a`b"))),
		},
		{
			name:     "BlockQuote",
			markdown: "> quote",
			want:     NewDocument(para(plain("> quote"))),
			wantUnsupported: []*UnsupportedError{
				{Line: 1, Construct: "block quote"},
			},
		},
		{
			name:     "Lists",
			markdown: "- item\n1. first",
			want: NewDocument(
				para(plain("- item")),
				para(plain("1. first")),
			),
			wantUnsupported: []*UnsupportedError{
				{Line: 1, Construct: "list item"},
				{Line: 2, Construct: "list item"},
			},
		},
		{
			name:     "ThematicBreak",
			markdown: "***",
			want:     NewDocument(para(plain("***"))),
			wantUnsupported: []*UnsupportedError{
				{Line: 1, Construct: "thematic break"},
				{Line: 1, Construct: "unmatched bold delimiter"},
			},
		},
		{
			name:     "Setext",
			markdown: "Title\n===",
			want: NewDocument(
				para(plain("Title")),
				para(plain("===")),
			),
			wantUnsupported: []*UnsupportedError{
				{Line: 2, Construct: "setext heading"},
			},
		},
		{
			name:     "IndentedCode",
			markdown: "    code",
			want:     NewDocument(para(plain("    code"))),
			wantUnsupported: []*UnsupportedError{
				{Line: 1, Construct: "indented code block"},
			},
		},
		{
			name:     "TildeFence",
			markdown: "~~~\nx\n~~~",
			want: NewDocument(
				para(plain("~~~")),
				para(plain("x")),
				para(plain("~~~")),
			),
			wantUnsupported: []*UnsupportedError{
				{Line: 1, Construct: "tilde code fence"},
				{Line: 3, Construct: "tilde code fence"},
			},
		},
		{
			name:     "IndentedHeading",
			markdown: "  # Title",
			want:     NewDocument(para(plain("  # Title"))),
			wantUnsupported: []*UnsupportedError{
				{Line: 1, Construct: "indented heading"},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, unsupported := new(Parser).Parse(test.markdown)
			if diff := cmp.Diff(test.want, got, docCompare); diff != "" {
				t.Errorf("Parse(%q) document (-want +got):\n%s", test.markdown, diff)
			}
			if diff := cmp.Diff(test.wantUnsupported, unsupported, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse(%q) unsupported (-want +got):\n%s", test.markdown, diff)
			}
			if !Parse(test.markdown).Equal(got) {
				t.Errorf("Parse(%q) differs from (*Parser).Parse", test.markdown)
			}
		})
	}
}

func TestParseATXHeading(t *testing.T) {
	tests := []struct {
		line        string
		wantLevel   int
		wantContent string
		wantOK      bool
	}{
		{"", 0, "", false},
		{"#", 1, "", true},
		{"# ", 1, "", true},
		{"# foo", 1, "foo", true},
		{"#  foo", 1, " foo", true},
		{"#\tfoo", 1, "foo", true},
		{"###### six", 6, "six", true},
		{"####### seven", 0, "", false},
		{"#foo", 0, "", false},
		{"# foo #", 1, "foo", true},
		{"# foo \t##", 1, "foo", true},
		{"# foo#", 1, "foo#", true},
		{"# #", 1, "", true},
		{"## ###", 2, "", true},
		{`# \#`, 1, `\#`, true},
		{`# foo \#`, 1, `foo \#`, true},
	}
	for _, test := range tests {
		level, content, ok := parseATXHeading(test.line)
		if level != test.wantLevel || content != test.wantContent || ok != test.wantOK {
			t.Errorf("parseATXHeading(%q) = %d, %q, %t; want %d, %q, %t",
				test.line, level, content, ok, test.wantLevel, test.wantContent, test.wantOK)
		}
	}
}

func TestUnsupportedError(t *testing.T) {
	err := error(&UnsupportedError{Line: 3, Construct: "block quote"})
	if !errors.Is(err, ErrUnsupportedMarkdown) {
		t.Errorf("errors.Is(%v, ErrUnsupportedMarkdown) = false; want true", err)
	}
	const want = "line 3: block quote: unsupported markdown"
	if got := err.Error(); got != want {
		t.Errorf("err.Error() = %q; want %q", got, want)
	}
}

func TestParserLogsUnsupported(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := &Parser{Logger: zap.New(core)}
	p.Parse("ok\n> quote\n**fine**")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries; want 1", len(entries))
	}
	if got, want := entries[0].Level, zapcore.DebugLevel; got != want {
		t.Errorf("entry level = %v; want %v", got, want)
	}
	want := map[string]any{
		"line":      int64(2),
		"construct": "block quote",
	}
	if diff := cmp.Diff(want, entries[0].ContextMap()); diff != "" {
		t.Errorf("entry context (-want +got):\n%s", diff)
	}
}
