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

// Package richtext provides a structured rich-text document
// that round-trips through a small subset of [CommonMark].
//
// A [Document] is an ordered list of blocks
// (paragraphs, headings, and fenced code blocks),
// each holding an ordered list of inline runs that share a set of marks.
// Documents are changed through methods like [*Document.InsertText]
// and [*Document.ToggleMark], which keep the tree in a canonical form:
// adjacent runs never share a mark set,
// runs in code blocks never carry marks,
// and every block has at least one run.
//
// [CommonMark]: https://commonmark.org/
package richtext

import (
	"fmt"
	"slices"
	"strings"
)

// MaxHeadingLevel is the deepest heading level a [HeadingKind] block can have.
const MaxHeadingLevel = 6

// BlockKind is an enumeration of values returned by [*Block.Kind].
type BlockKind uint8

const (
	ParagraphKind BlockKind = 1 + iota
	HeadingKind
	CodeKind
)

func (kind BlockKind) String() string {
	switch kind {
	case ParagraphKind:
		return "paragraph"
	case HeadingKind:
		return "heading"
	case CodeKind:
		return "code"
	default:
		return fmt.Sprintf("BlockKind(%d)", uint8(kind))
	}
}

// BlockType is a block's kind tag along with the kind's parameters.
type BlockType struct {
	Kind BlockKind
	// Level is the heading level (1 through [MaxHeadingLevel]).
	// It is ignored for other kinds.
	Level int
	// Language is the language tag of a code block.
	// It is ignored for other kinds.
	Language string
}

// Paragraph returns the [BlockType] of a paragraph.
func Paragraph() BlockType {
	return BlockType{Kind: ParagraphKind}
}

// Heading returns the [BlockType] of a heading with the given level.
func Heading(level int) BlockType {
	return BlockType{Kind: HeadingKind, Level: level}
}

// Code returns the [BlockType] of a code block with the given language tag.
func Code(language string) BlockType {
	return BlockType{Kind: CodeKind, Language: language}
}

// normalize clears the parameters that do not apply to t's kind
// and reports an error if t is not a valid block type.
func (t BlockType) normalize() (BlockType, error) {
	switch t.Kind {
	case ParagraphKind:
		return Paragraph(), nil
	case HeadingKind:
		if t.Level < 1 || t.Level > MaxHeadingLevel {
			return BlockType{}, fmt.Errorf("heading level %d: %w", t.Level, ErrInvalidBlockType)
		}
		return Heading(t.Level), nil
	case CodeKind:
		return Code(t.Language), nil
	default:
		return BlockType{}, fmt.Errorf("%v: %w", t.Kind, ErrInvalidBlockType)
	}
}

// Mark is a set of character-level style attributes.
type Mark uint8

// Bold is the only mark currently defined.
const Bold Mark = 1 << iota

func (m Mark) String() string {
	switch m {
	case 0:
		return "plain"
	case Bold:
		return "bold"
	default:
		return fmt.Sprintf("Mark(%#x)", uint8(m))
	}
}

// Run is a contiguous span of text within a block sharing one mark set.
type Run struct {
	Text  string
	Marks Mark
}

// A Block is a top-level structural element of a [Document].
type Block struct {
	typ  BlockType
	runs []Run
}

// NewBlock returns a new block with the given type and runs
// in canonical form.
// Marks are dropped from runs of code blocks,
// empty runs are dropped,
// and adjacent runs with the same marks are merged.
// NewBlock panics if t is not a valid block type.
func NewBlock(t BlockType, runs ...Run) *Block {
	t, err := t.normalize()
	if err != nil {
		panic(err)
	}
	b := &Block{
		typ:  t,
		runs: slices.Clone(runs),
	}
	b.coalesce()
	return b
}

// Kind returns the block's kind tag
// or zero if the block is nil.
func (b *Block) Kind() BlockKind {
	if b == nil {
		return 0
	}
	return b.typ.Kind
}

// Type returns the block's kind tag and parameters.
func (b *Block) Type() BlockType {
	if b == nil {
		return BlockType{}
	}
	return b.typ
}

// HeadingLevel returns the level of a [HeadingKind] block
// or zero for any other block.
func (b *Block) HeadingLevel() int {
	if b.Kind() != HeadingKind {
		return 0
	}
	return b.typ.Level
}

// Language returns the language tag of a [CodeKind] block
// or the empty string for any other block.
func (b *Block) Language() string {
	if b.Kind() != CodeKind {
		return ""
	}
	return b.typ.Language
}

// RunCount returns the number of runs in the block.
// Calling RunCount on nil returns 0.
func (b *Block) RunCount() int {
	if b == nil {
		return 0
	}
	return len(b.runs)
}

// Run returns the i'th run of the block.
func (b *Block) Run(i int) Run {
	return b.runs[i]
}

// Runs returns a copy of the block's runs.
func (b *Block) Runs() []Run {
	if b == nil {
		return nil
	}
	return slices.Clone(b.runs)
}

// Text returns the concatenated text of the block's runs.
func (b *Block) Text() string {
	if b == nil {
		return ""
	}
	if len(b.runs) == 1 {
		return b.runs[0].Text
	}
	sb := new(strings.Builder)
	sb.Grow(b.Len())
	for _, r := range b.runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Len returns the length of the block's text in bytes.
func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, r := range b.runs {
		n += len(r.Text)
	}
	return n
}

func (b *Block) clone() Block {
	return Block{
		typ:  b.typ,
		runs: slices.Clone(b.runs),
	}
}

func (b *Block) equal(other *Block) bool {
	return b.typ == other.typ && slices.Equal(b.runs, other.runs)
}

// split ensures that a run boundary falls on the given byte offset
// into the block's text
// and returns the index of the first run that starts at or after the offset.
func (b *Block) split(offset int) int {
	for i := 0; i < len(b.runs); i++ {
		if offset == 0 {
			return i
		}
		r := b.runs[i]
		if offset < len(r.Text) {
			b.runs = slices.Insert(b.runs, i+1, Run{
				Text:  r.Text[offset:],
				Marks: r.Marks,
			})
			b.runs[i].Text = r.Text[:offset]
			return i + 1
		}
		offset -= len(r.Text)
	}
	return len(b.runs)
}

// cut removes the text in the byte range [start, end) of the block's text.
// The block is left uncoalesced.
func (b *Block) cut(start, end int) {
	i := b.split(start)
	j := b.split(end)
	b.runs = slices.Delete(b.runs, i, j)
}

// coalesce restores the block's invariants:
// no marks in code blocks,
// no empty runs unless the block is empty,
// and no two adjacent runs with the same marks.
func (b *Block) coalesce() {
	out := b.runs[:0]
	for _, r := range b.runs {
		if b.typ.Kind == CodeKind {
			r.Marks = 0
		}
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Marks == r.Marks {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	if len(out) < len(b.runs) {
		clear(b.runs[len(out):])
	}
	if len(out) == 0 {
		out = append(out, Run{})
	}
	b.runs = out
}

// A Document is an ordered list of blocks.
// Blocks and runs are addressed by index,
// so positions are recomputed after each change
// rather than held as references into the tree.
//
// The zero value is not a valid document; use [NewDocument] or [Parse].
type Document struct {
	blocks []Block
}

// NewDocument returns a document containing copies of the given blocks.
// If no blocks are given,
// the document contains a single empty paragraph.
func NewDocument(blocks ...*Block) *Document {
	doc := &Document{blocks: make([]Block, 0, max(len(blocks), 1))}
	for _, b := range blocks {
		doc.blocks = append(doc.blocks, b.clone())
	}
	if len(doc.blocks) == 0 {
		doc.blocks = append(doc.blocks, Block{
			typ:  Paragraph(),
			runs: []Run{{}},
		})
	}
	return doc
}

// BlockCount returns the number of blocks in the document.
func (doc *Document) BlockCount() int {
	if doc == nil {
		return 0
	}
	return len(doc.blocks)
}

// Block returns the i'th block of the document.
// The returned block must not be retained past the next change to the document.
func (doc *Document) Block(i int) *Block {
	return &doc.blocks[i]
}

// Clone returns a deep copy of the document.
// Callers that need to undo a sequence of changes
// should take a clone beforehand.
func (doc *Document) Clone() *Document {
	if doc == nil {
		return nil
	}
	clone := &Document{blocks: make([]Block, len(doc.blocks))}
	for i := range doc.blocks {
		clone.blocks[i] = doc.blocks[i].clone()
	}
	return clone
}

// Equal reports whether two documents have the same structure:
// the same block types and the same runs in the same order.
func (doc *Document) Equal(other *Document) bool {
	if doc == nil || other == nil {
		return doc == other
	}
	if len(doc.blocks) != len(other.blocks) {
		return false
	}
	for i := range doc.blocks {
		if !doc.blocks[i].equal(&other.blocks[i]) {
			return false
		}
	}
	return true
}

// End returns the position at the end of the document's last block.
func (doc *Document) End() Pos {
	last := len(doc.blocks) - 1
	b := &doc.blocks[last]
	return Pos{
		Block:  last,
		Run:    len(b.runs) - 1,
		Offset: len(b.runs[len(b.runs)-1].Text),
	}
}
