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
	"fmt"
	"slices"
	"strings"

	"github.com/rivo/uniseg"
)

var textReplacer = strings.NewReplacer(
	"\x00", "\uFFFD",
	"\r\n", "\n",
	"\r", "\n",
)

// sanitizeText converts s into text suitable for storing in a run.
func sanitizeText(s string) string {
	return textReplacer.Replace(strings.ToValidUTF8(s, "\uFFFD"))
}

// InsertText inserts text at pos
// with the marks of the run that pos anchors to
// and returns the position just after the inserted text.
// Invalid UTF-8 and NUL characters are replaced with U+FFFD.
// Newlines inserted into a paragraph or heading start a new paragraph
// for each additional line, mirroring how the text would be read back from Markdown.
func (doc *Document) InsertText(pos Pos, text string) (Pos, error) {
	anchor, err := doc.Normalize(pos)
	if err != nil {
		return Pos{}, fmt.Errorf("insert text: %w", err)
	}
	marks := doc.blocks[anchor.Block].runs[anchor.Run].Marks
	return doc.InsertRun(pos, Run{Text: text, Marks: marks})
}

// InsertRun inserts a run with explicit marks at pos
// and returns the position just after the inserted text.
// If pos is inside a run, the run is split.
// Marks are dropped when inserting into a code block.
func (doc *Document) InsertRun(pos Pos, run Run) (Pos, error) {
	pt, err := doc.resolve("insert", pos)
	if err != nil {
		return Pos{}, err
	}
	text := sanitizeText(run.Text)
	if text == "" {
		return doc.pos(pt), nil
	}
	b := &doc.blocks[pt.Block]
	i := b.split(pt.Offset)
	b.runs = slices.Insert(b.runs, i, Run{Text: text, Marks: run.Marks})
	b.coalesce()
	end := doc.splitLines(pt.Block, Point{Block: pt.Block, Offset: pt.Offset + len(text)})
	return doc.pos(end), nil
}

// DeleteRange removes the selected text and returns the position
// where the selection started.
// If the selection spans multiple blocks,
// the first and last blocks are joined
// and the blocks in between are removed.
// The joined block keeps the type of the first block.
func (doc *Document) DeleteRange(sel Selection) (Pos, error) {
	start, end := sel.Range()
	sp, err := doc.resolve("delete", start)
	if err != nil {
		return Pos{}, err
	}
	ep, err := doc.resolve("delete", end)
	if err != nil {
		return Pos{}, err
	}
	if ComparePoints(sp, ep) > 0 {
		sp, ep = ep, sp
	}
	doc.deletePoints(sp, ep)
	return doc.pos(sp), nil
}

func (doc *Document) deletePoints(sp, ep Point) {
	if sp.Block == ep.Block {
		b := &doc.blocks[sp.Block]
		b.cut(sp.Offset, ep.Offset)
		b.coalesce()
		return
	}
	first := &doc.blocks[sp.Block]
	first.cut(sp.Offset, first.Len())
	last := &doc.blocks[ep.Block]
	last.cut(0, ep.Offset)
	doc.blocks = slices.Delete(doc.blocks, sp.Block+1, ep.Block)
	doc.join(sp.Block)
	doc.splitLines(sp.Block, sp)
}

// DeleteBackward removes the character before pos
// and returns the position where the character was.
// A character is a single user-perceived character
// (an extended grapheme cluster).
// At the start of a block, the block is joined onto the previous block.
// At the start of the document, DeleteBackward does nothing.
func (doc *Document) DeleteBackward(pos Pos) (Pos, error) {
	pt, err := doc.resolve("delete backward", pos)
	if err != nil {
		return Pos{}, err
	}
	if pt.Offset == 0 {
		if pt.Block == 0 {
			return doc.pos(pt), nil
		}
		prev := pt.Block - 1
		at := Point{Block: prev, Offset: doc.blocks[prev].Len()}
		doc.join(prev)
		at = doc.splitLines(prev, at)
		return doc.pos(at), nil
	}
	b := &doc.blocks[pt.Block]
	n := lastGraphemeLen(b.Text()[:pt.Offset])
	b.cut(pt.Offset-n, pt.Offset)
	b.coalesce()
	return doc.pos(Point{Block: pt.Block, Offset: pt.Offset - n}), nil
}

// DeleteForward removes the character after pos
// and returns pos.
// A character is a single user-perceived character
// (an extended grapheme cluster).
// At the end of a block, the next block is joined onto it.
// At the end of the document, DeleteForward does nothing.
func (doc *Document) DeleteForward(pos Pos) (Pos, error) {
	pt, err := doc.resolve("delete forward", pos)
	if err != nil {
		return Pos{}, err
	}
	b := &doc.blocks[pt.Block]
	text := b.Text()
	if pt.Offset == len(text) {
		if pt.Block == len(doc.blocks)-1 {
			return doc.pos(pt), nil
		}
		doc.join(pt.Block)
		pt = doc.splitLines(pt.Block, pt)
		return doc.pos(pt), nil
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(text[pt.Offset:], -1)
	b.cut(pt.Offset, pt.Offset+len(cluster))
	b.coalesce()
	return doc.pos(pt), nil
}

func lastGraphemeLen(s string) int {
	n := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.StepString(s, state)
		n = len(cluster)
	}
	return n
}

// ToggleMark applies mark to the selected text,
// or clears it if every selected character outside of code blocks
// already carries the mark.
// Runs that are partially covered by the selection are split.
// ToggleMark does nothing for a collapsed selection
// or a selection that only covers code blocks.
func (doc *Document) ToggleMark(sel Selection, mark Mark) error {
	start, end := sel.Range()
	sp, err := doc.resolve("toggle mark", start)
	if err != nil {
		return err
	}
	ep, err := doc.resolve("toggle mark", end)
	if err != nil {
		return err
	}
	if ComparePoints(sp, ep) > 0 {
		sp, ep = ep, sp
	}
	if mark == 0 || sp == ep {
		return nil
	}

	covered, all := false, true
	doc.eachSpan(sp, ep, func(b *Block, lo, hi int) {
		off := 0
		for _, r := range b.runs {
			rs, re := off, off+len(r.Text)
			off = re
			if max(lo, rs) < min(hi, re) {
				covered = true
				if r.Marks&mark != mark {
					all = false
				}
			}
		}
	})
	if !covered {
		return nil
	}
	doc.eachSpan(sp, ep, func(b *Block, lo, hi int) {
		i := b.split(lo)
		j := b.split(hi)
		for k := i; k < j; k++ {
			if all {
				b.runs[k].Marks &^= mark
			} else {
				b.runs[k].Marks |= mark
			}
		}
		b.coalesce()
	})
	return nil
}

// eachSpan calls f for every non-code block between sp and ep
// with the byte range of the block's text covered by [sp, ep).
func (doc *Document) eachSpan(sp, ep Point, f func(b *Block, lo, hi int)) {
	for bi := sp.Block; bi <= ep.Block; bi++ {
		b := &doc.blocks[bi]
		if b.typ.Kind == CodeKind {
			continue
		}
		lo, hi := 0, b.Len()
		if bi == sp.Block {
			lo = sp.Offset
		}
		if bi == ep.Block {
			hi = ep.Offset
		}
		if lo < hi {
			f(b, lo, hi)
		}
	}
}

// SetBlockType changes the type of the i'th block.
// Converting a block into a code block strips the marks from its runs.
// Converting a multi-line code block into a paragraph or heading
// splits it into one block per line,
// with every line after the first becoming a paragraph.
func (doc *Document) SetBlockType(i int, t BlockType) error {
	t, err := t.normalize()
	if err != nil {
		return fmt.Errorf("set block type: %w", err)
	}
	if i < 0 || i >= len(doc.blocks) {
		return fmt.Errorf("set block type of %d: block out of range: %w", i, ErrInvalidPosition)
	}
	b := &doc.blocks[i]
	b.typ = t
	b.coalesce()
	doc.splitLines(i, Point{Block: i})
	return nil
}

// SplitBlock splits the block at pos into two blocks
// and returns the position at the start of the second block.
// The second block has the same type as the first,
// except that splitting a heading at its end starts a paragraph.
func (doc *Document) SplitBlock(pos Pos) (Pos, error) {
	pt, err := doc.resolve("split block", pos)
	if err != nil {
		return Pos{}, err
	}
	b := &doc.blocks[pt.Block]
	n := b.Len()
	tail := Block{typ: b.typ, runs: b.slice(pt.Offset, n)}
	if tail.typ.Kind == HeadingKind && pt.Offset == n {
		tail.typ = Paragraph()
	}
	tail.coalesce()
	b.runs = b.slice(0, pt.Offset)
	b.coalesce()
	doc.blocks = slices.Insert(doc.blocks, pt.Block+1, tail)
	return Pos{Block: pt.Block + 1}, nil
}

// join appends the runs of block i+1 to block i and removes block i+1.
func (doc *Document) join(i int) {
	b := &doc.blocks[i]
	b.runs = append(b.runs, doc.blocks[i+1].runs...)
	b.coalesce()
	doc.blocks = slices.Delete(doc.blocks, i+1, i+2)
}

// splitLines breaks a paragraph or heading containing newlines
// into one block per line and returns pt translated to the new blocks.
// Lines after the first become paragraphs.
// Code blocks are left as-is.
func (doc *Document) splitLines(i int, pt Point) Point {
	b := &doc.blocks[i]
	if b.typ.Kind == CodeKind {
		return pt
	}
	text := b.Text()
	if !strings.Contains(text, "\n") {
		return pt
	}
	var lines []Block
	inBlock := pt.Block == i
	mapped := false
	for start := 0; start <= len(text); {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start
		}
		line := Block{typ: b.typ, runs: b.slice(start, end)}
		if len(lines) > 0 {
			line.typ = Paragraph()
		}
		line.coalesce()
		if inBlock && !mapped && pt.Offset <= end {
			pt = Point{Block: i + len(lines), Offset: max(pt.Offset-start, 0)}
			mapped = true
		}
		lines = append(lines, line)
		start = end + 1
	}
	doc.blocks = slices.Replace(doc.blocks, i, i+1, lines...)
	if !inBlock && pt.Block > i {
		pt.Block += len(lines) - 1
	}
	return pt
}

// slice returns copies of the pieces of b's runs
// that fall in the byte range [start, end) of the block's text.
func (b *Block) slice(start, end int) []Run {
	var runs []Run
	off := 0
	for _, r := range b.runs {
		rs, re := off, off+len(r.Text)
		off = re
		if lo, hi := max(start, rs), min(end, re); lo < hi {
			runs = append(runs, Run{Text: r.Text[lo-rs : hi-rs], Marks: r.Marks})
		}
	}
	return runs
}
