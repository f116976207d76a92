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
	"cmp"
	"fmt"
	"unicode/utf8"
)

// Pos is a position in a [Document] in tree coordinates:
// a block index, a run index within the block,
// and a byte offset within the run's text.
// Offset may equal the length of the run's text,
// in which case the position sits on a run boundary.
type Pos struct {
	Block  int
	Run    int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d:%d", p.Block, p.Run, p.Offset)
}

// ComparePos returns -1 if a is before b, 1 if a is after b,
// or 0 if they are identical.
// Positions are compared component-wise,
// so two positions on either side of a run boundary compare as different;
// use [*Document.Normalize] first to compare document locations.
func ComparePos(a, b Pos) int {
	switch {
	case a.Block != b.Block:
		return cmp.Compare(a.Block, b.Block)
	case a.Run != b.Run:
		return cmp.Compare(a.Run, b.Run)
	default:
		return cmp.Compare(a.Offset, b.Offset)
	}
}

// Selection is a pair of positions.
// The anchor is where the selection started
// and the focus is where it ends,
// so the focus may come before the anchor.
type Selection struct {
	Anchor Pos
	Focus  Pos
}

// Collapsed returns an empty selection at p.
func Collapsed(p Pos) Selection {
	return Selection{Anchor: p, Focus: p}
}

// IsCollapsed reports whether the anchor and focus are identical.
func (sel Selection) IsCollapsed() bool {
	return sel.Anchor == sel.Focus
}

// Range returns the selection's endpoints in document order.
func (sel Selection) Range() (start, end Pos) {
	if ComparePos(sel.Anchor, sel.Focus) <= 0 {
		return sel.Anchor, sel.Focus
	}
	return sel.Focus, sel.Anchor
}

// Point is a position in a [Document] addressed by block index
// and byte offset into the block's concatenated text.
// Unlike a [Pos], a Point is unaffected by changes that
// split or merge runs without changing text.
type Point struct {
	Block  int
	Offset int
}

func (pt Point) String() string {
	return fmt.Sprintf("%d:%d", pt.Block, pt.Offset)
}

// ComparePoints returns -1 if a is before b, 1 if a is after b,
// or 0 if they are the same.
func ComparePoints(a, b Point) int {
	if a.Block != b.Block {
		return cmp.Compare(a.Block, b.Block)
	}
	return cmp.Compare(a.Offset, b.Offset)
}

// Point converts a position to a [Point].
// It returns an error wrapping [ErrInvalidPosition]
// if the position is outside the document
// or does not fall on a UTF-8 character boundary.
func (doc *Document) Point(p Pos) (Point, error) {
	return doc.resolve("resolve", p)
}

// Pos converts a [Point] to a position,
// anchored to the earliest run that touches the point.
func (doc *Document) Pos(pt Point) (Pos, error) {
	if err := doc.checkPoint("convert", pt); err != nil {
		return Pos{}, err
	}
	return doc.pos(pt), nil
}

// Normalize anchors p to the earliest run that touches the same location.
// For example, a position at the start of a run
// is moved to the end of the previous run.
func (doc *Document) Normalize(p Pos) (Pos, error) {
	pt, err := doc.resolve("normalize", p)
	if err != nil {
		return Pos{}, err
	}
	return doc.pos(pt), nil
}

// resolve validates p and converts it to a block-relative point.
func (doc *Document) resolve(op string, p Pos) (Point, error) {
	if p.Block < 0 || p.Block >= len(doc.blocks) {
		return Point{}, invalidPosition(op, p, "block out of range")
	}
	b := &doc.blocks[p.Block]
	if p.Run < 0 || p.Run >= len(b.runs) {
		return Point{}, invalidPosition(op, p, "run out of range")
	}
	text := b.runs[p.Run].Text
	if p.Offset < 0 || p.Offset > len(text) {
		return Point{}, invalidPosition(op, p, "offset out of range")
	}
	if p.Offset < len(text) && !utf8.RuneStart(text[p.Offset]) {
		return Point{}, invalidPosition(op, p, "offset inside character")
	}
	pt := Point{Block: p.Block, Offset: p.Offset}
	for _, r := range b.runs[:p.Run] {
		pt.Offset += len(r.Text)
	}
	return pt, nil
}

func (doc *Document) checkPoint(op string, pt Point) error {
	if pt.Block < 0 || pt.Block >= len(doc.blocks) {
		return fmt.Errorf("%s at %v: block out of range: %w", op, pt, ErrInvalidPosition)
	}
	text := doc.blocks[pt.Block].Text()
	if pt.Offset < 0 || pt.Offset > len(text) {
		return fmt.Errorf("%s at %v: offset out of range: %w", op, pt, ErrInvalidPosition)
	}
	if pt.Offset < len(text) && !utf8.RuneStart(text[pt.Offset]) {
		return fmt.Errorf("%s at %v: offset inside character: %w", op, pt, ErrInvalidPosition)
	}
	return nil
}

// pos converts a valid point to a position
// anchored to the earliest run touching the point.
func (doc *Document) pos(pt Point) Pos {
	b := &doc.blocks[pt.Block]
	off := pt.Offset
	for i, r := range b.runs {
		if off <= len(r.Text) {
			return Pos{Block: pt.Block, Run: i, Offset: off}
		}
		off -= len(r.Text)
	}
	last := len(b.runs) - 1
	return Pos{Block: pt.Block, Run: last, Offset: len(b.runs[last].Text)}
}
