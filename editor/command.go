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

package editor

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"zombiezen.com/go/richtext"
)

// Command is an enumeration of discrete editing commands.
type Command int

const (
	// NoCommand does nothing.
	NoCommand Command = iota
	// DeleteBackward deletes the selection,
	// or the character before the cursor if the selection is collapsed.
	DeleteBackward
	// DeleteForward deletes the selection,
	// or the character after the cursor if the selection is collapsed.
	DeleteForward
	// ToggleBold toggles the bold mark over the selection.
	ToggleBold
	// ToggleCode converts the blocks touched by the selection
	// into code blocks,
	// or into paragraphs if any of them is already a code block.
	ToggleCode
	// InsertBreak replaces the selection with a block break,
	// or a newline inside a code block.
	InsertBreak
	// Undo reverts the most recent change.
	Undo
	// Redo reapplies the most recently reverted change.
	Redo
)

func (cmd Command) String() string {
	switch cmd {
	case NoCommand:
		return "NoCommand"
	case DeleteBackward:
		return "DeleteBackward"
	case DeleteForward:
		return "DeleteForward"
	case ToggleBold:
		return "ToggleBold"
	case ToggleCode:
		return "ToggleCode"
	case InsertBreak:
		return "InsertBreak"
	case Undo:
		return "Undo"
	case Redo:
		return "Redo"
	default:
		return fmt.Sprintf("Command(%d)", int(cmd))
	}
}

// Execute applies cmd to the session's document and selection
// and reports whether the document changed.
// Unknown commands do nothing.
func (s *Session) Execute(cmd Command) bool {
	var changed bool
	switch cmd {
	case DeleteBackward:
		changed = s.edit("delete backward", func() error {
			return s.deleteChar((*richtext.Document).DeleteBackward)
		})
	case DeleteForward:
		changed = s.edit("delete forward", func() error {
			return s.deleteChar((*richtext.Document).DeleteForward)
		})
	case ToggleBold:
		changed = s.edit("toggle bold", func() error {
			return s.doc.ToggleMark(s.Selection(), richtext.Bold)
		})
	case ToggleCode:
		changed = s.edit("toggle code", s.toggleCode)
	case InsertBreak:
		changed = s.edit("insert break", s.insertBreak)
	case Undo:
		changed = s.Undo()
	case Redo:
		changed = s.Redo()
	case NoCommand:
		return false
	default:
		s.logger().Debug("Ignoring unknown command", zap.Stringer("command", cmd))
		return false
	}
	s.logger().Debug("Executed command",
		zap.Stringer("command", cmd),
		zap.Bool("changed", changed),
		zap.Uint64("version", s.version),
	)
	return changed
}

func (s *Session) deleteChar(del func(*richtext.Document, richtext.Pos) (richtext.Pos, error)) error {
	if s.anchor != s.focus {
		return s.deleteSelection()
	}
	pos, err := del(s.doc, s.cursorPos())
	if err != nil {
		return err
	}
	return s.collapseTo(pos)
}

func (s *Session) insertBreak() error {
	if err := s.deleteSelection(); err != nil {
		return err
	}
	pos := s.cursorPos()
	var err error
	if s.doc.Block(pos.Block).Kind() == richtext.CodeKind {
		pos, err = s.doc.InsertText(pos, "\n")
	} else {
		pos, err = s.doc.SplitBlock(pos)
	}
	if err != nil {
		return err
	}
	return s.collapseTo(pos)
}

// toggleCode applies [ToggleCode] to every block
// from the start of the selection to its end, inclusive.
func (s *Session) toggleCode() error {
	sp, ep := s.orderedPoints()
	anyCode := false
	for i := sp.Block; i <= ep.Block; i++ {
		if s.doc.Block(i).Kind() == richtext.CodeKind {
			anyCode = true
			break
		}
	}
	if !anyCode {
		t := richtext.Code(s.opts.DefaultLanguage)
		for i := sp.Block; i <= ep.Block; i++ {
			if err := s.doc.SetBlockType(i, t); err != nil {
				return err
			}
		}
		return nil
	}

	// Code blocks become one paragraph per line,
	// so compute where the selection lands before splitting.
	anchor := s.pointAfterSplit(sp.Block, s.anchor)
	focus := s.pointAfterSplit(sp.Block, s.focus)
	for i := ep.Block; i >= sp.Block; i-- {
		if err := s.doc.SetBlockType(i, richtext.Paragraph()); err != nil {
			return err
		}
	}
	s.anchor, s.focus = anchor, focus
	return nil
}

// pointAfterSplit returns where pt will be after every code block
// from block first through pt's block is split into one block per line.
func (s *Session) pointAfterSplit(first int, pt richtext.Point) richtext.Point {
	shift := 0
	for i := first; i < pt.Block; i++ {
		if b := s.doc.Block(i); b.Kind() == richtext.CodeKind {
			shift += strings.Count(b.Text(), "\n")
		}
	}
	if b := s.doc.Block(pt.Block); b.Kind() == richtext.CodeKind {
		before := b.Text()[:pt.Offset]
		if n := strings.Count(before, "\n"); n > 0 {
			shift += n
			pt.Offset = len(before) - strings.LastIndexByte(before, '\n') - 1
		}
	}
	pt.Block += shift
	return pt
}
