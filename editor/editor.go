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

// Package editor provides an editing session over a [richtext.Document].
//
// A [Session] owns one document and a selection.
// It turns discrete commands like [ToggleBold] into document changes,
// exports the document as Markdown after every change,
// and derives syntax highlighting decorations for code blocks on demand.
// Sessions are not safe to use from multiple goroutines.
package editor

import (
	"go.uber.org/zap"
	"zombiezen.com/go/richtext"
	"zombiezen.com/go/richtext/format"
	"zombiezen.com/go/richtext/highlight"
)

// DefaultLanguage is the language tag given to code blocks
// created by [ToggleCode] when [Options.DefaultLanguage] is empty.
const DefaultLanguage = "javascript"

// DefaultHistoryLimit is the number of undo steps a session keeps
// when [Options.HistoryLimit] is zero.
const DefaultHistoryLimit = 1000

// Options is the set of optional parameters to [New].
type Options struct {
	// Engine derives decorations for code blocks.
	// If nil, code blocks are decorated with plain ranges.
	Engine *highlight.Engine
	// OnChange is called after every change to the document
	// with the newly exported Markdown.
	OnChange func(Change)
	// Logger receives debug messages for executed commands
	// and errors for edits that had to be rolled back.
	// If nil, nothing is logged.
	Logger *zap.Logger
	// HistoryLimit is the maximum number of undo steps.
	// Zero means [DefaultHistoryLimit] and a negative value disables undo.
	HistoryLimit int
	// DefaultLanguage is the language tag for new code blocks.
	// If empty, [DefaultLanguage] is used.
	DefaultLanguage string
}

// A Session is an editing session over a single document.
type Session struct {
	doc    *richtext.Document
	anchor richtext.Point
	focus  richtext.Point

	version  uint64
	markdown string

	decorations        []highlight.Decoration
	decorationsVersion uint64
	hasDecorations     bool

	undo []snapshot
	redo []snapshot

	opts Options
}

type snapshot struct {
	doc    *richtext.Document
	anchor richtext.Point
	focus  richtext.Point
}

// New parses the given Markdown and starts a session editing it.
// The selection starts collapsed at the beginning of the document.
// opts may be nil.
func New(markdown string, opts *Options) *Session {
	s := new(Session)
	if opts != nil {
		s.opts = *opts
	}
	if s.opts.HistoryLimit == 0 {
		s.opts.HistoryLimit = DefaultHistoryLimit
	}
	if s.opts.DefaultLanguage == "" {
		s.opts.DefaultLanguage = DefaultLanguage
	}
	p := &richtext.Parser{Logger: s.opts.Logger}
	s.doc, _ = p.Parse(markdown)
	s.markdown = format.String(s.doc)
	return s
}

// Document returns a copy of the session's document.
func (s *Session) Document() *richtext.Document {
	return s.doc.Clone()
}

// Version returns the session's document version.
// The version starts at zero and increases by one
// each time the document changes.
// Selection changes do not affect the version.
func (s *Session) Version() uint64 {
	return s.version
}

// Markdown returns the document exported as Markdown.
func (s *Session) Markdown() string {
	return s.markdown
}

// Selection returns the current selection.
// Its positions are anchored to the earliest run touching each endpoint.
func (s *Session) Selection() richtext.Selection {
	anchor, err := s.doc.Pos(s.anchor)
	if err != nil {
		panic(err)
	}
	focus, err := s.doc.Pos(s.focus)
	if err != nil {
		panic(err)
	}
	return richtext.Selection{Anchor: anchor, Focus: focus}
}

// Select replaces the current selection.
// It returns an error wrapping [richtext.ErrInvalidPosition]
// if either endpoint is not in the document,
// in which case the selection is unchanged.
func (s *Session) Select(sel richtext.Selection) error {
	anchor, err := s.doc.Point(sel.Anchor)
	if err != nil {
		return err
	}
	focus, err := s.doc.Point(sel.Focus)
	if err != nil {
		return err
	}
	s.anchor, s.focus = anchor, focus
	return nil
}

// SelectAll selects the whole document.
func (s *Session) SelectAll() {
	end := s.doc.End()
	s.anchor = richtext.Point{}
	s.focus = richtext.Point{Block: end.Block, Offset: s.doc.Block(end.Block).Len()}
}

// InsertText replaces the selection with text
// and collapses the selection after the inserted text.
// It reports whether the document changed.
func (s *Session) InsertText(text string) bool {
	return s.edit("insert text", func() error {
		if err := s.deleteSelection(); err != nil {
			return err
		}
		pos, err := s.doc.InsertText(s.cursorPos(), text)
		if err != nil {
			return err
		}
		return s.collapseTo(pos)
	})
}

// Decorations returns the decorations for the current version of the document.
// Results are computed once per version
// unless supplied by [*Session.ApplyDecorations].
func (s *Session) Decorations() []highlight.Decoration {
	if !s.hasDecorations || s.decorationsVersion != s.version {
		s.decorations = s.opts.Engine.Decorate(s.doc)
		s.decorationsVersion = s.version
		s.hasDecorations = true
	}
	return s.decorations
}

// DecorationRequest returns the current version and a copy of the document
// for computing decorations outside the session,
// like on another goroutine.
// Pass the results back with [*Session.ApplyDecorations].
func (s *Session) DecorationRequest() (version uint64, doc *richtext.Document) {
	return s.version, s.doc.Clone()
}

// ApplyDecorations stores decorations computed for the given version.
// If the document has changed since that version,
// the decorations are discarded and ApplyDecorations returns false.
func (s *Session) ApplyDecorations(version uint64, decorations []highlight.Decoration) bool {
	if version != s.version {
		s.logger().Debug("Discarding stale decorations",
			zap.Uint64("version", version),
			zap.Uint64("current", s.version),
		)
		return false
	}
	s.decorations = decorations
	s.decorationsVersion = version
	s.hasDecorations = true
	return true
}

// CanUndo reports whether [*Session.Undo] would change the document.
func (s *Session) CanUndo() bool {
	return len(s.undo) > 0
}

// CanRedo reports whether [*Session.Redo] would change the document.
func (s *Session) CanRedo() bool {
	return len(s.redo) > 0
}

// Undo reverts the most recent change to the document
// and restores the selection from before the change.
// It reports whether there was a change to revert.
func (s *Session) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	cur := s.snapshot()
	i := len(s.undo) - 1
	prev := s.undo[i]
	s.undo = s.undo[:i]
	s.redo = append(s.redo, cur)
	s.restore(prev)
	s.commit()
	return true
}

// Redo reapplies the most recently undone change.
// It reports whether there was a change to reapply.
func (s *Session) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	cur := s.snapshot()
	i := len(s.redo) - 1
	next := s.redo[i]
	s.redo = s.redo[:i]
	s.pushUndo(cur)
	s.restore(next)
	s.commit()
	return true
}

// edit runs f against the session's document.
// If f fails, the document and selection are rolled back
// and the error is logged.
// If f changed the document, the change is recorded in the undo history
// and announced to [Options.OnChange].
func (s *Session) edit(op string, f func() error) bool {
	prev := s.snapshot()
	if err := f(); err != nil {
		s.logger().Error("Edit failed; rolled back",
			zap.String("op", op),
			zap.Error(err),
		)
		s.restore(prev)
		return false
	}
	if s.doc.Equal(prev.doc) {
		return false
	}
	s.pushUndo(prev)
	s.redo = nil
	s.commit()
	return true
}

// commit records a new version of the document.
func (s *Session) commit() {
	prevMarkdown := s.markdown
	s.version++
	s.markdown = format.String(s.doc)
	if s.opts.OnChange != nil {
		s.opts.OnChange(Change{
			Version:  s.version,
			Markdown: s.markdown,
			Previous: prevMarkdown,
		})
	}
}

func (s *Session) snapshot() snapshot {
	return snapshot{
		doc:    s.doc.Clone(),
		anchor: s.anchor,
		focus:  s.focus,
	}
}

func (s *Session) restore(snap snapshot) {
	s.doc = snap.doc
	s.anchor = snap.anchor
	s.focus = snap.focus
}

func (s *Session) pushUndo(snap snapshot) {
	limit := s.opts.HistoryLimit
	if limit < 0 {
		return
	}
	s.undo = append(s.undo, snap)
	if len(s.undo) > limit {
		s.undo = s.undo[len(s.undo)-limit:]
	}
}

// orderedPoints returns the selection's endpoints in document order.
func (s *Session) orderedPoints() (start, end richtext.Point) {
	if richtext.ComparePoints(s.anchor, s.focus) <= 0 {
		return s.anchor, s.focus
	}
	return s.focus, s.anchor
}

// cursorPos returns the position of the selection's focus.
func (s *Session) cursorPos() richtext.Pos {
	pos, err := s.doc.Pos(s.focus)
	if err != nil {
		panic(err)
	}
	return pos
}

// collapseTo collapses the selection to pos.
func (s *Session) collapseTo(pos richtext.Pos) error {
	pt, err := s.doc.Point(pos)
	if err != nil {
		return err
	}
	s.anchor, s.focus = pt, pt
	return nil
}

// deleteSelection removes the selected text, if any,
// and collapses the selection to where it started.
func (s *Session) deleteSelection() error {
	if s.anchor == s.focus {
		return nil
	}
	pos, err := s.doc.DeleteRange(s.Selection())
	if err != nil {
		return err
	}
	return s.collapseTo(pos)
}

func (s *Session) logger() *zap.Logger {
	if s.opts.Logger == nil {
		return zap.NewNop()
	}
	return s.opts.Logger
}
