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

package highlight

import (
	"go.uber.org/zap"
	"zombiezen.com/go/richtext"
)

// A Decoration is a style range over the text of one run in a document.
type Decoration struct {
	Block int
	Run   int
	Range
}

// Engine derives decorations for the code blocks of a document.
// A nil *Engine treats every language as unknown.
type Engine struct {
	// Grammars maps code block languages to tokenizers.
	// Languages without a grammar are decorated with a single [PlainTag] range.
	Grammars Grammars
	// Logger receives a warning each time a tokenizer fails
	// and the engine falls back to a plain range.
	// If nil, nothing is logged.
	Logger *zap.Logger
}

// Decorate returns the decorations for every run of every code block in doc,
// ordered by block, run, and offset.
// The ranges for each run cover the run's text exactly.
// Decorate does not modify doc.
func (e *Engine) Decorate(doc *richtext.Document) []Decoration {
	var decorations []Decoration
	for bi := 0; bi < doc.BlockCount(); bi++ {
		b := doc.Block(bi)
		if b.Kind() != richtext.CodeKind {
			continue
		}
		for ri := 0; ri < b.RunCount(); ri++ {
			for _, r := range e.Ranges(b.Language(), b.Run(ri).Text) {
				decorations = append(decorations, Decoration{
					Block: bi,
					Run:   ri,
					Range: r,
				})
			}
		}
	}
	return decorations
}

// Ranges returns the style ranges for text written in the given language.
// If the language has no grammar, or its tokenizer fails,
// Ranges returns [PlainRanges] for the text.
func (e *Engine) Ranges(language, text string) []Range {
	if text == "" {
		return nil
	}
	var tokenize Tokenizer
	if e != nil {
		tokenize = e.Grammars.Lookup(language)
	}
	if tokenize == nil {
		return PlainRanges(text)
	}
	tokens, err := tokenize(text)
	if err != nil {
		e.logger().Warn("Tokenizer failed; using plain text",
			zap.String("language", language),
			zap.Error(err),
		)
		return PlainRanges(text)
	}
	ranges, err := BuildRanges(text, tokens)
	if err != nil {
		e.logger().Warn("Tokens do not match text; using plain text",
			zap.String("language", language),
			zap.Int("length", len(text)),
			zap.Error(err),
		)
		return PlainRanges(text)
	}
	return ranges
}

func (e *Engine) logger() *zap.Logger {
	if e == nil || e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
