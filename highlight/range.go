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

// Package highlight derives style ranges for code block text
// from lexical token trees.
package highlight

import (
	"errors"
	"fmt"
)

// PlainTag is the tag of text that has no lexical category.
const PlainTag = "plain"

// ErrTokenizationMismatch is returned (wrapped) by [BuildRanges]
// when the leaves of a token tree do not spell out the tokenized text.
var ErrTokenizationMismatch = errors.New("tokenization mismatch")

// A Range is a style-tagged interval of text.
// Start and End are byte offsets.
type Range struct {
	Start int
	End   int
	Tag   string
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)%s", r.Start, r.End, r.Tag)
}

// BuildRanges flattens a sequence of token trees over text
// into one range per non-empty raw token.
// Each range is tagged with the type of the raw token's nearest typed ancestor,
// or [PlainTag] if it has none.
// The returned ranges are in increasing order, do not overlap,
// and together cover the whole text.
//
// If the raw tokens, read in order, do not spell out text,
// BuildRanges returns an error wrapping [ErrTokenizationMismatch].
func BuildRanges(text string, tokens []Token) ([]Range, error) {
	var ranges []Range
	start := 0
	var err error
	Walk(tokens, &WalkOptions{
		Pre: func(c *Cursor) bool {
			if err != nil {
				return false
			}
			tok := c.Token()
			if tok.IsNode() {
				return true
			}
			leaf := tok.Text()
			if leaf == "" {
				return false
			}
			end := start + len(leaf)
			if end > len(text) || text[start:end] != leaf {
				err = fmt.Errorf("build ranges: token %q does not match text at offset %d: %w", leaf, start, ErrTokenizationMismatch)
				return false
			}
			tag := c.Tag()
			if tag == "" {
				tag = PlainTag
			}
			ranges = append(ranges, Range{Start: start, End: end, Tag: tag})
			start = end
			return false
		},
	})
	if err != nil {
		return nil, err
	}
	if start != len(text) {
		return nil, fmt.Errorf("build ranges: tokens cover %d of %d bytes: %w", start, len(text), ErrTokenizationMismatch)
	}
	return ranges, nil
}

// PlainRanges returns a single [PlainTag] range covering text,
// or nil if text is empty.
func PlainRanges(text string) []Range {
	if text == "" {
		return nil
	}
	return []Range{{Start: 0, End: len(text), Tag: PlainTag}}
}
