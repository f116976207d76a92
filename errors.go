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
	"fmt"
)

var (
	// ErrInvalidPosition is returned (wrapped) by [*Document] methods
	// when given a position or block index outside the document.
	// It indicates a programming error in the caller.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidBlockType is returned (wrapped) by [*Document.SetBlockType]
	// for an unknown block kind or an out-of-range heading level.
	ErrInvalidBlockType = errors.New("invalid block type")

	// ErrUnsupportedMarkdown is wrapped by [*UnsupportedError].
	ErrUnsupportedMarkdown = errors.New("unsupported markdown")
)

// UnsupportedError describes a Markdown construct
// that has no representation in a [Document]
// and was kept as plain paragraph text.
type UnsupportedError struct {
	// Line is the 1-based line number where the construct starts.
	Line int
	// Construct is a short description of the construct,
	// like "block quote".
	Construct string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Construct, ErrUnsupportedMarkdown)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupportedMarkdown
}

func invalidPosition(op string, pos Pos, reason string) error {
	return fmt.Errorf("%s at %v: %s: %w", op, pos, reason, ErrInvalidPosition)
}
