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
	"fmt"
	"slices"
	"strings"
)

// A Token is a node in a lexical token tree.
// It is either a raw substring of the tokenized text
// or a typed node whose children are further tokens.
type Token struct {
	typ      string
	text     string
	children []Token
	node     bool
}

// Raw returns a leaf token holding a substring of the tokenized text.
func Raw(text string) Token {
	return Token{text: text}
}

// Node returns a typed token with the given children.
// A node with an empty type inherits the type of its nearest typed ancestor.
func Node(typ string, children ...Token) Token {
	return Token{
		typ:      typ,
		children: children,
		node:     true,
	}
}

// IsNode reports whether the token was created by [Node].
func (tok Token) IsNode() bool {
	return tok.node
}

// Type returns the type of a node or the empty string for a raw token.
func (tok Token) Type() string {
	return tok.typ
}

// Text returns the text of a raw token
// or the concatenated text of a node's leaves.
func (tok Token) Text() string {
	if !tok.node {
		return tok.text
	}
	sb := new(strings.Builder)
	Walk(tok.children, &WalkOptions{
		Pre: func(c *Cursor) bool {
			if !c.Token().IsNode() {
				sb.WriteString(c.Token().text)
			}
			return true
		},
	})
	return sb.String()
}

// ChildCount returns the number of children of a node.
func (tok Token) ChildCount() int {
	return len(tok.children)
}

// Child returns the i'th child of a node.
func (tok Token) Child(i int) Token {
	return tok.children[i]
}

// Children returns a copy of the node's children.
func (tok Token) Children() []Token {
	return slices.Clone(tok.children)
}

// String formats the token tree for debugging.
func (tok Token) String() string {
	if !tok.node {
		return fmt.Sprintf("%q", tok.text)
	}
	sb := new(strings.Builder)
	sb.WriteString(tok.typ)
	sb.WriteString("[")
	for i, child := range tok.children {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(child.String())
	}
	sb.WriteString("]")
	return sb.String()
}

// A Cursor describes a [Token] encountered during [Walk].
type Cursor struct {
	token Token
	tag   string
	depth int
}

// Token returns the current [Token].
func (c *Cursor) Token() Token {
	return c.token
}

// Tag returns the type of the current token's nearest typed ancestor,
// not including the current token itself.
// Tag returns the empty string for tokens with no typed ancestor.
func (c *Cursor) Tag() string {
	return c.tag
}

// Depth returns the number of ancestors of the current token.
func (c *Cursor) Depth() int {
	return c.depth
}

// WalkOptions is the set of parameters to [Walk].
type WalkOptions struct {
	// If Pre is not nil, it is called for each token before the token's children are traversed (pre-order).
	// If Pre returns false, no children are traversed, and Post is not called for that token.
	Pre func(c *Cursor) bool
	// If Post is not nil, it is called for each token after the token's children are traversed (post-order).
	// If Post returns false, traversal is terminated and Walk returns immediately.
	Post func(c *Cursor) bool
}

// Walk traverses a sequence of token trees depth-first and left to right,
// calling [WalkOptions.Pre] and [WalkOptions.Post].
// Walk uses an explicit stack,
// so deeply nested trees do not grow the goroutine stack.
func Walk(tokens []Token, opts *WalkOptions) {
	type walkFrame struct {
		token Token
		tag   string
		depth int
		post  bool
	}

	stack := make([]walkFrame, 0, len(tokens))
	for i := len(tokens) - 1; i >= 0; i-- {
		stack = append(stack, walkFrame{token: tokens[i]})
	}
	cursor := new(Cursor)
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cursor.token = curr.token
		cursor.tag = curr.tag
		cursor.depth = curr.depth
		if curr.post {
			if opts.Post != nil && !opts.Post(cursor) {
				break
			}
			continue
		}

		if opts.Pre != nil && !opts.Pre(cursor) {
			continue
		}
		curr.post = true
		stack = append(stack, curr)
		childTag := curr.tag
		if curr.token.typ != "" {
			childTag = curr.token.typ
		}
		for i := len(curr.token.children) - 1; i >= 0; i-- {
			stack = append(stack, walkFrame{
				token: curr.token.children[i],
				tag:   childTag,
				depth: curr.depth + 1,
			})
		}
	}
}
