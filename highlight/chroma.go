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
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// ChromaTokenizer returns a [Tokenizer] backed by a chroma lexer.
// Each chroma token becomes a raw token nested inside nodes
// for its category, sub-category, and type,
// tagged as returned by [TagForType].
// Text and whitespace tokens are left as bare raw tokens.
func ChromaTokenizer(lexer chroma.Lexer) Tokenizer {
	name := "lexer"
	if cfg := lexer.Config(); cfg != nil {
		name = cfg.Name
	}
	lexer = chroma.Coalesce(lexer)
	return func(text string) ([]Token, error) {
		it, err := lexer.Tokenise(nil, text)
		if err != nil {
			return nil, fmt.Errorf("tokenize %s: %w", name, err)
		}
		ctoks := trimAddedNewline(it.Tokens(), text)
		tokens := make([]Token, 0, len(ctoks))
		for _, ct := range ctoks {
			if ct.Value == "" {
				continue
			}
			tokens = append(tokens, tokenFromChroma(ct))
		}
		return tokens, nil
	}
}

// trimAddedNewline removes the newline that lexers configured with EnsureNL
// append to text that does not end in one.
func trimAddedNewline(ctoks []chroma.Token, text string) []chroma.Token {
	if len(ctoks) == 0 || strings.HasSuffix(text, "\n") {
		return ctoks
	}
	n := 0
	for _, ct := range ctoks {
		n += len(ct.Value)
	}
	last := &ctoks[len(ctoks)-1]
	if n == len(text)+1 && strings.HasSuffix(last.Value, "\n") {
		last.Value = last.Value[:len(last.Value)-1]
	}
	return ctoks
}

func tokenFromChroma(ct chroma.Token) Token {
	typ := ct.Type
	switch {
	case typ == chroma.Error:
		return Node(TagForType(typ), Raw(ct.Value))
	case typ <= chroma.EOFType || typ.Category() == chroma.Text:
		return Raw(ct.Value)
	}
	tok := Node(TagForType(typ), Raw(ct.Value))
	if sub := typ.SubCategory(); sub != typ {
		tok = Node(TagForType(sub), tok)
	}
	if cat := typ.Category(); cat != typ.SubCategory() {
		tok = Node(TagForType(cat), tok)
	}
	return tok
}

// TagForType returns the style tag for a chroma token type.
// The type's CamelCase name is split into lowercase, dot-separated words,
// so LiteralStringDouble becomes "literal.string.double".
func TagForType(t chroma.TokenType) string {
	name := t.String()
	sb := new(strings.Builder)
	sb.Grow(len(name) + 4)
	for i, c := range name {
		if unicode.IsUpper(c) {
			if i > 0 {
				sb.WriteByte('.')
			}
			c = unicode.ToLower(c)
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// ChromaGrammars returns a registry of tokenizers
// for the given chroma lexer names, aliases, or file extensions.
// Names that chroma does not recognize are skipped.
// If no names are given, ChromaGrammars registers every lexer chroma knows
// under its name and aliases.
func ChromaGrammars(names ...string) Grammars {
	if len(names) == 0 {
		names = lexers.Names(true)
	}
	g := make(Grammars, len(names))
	for _, name := range names {
		lexer := lexers.Get(name)
		if lexer == nil {
			lexer = lexers.Match("file." + name)
		}
		if lexer == nil {
			continue
		}
		g[foldName(name)] = ChromaTokenizer(lexer)
	}
	return g
}
