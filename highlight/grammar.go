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
	"strings"

	"golang.org/x/text/cases"
)

// A Tokenizer splits text into a lexical token tree.
// The raw tokens of the returned trees, read in order,
// must spell out the text exactly.
type Tokenizer func(text string) ([]Token, error)

// Grammars is a registry of tokenizers keyed by language name.
type Grammars map[string]Tokenizer

// Lookup returns the tokenizer registered for the language
// named by a code block's language tag, or nil if there is none.
// Only the first word of the tag is considered
// and names are matched without regard to case.
func (g Grammars) Lookup(tag string) Tokenizer {
	name := LanguageName(tag)
	if name == "" {
		return nil
	}
	if t := g[name]; t != nil {
		return t
	}
	folded := foldName(name)
	if t := g[folded]; t != nil {
		return t
	}
	for key, t := range g {
		if foldName(key) == folded {
			return t
		}
	}
	return nil
}

// LanguageName returns the first word of a code block's language tag.
func LanguageName(tag string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(tag), " ")
	name, _, _ = strings.Cut(name, "\t")
	return name
}

func foldName(name string) string {
	return cases.Fold().String(name)
}
