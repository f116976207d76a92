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
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Change describes a new version of a session's document.
type Change struct {
	// Version is the document version after the change.
	Version uint64
	// Markdown is the document exported after the change.
	Markdown string
	// Previous is the document exported before the change.
	Previous string
}

// Patch returns the change as a textual patch
// that transforms Previous into Markdown.
// The patch is in the format produced by diff-match-patch.
func (c Change) Patch() string {
	dmp := diffmatchpatch.New()
	return dmp.PatchToText(dmp.PatchMake(c.Previous, c.Markdown))
}

// ApplyPatch applies a patch produced by [Change.Patch] to text.
// It reports whether every hunk of the patch applied cleanly.
func ApplyPatch(text, patch string) (string, bool) {
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patch)
	if err != nil {
		return text, false
	}
	result, applied := dmp.PatchApply(patches, text)
	for _, ok := range applied {
		if !ok {
			return result, false
		}
	}
	return result, true
}
