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
)

// Key is a key press.
type Key struct {
	// Name is the lowercase name of the key,
	// like "a", "enter", or "backspace".
	Name string
	Ctrl bool
}

// ParseKey parses a key in the form "ctrl+b" or "enter".
// Key and modifier names are case-insensitive.
func ParseKey(s string) (Key, error) {
	var k Key
	rest := strings.ToLower(strings.TrimSpace(s))
	for {
		mod, name, ok := strings.Cut(rest, "+")
		if !ok || name == "" {
			// A trailing "+" names the plus key.
			break
		}
		switch mod {
		case "ctrl", "control":
			k.Ctrl = true
		default:
			return Key{}, fmt.Errorf("parse key %q: unknown modifier %q", s, mod)
		}
		rest = name
	}
	if rest == "" {
		return Key{}, fmt.Errorf("parse key %q: missing key name", s)
	}
	switch rest {
	case "return":
		rest = "enter"
	case "del":
		rest = "delete"
	}
	k.Name = rest
	return k, nil
}

func (k Key) String() string {
	if k.Ctrl {
		return "ctrl+" + k.Name
	}
	return k.Name
}

// KeyCommand returns the command bound to a key press
// or [NoCommand] if the key is not bound.
func KeyCommand(k Key) Command {
	if k.Ctrl {
		switch k.Name {
		case "b":
			return ToggleBold
		case "`":
			return ToggleCode
		case "z":
			return Undo
		case "y":
			return Redo
		}
		return NoCommand
	}
	switch k.Name {
	case "backspace":
		return DeleteBackward
	case "delete":
		return DeleteForward
	case "enter":
		return InsertBreak
	}
	return NoCommand
}
