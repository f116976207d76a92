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

import "testing"

func TestParseKey(t *testing.T) {
	tests := []struct {
		s       string
		want    Key
		wantErr bool
	}{
		{s: "a", want: Key{Name: "a"}},
		{s: "Enter", want: Key{Name: "enter"}},
		{s: "return", want: Key{Name: "enter"}},
		{s: "del", want: Key{Name: "delete"}},
		{s: " backspace ", want: Key{Name: "backspace"}},
		{s: "ctrl+b", want: Key{Name: "b", Ctrl: true}},
		{s: "Ctrl+B", want: Key{Name: "b", Ctrl: true}},
		{s: "control+`", want: Key{Name: "`", Ctrl: true}},
		{s: "+", want: Key{Name: "+"}},
		{s: "ctrl++", want: Key{Name: "+", Ctrl: true}},
		{s: "", wantErr: true},
		{s: "alt+b", wantErr: true},
	}
	for _, test := range tests {
		got, err := ParseKey(test.s)
		if err != nil {
			if !test.wantErr {
				t.Errorf("ParseKey(%q): %v", test.s, err)
			}
			continue
		}
		if test.wantErr {
			t.Errorf("ParseKey(%q) = %v, <nil>; want error", test.s, got)
			continue
		}
		if got != test.want {
			t.Errorf("ParseKey(%q) = %v; want %v", test.s, got, test.want)
		}
	}
}

func TestKeyString(t *testing.T) {
	for _, s := range []string{"a", "enter", "ctrl+b", "ctrl+`"} {
		k, err := ParseKey(s)
		if err != nil {
			t.Errorf("ParseKey(%q): %v", s, err)
			continue
		}
		if got := k.String(); got != s {
			t.Errorf("ParseKey(%q).String() = %q; want %q", s, got, s)
		}
	}
}

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		key  Key
		want Command
	}{
		{Key{Name: "backspace"}, DeleteBackward},
		{Key{Name: "delete"}, DeleteForward},
		{Key{Name: "enter"}, InsertBreak},
		{Key{Name: "b", Ctrl: true}, ToggleBold},
		{Key{Name: "`", Ctrl: true}, ToggleCode},
		{Key{Name: "z", Ctrl: true}, Undo},
		{Key{Name: "y", Ctrl: true}, Redo},
		{Key{Name: "b"}, NoCommand},
		{Key{Name: "enter", Ctrl: true}, NoCommand},
		{Key{Name: "q", Ctrl: true}, NoCommand},
	}
	for _, test := range tests {
		if got := KeyCommand(test.key); got != test.want {
			t.Errorf("KeyCommand(%v) = %v; want %v", test.key, got, test.want)
		}
	}
}
