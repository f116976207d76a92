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

// richtext loads a Markdown document into an editing session,
// replays key presses against it,
// and prints the result as Markdown, HTML, or styled terminal text.
//
// Usage:
//
//	richtext [options] [FILE]
//
// If FILE is omitted, the document is read from standard input.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"zombiezen.com/go/richtext"
	"zombiezen.com/go/richtext/editor"
	"zombiezen.com/go/richtext/highlight"
	"zombiezen.com/go/richtext/render"
)

func main() {
	if err := run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "richtext:", err)
		}
		os.Exit(1)
	}
}

type options struct {
	html      bool
	ansi      bool
	color     bool
	patch     bool
	verbose   bool
	themeFile string
	keys      string
	text      string
	selection string
	language  string
}

func run(stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	fset := flag.NewFlagSet("richtext", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.Usage = func() {
		fmt.Fprintln(stderr, "usage: richtext [options] [FILE]")
		fset.PrintDefaults()
	}
	opts := new(options)
	fset.BoolVar(&opts.html, "html", false, "print the document as HTML")
	fset.BoolVar(&opts.ansi, "ansi", false, "print the document as styled terminal text")
	fset.BoolVar(&opts.color, "color", false, "force 24-bit color for -ansi")
	fset.BoolVar(&opts.patch, "patch", false, "print a patch for every change instead of the document")
	fset.BoolVar(&opts.verbose, "v", false, "log debug messages to stderr")
	fset.StringVar(&opts.themeFile, "theme", "", "TOML or YAML `file` with the theme for -html and -ansi")
	fset.StringVar(&opts.keys, "keys", "", "comma-separated `list` of keys to press, like ctrl+b,enter")
	fset.StringVar(&opts.text, "type", "", "`text` to type before pressing keys")
	fset.StringVar(&opts.selection, "select", "all", "initial selection: all, start, or end")
	fset.StringVar(&opts.language, "lang", editor.DefaultLanguage, "language tag for new code blocks")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if fset.NArg() > 1 {
		fset.Usage()
		return errors.New("too many arguments")
	}
	if opts.html && opts.ansi {
		return errors.New("-html and -ansi are mutually exclusive")
	}

	logger := zap.NewNop()
	if opts.verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return err
		}
		defer logger.Sync()
	}

	var input []byte
	var err error
	if fset.NArg() == 1 {
		input, err = os.ReadFile(fset.Arg(0))
	} else {
		input, err = io.ReadAll(stdin)
	}
	if err != nil {
		return err
	}

	var theme *render.Theme
	if opts.themeFile != "" {
		data, err := os.ReadFile(opts.themeFile)
		if err != nil {
			return err
		}
		theme, err = render.LoadTheme(opts.themeFile, data)
		if err != nil {
			return err
		}
	}

	keys, err := parseKeys(opts.keys)
	if err != nil {
		return err
	}

	engine := &highlight.Engine{
		Grammars: highlight.ChromaGrammars(),
		Logger:   logger.Named("highlight"),
	}
	var patches []string
	s := editor.New(string(input), &editor.Options{
		Engine: engine,
		OnChange: func(c editor.Change) {
			patches = append(patches, c.Patch())
		},
		Logger:          logger.Named("editor"),
		DefaultLanguage: opts.language,
	})
	if err := selectInitial(s, opts.selection); err != nil {
		return err
	}
	if opts.text != "" {
		s.InsertText(opts.text)
	}
	for _, k := range keys {
		cmd := editor.KeyCommand(k)
		if cmd == editor.NoCommand {
			logger.Warn("Key not bound to a command", zap.Stringer("key", k))
			continue
		}
		s.Execute(cmd)
	}

	switch {
	case opts.patch:
		for _, p := range patches {
			if _, err := io.WriteString(stdout, p); err != nil {
				return err
			}
		}
		return nil
	case opts.html:
		r := &render.HTMLRenderer{
			Decorations: s.Decorations(),
			Theme:       theme,
		}
		if err := r.Render(stdout, s.Document()); err != nil {
			return err
		}
		_, err := io.WriteString(stdout, "\n")
		return err
	case opts.ansi:
		lr := lipgloss.NewRenderer(stdout)
		if opts.color {
			lr.SetColorProfile(termenv.TrueColor)
		}
		r := &render.TerminalRenderer{
			Decorations: s.Decorations(),
			Theme:       theme,
			Renderer:    lr,
		}
		return r.Render(stdout, s.Document())
	default:
		_, err := io.WriteString(stdout, s.Markdown()+"\n")
		return err
	}
}

func parseKeys(list string) ([]editor.Key, error) {
	if list == "" {
		return nil, nil
	}
	var keys []editor.Key
	for _, name := range strings.Split(list, ",") {
		k, err := editor.ParseKey(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func selectInitial(s *editor.Session, mode string) error {
	switch mode {
	case "all":
		s.SelectAll()
		return nil
	case "start":
		return s.Select(richtext.Collapsed(richtext.Pos{}))
	case "end":
		return s.Select(richtext.Collapsed(s.Document().End()))
	default:
		return fmt.Errorf("unknown selection %q", mode)
	}
}
