// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/listview/highlight.go
// Summary: Per-row syntax colouring with chroma, language picked by go-enry.

package listview

import (
	"log"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
	"github.com/go-enry/go-enry/v2"
)

// maxCachedRows bounds the style cache; it is dropped wholesale when full.
const maxCachedRows = 4096

type highlighter struct {
	lexer    chroma.Lexer
	style    *chroma.Style
	base     chroma.Colour
	language string

	mu    sync.Mutex
	cache map[int][]tcell.Style
}

// detectLanguage names the language of a source from its name and leading
// rows. Returns "" when nothing matches.
func detectLanguage(name, sample string) string {
	if lang, ok := enry.GetLanguageByFilename(name); ok {
		return lang
	}
	if lang, ok := enry.GetLanguageByExtension(name); ok {
		return lang
	}
	if lang, ok := enry.GetLanguageByShebang([]byte(sample)); ok {
		return lang
	}
	if sample == "" || enry.IsBinary([]byte(sample)) {
		return ""
	}
	return enry.GetLanguage(name, []byte(sample))
}

// newHighlighter returns nil when highlighting is off or no lexer fits.
func newHighlighter(name, sample, styleName string) *highlighter {
	lang := detectLanguage(name, sample)
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Match(name)
	}
	if lexer == nil {
		return nil
	}
	if styleName == "" {
		styleName = "monokai"
	}
	style := styles.Get(styleName)
	log.Printf("ListView: Highlighting %s as %s (%s)", name, lexer.Config().Name, style.Name)
	return &highlighter{
		lexer:    chroma.Coalesce(lexer),
		style:    style,
		base:     style.Get(chroma.Text).Colour,
		language: lexer.Config().Name,
		cache:    make(map[int][]tcell.Style),
	}
}

// Language returns the lexer name in use.
func (h *highlighter) Language() string {
	if h == nil {
		return ""
	}
	return h.language
}

// styles returns one style per rune of row i. Rows are tokenised on their
// own, so constructs spanning rows are coloured per row.
func (h *highlighter) styles(i int, row []rune) []tcell.Style {
	out := make([]tcell.Style, len(row))
	for k := range out {
		out[k] = tcell.StyleDefault
	}
	if h == nil || len(row) == 0 {
		return out
	}

	h.mu.Lock()
	cached, ok := h.cache[i]
	h.mu.Unlock()
	if ok && len(cached) == len(row) {
		return cached
	}

	tokens, err := chroma.Tokenise(h.lexer, nil, string(row)+"\n")
	if err != nil {
		return out
	}
	pos := 0
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		st := h.tokenStyle(tok.Type)
		for range []rune(tok.Value) {
			if pos >= len(out) {
				break
			}
			out[pos] = st
			pos++
		}
	}

	h.mu.Lock()
	if len(h.cache) >= maxCachedRows {
		h.cache = make(map[int][]tcell.Style)
	}
	h.cache[i] = out
	h.mu.Unlock()
	return out
}

func (h *highlighter) tokenStyle(t chroma.TokenType) tcell.Style {
	entry := h.style.Get(t)
	st := tcell.StyleDefault
	if entry.Colour.IsSet() && entry.Colour != h.base {
		st = st.Foreground(tcell.NewRGBColor(
			int32(entry.Colour.Red()),
			int32(entry.Colour.Green()),
			int32(entry.Colour.Blue()),
		))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	return st
}
