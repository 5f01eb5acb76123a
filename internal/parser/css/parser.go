// Package css parses style regions of templates.
package css

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// Parser wraps a pooled tree-sitter CSS parser.
type Parser struct {
	parser *sitter.Parser
}

var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
	},
}

// AcquireParser takes a parser from the pool.
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns p to the pool.
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close frees the underlying tree-sitter parser.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ClosePool drains and closes pooled parsers at shutdown.
func ClosePool() {
	for range 32 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Parse is a convenience wrapper around a pooled parser.
func Parse(source string) (*Stylesheet, error) {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Parse(source)
}

var colorFunctions = map[string]bool{
	"rgb": true, "rgba": true, "hsl": true, "hsla": true, "hwb": true,
	"lab": true, "lch": true, "oklab": true, "oklch": true,
}

// Parse reads a stylesheet or declaration list.
func (p *Parser) Parse(source string) (*Stylesheet, error) {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	sheet := &Stylesheet{}
	w := walker{src: src, sheet: sheet}
	w.walk(tree.RootNode())
	return sheet, nil
}

type walker struct {
	src   []byte
	sheet *Stylesheet
}

func (w *walker) text(n *sitter.Node) string {
	return string(w.src[n.StartByte():n.EndByte()])
}

func span(n *sitter.Node) Span {
	return Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (w *walker) walk(n *sitter.Node) {
	switch {
	case n.IsMissing():
		w.sheet.Errors = append(w.sheet.Errors, &SyntaxError{Span: span(n), Missing: n.Kind()})
		return
	case n.IsError():
		w.sheet.Errors = append(w.sheet.Errors, &SyntaxError{Span: span(n)})
	}

	switch n.Kind() {
	case "declaration":
		w.declaration(n)
	case "color_value":
		w.color(n)
	case "call_expression":
		if fn := firstOfKind(n, "function_name"); fn != nil && colorFunctions[strings.ToLower(w.text(fn))] {
			w.color(n)
			return
		}
	case "plain_value":
		if isWord(w.text(n)) {
			w.color(n)
		}
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		w.walk(n.Child(i))
	}
}

func (w *walker) declaration(n *sitter.Node) {
	prop := firstOfKind(n, "property_name")
	if prop == nil {
		return
	}
	d := &Declaration{
		Property:     w.text(prop),
		PropertySpan: span(prop),
		Span:         span(n),
	}
	// value runs from after the colon to before the optional semicolon
	start, end := -1, -1
	afterColon := false
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		switch {
		case c.Kind() == ":":
			afterColon = true
		case c.Kind() == ";":
		case afterColon:
			if start < 0 {
				start = int(c.StartByte())
			}
			end = int(c.EndByte())
		}
	}
	if start >= 0 {
		d.ValueSpan = Span{Start: start, End: end}
		d.Value = string(w.src[start:end])
	}
	w.sheet.Declarations = append(w.sheet.Declarations, d)
}

func (w *walker) color(n *sitter.Node) {
	w.sheet.Colors = append(w.sheet.Colors, &ColorCandidate{Text: w.text(n), Span: span(n)})
}

func firstOfKind(n *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c.Kind() == kind {
			return c
		}
	}
	return nil
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
