// Package sigscan extracts function signatures (name + declared argument
// count) from source files using tree-sitter. Parsing is purely local:
// malformed or unsupported input yields an empty sequence, never an error.
package sigscan

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Signature is one function definition, in order of appearance.
type Signature struct {
	Name     string `json:"name"`
	ArgCount int    `json:"arg_count"`
}

// language binds a tree-sitter grammar to a per-node signature extractor.
type language struct {
	lang *sitter.Language
	// fromNode returns the signature for a definition node, or ok=false
	// when the node is not a function definition.
	fromNode func(n *sitter.Node, src []byte) (Signature, bool)
}

// languages maps file extensions to grammar configs.
// Populated by init() functions in per-language files.
var languages = map[string]*language{}

// Supported reports whether files with the given extension can be parsed.
func Supported(ext string) bool {
	_, ok := languages[strings.ToLower(ext)]
	return ok
}

// Extract parses the source and returns its function signatures in
// definition order. path is used only for extension-based grammar
// selection. Unsupported extensions and unparseable input return nil.
func Extract(path, text string) []Signature {
	cfg, ok := languages[strings.ToLower(filepath.Ext(path))]
	if !ok || len(text) == 0 {
		return nil
	}

	p := sitter.NewParser()
	p.SetLanguage(cfg.lang)
	tree, err := p.ParseCtx(context.Background(), nil, []byte(text))
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()

	var sigs []Signature
	walk(tree.RootNode(), func(n *sitter.Node) {
		if sig, ok := cfg.fromNode(n, []byte(text)); ok {
			sigs = append(sigs, sig)
		}
	})
	return sigs
}

// walk visits named nodes depth-first in document order.
func walk(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), visit)
	}
}

func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}
