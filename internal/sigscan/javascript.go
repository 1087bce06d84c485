package sigscan

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

func init() {
	languages[".js"] = &language{
		lang:     javascript.GetLanguage(),
		fromNode: jsSignature,
	}
}

// jsSignature handles declared functions and class methods. Anonymous
// function expressions and arrows are skipped: they have no declared name
// to report.
func jsSignature(n *sitter.Node, src []byte) (Signature, bool) {
	switch n.Type() {
	case "function_declaration", "generator_function_declaration", "method_definition":
	default:
		return Signature{}, false
	}
	name := nodeText(n.ChildByFieldName("name"), src)
	if name == "" {
		return Signature{}, false
	}
	args := 0
	if params := n.ChildByFieldName("parameters"); params != nil {
		args = int(params.NamedChildCount())
	}
	return Signature{Name: name, ArgCount: args}, true
}
