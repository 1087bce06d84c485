package sigscan

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

func init() {
	languages[".py"] = &language{
		lang:     python.GetLanguage(),
		fromNode: pythonSignature,
	}
}

// pythonSignature handles function_definition nodes, including methods and
// nested defs. The argument count is the literal parameter list length
// (self/cls included), matching how the declarations read.
func pythonSignature(n *sitter.Node, src []byte) (Signature, bool) {
	if n.Type() != "function_definition" {
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
