package sigscan

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

func init() {
	languages[".go"] = &language{
		lang:     golang.GetLanguage(),
		fromNode: goSignature,
	}
}

// goSignature handles function and method declarations. Receivers are not
// counted as arguments; grouped parameters (a, b int) count per name.
func goSignature(n *sitter.Node, src []byte) (Signature, bool) {
	switch n.Type() {
	case "function_declaration", "method_declaration":
	default:
		return Signature{}, false
	}
	name := nodeText(n.ChildByFieldName("name"), src)
	if name == "" {
		return Signature{}, false
	}
	args := 0
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			args += goParamCount(params.NamedChild(i))
		}
	}
	return Signature{Name: name, ArgCount: args}, true
}

// goParamCount counts declared names in one parameter_declaration;
// an unnamed parameter (func f(int)) still counts as one.
func goParamCount(pd *sitter.Node) int {
	if pd == nil {
		return 0
	}
	switch pd.Type() {
	case "parameter_declaration", "variadic_parameter_declaration":
	default:
		return 0
	}
	names := 0
	for i := 0; i < int(pd.NamedChildCount()); i++ {
		if pd.NamedChild(i).Type() == "identifier" {
			names++
		}
	}
	if names == 0 {
		return 1
	}
	return names
}
